package session

import (
	"errors"
	"fmt"

	"github.com/dshills/modal/internal/engine/buffer"
)

// ErrClosed is returned for keys sent after the session reached Closing.
var ErrClosed = errors.New("session closed")

// contract handles an error the engine should never produce for a
// well-formed key sequence. It is logged, never shown, and panics under
// WithStrict.
func (s *Session) contract(op string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, buffer.ErrOutOfBounds) || errors.Is(err, buffer.ErrInvalidRange) {
		s.log.Error().Err(err).Str("op", op).Msg("buffer contract violation")
		if s.strict {
			panic(fmt.Sprintf("session: %s: %v", op, err))
		}
		return
	}
	s.log.Warn().Err(err).Str("op", op).Msg("edit failed")
	s.status = err.Error()
}
