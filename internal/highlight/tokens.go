package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
)

// Span is a run of one token type within a line. Start and End are
// byte columns, End exclusive.
type Span struct {
	Start, End int
	Token      chroma.TokenType
}

// Len returns the span length in bytes.
func (s Span) Len() int { return s.End - s.Start }

// lexerFor picks a lexer from a file name, falling back to plain text.
func lexerFor(name string) chroma.Lexer {
	var lex chroma.Lexer
	if name != "" {
		lex = lexers.Match(name)
	}
	if lex == nil {
		lex = lexers.Fallback
	}
	return chroma.Coalesce(lex)
}

// lexerName is the cache namespace for a lexer.
func lexerName(lex chroma.Lexer) string {
	if cfg := lex.Config(); cfg != nil {
		return cfg.Name
	}
	return "fallback"
}

// tokenise splits one line into spans. Tokens past the end of the line,
// such as the newline some lexers append, are dropped.
func tokenise(lex chroma.Lexer, line string) ([]Span, error) {
	it, err := lex.Tokenise(nil, line)
	if err != nil {
		return nil, err
	}
	var spans []Span
	col := 0
	for tok := it(); tok != chroma.EOF; tok = it() {
		start := col
		col += len(tok.Value)
		end := min(col, len(line))
		if start >= end {
			continue
		}
		if n := len(spans); n > 0 && spans[n-1].Token == tok.Type && spans[n-1].End == start {
			spans[n-1].End = end
			continue
		}
		spans = append(spans, Span{Start: start, End: end, Token: tok.Type})
	}
	return spans, nil
}
