package highlight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/dshills/modal/internal/engine/buffer"
)

// Cache defaults.
const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// Config configures a Highlighter.
type Config struct {
	// Theme is a chroma style name.
	Theme string

	// Expiration is how long unused line spans stay cached.
	Expiration time.Duration

	Logger zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:      "monokai",
		Expiration: DefaultExpiration,
		Logger:     zerolog.Nop(),
	}
}

// Option configures a Highlighter.
type Option func(*Config)

// WithTheme sets the chroma style.
func WithTheme(name string) Option {
	return func(c *Config) { c.Theme = name }
}

// WithExpiration sets how long cached spans live.
func WithExpiration(d time.Duration) Option {
	return func(c *Config) { c.Expiration = d }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// Stats counts highlighter work.
type Stats struct {
	Jobs    int64 // buffer invalidations processed
	Lines   int64 // lines tokenised or found cached by the worker
	Dropped int64 // jobs abandoned for a newer snapshot
	Hits    int64
	Misses  int64
}

// job is the merged pending work for one buffer.
type job struct {
	snap     buffer.Snapshot
	from, to int
}

// Highlighter is a Hook that tokenises changed lines in the background.
type Highlighter struct {
	config Config
	style  *chroma.Style
	cache  *gocache.Cache
	log    zerolog.Logger

	mu      sync.Mutex
	pending map[buffer.ID]*job
	order   []buffer.ID
	lexers  map[string]chroma.Lexer

	wake  chan struct{}
	flush chan chan struct{}

	jobs, lines, dropped, hits, misses atomic.Int64

	// Lifecycle
	started  bool
	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

var _ Hook = (*Highlighter)(nil)

// New creates a Highlighter. Invalidations queue up until Start.
func New(opts ...Option) *Highlighter {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return &Highlighter{
		config:  config,
		style:   styles.Get(config.Theme),
		cache:   gocache.New(config.Expiration, DefaultCleanupInterval),
		log:     config.Logger.With().Str("component", "highlight").Logger(),
		pending: make(map[buffer.ID]*job),
		lexers:  make(map[string]chroma.Lexer),
		wake:    make(chan struct{}, 1),
		flush:   make(chan chan struct{}),
		closeCh: make(chan struct{}),
	}
}

// Start launches the background worker.
func (h *Highlighter) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started || h.closed {
		return
	}
	h.started = true
	h.closedWg.Add(1)
	go h.loop()
}

// Close stops the worker and waits for it to exit.
func (h *Highlighter) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()
	close(h.closeCh)
	h.closedWg.Wait()
}

// Style returns the chroma style used for colours.
func (h *Highlighter) Style() *chroma.Style {
	return h.style
}

// Invalidate queues the changed lines of inv. It never blocks. A queued
// job for the same buffer is merged: the line ranges are united and the
// newer snapshot wins, so out-of-order deliveries cannot resurrect old
// text.
func (h *Highlighter) Invalidate(inv Invalidation) {
	from, to := inv.Lines()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	j, ok := h.pending[inv.Buffer]
	if !ok {
		h.pending[inv.Buffer] = &job{snap: inv.Snapshot, from: from, to: to}
		h.order = append(h.order, inv.Buffer)
	} else {
		if inv.Snapshot.Version() > j.snap.Version() {
			j.snap = inv.Snapshot
		}
		j.from = min(j.from, from)
		j.to = max(j.to, to)
	}
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every queued invalidation has been processed or
// ctx is done. The worker must be started.
func (h *Highlighter) Flush(ctx context.Context) error {
	ack := make(chan struct{})
	select {
	case h.flush <- ack:
	case <-h.closeCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-ack:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the work counters.
func (h *Highlighter) Stats() Stats {
	return Stats{
		Jobs:    h.jobs.Load(),
		Lines:   h.lines.Load(),
		Dropped: h.dropped.Load(),
		Hits:    h.hits.Load(),
		Misses:  h.misses.Load(),
	}
}

// Line returns the spans of text as a line of the file name. Cached
// spans are returned when present; otherwise the line is tokenised
// now.
func (h *Highlighter) Line(name, text string) []Span {
	return h.spans(h.lexer(name), text)
}

func (h *Highlighter) lexer(name string) chroma.Lexer {
	h.mu.Lock()
	defer h.mu.Unlock()
	lex, ok := h.lexers[name]
	if !ok {
		lex = lexerFor(name)
		h.lexers[name] = lex
	}
	return lex
}

func (h *Highlighter) spans(lex chroma.Lexer, text string) []Span {
	key := lexerName(lex) + "\x00" + text
	if v, ok := h.cache.Get(key); ok {
		if spans, ok := v.([]Span); ok {
			h.hits.Add(1)
			return spans
		}
	}
	h.misses.Add(1)
	spans, err := tokenise(lex, text)
	if err != nil {
		h.log.Debug().Err(err).Str("lexer", lexerName(lex)).Msg("tokenise failed")
		return nil
	}
	h.cache.Set(key, spans, gocache.DefaultExpiration)
	return spans
}

func (h *Highlighter) loop() {
	defer h.closedWg.Done()
	for {
		select {
		case <-h.closeCh:
			return
		case <-h.wake:
			h.drain()
		case ack := <-h.flush:
			h.drain()
			close(ack)
		}
	}
}

// next pops the oldest pending job.
func (h *Highlighter) next() (buffer.ID, job, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for len(h.order) > 0 {
		id := h.order[0]
		h.order = h.order[1:]
		if j, ok := h.pending[id]; ok {
			delete(h.pending, id)
			return id, *j, true
		}
	}
	return buffer.ID{}, job{}, false
}

// superseded reports whether a newer snapshot of id has been queued.
func (h *Highlighter) superseded(id buffer.ID, version uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	j, ok := h.pending[id]
	return ok && j.snap.Version() > version
}

func (h *Highlighter) drain() {
	for {
		select {
		case <-h.closeCh:
			return
		default:
		}
		id, j, ok := h.next()
		if !ok {
			return
		}
		h.process(id, j)
	}
}

func (h *Highlighter) process(id buffer.ID, j job) {
	h.jobs.Add(1)
	lex := h.lexer(j.snap.Path())
	last := min(j.to, j.snap.LineCount()-1)
	for line := max(j.from, 0); line <= last; line++ {
		if h.superseded(id, j.snap.Version()) {
			h.dropped.Add(1)
			h.log.Debug().Str("buffer", id.String()).Uint64("version", j.snap.Version()).Msg("stale snapshot dropped")
			return
		}
		h.spans(lex, j.snap.Line(line))
		h.lines.Add(1)
	}
}
