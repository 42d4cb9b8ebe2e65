package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithMaxUndo sets how many transactions the undo history keeps.
func WithMaxUndo(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.maxUndo = n
		}
	}
}

// WithPath sets the buffer's backing file path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithLineEnding sets the line ending used when saving.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}
