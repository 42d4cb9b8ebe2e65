package watcher

import (
	"time"

	"github.com/rs/zerolog"
)

// Config configures a Watcher.
type Config struct {
	// Delay is the debounce window. Zero delivers events immediately.
	Delay time.Duration

	// BufferSize is the capacity of the event channel.
	BufferSize int

	Logger zerolog.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Delay:      100 * time.Millisecond,
		BufferSize: 64,
		Logger:     zerolog.Nop(),
	}
}

// Option configures a Watcher.
type Option func(*Config)

// WithDelay sets the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Config) { c.Delay = d }
}

// WithBufferSize sets the event channel capacity.
func WithBufferSize(n int) Option {
	return func(c *Config) { c.BufferSize = n }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
