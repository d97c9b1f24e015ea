package engine

import (
	"time"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/search"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithConfig applies a loaded configuration: history depth, coalescing
// window, and search chunk sizing.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		e.maxUndoEntries = cfg.History.MaxEntries
		e.coalesceWindow = cfg.History.CoalesceWindow.Std()
		e.chunks = cfg.ChunkConfig()
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithCoalesceWindow sets how close together two adjacent edits must
// land to merge into one undo step. Zero disables coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.coalesceWindow = d
		}
	}
}

// WithClock overrides the history clock. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.clock = now
	}
}

// WithChunkConfig sets the streaming search window sizing.
func WithChunkConfig(cfg search.ChunkConfig) Option {
	return func(e *Engine) {
		e.chunks = cfg
	}
}

// WithReadOnly creates a read-only engine.
// Write operations will return ErrReadOnly.
func WithReadOnly() Option {
	return func(e *Engine) {
		e.readOnly = true
	}
}
