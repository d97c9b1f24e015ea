// Package config holds the tunable settings for the editing engine:
// history depth, the coalescing window, and streaming search chunk
// sizes. Settings come from a TOML file with SCRIBE_* environment
// variables layered on top; every field has a working default so a
// missing file is not an error.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/scribe/internal/engine/history"
	"github.com/dshills/scribe/internal/search"
)

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid config")

// Duration is a time.Duration that unmarshals from TOML strings like
// "500ms" or "2s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full engine configuration.
type Config struct {
	History HistoryConfig `toml:"history"`
	Search  SearchConfig  `toml:"search"`
}

// HistoryConfig controls the command log.
type HistoryConfig struct {
	// MaxEntries bounds the undo stack; the oldest entry is evicted
	// when it is full.
	MaxEntries int `toml:"max_entries"`

	// CoalesceWindow is how close together two adjacent edits must land
	// to be merged into one undo step. Zero disables coalescing.
	CoalesceWindow Duration `toml:"coalesce_window"`
}

// SearchConfig controls streaming search chunking.
type SearchConfig struct {
	ChunkSize int `toml:"chunk_size"`
	Overlap   int `toml:"overlap"`
}

// Default returns a Config with every field set to its default.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			MaxEntries:     history.DefaultMaxEntries,
			CoalesceWindow: Duration(history.DefaultCoalesceWindow),
		},
		Search: SearchConfig{
			ChunkSize: search.DefaultChunkSize,
			Overlap:   search.DefaultOverlap,
		},
	}
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("%w: history.max_entries must be positive, got %d",
			ErrInvalidConfig, c.History.MaxEntries)
	}
	if c.History.CoalesceWindow < 0 {
		return fmt.Errorf("%w: history.coalesce_window must not be negative, got %s",
			ErrInvalidConfig, c.History.CoalesceWindow.Std())
	}
	if c.Search.ChunkSize <= 0 {
		return fmt.Errorf("%w: search.chunk_size must be positive, got %d",
			ErrInvalidConfig, c.Search.ChunkSize)
	}
	if c.Search.Overlap < 0 {
		return fmt.Errorf("%w: search.overlap must not be negative, got %d",
			ErrInvalidConfig, c.Search.Overlap)
	}
	if c.Search.Overlap >= c.Search.ChunkSize {
		return fmt.Errorf("%w: search.overlap (%d) must be smaller than search.chunk_size (%d)",
			ErrInvalidConfig, c.Search.Overlap, c.Search.ChunkSize)
	}
	return nil
}

// ChunkConfig returns the search chunking as the search package's
// config type.
func (c *Config) ChunkConfig() search.ChunkConfig {
	return search.ChunkConfig{Size: c.Search.ChunkSize, Overlap: c.Search.Overlap}
}
