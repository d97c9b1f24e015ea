package search

import (
	"context"
	"unicode/utf8"
)

// Chunked scan defaults.
const (
	// DefaultChunkSize is how much new text each scan pass covers.
	DefaultChunkSize = 64 * 1024
	// DefaultOverlap is the trailing window carried into the next pass
	// so matches straddling a chunk boundary are still found. Matches
	// longer than the overlap may be split or missed.
	DefaultOverlap = 1024
)

// ChunkConfig sizes the streaming scan window. Zero fields take the
// package defaults.
type ChunkConfig struct {
	Size    int
	Overlap int
}

func (c ChunkConfig) normalized() ChunkConfig {
	if c.Size <= 0 {
		c.Size = DefaultChunkSize
	}
	if c.Overlap <= 0 {
		c.Overlap = DefaultOverlap
	}
	return c
}

// SearchFunc receives each match in order of appearance. Returning
// false stops the scan.
type SearchFunc func(res Result) bool

// Search streams matches of pattern in text to fn, scanning one chunk
// at a time with the default chunk sizing. The context is checked
// between chunks, so a caller can cancel a scan over a large buffer
// without waiting for it to finish; cancellation returns ErrCanceled.
// The emitted sequence of matches is identical to FindAll on the same
// input for any match shorter than the overlap window.
func Search(ctx context.Context, pattern, text string, opts Options, fn SearchFunc) error {
	return SearchChunked(ctx, pattern, text, opts, ChunkConfig{}, fn)
}

// SearchChunked is Search with explicit chunk sizing.
//
// Each pass scans [base-overlap, base+size+overlap) and emits only
// matches starting inside [base, base+size). The lead-in gives
// zero-width assertions their real left context: without it, \b and
// (?m)^ would treat the window edge as a word or line boundary that
// does not exist in the full text. Matches starting in the lead-in
// were the previous pass's responsibility; matches starting in the
// trailing overlap are left for the next pass, which begins there. A
// high-water mark of the last emitted match end suppresses re-emission
// of matches the overlap rediscovers and of spurious sub-matches
// inside an already emitted span.
func SearchChunked(ctx context.Context, pattern, text string, opts Options, cfg ChunkConfig, fn SearchFunc) error {
	re, err := Compile(pattern, opts)
	if err != nil {
		return err
	}
	cfg = cfg.normalized()

	ix := indexText(text)
	doneThrough := 0
	for base := 0; ; base += cfg.Size {
		select {
		case <-ctx.Done():
			return ErrCanceled
		default:
		}

		chunkLimit := base + cfg.Size
		lastPass := chunkLimit >= len(text)

		// Window edges snapped forward to rune boundaries so the
		// regexp never sees a split UTF-8 sequence.
		start := runeCeil(text, base-cfg.Overlap)
		end := runeCeil(text, chunkLimit+cfg.Overlap)
		for _, loc := range re.FindAllStringIndex(text[start:end], -1) {
			abs0, abs1 := start+loc[0], start+loc[1]
			if abs0 < base || abs0 < doneThrough {
				continue
			}
			if abs0 >= chunkLimit && !lastPass {
				break
			}
			if !fn(ix.result(text, abs0, abs1)) {
				return nil
			}
			doneThrough = abs1
		}

		if lastPass {
			return nil
		}
	}
}

// runeCeil returns the first rune boundary at or after byte offset b,
// clamped to the bounds of the text.
func runeCeil(text string, b int) int {
	if b < 0 {
		return 0
	}
	if b >= len(text) {
		return len(text)
	}
	for b < len(text) && !utf8.RuneStart(text[b]) {
		b++
	}
	return b
}
