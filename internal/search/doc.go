// Package search provides pattern matching and replacement over text
// snapshots.
//
// The engine is stateless: every function takes the pattern, the
// subject text, and an Options value, and owns nothing between calls.
// Callers hand in a buffer snapshot and apply any resulting mutations
// through the buffer themselves; the engine never writes to a buffer.
//
// Literal patterns are escaped into an exact-substring matcher, so the
// whole engine compiles down to one regexp per call regardless of mode.
// Results carry grapheme-cluster ranges (the same units the buffer's
// insert and delete operations use) plus 1-based line and column
// positions, where \r\n counts as a single line break.
//
// The streaming variants (Search, ReplaceStream) process one chunk or
// one match at a time and check the context between units, so a host
// can cancel a long scan or interleave it with other work. Chunked
// scanning overlaps each window on both sides: the trailing overlap
// catches matches straddling a chunk boundary, the lead-in gives
// assertions like \b and (?m)^ their real left context, and a
// high-water mark suppresses duplicate emission of matches rediscovered
// inside the overlap; the streamed result sequence is identical to
// FindAll on the same input.
package search
