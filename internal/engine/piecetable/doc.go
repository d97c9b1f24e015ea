// Package piecetable provides a piece-table text store addressed in
// grapheme clusters.
//
// A piece table represents a document as an ordered list of pieces, each
// referencing a run of text in one of two append-only backing buffers:
// the original buffer (content at construction time) and the added buffer
// (everything inserted since). Edits restructure the piece list; backing
// bytes are never rewritten, so an insert or delete costs O(pieces
// touched) rather than O(document size).
//
// All offsets are counted in grapheme clusters (user-perceived
// characters), not bytes or runes. Each backing buffer carries a
// precomputed cluster boundary index so that resolving a cluster offset
// to a byte slice is O(1) instead of a rescan. Multi-scalar characters
// such as combining sequences and emoji are therefore never split by an
// edit.
//
// Basic usage:
//
//	t := piecetable.New("hello world")
//	t.Insert(5, ",")    // "hello, world"
//	t.Delete(0, 6)      // "world"
//	text := t.String()  // "world"
//
// Out-of-range offsets are reported with ErrOffsetOutOfRange and
// ErrRangeInvalid; the piece list is never modified by a failed call.
// The table is not safe for concurrent use; callers needing locking
// should use the buffer package, which wraps a Table.
package piecetable
