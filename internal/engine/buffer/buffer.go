package buffer

import (
	"sync"

	"github.com/dshills/scribe/internal/engine/piecetable"
)

// Errors returned by buffer operations. They are the piece table's
// sentinels, re-exported so callers can errors.Is against either
// package.
var (
	ErrOffsetOutOfRange = piecetable.ErrOffsetOutOfRange
	ErrRangeInvalid     = piecetable.ErrRangeInvalid
)

// Buffer wraps a piece table with locking and revision tracking.
// It provides the primary interface for text manipulation.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	table      *piecetable.Table
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		table:      piecetable.New(""),
		revisionID: NewRevisionID(),
	}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{
		table:      piecetable.New(s),
		revisionID: NewRevisionID(),
	}
}

// Read Operations

// Text returns the full buffer content as a string.
// For large buffers, prefer TextRange or a Snapshot.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.String()
}

// TextRange returns the text in the given grapheme range.
func (b *Buffer) TextRange(r Range) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Slice(r.Start, r.End)
}

// Len returns the total buffer length in grapheme clusters.
func (b *Buffer) Len() CharOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Len()
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.Len() == 0
}

// LineCount returns the number of lines. A buffer without line breaks
// has one line; \r\n counts as a single break.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return countLineBreaks(b.table.String()) + 1
}

// PieceCount returns the number of pieces in the underlying table.
func (b *Buffer) PieceCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.table.PieceCount()
}

// Write Operations

// Insert inserts text at the given grapheme offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset CharOffset, text string) (CharOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	before := b.table.Len()
	if err := b.table.Insert(offset, text); err != nil {
		return 0, err
	}
	if b.table.Len() != before {
		b.revisionID = NewRevisionID()
	}
	return offset + (b.table.Len() - before), nil
}

// Delete removes text in the given grapheme range.
func (b *Buffer) Delete(r Range) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.table.Delete(r.Start, r.End); err != nil {
		return err
	}
	if !r.IsEmpty() {
		b.revisionID = NewRevisionID()
	}
	return nil
}

// Clear resets the buffer to empty.
func (b *Buffer) Clear() {
	b.ReplaceAll("")
}

// ReplaceAll resets the buffer to a single-piece state over a fresh
// original buffer equal to text. Intended for document loads; ordinary
// edits should go through Insert and Delete.
func (b *Buffer) ReplaceAll(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.table.Reset(text)
	b.revisionID = NewRevisionID()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		text:       b.table.String(),
		length:     b.table.Len(),
		revisionID: b.revisionID,
	}
}

// countLineBreaks counts line breaks in s, treating \r\n as one break
// and a lone \r as a break of its own.
func countLineBreaks(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			count++
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			count++
		}
	}
	return count
}
