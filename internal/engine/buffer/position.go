package buffer

import (
	"fmt"
	"sync/atomic"
)

// CharOffset represents a grapheme-cluster position in the buffer.
// This is the fundamental position type; one unit is one user-perceived
// character, regardless of how many bytes or runes compose it.
type CharOffset = int

// Point represents a line and column position.
// Line and Column are 1-based; Column is measured in grapheme clusters
// from the start of the line.
type Point struct {
	Line   int
	Column int
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line != other.Line {
		if p.Line < other.Line {
			return -1
		}
		return 1
	}
	if p.Column != other.Column {
		if p.Column < other.Column {
			return -1
		}
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
