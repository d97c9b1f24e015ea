package buffer

import "fmt"

// Range represents a grapheme-cluster range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start CharOffset // Inclusive start position
	End   CharOffset // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
func NewRange(start, end CharOffset) Range {
	return Range{Start: start, End: end}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in grapheme clusters.
func (r Range) Len() CharOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset CharOffset) bool {
	return offset >= r.Start && offset < r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Union returns the smallest range that contains both ranges.
func (r Range) Union(other Range) Range {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Shift returns a new range shifted by the given delta.
func (r Range) Shift(delta CharOffset) Range {
	return Range{
		Start: r.Start + delta,
		End:   r.End + delta,
	}
}
