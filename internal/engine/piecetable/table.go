package piecetable

import (
	"errors"
	"strings"
)

// Errors returned by table operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// BufferKind identifies which backing buffer a piece references.
type BufferKind uint8

const (
	BufferOriginal BufferKind = iota // content present at construction
	BufferAdded                      // content inserted afterwards
)

// String returns the string representation of the buffer kind.
func (k BufferKind) String() string {
	switch k {
	case BufferOriginal:
		return "original"
	case BufferAdded:
		return "added"
	default:
		return "unknown"
	}
}

// Piece references a run of text in a backing buffer. Start and Length
// are counted in grapheme clusters. A piece in a live table always has
// Length > 0.
type Piece struct {
	Kind   BufferKind
	Start  int
	Length int
}

// Table is a piece-table text store. The zero value is not usable;
// create tables with New.
type Table struct {
	original *backing
	added    *backing
	pieces   []Piece
	length   int
}

// New creates a table over the given initial text. The text becomes the
// original backing buffer; an empty document has zero pieces.
func New(text string) *Table {
	t := &Table{
		original: newBacking(text),
		added:    newBacking(""),
	}
	if n := t.original.clusters(); n > 0 {
		t.pieces = append(t.pieces, Piece{Kind: BufferOriginal, Start: 0, Length: n})
		t.length = n
	}
	return t
}

// Len returns the total document length in grapheme clusters.
func (t *Table) Len() int {
	return t.length
}

// PieceCount returns the number of pieces in the table.
func (t *Table) PieceCount() int {
	return len(t.pieces)
}

// Pieces returns a copy of the piece list, ordered by document position.
func (t *Table) Pieces() []Piece {
	out := make([]Piece, len(t.pieces))
	copy(out, t.pieces)
	return out
}

// find locates the piece containing the given cluster offset and the
// offset within that piece. Caller guarantees 0 <= offset < t.length.
func (t *Table) find(offset int) (idx, within int) {
	sum := 0
	for i, p := range t.pieces {
		if offset < sum+p.Length {
			return i, offset - sum
		}
		sum += p.Length
	}
	// Unreachable while the coverage invariant holds.
	last := len(t.pieces) - 1
	return last, t.pieces[last].Length
}

// Insert places text so that it begins at cluster position offset.
// Empty text is a no-op. The text is appended to the added backing
// buffer and referenced by a new piece; at most one existing piece is
// split. Inserting at 0 or at Len() appends a piece directly without
// locating a split point. Returns ErrOffsetOutOfRange if offset is
// negative or past the end.
func (t *Table) Insert(offset int, text string) error {
	if offset < 0 || offset > t.length {
		return ErrOffsetOutOfRange
	}
	if text == "" {
		return nil
	}

	start, count := t.added.append(text)
	np := Piece{Kind: BufferAdded, Start: start, Length: count}

	switch {
	case offset == t.length:
		// Append fast path; also creates the first piece of an
		// empty document.
		t.pieces = append(t.pieces, np)
	case offset == 0:
		t.pieces = insertPiece(t.pieces, np, 0)
	default:
		idx, within := t.find(offset)
		if within == 0 {
			// Piece boundary: no split needed.
			t.pieces = insertPiece(t.pieces, np, idx)
		} else {
			p := t.pieces[idx]
			t.pieces[idx].Length = within
			t.pieces = insertPiece(t.pieces, np, idx+1)
			back := Piece{Kind: p.Kind, Start: p.Start + within, Length: p.Length - within}
			t.pieces = insertPiece(t.pieces, back, idx+2)
		}
	}

	t.length += count
	return nil
}

// Delete removes the clusters in [start, end). Backing bytes are left
// untouched; overlapped pieces are dropped, shrunk, or split. Returns
// ErrRangeInvalid if the range is malformed or extends past the end.
func (t *Table) Delete(start, end int) error {
	if start < 0 || start > end || end > t.length {
		return ErrRangeInvalid
	}
	if start == end {
		return nil
	}

	idx, within := t.find(start)
	remaining := end - start

	for remaining > 0 {
		p := t.pieces[idx]
		take := p.Length - within
		if take > remaining {
			take = remaining
		}

		frontLen := within
		backLen := p.Length - within - take

		switch {
		case frontLen == 0 && backLen == 0:
			// Whole piece removed; the next piece slides into idx.
			t.pieces = append(t.pieces[:idx], t.pieces[idx+1:]...)
		case frontLen == 0:
			t.pieces[idx].Start += take
			t.pieces[idx].Length = backLen
			idx++
		case backLen == 0:
			t.pieces[idx].Length = frontLen
			idx++
		default:
			// Interior overlap: keep front, split off back.
			t.pieces[idx].Length = frontLen
			back := Piece{Kind: p.Kind, Start: p.Start + frontLen + take, Length: backLen}
			t.pieces = insertPiece(t.pieces, back, idx+1)
			idx += 2
		}

		remaining -= take
		within = 0
	}

	t.length -= end - start
	return nil
}

// String concatenates the text addressed by every piece in order.
func (t *Table) String() string {
	var sb strings.Builder
	for _, p := range t.pieces {
		sb.WriteString(t.backingFor(p.Kind).slice(p.Start, p.Length))
	}
	return sb.String()
}

// Slice returns the text of clusters [start, end). Pieces outside the
// range contribute nothing; the first and last overlapping pieces are
// trimmed to the requested bounds.
func (t *Table) Slice(start, end int) (string, error) {
	if start < 0 || start > end || end > t.length {
		return "", ErrRangeInvalid
	}
	if start == end {
		return "", nil
	}

	var sb strings.Builder
	pos := 0
	for _, p := range t.pieces {
		if pos >= end {
			break
		}
		pieceEnd := pos + p.Length
		if pieceEnd <= start {
			pos = pieceEnd
			continue
		}

		from := 0
		if start > pos {
			from = start - pos
		}
		to := p.Length
		if end < pieceEnd {
			to = end - pos
		}
		sb.WriteString(t.backingFor(p.Kind).slice(p.Start+from, to-from))
		pos = pieceEnd
	}
	return sb.String(), nil
}

// Reset replaces the table's content with a fresh original buffer equal
// to text. The previous backing buffers are released.
func (t *Table) Reset(text string) {
	*t = *New(text)
}

func (t *Table) backingFor(kind BufferKind) *backing {
	if kind == BufferAdded {
		return t.added
	}
	return t.original
}

// insertPiece inserts p into pieces at index idx.
func insertPiece(pieces []Piece, p Piece, idx int) []Piece {
	pieces = append(pieces, Piece{})
	copy(pieces[idx+1:], pieces[idx:])
	pieces[idx] = p
	return pieces
}
