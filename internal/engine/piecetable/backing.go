package piecetable

import "github.com/rivo/uniseg"

// backing is an append-only text store with a grapheme cluster boundary
// index. bounds[i] is the byte offset where cluster i begins, with a
// final sentinel entry at len(data), so the text of clusters [i, j) is
// data[bounds[i]:bounds[j]]. The index grows monotonically; deleted
// pieces leave their bytes and index entries in place.
type backing struct {
	data   []byte
	bounds []int
}

func newBacking(text string) *backing {
	b := &backing{bounds: []int{0}}
	b.append(text)
	return b
}

// clusters returns the number of grapheme clusters stored.
func (b *backing) clusters() int {
	return len(b.bounds) - 1
}

// append adds text to the store and returns the cluster offset and
// cluster count of the appended run. The appended text is segmented on
// its own, so its cluster boundaries are fixed at insertion time.
func (b *backing) append(text string) (start, count int) {
	start = b.clusters()
	if text == "" {
		return start, 0
	}

	base := len(b.data)
	b.data = append(b.data, text...)

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, end := g.Positions()
		b.bounds = append(b.bounds, base+end)
		count++
	}
	return start, count
}

// slice returns the text of clusters [start, start+length).
// Caller guarantees the range is within the store.
func (b *backing) slice(start, length int) string {
	if length == 0 {
		return ""
	}
	return string(b.data[b.bounds[start]:b.bounds[start+length]])
}
