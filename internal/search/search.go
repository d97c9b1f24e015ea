package search

import (
	"sort"

	"github.com/rivo/uniseg"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// Result describes a single match.
type Result struct {
	// Range is the match span in grapheme clusters. When a regex match
	// ends inside a multi-byte cluster the range is widened outward to
	// the enclosing cluster boundaries, so the range is always a valid
	// buffer edit span.
	Range buffer.Range

	// Text is the exact matched substring, unwidened.
	Text string

	// Line is the 1-based line of the match start. A \r\n pair counts
	// as one line break; a lone \r also ends a line.
	Line int

	// Column is the 1-based column of the match start, counted in
	// grapheme clusters from the start of the line.
	Column int
}

// FindAll returns every non-overlapping match of pattern in text, in
// order of appearance. A nil slice means no matches.
func FindAll(pattern, text string, opts Options) ([]Result, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	ix := indexText(text)
	results := make([]Result, 0, len(locs))
	for _, loc := range locs {
		results = append(results, ix.result(text, loc[0], loc[1]))
	}
	return results, nil
}

// Count returns the number of non-overlapping matches without
// materializing results.
func Count(pattern, text string, opts Options) (int, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return 0, err
	}
	return len(re.FindAllStringIndex(text, -1)), nil
}

// textIndex maps byte offsets in a subject string to grapheme-cluster
// offsets and line positions. Built in one pass and shared across all
// matches of a call.
type textIndex struct {
	// bounds[i] is the byte offset where cluster i starts; the final
	// entry is len(text).
	bounds []int
	// lineStarts[i] is the cluster offset where line i+1 starts.
	lineStarts []int
}

func indexText(text string) *textIndex {
	ix := &textIndex{lineStarts: []int{0}}
	g := uniseg.NewGraphemes(text)
	i := 0
	for g.Next() {
		start, _ := g.Positions()
		ix.bounds = append(ix.bounds, start)
		switch g.Str() {
		case "\n", "\r", "\r\n":
			ix.lineStarts = append(ix.lineStarts, i+1)
		}
		i++
	}
	ix.bounds = append(ix.bounds, len(text))
	return ix
}

// clusterFloor returns the offset of the cluster containing byte b, or
// the total cluster count when b is the end of the text.
func (ix *textIndex) clusterFloor(b int) int {
	i := sort.SearchInts(ix.bounds, b)
	if i < len(ix.bounds) && ix.bounds[i] == b {
		return i
	}
	return i - 1
}

// clusterCeil returns the first cluster boundary at or after byte b.
func (ix *textIndex) clusterCeil(b int) int {
	return sort.SearchInts(ix.bounds, b)
}

// pointAt returns the 1-based line and column of a cluster offset.
func (ix *textIndex) pointAt(cluster int) (line, col int) {
	li := sort.SearchInts(ix.lineStarts, cluster+1) - 1
	return li + 1, cluster - ix.lineStarts[li] + 1
}

func (ix *textIndex) result(text string, b0, b1 int) Result {
	start := ix.clusterFloor(b0)
	end := ix.clusterCeil(b1)
	line, col := ix.pointAt(start)
	return Result{
		Range:  buffer.NewRange(start, end),
		Text:   text[b0:b1],
		Line:   line,
		Column: col,
	}
}
