package engine

import (
	"strings"
	"testing"

	"github.com/dshills/scribe/internal/search"
)

func BenchmarkInsertSequential(b *testing.B) {
	e := New(WithCoalesceWindow(0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Insert(e.Len(), "x"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkUndoRedo(b *testing.B) {
	e := New(WithCoalesceWindow(0))
	for i := 0; i < 1000; i++ {
		if err := e.Insert(e.Len(), "x"); err != nil {
			b.Fatal(err)
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := e.Undo(); err != nil {
			b.Fatal(err)
		}
		if err := e.Redo(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindAll(b *testing.B) {
	e := New(WithContent(strings.Repeat("the quick brown fox\n", 1000)))
	opts := search.Options{CaseSensitive: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.FindAll("fox", opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReplaceAll(b *testing.B) {
	content := strings.Repeat("one cat two ", 500)
	opts := search.Options{CaseSensitive: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		e := New(WithContent(content))
		b.StartTimer()
		if _, err := e.ReplaceAll("cat", "dog", opts); err != nil {
			b.Fatal(err)
		}
	}
}
