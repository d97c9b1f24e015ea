package search

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestReplaceLiteral(t *testing.T) {
	got, err := Replace("cat", "dog", "cat and cat", DefaultOptions())
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != "dog and dog" {
		t.Errorf("got %q", got)
	}
}

func TestReplaceLiteralDollarVerbatim(t *testing.T) {
	// Literal mode never expands group references.
	got, err := Replace("x", "$1", "axb", DefaultOptions())
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != "a$1b" {
		t.Errorf("got %q, want %q", got, "a$1b")
	}
}

func TestReplaceRegexGroups(t *testing.T) {
	opts := Options{UseRegex: true, CaseSensitive: true}
	got, err := Replace(`(\d{4})-(\d{2})-(\d{2})`, "$2/$3/$1", "due 2024-01-15", opts)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if got != "due 01/15/2024" {
		t.Errorf("got %q, want %q", got, "due 01/15/2024")
	}
}

func TestReplaceInvalidPattern(t *testing.T) {
	if _, err := Replace("", "x", "text", DefaultOptions()); !errors.Is(err, ErrEmptyPattern) {
		t.Errorf("got %v, want ErrEmptyPattern", err)
	}
}

func TestDryRunReplace(t *testing.T) {
	results, err := DryRunReplace("cat", "dog", "one cat two cat", DefaultOptions())
	if err != nil {
		t.Fatalf("DryRunReplace: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// Each preview replaces only its own match.
	if results[0].Preview != "one dog two cat" {
		t.Errorf("preview 0 = %q", results[0].Preview)
	}
	if results[1].Preview != "one cat two dog" {
		t.Errorf("preview 1 = %q", results[1].Preview)
	}
	for i, r := range results {
		if r.Replacement != "dog" {
			t.Errorf("result %d replacement = %q", i, r.Replacement)
		}
		if !strings.Contains(r.Diff, "-one cat two cat") {
			t.Errorf("result %d diff missing removed line:\n%s", i, r.Diff)
		}
		if !strings.Contains(r.Diff, "+"+r.Preview) {
			t.Errorf("result %d diff missing added line:\n%s", i, r.Diff)
		}
	}
}

func TestDryRunReplaceRegexExpansion(t *testing.T) {
	opts := Options{UseRegex: true, CaseSensitive: true}
	results, err := DryRunReplace(`(\w+)@(\w+)`, "$2:$1", "a@b c@d", opts)
	if err != nil {
		t.Fatalf("DryRunReplace: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Replacement != "b:a" || results[1].Replacement != "d:c" {
		t.Errorf("replacements = %q, %q", results[0].Replacement, results[1].Replacement)
	}
}

func TestDryRunReplaceNoMatches(t *testing.T) {
	results, err := DryRunReplace("zz", "x", "aaaa", DefaultOptions())
	if err != nil {
		t.Fatalf("DryRunReplace: %v", err)
	}
	if results != nil {
		t.Errorf("got %d results, want none", len(results))
	}
}

func TestReplaceStream(t *testing.T) {
	var progress []float64
	var previews []string
	got, err := ReplaceStream(context.Background(), "a", "bb", "a.a.a", DefaultOptions(),
		func(res ReplaceResult, p float64) bool {
			progress = append(progress, p)
			previews = append(previews, res.Preview)
			return true
		})
	if err != nil {
		t.Fatalf("ReplaceStream: %v", err)
	}
	if got != "bb.bb.bb" {
		t.Errorf("got %q", got)
	}

	want := []float64{1.0 / 3, 2.0 / 3, 1.0}
	if len(progress) != len(want) {
		t.Fatalf("got %d progress reports, want %d", len(progress), len(want))
	}
	for i := range want {
		if progress[i] != want[i] {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], want[i])
		}
	}
	if progress[len(progress)-1] != 1.0 {
		t.Errorf("final progress = %v, want exactly 1.0", progress[len(progress)-1])
	}

	// Previews accumulate replacements as offsets shift.
	wantPreviews := []string{"bb.a.a", "bb.bb.a", "bb.bb.bb"}
	for i := range wantPreviews {
		if previews[i] != wantPreviews[i] {
			t.Errorf("preview[%d] = %q, want %q", i, previews[i], wantPreviews[i])
		}
	}
}

func TestReplaceStreamMatchesReplace(t *testing.T) {
	// Incremental application with shifting offsets lands on the same
	// text as the one-shot replacement.
	opts := Options{UseRegex: true, CaseSensitive: true}
	text := "id=1 id=22 id=333 id=4444"
	want, err := Replace(`id=(\d+)`, "[$1]", text, opts)
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	got, err := ReplaceStream(context.Background(), `id=(\d+)`, "[$1]", text, opts, nil)
	if err != nil {
		t.Fatalf("ReplaceStream: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReplaceStreamNoMatches(t *testing.T) {
	called := false
	got, err := ReplaceStream(context.Background(), "zz", "x", "aaaa", DefaultOptions(),
		func(ReplaceResult, float64) bool {
			called = true
			return true
		})
	if err != nil {
		t.Fatalf("ReplaceStream: %v", err)
	}
	if got != "aaaa" {
		t.Errorf("got %q, want input unchanged", got)
	}
	if called {
		t.Error("progress callback called with no matches")
	}
}

func TestReplaceStreamStop(t *testing.T) {
	got, err := ReplaceStream(context.Background(), "a", "b", "a.a.a", DefaultOptions(),
		func(ReplaceResult, float64) bool { return false })
	if err != nil {
		t.Fatalf("ReplaceStream: %v", err)
	}
	if got != "b.a.a" {
		t.Errorf("got %q, want only first replacement applied", got)
	}
}

func TestReplaceStreamCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := ReplaceStream(ctx, "a", "b", "a.a.a", DefaultOptions(), nil)
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("got %v, want ErrCanceled", err)
	}
	if got != "a.a.a" {
		t.Errorf("got %q, want input unchanged", got)
	}
}
