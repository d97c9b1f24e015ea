package search

import (
	"context"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// ReplaceResult describes one prospective or applied replacement.
type ReplaceResult struct {
	Result

	// Replacement is the resolved replacement text for this match, with
	// $1-style references expanded in regex mode.
	Replacement string

	// Preview is the full text with this one replacement applied. For
	// ReplaceStream it reflects all replacements applied so far.
	Preview string

	// Diff is a unified diff of the input against Preview. Populated by
	// DryRunReplace only.
	Diff string
}

// Replace substitutes every match of pattern in text with replacement
// and returns the new text. In regex mode the replacement may reference
// capture groups as $1, $2, or ${name}; in literal mode it is inserted
// verbatim.
func Replace(pattern, replacement, text string, opts Options) (string, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return "", err
	}
	if opts.UseRegex {
		return re.ReplaceAllString(text, replacement), nil
	}
	return re.ReplaceAllLiteralString(text, replacement), nil
}

// DryRunReplace computes what Replace would do without doing it: one
// entry per match, each with its resolved replacement, a preview of the
// text with only that match replaced, and a unified diff of the change.
// A nil slice means no matches.
func DryRunReplace(pattern, replacement, text string, opts Options) ([]ReplaceResult, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil, nil
	}

	ix := indexText(text)
	results := make([]ReplaceResult, 0, len(locs))
	for _, loc := range locs {
		resolved := replacement
		if opts.UseRegex {
			resolved = string(re.ExpandString(nil, replacement, text, loc))
		}
		var b strings.Builder
		b.Grow(len(text) + len(resolved))
		b.WriteString(text[:loc[0]])
		b.WriteString(resolved)
		b.WriteString(text[loc[1]:])
		preview := b.String()

		results = append(results, ReplaceResult{
			Result:      ix.result(text, loc[0], loc[1]),
			Replacement: resolved,
			Preview:     preview,
			Diff:        udiff.Unified("current", "replaced", text, preview),
		})
	}
	return results, nil
}

// ReplaceProgressFunc receives each applied replacement together with
// the fraction of matches processed so far, in (0, 1]. Returning false
// stops the run; the text returned by ReplaceStream then reflects only
// the replacements applied up to that point.
type ReplaceProgressFunc func(res ReplaceResult, progress float64) bool

// ReplaceStream applies replacements one match at a time, reporting
// progress after each. Matches are located once against the input text
// and their offsets shifted by the cumulative length delta as earlier
// replacements land, so the reported Result always describes the match
// in the original text. When there are no matches the input is returned
// unchanged and fn is never called. On cancellation the partially
// replaced text is returned along with ErrCanceled.
func ReplaceStream(ctx context.Context, pattern, replacement, text string, opts Options, fn ReplaceProgressFunc) (string, error) {
	re, err := Compile(pattern, opts)
	if err != nil {
		return "", err
	}
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}

	ix := indexText(text)
	current := text
	delta := 0
	for i, loc := range locs {
		select {
		case <-ctx.Done():
			return current, ErrCanceled
		default:
		}

		resolved := replacement
		if opts.UseRegex {
			resolved = string(re.ExpandString(nil, replacement, text, loc))
		}
		start, end := loc[0]+delta, loc[1]+delta
		current = current[:start] + resolved + current[end:]
		delta += len(resolved) - (loc[1] - loc[0])

		if fn != nil {
			res := ReplaceResult{
				Result:      ix.result(text, loc[0], loc[1]),
				Replacement: resolved,
				Preview:     current,
			}
			if !fn(res, float64(i+1)/float64(len(locs))) {
				return current, nil
			}
		}
	}
	return current, nil
}
