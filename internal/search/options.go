package search

import (
	"errors"
	"fmt"
	"regexp"
)

// Search errors.
var (
	// ErrEmptyPattern is returned when the pattern is the empty string.
	ErrEmptyPattern = errors.New("empty search pattern")
	// ErrInvalidPattern is returned when a regex pattern fails to compile.
	ErrInvalidPattern = errors.New("invalid search pattern")
	// ErrCanceled is returned when a streaming operation is canceled via
	// its context. Callers treat it as a normal early termination.
	ErrCanceled = errors.New("search canceled")
)

// Options controls how a pattern is interpreted.
//
// The zero value means: literal pattern, case-sensitive, whole-word off,
// multiline off. Use DefaultOptions for the same thing spelled out.
type Options struct {
	// UseRegex treats the pattern as a regular expression instead of a
	// literal substring.
	UseRegex bool

	// CaseSensitive requires exact case. When false the match is
	// case-folded.
	CaseSensitive bool

	// WholeWord anchors the pattern to word boundaries on both sides.
	WholeWord bool

	// Multiline makes ^ and $ match at line breaks in regex mode.
	Multiline bool
}

// DefaultOptions returns the options for a plain case-sensitive literal
// search.
func DefaultOptions() Options {
	return Options{CaseSensitive: true}
}

// Compile turns a pattern and options into a single regexp. Literal
// patterns are quoted so metacharacters match themselves; whole-word
// wraps the pattern in a non-capturing group so alternation stays
// bounded and capture indices are unchanged.
func Compile(pattern string, opts Options) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	expr := pattern
	if !opts.UseRegex {
		expr = regexp.QuoteMeta(expr)
	}
	if opts.WholeWord {
		expr = `\b(?:` + expr + `)\b`
	}

	flags := ""
	if !opts.CaseSensitive {
		flags += "i"
	}
	if opts.Multiline {
		flags += "m"
	}
	if flags != "" {
		expr = "(?" + flags + ")" + expr
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}
