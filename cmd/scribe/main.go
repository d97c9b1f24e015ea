// Package main is the command-line front end for the scribe text
// engine: find, count, and replace over a file or stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/engine"
	"github.com/dshills/scribe/internal/search"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	useRegex   bool
	ignoreCase bool
	wholeWord  bool
	multiline  bool
	dryRun     bool
	inPlace    bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, args := parseFlags()
	if len(args) < 2 {
		flag.Usage()
		return 2
	}
	command := args[0]

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Ctrl-C cancels a running scan instead of killing the process
	// mid-write.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	searchOpts := search.Options{
		UseRegex:      opts.useRegex,
		CaseSensitive: !opts.ignoreCase,
		WholeWord:     opts.wholeWord,
		Multiline:     opts.multiline,
	}

	switch command {
	case "find":
		pattern, path := args[1], argAt(args, 2)
		return findCmd(ctx, cfg, pattern, path, searchOpts)
	case "count":
		pattern, path := args[1], argAt(args, 2)
		return countCmd(cfg, pattern, path, searchOpts)
	case "replace":
		if len(args) < 3 {
			flag.Usage()
			return 2
		}
		pattern, replacement, path := args[1], args[2], argAt(args, 3)
		return replaceCmd(ctx, cfg, opts, pattern, replacement, path, searchOpts)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", command)
		flag.Usage()
		return 2
	}
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// load builds an engine from a file path, or stdin when path is empty.
func load(cfg *config.Config, path string) (*engine.Engine, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return engine.NewFromReader(r, engine.WithConfig(cfg))
}

func findCmd(ctx context.Context, cfg *config.Config, pattern, path string, opts search.Options) int {
	e, err := load(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	err = e.Search(ctx, pattern, opts, func(res engine.SearchResult) bool {
		fmt.Printf("%d:%d: %s\n", res.Line, res.Column, res.Text)
		return true
	})
	switch {
	case errors.Is(err, search.ErrCanceled):
		fmt.Fprintln(os.Stderr, "canceled")
		return 130
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func countCmd(cfg *config.Config, pattern, path string, opts search.Options) int {
	e, err := load(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	n, err := e.Count(pattern, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(n)
	return 0
}

func replaceCmd(ctx context.Context, cfg *config.Config, opts options, pattern, replacement, path string, searchOpts search.Options) int {
	e, err := load(cfg, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.dryRun {
		results, err := e.DryRunReplace(pattern, replacement, searchOpts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for _, res := range results {
			fmt.Printf("%d:%d: %s -> %s\n", res.Line, res.Column, res.Text, res.Replacement)
		}
		return 0
	}

	n, err := e.ReplaceStream(ctx, pattern, replacement, searchOpts, nil)
	switch {
	case errors.Is(err, search.ErrCanceled):
		fmt.Fprintf(os.Stderr, "canceled after %d replacements\n", n)
		return 130
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "%d replacements\n", n)

	if opts.inPlace && path != "" {
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer f.Close()
		if _, err := e.WriteTo(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if _, err := e.WriteTo(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() (options, []string) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.useRegex, "regex", false, "Treat pattern as a regular expression")
	flag.BoolVar(&opts.useRegex, "e", false, "Treat pattern as a regular expression (shorthand)")
	flag.BoolVar(&opts.ignoreCase, "ignore-case", false, "Case-insensitive matching")
	flag.BoolVar(&opts.ignoreCase, "i", false, "Case-insensitive matching (shorthand)")
	flag.BoolVar(&opts.wholeWord, "word", false, "Match whole words only")
	flag.BoolVar(&opts.multiline, "multiline", false, "^ and $ match at line breaks (regex mode)")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Show replacements without applying them")
	flag.BoolVar(&opts.inPlace, "in-place", false, "Write the replaced text back to the input file")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Scribe - text search and replace engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: scribe [options] <command> <pattern> [replacement] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  find <pattern> [file]                  List matches with positions\n")
		fmt.Fprintf(os.Stderr, "  count <pattern> [file]                 Count matches\n")
		fmt.Fprintf(os.Stderr, "  replace <pattern> <repl> [file]        Replace matches\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  scribe find needle notes.txt\n")
		fmt.Fprintf(os.Stderr, "  scribe -e -i count 'cat|dog' pets.txt\n")
		fmt.Fprintf(os.Stderr, "  scribe -e replace '(\\d{4})-(\\d{2})-(\\d{2})' '$2/$3/$1' dates.txt\n")
		fmt.Fprintf(os.Stderr, "  cat notes.txt | scribe replace old new\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Scribe %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts, flag.Args()
}
