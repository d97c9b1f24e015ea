package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rivo/uniseg"

	"github.com/dshills/scribe/internal/engine/buffer"
	"github.com/dshills/scribe/internal/engine/history"
	"github.com/dshills/scribe/internal/search"
)

// Re-export commonly used types for convenience.
type (
	// CharOffset is a grapheme-cluster position in the buffer.
	CharOffset = buffer.CharOffset

	// Point represents a 1-based line/column position.
	Point = buffer.Point

	// Range represents a grapheme-cluster range in the buffer.
	Range = buffer.Range

	// RevisionID uniquely identifies a buffer revision.
	RevisionID = buffer.RevisionID

	// Command is an invertible edit command.
	Command = history.Command

	// SearchOptions controls pattern interpretation.
	SearchOptions = search.Options

	// SearchResult describes a single match.
	SearchResult = search.Result

	// ReplaceResult describes one prospective or applied replacement.
	ReplaceResult = search.ReplaceResult
)

// Engine is the facade over the editable-text core. It combines the
// piece-table buffer, the command log, and the search engine into a
// unified, thread-safe API: edits flow through the buffer and are
// recorded in the log, undo and redo ask the log for a command and
// apply its inverse or itself back to the buffer.
//
// All operations can be called from multiple goroutines.
type Engine struct {
	mu  sync.RWMutex
	buf *buffer.Buffer
	log *history.Log

	chunks   search.ChunkConfig
	readOnly bool

	// Construction state.
	initContent    string
	maxUndoEntries int
	coalesceWindow time.Duration
	clock          func() time.Time
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxUndoEntries: history.DefaultMaxEntries,
		coalesceWindow: history.DefaultCoalesceWindow,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.initContent != "" {
		e.buf = buffer.NewBufferFromString(e.initContent)
	} else {
		e.buf = buffer.NewBuffer()
	}

	logOpts := []history.Option{
		history.WithMaxEntries(e.maxUndoEntries),
		history.WithCoalesceWindow(e.coalesceWindow),
	}
	if e.clock != nil {
		logOpts = append(logOpts, history.WithClock(e.clock))
	}
	e.log = history.NewLog(logOpts...)

	return e
}

// NewFromReader creates an Engine with content read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	return New(append(opts, WithContent(string(data)))...), nil
}

// Text returns the full buffer content.
func (e *Engine) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Text()
}

// TextRange returns the content of a grapheme range.
func (e *Engine) TextRange(r Range) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.TextRange(r)
}

// Len returns the buffer length in grapheme clusters.
func (e *Engine) Len() CharOffset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.Len()
}

// IsEmpty reports whether the buffer holds no content.
func (e *Engine) IsEmpty() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.IsEmpty()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.LineCount()
}

// RevisionID returns the current buffer revision.
func (e *Engine) RevisionID() RevisionID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.buf.RevisionID()
}

// WriteTo writes the buffer content to w.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	text := e.Text()
	n, err := io.WriteString(w, text)
	return int64(n), err
}

// Insert inserts text at a grapheme offset and records the edit.
func (e *Engine) Insert(offset CharOffset, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return e.insertLocked(offset, text)
}

// Delete removes a grapheme range and records the edit.
func (e *Engine) Delete(r Range) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	return e.deleteLocked(r)
}

// Replace substitutes a grapheme range with new text as a single undo
// step.
func (e *Engine) Replace(r Range, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}

	e.log.BeginTransaction("Replace")
	if err := e.deleteLocked(r); err != nil {
		e.log.CancelTransaction()
		return err
	}
	if err := e.insertLocked(r.Start, text); err != nil {
		e.log.EndTransaction()
		return err
	}
	e.log.EndTransaction()
	return nil
}

// SetText replaces the whole content and clears history. The old
// content is unrecoverable; use Replace for an undoable full rewrite.
func (e *Engine) SetText(text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}
	e.buf.ReplaceAll(text)
	e.log.Clear()
	return nil
}

func (e *Engine) insertLocked(offset CharOffset, text string) error {
	if _, err := e.buf.Insert(offset, text); err != nil {
		return err
	}
	if text != "" {
		e.log.RecordInsert(text, offset)
	}
	return nil
}

func (e *Engine) deleteLocked(r Range) error {
	// Capture the doomed text first; the log cannot recover it later.
	text, err := e.buf.TextRange(r)
	if err != nil {
		return err
	}
	if err := e.buf.Delete(r); err != nil {
		return err
	}
	if text != "" {
		e.log.RecordDelete(text, r)
	}
	return nil
}

// Undo reverts the most recent undo step by applying its inverse to
// the buffer.
func (e *Engine) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}

	cmd, ok := e.log.Undo()
	if !ok {
		return ErrNothingToUndo
	}
	return e.applyLocked(cmd.Invert())
}

// Redo re-applies the most recently undone step.
func (e *Engine) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return ErrReadOnly
	}

	cmd, ok := e.log.Redo()
	if !ok {
		return ErrNothingToRedo
	}
	return e.applyLocked(cmd)
}

// applyLocked plays a command forward against the buffer.
func (e *Engine) applyLocked(cmd Command) error {
	switch c := cmd.(type) {
	case *history.Insert:
		_, err := e.buf.Insert(c.Offset, c.Text)
		return err
	case *history.Delete:
		return e.buf.Delete(c.Range)
	case *history.Compound:
		for _, sub := range c.Commands {
			if err := e.applyLocked(sub); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown command type %T", cmd)
	}
}

// CanUndo reports whether an undo step is available.
func (e *Engine) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether a redo step is available.
func (e *Engine) CanRedo() bool { return e.log.CanRedo() }

// UndoCount returns the number of available undo steps.
func (e *Engine) UndoCount() int { return e.log.UndoCount() }

// RedoCount returns the number of available redo steps.
func (e *Engine) RedoCount() int { return e.log.RedoCount() }

// UndoDescription describes the next undo step.
func (e *Engine) UndoDescription() (string, bool) {
	info, ok := e.log.PeekUndo()
	if !ok {
		return "", false
	}
	return info.Description, true
}

// RedoDescription describes the next redo step.
func (e *Engine) RedoDescription() (string, bool) {
	info, ok := e.log.PeekRedo()
	if !ok {
		return "", false
	}
	return info.Description, true
}

// Transact runs fn with all recorded edits grouped into a single undo
// step. If fn returns an error the edits it applied are rolled back
// and the buffer is left untouched.
func (e *Engine) Transact(name string, fn func() error) error {
	if e.readOnly {
		return ErrReadOnly
	}

	e.log.BeginTransaction(name)
	if err := fn(); err != nil {
		discarded := e.log.CancelTransaction()
		e.mu.Lock()
		for i := len(discarded) - 1; i >= 0; i-- {
			if aerr := e.applyLocked(discarded[i].Invert()); aerr != nil {
				e.mu.Unlock()
				return fmt.Errorf("rolling back %q: %v (after: %w)", name, aerr, err)
			}
		}
		e.mu.Unlock()
		return err
	}
	e.log.EndTransaction()
	return nil
}

// FindAll returns every match of pattern in the current content.
func (e *Engine) FindAll(pattern string, opts SearchOptions) ([]SearchResult, error) {
	return search.FindAll(pattern, e.Text(), opts)
}

// Count returns the number of matches of pattern in the current content.
func (e *Engine) Count(pattern string, opts SearchOptions) (int, error) {
	return search.Count(pattern, e.Text(), opts)
}

// Search streams matches over a snapshot of the current content,
// scanning one chunk at a time. Edits made while the scan runs do not
// affect it.
func (e *Engine) Search(ctx context.Context, pattern string, opts SearchOptions, fn search.SearchFunc) error {
	return search.SearchChunked(ctx, pattern, e.Text(), opts, e.chunks, fn)
}

// DryRunReplace reports what ReplaceAll would do without touching the
// buffer: one entry per match with its resolved replacement, preview,
// and diff.
func (e *Engine) DryRunReplace(pattern, replacement string, opts SearchOptions) ([]ReplaceResult, error) {
	return search.DryRunReplace(pattern, replacement, e.Text(), opts)
}

// ReplaceAll substitutes every match of pattern with replacement as a
// single undo step and returns the number of replacements.
func (e *Engine) ReplaceAll(pattern, replacement string, opts SearchOptions) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return 0, ErrReadOnly
	}

	matches, err := search.DryRunReplace(pattern, replacement, e.buf.Text(), opts)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	// Apply back to front so earlier match offsets stay valid.
	e.log.BeginTransaction(replaceName(pattern, len(matches)))
	for i := len(matches) - 1; i >= 0; i-- {
		m := matches[i]
		if err := e.replaceMatchLocked(m.Range, m.Replacement); err != nil {
			e.log.EndTransaction()
			return 0, err
		}
	}
	e.log.EndTransaction()
	return len(matches), nil
}

// ReplaceStream applies replacements one match at a time in document
// order, reporting progress after each. The whole run is one undo
// step. Returns the number of replacements applied; on cancellation
// the replacements applied so far remain, with ErrCanceled.
func (e *Engine) ReplaceStream(ctx context.Context, pattern, replacement string, opts SearchOptions, fn search.ReplaceProgressFunc) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.readOnly {
		return 0, ErrReadOnly
	}

	matches, err := search.DryRunReplace(pattern, replacement, e.buf.Text(), opts)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	e.log.BeginTransaction(replaceName(pattern, len(matches)))
	delta := CharOffset(0)
	for i, m := range matches {
		select {
		case <-ctx.Done():
			e.log.EndTransaction()
			return i, search.ErrCanceled
		default:
		}

		r := m.Range.Shift(delta)
		if err := e.replaceMatchLocked(r, m.Replacement); err != nil {
			e.log.EndTransaction()
			return i, err
		}
		delta += uniseg.GraphemeClusterCount(m.Replacement) - m.Range.Len()

		if fn != nil {
			m.Preview = e.buf.Text()
			if !fn(m, float64(i+1)/float64(len(matches))) {
				e.log.EndTransaction()
				return i + 1, nil
			}
		}
	}
	e.log.EndTransaction()
	return len(matches), nil
}

func (e *Engine) replaceMatchLocked(r Range, replacement string) error {
	if err := e.deleteLocked(r); err != nil {
		return err
	}
	return e.insertLocked(r.Start, replacement)
}

func replaceName(pattern string, n int) string {
	return fmt.Sprintf("Replace %q (%d)", pattern, n)
}
