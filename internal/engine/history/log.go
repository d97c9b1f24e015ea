package history

import (
	"sync"
	"time"
)

// Default configuration values.
const (
	DefaultMaxEntries     = 1000
	DefaultCoalesceWindow = 500 * time.Millisecond
)

// logEntry wraps a command with metadata.
type logEntry struct {
	command    Command
	recordedAt time.Time
}

// Option configures a Log during creation.
type Option func(*Log)

// WithMaxEntries sets the maximum number of undo entries.
func WithMaxEntries(max int) Option {
	return func(l *Log) {
		if max > 0 {
			l.maxEntries = max
		}
	}
}

// WithCoalesceWindow sets the wall-clock interval within which adjacent
// same-intent commands merge into one undo step. Zero disables
// coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(l *Log) {
		if d >= 0 {
			l.window = d
		}
	}
}

// WithClock overrides the time source. Used by tests to drive the
// coalescing window deterministically.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// Log manages undo/redo state for a buffer.
type Log struct {
	mu sync.Mutex

	undoStack []*logEntry
	redoStack []*logEntry

	// Coalescing state
	window     time.Duration
	lastRecord time.Time

	// Transaction state
	txnActive bool
	txnName   string
	txnCmds   []Command

	// Configuration
	maxEntries int
	now        func() time.Time
}

// NewLog creates a new history log.
func NewLog(opts ...Option) *Log {
	l := &Log{
		maxEntries: DefaultMaxEntries,
		window:     DefaultCoalesceWindow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RecordInsert records an insert that has been applied to the buffer.
// Empty text records nothing.
func (l *Log) RecordInsert(text string, offset CharOffset) {
	if text == "" {
		return
	}
	l.record(NewInsert(text, offset))
}

// RecordDelete records a delete that has been applied to the buffer.
// text is the content that existed before removal. An empty range
// records nothing.
func (l *Log) RecordDelete(text string, r Range) {
	if r.IsEmpty() {
		return
	}
	l.record(NewDelete(text, r))
}

// record adds a command, coalescing with the previous entry when the
// two are temporally and semantically adjacent.
func (l *Log) record(cmd Command) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if l.txnActive {
		l.txnCmds = append(l.txnCmds, cmd)
		return
	}

	if l.coalesceLocked(cmd, now) {
		l.redoStack = nil
		l.lastRecord = now
		return
	}

	l.pushLocked(cmd, now)
	l.lastRecord = now
}

// coalesceLocked merges cmd into the newest undo entry if possible.
func (l *Log) coalesceLocked(cmd Command, now time.Time) bool {
	if l.window == 0 || len(l.undoStack) == 0 {
		return false
	}
	if l.lastRecord.IsZero() || now.Sub(l.lastRecord) > l.window {
		return false
	}

	top := l.undoStack[len(l.undoStack)-1]

	switch prev := top.command.(type) {
	case *Insert:
		ins, ok := cmd.(*Insert)
		if !ok || ins.Offset != prev.Offset+prev.Len() {
			return false
		}
		prev.Text += ins.Text
		top.recordedAt = now
		return true

	case *Delete:
		del, ok := cmd.(*Delete)
		if !ok {
			return false
		}
		prevLen := prev.Range.Len()
		newLen := del.Range.Len()
		switch {
		case del.Range.End == prev.Range.Start:
			// Backspace-style: new deletion ends where the previous
			// one began.
			prev.Text = del.Text + prev.Text
			prev.Range = Range{Start: del.Range.Start, End: del.Range.Start + prevLen + newLen}
		case del.Range.Start == prev.Range.Start:
			// Forward-delete-style: document shifted left, so the
			// next deletion starts at the same offset.
			prev.Text += del.Text
			prev.Range = Range{Start: prev.Range.Start, End: prev.Range.Start + prevLen + newLen}
		default:
			return false
		}
		top.recordedAt = now
		return true
	}

	return false
}

// pushLocked adds a command, clears the redo stack, and enforces the
// history bound by evicting the oldest undo entries.
func (l *Log) pushLocked(cmd Command, now time.Time) {
	l.undoStack = append(l.undoStack, &logEntry{command: cmd, recordedAt: now})
	l.redoStack = nil

	if len(l.undoStack) > l.maxEntries {
		excess := len(l.undoStack) - l.maxEntries
		l.undoStack = l.undoStack[excess:]
	}
}

// Undo pops the most recent undo entry, moves it to the redo stack, and
// returns its command. The caller applies the command's inverse to the
// buffer. Returns (nil, false) if there is nothing to undo.
func (l *Log) Undo() (Command, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return nil, false
	}

	entry := l.undoStack[len(l.undoStack)-1]
	l.undoStack = l.undoStack[:len(l.undoStack)-1]
	l.redoStack = append(l.redoStack, entry)
	l.lastRecord = time.Time{}

	return entry.command, true
}

// Redo pops the most recent redo entry, moves it back to the undo
// stack, and returns its command for the caller to reapply forward.
// Returns (nil, false) if there is nothing to redo.
func (l *Log) Redo() (Command, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return nil, false
	}

	entry := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.undoStack = append(l.undoStack, entry)
	l.lastRecord = time.Time{}

	return entry.command, true
}

// CanUndo returns true if undo is available.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack) > 0
}

// UndoCount returns the number of undo steps available.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undoStack)
}

// RedoCount returns the number of redo steps available.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redoStack)
}

// BeginTransaction starts a transaction. Commands recorded until
// EndTransaction are combined into a single Compound undo step.
// Nested calls are ignored.
func (l *Log) BeginTransaction(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.txnActive {
		return
	}
	l.txnActive = true
	l.txnName = name
	l.txnCmds = nil
}

// EndTransaction finishes the transaction and pushes the buffered
// commands as one Compound. A transaction with no commands pushes
// nothing.
func (l *Log) EndTransaction() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.txnActive {
		return
	}
	l.txnActive = false

	if len(l.txnCmds) == 0 {
		l.txnCmds = nil
		return
	}

	compound := &Compound{Name: l.txnName, Commands: l.txnCmds}
	l.txnCmds = nil
	l.pushLocked(compound, l.now())
	// A fresh command after the transaction must not merge into it.
	l.lastRecord = time.Time{}
}

// CancelTransaction discards the buffered transaction without pushing
// anything and returns the discarded commands in application order.
// The commands have already been applied to the buffer; a caller that
// wants the buffer rolled back applies their inverses in reverse.
func (l *Log) CancelTransaction() []Command {
	l.mu.Lock()
	defer l.mu.Unlock()

	discarded := l.txnCmds
	l.txnActive = false
	l.txnCmds = nil
	return discarded
}

// InTransaction returns true if a transaction is open.
func (l *Log) InTransaction() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txnActive
}

// Clear empties both stacks and resets coalescing and transaction
// state. Used on document reset.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.undoStack = nil
	l.redoStack = nil
	l.txnActive = false
	l.txnCmds = nil
	l.lastRecord = time.Time{}
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (l *Log) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.maxEntries = max
	if len(l.undoStack) > max {
		excess := len(l.undoStack) - max
		l.undoStack = l.undoStack[excess:]
	}
}

// MaxEntries returns the maximum number of undo entries.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}

// CommandInfo provides read-only info about a recorded command.
// Used for displaying undo/redo history to users.
type CommandInfo struct {
	Description string
	RecordedAt  time.Time
}

// PeekUndo returns info about the next undo step without removing it.
func (l *Log) PeekUndo() (CommandInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undoStack) == 0 {
		return CommandInfo{}, false
	}
	entry := l.undoStack[len(l.undoStack)-1]
	return CommandInfo{Description: entry.command.Description(), RecordedAt: entry.recordedAt}, true
}

// PeekRedo returns info about the next redo step without removing it.
func (l *Log) PeekRedo() (CommandInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redoStack) == 0 {
		return CommandInfo{}, false
	}
	entry := l.redoStack[len(l.redoStack)-1]
	return CommandInfo{Description: entry.command.Description(), RecordedAt: entry.recordedAt}, true
}

// UndoInfo returns info about all available undo steps, oldest first.
func (l *Log) UndoInfo() []CommandInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]CommandInfo, len(l.undoStack))
	for i, entry := range l.undoStack {
		out[i] = CommandInfo{Description: entry.command.Description(), RecordedAt: entry.recordedAt}
	}
	return out
}

// RedoInfo returns info about all available redo steps.
func (l *Log) RedoInfo() []CommandInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]CommandInfo, len(l.redoStack))
	for i, entry := range l.redoStack {
		out[i] = CommandInfo{Description: entry.command.Description(), RecordedAt: entry.recordedAt}
	}
	return out
}
