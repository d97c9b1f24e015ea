package history

import (
	"errors"
	"testing"
	"time"
)

// testClock is a manually advanced time source.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Unix(1000, 0)}
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestLog(opts ...Option) (*Log, *testClock) {
	clock := newTestClock()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewLog(opts...), clock
}

// Command tests

func TestInsertInvert(t *testing.T) {
	ins := NewInsert("hello", 3)

	inv, ok := ins.Invert().(*Delete)
	if !ok {
		t.Fatal("insert should invert to delete")
	}
	if inv.Text != "hello" {
		t.Errorf("wrong text %q", inv.Text)
	}
	if inv.Range != (Range{Start: 3, End: 8}) {
		t.Errorf("wrong range %s", inv.Range)
	}
}

func TestInsertLenCountsGraphemes(t *testing.T) {
	ins := NewInsert("é🎉", 0)
	if ins.Len() != 2 {
		t.Errorf("expected 2 clusters, got %d", ins.Len())
	}
}

func TestDeleteInvert(t *testing.T) {
	del := NewDelete("hello", Range{Start: 3, End: 8})

	inv, ok := del.Invert().(*Insert)
	if !ok {
		t.Fatal("delete should invert to insert")
	}
	if inv.Text != "hello" || inv.Offset != 3 {
		t.Errorf("wrong inverse: %q at %d", inv.Text, inv.Offset)
	}
}

func TestCompoundInvertReversesOrder(t *testing.T) {
	comp := NewCompound("edit",
		NewInsert("ab", 0),
		NewDelete("cd", Range{Start: 5, End: 7}),
	)

	inv, ok := comp.Invert().(*Compound)
	if !ok {
		t.Fatal("compound should invert to compound")
	}
	if len(inv.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(inv.Commands))
	}
	if _, ok := inv.Commands[0].(*Insert); !ok {
		t.Error("first inverse should be the delete's inverse (an insert)")
	}
	if _, ok := inv.Commands[1].(*Delete); !ok {
		t.Error("second inverse should be the insert's inverse (a delete)")
	}
}

// Log tests

func TestUndoRedoRoundTrip(t *testing.T) {
	log, _ := newTestLog()

	log.RecordInsert("hello", 0)

	cmd, ok := log.Undo()
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	ins, ok := cmd.(*Insert)
	if !ok || ins.Text != "hello" {
		t.Fatalf("wrong command returned: %#v", cmd)
	}
	if log.CanUndo() {
		t.Error("undo stack should be empty")
	}
	if !log.CanRedo() {
		t.Error("redo stack should have one entry")
	}

	cmd, ok = log.Redo()
	if !ok {
		t.Fatal("expected redo to succeed")
	}
	if cmd != Command(ins) {
		t.Error("redo should return the same command")
	}
	if !log.CanUndo() || log.CanRedo() {
		t.Error("stacks not restored after redo")
	}
}

func TestUndoEmptyIsNoop(t *testing.T) {
	log, _ := newTestLog()

	if cmd, ok := log.Undo(); ok || cmd != nil {
		t.Error("undo on empty log should report (nil, false)")
	}
	if cmd, ok := log.Redo(); ok || cmd != nil {
		t.Error("redo on empty log should report (nil, false)")
	}
}

func TestRecordClearsRedo(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	if _, ok := log.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if !log.CanRedo() {
		t.Fatal("expected redo entry")
	}

	clock.Advance(time.Hour)
	log.RecordInsert("b", 0)

	if log.CanRedo() {
		t.Error("recording a new command must clear the redo stack")
	}
}

func TestCoalesceAdjacentInserts(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	clock.Advance(100 * time.Millisecond)
	log.RecordInsert("b", 1)

	if log.UndoCount() != 1 {
		t.Fatalf("expected 1 undo step, got %d", log.UndoCount())
	}

	cmd, _ := log.Undo()
	ins := cmd.(*Insert)
	if ins.Text != "ab" || ins.Offset != 0 {
		t.Errorf("expected merged insert \"ab\" at 0, got %q at %d", ins.Text, ins.Offset)
	}

	// The merged inverse removes both characters at once.
	inv := ins.Invert().(*Delete)
	if inv.Range != (Range{Start: 0, End: 2}) {
		t.Errorf("expected inverse range [0:2), got %s", inv.Range)
	}
}

func TestCoalesceWindowExpires(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	clock.Advance(time.Second)
	log.RecordInsert("b", 1)

	if log.UndoCount() != 2 {
		t.Errorf("inserts outside the window must not merge, got %d steps", log.UndoCount())
	}
}

func TestCoalesceRequiresAdjacency(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	clock.Advance(10 * time.Millisecond)
	log.RecordInsert("b", 5)

	if log.UndoCount() != 2 {
		t.Errorf("non-adjacent inserts must not merge, got %d steps", log.UndoCount())
	}
}

func TestCoalesceBackspaceDeletes(t *testing.T) {
	log, clock := newTestLog()

	// Deleting "ab" with backspace: "b" at [1,2), then "a" at [0,1).
	log.RecordDelete("b", Range{Start: 1, End: 2})
	clock.Advance(50 * time.Millisecond)
	log.RecordDelete("a", Range{Start: 0, End: 1})

	if log.UndoCount() != 1 {
		t.Fatalf("expected 1 undo step, got %d", log.UndoCount())
	}

	cmd, _ := log.Undo()
	del := cmd.(*Delete)
	if del.Text != "ab" {
		t.Errorf("expected merged text \"ab\", got %q", del.Text)
	}
	if del.Range != (Range{Start: 0, End: 2}) {
		t.Errorf("expected merged range [0:2), got %s", del.Range)
	}
}

func TestCoalesceForwardDeletes(t *testing.T) {
	log, clock := newTestLog()

	// Deleting "ab" with the Delete key: both removals start at 0.
	log.RecordDelete("a", Range{Start: 0, End: 1})
	clock.Advance(50 * time.Millisecond)
	log.RecordDelete("b", Range{Start: 0, End: 1})

	if log.UndoCount() != 1 {
		t.Fatalf("expected 1 undo step, got %d", log.UndoCount())
	}

	cmd, _ := log.Undo()
	del := cmd.(*Delete)
	if del.Text != "ab" {
		t.Errorf("expected merged text \"ab\", got %q", del.Text)
	}
	if del.Range != (Range{Start: 0, End: 2}) {
		t.Errorf("expected merged range [0:2), got %s", del.Range)
	}
}

func TestCoalesceNeverMixesInsertAndDelete(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	clock.Advance(10 * time.Millisecond)
	log.RecordDelete("a", Range{Start: 0, End: 1})

	if log.UndoCount() != 2 {
		t.Errorf("insert and delete must not merge, got %d steps", log.UndoCount())
	}
}

func TestCoalesceDisabledByZeroWindow(t *testing.T) {
	log, _ := newTestLog(WithCoalesceWindow(0))

	log.RecordInsert("a", 0)
	log.RecordInsert("b", 1)

	if log.UndoCount() != 2 {
		t.Errorf("zero window must disable coalescing, got %d steps", log.UndoCount())
	}
}

func TestCoalesceStopsAfterUndo(t *testing.T) {
	log, _ := newTestLog()

	log.RecordInsert("a", 0)
	if _, ok := log.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if _, ok := log.Redo(); !ok {
		t.Fatal("redo failed")
	}

	// Within the window, but history was traversed in between.
	log.RecordInsert("b", 1)

	if log.UndoCount() != 2 {
		t.Errorf("commands must not merge across an undo/redo, got %d steps", log.UndoCount())
	}
}

func TestTransactionGroupsCommands(t *testing.T) {
	log, _ := newTestLog()

	log.BeginTransaction("replace all")
	log.RecordDelete("old", Range{Start: 0, End: 3})
	log.RecordInsert("new", 0)
	log.EndTransaction()

	if log.UndoCount() != 1 {
		t.Fatalf("expected 1 undo step, got %d", log.UndoCount())
	}

	cmd, _ := log.Undo()
	comp, ok := cmd.(*Compound)
	if !ok {
		t.Fatal("expected a compound command")
	}
	if comp.Name != "replace all" || len(comp.Commands) != 2 {
		t.Errorf("wrong compound: %q with %d commands", comp.Name, len(comp.Commands))
	}
}

func TestTransactionDoesNotCoalesceOutside(t *testing.T) {
	log, clock := newTestLog()

	log.RecordInsert("a", 0)
	clock.Advance(10 * time.Millisecond)

	log.BeginTransaction("txn")
	log.RecordInsert("b", 1)
	log.EndTransaction()

	clock.Advance(10 * time.Millisecond)
	log.RecordInsert("c", 2)

	if log.UndoCount() != 3 {
		t.Errorf("transactions must not coalesce with surrounding commands, got %d steps", log.UndoCount())
	}
}

func TestCancelTransaction(t *testing.T) {
	log, _ := newTestLog()

	log.BeginTransaction("txn")
	log.RecordInsert("a", 0)
	log.CancelTransaction()

	if log.CanUndo() {
		t.Error("cancelled transaction must push nothing")
	}
}

func TestEmptyTransactionPushesNothing(t *testing.T) {
	log, _ := newTestLog()

	log.BeginTransaction("txn")
	log.EndTransaction()

	if log.CanUndo() {
		t.Error("empty transaction must push nothing")
	}
}

func TestNestedBeginTransactionIgnored(t *testing.T) {
	log, _ := newTestLog()

	log.BeginTransaction("outer")
	log.BeginTransaction("inner")
	log.RecordInsert("a", 0)
	log.EndTransaction()

	if log.InTransaction() {
		t.Error("EndTransaction should close the single open transaction")
	}
	if log.UndoCount() != 1 {
		t.Errorf("expected 1 undo step, got %d", log.UndoCount())
	}
}

func TestTransactionHelper(t *testing.T) {
	log, _ := newTestLog()

	err := log.Transaction("edit", func() error {
		log.RecordInsert("a", 0)
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
	if log.UndoCount() != 1 {
		t.Errorf("expected 1 undo step, got %d", log.UndoCount())
	}

	wantErr := errors.New("boom")
	err = log.Transaction("failing", func() error {
		log.RecordInsert("b", 1)
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	if log.UndoCount() != 1 {
		t.Errorf("failed transaction must push nothing, got %d steps", log.UndoCount())
	}
}

func TestTransactionScope(t *testing.T) {
	log, _ := newTestLog()

	func() {
		defer log.TransactionScope("scoped").End()
		log.RecordInsert("a", 0)
	}()

	if log.UndoCount() != 1 {
		t.Errorf("expected 1 undo step, got %d", log.UndoCount())
	}
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	log, clock := newTestLog(WithMaxEntries(3), WithCoalesceWindow(0))

	for _, text := range []string{"a", "b", "c", "d"} {
		log.RecordInsert(text, 0)
		clock.Advance(time.Second)
	}

	if log.UndoCount() != 3 {
		t.Fatalf("expected 3 undo steps, got %d", log.UndoCount())
	}

	// Oldest entry ("a") was evicted; the deepest remaining is "b".
	var last Command
	for {
		cmd, ok := log.Undo()
		if !ok {
			break
		}
		last = cmd
	}
	if last.(*Insert).Text != "b" {
		t.Errorf("expected oldest remaining insert \"b\", got %q", last.(*Insert).Text)
	}
}

func TestSetMaxEntriesTrims(t *testing.T) {
	log, _ := newTestLog(WithCoalesceWindow(0))

	for i := 0; i < 5; i++ {
		log.RecordInsert("x", CharOffset(i))
	}
	log.SetMaxEntries(2)

	if log.UndoCount() != 2 {
		t.Errorf("expected trim to 2 entries, got %d", log.UndoCount())
	}
	if log.MaxEntries() != 2 {
		t.Errorf("expected max 2, got %d", log.MaxEntries())
	}
}

func TestClear(t *testing.T) {
	log, _ := newTestLog()

	log.RecordInsert("a", 0)
	if _, ok := log.Undo(); !ok {
		t.Fatal("undo failed")
	}
	log.Clear()

	if log.CanUndo() || log.CanRedo() {
		t.Error("clear should empty both stacks")
	}
}

func TestPeekAndInfo(t *testing.T) {
	log, clock := newTestLog(WithCoalesceWindow(0))

	log.RecordInsert("hello", 0)
	clock.Advance(time.Second)
	log.RecordDelete("h", Range{Start: 0, End: 1})

	info, ok := log.PeekUndo()
	if !ok {
		t.Fatal("expected peek to succeed")
	}
	if info.Description != "Delete character" {
		t.Errorf("unexpected description %q", info.Description)
	}

	if _, ok := log.PeekRedo(); ok {
		t.Error("peek redo on empty stack should report false")
	}

	all := log.UndoInfo()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Description != `Insert "hello"` {
		t.Errorf("unexpected oldest description %q", all[0].Description)
	}
}
