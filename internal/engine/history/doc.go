// Package history provides undo/redo management for buffer edits.
//
// The history log records buffer mutations as invertible commands. It
// never touches a buffer itself: Undo and Redo hand the relevant
// command back to the caller, who derives the inverse (Command.Invert)
// and applies it through the buffer. This keeps mutation authority in
// one place and lets the log store plain copies of mutated text rather
// than references into live storage.
//
// Rapid same-intent edits are coalesced: two inserts where the second
// begins exactly where the first ended, or two adjacent deletes
// (backspace-style or forward-delete-style), recorded within the
// coalescing window merge into one undo step. This turns bursts of
// typing into single undo units, matching the one-undo-per-pause
// expectation.
//
// Commands recorded between BeginTransaction and EndTransaction are
// grouped into a single Compound undo step. Transactions never coalesce
// with commands outside them.
//
// Basic usage:
//
//	log := history.NewLog()
//	log.RecordInsert("hello", 0)
//
//	if cmd, ok := log.Undo(); ok {
//	    // apply cmd.Invert() to the buffer
//	}
//
// No operation in this package returns an error; undo or redo on an
// empty stack reports (nil, false). History is bounded: exceeding the
// configured maximum evicts the oldest undo entries first.
package history
