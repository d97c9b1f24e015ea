// Package engine provides the editable-text core: a piece-table text
// buffer addressed in grapheme clusters, an invertible command log for
// undo/redo, and a search/replace engine, combined behind one
// thread-safe facade.
//
// # Architecture
//
// The Engine composes three subsystems:
//
//   - buffer: piece-table storage (internal/engine/buffer). All offsets
//     and ranges are grapheme-cluster positions, so an edit can never
//     split an emoji sequence or a combining-mark cluster.
//   - history: the command log (internal/engine/history). The log is
//     passive; it records invertible commands and hands them back on
//     Undo/Redo, and the Engine applies them to the buffer. Rapid
//     adjacent edits coalesce into single undo steps within a
//     configurable time window.
//   - search: stateless pattern matching (internal/search). The Engine
//     runs searches over a snapshot of the content and applies
//     replacements back through the buffer as transactions.
//
// # Usage
//
//	e := engine.New(engine.WithContent("hello world"))
//	if err := e.Insert(5, ","); err != nil {
//	    // offset outside the buffer
//	}
//	n, err := e.ReplaceAll("world", "there", engine.SearchOptions{CaseSensitive: true})
//	_ = e.Undo() // reverts the whole replace in one step
//
// # Concurrency
//
// All Engine methods are safe for concurrent use. Streaming search
// operates on a snapshot of the content, so edits made during a scan do
// not corrupt it. Mutating operations are serialized.
package engine
