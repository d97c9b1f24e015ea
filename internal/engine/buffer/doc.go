// Package buffer provides a thread-safe text buffer built on top of the
// piece-table data structure. It serves as the primary interface for
// text manipulation in the editing core.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Efficient text operations through the underlying piece table
//   - Grapheme-cluster addressing: every offset and range counts
//     user-perceived characters, never bytes or runes
//   - Read-only snapshots for search and other concurrent readers
//   - Revision tracking for change management
//
// Basic usage:
//
//	// Create a buffer with some text
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Insert text
//	buf.Insert(7, "Beautiful ")  // "Hello, Beautiful World!"
//
//	// Delete text
//	buf.Delete(buffer.NewRange(0, 7))  // "Beautiful World!"
//
//	// Get a snapshot for concurrent reading
//	snap := buf.Snapshot()
//	go func() {
//	    text := snap.Text()
//	    // Process text...
//	}()
//
// Error Policy:
//
// Mutating methods report out-of-range offsets with ErrOffsetOutOfRange
// and malformed ranges with ErrRangeInvalid. A failed call never panics
// and never changes the buffer. This policy is applied uniformly; there
// are no silent no-ops for invalid positions.
//
// Thread Safety:
//
// All Buffer methods are thread-safe, though the buffer is designed for
// one logical editing session at a time. Read operations acquire a read
// lock, write operations an exclusive lock. For scenarios requiring
// multiple reads without intervening writes, use Snapshot() to obtain a
// consistent read-only view.
package buffer
