package engine

import (
	"errors"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// Errors returned by engine operations. The offset and range errors are
// the buffer's own sentinels, so errors.Is works across packages.
var (
	// ErrOffsetOutOfRange indicates an offset outside the valid buffer range.
	ErrOffsetOutOfRange = buffer.ErrOffsetOutOfRange

	// ErrRangeInvalid indicates an invalid range (e.g., end < start).
	ErrRangeInvalid = buffer.ErrRangeInvalid

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrReadOnly indicates a write was attempted on a read-only engine.
	ErrReadOnly = errors.New("engine is read-only")
)
