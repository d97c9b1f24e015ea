package history

import (
	"fmt"

	"github.com/rivo/uniseg"

	"github.com/dshills/scribe/internal/engine/buffer"
)

// CharOffset is an alias for buffer.CharOffset for convenience.
type CharOffset = buffer.CharOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Command represents a single user-visible mutation whose exact inverse
// is derivable. The log stores commands; the caller applies them.
type Command interface {
	// Invert returns a command that undoes this one.
	Invert() Command

	// Description returns a human-readable description of the command.
	Description() string
}

// Insert records text inserted at a grapheme offset.
type Insert struct {
	Text   string
	Offset CharOffset
}

// NewInsert creates an insert command.
func NewInsert(text string, offset CharOffset) *Insert {
	return &Insert{Text: text, Offset: offset}
}

// Len returns the inserted text's length in grapheme clusters.
func (c *Insert) Len() CharOffset {
	return uniseg.GraphemeClusterCount(c.Text)
}

// Range returns the range the inserted text occupies after application.
func (c *Insert) Range() Range {
	return Range{Start: c.Offset, End: c.Offset + c.Len()}
}

// Invert returns a delete of the same text at the same position.
func (c *Insert) Invert() Command {
	return &Delete{Text: c.Text, Range: c.Range()}
}

// Description returns a human-readable description.
func (c *Insert) Description() string {
	n := c.Len()
	if n <= 20 {
		return fmt.Sprintf("Insert %q", c.Text)
	}
	return fmt.Sprintf("Insert %d characters", n)
}

// Delete records text removed from a grapheme range. Text is the
// content that existed before removal; the caller must capture it from
// the buffer before deleting, since the log cannot recover destroyed
// content.
type Delete struct {
	Text  string
	Range Range
}

// NewDelete creates a delete command.
func NewDelete(text string, r Range) *Delete {
	return &Delete{Text: text, Range: r}
}

// Invert returns an insert of the removed text at the range's start.
func (c *Delete) Invert() Command {
	return &Insert{Text: c.Text, Offset: c.Range.Start}
}

// Description returns a human-readable description.
func (c *Delete) Description() string {
	n := c.Range.Len()
	if n == 1 {
		return "Delete character"
	}
	return fmt.Sprintf("Delete %d characters", n)
}

// Compound groups multiple commands as one undo unit. Undoing a
// compound means applying the inverses of its commands in reverse
// order, which Invert already encodes.
type Compound struct {
	Name     string
	Commands []Command
}

// NewCompound creates a compound command.
func NewCompound(name string, commands ...Command) *Compound {
	return &Compound{Name: name, Commands: commands}
}

// Invert returns a compound of the inverses in reverse order.
func (c *Compound) Invert() Command {
	inv := make([]Command, len(c.Commands))
	for i, cmd := range c.Commands {
		inv[len(c.Commands)-1-i] = cmd.Invert()
	}
	return &Compound{Name: c.Name, Commands: inv}
}

// Description returns the compound command's name.
func (c *Compound) Description() string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Commands) == 1 {
		return c.Commands[0].Description()
	}
	return fmt.Sprintf("%d operations", len(c.Commands))
}

// IsEmpty returns true if the compound has no commands.
func (c *Compound) IsEmpty() bool {
	return len(c.Commands) == 0
}
