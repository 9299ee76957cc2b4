package history

import "fmt"

// Command is a unit of work recorded by a History. It is one of three
// kinds: an action (redo only), a reversible command (redo and undo) or a
// batch of commands.
type Command struct {
	name     string
	ran      bool
	redo     func() error
	undo     func() error
	children []*Command
	batch    bool
}

// NewAction creates a command that cannot be undone. Running it through a
// History discards everything recorded so far.
func NewAction(name string, redo func() error) *Command {
	return &Command{name: name, redo: redo}
}

// NewReversible creates an undoable command.
func NewReversible(name string, redo, undo func() error) *Command {
	return &Command{name: name, redo: redo, undo: undo}
}

// NewBatch groups commands into one. The batch is undoable when every member
// is; undo replays the members in reverse order.
func NewBatch(name string, commands ...*Command) *Command {
	b := &Command{name: name, batch: true, children: commands}
	b.redo = func() error {
		for _, c := range b.children {
			if err := c.redo(); err != nil {
				return fmt.Errorf("batch %q: %w", b.name, err)
			}
		}
		return nil
	}
	undoable := true
	for _, c := range commands {
		if !c.Undoable() {
			undoable = false
			break
		}
	}
	if undoable {
		b.undo = func() error {
			for i := len(b.children) - 1; i >= 0; i-- {
				if err := b.children[i].undo(); err != nil {
					return fmt.Errorf("batch %q: %w", b.name, err)
				}
			}
			return nil
		}
	}
	return b
}

// Name returns the command name.
func (c *Command) Name() string { return c.name }

// Ran reports whether the command already ran.
func (c *Command) Ran() bool { return c.ran }

// Undoable reports whether the command can be undone.
func (c *Command) Undoable() bool { return c.undo != nil }

// IsBatch reports whether the command groups other commands.
func (c *Command) IsBatch() bool { return c.batch }

// Commands returns the members of a batch.
func (c *Command) Commands() []*Command {
	return append([]*Command(nil), c.children...)
}

// Flatten returns the leaf commands, expanding nested batches.
func (c *Command) Flatten() []*Command {
	if !c.batch {
		return []*Command{c}
	}
	var out []*Command
	for _, child := range c.children {
		out = append(out, child.Flatten()...)
	}
	return out
}

func (c *Command) String() string {
	return c.name
}

// Run executes the command once without recording it.
func (c *Command) Run() error {
	if err := c.markRan(); err != nil {
		return err
	}
	return c.redo()
}

func (c *Command) markRan() error {
	if c.ran {
		return fmt.Errorf("%w: %s", ErrAlreadyRan, c.name)
	}
	c.ran = true
	return nil
}
