package history

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/modelo/internal/logging"
	"github.com/aretw0/modelo/pkg/broadcast"
)

// Unbounded keeps every undoable command.
const Unbounded = -1

type batchFrame struct {
	name     string
	commands []*Command
}

// History keeps track of commands, allowing for undo and redo.
// History is NOT safe for concurrent use.
type History struct {
	size int
	undo []*Command
	redo []*Command

	running        bool
	stepping       bool
	nested         []*Command
	batches        []*batchFrame
	flushLater     bool
	flushRedoLater bool

	emitter *broadcast.Emitter
	hooks   Hooks
	logger  *slog.Logger
}

// Option configures a History.
type Option func(*History)

// WithSize sets how many undoable commands are remembered. Unbounded (-1)
// keeps all of them and 0 disables recording. Values below -1 mean Unbounded.
func WithSize(size int) Option {
	return func(h *History) {
		h.size = normalizeSize(size)
	}
}

// WithLogger configures a logger for flushes and failed commands.
func WithLogger(logger *slog.Logger) Option {
	return func(h *History) {
		h.logger = logger
	}
}

// WithHooks installs observation callbacks.
func WithHooks(hooks Hooks) Option {
	return func(h *History) {
		h.hooks = hooks
	}
}

// New creates an unbounded history.
func New(opts ...Option) *History {
	h := &History{
		size:    Unbounded,
		emitter: broadcast.NewEmitter(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func normalizeSize(size int) int {
	if size < Unbounded {
		return Unbounded
	}
	return size
}

// Emitter returns the emitter IndexChangedEvent is published on.
func (h *History) Emitter() *broadcast.Emitter { return h.emitter }

// Size returns the bound on remembered commands.
func (h *History) Size() int { return h.size }

// Running reports whether a command is executing.
func (h *History) Running() bool { return h.running }

// InBatch reports whether a batch is open.
func (h *History) InBatch() bool { return len(h.batches) > 0 }

// CurrentBatch returns the name of the innermost open batch.
func (h *History) CurrentBatch() (string, bool) {
	if len(h.batches) == 0 {
		return "", false
	}
	return h.batches[len(h.batches)-1].name, true
}

// CurrentIndex returns how many commands are applied, which is the length of
// the undo stack.
func (h *History) CurrentIndex() int { return len(h.undo) }

// Len returns the number of recorded commands, applied or not.
func (h *History) Len() int { return len(h.undo) + len(h.redo) }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Commands returns every recorded command in application order. Commands
// at positions below CurrentIndex are applied.
func (h *History) Commands() []*Command {
	out := slices.Clone(h.undo)
	for i := len(h.redo) - 1; i >= 0; i-- {
		out = append(out, h.redo[i])
	}
	return out
}

// FlattenedCommands is like Commands with batches expanded.
func (h *History) FlattenedCommands() []*Command {
	var out []*Command
	for _, c := range h.Commands() {
		out = append(out, c.Flatten()...)
	}
	return out
}

// Flush discards every recorded command and any command buffered in open
// batches. While a command runs, the flush happens once it returns.
func (h *History) Flush() {
	if h.running {
		h.flushLater = true
		return
	}
	h.flushLater, h.flushRedoLater = false, false
	for _, b := range h.batches {
		b.commands = nil
	}
	discarded := len(h.undo) + len(h.redo)
	if discarded == 0 {
		return
	}
	h.undo, h.redo = nil, nil
	h.logger.Debug("History: flushed", "discarded", discarded)
	if h.hooks.OnFlush != nil {
		h.hooks.OnFlush(discarded)
	}
}

// FlushRedo discards the commands that could be redone. While a command
// runs, the flush happens once it returns.
func (h *History) FlushRedo() {
	if h.running {
		h.flushRedoLater = true
		return
	}
	h.flushLater, h.flushRedoLater = false, false
	h.redo = nil
}

func (h *History) flushQueued() {
	switch {
	case h.flushLater:
		h.Flush()
	case h.flushRedoLater:
		h.FlushRedo()
	}
}

// Run executes cmd and records it. A command that cannot be undone discards
// the whole history first. If an undoable command fails, the history is
// flushed and the error returned.
//
// Commands run while another one executes are nested: during Run they are
// recorded together with the running command, during an undo or redo step
// they are applied without being recorded.
func (h *History) Run(cmd *Command) error {
	if h.running {
		return h.runNested(cmd)
	}
	if err := cmd.markRan(); err != nil {
		return err
	}
	if h.hooks.OnRun != nil {
		h.hooks.OnRun(cmd.name, cmd.Undoable())
	}

	undoable := cmd.Undoable()
	if undoable {
		h.FlushRedo()
	} else {
		h.Flush()
	}
	h.running = true
	err := cmd.redo()
	h.running = false
	cmd = h.withNested(cmd)
	if err != nil {
		if undoable {
			h.logger.Warn("History: command failed, flushing", "command", cmd.name, "err", err)
			h.Flush()
			return err
		}
		h.flushQueued()
		h.logger.Warn("History: command failed", "command", cmd.name, "err", err)
		return err
	}
	h.flushQueued()

	if !cmd.Undoable() {
		if undoable {
			h.Flush()
		}
		h.buffer(cmd)
		return nil
	}
	if !h.buffer(cmd) {
		h.push(cmd)
	}
	return nil
}

func (h *History) runNested(cmd *Command) error {
	if err := cmd.markRan(); err != nil {
		return err
	}
	if h.stepping {
		return cmd.redo()
	}
	if h.hooks.OnRun != nil {
		h.hooks.OnRun(cmd.name, cmd.Undoable())
	}
	at := len(h.nested)
	h.nested = append(h.nested, cmd)
	if err := cmd.redo(); err != nil {
		h.nested = h.nested[:at]
		h.logger.Warn("History: nested command failed", "command", cmd.name, "err", err)
		return err
	}
	return nil
}

// withNested groups cmd with the commands nested in it, in the order they
// started.
func (h *History) withNested(cmd *Command) *Command {
	if len(h.nested) == 0 {
		return cmd
	}
	group := NewBatch(cmd.name, append([]*Command{cmd}, h.nested...)...)
	group.ran = true
	h.nested = nil
	return group
}

// buffer appends cmd to the innermost open batch, if any.
func (h *History) buffer(cmd *Command) bool {
	if len(h.batches) == 0 {
		return false
	}
	top := h.batches[len(h.batches)-1]
	top.commands = append(top.commands, cmd)
	return true
}

func (h *History) push(cmd *Command) {
	if h.size == 0 {
		return
	}
	h.undo = append(h.undo, cmd)
	if h.size > 0 && len(h.undo) > h.size {
		evicted := len(h.undo) - h.size
		h.undo = slices.Delete(h.undo, 0, evicted)
		h.logger.Debug("History: evicted oldest commands", "count", evicted)
	}
}

// Batch runs fn with a batch open: commands run inside are recorded as a
// single command named name. Batches nest; an inner batch becomes one command
// of the outer one. If fn fails, or the batch contains a command that cannot
// be undone, the whole history is flushed.
func (h *History) Batch(name string, fn func() error) (err error) {
	if h.running {
		return fmt.Errorf("%w: cannot open batch %q while a command runs", ErrWhileRunning, name)
	}
	frame := &batchFrame{name: name}
	h.batches = append(h.batches, frame)
	defer func() {
		h.batches = h.batches[:len(h.batches)-1]
		if r := recover(); r != nil {
			h.Flush()
			panic(r)
		}
		if err != nil {
			h.Flush()
			return
		}
		if len(frame.commands) == 0 {
			return
		}
		batch := NewBatch(name, frame.commands...)
		batch.ran = true
		if h.buffer(batch) {
			return
		}
		if !batch.Undoable() {
			h.Flush()
			return
		}
		h.FlushRedo()
		h.push(batch)
	}()
	return fn()
}

// SetSize changes the bound. Shrinking it flushes the history.
func (h *History) SetSize(size int) error {
	if h.running || h.InBatch() {
		return fmt.Errorf("%w: cannot change size", ErrWhileRunning)
	}
	size = normalizeSize(size)
	old := h.size
	h.size = size
	if size != Unbounded && (old == Unbounded || size < old) {
		h.Flush()
	}
	return nil
}

// SetIndex undoes or redoes one command at a time until index is reached,
// emitting an IndexChangedEvent after every step. A failing step flushes the
// history.
func (h *History) SetIndex(index int) error {
	if h.running || h.InBatch() {
		return fmt.Errorf("%w: cannot change index", ErrWhileRunning)
	}
	if index < 0 || index > h.Len() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrIndexOutOfRange, index, h.Len())
	}
	for h.CurrentIndex() != index {
		if err := h.step(index > h.CurrentIndex()); err != nil {
			return err
		}
	}
	return nil
}

func (h *History) step(forward bool) error {
	old := h.CurrentIndex()
	h.running, h.stepping = true, true
	var err error
	if forward {
		cmd := h.redo[len(h.redo)-1]
		h.redo = h.redo[:len(h.redo)-1]
		if err = cmd.redo(); err == nil {
			h.undo = append(h.undo, cmd)
		}
	} else {
		cmd := h.undo[len(h.undo)-1]
		h.undo = h.undo[:len(h.undo)-1]
		if err = cmd.undo(); err == nil {
			h.redo = append(h.redo, cmd)
		}
	}
	if err == nil {
		_, err = h.emitter.Emit(IndexChangedEvent{History: h, Old: old, New: h.CurrentIndex()}, broadcast.PhasePost)
	}
	h.running, h.stepping = false, false
	if err != nil {
		h.logger.Warn("History: index change failed, flushing", "from", old, "err", err)
		h.Flush()
		return err
	}
	if h.hooks.OnIndexChange != nil {
		h.hooks.OnIndexChange(old, h.CurrentIndex())
	}
	h.flushQueued()
	return nil
}

// Undo reverts the last applied command.
func (h *History) Undo() error {
	if !h.CanUndo() {
		return ErrCannotUndo
	}
	return h.SetIndex(h.CurrentIndex() - 1)
}

// Redo reapplies the last undone command.
func (h *History) Redo() error {
	if !h.CanRedo() {
		return ErrCannotRedo
	}
	return h.SetIndex(h.CurrentIndex() + 1)
}

// UndoAll reverts every applied command.
func (h *History) UndoAll() error {
	return h.SetIndex(0)
}

// RedoAll reapplies every undone command.
func (h *History) RedoAll() error {
	return h.SetIndex(h.Len())
}
