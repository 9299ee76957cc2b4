package model

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/aretw0/modelo/pkg/broadcast"
	"github.com/aretw0/modelo/pkg/hierarchy"
	"github.com/aretw0/modelo/pkg/history"
)

// Model is a node of a Graph whose changes go through Dispatch.
type Model interface {
	fmt.Stringer
	ID() uuid.UUID
	Events() *broadcast.Emitter
	modelBase() *Base
}

// Base carries what every model shares: identity, hierarchy node, emitters
// and the attached history.
type Base struct {
	graph    *Graph
	id       uuid.UUID
	node     hierarchy.Handle
	internal *broadcast.Emitter
	events   *broadcast.Emitter

	history    *history.History
	ownHistory bool
}

func (b *Base) init(g *Graph, self Model) {
	b.graph = g
	b.id = uuid.New()
	b.internal = broadcast.NewEmitter(broadcast.Internal())
	b.events = broadcast.NewEmitter()
	b.node = g.tree.Add(self)
}

func (b *Base) modelBase() *Base { return b }

// ID returns the unique identity of the model.
func (b *Base) ID() uuid.UUID { return b.id }

// Graph returns the graph the model lives in.
func (b *Base) Graph() *Graph { return b.graph }

// Alive reports whether the model was not freed.
func (b *Base) Alive() bool { return b.graph.tree.Contains(b.node) }

// Events returns the public emitter. Its listeners observe PhasePre and
// PhasePost and cannot reject.
func (b *Base) Events() *broadcast.Emitter { return b.events }

// InternalEvents returns the internal emitter. Its listeners may reject a
// change during PhaseInternalPre.
func (b *Base) InternalEvents() *broadcast.Emitter { return b.internal }

// History returns the attached history, or nil.
func (b *Base) History() *history.History { return b.history }

// SetHistory attaches h as the model's own history. Children adopted through
// history attributes no longer replace it. The previously attached history is
// flushed. A nil h detaches.
func (b *Base) SetHistory(h *history.History) {
	b.ownHistory = h != nil
	b.attach(h)
}

func (b *Base) attach(h *history.History) {
	if b.history == h {
		return
	}
	if b.history != nil {
		b.history.Flush()
	}
	b.history = h
}

// DispatchOption configures a single Dispatch.
type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	share []Model
}

// ShareHistory makes the given models, adopted by the change, share the
// dispatcher's history unless they have one of their own.
func ShareHistory(models ...Model) DispatchOption {
	return func(c *dispatchConfig) {
		c.share = append(c.share, models...)
	}
}

// Dispatch is the single pathway every change takes:
//
//  1. redoEvent is emitted at PhaseInternalPre; a rejection returns false and
//     nothing changes.
//  2. A command is built whose redo and undo emit their event at PhasePre and
//     PhasePost on both emitters around the mutation.
//  3. The command runs through the attached history, or directly without one.
//  4. redoEvent is emitted at PhaseInternalPost.
//  5. Models passed with ShareHistory join the dispatcher's history.
//
// Errors from listeners or the history are returned as is.
func (b *Base) Dispatch(name string, redo func(), redoEvent Event, undo func(), undoEvent Event, opts ...DispatchOption) (bool, error) {
	if !b.Alive() {
		return false, ErrFreed
	}
	var cfg dispatchConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	g := b.graph

	accepted, err := b.internal.Emit(redoEvent, broadcast.PhaseInternalPre)
	if err != nil {
		g.fail(name, err)
		return false, err
	}
	if !accepted {
		g.logger.Debug("Dispatch: rejected", "name", name, "object", b.id)
		if g.hooks.OnDispatch != nil {
			g.hooks.OnDispatch(name, false)
		}
		return false, nil
	}

	cmd := history.NewReversible(name,
		func() error { return b.apply(redoEvent, redo) },
		func() error { return b.apply(undoEvent, undo) },
	)
	if b.history != nil {
		err = b.history.Run(cmd)
	} else {
		err = cmd.Run()
	}
	if err != nil {
		g.fail(name, err)
		return false, err
	}

	if _, err := b.internal.Emit(redoEvent, broadcast.PhaseInternalPost); err != nil {
		g.fail(name, err)
		return true, err
	}
	b.share(cfg.share)

	g.logger.Debug("Dispatch: applied", "name", name, "object", b.id)
	if g.hooks.OnDispatch != nil {
		g.hooks.OnDispatch(name, true)
	}
	return true, nil
}

func (b *Base) apply(event Event, mutate func()) error {
	if _, err := b.internal.Emit(event, broadcast.PhasePre); err != nil {
		return err
	}
	if _, err := b.events.Emit(event, broadcast.PhasePre); err != nil {
		return err
	}
	mutate()
	if _, err := b.internal.Emit(event, broadcast.PhasePost); err != nil {
		return err
	}
	_, err := b.events.Emit(event, broadcast.PhasePost)
	return err
}

// share attaches the dispatcher's history to each model and to the
// descendants that were sharing that model's previous history.
func (b *Base) share(models []Model) {
	if b.history == nil {
		return
	}
	for _, m := range models {
		mb := m.modelBase()
		if mb.ownHistory || mb.history == b.history {
			continue
		}
		previous := mb.history
		for d := range b.graph.IterDown(m, hierarchy.Inclusive()) {
			db := d.modelBase()
			if db.ownHistory || db.history != previous {
				continue
			}
			db.history = b.history
		}
		if previous != nil {
			previous.Flush()
		}
	}
}

func describe(m Model) string {
	id := m.ID().String()
	switch v := m.(type) {
	case *Object:
		return fmt.Sprintf("%s<%s>", v.class.Name(), id[:8])
	case *List:
		return fmt.Sprintf("List<%s>", id[:8])
	default:
		return id
	}
}
