package model

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/aretw0/modelo/internal/logging"
	"github.com/aretw0/modelo/pkg/hierarchy"
)

// Hooks observes dispatches across a graph.
type Hooks struct {
	// OnDispatch is called once per dispatch that did not fail. accepted is
	// false when an internal listener rejected the change.
	OnDispatch func(name string, accepted bool)
	// OnFailure is called when a dispatch returns an error.
	OnFailure func(name string, err error)
}

// Graph owns the hierarchy every model of a scope lives in.
// Graph is NOT safe for concurrent use.
type Graph struct {
	tree   *hierarchy.Tree[Model]
	logger *slog.Logger
	hooks  Hooks
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// WithHooks installs dispatch callbacks.
func WithHooks(hooks Hooks) Option {
	return func(g *Graph) {
		g.hooks = hooks
	}
}

// NewGraph creates an empty graph.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		tree:   hierarchy.New[Model](),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Len returns the number of live models.
func (g *Graph) Len() int { return g.tree.Len() }

// Contains reports whether m is a live model of g.
func (g *Graph) Contains(m Model) bool {
	b := m.modelBase()
	return b.graph == g && g.tree.Contains(b.node)
}

// Free removes m from the graph. A model that still has a parent cannot be
// freed; its children lose their parent. Parent links pointing at m stop
// resolving.
func (g *Graph) Free(m Model) error {
	b := m.modelBase()
	if b.graph != g {
		return ErrForeignModel
	}
	if err := g.tree.Remove(b.node); err != nil {
		return fmt.Errorf("free %s: %w", describe(m), err)
	}
	g.logger.Debug("Graph: freed", "model", b.id)
	return nil
}

// Parent returns the current parent of m.
func (g *Graph) Parent(m Model) (Model, bool) {
	h, ok := g.tree.Parent(m.modelBase().node)
	if !ok {
		return nil, false
	}
	return g.tree.Value(h)
}

// LastParent returns the most recent parent of m, if it is still alive.
func (g *Graph) LastParent(m Model) (Model, bool) {
	h, ok := g.tree.LastParent(m.modelBase().node)
	if !ok {
		return nil, false
	}
	return g.tree.Value(h)
}

// Children returns the children of m in adoption order.
func (g *Graph) Children(m Model) []Model {
	return g.resolve(g.tree.Children(m.modelBase().node))
}

// IterUp yields m and then each of its ancestors.
func (g *Graph) IterUp(m Model) iter.Seq[Model] {
	return g.values(g.tree.IterUp(m.modelBase().node))
}

// IterDown yields the descendants of m, breadth-first by default.
func (g *Graph) IterDown(m Model, opts ...hierarchy.IterOption) iter.Seq[Model] {
	return g.values(g.tree.IterDown(m.modelBase().node, opts...))
}

func (g *Graph) values(seq iter.Seq[hierarchy.Handle]) iter.Seq[Model] {
	return func(yield func(Model) bool) {
		for h := range seq {
			if m, ok := g.tree.Value(h); ok && !yield(m) {
				return
			}
		}
	}
}

func (g *Graph) resolve(handles []hierarchy.Handle) []Model {
	out := make([]Model, 0, len(handles))
	for _, h := range handles {
		if m, ok := g.tree.Value(h); ok {
			out = append(out, m)
		}
	}
	return out
}

// handleOf returns the node of a model that may become a child.
func (g *Graph) handleOf(m Model) (hierarchy.Handle, error) {
	b := m.modelBase()
	if b.graph != g {
		return hierarchy.Handle{}, fmt.Errorf("%w: %s", ErrForeignModel, describe(m))
	}
	if !g.tree.Contains(b.node) {
		return hierarchy.Handle{}, fmt.Errorf("%w: %s", ErrFreed, describe(m))
	}
	return b.node, nil
}

func (g *Graph) fail(name string, err error) {
	g.logger.Warn("Dispatch: failed", "name", name, "err", err)
	if g.hooks.OnFailure != nil {
		g.hooks.OnFailure(name, err)
	}
}
