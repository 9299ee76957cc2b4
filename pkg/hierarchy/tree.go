package hierarchy

import (
	"iter"
	"maps"
	"slices"

	"github.com/aretw0/modelo/internal/arena"
)

// Handle addresses a node in a Tree.
type Handle = arena.Handle

type node[T any] struct {
	value      T
	parent     Handle
	lastParent Handle
	children   []Handle
}

// Tree is an arena of nodes carrying values of type T.
type Tree[T any] struct {
	nodes *arena.Arena[*node[T]]
}

// New creates an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{nodes: arena.New[*node[T]]()}
}

// Add inserts a parentless node holding value.
func (t *Tree[T]) Add(value T) Handle {
	return t.nodes.Alloc(&node[T]{value: value})
}

// Len returns the number of live nodes.
func (t *Tree[T]) Len() int { return t.nodes.Len() }

// Contains reports whether h is a live node.
func (t *Tree[T]) Contains(h Handle) bool { return t.nodes.Valid(h) }

// Value returns the value held by h.
func (t *Tree[T]) Value(h Handle) (T, bool) {
	n, ok := t.nodes.Get(h)
	if !ok {
		var zero T
		return zero, false
	}
	return n.value, true
}

// Remove frees h. A node that still has a parent cannot be removed; its
// children become parentless.
func (t *Tree[T]) Remove(h Handle) error {
	n, ok := t.nodes.Get(h)
	if !ok {
		return &Error{Child: h, Err: ErrUnknownNode}
	}
	if p, ok := t.Parent(h); ok {
		return &Error{Parent: p, Child: h, Err: ErrStillParented}
	}
	for _, c := range n.children {
		if cn, ok := t.nodes.Get(c); ok {
			cn.parent = Handle{}
		}
	}
	t.nodes.Free(h)
	return nil
}

// Parent returns the current parent of h.
func (t *Tree[T]) Parent(h Handle) (Handle, bool) {
	n, ok := t.nodes.Get(h)
	if !ok || !t.nodes.Valid(n.parent) {
		return Handle{}, false
	}
	return n.parent, true
}

// LastParent returns the most recent parent h ever had, if it is still alive.
func (t *Tree[T]) LastParent(h Handle) (Handle, bool) {
	n, ok := t.nodes.Get(h)
	if !ok || !t.nodes.Valid(n.lastParent) {
		return Handle{}, false
	}
	return n.lastParent, true
}

// Children returns the children of h in adoption order.
func (t *Tree[T]) Children(h Handle) []Handle {
	n, ok := t.nodes.Get(h)
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// HasChild reports whether child is a direct child of parent.
func (t *Tree[T]) HasChild(parent, child Handle) bool {
	p, ok := t.Parent(child)
	return ok && p == parent
}

// ChildrenUpdates is a validated set of adoptions and releases.
type ChildrenUpdates struct {
	Adoptions []Handle
	Releases  []Handle
}

// Empty reports whether nothing changes.
func (u ChildrenUpdates) Empty() bool {
	return len(u.Adoptions) == 0 && len(u.Releases) == 0
}

// Inverse swaps adoptions and releases.
func (u ChildrenUpdates) Inverse() ChildrenUpdates {
	return ChildrenUpdates{Adoptions: u.Releases, Releases: u.Adoptions}
}

// PrepareChildren validates the child count deltas for parent. A count of +1
// adopts, -1 releases and 0 is ignored. The tree is not modified.
func (t *Tree[T]) PrepareChildren(parent Handle, counts map[Handle]int) (ChildrenUpdates, error) {
	var u ChildrenUpdates
	if !t.nodes.Valid(parent) {
		return u, &Error{Parent: parent, Err: ErrUnknownNode}
	}
	for _, child := range slices.SortedFunc(maps.Keys(counts), Handle.Compare) {
		count := counts[child]
		switch {
		case count == 0:
			continue
		case count > 1:
			return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrMultipleParenting}
		case count < -1:
			return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrMultipleUnparenting}
		}
		if !t.nodes.Valid(child) {
			return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrUnknownNode}
		}
		if count == -1 {
			if !t.HasChild(parent, child) {
				return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrNotParented}
			}
			u.Releases = append(u.Releases, child)
			continue
		}
		if _, ok := t.Parent(child); ok {
			return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrAlreadyParented}
		}
		for ancestor := range t.IterUp(parent) {
			if ancestor == child {
				return ChildrenUpdates{}, &Error{Parent: parent, Child: child, Err: ErrParentCycle}
			}
		}
		u.Adoptions = append(u.Adoptions, child)
	}
	return u, nil
}

// UpdateChildren applies updates prepared by PrepareChildren for parent.
func (t *Tree[T]) UpdateChildren(parent Handle, u ChildrenUpdates) {
	p, ok := t.nodes.Get(parent)
	if !ok {
		return
	}
	for _, c := range u.Releases {
		if n, ok := t.nodes.Get(c); ok {
			n.parent = Handle{}
		}
		if i := slices.Index(p.children, c); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	for _, c := range u.Adoptions {
		n, ok := t.nodes.Get(c)
		if !ok {
			continue
		}
		n.parent = parent
		n.lastParent = parent
		p.children = append(p.children, c)
	}
}

// IterUp yields h and then each of its ancestors.
func (t *Tree[T]) IterUp(h Handle) iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		if !t.nodes.Valid(h) {
			return
		}
		for cur, ok := h, true; ok; cur, ok = t.Parent(cur) {
			if !yield(cur) {
				return
			}
		}
	}
}

// IterOption configures IterDown.
type IterOption func(*iterConfig)

type iterConfig struct {
	inclusive  bool
	depthFirst bool
}

// Inclusive makes IterDown yield the starting node first.
func Inclusive() IterOption {
	return func(c *iterConfig) { c.inclusive = true }
}

// DepthFirst makes IterDown walk depth-first instead of breadth-first.
func DepthFirst() IterOption {
	return func(c *iterConfig) { c.depthFirst = true }
}

// IterDown yields the descendants of h, breadth-first unless DepthFirst is
// given.
func (t *Tree[T]) IterDown(h Handle, opts ...IterOption) iter.Seq[Handle] {
	var cfg iterConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(yield func(Handle) bool) {
		if !t.nodes.Valid(h) {
			return
		}
		if cfg.inclusive && !yield(h) {
			return
		}
		if cfg.depthFirst {
			t.walkDepth(h, yield)
			return
		}
		queue := t.Children(h)
		for len(queue) > 0 {
			c := queue[0]
			queue = queue[1:]
			if !yield(c) {
				return
			}
			queue = append(queue, t.Children(c)...)
		}
	}
}

func (t *Tree[T]) walkDepth(h Handle, yield func(Handle) bool) bool {
	for _, c := range t.Children(h) {
		if !yield(c) || !t.walkDepth(c, yield) {
			return false
		}
	}
	return true
}
