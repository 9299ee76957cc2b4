package model

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/hierarchy"
	"github.com/aretw0/modelo/pkg/schema"
)

// List is a model holding an ordered sequence of values. Model values are
// adopted as children unless WithoutParenting is given.
type List struct {
	Base
	values []any

	typ          schema.Type
	parent       bool
	shareHistory bool
}

// ListOption configures a List.
type ListOption func(*List)

// WithValueType constrains the values a list accepts.
func WithValueType(t schema.Type) ListOption {
	return func(l *List) {
		l.typ = t
	}
}

// WithoutParenting stores model values without adopting them.
func WithoutParenting() ListOption {
	return func(l *List) {
		l.parent = false
	}
}

// WithoutHistorySharing keeps adopted models on their own history.
func WithoutHistorySharing() ListOption {
	return func(l *List) {
		l.shareHistory = false
	}
}

// NewList creates an empty list.
func (g *Graph) NewList(opts ...ListOption) *List {
	l := &List{parent: true, shareHistory: true}
	for _, opt := range opts {
		opt(l)
	}
	l.init(g, l)
	return l
}

// Len returns the number of values.
func (l *List) Len() int { return len(l.values) }

// At returns the value at index. Negative indices count from the end.
func (l *List) At(index int) (any, bool) {
	i, ok := l.position(index)
	if !ok {
		return nil, false
	}
	return l.values[i], true
}

// Values returns a copy of the values.
func (l *List) Values() []any { return slices.Clone(l.values) }

// All yields index and value pairs.
func (l *List) All() iter.Seq2[int, any] {
	return slices.All(l.values)
}

func (l *List) position(index int) (int, bool) {
	if index < 0 {
		index += len(l.values)
	}
	return index, index >= 0 && index < len(l.values)
}

// Append inserts values at the end.
func (l *List) Append(values ...any) error {
	return l.Insert(len(l.values), values...)
}

// Insert inserts values before index. Negative indices count from the end
// and out of range indices are clamped.
func (l *List) Insert(index int, values ...any) error {
	if len(values) == 0 {
		return nil
	}
	if !l.Alive() {
		return ErrFreed
	}
	if index < 0 {
		index = max(index+len(l.values), 0)
	}
	index = min(index, len(l.values))

	values = slices.Clone(values)
	for _, v := range values {
		if l.typ == nil {
			continue
		}
		if err := l.typ.Validate(v); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
	}
	children, err := l.prepareChildren(values, 1)
	if err != nil {
		return err
	}
	var shared []Model
	if l.shareHistory {
		shared = changeOf(l, children).adoptions
	}

	releases := children.Inverse()
	redoEvent := ListInsertEvent{Change: changeOf(l, children), index: index, values: values}
	undoEvent := ListPopEvent{Change: changeOf(l, releases), index: index, values: values}
	end := index + len(values)
	ok, err := l.Dispatch("Insert Values",
		func() {
			l.graph.tree.UpdateChildren(l.node, children)
			l.values = slices.Insert(l.values, index, values...)
		}, redoEvent,
		func() {
			l.graph.tree.UpdateChildren(l.node, releases)
			l.values = slices.Delete(l.values, index, end)
		}, undoEvent,
		ShareHistory(shared...),
	)
	return dispatchResult("insert values", ok, err)
}

// Pop removes and returns the value at index. Negative indices count from
// the end.
func (l *List) Pop(index int) (any, error) {
	if !l.Alive() {
		return nil, ErrFreed
	}
	i, ok := l.position(index)
	if !ok {
		return nil, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, index, len(l.values))
	}
	v := l.values[i]
	children, err := l.prepareChildren([]any{v}, -1)
	if err != nil {
		return nil, err
	}

	adoptions := children.Inverse()
	redoEvent := ListPopEvent{Change: changeOf(l, children), index: i, values: []any{v}}
	undoEvent := ListInsertEvent{Change: changeOf(l, adoptions), index: i, values: []any{v}}
	accepted, err := l.Dispatch("Pop Values",
		func() {
			l.graph.tree.UpdateChildren(l.node, children)
			l.values = slices.Delete(l.values, i, i+1)
		}, redoEvent,
		func() {
			l.graph.tree.UpdateChildren(l.node, adoptions)
			l.values = slices.Insert(l.values, i, v)
		}, undoEvent,
	)
	if err := dispatchResult("pop values", accepted, err); err != nil {
		return nil, err
	}
	return v, nil
}

// Move moves the value at index so that it ends up at target.
func (l *List) Move(index, target int) error {
	if !l.Alive() {
		return ErrFreed
	}
	from, ok := l.position(index)
	if !ok {
		return fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, index, len(l.values))
	}
	to, ok := l.position(target)
	if !ok {
		return fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, target, len(l.values))
	}
	if from == to {
		return nil
	}
	none := hierarchy.ChildrenUpdates{}
	ok, err := l.Dispatch("Move Values",
		func() { l.values = moveItem(l.values, from, to) },
		ListMoveEvent{Change: changeOf(l, none), index: from, target: to},
		func() { l.values = moveItem(l.values, to, from) },
		ListMoveEvent{Change: changeOf(l, none), index: to, target: from},
	)
	return dispatchResult("move values", ok, err)
}

func moveItem(values []any, from, to int) []any {
	v := values[from]
	values = slices.Delete(values, from, from+1)
	return slices.Insert(values, to, v)
}

// prepareChildren validates adopting (sign 1) or releasing (sign -1) the
// model values among values.
func (l *List) prepareChildren(values []any, sign int) (hierarchy.ChildrenUpdates, error) {
	counts := make(map[hierarchy.Handle]int)
	if l.parent {
		for _, v := range values {
			m, ok := v.(Model)
			if !ok || m == nil {
				continue
			}
			h, err := l.graph.handleOf(m)
			if err != nil {
				return hierarchy.ChildrenUpdates{}, err
			}
			counts[h] += sign
		}
	}
	children, err := l.graph.tree.PrepareChildren(l.node, counts)
	if err != nil {
		return hierarchy.ChildrenUpdates{}, fmt.Errorf("list: %w", err)
	}
	return children, nil
}

func dispatchResult(op string, accepted bool, err error) error {
	if err != nil {
		return err
	}
	if !accepted {
		return fmt.Errorf("%s: %w", op, ErrRejected)
	}
	return nil
}

// String lists the values.
func (l *List) String() string {
	parts := make([]string, len(l.values))
	for i, v := range l.values {
		parts[i] = formatValue(v)
	}
	return "List[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether other holds equal values in the same order.
func (l *List) Equal(other *List) bool {
	if l == other {
		return true
	}
	return other != nil && slices.EqualFunc(l.values, other.values, attribute.Equal)
}
