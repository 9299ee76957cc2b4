package model

import (
	"maps"
	"slices"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/hierarchy"
)

// Event describes a change dispatched by a model: the model acted upon and
// the children it adopts and releases.
type Event interface {
	Model() Model
	Adoptions() []Model
	Releases() []Model
}

// Change is the common part of every model event. It is embedded by the
// concrete events and can be embedded by custom ones.
type Change struct {
	model     Model
	adoptions []Model
	releases  []Model
}

// NewChange creates the common event part for m.
func NewChange(m Model, adoptions, releases []Model) Change {
	return Change{model: m, adoptions: slices.Clone(adoptions), releases: slices.Clone(releases)}
}

func changeOf(m Model, u hierarchy.ChildrenUpdates) Change {
	g := m.modelBase().graph
	return Change{model: m, adoptions: g.resolve(u.Adoptions), releases: g.resolve(u.Releases)}
}

// Model returns the model acted upon.
func (c Change) Model() Model { return c.model }

// Adoptions returns the models that become children.
func (c Change) Adoptions() []Model { return slices.Clone(c.adoptions) }

// Releases returns the models that stop being children.
func (c Change) Releases() []Model { return slices.Clone(c.releases) }

// Equal compares the model by identity and adoptions and releases as sets.
func (c Change) Equal(o Change) bool {
	return c.model == o.model && sameModels(c.adoptions, o.adoptions) && sameModels(c.releases, o.releases)
}

func sameModels(a, b []Model) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[Model]bool, len(a))
	for _, m := range a {
		set[m] = true
	}
	for _, m := range b {
		if !set[m] {
			return false
		}
	}
	return true
}

// AttributesUpdateEvent is emitted when object attributes change.
type AttributesUpdateEvent struct {
	Change
	newValues map[string]attribute.Slot
	oldValues map[string]attribute.Slot
}

// NewValues returns the slots after the change, by attribute name.
func (e AttributesUpdateEvent) NewValues() map[string]attribute.Slot { return maps.Clone(e.newValues) }

// OldValues returns the slots before the change, by attribute name.
func (e AttributesUpdateEvent) OldValues() map[string]attribute.Slot { return maps.Clone(e.oldValues) }

// Equal compares identity fields by identity and values by value.
func (e AttributesUpdateEvent) Equal(o AttributesUpdateEvent) bool {
	return e.Change.Equal(o.Change) &&
		maps.EqualFunc(e.newValues, o.newValues, attribute.Slot.Equal) &&
		maps.EqualFunc(e.oldValues, o.oldValues, attribute.Slot.Equal)
}

// ListInsertEvent is emitted when values are inserted into a list.
type ListInsertEvent struct {
	Change
	index  int
	values []any
}

// Index returns the position of the first inserted value.
func (e ListInsertEvent) Index() int { return e.index }

// Values returns the inserted values.
func (e ListInsertEvent) Values() []any { return slices.Clone(e.values) }

// Equal compares identity fields by identity and values by value.
func (e ListInsertEvent) Equal(o ListInsertEvent) bool {
	return e.Change.Equal(o.Change) && e.index == o.index && slices.EqualFunc(e.values, o.values, attribute.Equal)
}

// ListPopEvent is emitted when values are removed from a list.
type ListPopEvent struct {
	Change
	index  int
	values []any
}

// Index returns the position of the first removed value.
func (e ListPopEvent) Index() int { return e.index }

// Values returns the removed values.
func (e ListPopEvent) Values() []any { return slices.Clone(e.values) }

// Equal compares identity fields by identity and values by value.
func (e ListPopEvent) Equal(o ListPopEvent) bool {
	return e.Change.Equal(o.Change) && e.index == o.index && slices.EqualFunc(e.values, o.values, attribute.Equal)
}

// ListMoveEvent is emitted when a value moves within a list.
type ListMoveEvent struct {
	Change
	index  int
	target int
}

// Index returns the position the value moved from.
func (e ListMoveEvent) Index() int { return e.index }

// Target returns the position the value moved to.
func (e ListMoveEvent) Target() int { return e.target }

// Equal compares identity fields by identity and positions by value.
func (e ListMoveEvent) Equal(o ListMoveEvent) bool {
	return e.Change.Equal(o.Change) && e.index == o.index && e.target == o.target
}
