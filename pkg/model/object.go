package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/hierarchy"
)

// Object is a model described by the attributes of a class.
type Object struct {
	Base
	class *attribute.Class
	state *attribute.State
}

// NewObject creates an object of cls. Attribute defaults are applied first,
// then reqs in order. If either fails the object is freed and the error
// returned.
func (g *Graph) NewObject(cls *attribute.Class, reqs ...attribute.Request) (*Object, error) {
	o := &Object{class: cls, state: cls.NewState()}
	o.init(g, o)

	var initial []attribute.Request
	for _, spec := range cls.Specs() {
		v, ok, err := spec.Default()
		if err != nil {
			_ = g.Free(o)
			return nil, fmt.Errorf("%s: %w", cls.Name(), err)
		}
		if ok {
			initial = append(initial, attribute.Set(spec.Name(), v))
		}
	}
	initial = append(initial, reqs...)
	if err := o.Update(initial...); err != nil {
		_ = g.Free(o)
		return nil, err
	}
	return o, nil
}

// Class returns the object class.
func (o *Object) Class() *attribute.Class { return o.class }

// Keys returns the attribute names in declaration order.
func (o *Object) Keys() []string { return o.class.Names() }

// Get returns the current value of name.
func (o *Object) Get(name string) (any, error) {
	return o.state.Get(name)
}

// Slot returns the raw slot of name.
func (o *Object) Slot(name string) attribute.Slot {
	return o.state.Slot(name)
}

// Set changes a single attribute.
func (o *Object) Set(name string, v any) error {
	return o.Update(attribute.Set(name, v))
}

// Delete removes the value of name. The attribute must currently hold one.
func (o *Object) Delete(name string) error {
	if _, err := o.Get(name); err != nil {
		return err
	}
	return o.Update(attribute.Del(name))
}

// Update applies reqs as one change. Models assigned to parent attributes
// are adopted and the ones they replace released; those assigned to history
// attributes also share the object's history. Validation failures leave the
// object untouched. An update that changes nothing dispatches nothing.
func (o *Object) Update(reqs ...attribute.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	if !o.Alive() {
		return ErrFreed
	}
	u, err := o.state.Prepare(reqs...)
	if err != nil {
		return err
	}
	if u.Empty() {
		return nil
	}

	counts := make(map[hierarchy.Handle]int)
	var shared []Model
	for _, name := range u.Names() {
		spec, _ := o.class.Attribute(name)
		if !spec.Parent() {
			continue
		}
		old, _ := u.Old(name)
		if m, ok := slotModel(old); ok {
			h, err := o.graph.handleOf(m)
			if err != nil {
				return err
			}
			counts[h]--
		}
		cur, _ := u.New(name)
		if m, ok := slotModel(cur); ok {
			h, err := o.graph.handleOf(m)
			if err != nil {
				return err
			}
			counts[h]++
			if spec.History() {
				shared = append(shared, m)
			}
		}
	}
	children, err := o.graph.tree.PrepareChildren(o.node, counts)
	if err != nil {
		return fmt.Errorf("%s: %w", o.class.Name(), err)
	}
	shared = slices.DeleteFunc(shared, func(m Model) bool {
		return !slices.Contains(children.Adoptions, m.modelBase().node)
	})

	inverse := u.Inverse()
	releases := children.Inverse()
	redoEvent := AttributesUpdateEvent{Change: changeOf(o, children), newValues: slotsOf(u.New, u.Names()), oldValues: slotsOf(u.Old, u.Names())}
	undoEvent := AttributesUpdateEvent{Change: changeOf(o, releases), newValues: redoEvent.oldValues, oldValues: redoEvent.newValues}

	ok, err := o.Dispatch("Update Attributes",
		func() {
			o.graph.tree.UpdateChildren(o.node, children)
			o.state.Commit(u)
		}, redoEvent,
		func() {
			o.graph.tree.UpdateChildren(o.node, releases)
			o.state.Commit(inverse)
		}, undoEvent,
		ShareHistory(shared...),
	)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: update attributes: %w", o.class.Name(), ErrRejected)
	}
	return nil
}

func slotModel(s attribute.Slot) (Model, bool) {
	v, ok := s.Get()
	if !ok {
		return nil, false
	}
	m, ok := v.(Model)
	return m, ok && m != nil
}

func slotsOf(get func(string) (attribute.Slot, bool), names []string) map[string]attribute.Slot {
	out := make(map[string]attribute.Slot, len(names))
	for _, n := range names {
		out[n], _ = get(n)
	}
	return out
}

// String lists the represented attributes that hold a value.
func (o *Object) String() string {
	var parts []string
	o.state.Range(func(spec *attribute.Spec, slot attribute.Slot) bool {
		if !spec.Represented() {
			return true
		}
		if v, ok := slot.Get(); ok {
			parts = append(parts, spec.Name()+"="+formatValue(v))
		}
		return true
	})
	return o.class.Name() + "(" + strings.Join(parts, ", ") + ")"
}

// Equal reports whether other has the same class and equal comparable
// attributes.
func (o *Object) Equal(other *Object) bool {
	if o == other {
		return true
	}
	if other == nil || o.class != other.class {
		return false
	}
	equal := true
	o.state.Range(func(spec *attribute.Spec, slot attribute.Slot) bool {
		if spec.Comparable() && !slot.Equal(other.state.Slot(spec.Name())) {
			equal = false
		}
		return equal
	})
	return equal
}

func formatValue(v any) string {
	switch x := v.(type) {
	case Model:
		return describe(x)
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
