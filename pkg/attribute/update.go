package attribute

import (
	"fmt"
)

// Update is a prepared, not yet committed, set of slot changes together with
// the slots they replace.
type Update struct {
	names   []string
	updates map[string]Slot
	reverts map[string]Slot
}

// Len returns the number of changed attributes.
func (u *Update) Len() int { return len(u.names) }

// Empty reports whether the update changes nothing.
func (u *Update) Empty() bool { return len(u.names) == 0 }

// Names returns the changed attributes in the order they were first staged.
func (u *Update) Names() []string { return append([]string(nil), u.names...) }

// New returns the slot name will hold after commit.
func (u *Update) New(name string) (Slot, bool) {
	s, ok := u.updates[name]
	return s, ok
}

// Old returns the slot name held before the update.
func (u *Update) Old(name string) (Slot, bool) {
	s, ok := u.reverts[name]
	return s, ok
}

// Inverse returns the update that restores the previous slots.
func (u *Update) Inverse() *Update {
	return &Update{names: u.names, updates: u.reverts, reverts: u.updates}
}

func (u *Update) String() string {
	out := "{"
	for i, n := range u.names {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %s", n, u.updates[n])
	}
	return out + "}"
}

type activeKey struct {
	name string
	kind Kind
}

// txn is the scratch state of a single Prepare call.
type txn struct {
	state   *State
	updates map[string]Slot
	order   []string
	seen    map[string]bool
	dirty   map[string]bool
	active  map[activeKey]bool
}

func newTxn(s *State) *txn {
	return &txn{
		state:   s,
		updates: make(map[string]Slot),
		seen:    make(map[string]bool),
		dirty:   make(map[string]bool),
		active:  make(map[activeKey]bool),
	}
}

func (t *txn) read(name string) Slot {
	if s, ok := t.updates[name]; ok {
		return s
	}
	return t.state.slots[name]
}

// stage records slot for name, dropping it again when it matches the
// committed state.
func (t *txn) stage(name string, slot Slot) {
	if !t.seen[name] {
		t.seen[name] = true
		t.order = append(t.order, name)
	}
	if slot.Equal(t.state.slots[name]) {
		delete(t.updates, name)
		return
	}
	t.updates[name] = slot
}

// write stages slot and marks every dependent getter dirty.
func (t *txn) write(name string, slot Slot) {
	t.stage(name, slot)
	for _, d := range t.state.class.dependents[name] {
		t.dirty[d] = true
	}
	delete(t.dirty, name)
}

func (t *txn) enter(spec *Spec, kind Kind) (func(), error) {
	key := activeKey{name: spec.name, kind: kind}
	if t.active[key] {
		return nil, newError(t.state.class.name, spec.name, fmt.Errorf("%w in %s", ErrDelegateRecursion, kind))
	}
	t.active[key] = true
	return func() { delete(t.active, key) }, nil
}

func (t *txn) setThrough(spec *Spec, v any) error {
	if spec.setter == nil {
		t.write(spec.name, Value(v))
		return nil
	}
	leave, err := t.enter(spec, KindSetter)
	if err != nil {
		return err
	}
	defer leave()
	return spec.setter.set(t.access(spec, spec.setter), v)
}

func (t *txn) deleteThrough(spec *Spec) error {
	if spec.deleter == nil {
		t.write(spec.name, DeletedSlot())
		return nil
	}
	leave, err := t.enter(spec, KindDeleter)
	if err != nil {
		return err
	}
	defer leave()
	return spec.deleter.del(t.access(spec, spec.deleter))
}

func (t *txn) compute(spec *Spec) (any, error) {
	leave, err := t.enter(spec, KindGetter)
	if err != nil {
		return nil, err
	}
	defer leave()
	return spec.getter.get(t.access(spec, spec.getter))
}

// resolveDirty recomputes dirty getters in topological order. A getter whose
// dependencies are not all present collapses to Missing.
func (t *txn) resolveDirty() error {
	for _, name := range t.state.class.topo {
		if !t.dirty[name] {
			continue
		}
		spec := t.state.class.specs[name]
		ready := true
		for _, dep := range spec.getter.Gets {
			if !t.read(dep).IsPresent() {
				ready = false
				break
			}
		}
		switch {
		case ready:
			v, err := t.compute(spec)
			if err != nil {
				return err
			}
			t.stage(name, Value(v))
		default:
			if _, staged := t.updates[name]; staged || t.state.slots[name].kind != Missing {
				t.stage(name, Slot{})
			}
		}
		delete(t.dirty, name)
	}
	return nil
}

func (t *txn) result() *Update {
	u := &Update{
		updates: make(map[string]Slot, len(t.updates)),
		reverts: make(map[string]Slot, len(t.updates)),
	}
	for _, name := range t.order {
		slot, ok := t.updates[name]
		if !ok {
			continue
		}
		u.names = append(u.names, name)
		u.updates[name] = slot
		u.reverts[name] = t.state.slots[name]
	}
	return u
}

func (t *txn) access(spec *Spec, d *Delegate) *Access {
	return &Access{t: t, spec: spec, d: d}
}

// Access is the view a delegate gets of the object being updated. It only
// exposes the attributes the delegate declared, and reads see values staged
// earlier in the same update.
type Access struct {
	t    *txn
	spec *Spec
	d    *Delegate
}

// Attribute returns the name of the attribute whose delegate is running.
func (a *Access) Attribute() string { return a.spec.name }

func (a *Access) deny(name string, kind Kind) error {
	return newError(a.t.state.class.name, a.spec.name,
		fmt.Errorf("%w: %s cannot %s %q", ErrUndeclaredDependency, a.d.Kind, verb(kind), name))
}

func verb(kind Kind) string {
	switch kind {
	case KindSetter:
		return "set"
	case KindDeleter:
		return "delete"
	default:
		return "get"
	}
}

// Get reads a declared dependency. Getter-backed dependencies that are stale
// within this update are recomputed.
func (a *Access) Get(name string) (any, error) {
	if !a.d.allows(KindGetter, name) {
		return nil, a.deny(name, KindGetter)
	}
	cls := a.t.state.class
	spec := cls.specs[name]
	if spec.getter != nil && a.t.dirty[name] {
		return a.t.compute(spec)
	}
	slot := a.t.read(name)
	switch slot.kind {
	case Present:
		return slot.value, nil
	case Deleted:
		return nil, newError(cls.name, name, ErrDeleted)
	default:
		if spec.getter != nil {
			return nil, newError(cls.name, name, ErrMissingValue)
		}
		return nil, newError(cls.name, name, ErrNotInitialized)
	}
}

// Set writes a declared dependency, going through its own setter if it has one.
func (a *Access) Set(name string, v any) error {
	if !a.d.allows(KindSetter, name) {
		return a.deny(name, KindSetter)
	}
	spec := a.t.state.class.specs[name]
	v, err := spec.Fabricate(v)
	if err != nil {
		return err
	}
	return a.t.setThrough(spec, v)
}

// Delete deletes a declared dependency, going through its own deleter if it
// has one.
func (a *Access) Delete(name string) error {
	if !a.d.allows(KindDeleter, name) {
		return a.deny(name, KindDeleter)
	}
	return a.t.deleteThrough(a.t.state.class.specs[name])
}
