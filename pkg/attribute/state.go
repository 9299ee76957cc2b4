package attribute

import (
	"fmt"
	"strings"
)

// Request is one entry of an ordered update: set Name to Value, or delete it.
type Request struct {
	Name   string
	Value  any
	Delete bool
}

// Set requests name to be set to v.
func Set(name string, v any) Request {
	return Request{Name: name, Value: v}
}

// Del requests name to be deleted.
func Del(name string) Request {
	return Request{Name: name, Delete: true}
}

func (r Request) String() string {
	if r.Delete {
		return "del " + r.Name
	}
	return fmt.Sprintf("%s=%v", r.Name, r.Value)
}

// State holds the attribute slots of one object.
// State is NOT safe for concurrent use.
type State struct {
	class *Class
	slots map[string]Slot
}

// NewState creates a state seeded with the class constants.
func (cls *Class) NewState() *State {
	s := &State{class: cls, slots: make(map[string]Slot, len(cls.specs))}
	for name, v := range cls.constants {
		s.slots[name] = Value(v)
	}
	return s
}

// Class returns the class the state was created for.
func (s *State) Class() *Class { return s.class }

// Slot returns the raw slot for name. Unknown names read as Missing.
func (s *State) Slot(name string) Slot {
	return s.slots[name]
}

// Snapshot returns a copy of every non-missing slot.
func (s *State) Snapshot() map[string]Slot {
	out := make(map[string]Slot, len(s.slots))
	for k, v := range s.slots {
		out[k] = v
	}
	return out
}

// Range calls fn for each attribute in declaration order until fn returns false.
func (s *State) Range(fn func(spec *Spec, slot Slot) bool) {
	for _, name := range s.class.order {
		if !fn(s.class.specs[name], s.slots[name]) {
			return
		}
	}
}

// Get returns the current value of name.
func (s *State) Get(name string) (any, error) {
	spec, ok := s.class.specs[name]
	if !ok {
		return nil, newError(s.class.name, name, ErrUnknownAttribute)
	}
	if !spec.Readable() {
		return nil, newError(s.class.name, name, ErrNotReadable)
	}
	slot := s.slots[name]
	switch slot.kind {
	case Present:
		return slot.value, nil
	case Deleted:
		return nil, newError(s.class.name, name, ErrDeleted)
	}
	if spec.getter != nil {
		var missing []string
		for _, dep := range spec.getter.Gets {
			if !s.slots[dep].IsPresent() {
				missing = append(missing, fmt.Sprintf("%q", dep))
			}
		}
		return nil, newError(s.class.name, name,
			fmt.Errorf("%w: %s", ErrMissingValue, strings.Join(missing, ", ")))
	}
	return nil, newError(s.class.name, name, ErrNotInitialized)
}

// Prepare stages reqs in order and resolves every dependent getter. The
// returned Update is not applied; state is untouched until Commit. Any error
// discards the whole transaction.
func (s *State) Prepare(reqs ...Request) (*Update, error) {
	t := newTxn(s)
	for _, r := range reqs {
		spec, ok := s.class.specs[r.Name]
		if !ok {
			return nil, newError(s.class.name, r.Name, ErrUnknownAttribute)
		}
		if r.Delete {
			if !spec.Deletable() {
				return nil, newError(s.class.name, r.Name, ErrNotDeletable)
			}
			if err := t.deleteThrough(spec); err != nil {
				return nil, err
			}
			continue
		}
		if !spec.Settable() {
			return nil, newError(s.class.name, r.Name, ErrNotSettable)
		}
		v, err := spec.Fabricate(r.Value)
		if err != nil {
			return nil, err
		}
		if err := t.setThrough(spec, v); err != nil {
			return nil, err
		}
	}
	if err := t.resolveDirty(); err != nil {
		return nil, err
	}
	return t.result(), nil
}

// Commit applies u. It runs in time proportional to the size of u.
func (s *State) Commit(u *Update) {
	if u == nil {
		return
	}
	for name, slot := range u.updates {
		if slot.kind == Missing {
			delete(s.slots, name)
			continue
		}
		s.slots[name] = slot
	}
}
