package attribute

import (
	"fmt"
	"strings"

	"github.com/aretw0/modelo/pkg/schema"
)

// Visibility is derived from the attribute name's underscore prefix.
type Visibility uint8

const (
	Public    Visibility = iota // name
	Protected                   // _name
	Private                     // __name
	Magic                       // __name__
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Protected:
		return "protected"
	case Private:
		return "private"
	case Magic:
		return "magic"
	default:
		return fmt.Sprintf("visibility(%d)", v)
	}
}

func visibilityOf(name string) Visibility {
	switch {
	case !strings.HasPrefix(name, "_"):
		return Public
	case len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__"):
		return Magic
	case strings.HasPrefix(name, "__"):
		return Private
	default:
		return Protected
	}
}

// Delegate is a resolved getter, setter or deleter.
type Delegate struct {
	Kind    Kind
	Gets    []string
	Sets    []string
	Deletes []string

	get GetFunc
	set SetFunc
	del DeleteFunc
}

func (d *Delegate) allows(kind Kind, name string) bool {
	var names []string
	switch kind {
	case KindGetter:
		names = d.Gets
	case KindSetter:
		names = d.Sets
	case KindDeleter:
		names = d.Deletes
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Spec is the immutable description of an attribute on a built class.
type Spec struct {
	name        string
	owner       string
	delegated   bool
	typ         schema.Type
	factory     Factory
	acceptsNone bool

	def            any
	hasDefault     bool
	defaultFactory func() (any, error)

	getter  *Delegate
	setter  *Delegate
	deleter *Delegate

	comparable  bool
	represented bool
	parent      bool
	history     bool
	final       bool
	constant    bool
}

// Name returns the attribute name.
func (s *Spec) Name() string { return s.name }

// Owner returns the name of the class that declared the attribute.
func (s *Spec) Owner() string { return s.owner }

// Delegated reports whether access goes through delegates.
func (s *Spec) Delegated() bool { return s.delegated }

// Type returns the value constraint, or nil when the attribute is untyped.
func (s *Spec) Type() schema.Type { return s.typ }

// AcceptsNone reports whether nil is a valid value.
func (s *Spec) AcceptsNone() bool { return s.acceptsNone }

// Getter returns the read delegate, if any.
func (s *Spec) Getter() *Delegate { return s.getter }

// Setter returns the write delegate, if any.
func (s *Spec) Setter() *Delegate { return s.setter }

// Deleter returns the delete delegate, if any.
func (s *Spec) Deleter() *Delegate { return s.deleter }

// Readable reports whether the attribute can be read.
func (s *Spec) Readable() bool { return !s.delegated || s.getter != nil }

// Settable reports whether the attribute can be written.
func (s *Spec) Settable() bool { return !s.delegated || s.setter != nil }

// Deletable reports whether the attribute can be deleted.
func (s *Spec) Deletable() bool { return !s.delegated || s.deleter != nil }

// Comparable reports whether the attribute takes part in equality.
func (s *Spec) Comparable() bool { return s.comparable }

// Represented reports whether the attribute appears in string output.
func (s *Spec) Represented() bool { return s.represented }

// Parent reports whether values of the attribute are adopted as children.
func (s *Spec) Parent() bool { return s.parent }

// History reports whether adopted children share the owner's history.
func (s *Spec) History() bool { return s.history }

// Final reports whether subclasses may not redeclare the attribute.
func (s *Spec) Final() bool { return s.final }

// Constant reports whether the value is resolved once at class build.
func (s *Spec) Constant() bool { return s.constant }

// Visibility returns the access level derived from the name.
func (s *Spec) Visibility() Visibility { return visibilityOf(s.name) }

// Default returns the initial value for a new object, if one is declared.
func (s *Spec) Default() (any, bool, error) {
	if !s.hasDefault {
		return nil, false, nil
	}
	if s.defaultFactory != nil {
		v, err := s.defaultFactory()
		if err != nil {
			return nil, true, fmt.Errorf("default for %q: %w", s.name, err)
		}
		return v, true, nil
	}
	return s.def, true, nil
}

// Fabricate runs value through the factory and type constraint.
func (s *Spec) Fabricate(value any) (any, error) {
	if s.factory != nil {
		v, err := s.factory(value)
		if err != nil {
			return nil, newError(s.owner, s.name, fmt.Errorf("%w: %v", ErrInvalidValue, err))
		}
		value = v
	}
	if s.typ != nil {
		t := s.typ
		if s.acceptsNone {
			t = schema.Nullable(t)
		}
		if err := t.Validate(value); err != nil {
			return nil, newError(s.owner, s.name, fmt.Errorf("%w: %v", ErrInvalidValue, err))
		}
	} else if !s.acceptsNone && schema.IsNil(value) {
		return nil, newError(s.owner, s.name, fmt.Errorf("%w: does not accept nil", ErrInvalidValue))
	}
	return value, nil
}
