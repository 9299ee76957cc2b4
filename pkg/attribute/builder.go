package attribute

import (
	"fmt"

	"github.com/aretw0/modelo/pkg/schema"
)

// GetFunc computes an attribute value from the dependencies declared with Gets.
type GetFunc func(a *Access) (any, error)

// SetFunc stages a new value, writing only to the dependencies it declared.
type SetFunc func(a *Access, value any) error

// DeleteFunc stages a deletion, writing only to the dependencies it declared.
type DeleteFunc func(a *Access) error

// Factory converts an incoming value before it is type checked and stored.
type Factory func(value any) (any, error)

// Kind identifies a delegate slot.
type Kind uint8

const (
	KindGetter Kind = iota
	KindSetter
	KindDeleter
)

func (k Kind) String() string {
	switch k {
	case KindGetter:
		return "getter"
	case KindSetter:
		return "setter"
	case KindDeleter:
		return "deleter"
	default:
		return fmt.Sprintf("kind(%d)", k)
	}
}

// dep names another attribute, either directly or through a builder that
// receives its name once it is placed on a class.
type dep struct {
	name    string
	builder *Builder
}

func (d dep) resolve() (string, bool) {
	if d.builder != nil {
		return d.builder.name, d.builder.name != ""
	}
	return d.name, d.name != ""
}

type delegateDecl struct {
	get     GetFunc
	set     SetFunc
	del     DeleteFunc
	gets    []dep
	sets    []dep
	deletes []dep
}

// DelegateOption declares the dependencies of a getter, setter or deleter.
type DelegateOption func(*delegateDecl)

// Gets declares attributes the delegate reads.
func Gets(names ...string) DelegateOption {
	return func(d *delegateDecl) {
		for _, n := range names {
			d.gets = append(d.gets, dep{name: n})
		}
	}
}

// Sets declares attributes the delegate writes.
func Sets(names ...string) DelegateOption {
	return func(d *delegateDecl) {
		for _, n := range names {
			d.sets = append(d.sets, dep{name: n})
		}
	}
}

// Deletes declares attributes the delegate deletes.
func Deletes(names ...string) DelegateOption {
	return func(d *delegateDecl) {
		for _, n := range names {
			d.deletes = append(d.deletes, dep{name: n})
		}
	}
}

// GetsOf declares read dependencies through builders whose names are only
// known once they are added to a class.
func GetsOf(builders ...*Builder) DelegateOption {
	return func(d *delegateDecl) {
		for _, b := range builders {
			d.gets = append(d.gets, dep{builder: b})
		}
	}
}

// SetsOf is the builder-reference form of Sets.
func SetsOf(builders ...*Builder) DelegateOption {
	return func(d *delegateDecl) {
		for _, b := range builders {
			d.sets = append(d.sets, dep{builder: b})
		}
	}
}

// DeletesOf is the builder-reference form of Deletes.
func DeletesOf(builders ...*Builder) DelegateOption {
	return func(d *delegateDecl) {
		for _, b := range builders {
			d.deletes = append(d.deletes, dep{builder: b})
		}
	}
}

// Builder provides a fluent API for declaring an attribute.
// Mistakes are collected and reported when the owning class is built.
type Builder struct {
	name      string
	delegated bool

	typ            schema.Type
	factory        Factory
	acceptsNone    *bool
	def            any
	hasDefault     bool
	defaultFactory func() (any, error)

	getter  *delegateDecl
	setter  *delegateDecl
	deleter *delegateDecl

	comparable  *bool
	represented *bool
	parent      bool
	history     bool
	final       bool

	errs []error
}

// Plain declares an attribute whose value is stored as given.
func Plain() *Builder {
	return &Builder{}
}

// Delegated declares an attribute whose access goes through delegates.
func Delegated() *Builder {
	return &Builder{delegated: true}
}

// Name returns the name the attribute was placed under, or "" before that.
func (b *Builder) Name() string {
	return b.name
}

// Type constrains the values the attribute accepts.
func (b *Builder) Type(t schema.Type) *Builder {
	b.typ = t
	return b
}

// Factory sets a conversion applied to every incoming value.
func (b *Builder) Factory(fn Factory) *Builder {
	b.factory = fn
	return b
}

// AcceptsNone controls whether nil is a valid value. Typed attributes reject
// nil by default, untyped ones accept it.
func (b *Builder) AcceptsNone(accepts bool) *Builder {
	b.acceptsNone = &accepts
	return b
}

// Default sets the value assigned when an object is created.
func (b *Builder) Default(v any) *Builder {
	b.def = v
	b.hasDefault = true
	b.defaultFactory = nil
	return b
}

// DefaultFactory sets a function producing a fresh default per object.
func (b *Builder) DefaultFactory(fn func() (any, error)) *Builder {
	b.defaultFactory = fn
	b.hasDefault = true
	b.def = nil
	return b
}

// Comparable overrides whether the attribute takes part in equality.
func (b *Builder) Comparable(v bool) *Builder {
	b.comparable = &v
	return b
}

// Represented overrides whether the attribute appears in string output.
func (b *Builder) Represented(v bool) *Builder {
	b.represented = &v
	return b
}

// Parent marks values of this attribute as children of the owning object.
func (b *Builder) Parent() *Builder {
	b.parent = true
	return b
}

// History makes children held by this attribute share the owner's history.
func (b *Builder) History() *Builder {
	b.history = true
	return b
}

// Final forbids subclasses from redeclaring the attribute.
func (b *Builder) Final() *Builder {
	b.final = true
	return b
}

// Getter assigns the read delegate. A getter may only declare Gets.
func (b *Builder) Getter(fn GetFunc, opts ...DelegateOption) *Builder {
	if !b.checkDelegate(KindGetter, b.getter != nil) {
		return b
	}
	d := &delegateDecl{get: fn}
	for _, opt := range opts {
		opt(d)
	}
	if len(d.sets) > 0 || len(d.deletes) > 0 {
		b.errs = append(b.errs, fmt.Errorf("%w: getter can only declare gets", ErrIncompatibleParams))
		return b
	}
	b.getter = d
	return b
}

// Setter assigns the write delegate.
func (b *Builder) Setter(fn SetFunc, opts ...DelegateOption) *Builder {
	if !b.checkDelegate(KindSetter, b.setter != nil) {
		return b
	}
	d := &delegateDecl{set: fn}
	for _, opt := range opts {
		opt(d)
	}
	b.setter = d
	return b
}

// Deleter assigns the delete delegate.
func (b *Builder) Deleter(fn DeleteFunc, opts ...DelegateOption) *Builder {
	if !b.checkDelegate(KindDeleter, b.deleter != nil) {
		return b
	}
	d := &delegateDecl{del: fn}
	for _, opt := range opts {
		opt(d)
	}
	b.deleter = d
	return b
}

func (b *Builder) checkDelegate(kind Kind, assigned bool) bool {
	switch {
	case !b.delegated:
		b.errs = append(b.errs, fmt.Errorf("%w: cannot define a %s", ErrNotDelegated, kind))
		return false
	case assigned:
		b.errs = append(b.errs, fmt.Errorf("%w: %s", ErrDelegateAssigned, kind))
		return false
	}
	return true
}
