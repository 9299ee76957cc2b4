package attribute

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/modelo/pkg/schema"
)

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type placement struct {
	name    string
	builder *Builder
}

// ClassBuilder collects attribute declarations for a class.
type ClassBuilder struct {
	name   string
	base   *Class
	placed []placement
	errs   []error
}

// NewClass starts the declaration of a class.
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{name: name}
}

// Extends makes the class inherit every attribute of base.
func (c *ClassBuilder) Extends(base *Class) *ClassBuilder {
	c.base = base
	return c
}

// Add places an attribute on the class under name.
// Builders referenced through GetsOf/SetsOf/DeletesOf resolve to this name.
func (c *ClassBuilder) Add(name string, b *Builder) *ClassBuilder {
	switch {
	case !namePattern.MatchString(name) || name == "self":
		c.errs = append(c.errs, newError(c.name, name, ErrInvalidName))
		return c
	case b.name != "" && b.name != name:
		c.errs = append(c.errs, newError(c.name, name,
			fmt.Errorf("%w: builder already placed as %q", ErrInvalidName, b.name)))
		return c
	}
	for _, p := range c.placed {
		if p.name == name {
			c.errs = append(c.errs, newError(c.name, name, ErrDuplicateAttribute))
			return c
		}
	}
	b.name = name
	c.placed = append(c.placed, placement{name: name, builder: b})
	return c
}

// Build validates every declaration and assembles the dependency graph.
// All problems found are returned together as a *schema.AggregateError.
func (c *ClassBuilder) Build() (*Class, error) {
	errs := append([]error(nil), c.errs...)

	cls := &Class{
		name:      c.name,
		base:      c.base,
		specs:     make(map[string]*Spec),
		constants: make(map[string]any),
	}
	if c.base != nil {
		for _, name := range c.base.order {
			cls.specs[name] = c.base.specs[name]
			cls.order = append(cls.order, name)
		}
	}

	for _, p := range c.placed {
		if inherited, ok := cls.specs[p.name]; ok {
			if inherited.final {
				errs = append(errs, newError(c.name, p.name,
					fmt.Errorf("%w declared by %s", ErrFinalOverride, inherited.owner)))
				continue
			}
		} else {
			cls.order = append(cls.order, p.name)
		}
		spec, specErrs := c.resolve(p.name, p.builder)
		errs = append(errs, specErrs...)
		cls.specs[p.name] = spec
	}
	if len(errs) > 0 {
		return nil, schema.Join(errs)
	}

	if errs := cls.checkDependencies(); len(errs) > 0 {
		return nil, schema.Join(errs)
	}
	if err := cls.assemble(); err != nil {
		return nil, schema.Join([]error{err})
	}
	if errs := cls.resolveConstants(); len(errs) > 0 {
		return nil, schema.Join(errs)
	}
	return cls, nil
}

// MustBuild is like Build but panics on error. Intended for package-level
// class variables.
func (c *ClassBuilder) MustBuild() *Class {
	cls, err := c.Build()
	if err != nil {
		panic(err)
	}
	return cls
}

func (c *ClassBuilder) resolve(name string, b *Builder) (*Spec, []error) {
	var errs []error
	for _, err := range b.errs {
		errs = append(errs, newError(c.name, name, err))
	}

	vis := visibilityOf(name)
	spec := &Spec{
		name:           name,
		owner:          c.name,
		delegated:      b.delegated,
		typ:            b.typ,
		factory:        b.factory,
		def:            b.def,
		hasDefault:     b.hasDefault,
		defaultFactory: b.defaultFactory,
		comparable:     vis == Public,
		represented:    vis == Public,
		parent:         b.parent,
		history:        b.history,
		final:          b.final,
	}
	if b.comparable != nil {
		spec.comparable = *b.comparable
	}
	if b.represented != nil {
		spec.represented = *b.represented
	}
	if b.acceptsNone != nil {
		spec.acceptsNone = *b.acceptsNone
	} else {
		spec.acceptsNone = b.typ == nil
	}

	convert := func(kind Kind, d *delegateDecl) *Delegate {
		if d == nil {
			return nil
		}
		out := &Delegate{Kind: kind, get: d.get, set: d.set, del: d.del}
		for _, group := range []struct {
			deps []dep
			dst  *[]string
		}{{d.gets, &out.Gets}, {d.sets, &out.Sets}, {d.deletes, &out.Deletes}} {
			seen := make(map[string]bool)
			for _, dp := range group.deps {
				n, ok := dp.resolve()
				if !ok {
					errs = append(errs, newError(c.name, name,
						fmt.Errorf("%w (%s)", ErrUnresolvedDependency, kind)))
					continue
				}
				if !seen[n] {
					seen[n] = true
					*group.dst = append(*group.dst, n)
				}
			}
		}
		return out
	}
	spec.getter = convert(KindGetter, b.getter)
	spec.setter = convert(KindSetter, b.setter)
	spec.deleter = convert(KindDeleter, b.deleter)

	if !b.delegated {
		return spec, errs
	}
	if spec.getter == nil && spec.setter == nil && spec.deleter == nil {
		errs = append(errs, newError(c.name, name, ErrNoDelegates))
	}
	if spec.setter == nil && spec.deleter == nil {
		if b.typ != nil || b.factory != nil || b.hasDefault {
			errs = append(errs, newError(c.name, name,
				fmt.Errorf("%w: type, factory and default need a setter or deleter", ErrIncompatibleParams)))
		}
		if b.acceptsNone != nil && !*b.acceptsNone {
			errs = append(errs, newError(c.name, name,
				fmt.Errorf("%w: accepts-none cannot be false without a setter or deleter", ErrIncompatibleParams)))
		}
	}
	return spec, errs
}

func (cls *Class) checkDependencies() []error {
	var errs []error
	check := func(owner string, kind Kind, names []string, want string, ok func(*Spec) bool) {
		for _, n := range names {
			dep, exists := cls.specs[n]
			if !exists {
				errs = append(errs, newError(cls.name, owner,
					fmt.Errorf("%w: %s %s %q", ErrMissingDependency, kind, want, n)))
				continue
			}
			if !ok(dep) {
				errs = append(errs, newError(cls.name, owner,
					fmt.Errorf("%w: %s %s %q", ErrIncompatibleDep, kind, want, n)))
			}
		}
	}
	for _, name := range cls.order {
		spec := cls.specs[name]
		for _, d := range []*Delegate{spec.getter, spec.setter, spec.deleter} {
			if d == nil {
				continue
			}
			check(name, d.Kind, d.Gets, "gets", (*Spec).Readable)
			check(name, d.Kind, d.Sets, "sets", (*Spec).Settable)
			check(name, d.Kind, d.Deletes, "deletes", (*Spec).Deletable)
		}
	}
	return errs
}

// CycleError reports a getter dependency cycle.
type CycleError struct {
	Class string
	Path  []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Class, ErrDependencyCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrDependencyCycle }

// assemble orders getters topologically and inverts the getter graph into
// transitive dependents.
func (cls *Class) assemble() error {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string
	var topo []string

	var dfs func(name string) error
	dfs = func(name string) error {
		visited[name] = true
		onStack[name] = true
		path = append(path, name)
		if g := cls.specs[name].getter; g != nil {
			for _, dep := range g.Gets {
				if !visited[dep] {
					if err := dfs(dep); err != nil {
						return err
					}
				} else if onStack[dep] {
					start := 0
					for i, n := range path {
						if n == dep {
							start = i
							break
						}
					}
					cycle := append(append([]string(nil), path[start:]...), dep)
					return &CycleError{Class: cls.name, Path: cycle}
				}
			}
		}
		path = path[:len(path)-1]
		onStack[name] = false
		topo = append(topo, name)
		return nil
	}
	for _, name := range cls.order {
		if !visited[name] {
			if err := dfs(name); err != nil {
				return err
			}
		}
	}

	rank := make(map[string]int, len(topo))
	for i, n := range topo {
		rank[n] = i
	}
	cls.topo = topo
	cls.rank = rank

	// Walking in topological order means every dependency's own dependency
	// set is complete before it is folded into a dependent's.
	closure := make(map[string]map[string]bool, len(topo))
	for _, name := range topo {
		all := make(map[string]bool)
		if g := cls.specs[name].getter; g != nil {
			for _, dep := range g.Gets {
				all[dep] = true
				for d := range closure[dep] {
					all[d] = true
				}
			}
		}
		closure[name] = all
	}
	cls.dependents = make(map[string][]string)
	for _, name := range topo {
		for dep := range closure[name] {
			cls.dependents[dep] = append(cls.dependents[dep], name)
		}
	}
	return nil
}

func (cls *Class) resolveConstants() []error {
	var errs []error
	state := &State{class: cls, slots: make(map[string]Slot)}
	for _, name := range cls.topo {
		spec := cls.specs[name]
		if !cls.isConstant(name) {
			continue
		}
		if spec.parent || spec.history {
			errs = append(errs, newError(cls.name, name, ErrConstantFlag))
			continue
		}
		// Inherited constants were resolved by the base class.
		if cls.base != nil && cls.base.specs[name] == spec {
			state.slots[name] = Value(cls.base.constants[name])
			cls.constants[name] = cls.base.constants[name]
			continue
		}
		tx := newTxn(state)
		v, err := spec.getter.get(tx.access(spec, spec.getter))
		if err != nil {
			errs = append(errs, newError(cls.name, name, fmt.Errorf("resolving constant: %w", err)))
			continue
		}
		state.slots[name] = Value(v)
		cls.constants[name] = v
	}
	// copy specs so inherited ones are not mutated through this class
	for name := range cls.constants {
		spec := cls.specs[name]
		if !spec.constant {
			cp := *spec
			cp.constant = true
			cls.specs[name] = &cp
		}
	}
	return errs
}

func (cls *Class) isConstant(name string) bool {
	spec := cls.specs[name]
	if spec.getter == nil {
		return false
	}
	for _, dep := range spec.getter.Gets {
		if !cls.isConstant(dep) {
			return false
		}
	}
	return true
}

// Class is a built, immutable set of attribute specs with their dependency
// graph and resolved constants. It is safe for concurrent reads.
type Class struct {
	name       string
	base       *Class
	specs      map[string]*Spec
	order      []string
	topo       []string
	rank       map[string]int
	dependents map[string][]string
	constants  map[string]any
}

// Name returns the class name.
func (cls *Class) Name() string { return cls.name }

// Base returns the class this one extends, or nil.
func (cls *Class) Base() *Class { return cls.base }

// Attribute returns the spec for name.
func (cls *Class) Attribute(name string) (*Spec, bool) {
	s, ok := cls.specs[name]
	return s, ok
}

// Names returns attribute names in declaration order, inherited ones first.
func (cls *Class) Names() []string {
	return append([]string(nil), cls.order...)
}

// Specs returns the attribute specs in declaration order.
func (cls *Class) Specs() []*Spec {
	out := make([]*Spec, len(cls.order))
	for i, n := range cls.order {
		out[i] = cls.specs[n]
	}
	return out
}

// Dependents returns every attribute whose getter transitively reads name,
// in topological order.
func (cls *Class) Dependents(name string) []string {
	return append([]string(nil), cls.dependents[name]...)
}

// Constants returns a copy of the constant values.
func (cls *Class) Constants() map[string]any {
	out := make(map[string]any, len(cls.constants))
	for k, v := range cls.constants {
		out[k] = v
	}
	return out
}

// Schema returns the type constraints of the settable typed attributes.
func (cls *Class) Schema() schema.Schema {
	s := make(schema.Schema)
	for _, spec := range cls.Specs() {
		if spec.typ == nil || !spec.Settable() {
			continue
		}
		if spec.acceptsNone {
			s[spec.name] = schema.Nullable(spec.typ)
		} else {
			s[spec.name] = spec.typ
		}
	}
	return s
}

// IsA reports whether cls is other or extends it.
func (cls *Class) IsA(other *Class) bool {
	for c := cls; c != nil; c = c.base {
		if c == other {
			return true
		}
	}
	return false
}
