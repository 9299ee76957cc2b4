package compiler

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/aretw0/modelo/internal/dto"
	"github.com/aretw0/modelo/internal/logging"
	"github.com/aretw0/modelo/internal/validator"
	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/registry"
	"github.com/aretw0/modelo/pkg/schema"
)

// Compiler turns declaration documents into attribute classes, binding
// delegate and factory names through a registry. Classes compiled earlier
// can be extended by later documents.
type Compiler struct {
	registry *registry.Registry
	parser   *Parser
	classes  map[string]*attribute.Class
	logger   *slog.Logger
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the logger used to report compiled classes.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// WithClasses makes classes built elsewhere available as bases.
func WithClasses(classes ...*attribute.Class) Option {
	return func(c *Compiler) {
		for _, cls := range classes {
			c.classes[cls.Name()] = cls
		}
	}
}

// New creates a compiler resolving function names through reg.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{
		registry: reg,
		parser:   NewParser(),
		classes:  make(map[string]*attribute.Class),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Class returns a compiled class by name.
func (c *Compiler) Class(name string) (*attribute.Class, bool) {
	cls, ok := c.classes[name]
	return cls, ok
}

// Names returns the names of every known class, sorted.
func (c *Compiler) Names() []string {
	return slices.Sorted(maps.Keys(c.classes))
}

// CompileFile parses and compiles a declaration file.
func (c *Compiler) CompileFile(path string) ([]*attribute.Class, error) {
	doc, err := c.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc)
}

// CompileBytes parses and compiles YAML declarations.
func (c *Compiler) CompileBytes(data []byte) ([]*attribute.Class, error) {
	doc, err := c.parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc)
}

// Compile builds every class of doc, bases first, and returns them in
// document order. Nothing is registered unless every class builds.
func (c *Compiler) Compile(doc dto.Document) ([]*attribute.Class, error) {
	if err := validator.ValidateDocument(doc, func(name string) bool {
		_, ok := c.classes[name]
		return ok
	}); err != nil {
		return nil, err
	}

	decls := make(map[string]dto.ClassDecl, len(doc.Classes))
	for _, d := range doc.Classes {
		decls[d.Name] = d
	}
	built := make(map[string]*attribute.Class, len(doc.Classes))

	var build func(name string) (*attribute.Class, error)
	build = func(name string) (*attribute.Class, error) {
		if cls, ok := built[name]; ok {
			return cls, nil
		}
		decl, ok := decls[name]
		if !ok {
			return c.classes[name], nil
		}
		cb := attribute.NewClass(decl.Name)
		if decl.Extends != "" {
			base, err := build(decl.Extends)
			if err != nil {
				return nil, err
			}
			cb.Extends(base)
		}
		var errs []error
		for _, a := range decl.Attributes {
			b, err := c.attribute(a)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s: %w", decl.Name, a.Name, err))
				continue
			}
			cb.Add(a.Name, b)
		}
		if err := schema.Join(errs); err != nil {
			return nil, err
		}
		cls, err := cb.Build()
		if err != nil {
			return nil, err
		}
		built[name] = cls
		return cls, nil
	}

	out := make([]*attribute.Class, 0, len(doc.Classes))
	for _, d := range doc.Classes {
		cls, err := build(d.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, cls)
	}
	for _, cls := range out {
		c.classes[cls.Name()] = cls
		c.logger.Debug("Compiler: class compiled", "class", cls.Name(), "attributes", len(cls.Names()))
	}
	return out, nil
}

func (c *Compiler) attribute(a dto.AttributeDecl) (*attribute.Builder, error) {
	b := attribute.Plain()
	if a.Delegated() {
		b = attribute.Delegated()
	}
	var errs []error

	if a.Type != "" {
		t, err := schema.ParseType(a.Type)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.Type(t)
		}
	}
	if a.Factory != "" {
		fn, err := c.registry.Factory(a.Factory)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.Factory(fn)
		}
	}
	if a.AcceptsNone != nil {
		b.AcceptsNone(*a.AcceptsNone)
	}
	if a.HasDefault {
		switch v := a.Default.(type) {
		case []any:
			b.DefaultFactory(func() (any, error) { return slices.Clone(v), nil })
		case map[string]any:
			b.DefaultFactory(func() (any, error) { return maps.Clone(v), nil })
		default:
			b.Default(v)
		}
	}
	if a.Comparable != nil {
		b.Comparable(*a.Comparable)
	}
	if a.Represented != nil {
		b.Represented(*a.Represented)
	}
	if a.Parent {
		b.Parent()
	}
	if a.History {
		b.History()
	}
	if a.Final {
		b.Final()
	}

	if d := a.Getter; d != nil {
		fn, err := c.registry.Getter(d.Func)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.Getter(fn, dependencies(d)...)
		}
	}
	if d := a.Setter; d != nil {
		fn, err := c.registry.Setter(d.Func)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.Setter(fn, dependencies(d)...)
		}
	}
	if d := a.Deleter; d != nil {
		fn, err := c.registry.Deleter(d.Func)
		if err != nil {
			errs = append(errs, err)
		} else {
			b.Deleter(fn, dependencies(d)...)
		}
	}
	return b, schema.Join(errs)
}

func dependencies(d *dto.DelegateDecl) []attribute.DelegateOption {
	var opts []attribute.DelegateOption
	if len(d.Gets) > 0 {
		opts = append(opts, attribute.Gets(d.Gets...))
	}
	if len(d.Sets) > 0 {
		opts = append(opts, attribute.Sets(d.Sets...))
	}
	if len(d.Deletes) > 0 {
		opts = append(opts, attribute.Deletes(d.Deletes...))
	}
	return opts
}
