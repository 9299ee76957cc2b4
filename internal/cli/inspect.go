package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/modelo"
	"github.com/aretw0/modelo/internal/compiler"
	"github.com/aretw0/modelo/internal/dto"
	"github.com/aretw0/modelo/internal/presentation/graph"
	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/registry"
	"github.com/aretw0/modelo/pkg/schema"
)

// ErrUnbound is returned by the placeholder delegates registered for
// functions a declaration file names but the CLI cannot provide.
var ErrUnbound = errors.New("function is not bound")

// InspectOptions selects what Inspect prints.
type InspectOptions struct {
	RunOptions
	Path    string
	Class   string
	Mermaid bool
	JSON    bool
}

// Validate compiles a declaration file and reports every problem found.
func Validate(opts RunOptions, path string) error {
	if _, err := load(opts, path); err != nil {
		return err
	}
	printSystemMessage(opts.output(), "Declarations are valid! ✅")
	return nil
}

// Inspect compiles a declaration file and prints its classes as an attribute
// table, a Mermaid dependency graph or JSON type schemas.
func Inspect(opts InspectOptions) error {
	rt, err := load(opts.RunOptions, opts.Path)
	if err != nil {
		return err
	}

	names := rt.Classes()
	if opts.Class != "" {
		if _, ok := rt.Class(opts.Class); !ok {
			return fmt.Errorf("%w: %q", modelo.ErrUnknownClass, opts.Class)
		}
		names = []string{opts.Class}
	}

	w := opts.output()
	if opts.JSON {
		schemas := make(map[string]schema.Schema, len(names))
		for _, name := range names {
			cls, _ := rt.Class(name)
			schemas[name] = cls.Schema()
		}
		data, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
		return nil
	}
	for i, name := range names {
		cls, _ := rt.Class(name)
		if i > 0 {
			fmt.Fprintln(w)
		}
		if opts.Mermaid {
			fmt.Fprintf(w, "%%%% %s\n", cls.Name())
			fmt.Fprint(w, graph.GenerateMermaid(cls, nil))
			continue
		}
		if err := printClass(w, cls); err != nil {
			return err
		}
	}
	return nil
}

// load compiles path with unbound delegates replaced by placeholders, so
// any declaration file can be inspected without its Go functions.
func load(opts RunOptions, path string) (*modelo.Runtime, error) {
	doc, err := compiler.NewParser().ParseFile(path)
	if err != nil {
		return nil, err
	}
	rt, err := createRuntime(opts, func(reg *registry.Registry) {
		bindPlaceholders(reg, doc.Classes)
	})
	if err != nil {
		return nil, err
	}
	if _, err := rt.Load(path); err != nil {
		return nil, err
	}
	return rt, nil
}

func bindPlaceholders(reg *registry.Registry, classes []dto.ClassDecl) {
	for _, c := range classes {
		for _, a := range c.Attributes {
			if a.Getter != nil {
				if _, err := reg.Getter(a.Getter.Func); err != nil {
					reg.RegisterGetter(a.Getter.Func, func(*attribute.Access) (any, error) { return nil, nil })
				}
			}
			if a.Setter != nil {
				if _, err := reg.Setter(a.Setter.Func); err != nil {
					name := a.Setter.Func
					reg.RegisterSetter(name, func(*attribute.Access, any) error {
						return fmt.Errorf("%w: %s", ErrUnbound, name)
					})
				}
			}
			if a.Deleter != nil {
				if _, err := reg.Deleter(a.Deleter.Func); err != nil {
					name := a.Deleter.Func
					reg.RegisterDeleter(name, func(*attribute.Access) error {
						return fmt.Errorf("%w: %s", ErrUnbound, name)
					})
				}
			}
		}
	}
}

func printClass(w io.Writer, cls *attribute.Class) error {
	header := cls.Name()
	if base := cls.Base(); base != nil {
		header += " extends " + base.Name()
	}
	fmt.Fprintln(w, header)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ATTRIBUTE\tTYPE\tFLAGS\tDEPENDENCIES")
	for _, spec := range cls.Specs() {
		typ := "any"
		if spec.Type() != nil {
			typ = spec.Type().Name()
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", spec.Name(), typ, flags(cls, spec), dependencies(spec))
	}
	return tw.Flush()
}

func flags(cls *attribute.Class, spec *attribute.Spec) string {
	var out []string
	switch {
	case spec.Constant():
		out = append(out, "constant")
	case spec.Delegated():
		out = append(out, "delegated")
	}
	for _, f := range []struct {
		on   bool
		name string
	}{
		{spec.Parent(), "parent"},
		{spec.History(), "history"},
		{spec.Final(), "final"},
		{!spec.AcceptsNone(), "required"},
		{spec.Owner() != cls.Name(), "inherited"},
	} {
		if f.on {
			out = append(out, f.name)
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ",")
}

func dependencies(spec *attribute.Spec) string {
	var out []string
	for _, d := range []*attribute.Delegate{spec.Getter(), spec.Setter(), spec.Deleter()} {
		if d == nil {
			continue
		}
		for _, g := range []struct {
			verb  string
			names []string
		}{{"gets", d.Gets}, {"sets", d.Sets}, {"deletes", d.Deletes}} {
			if len(g.names) > 0 {
				out = append(out, g.verb+" "+strings.Join(g.names, " "))
			}
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, "; ")
}
