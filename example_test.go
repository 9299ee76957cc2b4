package modelo_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/modelo"
	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/registry"
)

const declarations = `
classes:
  - name: Person
    attributes:
      - name: first
        type: string
      - name: last
        type: string
      - name: full_name
        type: string
        getter: {func: join_names, gets: [first, last]}
        setter: {func: split_name, sets: [first, last]}
`

func nameFunctions() *registry.Registry {
	reg := registry.NewRegistry()
	reg.RegisterGetter("join_names", func(a *attribute.Access) (any, error) {
		first, err := a.Get("first")
		if err != nil {
			return nil, err
		}
		last, err := a.Get("last")
		if err != nil {
			return nil, err
		}
		return first.(string) + " " + last.(string), nil
	})
	reg.RegisterSetter("split_name", func(a *attribute.Access, v any) error {
		first, last, ok := strings.Cut(v.(string), " ")
		if !ok {
			return fmt.Errorf("expected first and last name, got %q", v)
		}
		if err := a.Set("first", first); err != nil {
			return err
		}
		return a.Set("last", last)
	})
	return reg
}

// ExampleNew loads classes from YAML declarations, mutates an object
// through a delegated attribute and walks the history back.
func ExampleNew() {
	rt, err := modelo.New(modelo.WithRegistry(nameFunctions()))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := rt.LoadBytes([]byte(declarations)); err != nil {
		log.Fatal(err)
	}

	p, err := rt.NewObject("Person", attribute.Set("first", "Ada"), attribute.Set("last", "Lovelace"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p)

	if err := p.Set("full_name", "Grace Hopper"); err != nil {
		log.Fatal(err)
	}
	fmt.Println(p)

	if err := rt.Undo(); err != nil {
		log.Fatal(err)
	}
	fmt.Println(p)

	// Output:
	// Person(first="Ada", last="Lovelace", full_name="Ada Lovelace")
	// Person(first="Grace", last="Hopper", full_name="Grace Hopper")
	// Person(first="Ada", last="Lovelace", full_name="Ada Lovelace")
}

// ExampleRuntime_NewList records list edits into the shared history.
func ExampleRuntime_NewList() {
	rt, err := modelo.New()
	if err != nil {
		log.Fatal(err)
	}
	l := rt.NewList()
	_ = l.Append(1, 2, 3)
	_ = l.Move(0, 2)
	fmt.Println(l)

	_ = rt.Undo()
	fmt.Println(l)

	// Output:
	// List[2, 3, 1]
	// List[1, 2, 3]
}
