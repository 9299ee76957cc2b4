package cli

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/modelo/internal/presentation/tui"
	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/hierarchy"
	"github.com/aretw0/modelo/pkg/model"
	"github.com/aretw0/modelo/pkg/registry"
)

//go:embed demo.yaml
var demoDeclarations []byte

// DemoOptions configures RunDemo.
type DemoOptions struct {
	RunOptions
	Quiet bool
}

// RunDemo walks through a scripted editing session: people are created,
// attached to a team, renamed and then rewound through the history while
// every event is printed.
func RunDemo(opts DemoOptions) error {
	w := opts.output()
	if !opts.Quiet {
		tui.PrintBanner(w, opts.termOptions()...)
	}

	rt, err := createRuntime(opts.RunOptions, registerNameFunctions)
	if err != nil {
		return err
	}
	if _, err := rt.LoadBytes(demoDeclarations); err != nil {
		return fmt.Errorf("failed to load demo declarations: %w", err)
	}

	renderer := tui.NewRenderer(w, opts.termOptions()...)
	rt.History().Emitter().Subscribe(renderer)

	ada, err := rt.NewObject("Person", attribute.Set("full_name", "Ada Lovelace"))
	if err != nil {
		return err
	}
	person, _ := rt.Class("Person")
	grace, err := rt.Graph().NewObject(person, attribute.Set("full_name", "Grace Hopper"))
	if err != nil {
		return err
	}
	team, err := rt.NewObject("Team", attribute.Set("name", "analytical engines"))
	if err != nil {
		return err
	}
	members := rt.Graph().NewList()
	for _, m := range []model.Model{ada, grace, team, members} {
		m.Events().Subscribe(renderer)
	}

	steps := []struct {
		title string
		run   func() error
	}{
		{"Attach the member list", func() error { return team.Set("members", members) }},
		{"Add members", func() error { return members.Append(ada, grace) }},
		{"Pick a lead", func() error { return team.Set("lead", "Ada") }},
		{"Rename through a delegated attribute", func() error { return grace.Set("full_name", "Grace Brewster") }},
		{"Rename the team in one step", func() error {
			return rt.Batch("Rename Team", func() error {
				if err := team.Set("name", "compilers"); err != nil {
					return err
				}
				return team.Set("lead", "Grace")
			})
		}},
		{"Reorder members", func() error { return members.Move(1, 0) }},
		{"Try to adopt an already adopted member", func() error {
			err := team.Set("lead_person", grace)
			if !errors.Is(err, hierarchy.ErrAlreadyParented) {
				return fmt.Errorf("expected a refusal, got %v", err)
			}
			printSystemMessage(w, "Refused: %v", err)
			return nil
		}},
		{"Undo everything", func() error { return rt.History().UndoAll() }},
		{"Redo everything", func() error { return rt.History().RedoAll() }},
	}

	for _, step := range steps {
		printSystemMessage(w, "%s", step.title)
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", strings.ToLower(step.title), err)
		}
	}

	printSystemMessage(w, "Final state")
	fmt.Fprintln(w, team)
	fmt.Fprintln(w, members)
	fmt.Fprintf(w, "history: %d commands, index %d\n", rt.History().Len(), rt.History().CurrentIndex())
	return nil
}

func registerNameFunctions(reg *registry.Registry) {
	reg.RegisterGetter("join_names", func(a *attribute.Access) (any, error) {
		first, err := a.Get("first")
		if err != nil {
			return nil, err
		}
		last, err := a.Get("last")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%v %v", first, last), nil
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
	reg.RegisterDeleter("clear_name", func(a *attribute.Access) error {
		if err := a.Delete("first"); err != nil {
			return err
		}
		return a.Delete("last")
	})
}
