package tui

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/broadcast"
	"github.com/aretw0/modelo/pkg/history"
	"github.com/aretw0/modelo/pkg/model"
)

// Renderer prints model and history events as colored lines.
// It is a broadcast.Listener; subscribe it to the emitters to watch.
type Renderer struct {
	out    *termenv.Output
	phases map[broadcast.Phase]bool
}

// NewRenderer returns a Renderer writing post-phase events to w.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
	return &Renderer{
		out:    termenv.NewOutput(w, opts...),
		phases: map[broadcast.Phase]bool{broadcast.PhasePost: true},
	}
}

// ShowPhases replaces the phases the renderer prints.
func (r *Renderer) ShowPhases(phases ...broadcast.Phase) *Renderer {
	r.phases = make(map[broadcast.Phase]bool, len(phases))
	for _, p := range phases {
		r.phases[p] = true
	}
	return r
}

// React implements broadcast.Listener.
func (r *Renderer) React(event any, phase broadcast.Phase) broadcast.Result {
	if !r.phases[phase] {
		return broadcast.Continue
	}
	tag := r.out.String(fmt.Sprintf("%-5s", phase)).Faint()
	fmt.Fprintf(r.out, "%s %s\n", tag, r.Describe(event))
	return broadcast.Continue
}

// Describe renders one event without a trailing newline.
func (r *Renderer) Describe(event any) string {
	switch e := event.(type) {
	case model.AttributesUpdateEvent:
		newValues, oldValues := e.NewValues(), e.OldValues()
		parts := make([]string, 0, len(newValues))
		for _, name := range slices.Sorted(maps.Keys(newValues)) {
			parts = append(parts, fmt.Sprintf("%s: %s -> %s",
				name, r.slot(oldValues[name]), r.slot(newValues[name])))
		}
		return r.subject(e.Model(), "update") + " " + strings.Join(parts, ", ") + r.children(e.Change)
	case model.ListInsertEvent:
		return fmt.Sprintf("%s at %d: %v%s", r.subject(e.Model(), "insert"), e.Index(), e.Values(), r.children(e.Change))
	case model.ListPopEvent:
		return fmt.Sprintf("%s at %d: %v%s", r.subject(e.Model(), "pop"), e.Index(), e.Values(), r.children(e.Change))
	case model.ListMoveEvent:
		return fmt.Sprintf("%s %d -> %d", r.subject(e.Model(), "move"), e.Index(), e.Target())
	case history.IndexChangedEvent:
		verb := "redo"
		if e.New < e.Old {
			verb = "undo"
		}
		return fmt.Sprintf("%s index %d -> %d", r.out.String("history "+verb).Foreground(r.out.Color("#f472b6")), e.Old, e.New)
	default:
		return fmt.Sprintf("%v", event)
	}
}

func (r *Renderer) subject(m model.Model, verb string) string {
	name := "List"
	if obj, ok := m.(*model.Object); ok {
		name = obj.Class().Name()
	}
	id := m.ID().String()[:8]
	return r.out.String(name+"<"+id+">").Bold().String() + " " +
		r.out.String(verb).Foreground(r.out.Color("#818cf8")).String()
}

func (r *Renderer) slot(s attribute.Slot) string {
	v, ok := s.Get()
	if !ok {
		return r.out.String("<" + s.Kind().String() + ">").Faint().String()
	}
	if str, isString := v.(string); isString {
		return fmt.Sprintf("%q", str)
	}
	if m, isModel := v.(model.Model); isModel && m != nil {
		return m.String()
	}
	return fmt.Sprintf("%v", v)
}

func (r *Renderer) children(c model.Change) string {
	var parts []string
	if n := len(c.Adoptions()); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d children", n))
	}
	if n := len(c.Releases()); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d children", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
