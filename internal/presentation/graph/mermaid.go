package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/modelo/pkg/attribute"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	Changed []string
	Focus   string
}

// GenerateMermaid produces a Mermaid flowchart of a class's attributes and
// the dependencies their delegates declare. Shapes follow the attribute kind:
// - Constant: ((Circle))
// - Delegated: [[Subroutine]]
// - Parent: [/Parallelogram/]
// - Default: [Rectangle]
// Edges point from an attribute to the attributes its delegates touch.
func GenerateMermaid(cls *attribute.Class, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var inherited []string
	for _, spec := range cls.Specs() {
		safeID := sanitizeMermaidID(spec.Name())

		opener, closer := "[", "]"
		switch {
		case spec.Constant():
			opener, closer = "((", "))"
		case spec.Delegated():
			opener, closer = "[[", "]]"
		case spec.Parent():
			opener, closer = "[/", "/]"
		}

		label := spec.Name()
		if typ := spec.Type(); typ != nil {
			label = fmt.Sprintf("%s <br/> %s", label, strings.ReplaceAll(typ.Name(), "\"", "'"))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		if spec.Owner() != cls.Name() {
			inherited = append(inherited, safeID)
		}

		for _, d := range []*attribute.Delegate{spec.Getter(), spec.Setter(), spec.Deleter()} {
			if d == nil {
				continue
			}
			writeEdges(&sb, safeID, `-- "gets" -->`, d.Gets)
			writeEdges(&sb, safeID, `-. "sets" .->`, d.Sets)
			writeEdges(&sb, safeID, `-. "deletes" .->`, d.Deletes)
		}
	}

	if len(inherited) > 0 {
		sb.WriteString("\n    classDef inherited stroke-dasharray: 5 5;\n")
		sb.WriteString(fmt.Sprintf("    class %s inherited;\n", strings.Join(inherited, ",")))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef changed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focus fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Changed {
			safeID := sanitizeMermaidID(name)
			if _, ok := cls.Attribute(name); !ok || seen[safeID] {
				continue
			}
			seen[safeID] = true
			sb.WriteString(fmt.Sprintf("    class %s changed;\n", safeID))
		}

		if _, ok := cls.Attribute(overlay.Focus); ok {
			sb.WriteString(fmt.Sprintf("    class %s focus;\n", sanitizeMermaidID(overlay.Focus)))
		}
	}

	return sb.String()
}

func writeEdges(sb *strings.Builder, from, arrow string, targets []string) {
	for _, to := range targets {
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", from, arrow, sanitizeMermaidID(to)))
	}
}

// Protected and private attribute names get a prefix so ids start with a letter.
func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	if strings.HasPrefix(s, "_") {
		s = "attr" + s
	}
	return s
}
