package cli_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modelo"
	"github.com/aretw0/modelo/internal/cli"
	"github.com/aretw0/modelo/internal/testutils"
)

const shapes = `
classes:
  - name: Circle
    extends: Shape
    attributes:
      - name: radius
        type: float
        factory: float
      - name: area
        getter: {func: circle_area, gets: [radius]}
  - name: Shape
    attributes:
      - name: label
        type: string
        final: true
      - name: parent
        parent: true
        history: true
`

func quiet(out *bytes.Buffer) cli.RunOptions {
	return cli.RunOptions{LogLevel: "error", NoColor: true, Out: out}
}

func TestValidate(t *testing.T) {
	path := testutils.WriteFile(t, "shapes.yaml", shapes)

	var out bytes.Buffer
	require.NoError(t, cli.Validate(quiet(&out), path))
	assert.Contains(t, out.String(), "Declarations are valid!")

	broken := testutils.WriteFile(t, "broken.yaml", "classes:\n  - name: A\n    extends: Missing\n")
	err := cli.Validate(quiet(&out), broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing base class: 'Missing'")
}

func TestInspect_Table(t *testing.T) {
	path := testutils.WriteFile(t, "shapes.yaml", shapes)

	var out bytes.Buffer
	err := cli.Inspect(cli.InspectOptions{RunOptions: quiet(&out), Path: path, Class: "Circle"})
	require.NoError(t, err)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Circle extends Shape\n"), text)
	lines := strings.Split(text, "\n")
	require.GreaterOrEqual(t, len(lines), 6)

	row := func(name string) string {
		for _, l := range lines {
			fields := strings.Fields(l)
			if len(fields) > 0 && fields[0] == name {
				return l
			}
		}
		t.Fatalf("no row for %s in\n%s", name, text)
		return ""
	}
	assert.Contains(t, row("label"), "final,required,inherited")
	assert.Contains(t, row("parent"), "parent,history,inherited")
	assert.Contains(t, row("radius"), "float")
	assert.Contains(t, row("area"), "gets radius")
	assert.Contains(t, row("area"), "delegated")
}

func TestInspect_Mermaid(t *testing.T) {
	path := testutils.WriteFile(t, "shapes.yaml", shapes)

	var out bytes.Buffer
	err := cli.Inspect(cli.InspectOptions{RunOptions: quiet(&out), Path: path, Mermaid: true})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "%% Circle\ngraph TD\n")
	assert.Contains(t, out.String(), "%% Shape\ngraph TD\n")
	assert.Contains(t, out.String(), `area -- "gets" --> radius`)

	err = cli.Inspect(cli.InspectOptions{RunOptions: quiet(&out), Path: path, Class: "Square"})
	assert.ErrorIs(t, err, modelo.ErrUnknownClass)
}

func TestInspect_JSON(t *testing.T) {
	path := testutils.WriteFile(t, "shapes.yaml", shapes)

	var out bytes.Buffer
	err := cli.Inspect(cli.InspectOptions{RunOptions: quiet(&out), Path: path, Class: "Circle", JSON: true})
	require.NoError(t, err)

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "float", got["Circle"]["radius"])
	assert.Equal(t, "string", got["Circle"]["label"])
}

func TestInspect_BadLogLevel(t *testing.T) {
	path := testutils.WriteFile(t, "shapes.yaml", shapes)
	var out bytes.Buffer
	opts := quiet(&out)
	opts.LogLevel = "loud"
	assert.Error(t, cli.Inspect(cli.InspectOptions{RunOptions: opts, Path: path}))
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cli.RunDemo(cli.DemoOptions{RunOptions: quiet(&out), Quiet: true}))

	text := out.String()
	assert.NotContains(t, text, "\x1b[", "no escape codes without color")
	for _, want := range []string{
		">>> Add members",
		"insert at 0:",
		`last: "Hopper" -> "Brewster"`,
		">>> Refused:",
		"history undo index 6 -> 5",
		"history redo index 5 -> 6",
		`Team(name="compilers", lead="Grace", members=List<`,
		"history: 6 commands, index 6",
	} {
		assert.Contains(t, text, want)
	}
}
