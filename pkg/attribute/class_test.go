package attribute_test

import (
	"errors"
	"testing"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(v any) attribute.GetFunc {
	return func(*attribute.Access) (any, error) { return v, nil }
}

func passthrough(dep string) attribute.GetFunc {
	return func(a *attribute.Access) (any, error) { return a.Get(dep) }
}

func TestClassBuilder_DeclarationErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *attribute.ClassBuilder
		want  error
	}{
		{
			name:  "invalid name",
			build: func() *attribute.ClassBuilder { return attribute.NewClass("C").Add("1x", attribute.Plain()) },
			want:  attribute.ErrInvalidName,
		},
		{
			name:  "self is reserved",
			build: func() *attribute.ClassBuilder { return attribute.NewClass("C").Add("self", attribute.Plain()) },
			want:  attribute.ErrInvalidName,
		},
		{
			name: "duplicate",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Plain()).Add("a", attribute.Plain())
			},
			want: attribute.ErrDuplicateAttribute,
		},
		{
			name: "getter on plain attribute",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Plain().Getter(constant(1)))
			},
			want: attribute.ErrNotDelegated,
		},
		{
			name: "delegated without delegates",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated())
			},
			want: attribute.ErrNoDelegates,
		},
		{
			name: "getter assigned twice",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(constant(1)).Getter(constant(2)))
			},
			want: attribute.ErrDelegateAssigned,
		},
		{
			name: "getter declaring sets",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").
					Add("b", attribute.Plain()).
					Add("a", attribute.Delegated().Getter(constant(1), attribute.Sets("b")))
			},
			want: attribute.ErrIncompatibleParams,
		},
		{
			name: "type on read-only attribute",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(constant(1)).Type(schema.Int()))
			},
			want: attribute.ErrIncompatibleParams,
		},
		{
			name: "rejecting nil on read-only attribute",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(constant(1)).AcceptsNone(false))
			},
			want: attribute.ErrIncompatibleParams,
		},
		{
			name: "missing dependency",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(passthrough("b"), attribute.Gets("b")))
			},
			want: attribute.ErrMissingDependency,
		},
		{
			name: "sets on a read-only dependency",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").
					Add("ro", attribute.Delegated().Getter(constant(1))).
					Add("a", attribute.Delegated().Setter(func(*attribute.Access, any) error { return nil }, attribute.Sets("ro")))
			},
			want: attribute.ErrIncompatibleDep,
		},
		{
			name: "deletes on a non-deletable dependency",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").
					Add("wo", attribute.Delegated().Setter(func(*attribute.Access, any) error { return nil })).
					Add("a", attribute.Delegated().Deleter(func(*attribute.Access) error { return nil }, attribute.Deletes("wo")))
			},
			want: attribute.ErrIncompatibleDep,
		},
		{
			name: "gets on a write-only dependency",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").
					Add("wo", attribute.Delegated().Setter(func(*attribute.Access, any) error { return nil })).
					Add("a", attribute.Delegated().Getter(passthrough("wo"), attribute.Gets("wo")))
			},
			want: attribute.ErrIncompatibleDep,
		},
		{
			name: "unplaced builder reference",
			build: func() *attribute.ClassBuilder {
				orphan := attribute.Plain()
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(constant(1), attribute.GetsOf(orphan)))
			},
			want: attribute.ErrUnresolvedDependency,
		},
		{
			name: "constant flagged parent",
			build: func() *attribute.ClassBuilder {
				return attribute.NewClass("C").Add("a", attribute.Delegated().Getter(constant(1)).Parent())
			},
			want: attribute.ErrConstantFlag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var aggr *schema.AggregateError
			assert.True(t, errors.As(err, &aggr))
		})
	}
}

func TestClassBuilder_ReportsAllErrorsAtOnce(t *testing.T) {
	_, err := attribute.NewClass("C").
		Add("", attribute.Plain()).
		Add("a", attribute.Delegated()).
		Add("b", attribute.Plain().Getter(constant(1))).
		Build()
	require.Error(t, err)
	assert.Len(t, schema.ValidationErrors(err), 3)
}

func TestClassBuilder_DependencyCycle(t *testing.T) {
	_, err := attribute.NewClass("C").
		Add("a", attribute.Delegated().Getter(passthrough("b"), attribute.Gets("b"))).
		Add("b", attribute.Delegated().Getter(passthrough("c"), attribute.Gets("c"))).
		Add("c", attribute.Delegated().Getter(passthrough("a"), attribute.Gets("a"))).
		Build()
	require.ErrorIs(t, err, attribute.ErrDependencyCycle)

	var cycle *attribute.CycleError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, []string{"a", "b", "c", "a"}, cycle.Path)
}

func TestClassBuilder_SelfCycle(t *testing.T) {
	_, err := attribute.NewClass("C").
		Add("a", attribute.Delegated().Getter(passthrough("a"), attribute.Gets("a"))).
		Build()
	assert.ErrorIs(t, err, attribute.ErrDependencyCycle)
}

func TestClass_Constants(t *testing.T) {
	calls := 0
	cls := attribute.NewClass("Circle").
		Add("pi", attribute.Delegated().Getter(func(*attribute.Access) (any, error) {
			calls++
			return 3.14, nil
		})).
		Add("tau", attribute.Delegated().Getter(func(a *attribute.Access) (any, error) {
			pi, err := a.Get("pi")
			if err != nil {
				return nil, err
			}
			return pi.(float64) * 2, nil
		}, attribute.Gets("pi"))).
		Add("radius", attribute.Plain()).
		MustBuild()

	assert.Equal(t, map[string]any{"pi": 3.14, "tau": 6.28}, cls.Constants())
	spec, _ := cls.Attribute("tau")
	assert.True(t, spec.Constant())
	spec, _ = cls.Attribute("radius")
	assert.False(t, spec.Constant())

	s1, s2 := cls.NewState(), cls.NewState()
	v, err := s1.Get("tau")
	require.NoError(t, err)
	assert.Equal(t, 6.28, v)
	_, err = s2.Get("pi")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "constants resolve once per class")
}

func TestClass_ConstantErrorFailsBuild(t *testing.T) {
	_, err := attribute.NewClass("C").
		Add("a", attribute.Delegated().Getter(func(*attribute.Access) (any, error) {
			return nil, errors.New("boom")
		})).
		Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestClass_BuilderReferences(t *testing.T) {
	first := attribute.Plain().Type(schema.String())
	last := attribute.Plain().Type(schema.String())
	full := attribute.Delegated().Getter(fullName, attribute.GetsOf(first, last))

	cls := attribute.NewClass("Person").
		Add("first", first).
		Add("last", last).
		Add("full_name", full).
		MustBuild()

	spec, ok := cls.Attribute("full_name")
	require.True(t, ok)
	assert.Equal(t, []string{"first", "last"}, spec.Getter().Gets)
	assert.Equal(t, "first", first.Name())
}

func TestClass_Inheritance(t *testing.T) {
	base := attribute.NewClass("Base").
		Add("id", attribute.Plain().Final()).
		Add("label", attribute.Plain().Default("base")).
		MustBuild()

	_, err := attribute.NewClass("Bad").Extends(base).Add("id", attribute.Plain()).Build()
	require.ErrorIs(t, err, attribute.ErrFinalOverride)

	child := attribute.NewClass("Child").
		Extends(base).
		Add("label", attribute.Plain().Default("child")).
		Add("extra", attribute.Plain()).
		MustBuild()

	assert.Equal(t, []string{"id", "label", "extra"}, child.Names())
	assert.True(t, child.IsA(base))
	assert.False(t, base.IsA(child))

	spec, _ := child.Attribute("label")
	assert.Equal(t, "Child", spec.Owner())
	def, ok, err := spec.Default()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "child", def)

	spec, _ = child.Attribute("id")
	assert.Equal(t, "Base", spec.Owner())
}

func TestSpec_VisibilityDefaults(t *testing.T) {
	cls := attribute.NewClass("V").
		Add("name", attribute.Plain()).
		Add("_cache", attribute.Plain()).
		Add("__secret", attribute.Plain()).
		Add("__meta__", attribute.Plain()).
		Add("_shown", attribute.Plain().Represented(true).Comparable(true)).
		MustBuild()

	tests := []struct {
		name       string
		visibility attribute.Visibility
		shown      bool
	}{
		{"name", attribute.Public, true},
		{"_cache", attribute.Protected, false},
		{"__secret", attribute.Private, false},
		{"__meta__", attribute.Magic, false},
		{"_shown", attribute.Protected, true},
	}
	for _, tt := range tests {
		spec, ok := cls.Attribute(tt.name)
		require.True(t, ok)
		assert.Equal(t, tt.visibility, spec.Visibility(), tt.name)
		assert.Equal(t, tt.shown, spec.Represented(), tt.name)
		assert.Equal(t, tt.shown, spec.Comparable(), tt.name)
	}
}

func TestSpec_DefaultFactory(t *testing.T) {
	n := 0
	cls := attribute.NewClass("D").
		Add("tags", attribute.Plain().DefaultFactory(func() (any, error) {
			n++
			return []string{}, nil
		})).
		MustBuild()
	spec, _ := cls.Attribute("tags")
	_, _, _ = spec.Default()
	_, _, _ = spec.Default()
	assert.Equal(t, 2, n)
}

func TestClass_Schema(t *testing.T) {
	s := personClass(t).Schema()
	assert.Equal(t, []string{"first", "full_name", "last"}, s.Names())
	assert.Equal(t, "string", s["first"].Name())
}
