package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modelo/pkg/attribute"
	"github.com/aretw0/modelo/pkg/registry"
)

func TestRegistry_Lookup(t *testing.T) {
	r := registry.NewRegistry()
	r.RegisterGetter("one", func(*attribute.Access) (any, error) { return 1, nil })
	r.RegisterFactory("upper", func(v any) (any, error) { return v, nil })

	get, err := r.Getter("one")
	require.NoError(t, err)
	v, err := get(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = r.Setter("one")
	assert.ErrorIs(t, err, registry.ErrNotFound)
	_, err = r.Deleter("missing")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	names := r.Names()
	assert.Equal(t, []string{"one"}, names["getter"])
	assert.Equal(t, []string{"upper"}, names["factory"])
	assert.Empty(t, names["setter"])
}

func TestRegistry_Overwrite(t *testing.T) {
	r := registry.NewRegistry()
	r.RegisterGetter("v", func(*attribute.Access) (any, error) { return "old", nil })
	r.RegisterGetter("v", func(*attribute.Access) (any, error) { return "new", nil })

	get, err := r.Getter("v")
	require.NoError(t, err)
	v, _ := get(nil)
	assert.Equal(t, "new", v)
}

func TestBuiltins(t *testing.T) {
	r := registry.Builtins()
	assert.Equal(t, []string{"bool", "float", "int", "lower", "string", "trim", "upper"}, r.Names()["factory"])

	tests := []struct {
		factory string
		in      any
		want    any
	}{
		{"int", "42", 42},
		{"int", 3.0, 3},
		{"float", "2.5", 2.5},
		{"string", 7, "7"},
		{"bool", "true", true},
		{"trim", "  ada ", "ada"},
		{"lower", "ADA", "ada"},
		{"upper", "ada", "ADA"},
	}
	for _, tt := range tests {
		fn, err := r.Factory(tt.factory)
		require.NoError(t, err, tt.factory)
		got, err := fn(tt.in)
		require.NoError(t, err, tt.factory)
		assert.Equal(t, tt.want, got, tt.factory)
	}

	fn, err := r.Factory("int")
	require.NoError(t, err)
	_, err = fn("forty-two")
	assert.Error(t, err)
}
