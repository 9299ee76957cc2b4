package arena_test

import (
	"testing"

	"github.com/aretw0/modelo/internal/arena"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocGetFree(t *testing.T) {
	a := arena.New[string]()

	h := a.Alloc("first")
	v, ok := a.Get(h)
	require.True(t, ok)
	assert.Equal(t, "first", v)
	assert.Equal(t, 1, a.Len())

	require.True(t, a.Free(h))
	_, ok = a.Get(h)
	assert.False(t, ok, "freed handle must not resolve")
	assert.False(t, a.Free(h), "double free is a no-op")
	assert.Equal(t, 0, a.Len())
}

func TestArena_StaleHandleAfterReuse(t *testing.T) {
	a := arena.New[int]()

	old := a.Alloc(1)
	require.True(t, a.Free(old))

	reused := a.Alloc(2)
	assert.NotEqual(t, old, reused)

	_, ok := a.Get(old)
	assert.False(t, ok, "stale handle must not see the new occupant")

	v, ok := a.Get(reused)
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestArena_ZeroHandle(t *testing.T) {
	a := arena.New[int]()
	var h arena.Handle
	assert.True(t, h.IsZero())
	assert.False(t, a.Valid(h))
	assert.Equal(t, "handle(nil)", h.String())
}

func TestArena_All(t *testing.T) {
	a := arena.New[string]()
	a.Alloc("a")
	b := a.Alloc("b")
	a.Alloc("c")
	a.Free(b)

	var seen []string
	a.All(func(_ arena.Handle, v string) bool {
		seen = append(seen, v)
		return true
	})
	assert.Equal(t, []string{"a", "c"}, seen)
}

func TestHandle_Order(t *testing.T) {
	a := arena.New[int]()
	h1 := a.Alloc(1)
	h2 := a.Alloc(2)
	assert.True(t, h1.Less(h2))
	assert.Equal(t, -1, h1.Compare(h2))
	assert.Equal(t, 1, h2.Compare(h1))
	assert.Equal(t, 0, h1.Compare(h1))
}
