package history_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modelo/pkg/broadcast"
	"github.com/aretw0/modelo/pkg/history"
)

// counter is a tiny piece of state mutated by commands.
type counter struct {
	value int
}

func (c *counter) add(n int) *history.Command {
	return history.NewReversible(fmt.Sprintf("add %d", n),
		func() error { c.value += n; return nil },
		func() error { c.value -= n; return nil },
	)
}

func TestHistory_RunUndoRedo(t *testing.T) {
	c := &counter{}
	h := history.New()

	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.Run(c.add(2)))
	assert.Equal(t, 3, c.value)
	assert.Equal(t, 2, h.CurrentIndex())

	require.NoError(t, h.Undo())
	assert.Equal(t, 1, c.value)
	require.NoError(t, h.Redo())
	assert.Equal(t, 3, c.value)

	require.NoError(t, h.UndoAll())
	assert.Equal(t, 0, c.value)
	assert.ErrorIs(t, h.Undo(), history.ErrCannotUndo)

	require.NoError(t, h.RedoAll())
	assert.Equal(t, 3, c.value)
	assert.ErrorIs(t, h.Redo(), history.ErrCannotRedo)
}

func TestHistory_UndoRedoInverseLaw(t *testing.T) {
	c := &counter{value: 10}
	h := history.New()
	require.NoError(t, h.Run(c.add(5)))
	post := c.value

	require.NoError(t, h.Undo())
	pre := c.value
	require.NoError(t, h.Redo())
	assert.Equal(t, post, c.value)

	require.NoError(t, h.Undo())
	assert.Equal(t, pre, c.value)
	assert.Equal(t, 10, pre)
}

func TestHistory_BoundedScenario(t *testing.T) {
	c := &counter{}
	h := history.New(history.WithSize(2))

	first := c.add(1)
	require.NoError(t, h.Run(first))
	require.NoError(t, h.Run(c.add(10)))
	require.NoError(t, h.Run(c.add(100)))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 2, h.CurrentIndex())
	assert.NotContains(t, h.Commands(), first, "oldest command is evicted")

	require.NoError(t, h.Undo())
	require.NoError(t, h.Undo())
	assert.Equal(t, 1, c.value)
	assert.ErrorIs(t, h.Undo(), history.ErrCannotUndo)

	require.NoError(t, h.RedoAll())
	assert.Equal(t, 111, c.value)
}

func TestHistory_SizeNormalizationAndDisabled(t *testing.T) {
	assert.Equal(t, history.Unbounded, history.New(history.WithSize(-7)).Size())

	c := &counter{}
	h := history.New(history.WithSize(0))
	require.NoError(t, h.Run(c.add(1)))
	assert.Equal(t, 1, c.value)
	assert.Equal(t, 0, h.Len(), "size 0 disables recording")
}

func TestHistory_SetSizeShrinkFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.Run(c.add(1)))

	require.NoError(t, h.SetSize(5))
	assert.Equal(t, 0, h.Len())

	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.SetSize(10))
	assert.Equal(t, 1, h.Len(), "growing keeps commands")
}

func TestHistory_IrreversibleFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.Run(c.add(2)))
	require.NoError(t, h.Undo())

	require.NoError(t, h.Run(history.NewAction("reset", func() error { c.value = 0; return nil })))
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestHistory_NewCommandFlushesRedo(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.Run(c.add(2)))
	require.NoError(t, h.Undo())
	require.True(t, h.CanRedo())

	require.NoError(t, h.Run(c.add(3)))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
}

func TestHistory_FailureFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))

	boom := errors.New("boom")
	err := h.Run(history.NewReversible("fail", func() error { return boom }, func() error { return nil }))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, h.Len())

	require.NoError(t, h.Run(c.add(1)))
	require.NoError(t, h.Run(history.NewReversible("bad undo",
		func() error { return nil },
		func() error { return boom })))
	assert.ErrorIs(t, h.Undo(), boom)
	assert.Equal(t, 0, h.Len(), "failing undo flushes too")
}

func TestHistory_AlreadyRan(t *testing.T) {
	c := &counter{}
	h := history.New()
	cmd := c.add(1)
	require.NoError(t, h.Run(cmd))
	assert.True(t, cmd.Ran())
	assert.ErrorIs(t, h.Run(cmd), history.ErrAlreadyRan)

	direct := c.add(1)
	require.NoError(t, direct.Run())
	assert.ErrorIs(t, direct.Run(), history.ErrAlreadyRan)
}

func TestHistory_WhileRunning(t *testing.T) {
	h := history.New()
	var inner []error
	cmd := history.NewReversible("guarded", func() error {
		inner = append(inner,
			h.SetSize(3),
			h.SetIndex(0),
			h.Batch("b", func() error { return nil }),
		)
		return nil
	}, func() error { return nil })

	require.NoError(t, h.Run(cmd))
	require.Len(t, inner, 3)
	for _, err := range inner {
		assert.ErrorIs(t, err, history.ErrWhileRunning)
	}
}

func (c *counter) set(n int) *history.Command {
	var old int
	return history.NewReversible(fmt.Sprintf("set %d", n),
		func() error { old, c.value = c.value, n; return nil },
		func() error { c.value = old; return nil },
	)
}

func TestHistory_NestedRunJoinsRunningCommand(t *testing.T) {
	a, b := &counter{}, &counter{}
	h := history.New()
	var nested []error
	outer := history.NewReversible("outer",
		func() error {
			a.value = 1
			nested = append(nested, h.Run(b.set(10)))
			return nil
		},
		func() error { a.value = 0; return nil },
	)

	require.NoError(t, h.Run(outer))
	require.Len(t, nested, 1)
	require.NoError(t, nested[0])
	assert.Equal(t, 10, b.value)
	require.Equal(t, 1, h.Len(), "the nested command is recorded with the outer one")
	assert.Equal(t, "outer", h.Commands()[0].Name())
	assert.Len(t, h.FlattenedCommands(), 2)

	require.NoError(t, h.Undo())
	assert.Equal(t, 0, a.value)
	assert.Equal(t, 0, b.value)

	require.NoError(t, h.Redo())
	assert.Equal(t, 1, a.value)
	assert.Equal(t, 10, b.value)
	assert.Equal(t, 1, h.Len(), "commands nested in a redo are not recorded")
	assert.Equal(t, 1, h.CurrentIndex())
	for _, err := range nested {
		assert.NoError(t, err)
	}
}

func TestHistory_NestedIrreversibleFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))

	require.NoError(t, h.Run(history.NewReversible("outer",
		func() error { return h.Run(history.NewAction("nested", func() error { return nil })) },
		func() error { return nil },
	)))
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
}

func TestHistory_FailedNestedRunIsNotRecorded(t *testing.T) {
	c := &counter{}
	h := history.New()
	boom := errors.New("boom")
	var nested error
	require.NoError(t, h.Run(history.NewReversible("outer",
		func() error {
			nested = h.Run(history.NewReversible("failing", func() error { return boom }, func() error { return nil }))
			c.value++
			return nil
		},
		func() error { c.value--; return nil },
	)))
	assert.ErrorIs(t, nested, boom)
	require.Equal(t, 1, h.Len())
	assert.Len(t, h.FlattenedCommands(), 1)
}

func TestHistory_DeferredFlushWhileRunning(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))

	require.NoError(t, h.Run(history.NewReversible("flusher", func() error {
		h.Flush()
		assert.Equal(t, 1, h.Len(), "flush waits for the command to return")
		return nil
	}, func() error { return nil })))
	assert.Equal(t, 1, h.Len(), "only the flushing command remains")
	assert.Equal(t, "flusher", h.Commands()[0].Name())
}

func TestHistory_Batch(t *testing.T) {
	c := &counter{}
	h := history.New()

	err := h.Batch("outer", func() error {
		assert.True(t, h.InBatch())
		name, _ := h.CurrentBatch()
		assert.Equal(t, "outer", name)
		assert.ErrorIs(t, h.SetIndex(0), history.ErrWhileRunning)

		if err := h.Run(c.add(1)); err != nil {
			return err
		}
		return h.Batch("inner", func() error {
			if err := h.Run(c.add(10)); err != nil {
				return err
			}
			return h.Run(c.add(100))
		})
	})
	require.NoError(t, err)
	assert.False(t, h.InBatch())
	assert.Equal(t, 111, c.value)
	require.Equal(t, 1, h.Len(), "the outer batch is one undo step")

	batch := h.Commands()[0]
	assert.True(t, batch.IsBatch())
	assert.Len(t, batch.Commands(), 2)
	assert.Len(t, h.FlattenedCommands(), 3)

	require.NoError(t, h.Undo())
	assert.Equal(t, 0, c.value)
	require.NoError(t, h.Redo())
	assert.Equal(t, 111, c.value)
}

func TestHistory_BatchUndoOrder(t *testing.T) {
	var log []string
	step := func(name string) *history.Command {
		return history.NewReversible(name,
			func() error { log = append(log, "do "+name); return nil },
			func() error { log = append(log, "undo "+name); return nil })
	}
	h := history.New()
	require.NoError(t, h.Batch("b", func() error {
		if err := h.Run(step("a")); err != nil {
			return err
		}
		return h.Run(step("b"))
	}))
	log = nil
	require.NoError(t, h.Undo())
	assert.Equal(t, []string{"undo b", "undo a"}, log)
}

func TestHistory_BatchWithIrreversibleFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))

	require.NoError(t, h.Batch("mixed", func() error {
		if err := h.Run(c.add(1)); err != nil {
			return err
		}
		return h.Run(history.NewAction("irreversible", func() error { return nil }))
	}))
	assert.Equal(t, 0, h.Len())
}

func TestHistory_BatchErrorFlushes(t *testing.T) {
	c := &counter{}
	h := history.New()
	require.NoError(t, h.Run(c.add(1)))

	boom := errors.New("boom")
	err := h.Batch("failing", func() error {
		if err := h.Run(c.add(1)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.InBatch())
}

func TestHistory_IndexChangedPerStep(t *testing.T) {
	c := &counter{}
	var steps [][2]int
	var hooked int
	h := history.New(history.WithHooks(history.Hooks{
		OnIndexChange: func(int, int) { hooked++ },
	}))
	h.Emitter().Subscribe(broadcast.ListenerFunc(func(event any, phase broadcast.Phase) broadcast.Result {
		e := event.(history.IndexChangedEvent)
		assert.Same(t, h, e.History)
		steps = append(steps, [2]int{e.Old, e.New})
		return broadcast.Continue
	}))

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Run(c.add(1)))
	}
	require.NoError(t, h.SetIndex(0))
	require.NoError(t, h.SetIndex(2))

	assert.Equal(t, [][2]int{{3, 2}, {2, 1}, {1, 0}, {0, 1}, {1, 2}}, steps)
	assert.Equal(t, 5, hooked)
	assert.ErrorIs(t, h.SetIndex(4), history.ErrIndexOutOfRange)
	assert.ErrorIs(t, h.SetIndex(-1), history.ErrIndexOutOfRange)
}

func TestHistory_Hooks(t *testing.T) {
	var runs []string
	flushed := 0
	h := history.New(history.WithHooks(history.Hooks{
		OnRun:   func(name string, _ bool) { runs = append(runs, name) },
		OnFlush: func(n int) { flushed += n },
	}))
	c := &counter{}
	require.NoError(t, h.Run(c.add(1)))
	h.Flush()
	assert.Equal(t, []string{"add 1"}, runs)
	assert.Equal(t, 1, flushed)
}
