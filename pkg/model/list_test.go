package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/modelo/pkg/broadcast"
	"github.com/aretw0/modelo/pkg/hierarchy"
	"github.com/aretw0/modelo/pkg/history"
	"github.com/aretw0/modelo/pkg/model"
	"github.com/aretw0/modelo/pkg/schema"
)

func TestList_AlreadyParentedAppend(t *testing.T) {
	g := model.NewGraph()
	first := g.NewList()
	second := g.NewList()
	child := g.NewList()

	require.NoError(t, first.Append(child))
	err := second.Append(child)
	require.ErrorIs(t, err, hierarchy.ErrAlreadyParented)

	assert.Equal(t, 0, second.Len(), "the failed append changes nothing")
	p, ok := g.Parent(child)
	require.True(t, ok)
	assert.Same(t, first, p)
}

func TestList_InsertPopMove(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList()

	require.NoError(t, l.Append(1, 2, 3))
	require.NoError(t, l.Insert(0, 0))
	require.NoError(t, l.Insert(-1, 2.5))
	require.NoError(t, l.Insert(100, 4))
	assert.Equal(t, []any{0, 1, 2, 2.5, 3, 4}, l.Values())

	v, err := l.Pop(-1)
	require.NoError(t, err)
	assert.Equal(t, 4, v)
	v, err = l.Pop(3)
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	require.NoError(t, l.Move(0, 3))
	assert.Equal(t, []any{1, 2, 3, 0}, l.Values())
	last, ok := l.At(-1)
	require.True(t, ok)
	assert.Equal(t, 0, last)

	_, err = l.Pop(10)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Move(0, 9), model.ErrIndexOutOfRange)
	assert.Equal(t, "List[1, 2, 3, 0]", l.String())
}

func TestList_UndoRedo(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList()
	h := history.New()
	l.SetHistory(h)

	require.NoError(t, l.Append("a", "b", "c"))
	require.NoError(t, l.Move(0, 2))
	_, err := l.Pop(0)
	require.NoError(t, err)
	assert.Equal(t, []any{"c", "a"}, l.Values())

	require.NoError(t, h.Undo())
	assert.Equal(t, []any{"b", "c", "a"}, l.Values())
	require.NoError(t, h.Undo())
	assert.Equal(t, []any{"a", "b", "c"}, l.Values())
	require.NoError(t, h.UndoAll())
	assert.Empty(t, l.Values())

	require.NoError(t, h.RedoAll())
	assert.Equal(t, []any{"c", "a"}, l.Values())
}

func TestList_ChildrenFollowValues(t *testing.T) {
	g := model.NewGraph()
	parent := g.NewList()
	child := g.NewList()
	h := history.New()
	parent.SetHistory(h)

	require.NoError(t, parent.Append(child))
	assert.Same(t, h, child.History())

	_, err := parent.Pop(0)
	require.NoError(t, err)
	_, ok := g.Parent(child)
	assert.False(t, ok)

	require.NoError(t, h.Undo())
	p, ok := g.Parent(child)
	require.True(t, ok)
	assert.Same(t, parent, p)

	require.ErrorIs(t, parent.Append(child), hierarchy.ErrAlreadyParented)
	loose := g.NewList(model.WithoutParenting())
	require.NoError(t, loose.Append(child), "lists without parenting only hold references")
}

func TestList_MultipleParenting(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList()
	child := g.NewList()
	assert.ErrorIs(t, l.Append(child, child), hierarchy.ErrMultipleParenting)
	assert.Equal(t, 0, l.Len())
}

func TestList_ValueType(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList(model.WithValueType(schema.Int()))
	require.NoError(t, l.Append(1, 2))
	assert.ErrorIs(t, l.Append(3, "four"), model.ErrInvalidValue)
	assert.Equal(t, 2, l.Len())
}

func TestList_Events(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList()
	child := g.NewList()

	var events []any
	l.Events().Subscribe(broadcast.ListenerFunc(func(event any, phase broadcast.Phase) broadcast.Result {
		if phase == broadcast.PhasePost {
			events = append(events, event)
		}
		return broadcast.Continue
	}))

	require.NoError(t, l.Append("x", child))
	require.NoError(t, l.Move(1, 0))
	_, err := l.Pop(0)
	require.NoError(t, err)
	require.Len(t, events, 3)

	insert := events[0].(model.ListInsertEvent)
	assert.Equal(t, 0, insert.Index())
	assert.Equal(t, []any{"x", child}, insert.Values())
	assert.Equal(t, []model.Model{child}, insert.Adoptions())

	move := events[1].(model.ListMoveEvent)
	assert.Equal(t, 1, move.Index())
	assert.Equal(t, 0, move.Target())

	pop := events[2].(model.ListPopEvent)
	assert.Equal(t, []model.Model{child}, pop.Releases())
	assert.True(t, pop.Equal(pop))
	assert.False(t, pop.Change.Equal(insert.Change))
}

func TestList_RejectedChange(t *testing.T) {
	g := model.NewGraph()
	l := g.NewList()
	h := history.New()
	l.SetHistory(h)
	require.NoError(t, l.Append(1))
	require.NoError(t, l.Append(2))
	require.NoError(t, h.Undo())

	l.InternalEvents().Subscribe(broadcast.ListenerFunc(func(event any, phase broadcast.Phase) broadcast.Result {
		if _, ok := event.(model.ListPopEvent); ok && phase == broadcast.PhaseInternalPre {
			return broadcast.Reject(nil)
		}
		return broadcast.Continue
	}))

	_, err := l.Pop(0)
	assert.ErrorIs(t, err, model.ErrRejected)
	assert.Equal(t, []any{1}, l.Values())
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.CurrentIndex())
	assert.True(t, h.CanRedo())
}
