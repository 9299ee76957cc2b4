package hierarchy

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyParented     = errors.New("already parented")
	ErrNotParented         = errors.New("not parented")
	ErrParentCycle         = errors.New("parent cycle")
	ErrMultipleParenting   = errors.New("cannot parent more than once")
	ErrMultipleUnparenting = errors.New("cannot unparent more than once")
	ErrUnknownNode         = errors.New("unknown node")
	ErrStillParented       = errors.New("node still has a parent")
)

// Error describes a rejected child update.
type Error struct {
	Parent Handle
	Child  Handle
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: child %s, parent %s", e.Err, e.Child, e.Parent)
}

func (e *Error) Unwrap() error {
	return e.Err
}
