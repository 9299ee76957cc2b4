package history

import "errors"

var (
	// ErrWhileRunning is returned when the history is changed while a command
	// runs or a batch is open.
	ErrWhileRunning = errors.New("history is running")
	// ErrAlreadyRan is returned when a command is run a second time.
	ErrAlreadyRan = errors.New("command already ran")
	// ErrCannotUndo is returned when there is nothing to undo.
	ErrCannotUndo = errors.New("cannot undo")
	// ErrCannotRedo is returned when there is nothing to redo.
	ErrCannotRedo = errors.New("cannot redo")
	// ErrIndexOutOfRange is returned by SetIndex for an index outside the
	// recorded commands.
	ErrIndexOutOfRange = errors.New("history index out of range")
)
