package broadcast

import "errors"

var (
	// ErrAlreadyEmitting is returned when Emit is called during an emission
	// on the same emitter.
	ErrAlreadyEmitting = errors.New("already emitting")
	// ErrPhase is returned when a listener rejects outside PhaseInternalPre or
	// on a non-internal emitter.
	ErrPhase = errors.New("reject is only allowed during the internal pre phase of an internal emitter")
	// ErrNilEvent is returned when emitting a nil event.
	ErrNilEvent = errors.New("cannot emit a nil event")
)
