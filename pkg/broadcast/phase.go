package broadcast

import "fmt"

// Phase orders the emissions of a single logical action.
type Phase uint8

const (
	PhaseInternalPre Phase = iota
	PhasePre
	PhasePost
	PhaseInternalPost
)

// Phases lists every phase in emission order.
func Phases() []Phase {
	return []Phase{PhaseInternalPre, PhasePre, PhasePost, PhaseInternalPost}
}

func (p Phase) String() string {
	switch p {
	case PhaseInternalPre:
		return "internal_pre"
	case PhasePre:
		return "pre"
	case PhasePost:
		return "post"
	case PhaseInternalPost:
		return "internal_post"
	default:
		return fmt.Sprintf("phase(%d)", p)
	}
}

// Internal reports whether only internal listeners observe this phase.
func (p Phase) Internal() bool {
	return p == PhaseInternalPre || p == PhaseInternalPost
}

type outcome uint8

const (
	outcomeContinue outcome = iota
	outcomeStop
	outcomeReject
)

// Result is what a listener returns from React.
type Result struct {
	outcome outcome
	cleanup func()
}

// Continue lets the emission proceed to the next listener.
var Continue = Result{}

// Stop skips the listeners that have not reacted yet.
func Stop() Result {
	return Result{outcome: outcomeStop}
}

// Reject vetoes the action. cleanup, when not nil, runs once after the
// emission unwinds.
func Reject(cleanup func()) Result {
	return Result{outcome: outcomeReject, cleanup: cleanup}
}

// IsContinue reports whether r is Continue.
func (r Result) IsContinue() bool { return r.outcome == outcomeContinue }

// IsStop reports whether r stops propagation.
func (r Result) IsStop() bool { return r.outcome == outcomeStop }

// IsReject reports whether r rejects the event.
func (r Result) IsReject() bool { return r.outcome == outcomeReject }

func (r Result) String() string {
	switch r.outcome {
	case outcomeStop:
		return "stop"
	case outcomeReject:
		return "reject"
	default:
		return "continue"
	}
}
