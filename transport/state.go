package transport

import "strconv"

// State is the progress of the current exchange on a connection. It only ever moves forward:
// Ready -> HeadSent -> Done, with Error reachable from any non-terminal state.
type State uint8

const (
	Ready State = iota
	HeadSent
	Done
	Error
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case HeadSent:
		return "head-sent"
	case Done:
		return "done"
	case Error:
		return "error"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Terminal reports whether no more transitions are possible.
func (s State) Terminal() bool {
	return s == Done || s == Error
}

func (s State) canAdvance(to State) bool {
	switch s {
	case Ready:
		return to == HeadSent || to == Done || to == Error
	case HeadSent:
		return to == Done || to == Error
	default:
		return false
	}
}
