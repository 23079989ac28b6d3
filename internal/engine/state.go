package engine

// State is a step in the life of one editor invocation.
type State int

const (
	StateIdle State = iota
	StateLaunching
	StateRunning
	StateCollecting
	StateSucceeded
	StateFailed
	StateTimedOut
	StateLaunchFailed
	StateInterrupted
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateLaunching:    "launching",
	StateRunning:      "running",
	StateCollecting:   "collecting",
	StateSucceeded:    "succeeded",
	StateFailed:       "failed",
	StateTimedOut:     "timed out",
	StateLaunchFailed: "launch failed",
	StateInterrupted:  "interrupted",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s >= StateSucceeded
}

// Observer receives every state transition of a run.
type Observer func(State)

// validTransitions lists the states reachable from each non-terminal state.
var validTransitions = map[State][]State{
	StateIdle:       {StateLaunching},
	StateLaunching:  {StateRunning, StateLaunchFailed},
	StateRunning:    {StateCollecting, StateTimedOut, StateInterrupted},
	StateCollecting: {StateSucceeded, StateFailed},
}

// CanTransition reports whether the invoker may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
