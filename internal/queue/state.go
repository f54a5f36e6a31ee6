package queue

import "strings"

// State names one of the four queue directories a job can occupy.
type State string

const (
	// StateJobs holds submitted jobs awaiting a claim.
	StateJobs State = "jobs"
	// StatePriority holds expedited jobs scanned ahead of StateJobs.
	StatePriority State = "priority_jobs"
	// StateComplete is the terminal directory for successful jobs.
	StateComplete State = "complete"
	// StateError is the terminal directory for failed jobs.
	StateError State = "error"
)

var allStates = []State{StateJobs, StatePriority, StateComplete, StateError}

var stateSet = func() map[State]struct{} {
	set := make(map[State]struct{}, len(allStates))
	for _, state := range allStates {
		set[state] = struct{}{}
	}
	return set
}()

// AllStates returns the ordered list of known states.
func AllStates() []State {
	cp := make([]State, len(allStates))
	copy(cp, allStates)
	return cp
}

// ParseState converts a string into a known State.
func ParseState(value string) (State, bool) {
	normalized := State(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := stateSet[normalized]
	return normalized, ok
}

func (s State) valid() bool {
	_, ok := stateSet[s]
	return ok
}

// Terminal reports whether a state is one of the two finalize destinations.
func (s State) Terminal() bool {
	return s == StateComplete || s == StateError
}
