package workflow

// State represents where a report session is in the select/generate/copy cycle
type State string

const (
	StateIdle         State = "IDLE"
	StateTypeSelected State = "TYPE_SELECTED"
	StatePreviewed    State = "PREVIEWED"
	StateCopied       State = "COPIED"
)

var validStates = map[State]bool{
	StateIdle:         true,
	StateTypeSelected: true,
	StatePreviewed:    true,
	StateCopied:       true,
}

// AllStates lists every session state
var AllStates = []State{StateIdle, StateTypeSelected, StatePreviewed, StateCopied}

// HasPreview returns true if a rendered report exists in this state
func (s State) HasPreview() bool {
	return s == StatePreviewed || s == StateCopied
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid session state
func (s State) IsValid() bool {
	return validStates[s]
}
