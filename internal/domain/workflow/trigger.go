package workflow

// Trigger represents a user action that can cause a state transition
type Trigger string

const (
	TriggerSelect   Trigger = "SELECT"
	TriggerGenerate Trigger = "GENERATE"
	TriggerCopy     Trigger = "COPY"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
