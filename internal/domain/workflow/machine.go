package workflow

import "context"

// StateMachine tracks the current state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error
}

// NewSessionMachine builds the report session lifecycle:
//
//	IDLE -> TYPE_SELECTED -> PREVIEWED -> COPIED
//
// SELECT is accepted from every state and always lands on TYPE_SELECTED.
// GENERATE may be repeated once a type is selected but only passes while
// stationReady does; a nil stationReady always passes. COPY needs a preview.
func NewSessionMachine(stationReady GuardFunc) StateMachine {
	if stationReady == nil {
		stationReady = func(context.Context) bool { return true }
	}

	b := NewBuilder()

	for _, s := range AllStates {
		b.Configure(s).Permit(TriggerSelect, StateTypeSelected)
	}

	b.Configure(StateTypeSelected).
		PermitIf(TriggerGenerate, StatePreviewed, stationReady)

	b.Configure(StatePreviewed).
		PermitIf(TriggerGenerate, StatePreviewed, stationReady).
		Permit(TriggerCopy, StateCopied)

	b.Configure(StateCopied).
		PermitIf(TriggerGenerate, StatePreviewed, stationReady).
		Permit(TriggerCopy, StateCopied)

	return b.Build(StateIdle)
}
