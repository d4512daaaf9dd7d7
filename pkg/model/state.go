package model

// ExecutionState represents the lifecycle state of one workflow execution.
type ExecutionState string

const (
	ExecutionStatePending      ExecutionState = "PENDING"
	ExecutionStateProvisioning ExecutionState = "PROVISIONING"
	ExecutionStateWorkDirReady ExecutionState = "WORKDIR_READY"
	ExecutionStateRunning      ExecutionState = "RUNNING"
	ExecutionStateSucceeded    ExecutionState = "SUCCEEDED"
	ExecutionStateFailed       ExecutionState = "FAILED"
)

// String returns the string representation of the execution state.
func (s ExecutionState) String() string {
	return string(s)
}

// IsTerminal returns true if the execution is in a final state.
func (s ExecutionState) IsTerminal() bool {
	switch s {
	case ExecutionStateSucceeded, ExecutionStateFailed:
		return true
	}
	return false
}

// ValidExecutionTransitions defines the allowed state transitions for executions.
// There is no retry edge: every failure is terminal.
var ValidExecutionTransitions = map[ExecutionState][]ExecutionState{
	ExecutionStatePending:      {ExecutionStateProvisioning, ExecutionStateWorkDirReady, ExecutionStateFailed},
	ExecutionStateProvisioning: {ExecutionStateWorkDirReady, ExecutionStateFailed},
	ExecutionStateWorkDirReady: {ExecutionStateRunning, ExecutionStateFailed},
	ExecutionStateRunning:      {ExecutionStateSucceeded, ExecutionStateFailed},
}

// CanTransitionTo returns true if moving from the current state to next is valid.
func (s ExecutionState) CanTransitionTo(next ExecutionState) bool {
	for _, allowed := range ValidExecutionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
