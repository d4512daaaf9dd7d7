package execution

import (
	"errors"
	"fmt"
	"os/exec"
)

// Sentinel errors.
var (
	ErrMissingExecutionID = errors.New("failed to get execution token")
	ErrEmptyVolumeName    = errors.New("provisioning response has no volume name")
)

// Phases of a workflow execution used to tag errors.
const (
	PhaseInitialize   = "initialize"
	PhaseWorkDir      = "workdir"
	PhaseBuildCommand = "build_command"
	PhaseExecute      = "execute"
	PhaseUploadLog    = "upload_log"
)

// ExecutionError wraps errors with execution phase context.
type ExecutionError struct {
	Phase string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a fatal problem with the ambient execution identity or
// the configuration. It is raised before any network or process activity.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error: %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProvisioningError is returned when the storage service does not hand out a
// volume. StatusCode is zero for transport failures.
type ProvisioningError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProvisioningError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("provision storage: HTTP %d: %s", e.StatusCode, e.Body)
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("provision storage: HTTP %d: %v", e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("provision storage: HTTP %d", e.StatusCode)
	default:
		return fmt.Sprintf("provision storage: %v", e.Err)
	}
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// PipelineExecutionError is returned when the pipeline engine does not exit
// cleanly. ExitCode is -1 when the process was killed by a signal or never
// started. Partial outputs are left in place.
type PipelineExecutionError struct {
	ExitCode int
	Err      error
}

func (e *PipelineExecutionError) Error() string {
	if e.ExitCode < 0 {
		var exitErr *exec.ExitError
		if errors.As(e.Err, &exitErr) {
			return fmt.Sprintf("pipeline engine terminated: %v", e.Err)
		}
		return fmt.Sprintf("pipeline engine failed to start: %v", e.Err)
	}
	return fmt.Sprintf("pipeline engine exited with status %d", e.ExitCode)
}

func (e *PipelineExecutionError) Unwrap() error {
	return e.Err
}

// LogUploadSkipped is informational: the log upload did not happen but the
// step outcome is unaffected. It is never returned from a step.
type LogUploadSkipped struct {
	Reason string
}

func (e *LogUploadSkipped) Error() string {
	return "skipping logs upload, " + e.Reason
}
