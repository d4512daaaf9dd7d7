// Package execution carries the identity of one workflow execution and the
// error taxonomy shared by its steps.
package execution

import (
	"os"
	"strings"
)

// Default environment variables read by FromEnv.
const (
	DefaultExecutionIDEnv   = "FLYTE_INTERNAL_EXECUTION_ID"
	DefaultExecutionNameEnv = "FLYTE_INTERNAL_EXECUTION_NAME"
)

// AuthScheme is the Authorization scheme understood by the provisioning service.
const AuthScheme = "Latch-Execution-Token"

// Context is the identity of the current execution. It is built once at
// process entry and passed explicitly to every step; it is never persisted.
type Context struct {
	ExecutionID string
	Name        string // optional; resolved lazily when empty
}

// EnvNames selects the environment variables FromEnv reads.
type EnvNames struct {
	ExecutionID   string
	ExecutionName string
}

// FromEnv reads the execution identity from the process environment.
func FromEnv(names EnvNames) Context {
	return FromLookup(names, os.Getenv)
}

// FromLookup is FromEnv with an injectable getenv.
func FromLookup(names EnvNames, getenv func(string) string) Context {
	if names.ExecutionID == "" {
		names.ExecutionID = DefaultExecutionIDEnv
	}
	if names.ExecutionName == "" {
		names.ExecutionName = DefaultExecutionNameEnv
	}
	return Context{
		ExecutionID: strings.TrimSpace(getenv(names.ExecutionID)),
		Name:        strings.TrimSpace(getenv(names.ExecutionName)),
	}
}

// Token is the bearer token derived from the execution id.
func (c Context) Token() string {
	return c.ExecutionID
}

// Authorization returns the Authorization header value for the execution.
func (c Context) Authorization() string {
	return AuthScheme + " " + c.Token()
}

// Validate fails with a ConfigurationError when the execution id is missing.
func (c Context) Validate() error {
	if c.ExecutionID == "" {
		return &ConfigurationError{Field: "execution_id", Err: ErrMissingExecutionID}
	}
	return nil
}
