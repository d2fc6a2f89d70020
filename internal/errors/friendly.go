// Package errors dresses CLI failures with actionable guidance.
package errors

import (
	"fmt"
	"strings"
)

// UserFriendlyError pairs a user-facing message with a fix suggestion
// while keeping the original error reachable through Unwrap.
type UserFriendlyError struct {
	Message    string
	Suggestion string
	Details    error
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString("\n\nHow to fix:\n")
		sb.WriteString(e.Suggestion)
	}
	return sb.String()
}

func (e *UserFriendlyError) Unwrap() error { return e.Details }

// NewFriendlyError creates a user-friendly error.
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{Message: message, Suggestion: suggestion}
}

// WithDetails attaches the underlying error for logs and %w chains.
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// Common constructors for the failures users actually hit.

func ConfigNotFound(path string) *UserFriendlyError {
	return NewFriendlyError(
		fmt.Sprintf("Config file not found: %s", path),
		"Run `downsort config init` to create a starter config, or point DOWNSORT_CONFIG at an existing one.")
}

func WatchRootMissing(dir string) *UserFriendlyError {
	return NewFriendlyError(
		fmt.Sprintf("Watch directory does not exist: %s", dir),
		"Create the directory or fix general.watch_root in the config.")
}

func AlreadyRunning(lockPath string) *UserFriendlyError {
	return NewFriendlyError(
		"Another downsort watcher is already running.",
		fmt.Sprintf("Stop the other instance, or remove the stale lock at %s if no watcher is alive.", lockPath))
}
