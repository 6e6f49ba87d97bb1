// Package errors provides structured CLI error types for damngood.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output across all commands.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes for CLI errors.
const (
	ExitSuccess  = 0  // Successful execution
	ExitGeneral  = 1  // General error
	ExitNotFound = 2  // Referenced server or client does not exist
	ExitDocument = 3  // A JSON document could not be parsed
	ExitConfig   = 4  // Configuration error
	ExitEditor   = 5  // Editor invocation failure or cancellation
	ExitUsage    = 64 // Command line usage error (BSD convention)
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// ServerNotFound returns an error for an unknown server name.
func ServerNotFound(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Server not found: %s", name),
		Hint:    "Run 'damngood list' to see servers in the central registry",
		Code:    ExitNotFound,
	}
}

// ServerExists returns an error when adding a server name that is already registered.
func ServerExists(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Server already exists: %s", name),
		Hint:    fmt.Sprintf("Run 'damngood edit %s' to modify it", name),
		Code:    ExitGeneral,
	}
}

// ClientNotFound returns an error for an unknown client name.
func ClientNotFound(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Client not found: %s", name),
		Hint:    "Run 'damngood client list' to see registered clients",
		Code:    ExitNotFound,
	}
}

// ClientProtected returns an error when deleting an auto-discovered client.
func ClientProtected(name string) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Cannot remove auto-discovered client: %s", name),
		Hint:    fmt.Sprintf("Run 'damngood client disable %s' to exclude it from sync and import", name),
		Code:    ExitGeneral,
	}
}

// InvalidDocument returns an error for a file that is not parseable JSON.
func InvalidDocument(path string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid JSON in %s", path),
		Hint:    "Fix the file by hand or restore it from a backup, then retry",
		Cause:   cause,
		Code:    ExitDocument,
	}
}

// EditorUnavailable returns an error when no editor could be resolved.
func EditorUnavailable() *CLIError {
	return &CLIError{
		Message: "No editor found",
		Hint:    "Set the EDITOR environment variable or 'damngood config set editor <cmd>'",
		Code:    ExitEditor,
	}
}

// EditorCanceled returns an error when the editor exited without saving.
func EditorCanceled() *CLIError {
	return &CLIError{
		Message: "Editor closed without saving",
		Hint:    "No changes were made",
		Code:    ExitEditor,
	}
}

// CannotPrompt returns an error when interactive prompts are unavailable.
func CannotPrompt() *CLIError {
	return &CLIError{
		Message: "Cannot prompt in non-interactive mode",
		Hint:    "Run from a terminal without --no-input",
		Code:    ExitUsage,
	}
}

// ConfigFailed returns an error for configuration or registry persistence failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check file permissions for your damngood data directory or run 'damngood doctor'",
		Cause:   cause,
		Code:    ExitConfig,
	}
}
