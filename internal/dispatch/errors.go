package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned when a namespaced invocation names no command.
var ErrIncomplete = Usage("The kitty command line is incomplete")

// ExitError ends the invocation with Code. Message, when set, is printed to
// stderr before exiting.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Message
}

// Exit returns a silent ExitError with the given status.
func Exit(code int) *ExitError {
	return &ExitError{Code: code}
}

// Usage returns an ExitError with status 1 and msg on stderr.
func Usage(msg string) *ExitError {
	return &ExitError{Code: 1, Message: msg}
}

// Exitf is Usage with formatting.
func Exitf(format string, args ...any) *ExitError {
	return Usage(fmt.Sprintf(format, args...))
}

// UnknownEntryPointError reports a namespaced command that is not registered,
// listing every valid choice.
type UnknownEntryPointError struct {
	Name    string
	Choices []string
}

func (e *UnknownEntryPointError) Error() string {
	return fmt.Sprintf("%s is not a known entry point. Choices are: %s", e.Name, strings.Join(e.Choices, ", "))
}

// ExitCode maps the outcome of a dispatch to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Silent reports whether err should end the process without a message.
func Silent(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Message == ""
}
