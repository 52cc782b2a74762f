package sandbox

import (
	"errors"
	"fmt"
)

// Sentinel errors for error classification.
var (
	// ErrConfiguration indicates an invalid sandbox or tool set configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrReservedName indicates a tool name collides with a control function.
	ErrReservedName = fmt.Errorf("%w: reserved name", ErrConfiguration)

	// ErrInvalidName indicates a tool name is not a callable Lua identifier.
	ErrInvalidName = fmt.Errorf("%w: invalid tool name", ErrConfiguration)

	// ErrClosed is returned by Execute after Close.
	ErrClosed = errors.New("sandbox closed")

	// ErrCompilation matches script parse failures.
	ErrCompilation = errors.New("compilation error")

	// ErrRuntime matches script runtime failures.
	ErrRuntime = errors.New("runtime error")
)

// FailureKind classifies a script failure.
type FailureKind int

const (
	// CompilationError means the script failed to parse.
	CompilationError FailureKind = iota
	// RuntimeError means the script raised or faulted while running.
	RuntimeError
)

// String returns the failure class name as shown to the model.
func (k FailureKind) String() string {
	switch k {
	case CompilationError:
		return "CompilationError"
	case RuntimeError:
		return "RuntimeError"
	default:
		return "UnknownError"
	}
}

// ScriptError describes a failed script execution.
type ScriptError struct {
	Kind FailureKind

	// Message is the interpreter's error text without the Go stack trace.
	Message string

	// Line is the 1-based line number where the error occurred.
	// Zero indicates the line is unknown.
	Line int

	// Err is the underlying interpreter error, if any.
	Err error
}

// Error returns "<Kind>: <message>".
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Is matches ErrCompilation or ErrRuntime according to Kind.
func (e *ScriptError) Is(target error) bool {
	switch e.Kind {
	case CompilationError:
		return target == ErrCompilation
	case RuntimeError:
		return target == ErrRuntime
	default:
		return false
	}
}
