package agent

import (
	"errors"
	"fmt"

	"github.com/doomspork/luagents/sandbox"
)

var (
	// ErrConfiguration indicates an invalid agent setup: a reserved or
	// invalid tool name, or a non-positive iteration budget. It is the same
	// sentinel the sandbox uses, so errors.Is matches either source.
	ErrConfiguration = sandbox.ErrConfiguration

	// ErrMaxIterations is returned when the iteration budget runs out before
	// a script produced a final answer.
	ErrMaxIterations = errors.New("max iterations reached")
)

// LLMError wraps a model failure. Model failures are fatal and never retried
// by the loop.
type LLMError struct {
	Iteration int
	Model     string
	Err       error
}

// Error implements error.
func (e *LLMError) Error() string {
	return fmt.Sprintf("llm error at iteration %d (%s): %v", e.Iteration, e.Model, e.Err)
}

// Unwrap returns the provider error.
func (e *LLMError) Unwrap() error { return e.Err }
