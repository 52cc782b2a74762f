// Package logging provides a minimal logging interface and adapters for luagents.
//
// The Logger interface defines the structured logging methods (Debug, Info,
// Warn, Error) that the agent loop and the sandbox use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping an existing *slog.Logger
//   - AgentLogger, a configured slog logger with tool / model / iteration helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(&logging.Config{Level: logging.LogLevelDebug, Format: "json", Output: os.Stderr})
//	a, err := agent.New(m, agent.WithLogger(logger))
package logging
