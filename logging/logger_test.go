package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{in: "debug", want: LogLevelDebug},
		{in: "INFO", want: LogLevelInfo},
		{in: "", want: LogLevelInfo},
		{in: "warning", want: LogLevelWarn},
		{in: "error", want: LogLevelError},
		{in: "loud", want: LogLevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgentLogger_JSONAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: LogLevelDebug, Format: "json", Output: &buf}).
		WithComponent("sandbox").
		WithRun("run-1")

	l.Info("tool.call.start", "tool", "add")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tool.call.start", entry["msg"])
	assert.Equal(t, "sandbox", entry["component"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "add", entry["tool"])
}

func TestAgentLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: LogLevelWarn, Format: "text", Output: &buf})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestDomainHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: LogLevelDebug, Format: "text", Output: &buf})

	LogToolCall(l, "add", time.Millisecond, nil)
	LogToolCall(l, "divide", time.Millisecond, errors.New("division by zero"))
	LogLLMCall(l, "mock", 12, time.Second, nil)
	LogIteration(l, 1, "continuation", time.Second)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "tool.call.success")
	assert.Contains(t, lines[1], "tool.call.error")
	assert.Contains(t, lines[1], "division by zero")
	assert.Contains(t, lines[2], "token_count=12")
	assert.Contains(t, lines[3], "outcome=continuation")
}

func TestScoped(t *testing.T) {
	var buf bytes.Buffer
	base := New(&Config{Level: LogLevelInfo, Format: "json", Output: &buf})

	Scoped(base, "agent", "run-9").Info("agent.run.start")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "agent", entry["component"])
	assert.Equal(t, "run-9", entry["run_id"])

	// The base logger is not modified.
	buf.Reset()
	base.Info("plain")
	assert.NotContains(t, buf.String(), "run-9")

	other := NewDefaultSlogLogger()
	assert.Same(t, other, Scoped(other, "agent", "run-9"))
	assert.Equal(t, NoOpLogger{}, Scoped(nil, "agent", ""))
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))

	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
