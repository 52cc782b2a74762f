package agent

import (
	"github.com/doomspork/luagents/logging"
	"github.com/doomspork/luagents/memory"
	"github.com/doomspork/luagents/prompt"
	"github.com/doomspork/luagents/tool"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxIterations bounds a run when WithMaxIterations is not given.
const DefaultMaxIterations = 10

// DefaultName is the agent name used when WithName is not given.
const DefaultName = "luagent"

// Options configures an Agent. Use the With* helpers with New.
type Options struct {
	Name          string
	Tools         []*tool.Tool
	MaxIterations int
	MaxToolCalls  int
	Instructions  string
	Renderer      prompt.RenderFunc
	Stream        bool
	Logger        logging.Logger
	Tracer        trace.Tracer
	Memory        *memory.Memory
}

// Option defines a configuration function for customizing an Agent.
type Option func(o *Options)

// WithName sets the agent name used in logs, spans and the system prompt.
func WithName(name string) Option {
	return func(o *Options) { o.Name = name }
}

// WithTools adds tools to the agent. Names must be unique across all tools
// given via WithTools and WithToolSet.
func WithTools(tools ...*tool.Tool) Option {
	return func(o *Options) { o.Tools = append(o.Tools, tools...) }
}

// WithToolSet adds every tool in set.
func WithToolSet(set tool.Set) Option {
	return func(o *Options) { o.Tools = append(o.Tools, set.Sorted()...) }
}

// WithMaxIterations sets the iteration budget. It must be at least one.
func WithMaxIterations(n int) Option {
	return func(o *Options) { o.MaxIterations = n }
}

// WithMaxToolCalls caps tool invocations per script. Zero means unlimited.
func WithMaxToolCalls(n int) Option {
	return func(o *Options) { o.MaxToolCalls = n }
}

// WithInstructions replaces the system prompt sent with every request.
func WithInstructions(text string) Option {
	return func(o *Options) { o.Instructions = text }
}

// WithRenderer replaces the prompt renderer.
func WithRenderer(fn prompt.RenderFunc) Option {
	return func(o *Options) { o.Renderer = fn }
}

// WithStreaming asks the model to stream its replies.
func WithStreaming(stream bool) Option {
	return func(o *Options) { o.Stream = stream }
}

// WithLogger sets the logger. Defaults to logging.NoOpLogger.
func WithLogger(l logging.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithTracer sets the OpenTelemetry tracer. Defaults to the global provider's
// tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *Options) { o.Tracer = t }
}

// WithMemory starts the agent from an existing conversation log.
func WithMemory(m *memory.Memory) Option {
	return func(o *Options) { o.Memory = m }
}
