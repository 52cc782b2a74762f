package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/doomspork/luagents/core"
	"github.com/doomspork/luagents/logging"
	"github.com/doomspork/luagents/memory"
	"github.com/doomspork/luagents/model"
	"github.com/doomspork/luagents/prompt"
	"github.com/doomspork/luagents/sandbox"
	"github.com/doomspork/luagents/tool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Agent drives a model through the generate and execute cycle until a script
// produces a final answer. An Agent owns one conversation memory and one
// persistent sandbox; Run calls are serialized.
type Agent struct {
	mu sync.Mutex

	name          string
	model         model.Model
	tools         tool.Set
	maxIterations int
	maxToolCalls  int
	instructions  string
	render        prompt.RenderFunc
	stream        bool
	logger        logging.Logger
	tracer        trace.Tracer

	memory  *memory.Memory
	sandbox *sandbox.Sandbox
	closed  bool
}

// New creates an agent backed by m.
//
// It returns an error wrapping ErrConfiguration when m is nil, the iteration
// budget is below one, tool names collide, or a tool name cannot be bound
// in Lua (including the reserved print, thought, observation and
// final_answer).
func New(m model.Model, opts ...Option) (*Agent, error) {
	o := Options{
		Name:          DefaultName,
		MaxIterations: DefaultMaxIterations,
	}
	for _, fn := range opts {
		fn(&o)
	}

	if m == nil {
		return nil, fmt.Errorf("%w: model is required", ErrConfiguration)
	}
	if o.MaxIterations < 1 {
		return nil, fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrConfiguration, o.MaxIterations)
	}
	if o.MaxToolCalls < 0 {
		return nil, fmt.Errorf("%w: max tool calls must not be negative", ErrConfiguration)
	}

	tools, err := tool.NewSet(o.Tools...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := sandbox.ValidateTools(tools); err != nil {
		return nil, err
	}

	a := &Agent{
		name:          o.Name,
		model:         m,
		tools:         tools,
		maxIterations: o.MaxIterations,
		maxToolCalls:  o.MaxToolCalls,
		instructions:  o.Instructions,
		render:        o.Renderer,
		stream:        o.Stream,
		logger:        logging.OrNoOp(o.Logger),
		tracer:        o.Tracer,
		memory:        o.Memory,
	}
	if a.instructions == "" {
		a.instructions = prompt.System(a.name)
	}
	if a.render == nil {
		a.render = prompt.Render
	}
	if a.tracer == nil {
		a.tracer = otel.Tracer(tracerName)
	}
	if a.memory == nil {
		a.memory = memory.New()
	}
	a.sandbox = a.newSandbox()

	return a, nil
}

func (a *Agent) newSandbox() *sandbox.Sandbox {
	return sandbox.New(func(o *sandbox.Options) {
		o.Logger = logging.Scoped(a.logger, "sandbox", "")
		o.MaxToolCalls = a.maxToolCalls
	})
}

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Memory returns the agent's conversation log.
func (a *Agent) Memory() *memory.Memory { return a.memory }

// Tools returns a copy of the agent's tool set.
func (a *Agent) Tools() tool.Set {
	out := make(tool.Set, len(a.tools))
	for name, t := range a.tools {
		out[name] = t
	}
	return out
}

// Run solves task and returns the final answer rendered as text.
//
// The returned error is ErrMaxIterations when the budget runs out, an
// *LLMError when the model fails, the context error when ctx ends, or a
// configuration or render error. Script and tool failures never surface
// here; they are recorded in Memory for the model to see.
func (a *Agent) Run(ctx context.Context, task string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return "", sandbox.ErrClosed
	}

	runID := core.NewID()
	log := logging.Scoped(a.logger, "agent", runID)

	ctx, span := a.startRunSpan(ctx, runID)
	answer, iterations, err := a.run(ctx, log, task)
	a.endRunSpan(span, iterations, err)

	return answer, err
}

func (a *Agent) run(ctx context.Context, log logging.Logger, task string) (string, int, error) {
	start := time.Now()
	a.memory.AddUser(task)
	log.Info("agent.run.start", "agent", a.name, "max_iterations", a.maxIterations, "tools", len(a.tools))

	for i := 0; i < a.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			log.Warn("agent.run.cancelled", "iteration", i+1, "error", err.Error())
			return "", i, err
		}

		answer, done, err := a.iterate(ctx, log, i+1)
		if err != nil {
			log.Error("agent.run.failed", "iteration", i+1, "error", err.Error())
			return "", i + 1, err
		}
		if done {
			log.Info("agent.run.complete", "iterations", i+1, "duration", time.Since(start))
			return answer, i + 1, nil
		}
	}

	log.Warn("agent.run.max_iterations", "max_iterations", a.maxIterations, "duration", time.Since(start))
	return "", a.maxIterations, fmt.Errorf("%w (%d)", ErrMaxIterations, a.maxIterations)
}

// iterate performs one render, generate and execute cycle. It reports done
// when the script produced a final answer.
func (a *Agent) iterate(ctx context.Context, log logging.Logger, iteration int) (answer string, done bool, err error) {
	start := time.Now()
	outcome, toolCalls := "error", 0

	ctx, span := a.startIterationSpan(ctx, iteration)
	defer func() {
		a.endIterationSpan(span, outcome, toolCalls, err)
		logging.LogIteration(log, iteration, outcome, time.Since(start))
	}()

	text, err := a.render(a.tools, a.memory)
	if err != nil {
		return "", false, fmt.Errorf("render prompt: %w", err)
	}

	reply, err := a.generate(ctx, log, iteration, text)
	if err != nil {
		return "", false, err
	}
	a.memory.AddAssistant(reply)

	res, err := a.sandbox.Execute(ctx, prompt.ExtractScript(reply), a.tools)
	if err != nil {
		return "", false, err
	}
	outcome, toolCalls = res.Kind.String(), len(res.ToolCalls)

	switch res.Kind {
	case sandbox.KindFinalAnswer:
		return core.Format(res.Value), true, nil
	case sandbox.KindFailure:
		log.Debug("agent.iteration.failure", "iteration", iteration, "error", res.Err.Error())
		a.memory.AddSystem(failureMessage(res))
	default:
		if out := strings.TrimRight(res.Output, "\n"); out != "" {
			a.memory.AddSystem(out)
		}
	}
	return "", false, nil
}

// generate asks the model for the next reply. Failures other than ctx
// ending are wrapped in *LLMError.
func (a *Agent) generate(ctx context.Context, log logging.Logger, iteration int, text string) (string, error) {
	start := time.Now()
	info := a.model.Info()

	resp, err := model.Collect(ctx, a.model, model.Request{
		Instructions: a.instructions,
		Prompt:       text,
		Stream:       a.stream,
	})

	tokens := 0
	if resp.Usage != nil {
		tokens = resp.Usage.TotalTokens
	}
	logging.LogLLMCall(log, info.Name, tokens, time.Since(start), err)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", ctxErr
		}
		return "", &LLMError{Iteration: iteration, Model: info.Name, Err: err}
	}
	return resp.Text, nil
}

// failureMessage renders a failed execution for the model: any output the
// script produced before failing, then the classified error.
func failureMessage(res *sandbox.Result) string {
	var b strings.Builder
	if out := strings.TrimRight(res.Output, "\n"); out != "" {
		b.WriteString(out)
		b.WriteByte('\n')
	}
	b.WriteString(res.Err.Error())
	return b.String()
}

// Reset clears the conversation and replaces the sandbox with a fresh Lua
// state, dropping every global earlier scripts defined.
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.memory.Clear()
	a.sandbox.Close()
	a.sandbox = a.newSandbox()
}

// Close releases the sandbox. Run returns sandbox.ErrClosed afterwards.
func (a *Agent) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	a.closed = true
	a.sandbox.Close()
}
