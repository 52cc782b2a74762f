package sandbox

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/doomspork/luagents/core"
	"github.com/doomspork/luagents/logging"
	"github.com/doomspork/luagents/tool"
	lua "github.com/yuin/gopher-lua"
)

const chunkName = "script"

// Kind is the outcome class of one Execute call.
type Kind int

const (
	// KindContinuation means the script ran without producing a final answer.
	KindContinuation Kind = iota
	// KindFinalAnswer means the script called final_answer with a non-nil value.
	KindFinalAnswer
	// KindFailure means the script failed to compile or raised at runtime.
	KindFailure
)

// String returns a lower-case name for the outcome.
func (k Kind) String() string {
	switch k {
	case KindContinuation:
		return "continuation"
	case KindFinalAnswer:
		return "final_answer"
	case KindFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of executing one script.
type Result struct {
	Kind Kind

	// Value is the decoded final answer when Kind is KindFinalAnswer.
	Value core.Value

	// Output is the print buffer accumulated during this call only.
	Output string

	// Err describes the failure when Kind is KindFailure.
	Err *ScriptError

	// ToolCalls lists tool invocations in call order.
	ToolCalls []ToolCall

	Duration time.Duration
}

// Options configures a Sandbox.
type Options struct {
	// Logger receives tool call and execution events. Defaults to NoOpLogger.
	Logger logging.Logger

	// MaxToolCalls caps tool invocations per Execute. Exceeding the cap
	// raises a runtime error in the script. Zero means unlimited.
	MaxToolCalls int

	// CallStackSize overrides the Lua call stack depth. Zero keeps the
	// interpreter default.
	CallStackSize int
}

// Sandbox owns one persistent Lua state. It is safe for concurrent use, but
// executions are serialized: exactly one script runs at a time.
type Sandbox struct {
	mu      sync.Mutex
	L       *lua.LState
	logger  logging.Logger
	limiter *core.Limiter
	bound   map[string]boundTool
	output  strings.Builder
	answer  lua.LValue
	calls   []ToolCall
	closed  bool
}

// New creates a sandbox with a fresh Lua state.
func New(optFns ...func(o *Options)) *Sandbox {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs:  true,
		CallStackSize: opts.CallStackSize,
	})
	openLibs(L)

	return &Sandbox{
		L:       L,
		logger:  logging.OrNoOp(opts.Logger),
		limiter: core.NewLimiter(opts.MaxToolCalls),
		bound:   make(map[string]boundTool),
		answer:  lua.LNil,
	}
}

// openLibs loads the safe subset of the standard library.
func openLibs(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Execute runs script against the persistent state with tools bound.
//
// Script failures are reported as a Result of KindFailure, not as an error.
// The returned error is non-nil only for configuration problems (see
// ValidateTools), a closed sandbox, or when ctx is cancelled or expires
// before or during the run; in that case the context error is returned.
func (s *Sandbox) Execute(ctx context.Context, script string, tools tool.Set) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateTools(tools); err != nil {
		return nil, err
	}

	start := time.Now()
	s.bindTools(tools)
	s.bindControls()
	s.reset()

	L := s.L
	defer L.SetTop(0)

	fn, err := L.Load(strings.NewReader(script), chunkName)
	if err != nil {
		return s.failure(CompilationError, err, start), nil
	}

	L.SetContext(ctx)
	defer L.RemoveContext()

	L.Push(fn)
	err = L.PCall(0, lua.MultRet, nil)

	if ctxErr := ctx.Err(); ctxErr != nil {
		s.logger.Warn("sandbox.execute.cancelled", "error", ctxErr.Error())
		return nil, ctxErr
	}
	if err != nil {
		return s.failure(RuntimeError, err, start), nil
	}

	res := &Result{
		Kind:      KindContinuation,
		Output:    s.output.String(),
		ToolCalls: s.calls,
		Duration:  time.Since(start),
	}
	if s.answer != lua.LNil {
		res.Kind = KindFinalAnswer
		res.Value = FromLua(s.answer)
	}

	s.logger.Debug("sandbox.execute", "outcome", res.Kind.String(), "tool_calls", len(res.ToolCalls), "duration_ms", res.Duration.Milliseconds())
	return res, nil
}

// Global returns the current value of a Lua global, decoded.
func (s *Sandbox) Global(name string) core.Value {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return core.Nil{}
	}
	return FromLua(s.L.GetGlobal(name))
}

// Close releases the Lua state. Execute fails with ErrClosed afterwards.
func (s *Sandbox) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// bindControls (re)installs the reserved functions, overwriting anything a
// previous script assigned to those names.
func (s *Sandbox) bindControls() {
	s.L.SetGlobal(FnPrint, s.L.NewFunction(s.luaPrint))
	s.L.SetGlobal(FnThought, s.L.NewFunction(s.prefixed("[THOUGHT] ")))
	s.L.SetGlobal(FnObservation, s.L.NewFunction(s.prefixed("[OBSERVATION] ")))
	s.L.SetGlobal(FnFinalAnswer, s.L.NewFunction(s.luaFinalAnswer))
}

// reset clears per-call state: print buffer, final-answer slot, tool call
// records and the tool call budget.
func (s *Sandbox) reset() {
	s.output.Reset()
	s.answer = lua.LNil
	s.calls = nil
	s.limiter.Reset()
}

func (s *Sandbox) emit(text string) {
	s.output.WriteString(text)
	s.output.WriteByte('\n')
}

func (s *Sandbox) luaPrint(L *lua.LState) int {
	top := L.GetTop()
	parts := make([]string, 0, top)
	for i := 1; i <= top; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	s.emit(strings.Join(parts, "\t"))
	return 0
}

func (s *Sandbox) prefixed(prefix string) lua.LGFunction {
	return func(L *lua.LState) int {
		s.emit(prefix + L.ToStringMeta(L.Get(1)).String())
		return 0
	}
}

func (s *Sandbox) luaFinalAnswer(L *lua.LState) int {
	v := L.Get(1)
	s.answer = v
	L.Push(v)
	return 1
}

func (s *Sandbox) failure(kind FailureKind, err error, start time.Time) *Result {
	scriptErr := &ScriptError{Kind: kind, Message: errorMessage(err), Err: err}
	scriptErr.Line = errorLine(scriptErr.Message)

	s.logger.Debug("sandbox.execute.failure", "kind", kind.String(), "error", scriptErr.Message)
	return &Result{
		Kind:      KindFailure,
		Output:    s.output.String(),
		Err:       scriptErr,
		ToolCalls: s.calls,
		Duration:  time.Since(start),
	}
}

// errorMessage strips the Go stack trace gopher-lua appends to API errors.
func errorMessage(err error) string {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) && apiErr.Object != nil {
		return strings.TrimSpace(apiErr.Object.String())
	}
	return strings.TrimSpace(err.Error())
}

var linePattern = regexp.MustCompile(`(?:` + chunkName + `:|line:)(\d+)`)

func errorLine(msg string) int {
	m := linePattern.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
