package sandbox

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/doomspork/luagents/core"
	"github.com/doomspork/luagents/logging"
	"github.com/doomspork/luagents/tool"
	lua "github.com/yuin/gopher-lua"
)

// Reserved control function names. Tools may not use them.
const (
	FnPrint       = "print"
	FnThought     = "thought"
	FnObservation = "observation"
	FnFinalAnswer = "final_answer"
)

var reservedNames = map[string]bool{
	FnPrint:       true,
	FnThought:     true,
	FnObservation: true,
	FnFinalAnswer: true,
}

var luaKeywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsReserved reports whether name is one of the control functions.
func IsReserved(name string) bool { return reservedNames[name] }

// ValidateTools checks that every tool can be bound: its name must be a Lua
// identifier and must not shadow a control function.
func ValidateTools(tools tool.Set) error {
	for _, name := range tools.Names() {
		if IsReserved(name) {
			return fmt.Errorf("%w: %q", ErrReservedName, name)
		}
		if !identPattern.MatchString(name) || luaKeywords[name] {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		if t := tools[name]; t == nil || t.Name != name {
			return fmt.Errorf("%w: tool registered as %q has a different name", ErrConfiguration, name)
		}
	}
	return nil
}

// ToolCall records one tool invocation made by a script.
type ToolCall struct {
	Tool     string
	Args     []core.Value
	Result   core.Value
	Err      error
	Duration time.Duration
}

type boundTool struct {
	tool *tool.Tool
	fn   *lua.LFunction
}

// bindTools installs the tool set as Lua globals. Bridge functions are
// cached per tool so binding the same set again reinstalls identical
// function values; tools dropped from the set are unbound.
func (s *Sandbox) bindTools(tools tool.Set) {
	for name, b := range s.bound {
		if t, ok := tools[name]; !ok || t != b.tool {
			s.L.SetGlobal(name, lua.LNil)
			delete(s.bound, name)
		}
	}
	for name, t := range tools {
		b, ok := s.bound[name]
		if !ok {
			b = boundTool{tool: t, fn: s.L.NewFunction(s.bridge(t))}
			s.bound[name] = b
		}
		s.L.SetGlobal(name, b.fn)
	}
}

// bridge wraps a tool as a Lua function. Arguments are decoded positionally;
// the result is encoded back, and any failure yields nil to the script.
func (s *Sandbox) bridge(t *tool.Tool) lua.LGFunction {
	return func(L *lua.LState) int {
		top := L.GetTop()
		args := make([]core.Value, top)
		for i := 1; i <= top; i++ {
			args[i-1] = FromLua(L.Get(i))
		}

		if err := s.limiter.Increment(); err != nil {
			L.RaiseError("%s: %v", t.Name, err)
			return 0
		}

		ctx := L.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		result := s.invoke(ctx, t, args)
		L.Push(ToLua(L, result))
		return 1
	}
}

// invoke calls the tool, containing returned errors and panics.
func (s *Sandbox) invoke(ctx context.Context, t *tool.Tool, args []core.Value) (result core.Value) {
	start := time.Now()
	var err error

	defer func() {
		if r := recover(); r != nil {
			err = &tool.ToolError{Tool: t.Name, Message: fmt.Sprint(r), Code: tool.CodePanic}
			s.logger.Error("tool.call.panic", "tool", t.Name, "panic", fmt.Sprint(r))
		}
		if err != nil {
			result = core.Nil{}
		}
		dur := time.Since(start)
		logging.LogToolCall(s.logger, t.Name, dur, err)
		s.calls = append(s.calls, ToolCall{
			Tool:     t.Name,
			Args:     args,
			Result:   result,
			Err:      err,
			Duration: dur,
		})
	}()

	s.logger.Debug("tool.call.start", "tool", t.Name, "args", len(args))
	result, err = t.Invoke(ctx, args)
	return result
}
