package testutil

import (
	"context"
	"testing"

	"github.com/doomspork/luagents/core"
	"github.com/doomspork/luagents/tool"
	"github.com/stretchr/testify/require"
)

// ToolBuilder provides a fluent helper for constructing tools in tests.
// Example:
//
//	add := NewToolBuilder("add").Number("a").Number("b").
//		Returns(func(args tool.Args) core.Value { return core.Number(args.Number(0) + args.Number(1)) }).
//		Build()
//
// Without Returns or Func the tool returns nil.
type ToolBuilder struct {
	name        string
	description string
	params      []tool.Parameter
	fn          tool.Func
}

// NewToolBuilder creates a builder for a tool called name.
func NewToolBuilder(name string) *ToolBuilder {
	return &ToolBuilder{name: name, description: name}
}

// Describe sets the tool description (chainable).
func (b *ToolBuilder) Describe(d string) *ToolBuilder { b.description = d; return b }

// Param appends a required parameter accepting types (chainable).
func (b *ToolBuilder) Param(name string, types ...tool.TypeTag) *ToolBuilder {
	b.params = append(b.params, tool.Required(name, "", types...))
	return b
}

// Optional appends an optional parameter accepting types (chainable).
func (b *ToolBuilder) Optional(name string, types ...tool.TypeTag) *ToolBuilder {
	b.params = append(b.params, tool.Optional(name, "", types...))
	return b
}

// Number appends a required number parameter (chainable).
func (b *ToolBuilder) Number(name string) *ToolBuilder { return b.Param(name, tool.TypeNumber) }

// String appends a required string parameter (chainable).
func (b *ToolBuilder) String(name string) *ToolBuilder { return b.Param(name, tool.TypeString) }

// Table appends a required table parameter (chainable).
func (b *ToolBuilder) Table(name string) *ToolBuilder { return b.Param(name, tool.TypeTable) }

// Func sets the full tool implementation (chainable).
func (b *ToolBuilder) Func(fn tool.Func) *ToolBuilder { b.fn = fn; return b }

// Returns sets an implementation that cannot fail (chainable).
func (b *ToolBuilder) Returns(fn func(args tool.Args) core.Value) *ToolBuilder {
	b.fn = func(_ context.Context, args tool.Args) (core.Value, error) { return fn(args), nil }
	return b
}

// Fails sets an implementation that always returns err (chainable).
func (b *ToolBuilder) Fails(err error) *ToolBuilder {
	b.fn = func(context.Context, tool.Args) (core.Value, error) { return nil, err }
	return b
}

// Build finalizes and returns the tool.
func (b *ToolBuilder) Build() *tool.Tool {
	fn := b.fn
	if fn == nil {
		fn = func(context.Context, tool.Args) (core.Value, error) { return core.Nil{}, nil }
	}
	return tool.New(b.name, b.description, b.params, fn)
}

// AddTool returns add(a: number, b: number), the tool most tests need.
func AddTool() *tool.Tool {
	return NewToolBuilder("add").Describe("Add two numbers").Number("a").Number("b").
		Returns(func(args tool.Args) core.Value { return core.Number(args.Number(0) + args.Number(1)) }).
		Build()
}

// Set builds a tool set and fails the test on a naming conflict.
func Set(t testing.TB, tools ...*tool.Tool) tool.Set {
	t.Helper()
	set, err := tool.NewSet(tools...)
	require.NoError(t, err)
	return set
}

// Lua wraps script in a lua fenced code block the way models reply.
func Lua(script string) string { return "```lua\n" + script + "\n```" }
