// Package tool implements the host capabilities exposed to scripts. A Tool is
// an immutable record (name, description, parameters) plus a Go function that
// receives positional arguments already decoded into core values.
package tool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/doomspork/luagents/core"
)

// Error codes carried by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
	CodePanic      = "PANIC"
)

// TypeTag names a script value type a parameter accepts.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeNumber  TypeTag = "number"
	TypeBoolean TypeTag = "boolean"
	TypeTable   TypeTag = "table"
)

// Accepts reports whether v satisfies the tag. Nil satisfies no tag.
func (t TypeTag) Accepts(v core.Value) bool {
	switch core.Normalize(v).Kind() {
	case core.KindString:
		return t == TypeString
	case core.KindNumber:
		return t == TypeNumber
	case core.KindBool:
		return t == TypeBoolean
	case core.KindList, core.KindMap:
		return t == TypeTable
	default:
		return false
	}
}

// Parameter describes one positional argument of a tool. Types lists the
// accepted tags; more than one entry is a union and order only matters for
// documentation.
type Parameter struct {
	Name        string    `json:"name"`
	Types       []TypeTag `json:"types"`
	Description string    `json:"description,omitempty"`
	Required    bool      `json:"required"`
}

// Required builds a required parameter.
func Required(name, description string, types ...TypeTag) Parameter {
	return Parameter{Name: name, Types: types, Description: description, Required: true}
}

// Optional builds an optional parameter.
func Optional(name, description string, types ...TypeTag) Parameter {
	return Parameter{Name: name, Types: types, Description: description}
}

// TypeString renders the accepted types as "string|number". An empty list
// renders as "any".
func (p Parameter) TypeString() string {
	if len(p.Types) == 0 {
		return "any"
	}
	parts := make([]string, len(p.Types))
	for i, t := range p.Types {
		parts[i] = string(t)
	}
	return strings.Join(parts, "|")
}

// Accepts reports whether v satisfies any of the declared types.
func (p Parameter) Accepts(v core.Value) bool {
	if len(p.Types) == 0 {
		return true
	}
	for _, t := range p.Types {
		if t.Accepts(v) {
			return true
		}
	}
	return false
}

// Func is the host implementation behind a tool.
type Func func(ctx context.Context, args Args) (core.Value, error)

// Tool is a host function exposed to scripts under a stable name. A Tool is
// immutable after New and safe for concurrent use if its Func is.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
	fn          Func
}

// New constructs a Tool.
//
// Example:
//
//	add := tool.New("add", "Add two numbers",
//	  []tool.Parameter{
//	    tool.Required("a", "First addend", tool.TypeNumber),
//	    tool.Required("b", "Second addend", tool.TypeNumber),
//	  },
//	  func(_ context.Context, args tool.Args) (core.Value, error) {
//	    return core.Number(args.Number(0) + args.Number(1)), nil
//	  },
//	)
func New(name, description string, params []Parameter, fn Func) *Tool {
	return &Tool{
		Name:        name,
		Description: description,
		Parameters:  params,
		fn:          fn,
	}
}

// Signature renders the tool as a Lua call signature, e.g. "add(a: number, b?: number)".
func (t *Tool) Signature() string {
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		opt := ""
		if !p.Required {
			opt = "?"
		}
		parts[i] = fmt.Sprintf("%s%s: %s", p.Name, opt, p.TypeString())
	}
	return fmt.Sprintf("%s(%s)", t.Name, strings.Join(parts, ", "))
}

// Invoke validates args against the declared parameters and calls the
// underlying function. Failures are returned as *ToolError:
//
//	validation failure          -> Code VALIDATION_ERROR
//	*ToolError from the function -> forwarded unchanged
//	other error                 -> Code EXECUTION_ERROR
func (t *Tool) Invoke(ctx context.Context, args []core.Value) (core.Value, error) {
	if err := t.Validate(args); err != nil {
		return core.Nil{}, &ToolError{
			Tool:    t.Name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    CodeValidation,
			Err:     err,
		}
	}
	if t.fn == nil {
		return core.Nil{}, &ToolError{Tool: t.Name, Message: "tool has no implementation", Code: CodeExecution}
	}

	result, err := t.fn(ctx, Args(args))
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) {
			return core.Nil{}, toolErr
		}
		return core.Nil{}, &ToolError{Tool: t.Name, Message: err.Error(), Code: CodeExecution, Err: err}
	}
	return core.Normalize(result), nil
}

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Err     error  `json:"-"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *ToolError) Unwrap() error { return e.Err }

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Set is the capability set handed to an agent: tool name to tool.
type Set map[string]*Tool

// NewSet builds a Set, rejecting empty and duplicate names.
func NewSet(tools ...*Tool) (Set, error) {
	s := make(Set, len(tools))
	for _, t := range tools {
		if t == nil || t.Name == "" {
			return nil, errors.New("tool name must not be empty")
		}
		if _, dup := s[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		s[t.Name] = t
	}
	return s, nil
}

// Names returns the tool names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the tools ordered by name.
func (s Set) Sorted() []*Tool {
	out := make([]*Tool, 0, len(s))
	for _, name := range s.Names() {
		out = append(out, s[name])
	}
	return out
}
