package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doomspork/luagents/core"
	"github.com/doomspork/luagents/tool"
)

var errDivideByZero = errors.New("division by zero")

// demoTools returns the tool set the CLI hands to every agent.
func demoTools() []*tool.Tool {
	return []*tool.Tool{
		arithmetic("add", "Add two numbers", func(a, b float64) (float64, error) { return a + b, nil }),
		arithmetic("subtract", "Subtract b from a", func(a, b float64) (float64, error) { return a - b, nil }),
		arithmetic("multiply", "Multiply two numbers", func(a, b float64) (float64, error) { return a * b, nil }),
		arithmetic("divide", "Divide a by b", func(a, b float64) (float64, error) {
			if b == 0 {
				return 0, errDivideByZero
			}
			return a / b, nil
		}),
		tool.New("upper", "Convert text to upper case",
			[]tool.Parameter{tool.Required("text", "Text to convert", tool.TypeString)},
			func(_ context.Context, args tool.Args) (core.Value, error) {
				return core.String(strings.ToUpper(args.String(0))), nil
			}),
		tool.New("now", "Current UTC time in RFC 3339 format", nil,
			func(context.Context, tool.Args) (core.Value, error) {
				return core.String(now().UTC().Format(time.RFC3339)), nil
			}),
	}
}

// now is swapped in tests.
var now = time.Now

func arithmetic(name, description string, op func(a, b float64) (float64, error)) *tool.Tool {
	return tool.New(name, description,
		[]tool.Parameter{
			tool.Required("a", "First operand", tool.TypeNumber),
			tool.Required("b", "Second operand", tool.TypeNumber),
		},
		func(_ context.Context, args tool.Args) (core.Value, error) {
			n, err := op(args.Number(0), args.Number(1))
			if err != nil {
				return nil, err
			}
			return core.Number(n), nil
		})
}
