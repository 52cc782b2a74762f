package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/doomspork/luagents/memory"
	"github.com/doomspork/luagents/tool"
)

// RenderFunc builds the prompt for the next generation from the current tool
// set and conversation log.
type RenderFunc func(tools tool.Set, mem *memory.Memory) (string, error)

// DefaultTemplate is the prompt used by Render.
const DefaultTemplate = `You solve tasks by writing Lua scripts. Reply with exactly one script inside a
` + "```lua" + ` fenced code block. Scripts run one after another in the same Lua
environment: globals you assign remain available to later scripts, locals do not.

Control functions:
- print(...): write text you want to read on the next turn
- thought(msg): record your reasoning
- observation(msg): record something you learned
- final_answer(value): finish the task with value
{{if .Tools}}
Tools (a tool that fails returns nil):
{{range .Tools}}- {{.Signature}}{{if .Description}}: {{.Description}}{{end}}
{{end}}
Tool schemas:
{{.ToolsJSON}}
{{else}}
No tools are available.
{{end}}
Conversation:
{{range .Messages}}
[{{.Role}}]
{{.Content}}
{{end}}
Write the next Lua script.`

// Data is the value a prompt template executes against.
type Data struct {
	Tools     []ToolView
	ToolsJSON string
	Messages  []memory.Message
}

// ToolView is the template-facing description of one tool.
type ToolView struct {
	Name        string
	Description string
	Signature   string
	Parameters  []tool.Parameter
}

// Template is a parsed prompt template.
type Template struct {
	tmpl *template.Template
}

// New parses text as a prompt template. The template executes against Data
// and may use the helpers default, upper, lower, title, join and json.
func New(text string) (*Template, error) {
	tmpl, err := template.New("prompt").Funcs(template.FuncMap{
		"default": func(defaultVal any, val any) any {
			if val == nil || val == "" {
				return defaultVal
			}
			return val
		},
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"title": func(s string) string {
			if len(s) == 0 {
				return s
			}
			return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
		},
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
		"json": func(v any) (string, error) {
			raw, err := json.Marshal(v)
			return string(raw), err
		},
	}).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustNew is like New but panics on a parse error. Intended for package-level
// templates.
func MustNew(text string) *Template {
	t, err := New(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the template for tools and mem. A nil mem renders an empty
// history.
func (t *Template) Render(tools tool.Set, mem *memory.Memory) (string, error) {
	data, err := NewData(tools, mem)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// RenderFunc adapts the template to a RenderFunc.
func (t *Template) RenderFunc() RenderFunc { return t.Render }

var defaultTemplate = MustNew(DefaultTemplate)

// Render renders the default prompt.
func Render(tools tool.Set, mem *memory.Memory) (string, error) {
	return defaultTemplate.Render(tools, mem)
}

// NewData collects the template data for tools and mem.
func NewData(tools tool.Set, mem *memory.Memory) (Data, error) {
	sorted := tools.Sorted()

	views := make([]ToolView, 0, len(sorted))
	schemas := make([]map[string]any, 0, len(sorted))
	for _, t := range sorted {
		views = append(views, ToolView{
			Name:        t.Name,
			Description: t.Description,
			Signature:   t.Signature(),
			Parameters:  t.Parameters,
		})
		schemas = append(schemas, t.Schema())
	}

	data := Data{Tools: views}
	if len(schemas) > 0 {
		raw, err := json.MarshalIndent(schemas, "", "  ")
		if err != nil {
			return Data{}, fmt.Errorf("encode tool schemas: %w", err)
		}
		data.ToolsJSON = string(raw)
	}
	if mem != nil {
		data.Messages = mem.Messages()
	}
	return data, nil
}

// System returns the instructions sent alongside every prompt.
func System(agentName string) string {
	if agentName == "" {
		return "You are an agent that completes tasks by writing Lua scripts."
	}
	return fmt.Sprintf("You are %s, an agent that completes tasks by writing Lua scripts.", agentName)
}
