package prompt

import (
	"regexp"
	"strings"
)

var (
	luaFence     = regexp.MustCompile("(?is)```[ \\t]*lua[ \\t]*\\r?\\n(.*?)```")
	genericFence = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n(.*?)```")
)

// ExtractScript returns the Lua fragment in a model reply: the first ```lua
// block, else the first fenced block of any language, else the whole reply.
// The result is trimmed of surrounding whitespace.
func ExtractScript(reply string) string {
	if m := luaFence.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := genericFence.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(reply)
}
