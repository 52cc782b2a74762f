package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/doomspork/luagents/core"
)

// Role tags the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in the conversation log. Messages are values; the log
// never hands out references to its internal storage.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Memory is an ordered, append-only message log safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

// New creates an empty log.
func New() *Memory {
	return &Memory{now: time.Now}
}

// Add appends a message with the given role and returns it.
func (m *Memory) Add(role Role, content string) Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg := Message{
		ID:        core.NewID(),
		Role:      role,
		Content:   content,
		Timestamp: m.now(),
	}
	m.messages = append(m.messages, msg)
	return msg
}

// AddUser appends a user message.
func (m *Memory) AddUser(content string) Message { return m.Add(RoleUser, content) }

// AddAssistant appends an assistant message.
func (m *Memory) AddAssistant(content string) Message { return m.Add(RoleAssistant, content) }

// AddSystem appends a system message.
func (m *Memory) AddSystem(content string) Message { return m.Add(RoleSystem, content) }

// Messages returns a copy of the log in insertion order.
func (m *Memory) Messages() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}

// Len returns the number of messages.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}

// Last returns the most recent message, if any.
func (m *Memory) Last() (Message, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.messages) == 0 {
		return Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

// Recent returns up to n of the newest messages, oldest first.
func (m *Memory) Recent(n int) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if n <= 0 {
		return []Message{}
	}
	start := len(m.messages) - n
	if start < 0 {
		start = 0
	}
	out := make([]Message, len(m.messages)-start)
	copy(out, m.messages[start:])
	return out
}

// Search performs a case-insensitive substring match over message content and
// returns up to limit hits in insertion order. A limit <= 0 returns all hits;
// an empty query matches every message.
func (m *Memory) Search(query string, limit int) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	out := make([]Message, 0)
	for _, msg := range m.messages {
		if limit > 0 && len(out) >= limit {
			break
		}
		if q == "" || strings.Contains(strings.ToLower(msg.Content), q) {
			out = append(out, msg)
		}
	}
	return out
}

// Clear truncates the log.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = nil
}

// Format renders the log as plain text, one "[role] content" block per
// message separated by blank lines.
func (m *Memory) Format() string {
	msgs := m.Messages()

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "[%s] %s", msg.Role, msg.Content)
	}
	return b.String()
}
