package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_AddPreservesOrder(t *testing.T) {
	m := New()
	m.AddUser("task")
	m.AddAssistant("script")
	m.AddSystem("output")

	msgs := m.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, []Role{RoleUser, RoleAssistant, RoleSystem},
		[]Role{msgs[0].Role, msgs[1].Role, msgs[2].Role})
	assert.Equal(t, "task", msgs[0].Content)
	assert.NotEmpty(t, msgs[0].ID)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)
}

func TestMemory_Timestamps(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	m := New()
	m.now = func() time.Time { return fixed }

	msg := m.AddUser("hi")
	assert.Equal(t, fixed, msg.Timestamp)
}

func TestMemory_MessagesIsACopy(t *testing.T) {
	m := New()
	m.AddUser("original")

	msgs := m.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "original", m.Messages()[0].Content)
}

func TestMemory_LastAndLen(t *testing.T) {
	m := New()
	_, ok := m.Last()
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())

	m.AddUser("a")
	m.AddSystem("b")

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "b", last.Content)
	assert.Equal(t, 2, m.Len())
}

func TestMemory_Recent(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.AddUser(fmt.Sprintf("m%d", i))
	}

	recent := m.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "m3", recent[0].Content)
	assert.Equal(t, "m4", recent[1].Content)

	assert.Len(t, m.Recent(10), 5)
	assert.Empty(t, m.Recent(0))
}

func TestMemory_Search(t *testing.T) {
	m := New()
	m.AddUser("Add 2 and 3")
	m.AddAssistant("print(add(2, 3))")
	m.AddSystem("RuntimeError: boom")

	assert.Len(t, m.Search("ADD", 0), 2)
	assert.Len(t, m.Search("add", 1), 1)
	assert.Len(t, m.Search("", 0), 3)
	assert.Empty(t, m.Search("missing", 0))
}

func TestMemory_Clear(t *testing.T) {
	m := New()
	m.AddUser("a")
	m.Clear()

	assert.Equal(t, 0, m.Len())
	assert.Empty(t, m.Messages())

	m.AddUser("b")
	assert.Equal(t, 1, m.Len())
}

func TestMemory_Format(t *testing.T) {
	m := New()
	assert.Equal(t, "", m.Format())

	m.AddUser("add 2 and 3")
	m.AddSystem("5")
	assert.Equal(t, "[user] add 2 and 3\n\n[system] 5", m.Format())
}

func TestMemory_ConcurrentAppend(t *testing.T) {
	m := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.AddSystem("x")
			_ = m.Messages()
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, m.Len())
}
