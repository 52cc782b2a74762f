package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// streamOnly emits partial chunks and never a final response.
type streamOnly struct{ chunks []string }

func (s streamOnly) Generate(context.Context, Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, len(s.chunks))
	errCh := make(chan error)
	for _, c := range s.chunks {
		respCh <- Response{Partial: true, Text: c}
	}
	close(respCh)
	close(errCh)
	return respCh, errCh
}

func (streamOnly) Info() Info { return Info{Name: "stream", Provider: "test"} }

func TestMockModel_RepliesInOrder(t *testing.T) {
	m := NewMockModel("first", "second")
	ctx := context.Background()

	text, err := GenerateText(ctx, m, Request{Prompt: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	text, err = GenerateText(ctx, m, Request{Prompt: "p2"})
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	_, err = GenerateText(ctx, m, Request{Prompt: "p3"})
	assert.ErrorIs(t, err, ErrMockExhausted)

	assert.Equal(t, 3, m.Calls())
	assert.Equal(t, 0, m.Remaining())
	assert.Equal(t, "p2", m.Requests()[1].Prompt)
}

func TestMockModel_ScriptedError(t *testing.T) {
	boom := errors.New("rate limited")
	m := NewMockModel().AddError(boom).AddResponse("ok")

	_, err := GenerateText(context.Background(), m, Request{})
	assert.ErrorIs(t, err, boom)

	text, err := GenerateText(context.Background(), m, Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("héllo")

	respCh, errCh := m.Generate(context.Background(), Request{Prompt: "go", Stream: true})

	var partials []string
	var final Response
	for r := range respCh {
		if r.Partial {
			partials = append(partials, r.Text)
			continue
		}
		final = r
	}
	require.NoError(t, <-errCh)

	assert.Equal(t, []string{"h", "é", "l", "l", "o"}, partials)
	assert.Equal(t, "héllo", final.Text)
	assert.Equal(t, "stop", final.FinishReason)
	require.NotNil(t, final.Usage)
	assert.Equal(t, 2, final.Usage.TotalTokens)
}

func TestCollect_PartialOnly(t *testing.T) {
	resp, err := Collect(context.Background(), streamOnly{chunks: []string{"a", "b"}}, Request{})
	require.NoError(t, err)
	assert.Equal(t, "ab", resp.Text)
}

func TestCollect_NoResponse(t *testing.T) {
	_, err := Collect(context.Background(), streamOnly{}, Request{})
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestCollect_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Collect(ctx, NewMockModel("x"), Request{Stream: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockModel_Info(t *testing.T) {
	assert.Equal(t, Info{Name: "mock", Provider: "mock"}, NewMockModel().Info())
}
