package model

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrNoResponse is returned by Collect when a model closes its channels
// without producing any text.
var ErrNoResponse = errors.New("model produced no response")

// ErrMockExhausted is returned by MockModel once every scripted reply has been
// consumed.
var ErrMockExhausted = errors.New("mock model: no scripted responses left")

// Request is the provider-neutral input for one generation.
type Request struct {
	Instructions string `json:"instructions,omitempty"` // System prompt
	Prompt       string `json:"prompt"`                 // Rendered user turn
	Stream       bool   `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model. Partial chunks
// carry a text delta; the final chunk carries the complete text.
type Response struct {
	ID           string      `json:"id,omitempty"`
	Partial      bool        `json:"partial"`
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"` // "stop", "length", ...
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "ollama", "mock", ...
}

// Model is the interface the agent loop drives generation through.
//
// Generate emits zero or more partial responses followed by one final
// response on the first channel, or a single error on the second. Both
// channels are closed when generation ends.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)

	// Info returns information about the model implementation.
	Info() Info
}

// Collect drains a generation into its final response. If the model only
// streamed partial chunks, their concatenation is returned. Any error sent by
// the model, or ctx ending first, is returned as is.
func Collect(ctx context.Context, m Model, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	respCh, errCh := m.Generate(ctx, req)

	var (
		final   *Response
		partial strings.Builder
	)
	for respCh != nil || errCh != nil {
		select {
		case <-ctx.Done():
			return Response{}, ctx.Err()
		case r, ok := <-respCh:
			if !ok {
				respCh = nil
				continue
			}
			if r.Partial {
				partial.WriteString(r.Text)
				continue
			}
			final = &r
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if err != nil {
				return Response{}, err
			}
		}
	}

	if final != nil {
		return *final, nil
	}
	if partial.Len() > 0 {
		return Response{Text: partial.String(), FinishReason: "stop"}, nil
	}
	return Response{}, ErrNoResponse
}

// GenerateText runs one generation and returns only its text.
func GenerateText(ctx context.Context, m Model, req Request) (string, error) {
	resp, err := Collect(ctx, m, req)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Compile-time assertion.
var _ Model = (*MockModel)(nil)

type mockReply struct {
	text string
	err  error
}

// MockModel replays scripted replies in order. It is safe for concurrent use
// and records every request it receives.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	replies  []mockReply
	requests []Request
}

// NewMockModel returns a mock that answers with responses in order.
func NewMockModel(responses ...string) *MockModel {
	m := &MockModel{info: Info{Name: "mock", Provider: "mock"}}
	for _, r := range responses {
		m.AddResponse(r)
	}
	return m
}

// AddResponse queues a text reply.
func (m *MockModel) AddResponse(text string) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, mockReply{text: text})
	return m
}

// AddError queues a failing reply.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, mockReply{err: err})
	return m
}

// Requests returns the requests received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many times Generate was called.
func (m *MockModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Remaining returns how many scripted replies are left.
func (m *MockModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

func (m *MockModel) next(req Request) (mockReply, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if len(m.replies) == 0 {
		return mockReply{}, false
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r, true
}

// Generate implements Model; with req.Stream set it emits one partial chunk
// per rune before the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		reply, ok := m.next(req)
		switch {
		case !ok:
			errCh <- ErrMockExhausted
			return
		case reply.err != nil:
			errCh <- reply.err
			return
		}

		if req.Stream {
			for s := reply.text; s != ""; {
				r, size := utf8.DecodeRuneInString(s)
				s = s[size:]
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Text: string(r)}:
				}
			}
		}

		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- Response{
			Text:         reply.text,
			FinishReason: "stop",
			Usage: &TokenUsage{
				PromptTokens:     len(strings.Fields(req.Prompt)),
				CompletionTokens: len(strings.Fields(reply.text)),
				TotalTokens:      len(strings.Fields(req.Prompt)) + len(strings.Fields(reply.text)),
			},
		}:
		}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
