package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays canned replies in order and records every request.
// Once the queue is empty it calls Handler if set, otherwise it returns
// ErrProviderUnavailable.
type MockProvider struct {
	// Handler answers requests after the queue runs dry.
	Handler func(Request) (json.RawMessage, error)

	mu        sync.Mutex
	responses []MockResponse
	calls     []Request
}

// NewMockProvider queues responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	var next *MockResponse
	if len(m.responses) > 0 {
		next = &m.responses[0]
		m.responses = m.responses[1:]
	}
	handler := m.Handler
	m.mu.Unlock()

	switch {
	case next != nil:
		if next.Err != nil {
			return nil, next.Err
		}
		return finish(req, &Response{Content: next.Content, Usage: next.Usage, Model: Mock, StopReason: StopEnd})
	case handler != nil:
		content, err := handler(req)
		if err != nil {
			return nil, err
		}
		return finish(req, &Response{Content: content, Model: Mock, StopReason: StopEnd})
	default:
		return nil, &ErrProviderUnavailable{}
	}
}

func (m *MockProvider) ModelID() string { return Mock }

// Enqueue appends canned replies.
func (m *MockProvider) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, responses...)
}

// Calls returns a copy of the requests seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
