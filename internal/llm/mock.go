package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// MockResponse is one scripted reply. Err, when set, is returned as is.
type MockResponse struct {
	Content    json.RawMessage
	Usage      Usage
	StopReason StopReason
	Err        error
}

var errScriptExhausted = errors.New("mock script exhausted")

// MockProvider replays scripted replies in order and records every
// request. It is the "mock" provider and the test double for callers.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

// Generate pops the next scripted reply. A cancelled context or an
// empty script yields *ErrProviderUnavailable.
func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if err := ctx.Err(); err != nil {
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{Err: errScriptExhausted}
	}

	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	stop := next.StopReason
	if stop == "" {
		stop = StopEnd
	}
	return finish(string(next.Content), stop, "mock", next.Usage)
}

func (m *MockProvider) ModelID() string { return "mock" }

// Push appends replies to the script.
func (m *MockProvider) Push(rs ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, rs...)
}

// Calls returns a copy of the recorded requests.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// Remaining reports how many scripted replies are left.
func (m *MockProvider) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script)
}
