package testutil

import (
	"context"
	"sync"

	"github.com/JPM1118/assetpick/internal/selection"
)

// MockSurface implements selection.Surface for testing. Tests fire platform
// events at the sink returned by Sink.
type MockSurface struct {
	mu           sync.Mutex
	sink         selection.Sink
	ShowErr      error
	ShowCalls    int
	DismissCalls int
	// OnShow, when set, runs synchronously inside Show.
	OnShow func(sink selection.Sink)
}

var _ selection.Surface = (*MockSurface)(nil)

func (m *MockSurface) Show(_ context.Context, sink selection.Sink) error {
	m.mu.Lock()
	m.ShowCalls++
	if m.ShowErr != nil {
		m.mu.Unlock()
		return m.ShowErr
	}
	m.sink = sink
	hook := m.OnShow
	m.mu.Unlock()

	if hook != nil {
		hook(sink)
	}
	return nil
}

// Dismiss records the call and drops the sink reference.
func (m *MockSurface) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DismissCalls++
	m.sink = nil
}

// Sink returns the sink passed to Show, or nil once dismissed.
func (m *MockSurface) Sink() selection.Sink {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sink
}

// GetShowCalls returns the number of Show calls in a thread-safe manner.
func (m *MockSurface) GetShowCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ShowCalls
}

// GetDismissCalls returns the number of Dismiss calls in a thread-safe manner.
func (m *MockSurface) GetDismissCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.DismissCalls
}
