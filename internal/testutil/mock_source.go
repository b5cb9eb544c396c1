package testutil

import (
	"context"
	"sync"

	"github.com/JPM1118/assetpick/internal/media"
)

// MockSource implements media.Source for testing.
type MockSource struct {
	mu        sync.Mutex
	Images    []*media.Image
	ScanErr   error
	Root      string
	ScanCalls int
}

func (m *MockSource) Scan(_ context.Context) ([]*media.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ScanCalls++
	return m.Images, m.ScanErr
}

func (m *MockSource) Dir() string {
	if m.Root == "" {
		return "/pictures"
	}
	return m.Root
}

// SetImages updates the scan result in a thread-safe manner.
func (m *MockSource) SetImages(images []*media.Image) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Images = images
}

// GetScanCalls returns the number of Scan calls in a thread-safe manner.
func (m *MockSource) GetScanCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ScanCalls
}
