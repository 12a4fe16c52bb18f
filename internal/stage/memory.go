package stage

import (
	"context"
	"sync"
)

// MemoryBackend keeps values in process memory. Used by tests and when no
// database path is configured.
type MemoryBackend struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{vals: make(map[string]string)}
}

func (m *MemoryBackend) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *MemoryBackend) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = value
	return nil
}
