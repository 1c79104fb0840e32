package storage

import (
	"context"
	"sync"
)

// Memory keeps bucket payloads in a map. Used for tests and throwaway runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Load(ctx context.Context, bucket string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payload, ok := m.data[bucket]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (m *Memory) Save(ctx context.Context, bucket string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[bucket] = append([]byte(nil), payload...)
	return nil
}

func (m *Memory) Close() error   { return nil }
func (m *Memory) Driver() string { return "memory" }
