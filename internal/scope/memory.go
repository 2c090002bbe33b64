package scope

import (
	"context"
	"sync"
)

// Memory keeps scopes in process memory.
type Memory struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{scopes: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.scopes[scope][key]
	return val, ok, nil
}

func (m *Memory) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.scopes[scope]
	if !ok {
		values = make(map[string]string)
		m.scopes[scope] = values
	}
	values[key] = value
	return nil
}

func (m *Memory) Delete(_ context.Context, scope string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values := m.scopes[scope]
	for _, k := range keys {
		delete(values, k)
	}
	if len(values) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *Memory) Drop(_ context.Context, scope string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes, scope)
	return nil
}

// Len reports how many keys a scope holds.
func (m *Memory) Len(scope string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.scopes[scope])
}
