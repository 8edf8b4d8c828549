package usecase

import (
	"sync"

	"feedback_bot/internal/pkg/state/repository"
)

// MemoryStorage — хранилище в памяти за мьютексом. Используется в
// тестах и при локальных запусках без Postgres.
type MemoryStorage struct {
	values map[string][]byte
	mu     sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string][]byte),
	}
}

var _ repository.Storage = (*MemoryStorage)(nil)

func (m *MemoryStorage) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.values[key]
	if !exists {
		return nil, nil
	}
	return value, nil
}

func (m *MemoryStorage) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
