package storage

import (
	"fmt"
	"sync"
)

// MemorySubstrate keeps items in process memory, enumerating keys in insertion
// order. A positive quota caps the summed byte length of keys and values.
type MemorySubstrate struct {
	mu    sync.Mutex
	order []string
	items map[string]string
	quota int
}

func NewMemorySubstrate(quotaBytes int) *MemorySubstrate {
	return &MemorySubstrate{
		items: map[string]string{},
		quota: quotaBytes,
	}
}

func (m *MemorySubstrate) GetItem(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemorySubstrate) SetItem(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := m.sizeLocked()
		if old, ok := m.items[key]; ok {
			size -= len(key) + len(old)
		}
		size += len(key) + len(value)
		if size > m.quota {
			return fmt.Errorf("set %q (%d of %d bytes): %w", key, size, m.quota, ErrQuotaExceeded)
		}
	}

	if _, ok := m.items[key]; !ok {
		m.order = append(m.order, key)
	}
	m.items[key] = value
	return nil
}

func (m *MemorySubstrate) RemoveItem(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[key]; !ok {
		return nil
	}
	delete(m.items, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemorySubstrate) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string{}, m.order...), nil
}

// Size reports the bytes currently counted against the quota.
func (m *MemorySubstrate) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sizeLocked()
}

func (m *MemorySubstrate) sizeLocked() int {
	total := 0
	for k, v := range m.items {
		total += len(k) + len(v)
	}
	return total
}
