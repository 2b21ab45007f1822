package session

import (
	"context"
	"sync"
	"time"
)

// MemoryRegistry keeps sessions in process memory. Records are lost on restart.
type MemoryRegistry struct {
	mu    sync.RWMutex
	items map[string]Record
	now   func() time.Time
}

var _ Registry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		items: make(map[string]Record),
		now:   time.Now,
	}
}

func (m *MemoryRegistry) Put(_ context.Context, sessionID string, rec Record) error {
	rec = prepare(sessionID, rec, m.now)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[sessionID] = rec
	return nil
}

func (m *MemoryRegistry) Get(_ context.Context, sessionID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.items[sessionID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *MemoryRegistry) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, sessionID)
	return nil
}

func (m *MemoryRegistry) FindByField(_ context.Context, field, value string) ([]Record, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for _, rec := range m.items {
		if rec.field(field) == value {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Len returns the number of stored sessions.
func (m *MemoryRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
