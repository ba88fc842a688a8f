// internal/storage/trade/memory.go
package trade

import (
	"context"
	"sync"

	"github.com/newthinker/pms/internal/core"
)

// MemoryStore is an in-memory trade store.
type MemoryStore struct {
	records []core.TradeRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make([]core.TradeRecord, 0)}
}

// List returns a copy of all records.
func (m *MemoryStore) List(ctx context.Context) ([]core.TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.TradeRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Get retrieves a record by ID.
func (m *MemoryStore) Get(ctx context.Context, id string) (*core.TradeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.index(id); i >= 0 {
		rec := m.records[i]
		return &rec, nil
	}
	return nil, notFound(id)
}

// Insert appends a record.
func (m *MemoryStore) Insert(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.ID = NewID()
	rec.CreatedAt = now()
	rec.UpdatedAt = rec.CreatedAt
	m.records = append(m.records, rec)
	return &rec, nil
}

// InsertAll appends every record under a single lock.
func (m *MemoryStore) InsertAll(ctx context.Context, recs []core.TradeRecord) ([]core.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := make([]core.TradeRecord, 0, len(recs))
	for _, rec := range recs {
		rec.ID = NewID()
		rec.CreatedAt = now()
		rec.UpdatedAt = rec.CreatedAt
		saved = append(saved, rec)
	}
	m.records = append(m.records, saved...)
	return saved, nil
}

// Update replaces a record in place.
func (m *MemoryStore) Update(ctx context.Context, rec core.TradeRecord) (*core.TradeRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(rec.ID)
	if i < 0 {
		return nil, notFound(rec.ID)
	}
	rec.CreatedAt = m.records[i].CreatedAt
	rec.UpdatedAt = now()
	m.records[i] = rec
	return &rec, nil
}

// Delete removes a record, preserving the order of the rest.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 {
		return notFound(id)
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) index(id string) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}
