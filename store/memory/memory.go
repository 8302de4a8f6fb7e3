// Package memory provides an in-memory store.Store for testing and dev.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/recognition-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	users     map[string]store.User // by id
	emails    map[string]string     // email -> id
	summaries map[string]store.SummaryRecord
}

func New() *Memory {
	return &Memory{
		users:     make(map[string]store.User),
		emails:    make(map[string]string),
		summaries: make(map[string]store.SummaryRecord),
	}
}

func (m *Memory) CreateUser(_ context.Context, u store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emails[u.Email]; exists {
		return store.ErrDuplicateEmail
	}
	m.users[u.ID] = u
	m.emails[u.Email] = u.ID
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*store.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	m.mu.RLock()
	id, ok := m.emails[email]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return m.GetUser(ctx, id)
}

func (m *Memory) SaveSummary(_ context.Context, ownerID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Replace-on-write: a map assignment already has those semantics.
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.summaries[ownerID] = store.SummaryRecord{
		OwnerID:   ownerID,
		Payload:   buf,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (m *Memory) GetSummary(_ context.Context, ownerID string) (*store.SummaryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.summaries[ownerID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (m *Memory) DeleteSummary(_ context.Context, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.summaries, ownerID)
	return nil
}

func (m *Memory) ListOwners(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owners := make([]string, 0, len(m.summaries))
	for id := range m.summaries {
		owners = append(owners, id)
	}
	sort.Strings(owners)
	return owners, nil
}
