package store

import (
	"context"
	"sync"

	"github.com/velovis/velovis/auth"
)

// DefaultKey is the fixed key the session state is persisted under
const DefaultKey = "auth-storage"

// Store is a pluggable persistence layer for the session state.
// Load returns nil state when nothing has been persisted yet.
type Store interface {
	Load(ctx context.Context) (*auth.State, error)
	Save(ctx context.Context, state *auth.State) error
	Clear(ctx context.Context) error
}

type memoryStore struct {
	mu    sync.RWMutex
	state *auth.State
}

func (m *memoryStore) Load(ctx context.Context) (*auth.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, nil
	}
	ret := m.state.Clone()
	return &ret, nil
}

func (m *memoryStore) Save(ctx context.Context, state *auth.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := state.Clone()
	m.state = &cloned
	return nil
}

func (m *memoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = nil
	return nil
}

// NewMemoryStore creates an in-memory store, optionally seeded with a state
func NewMemoryStore(seed ...*auth.State) Store {
	ret := &memoryStore{}
	if len(seed) > 0 && seed[0] != nil {
		cloned := seed[0].Clone()
		ret.state = &cloned
	}
	return ret
}
