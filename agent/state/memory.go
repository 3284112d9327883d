package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore keeps quote states in process memory. Used for local runs
// without an Upstash instance and in tests. States are stored as JSON so a
// caller never observes aliasing with the saved copy.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (*QuoteState, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}

	m.mu.RLock()
	raw, ok := m.states[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrStateNotFound
	}

	var st QuoteState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("unmarshal quote state: %w", err)
	}
	st.EnsureProductsMap()
	return &st, nil
}

func (m *MemoryStore) Save(ctx context.Context, st *QuoteState) error {
	if st == nil {
		return ErrNilQuoteState
	}
	if strings.TrimSpace(st.SessionID) == "" {
		return ErrInvalidSession
	}

	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal quote state: %w", err)
	}

	m.mu.Lock()
	m.states[st.SessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	delete(m.states, sessionID)
	m.mu.Unlock()
	return nil
}
