package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fekuna/omnipos-register/internal/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the open register sessions of this process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	loader   catalog.Loader
	deps     Deps
}

func NewManager(loader catalog.Loader, deps Deps) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		loader:   loader,
		deps:     deps,
	}
}

// Open starts a new session bound to storeID with a freshly loaded catalog.
func (m *Manager) Open(ctx context.Context, storeID string) (*Session, error) {
	snap, err := m.loader.Snapshot(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	s := New(uuid.New().String(), snap, m.deps)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	if m.deps.Logger != nil {
		m.deps.Logger.Info("register session opened",
			zap.String("session_id", s.ID()),
			zap.String("store_id", storeID),
		)
	}
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SwitchStore rebinds session id to storeID, clearing the sale in progress.
func (m *Manager) SwitchStore(ctx context.Context, id, storeID string) (*Session, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	snap, err := m.loader.Snapshot(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if err := s.SwitchStore(snap); err != nil {
		return nil, err
	}
	return s, nil
}

// RefreshStore reloads the catalog of every session bound to storeID. One
// snapshot is shared by all of them.
func (m *Manager) RefreshStore(ctx context.Context, storeID string) error {
	var targets []*Session
	m.mu.RLock()
	for _, s := range m.sessions {
		if s.StoreID() == storeID {
			targets = append(targets, s)
		}
	}
	m.mu.RUnlock()

	if len(targets) == 0 {
		return nil
	}

	snap, err := m.loader.Snapshot(ctx, storeID)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	for _, s := range targets {
		s.SetCatalog(snap)
	}
	return nil
}
