package memory

import (
	"context"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// PlayerStore is an in-memory implementation of storage.PlayerStore.
type PlayerStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Player // keyed by player code
}

// NewPlayerStore creates a new in-memory player store.
func NewPlayerStore() *PlayerStore {
	return &PlayerStore{
		data: make(map[string]*domain.Player),
	}
}

// Insert adds a new player. Returns ErrDuplicateKey if exists.
func (s *PlayerStore) Insert(_ context.Context, p *domain.Player) error {
	if p == nil || p.Code == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[p.Code]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *p
	s.data[p.Code] = &copy
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(_ context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p == nil || p.Code == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[p.Code]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[p.Code]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[p.Code] = struct{}{}
	}

	for _, p := range players {
		copy := *p
		s.data[p.Code] = &copy
	}
	return nil
}

// GetByCode retrieves a player by code. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByCode(_ context.Context, code string) (*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.data[code]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *p
	return &copy, nil
}

// GetAll retrieves every player, ordered by code.
func (s *PlayerStore) GetAll(_ context.Context) ([]*domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Player, 0, len(s.data))
	for _, p := range s.data {
		copy := *p
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })

	return result, nil
}

var _ storage.PlayerStore = (*PlayerStore)(nil)
