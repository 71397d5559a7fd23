package memory

import (
	"context"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// TournamentStore is an in-memory implementation of storage.TournamentStore.
type TournamentStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Tournament // keyed by tournament ID
}

// NewTournamentStore creates a new in-memory tournament store.
func NewTournamentStore() *TournamentStore {
	return &TournamentStore{
		data: make(map[string]*domain.Tournament),
	}
}

// Insert adds a new tournament. Returns ErrDuplicateKey if exists.
func (s *TournamentStore) Insert(_ context.Context, t *domain.Tournament) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.ID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *t
	s.data[t.ID] = &copy
	return nil
}

// InsertBulk adds multiple tournaments atomically. Fails entire batch on any duplicate.
func (s *TournamentStore) InsertBulk(_ context.Context, tournaments []*domain.Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(tournaments))
	for _, t := range tournaments {
		if t == nil || t.ID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[t.ID]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[t.ID] = struct{}{}
	}

	for _, t := range tournaments {
		copy := *t
		s.data[t.ID] = &copy
	}
	return nil
}

// GetByID retrieves a tournament by ID. Returns ErrNotFound if not exists.
func (s *TournamentStore) GetByID(_ context.Context, id string) (*domain.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}
	copy := *t
	return &copy, nil
}

// GetAll retrieves every tournament, ordered by (start_date, name, id).
func (s *TournamentStore) GetAll(_ context.Context) ([]*domain.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Tournament, 0, len(s.data))
	for _, t := range s.data {
		copy := *t
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.Before(result[j].StartDate)
		}
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.TournamentStore = (*TournamentStore)(nil)
