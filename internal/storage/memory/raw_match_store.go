package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RawMatchStore is an in-memory implementation of storage.RawMatchStore.
type RawMatchStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RawMatch // keyed by composite key
}

// NewRawMatchStore creates a new in-memory raw match store.
func NewRawMatchStore() *RawMatchStore {
	return &RawMatchStore{
		data: make(map[string]*domain.RawMatch),
	}
}

// rawMatchKey generates a unique key for a raw match.
func rawMatchKey(tournamentID, roundLabel string, matchOrder int) string {
	return fmt.Sprintf("%s|%s|%d", tournamentID, roundLabel, matchOrder)
}

// InsertBulk adds multiple raw matches atomically. Fails entire batch on any duplicate.
func (s *RawMatchStore) InsertBulk(_ context.Context, matches []*domain.RawMatch) error {
	if len(matches) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if m == nil || m.TournamentID == "" {
			return storage.ErrInvalidInput
		}
		key := rawMatchKey(m.TournamentID, m.RoundLabel, m.MatchOrder)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, m := range matches {
		copy := *m
		s.data[rawMatchKey(m.TournamentID, m.RoundLabel, m.MatchOrder)] = &copy
	}
	return nil
}

// GetByTournamentID retrieves all raw matches for a tournament, ordered by match_order ASC.
func (s *RawMatchStore) GetByTournamentID(_ context.Context, tournamentID string) ([]*domain.RawMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RawMatch
	for _, m := range s.data {
		if m.TournamentID == tournamentID {
			copy := *m
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RoundLabel != result[j].RoundLabel {
			return result[i].RoundLabel < result[j].RoundLabel
		}
		return result[i].MatchOrder < result[j].MatchOrder
	})

	return result, nil
}

// GetAll retrieves every raw match.
func (s *RawMatchStore) GetAll(_ context.Context) ([]*domain.RawMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RawMatch, 0, len(s.data))
	for _, m := range s.data {
		copy := *m
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TournamentID != result[j].TournamentID {
			return result[i].TournamentID < result[j].TournamentID
		}
		if result[i].RoundLabel != result[j].RoundLabel {
			return result[i].RoundLabel < result[j].RoundLabel
		}
		return result[i].MatchOrder < result[j].MatchOrder
	})

	return result, nil
}

var _ storage.RawMatchStore = (*RawMatchStore)(nil)
