package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// FeatureRowStore is an in-memory implementation of storage.FeatureRowStore.
type FeatureRowStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeatureRow // keyed by composite key
}

// NewFeatureRowStore creates a new in-memory feature row store.
func NewFeatureRowStore() *FeatureRowStore {
	return &FeatureRowStore{
		data: make(map[string]*domain.FeatureRow),
	}
}

// featureRowKey generates a unique key for a feature row.
func featureRowKey(matchID, playerCode string) string {
	return fmt.Sprintf("%s|%s", matchID, playerCode)
}

// InsertBulk adds multiple rows atomically. Fails entire batch on any duplicate.
func (s *FeatureRowStore) InsertBulk(_ context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.MatchID == "" || r.PlayerCode == "" {
			return storage.ErrInvalidInput
		}
		key := featureRowKey(r.MatchID, r.PlayerCode)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		copy := *r
		s.data[featureRowKey(r.MatchID, r.PlayerCode)] = &copy
	}
	return nil
}

// GetByPlayer retrieves one player's rows, ordered by tournament start ASC.
func (s *FeatureRowStore) GetByPlayer(_ context.Context, playerCode string) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.PlayerCode == playerCode {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TournamentStart != result[j].TournamentStart {
			return result[i].TournamentStart < result[j].TournamentStart
		}
		return result[i].MatchID < result[j].MatchID
	})

	return result, nil
}

// GetByMatchID retrieves the rows of one match.
func (s *FeatureRowStore) GetByMatchID(_ context.Context, matchID string) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.MatchID == matchID {
			copy := *r
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].PlayerCode < result[j].PlayerCode })

	return result, nil
}

// GetAll retrieves every row, ordered by (player_code, tournament start, match_id).
func (s *FeatureRowStore) GetAll(_ context.Context) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.FeatureRow, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].PlayerCode != result[j].PlayerCode {
			return result[i].PlayerCode < result[j].PlayerCode
		}
		if result[i].TournamentStart != result[j].TournamentStart {
			return result[i].TournamentStart < result[j].TournamentStart
		}
		return result[i].MatchID < result[j].MatchID
	})

	return result, nil
}

// Count returns the number of stored rows.
func (s *FeatureRowStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

var _ storage.FeatureRowStore = (*FeatureRowStore)(nil)
