package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RankingStore is an in-memory implementation of storage.RankingStore.
type RankingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RankingEntry // keyed by composite key
}

// NewRankingStore creates a new in-memory ranking store.
func NewRankingStore() *RankingStore {
	return &RankingStore{
		data: make(map[string]*domain.RankingEntry),
	}
}

// rankingKey generates a unique key for a snapshot entry.
func rankingKey(e *domain.RankingEntry) string {
	return fmt.Sprintf("%s|%s", e.Date.Format("2006-01-02"), e.PlayerCode)
}

// InsertBulk adds multiple snapshot entries atomically. Fails entire batch on any duplicate.
func (s *RankingStore) InsertBulk(_ context.Context, entries []*domain.RankingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e == nil || e.PlayerCode == "" || e.Rank < 1 {
			return storage.ErrInvalidInput
		}
		key := rankingKey(e)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, e := range entries {
		copy := *e
		s.data[rankingKey(e)] = &copy
	}
	return nil
}

// GetByPlayer retrieves one player's entries, ordered by date ASC.
func (s *RankingStore) GetByPlayer(_ context.Context, playerCode string) ([]*domain.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.RankingEntry
	for _, e := range s.data {
		if e.PlayerCode == playerCode {
			copy := *e
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

// GetAll retrieves every entry, ordered by (date, player_code).
func (s *RankingStore) GetAll(_ context.Context) ([]*domain.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RankingEntry, 0, len(s.data))
	for _, e := range s.data {
		copy := *e
		result = append(result, &copy)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].PlayerCode < result[j].PlayerCode
	})

	return result, nil
}

var _ storage.RankingStore = (*RankingStore)(nil)
