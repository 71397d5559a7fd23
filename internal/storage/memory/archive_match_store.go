package memory

import (
	"context"
	"sort"
	"sync"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// ArchiveMatchStore is an in-memory implementation of storage.ArchiveMatchStore.
// The archive source carries no reliable unique key, so inserts append.
type ArchiveMatchStore struct {
	mu   sync.RWMutex
	data []*domain.ArchiveMatch
}

// NewArchiveMatchStore creates a new in-memory archive match store.
func NewArchiveMatchStore() *ArchiveMatchStore {
	return &ArchiveMatchStore{}
}

// InsertBulk adds multiple archive matches.
func (s *ArchiveMatchStore) InsertBulk(_ context.Context, matches []*domain.ArchiveMatch) error {
	if len(matches) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range matches {
		if m == nil || m.WinnerCode == "" || m.LoserCode == "" {
			return storage.ErrInvalidInput
		}
	}
	for _, m := range matches {
		copy := *m
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetAll retrieves every archive match, ordered by date ASC.
func (s *ArchiveMatchStore) GetAll(_ context.Context) ([]*domain.ArchiveMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ArchiveMatch, 0, len(s.data))
	for _, m := range s.data {
		copy := *m
		result = append(result, &copy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})

	return result, nil
}

var _ storage.ArchiveMatchStore = (*ArchiveMatchStore)(nil)
