package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RankingStore implements storage.RankingStore using PostgreSQL.
type RankingStore struct {
	pool *Pool
}

// NewRankingStore creates a new RankingStore.
func NewRankingStore(pool *Pool) *RankingStore {
	return &RankingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RankingStore = (*RankingStore)(nil)

// InsertBulk adds multiple snapshot entries atomically.
// Fails entire batch on duplicate (date, player_code).
func (s *RankingStore) InsertBulk(ctx context.Context, entries []*domain.RankingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO rankings (date, player_code, rank) VALUES ($1, $2, $3)`

	for _, e := range entries {
		_, err := tx.Exec(ctx, query, e.Date, e.PlayerCode, e.Rank)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert ranking entry in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByPlayer retrieves one player's entries, ordered by date ASC.
func (s *RankingStore) GetByPlayer(ctx context.Context, playerCode string) ([]*domain.RankingEntry, error) {
	query := `
		SELECT date, player_code, rank
		FROM rankings
		WHERE player_code = $1
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, playerCode)
	if err != nil {
		return nil, fmt.Errorf("get rankings by player: %w", err)
	}
	defer rows.Close()

	return scanRankingEntries(rows)
}

// GetAll retrieves every entry, ordered by (date, player_code).
func (s *RankingStore) GetAll(ctx context.Context) ([]*domain.RankingEntry, error) {
	query := `
		SELECT date, player_code, rank
		FROM rankings
		ORDER BY date ASC, player_code ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all rankings: %w", err)
	}
	defer rows.Close()

	return scanRankingEntries(rows)
}

// scanRankingEntries scans multiple rows into a slice of RankingEntry.
func scanRankingEntries(rows pgx.Rows) ([]*domain.RankingEntry, error) {
	var entries []*domain.RankingEntry

	for rows.Next() {
		var (
			e domain.RankingEntry
			d time.Time
		)
		if err := rows.Scan(&d, &e.PlayerCode, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		e.Date = d.UTC()
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking rows: %w", err)
	}

	return entries, nil
}
