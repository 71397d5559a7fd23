package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RankingStore implements storage.RankingStore using SQLite.
type RankingStore struct {
	db *DB
}

// NewRankingStore creates a new RankingStore.
func NewRankingStore(db *DB) *RankingStore {
	return &RankingStore{db: db}
}

// Compile-time interface check.
var _ storage.RankingStore = (*RankingStore)(nil)

// InsertBulk adds multiple snapshot entries atomically.
// Fails entire batch on duplicate (date, player_code).
func (s *RankingStore) InsertBulk(ctx context.Context, entries []*domain.RankingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO rankings (date, player_code, rank) VALUES (?, ?, ?)`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, formatDay(e.Date), e.PlayerCode, e.Rank); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert ranking entry in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByPlayer retrieves one player's entries, ordered by date ASC.
func (s *RankingStore) GetByPlayer(ctx context.Context, playerCode string) ([]*domain.RankingEntry, error) {
	query := `
		SELECT date, player_code, rank FROM rankings
		WHERE player_code = ?
		ORDER BY date ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query, playerCode)
	if err != nil {
		return nil, fmt.Errorf("get rankings by player: %w", err)
	}
	defer rows.Close()

	return scanRankingEntries(rows)
}

// GetAll retrieves every entry, ordered by (date, player_code).
func (s *RankingStore) GetAll(ctx context.Context) ([]*domain.RankingEntry, error) {
	query := `
		SELECT date, player_code, rank FROM rankings
		ORDER BY date ASC, player_code ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all rankings: %w", err)
	}
	defer rows.Close()

	return scanRankingEntries(rows)
}

func scanRankingEntries(rows *sql.Rows) ([]*domain.RankingEntry, error) {
	var entries []*domain.RankingEntry

	for rows.Next() {
		var (
			e    domain.RankingEntry
			date string
		)
		if err := rows.Scan(&date, &e.PlayerCode, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan ranking row: %w", err)
		}
		var err error
		e.Date, err = parseDay(date)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ranking rows: %w", err)
	}
	return entries, nil
}
