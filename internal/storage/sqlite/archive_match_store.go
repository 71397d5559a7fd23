package sqlite

import (
	"context"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// ArchiveMatchStore implements storage.ArchiveMatchStore using SQLite.
type ArchiveMatchStore struct {
	db *DB
}

// NewArchiveMatchStore creates a new ArchiveMatchStore.
func NewArchiveMatchStore(db *DB) *ArchiveMatchStore {
	return &ArchiveMatchStore{db: db}
}

// Compile-time interface check.
var _ storage.ArchiveMatchStore = (*ArchiveMatchStore)(nil)

// InsertBulk adds multiple archive matches atomically.
func (s *ArchiveMatchStore) InsertBulk(ctx context.Context, matches []*domain.ArchiveMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO archive_matches (
			date, tournament_id, tournament_name, surface, country, round_code, winner_code, loser_code
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, m := range matches {
		_, err := tx.ExecContext(ctx, query,
			formatDay(m.Date), m.TournamentID, m.TournamentName, string(m.Surface),
			m.Country, m.RoundCode, m.WinnerCode, m.LoserCode,
		)
		if err != nil {
			return fmt.Errorf("insert archive match in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves every archive match, ordered by date ASC.
func (s *ArchiveMatchStore) GetAll(ctx context.Context) ([]*domain.ArchiveMatch, error) {
	query := `
		SELECT date, tournament_id, tournament_name, surface, country, round_code, winner_code, loser_code
		FROM archive_matches
		ORDER BY date ASC, id ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all archive matches: %w", err)
	}
	defer rows.Close()

	var matches []*domain.ArchiveMatch
	for rows.Next() {
		var (
			m             domain.ArchiveMatch
			date, surface string
		)
		err := rows.Scan(&date, &m.TournamentID, &m.TournamentName, &surface,
			&m.Country, &m.RoundCode, &m.WinnerCode, &m.LoserCode)
		if err != nil {
			return nil, fmt.Errorf("scan archive match row: %w", err)
		}
		m.Date, err = parseDay(date)
		if err != nil {
			return nil, err
		}
		m.Surface = domain.Surface(surface)
		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archive match rows: %w", err)
	}
	return matches, nil
}
