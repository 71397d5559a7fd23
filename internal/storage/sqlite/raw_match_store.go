package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RawMatchStore implements storage.RawMatchStore using SQLite.
// Stat blocks round-trip through JSON text columns.
type RawMatchStore struct {
	db *DB
}

// NewRawMatchStore creates a new RawMatchStore.
func NewRawMatchStore(db *DB) *RawMatchStore {
	return &RawMatchStore{db: db}
}

// Compile-time interface check.
var _ storage.RawMatchStore = (*RawMatchStore)(nil)

// InsertBulk adds multiple raw matches atomically.
// Fails entire batch on duplicate (tournament_id, round_label, match_order).
func (s *RawMatchStore) InsertBulk(ctx context.Context, matches []*domain.RawMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO raw_matches (
			tournament_id, round_label, match_order, winner_code, loser_code,
			score, annotation, winner_stats, loser_stats, has_stats
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, m := range matches {
		winnerStats, err := json.Marshal(m.WinnerStats)
		if err != nil {
			return fmt.Errorf("marshal winner stats: %w", err)
		}
		loserStats, err := json.Marshal(m.LoserStats)
		if err != nil {
			return fmt.Errorf("marshal loser stats: %w", err)
		}

		_, err = tx.ExecContext(ctx, query,
			m.TournamentID, m.RoundLabel, m.MatchOrder, m.WinnerCode, m.LoserCode,
			m.Score, m.Annotation, string(winnerStats), string(loserStats), m.HasStats,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert raw match in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByTournamentID retrieves all raw matches for a tournament, ordered by match_order ASC.
func (s *RawMatchStore) GetByTournamentID(ctx context.Context, tournamentID string) ([]*domain.RawMatch, error) {
	query := `
		SELECT tournament_id, round_label, match_order, winner_code, loser_code,
		       score, annotation, winner_stats, loser_stats, has_stats
		FROM raw_matches
		WHERE tournament_id = ?
		ORDER BY round_label ASC, match_order ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("get raw matches by tournament id: %w", err)
	}
	defer rows.Close()

	return scanRawMatches(rows)
}

// GetAll retrieves every raw match.
func (s *RawMatchStore) GetAll(ctx context.Context) ([]*domain.RawMatch, error) {
	query := `
		SELECT tournament_id, round_label, match_order, winner_code, loser_code,
		       score, annotation, winner_stats, loser_stats, has_stats
		FROM raw_matches
		ORDER BY tournament_id ASC, round_label ASC, match_order ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all raw matches: %w", err)
	}
	defer rows.Close()

	return scanRawMatches(rows)
}

func scanRawMatches(rows *sql.Rows) ([]*domain.RawMatch, error) {
	var matches []*domain.RawMatch

	for rows.Next() {
		var (
			m                        domain.RawMatch
			winnerStats, loserStats  string
		)
		err := rows.Scan(
			&m.TournamentID, &m.RoundLabel, &m.MatchOrder, &m.WinnerCode, &m.LoserCode,
			&m.Score, &m.Annotation, &winnerStats, &loserStats, &m.HasStats,
		)
		if err != nil {
			return nil, fmt.Errorf("scan raw match row: %w", err)
		}
		if err := json.Unmarshal([]byte(winnerStats), &m.WinnerStats); err != nil {
			return nil, fmt.Errorf("unmarshal winner stats: %w", err)
		}
		if err := json.Unmarshal([]byte(loserStats), &m.LoserStats); err != nil {
			return nil, fmt.Errorf("unmarshal loser stats: %w", err)
		}
		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw match rows: %w", err)
	}
	return matches, nil
}
