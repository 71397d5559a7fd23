package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// RawMatchStore implements storage.RawMatchStore using PostgreSQL.
// Stat blocks are stored as JSONB; the counts never participate in SQL
// predicates, only the identifying columns do.
type RawMatchStore struct {
	pool *Pool
}

// NewRawMatchStore creates a new RawMatchStore.
func NewRawMatchStore(pool *Pool) *RawMatchStore {
	return &RawMatchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RawMatchStore = (*RawMatchStore)(nil)

const insertRawMatchQuery = `
	INSERT INTO raw_matches (
		tournament_id, round_label, match_order, winner_code, loser_code,
		score, annotation, winner_stats, loser_stats, has_stats
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// InsertBulk adds multiple raw matches atomically.
// Fails entire batch on duplicate (tournament_id, round_label, match_order).
func (s *RawMatchStore) InsertBulk(ctx context.Context, matches []*domain.RawMatch) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, m := range matches {
		_, err := tx.Exec(ctx, insertRawMatchQuery,
			m.TournamentID,
			m.RoundLabel,
			m.MatchOrder,
			m.WinnerCode,
			m.LoserCode,
			m.Score,
			m.Annotation,
			m.WinnerStats,
			m.LoserStats,
			m.HasStats,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert raw match in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
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
		WHERE tournament_id = $1
		ORDER BY round_label ASC, match_order ASC
	`

	rows, err := s.pool.Query(ctx, query, tournamentID)
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

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all raw matches: %w", err)
	}
	defer rows.Close()

	return scanRawMatches(rows)
}

// scanRawMatches scans multiple rows into a slice of RawMatch.
func scanRawMatches(rows pgx.Rows) ([]*domain.RawMatch, error) {
	var matches []*domain.RawMatch

	for rows.Next() {
		var m domain.RawMatch

		err := rows.Scan(
			&m.TournamentID,
			&m.RoundLabel,
			&m.MatchOrder,
			&m.WinnerCode,
			&m.LoserCode,
			&m.Score,
			&m.Annotation,
			&m.WinnerStats,
			&m.LoserStats,
			&m.HasStats,
		)
		if err != nil {
			return nil, fmt.Errorf("scan raw match row: %w", err)
		}

		matches = append(matches, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw match rows: %w", err)
	}

	return matches, nil
}
