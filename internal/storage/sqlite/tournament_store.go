package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// TournamentStore implements storage.TournamentStore using SQLite.
type TournamentStore struct {
	db *DB
}

// NewTournamentStore creates a new TournamentStore.
func NewTournamentStore(db *DB) *TournamentStore {
	return &TournamentStore{db: db}
}

// Compile-time interface check.
var _ storage.TournamentStore = (*TournamentStore)(nil)

const insertTournamentQuery = `
	INSERT INTO tournaments (id, name, start_date, surface, indoor, country, category, prize_usd)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

// Insert adds a new tournament. Returns ErrDuplicateKey if the id exists.
func (s *TournamentStore) Insert(ctx context.Context, t *domain.Tournament) error {
	_, err := s.db.conn.ExecContext(ctx, insertTournamentQuery,
		t.ID, t.Name, formatDay(t.StartDate), string(t.Surface), t.Indoor, t.Country, t.Category, t.PrizeUSD,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert tournament: %w", err)
	}
	return nil
}

// InsertBulk adds multiple tournaments atomically. Fails entire batch on any duplicate.
func (s *TournamentStore) InsertBulk(ctx context.Context, tournaments []*domain.Tournament) error {
	if len(tournaments) == 0 {
		return nil
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tournaments {
		_, err := tx.ExecContext(ctx, insertTournamentQuery,
			t.ID, t.Name, formatDay(t.StartDate), string(t.Surface), t.Indoor, t.Country, t.Category, t.PrizeUSD,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert tournament in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByID retrieves a tournament by ID. Returns ErrNotFound if not exists.
func (s *TournamentStore) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	query := `
		SELECT id, name, start_date, surface, indoor, country, category, prize_usd
		FROM tournaments WHERE id = ?
	`
	t, err := scanTournament(s.db.conn.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get tournament by id: %w", err)
	}
	return t, nil
}

// GetAll retrieves every tournament, ordered by (start_date, name, id).
func (s *TournamentStore) GetAll(ctx context.Context) ([]*domain.Tournament, error) {
	query := `
		SELECT id, name, start_date, surface, indoor, country, category, prize_usd
		FROM tournaments
		ORDER BY start_date ASC, name ASC, id ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all tournaments: %w", err)
	}
	defer rows.Close()

	var tournaments []*domain.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tournament rows: %w", err)
	}
	return tournaments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTournament(row rowScanner) (*domain.Tournament, error) {
	var (
		t       domain.Tournament
		surface string
		start   string
	)
	err := row.Scan(&t.ID, &t.Name, &start, &surface, &t.Indoor, &t.Country, &t.Category, &t.PrizeUSD)
	if err != nil {
		return nil, err
	}
	t.StartDate, err = parseDay(start)
	if err != nil {
		return nil, err
	}
	t.Surface = domain.Surface(surface)
	return &t, nil
}
