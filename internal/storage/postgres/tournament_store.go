package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// TournamentStore implements storage.TournamentStore using PostgreSQL.
type TournamentStore struct {
	pool *Pool
}

// NewTournamentStore creates a new TournamentStore.
func NewTournamentStore(pool *Pool) *TournamentStore {
	return &TournamentStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TournamentStore = (*TournamentStore)(nil)

const insertTournamentQuery = `
	INSERT INTO tournaments (
		id, name, start_date, surface, indoor, country, category, prize_usd
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// Insert adds a new tournament. Returns ErrDuplicateKey if the id exists.
func (s *TournamentStore) Insert(ctx context.Context, t *domain.Tournament) error {
	_, err := s.pool.Exec(ctx, insertTournamentQuery,
		t.ID,
		t.Name,
		t.StartDate,
		string(t.Surface),
		t.Indoor,
		t.Country,
		t.Category,
		t.PrizeUSD,
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

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range tournaments {
		_, err := tx.Exec(ctx, insertTournamentQuery,
			t.ID,
			t.Name,
			t.StartDate,
			string(t.Surface),
			t.Indoor,
			t.Country,
			t.Category,
			t.PrizeUSD,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert tournament in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a tournament by ID. Returns ErrNotFound if not exists.
func (s *TournamentStore) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	query := `
		SELECT id, name, start_date, surface, indoor, country, category, prize_usd
		FROM tournaments
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	t, err := scanTournament(row)
	if err != nil {
		if isNotFoundError(err) {
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

	rows, err := s.pool.Query(ctx, query)
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

// scanTournament scans one row into a Tournament.
func scanTournament(row pgx.Row) (*domain.Tournament, error) {
	var (
		t       domain.Tournament
		surface string
		start   time.Time
	)
	err := row.Scan(
		&t.ID,
		&t.Name,
		&start,
		&surface,
		&t.Indoor,
		&t.Country,
		&t.Category,
		&t.PrizeUSD,
	)
	if err != nil {
		return nil, err
	}
	t.StartDate = start.UTC()
	t.Surface = domain.Surface(surface)
	return &t, nil
}
