package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// PlayerStore implements storage.PlayerStore using PostgreSQL.
type PlayerStore struct {
	pool *Pool
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(pool *Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

const insertPlayerQuery = `
	INSERT INTO players (
		code, hand, backhand, turned_pro, height_cm, weight_kg, country
	) VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// Insert adds a new player. Returns ErrDuplicateKey if the code exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.Player) error {
	_, err := s.pool.Exec(ctx, insertPlayerQuery,
		p.Code, p.Hand, p.Backhand, p.TurnedPro, p.HeightCm, p.WeightKg, p.Country,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
func (s *PlayerStore) InsertBulk(ctx context.Context, players []*domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, p := range players {
		_, err := tx.Exec(ctx, insertPlayerQuery,
			p.Code, p.Hand, p.Backhand, p.TurnedPro, p.HeightCm, p.WeightKg, p.Country,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByCode retrieves a player by code. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByCode(ctx context.Context, code string) (*domain.Player, error) {
	query := `
		SELECT code, hand, backhand, turned_pro, height_cm, weight_kg, country
		FROM players
		WHERE code = $1
	`

	var p domain.Player
	err := s.pool.QueryRow(ctx, query, code).Scan(
		&p.Code, &p.Hand, &p.Backhand, &p.TurnedPro, &p.HeightCm, &p.WeightKg, &p.Country,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get player by code: %w", err)
	}
	return &p, nil
}

// GetAll retrieves every player, ordered by code.
func (s *PlayerStore) GetAll(ctx context.Context) ([]*domain.Player, error) {
	query := `
		SELECT code, hand, backhand, turned_pro, height_cm, weight_kg, country
		FROM players
		ORDER BY code ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all players: %w", err)
	}
	defer rows.Close()

	return scanPlayers(rows)
}

// scanPlayers scans multiple rows into a slice of Player.
func scanPlayers(rows pgx.Rows) ([]*domain.Player, error) {
	var players []*domain.Player

	for rows.Next() {
		var p domain.Player
		err := rows.Scan(
			&p.Code, &p.Hand, &p.Backhand, &p.TurnedPro, &p.HeightCm, &p.WeightKg, &p.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("scan player row: %w", err)
		}
		players = append(players, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate player rows: %w", err)
	}

	return players, nil
}
