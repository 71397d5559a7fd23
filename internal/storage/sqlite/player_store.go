package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/storage"
)

// PlayerStore implements storage.PlayerStore using SQLite.
type PlayerStore struct {
	db *DB
}

// NewPlayerStore creates a new PlayerStore.
func NewPlayerStore(db *DB) *PlayerStore {
	return &PlayerStore{db: db}
}

// Compile-time interface check.
var _ storage.PlayerStore = (*PlayerStore)(nil)

const insertPlayerQuery = `
	INSERT INTO players (code, hand, backhand, turned_pro, height_cm, weight_kg, country)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Insert adds a new player. Returns ErrDuplicateKey if the code exists.
func (s *PlayerStore) Insert(ctx context.Context, p *domain.Player) error {
	_, err := s.db.conn.ExecContext(ctx, insertPlayerQuery,
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

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range players {
		_, err := tx.ExecContext(ctx, insertPlayerQuery,
			p.Code, p.Hand, p.Backhand, p.TurnedPro, p.HeightCm, p.WeightKg, p.Country,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert player in bulk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetByCode retrieves a player by code. Returns ErrNotFound if not exists.
func (s *PlayerStore) GetByCode(ctx context.Context, code string) (*domain.Player, error) {
	query := `
		SELECT code, hand, backhand, turned_pro, height_cm, weight_kg, country
		FROM players WHERE code = ?
	`
	var p domain.Player
	err := s.db.conn.QueryRowContext(ctx, query, code).Scan(
		&p.Code, &p.Hand, &p.Backhand, &p.TurnedPro, &p.HeightCm, &p.WeightKg, &p.Country,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		FROM players ORDER BY code ASC
	`
	rows, err := s.db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all players: %w", err)
	}
	defer rows.Close()

	var players []*domain.Player
	for rows.Next() {
		var p domain.Player
		err := rows.Scan(&p.Code, &p.Hand, &p.Backhand, &p.TurnedPro, &p.HeightCm, &p.WeightKg, &p.Country)
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
