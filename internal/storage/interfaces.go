package storage

import (
	"context"

	"atp-panel-lab/internal/domain"
)

// TournamentStore provides access to tournaments storage.
type TournamentStore interface {
	// Insert adds a new tournament. Returns ErrDuplicateKey if the id exists.
	Insert(ctx context.Context, t *domain.Tournament) error

	// InsertBulk adds multiple tournaments atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, tournaments []*domain.Tournament) error

	// GetByID retrieves a tournament by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Tournament, error)

	// GetAll retrieves every tournament, ordered by (start_date, name, id).
	GetAll(ctx context.Context) ([]*domain.Tournament, error)
}

// RawMatchStore provides access to raw_matches staging storage.
type RawMatchStore interface {
	// InsertBulk adds multiple raw matches atomically.
	// Fails entire batch on duplicate (tournament_id, round_label, match_order).
	InsertBulk(ctx context.Context, matches []*domain.RawMatch) error

	// GetByTournamentID retrieves all raw matches for a tournament, ordered by match_order ASC.
	GetByTournamentID(ctx context.Context, tournamentID string) ([]*domain.RawMatch, error)

	// GetAll retrieves every raw match.
	GetAll(ctx context.Context) ([]*domain.RawMatch, error)
}

// ArchiveMatchStore provides access to the pre-1999 archive storage.
type ArchiveMatchStore interface {
	// InsertBulk adds multiple archive matches. Duplicates are structural
	// in the source data, so the batch is not deduplicated here.
	InsertBulk(ctx context.Context, matches []*domain.ArchiveMatch) error

	// GetAll retrieves every archive match, ordered by date ASC.
	GetAll(ctx context.Context) ([]*domain.ArchiveMatch, error)
}

// RankingStore provides access to dated ranking snapshots.
type RankingStore interface {
	// InsertBulk adds multiple snapshot entries atomically.
	// Fails entire batch on duplicate (date, player_code).
	InsertBulk(ctx context.Context, entries []*domain.RankingEntry) error

	// GetByPlayer retrieves one player's entries, ordered by date ASC.
	GetByPlayer(ctx context.Context, playerCode string) ([]*domain.RankingEntry, error)

	// GetAll retrieves every entry, ordered by (date, player_code).
	GetAll(ctx context.Context) ([]*domain.RankingEntry, error)
}

// PlayerStore provides access to player reference data.
type PlayerStore interface {
	// Insert adds a new player. Returns ErrDuplicateKey if the code exists.
	Insert(ctx context.Context, p *domain.Player) error

	// InsertBulk adds multiple players atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, players []*domain.Player) error

	// GetByCode retrieves a player by code. Returns ErrNotFound if not exists.
	GetByCode(ctx context.Context, code string) (*domain.Player, error)

	// GetAll retrieves every player, ordered by code.
	GetAll(ctx context.Context) ([]*domain.Player, error)
}

// FeatureRowStore provides access to the enriched feature_rows output.
type FeatureRowStore interface {
	// InsertBulk adds multiple rows. Fails entire batch on duplicate (match_id, player_code).
	InsertBulk(ctx context.Context, rows []*domain.FeatureRow) error

	// GetByPlayer retrieves one player's rows, ordered by tournament start ASC.
	GetByPlayer(ctx context.Context, playerCode string) ([]*domain.FeatureRow, error)

	// GetByMatchID retrieves the (at most two) rows of one match.
	GetByMatchID(ctx context.Context, matchID string) ([]*domain.FeatureRow, error)

	// GetAll retrieves every row, ordered by (player_code, tournament start, match_id).
	GetAll(ctx context.Context) ([]*domain.FeatureRow, error)

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)
}
