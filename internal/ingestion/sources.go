package ingestion

import (
	"context"

	"atp-panel-lab/internal/domain"
)

// TournamentSource provides tournament metadata from external sources.
type TournamentSource interface {
	// Fetch returns all tournaments. Records may be unordered;
	// Manager enforces deterministic ordering.
	Fetch(ctx context.Context) ([]*domain.Tournament, error)
}

// MatchSource provides raw modern-era match records from external sources.
type MatchSource interface {
	// Fetch returns all raw matches. Records may be unordered;
	// Manager enforces deterministic ordering.
	Fetch(ctx context.Context) ([]*domain.RawMatch, error)
}

// ArchiveSource provides pre-1999 seed results from external sources.
type ArchiveSource interface {
	Fetch(ctx context.Context) ([]*domain.ArchiveMatch, error)
}

// RankingSource provides dated ranking snapshot entries from external sources.
type RankingSource interface {
	Fetch(ctx context.Context) ([]*domain.RankingEntry, error)
}

// PlayerSource provides static player master attributes from external sources.
type PlayerSource interface {
	Fetch(ctx context.Context) ([]*domain.Player, error)
}
