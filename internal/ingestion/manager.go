package ingestion

import (
	"context"

	"atp-panel-lab/internal/storage"
)

// Manager orchestrates ingestion from sources to staging storage.
// It enforces deterministic ordering and uses the storage layer for
// duplicate rejection.
type Manager struct {
	tournamentSource TournamentSource
	matchSource      MatchSource
	archiveSource    ArchiveSource
	rankingSource    RankingSource
	playerSource     PlayerSource

	tournamentStore storage.TournamentStore
	matchStore      storage.RawMatchStore
	archiveStore    storage.ArchiveMatchStore
	rankingStore    storage.RankingStore
	playerStore     storage.PlayerStore
}

// ManagerOptions contains configuration for creating a Manager.
type ManagerOptions struct {
	TournamentSource TournamentSource
	MatchSource      MatchSource
	ArchiveSource    ArchiveSource
	RankingSource    RankingSource
	PlayerSource     PlayerSource

	TournamentStore storage.TournamentStore
	MatchStore      storage.RawMatchStore
	ArchiveStore    storage.ArchiveMatchStore
	RankingStore    storage.RankingStore
	PlayerStore     storage.PlayerStore
}

// NewManager creates a new ingestion manager with the provided sources and stores.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		tournamentSource: opts.TournamentSource,
		matchSource:      opts.MatchSource,
		archiveSource:    opts.ArchiveSource,
		rankingSource:    opts.RankingSource,
		playerSource:     opts.PlayerSource,
		tournamentStore:  opts.TournamentStore,
		matchStore:       opts.MatchStore,
		archiveStore:     opts.ArchiveStore,
		rankingStore:     opts.RankingStore,
		playerStore:      opts.PlayerStore,
	}
}

// IngestTournaments fetches tournaments from source and stores them in
// canonical order. Returns count of ingested tournaments.
// Duplicates are rejected by the storage layer (ErrDuplicateKey).
func (m *Manager) IngestTournaments(ctx context.Context) (int, error) {
	if m.tournamentSource == nil || m.tournamentStore == nil {
		return 0, nil
	}

	tournaments, err := m.tournamentSource.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if len(tournaments) == 0 {
		return 0, nil
	}

	SortTournaments(tournaments)

	if err := m.tournamentStore.InsertBulk(ctx, tournaments); err != nil {
		return 0, err
	}
	return len(tournaments), nil
}

// IngestMatches fetches raw matches from source and stores them.
// Enforces deterministic ordering by (tournament_id, round_label, match_order).
func (m *Manager) IngestMatches(ctx context.Context) (int, error) {
	if m.matchSource == nil || m.matchStore == nil {
		return 0, nil
	}

	matches, err := m.matchSource.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	SortRawMatches(matches)

	if err := m.matchStore.InsertBulk(ctx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// IngestArchive fetches pre-1999 seed results from source and stores them
// ordered by date. The archive store is append-only and never deduplicates.
func (m *Manager) IngestArchive(ctx context.Context) (int, error) {
	if m.archiveSource == nil || m.archiveStore == nil {
		return 0, nil
	}

	matches, err := m.archiveSource.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}

	SortArchiveMatches(matches)

	if err := m.archiveStore.InsertBulk(ctx, matches); err != nil {
		return 0, err
	}
	return len(matches), nil
}

// IngestRankings fetches snapshot entries from source and stores them
// ordered by (date, player_code).
func (m *Manager) IngestRankings(ctx context.Context) (int, error) {
	if m.rankingSource == nil || m.rankingStore == nil {
		return 0, nil
	}

	entries, err := m.rankingSource.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}

	SortRankingEntries(entries)

	if err := m.rankingStore.InsertBulk(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// IngestPlayers fetches player attributes from source and stores them
// ordered by code.
func (m *Manager) IngestPlayers(ctx context.Context) (int, error) {
	if m.playerSource == nil || m.playerStore == nil {
		return 0, nil
	}

	players, err := m.playerSource.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if len(players) == 0 {
		return 0, nil
	}

	SortPlayers(players)

	if err := m.playerStore.InsertBulk(ctx, players); err != nil {
		return 0, err
	}
	return len(players), nil
}
