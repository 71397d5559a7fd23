// Package main ingests CSV source files into the staging database:
// tournaments, raw matches, the pre-1999 archive, ranking snapshots,
// and player attributes. Datasets whose flag is left empty are skipped.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"atp-panel-lab/internal/ingestion"
	"atp-panel-lab/internal/storage"
	"atp-panel-lab/internal/storage/memory"
	"atp-panel-lab/internal/storage/migrations"
	pgstore "atp-panel-lab/internal/storage/postgres"
	sqlitestore "atp-panel-lab/internal/storage/sqlite"
)

func main() {
	tournamentsPath := flag.String("tournaments", "", "Tournaments CSV path")
	matchesPath := flag.String("matches", "", "Raw matches CSV path")
	archivePath := flag.String("archive", "", "Pre-1999 archive CSV path")
	rankingsDir := flag.String("rankings-dir", "", "Directory of dated ranking snapshot CSVs (YYYY-MM-DD.csv)")
	playersPath := flag.String("players", "", "Players CSV path")

	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string for staging")
	sqlitePath := flag.String("sqlite-path", "", "SQLite file path for staging (single-file alternative)")
	dryRun := flag.Bool("dry-run", false, "Parse and validate sources against in-memory storage, persist nothing")

	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	log := logrus.New()
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig.String()).Info("shutting down")
		cancel()
	}()

	stores, cleanup, err := openStaging(ctx, *postgresDSN, *sqlitePath, *dryRun, log)
	if err != nil {
		log.WithError(err).Fatal("open staging storage")
	}
	defer cleanup()

	opts := ingestion.ManagerOptions{
		TournamentStore: stores.tournaments,
		MatchStore:      stores.matches,
		ArchiveStore:    stores.archive,
		RankingStore:    stores.rankings,
		PlayerStore:     stores.players,
	}
	if *tournamentsPath != "" {
		opts.TournamentSource = ingestion.NewCSVTournamentSource(*tournamentsPath, log)
	}
	if *matchesPath != "" {
		opts.MatchSource = ingestion.NewCSVMatchSource(*matchesPath, log)
	}
	if *archivePath != "" {
		opts.ArchiveSource = ingestion.NewCSVArchiveSource(*archivePath, log)
	}
	if *rankingsDir != "" {
		opts.RankingSource = ingestion.NewCSVRankingSource(*rankingsDir, log)
	}
	if *playersPath != "" {
		opts.PlayerSource = ingestion.NewCSVPlayerSource(*playersPath, log)
	}

	manager := ingestion.NewManager(opts)

	datasets := []struct {
		name string
		run  func(context.Context) (int, error)
	}{
		{"tournaments", manager.IngestTournaments},
		{"matches", manager.IngestMatches},
		{"archive", manager.IngestArchive},
		{"rankings", manager.IngestRankings},
		{"players", manager.IngestPlayers},
	}

	total := 0
	for _, d := range datasets {
		count, err := d.run(ctx)
		if err != nil {
			log.WithError(err).WithField("dataset", d.name).Fatal("ingestion failed")
		}
		if count > 0 {
			log.WithFields(logrus.Fields{"dataset": d.name, "records": count}).Info("dataset ingested")
		}
		total += count
	}

	log.WithFields(logrus.Fields{"records": total, "dry_run": *dryRun}).Info("ingestion complete")
}

// stagingStores groups the five staging stores behind their interfaces.
type stagingStores struct {
	tournaments storage.TournamentStore
	matches     storage.RawMatchStore
	archive     storage.ArchiveMatchStore
	rankings    storage.RankingStore
	players     storage.PlayerStore
}

// openStaging connects the selected staging backend. Exactly one of
// postgres, sqlite, or dry-run must be chosen.
func openStaging(ctx context.Context, postgresDSN, sqlitePath string, dryRun bool, log *logrus.Logger) (*stagingStores, func(), error) {
	switch {
	case dryRun:
		return &stagingStores{
			tournaments: memory.NewTournamentStore(),
			matches:     memory.NewRawMatchStore(),
			archive:     memory.NewArchiveMatchStore(),
			rankings:    memory.NewRankingStore(),
			players:     memory.NewPlayerStore(),
		}, func() {}, nil

	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return &stagingStores{
			tournaments: pgstore.NewTournamentStore(pool),
			matches:     pgstore.NewRawMatchStore(pool),
			archive:     pgstore.NewArchiveMatchStore(pool),
			rankings:    pgstore.NewRankingStore(pool),
			players:     pgstore.NewPlayerStore(pool),
		}, pool.Close, nil

	case sqlitePath != "":
		db, err := sqlitestore.Open(sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		return &stagingStores{
			tournaments: sqlitestore.NewTournamentStore(db),
			matches:     sqlitestore.NewRawMatchStore(db),
			archive:     sqlitestore.NewArchiveMatchStore(db),
			rankings:    sqlitestore.NewRankingStore(db),
			players:     sqlitestore.NewPlayerStore(db),
		}, func() {
			if err := db.Close(); err != nil {
				log.WithError(err).Warn("close sqlite")
			}
		}, nil

	default:
		log.Fatal("one of --postgres-dsn, --sqlite-path, or --dry-run is required")
		return nil, nil, nil
	}
}
