// Package main renders a run report over the exported feature rows:
// console tables always, plus optional markdown and player-summary CSV
// files. QA checks are re-run over the loaded panel so the report
// reflects what is actually in the sink.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"atp-panel-lab/internal/enrichment"
	"atp-panel-lab/internal/qa"
	"atp-panel-lab/internal/reporting"
	chstore "atp-panel-lab/internal/storage/clickhouse"
	"atp-panel-lab/internal/storage/migrations"
	pgstore "atp-panel-lab/internal/storage/postgres"
	sqlitestore "atp-panel-lab/internal/storage/sqlite"
)

func main() {
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string holding the feature rows (required)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL staging connection, used for the archive count")
	sqlitePath := flag.String("sqlite-path", "", "SQLite staging path, used for the archive count")

	markdownPath := flag.String("markdown", "", "Write the report as markdown to this path")
	csvPath := flag.String("csv", "", "Write the player summaries as CSV to this path")

	minRows := flag.Int("min-rows", 1000, "Sufficiency gate: minimum panel rows")
	minRankCoverage := flag.Float64("min-rank-coverage", 0.80, "Sufficiency gate: minimum ranked-row share")
	flag.Parse()

	log := logrus.New()

	if *clickhouseDSN == "" {
		log.Fatal("--clickhouse-dsn is required")
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

	conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
	if err != nil {
		log.WithError(err).Fatal("connect clickhouse")
	}
	defer conn.Close()

	rows, err := chstore.NewFeatureRowStore(conn).GetAll(ctx)
	if err != nil {
		log.WithError(err).Fatal("load feature rows")
	}
	if len(rows) == 0 {
		log.Fatal("no feature rows in the sink, run the pipeline first")
	}

	archiveCount, err := loadArchiveCount(ctx, *postgresDSN, *sqlitePath)
	if err != nil {
		log.WithError(err).Fatal("load archive count")
	}

	cfg := enrichment.DefaultConfig()
	columns := make([]string, len(cfg.Columns))
	for i, c := range cfg.Columns {
		columns[i] = c.Name
	}
	verification := qa.NewVerifier(columns).Verify(rows)
	sufficiency := qa.NewSufficiencyChecker(qa.SufficiencyConfig{
		MinPanelRows:       *minRows,
		MinRankingCoverage: *minRankCoverage,
	}).Check(rows, archiveCount)

	report := reporting.NewGenerator().Generate(rows, archiveCount, sufficiency, verification)

	reporting.RenderTables(os.Stdout, report)

	if *markdownPath != "" {
		if err := os.WriteFile(*markdownPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
			log.WithError(err).Fatal("write markdown report")
		}
		log.WithField("path", *markdownPath).Info("markdown report written")
	}
	if *csvPath != "" {
		if err := os.WriteFile(*csvPath, []byte(reporting.RenderCSV(report.PlayerSummaries)), 0o644); err != nil {
			log.WithError(err).Fatal("write summary csv")
		}
		log.WithField("path", *csvPath).Info("summary csv written")
	}
}

// loadArchiveCount reads the archive size from whichever staging
// backend is configured; without one the count is reported as zero.
func loadArchiveCount(ctx context.Context, postgresDSN, sqlitePath string) (int, error) {
	switch {
	case postgresDSN != "":
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return 0, err
		}
		defer pool.Close()
		archive, err := pgstore.NewArchiveMatchStore(pool).GetAll(ctx)
		if err != nil {
			return 0, err
		}
		return len(archive), nil

	case sqlitePath != "":
		db, err := sqlitestore.Open(sqlitePath)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		archive, err := sqlitestore.NewArchiveMatchStore(db).GetAll(ctx)
		if err != nil {
			return 0, err
		}
		return len(archive), nil

	default:
		return 0, nil
	}
}
