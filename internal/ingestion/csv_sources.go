package ingestion

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"atp-panel-lab/internal/domain"
)

// dayLayout is the date format used by every extraction-layer file.
const dayLayout = "2006-01-02"

// CSVTournamentSource reads tournament metadata from a single CSV file.
// Expected columns: tournament_id, name, start_date, surface, plus
// optional indoor, country, category, prize_usd.
type CSVTournamentSource struct {
	path string
	log  *logrus.Logger
}

// NewCSVTournamentSource creates a source reading from path.
func NewCSVTournamentSource(path string, log *logrus.Logger) *CSVTournamentSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CSVTournamentSource{path: path, log: log}
}

var _ TournamentSource = (*CSVTournamentSource)(nil)

// Fetch reads and parses every tournament row. Malformed rows are
// skipped with a warning; only structural failures return an error.
func (s *CSVTournamentSource) Fetch(ctx context.Context) ([]*domain.Tournament, error) {
	header, rows, err := readCSVFile(s.path)
	if err != nil {
		return nil, err
	}
	idx := indexColumns(header)
	if err := idx.require(s.path, "tournament_id", "name", "start_date", "surface"); err != nil {
		return nil, err
	}

	var tournaments []*domain.Tournament
	skipped := 0
	for i, row := range rows {
		t, err := parseTournamentRow(row, idx)
		if err != nil {
			warnRow(s.log, s.path, i, err)
			skipped++
			continue
		}
		tournaments = append(tournaments, t)
	}
	warnSkipped(s.log, s.path, skipped)
	return tournaments, nil
}

func parseTournamentRow(row []string, idx columnIndex) (*domain.Tournament, error) {
	id := idx.get(row, "tournament_id")
	name := idx.get(row, "name")
	if id == "" || name == "" {
		return nil, fmt.Errorf("missing tournament_id or name")
	}
	start, err := time.ParseInLocation(dayLayout, idx.get(row, "start_date"), time.UTC)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	indoor, err := parseOptionalBool(idx.get(row, "indoor"))
	if err != nil {
		return nil, fmt.Errorf("indoor: %w", err)
	}
	prize, err := parseOptionalFloat(idx.get(row, "prize_usd"))
	if err != nil {
		return nil, fmt.Errorf("prize_usd: %w", err)
	}

	return &domain.Tournament{
		ID:        id,
		Name:      name,
		StartDate: start,
		Surface:   domain.ParseSurface(idx.get(row, "surface")),
		Indoor:    indoor,
		Country:   idx.get(row, "country"),
		Category:  idx.get(row, "category"),
		PrizeUSD:  prize,
	}, nil
}

// statColumns lists the per-player stat column suffixes in schema order.
// A match file carries them twice, prefixed "w_" and "l_".
var statColumns = []string{
	"aces", "double_faults", "first_serves_in", "first_serves_total",
	"first_serve_points_won", "first_serve_points_total",
	"second_serve_points_won", "second_serve_points_total",
	"break_points_saved", "break_points_faced",
	"break_points_converted", "break_point_opportunities",
	"return_points_won", "return_points_total",
	"service_games_won", "service_games_total",
	"return_games_won", "return_games_total",
	"total_points_won", "total_points_total",
	"sets_won", "games_won", "tiebreaks_won", "tiebreaks_total",
}

// statFields returns pointers to the stat struct fields in statColumns order.
func statFields(s *domain.MatchStats) []*int {
	return []*int{
		&s.Aces, &s.DoubleFaults, &s.FirstServesIn, &s.FirstServesTotal,
		&s.FirstServePointsWon, &s.FirstServePointsTotal,
		&s.SecondServePointsWon, &s.SecondServePointsTotal,
		&s.BreakPointsSaved, &s.BreakPointsFaced,
		&s.BreakPointsConverted, &s.BreakPointOpportunities,
		&s.ReturnPointsWon, &s.ReturnPointsTotal,
		&s.ServiceGamesWon, &s.ServiceGamesTotal,
		&s.ReturnGamesWon, &s.ReturnGamesTotal,
		&s.TotalPointsWon, &s.TotalPointsTotal,
		&s.SetsWon, &s.GamesWon, &s.TiebreaksWon, &s.TiebreaksTotal,
	}
}

// CSVMatchSource reads raw modern-era match records from a single CSV file.
// Expected columns: tournament_id, round, match_order, winner_code,
// loser_code, score, plus optional annotation and w_*/l_* stat columns.
type CSVMatchSource struct {
	path string
	log  *logrus.Logger
}

// NewCSVMatchSource creates a source reading from path.
func NewCSVMatchSource(path string, log *logrus.Logger) *CSVMatchSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CSVMatchSource{path: path, log: log}
}

var _ MatchSource = (*CSVMatchSource)(nil)

// Fetch reads and parses every match row. Malformed rows are skipped
// with a warning; only structural failures return an error.
func (s *CSVMatchSource) Fetch(ctx context.Context) ([]*domain.RawMatch, error) {
	header, rows, err := readCSVFile(s.path)
	if err != nil {
		return nil, err
	}
	idx := indexColumns(header)
	if err := idx.require(s.path, "tournament_id", "round", "match_order", "winner_code", "loser_code", "score"); err != nil {
		return nil, err
	}

	var matches []*domain.RawMatch
	skipped := 0
	for i, row := range rows {
		m, err := parseMatchRow(row, idx)
		if err != nil {
			warnRow(s.log, s.path, i, err)
			skipped++
			continue
		}
		matches = append(matches, m)
	}
	warnSkipped(s.log, s.path, skipped)
	return matches, nil
}

func parseMatchRow(row []string, idx columnIndex) (*domain.RawMatch, error) {
	tournamentID := idx.get(row, "tournament_id")
	winner := idx.get(row, "winner_code")
	loser := idx.get(row, "loser_code")
	if tournamentID == "" || winner == "" || loser == "" {
		return nil, fmt.Errorf("missing tournament_id or player code")
	}
	order, err := strconv.Atoi(idx.get(row, "match_order"))
	if err != nil {
		return nil, fmt.Errorf("match_order: %w", err)
	}

	winnerStats, hasWinner, err := parseStats(row, idx, "w_")
	if err != nil {
		return nil, err
	}
	loserStats, hasLoser, err := parseStats(row, idx, "l_")
	if err != nil {
		return nil, err
	}

	return &domain.RawMatch{
		TournamentID: tournamentID,
		RoundLabel:   idx.get(row, "round"),
		MatchOrder:   order,
		WinnerCode:   winner,
		LoserCode:    loser,
		Score:        idx.get(row, "score"),
		Annotation:   idx.get(row, "annotation"),
		WinnerStats:  winnerStats,
		LoserStats:   loserStats,
		HasStats:     hasWinner && hasLoser,
	}, nil
}

// parseStats reads the prefixed stat block of one side. The bool result
// reports whether any stat cell was present and non-empty.
func parseStats(row []string, idx columnIndex, prefix string) (domain.MatchStats, bool, error) {
	var stats domain.MatchStats
	ptrs := statFields(&stats)
	present := false
	for i, col := range statColumns {
		raw := idx.get(row, prefix+col)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.MatchStats{}, false, fmt.Errorf("%s%s: %w", prefix, col, err)
		}
		*ptrs[i] = v
		present = true
	}
	return stats, present, nil
}

// CSVArchiveSource reads pre-1999 seed results from a single CSV file.
// Expected columns: date, tournament_id, round, winner_code, loser_code,
// plus optional tournament_name, surface, country.
type CSVArchiveSource struct {
	path string
	log  *logrus.Logger
}

// NewCSVArchiveSource creates a source reading from path.
func NewCSVArchiveSource(path string, log *logrus.Logger) *CSVArchiveSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CSVArchiveSource{path: path, log: log}
}

var _ ArchiveSource = (*CSVArchiveSource)(nil)

// Fetch reads and parses every archive row. Malformed rows are skipped
// with a warning; only structural failures return an error.
func (s *CSVArchiveSource) Fetch(ctx context.Context) ([]*domain.ArchiveMatch, error) {
	header, rows, err := readCSVFile(s.path)
	if err != nil {
		return nil, err
	}
	idx := indexColumns(header)
	if err := idx.require(s.path, "date", "tournament_id", "round", "winner_code", "loser_code"); err != nil {
		return nil, err
	}

	var matches []*domain.ArchiveMatch
	skipped := 0
	for i, row := range rows {
		date, err := time.ParseInLocation(dayLayout, idx.get(row, "date"), time.UTC)
		if err != nil {
			warnRow(s.log, s.path, i, fmt.Errorf("date: %w", err))
			skipped++
			continue
		}
		winner := idx.get(row, "winner_code")
		loser := idx.get(row, "loser_code")
		if winner == "" || loser == "" {
			warnRow(s.log, s.path, i, fmt.Errorf("missing player code"))
			skipped++
			continue
		}
		matches = append(matches, &domain.ArchiveMatch{
			Date:           date,
			TournamentID:   idx.get(row, "tournament_id"),
			TournamentName: idx.get(row, "tournament_name"),
			Surface:        domain.ParseSurface(idx.get(row, "surface")),
			Country:        idx.get(row, "country"),
			RoundCode:      idx.get(row, "round"),
			WinnerCode:     winner,
			LoserCode:      loser,
		})
	}
	warnSkipped(s.log, s.path, skipped)
	return matches, nil
}

// CSVRankingSource reads ranking snapshots from a directory holding one
// CSV file per release date, named YYYY-MM-DD.csv. Expected columns per
// file: player_code, rank.
type CSVRankingSource struct {
	dir string
	log *logrus.Logger
}

// NewCSVRankingSource creates a source reading every snapshot under dir.
func NewCSVRankingSource(dir string, log *logrus.Logger) *CSVRankingSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CSVRankingSource{dir: dir, log: log}
}

var _ RankingSource = (*CSVRankingSource)(nil)

// Fetch reads every snapshot file in date order. A file whose name is
// not a valid date is a structural failure.
func (s *CSVRankingSource) Fetch(ctx context.Context) ([]*domain.RankingEntry, error) {
	paths, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list ranking snapshots in %s: %w", s.dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no ranking snapshots found in %s", s.dir)
	}
	sort.Strings(paths)

	var entries []*domain.RankingEntry
	for _, path := range paths {
		base := strings.TrimSuffix(filepath.Base(path), ".csv")
		date, err := time.ParseInLocation(dayLayout, base, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("snapshot filename %s is not a date: %w", filepath.Base(path), err)
		}

		fileEntries, err := s.readSnapshot(path, date)
		if err != nil {
			return nil, err
		}
		entries = append(entries, fileEntries...)
	}
	return entries, nil
}

func (s *CSVRankingSource) readSnapshot(path string, date time.Time) ([]*domain.RankingEntry, error) {
	header, rows, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}
	idx := indexColumns(header)
	if err := idx.require(path, "player_code", "rank"); err != nil {
		return nil, err
	}

	var entries []*domain.RankingEntry
	skipped := 0
	for i, row := range rows {
		code := idx.get(row, "player_code")
		rank, err := strconv.Atoi(idx.get(row, "rank"))
		if err != nil || code == "" || rank < 1 {
			warnRow(s.log, path, i, fmt.Errorf("invalid rank entry %q/%q", code, idx.get(row, "rank")))
			skipped++
			continue
		}
		entries = append(entries, &domain.RankingEntry{Date: date, PlayerCode: code, Rank: rank})
	}
	warnSkipped(s.log, path, skipped)
	return entries, nil
}

// CSVPlayerSource reads static player attributes from a single CSV file.
// Expected columns: code, plus optional hand, backhand, turned_pro,
// height_cm, weight_kg, country.
type CSVPlayerSource struct {
	path string
	log  *logrus.Logger
}

// NewCSVPlayerSource creates a source reading from path.
func NewCSVPlayerSource(path string, log *logrus.Logger) *CSVPlayerSource {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CSVPlayerSource{path: path, log: log}
}

var _ PlayerSource = (*CSVPlayerSource)(nil)

// Fetch reads and parses every player row. Malformed rows are skipped
// with a warning; only structural failures return an error.
func (s *CSVPlayerSource) Fetch(ctx context.Context) ([]*domain.Player, error) {
	header, rows, err := readCSVFile(s.path)
	if err != nil {
		return nil, err
	}
	idx := indexColumns(header)
	if err := idx.require(s.path, "code"); err != nil {
		return nil, err
	}

	var players []*domain.Player
	skipped := 0
	for i, row := range rows {
		p, err := parsePlayerRow(row, idx)
		if err != nil {
			warnRow(s.log, s.path, i, err)
			skipped++
			continue
		}
		players = append(players, p)
	}
	warnSkipped(s.log, s.path, skipped)
	return players, nil
}

func parsePlayerRow(row []string, idx columnIndex) (*domain.Player, error) {
	code := idx.get(row, "code")
	if code == "" {
		return nil, fmt.Errorf("missing code")
	}
	turnedPro, err := parseOptionalInt(idx.get(row, "turned_pro"))
	if err != nil {
		return nil, fmt.Errorf("turned_pro: %w", err)
	}
	height, err := parseOptionalInt(idx.get(row, "height_cm"))
	if err != nil {
		return nil, fmt.Errorf("height_cm: %w", err)
	}
	weight, err := parseOptionalInt(idx.get(row, "weight_kg"))
	if err != nil {
		return nil, fmt.Errorf("weight_kg: %w", err)
	}

	return &domain.Player{
		Code:      code,
		Hand:      idx.get(row, "hand"),
		Backhand:  idx.get(row, "backhand"),
		TurnedPro: turnedPro,
		HeightCm:  height,
		WeightKg:  weight,
		Country:   idx.get(row, "country"),
	}, nil
}

// readCSVFile loads an entire CSV file and returns (header, data rows).
// An empty or unreadable file is a structural failure.
func readCSVFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("read %s: file has no header row", path)
	}
	return records[0], records[1:], nil
}

// columnIndex maps normalized column names to their positions.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

// require returns a structural error when a required column is absent.
func (c columnIndex) require(path string, names ...string) error {
	for _, name := range names {
		if _, ok := c[name]; !ok {
			return fmt.Errorf("%s: missing required column %q", path, name)
		}
	}
	return nil
}

// get returns the trimmed cell value, or "" when the column is absent.
func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseOptionalFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseOptionalBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func warnRow(log *logrus.Logger, path string, rowIdx int, err error) {
	log.WithFields(logrus.Fields{
		"file":  path,
		"line":  rowIdx + 2, // header is line 1
		"error": err.Error(),
	}).Warn("Skipping malformed row")
}

func warnSkipped(log *logrus.Logger, path string, skipped int) {
	if skipped > 0 {
		log.WithFields(logrus.Fields{
			"file":    path,
			"skipped": skipped,
		}).Warn("Rows skipped during ingestion")
	}
}
