package panel

import (
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func testTournament() *domain.Tournament {
	return &domain.Tournament{
		ID:        "t2024-501",
		Name:      "Halle",
		StartDate: date(2024, 6, 17),
		Surface:   domain.SurfaceGrass,
		Country:   "GER",
		Category:  "atp",
	}
}

func TestBuild_TwoRowsPerMatch(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	raws := []*domain.RawMatch{
		{TournamentID: "t2024-501", RoundLabel: "QF", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p2", Score: "64 64"},
		{TournamentID: "t2024-501", RoundLabel: "QF", MatchOrder: 2, WinnerCode: "p3", LoserCode: "p4", Score: "76(3) 63"},
	}

	rows, stats, err := b.Build(raws, []*domain.Tournament{testTournament()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	if stats.RowsBuilt != 4 {
		t.Errorf("stats.RowsBuilt = %d, want 4", stats.RowsBuilt)
	}

	// Each match id must appear exactly twice with swapped perspectives
	byMatch := make(map[string][]*domain.MatchRow)
	for _, r := range rows {
		byMatch[r.MatchID] = append(byMatch[r.MatchID], r)
	}
	if len(byMatch) != 2 {
		t.Fatalf("expected 2 match ids, got %d", len(byMatch))
	}
	for id, pair := range byMatch {
		if len(pair) != 2 {
			t.Fatalf("match %s has %d rows", id, len(pair))
		}
		if pair[0].PlayerCode != pair[1].OpponentCode || pair[0].OpponentCode != pair[1].PlayerCode {
			t.Errorf("match %s rows are not perspective-swapped", id)
		}
		if pair[0].Result == pair[1].Result {
			t.Errorf("match %s rows carry the same result", id)
		}
	}
}

func TestBuild_EndingAnnotations(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	raws := []*domain.RawMatch{
		{TournamentID: "t2024-501", RoundLabel: "R16", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p2", Score: "64 21 (RET)"},
		{TournamentID: "t2024-501", RoundLabel: "R16", MatchOrder: 2, WinnerCode: "p3", LoserCode: "p4", Score: "W/O"},
		{TournamentID: "t2024-501", RoundLabel: "R16", MatchOrder: 3, WinnerCode: "p5", LoserCode: "p6", Score: "64 64 (XYZ)"},
	}

	rows, stats, err := b.Build(raws, []*domain.Tournament{testTournament()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	var ret, wo int
	for _, r := range rows {
		if r.Retirement {
			ret++
		}
		if r.Walkover {
			wo++
		}
	}
	if ret != 2 {
		t.Errorf("expected 2 retirement rows, got %d", ret)
	}
	if wo != 2 {
		t.Errorf("expected 2 walkover rows, got %d", wo)
	}
	if stats.UnknownEndings != 0 {
		// "(XYZ)" is not extracted as an annotation from the score tail,
		// so it does not count as an unknown ending token
		t.Errorf("expected 0 unknown endings, got %d", stats.UnknownEndings)
	}
}

func TestBuild_UnknownAnnotationCounted(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	raws := []*domain.RawMatch{
		{TournamentID: "t2024-501", RoundLabel: "R16", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p2", Score: "64 64", Annotation: "(MYST)"},
	}

	rows, stats, err := b.Build(raws, []*domain.Tournament{testTournament()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if stats.UnknownEndings != 1 {
		t.Errorf("expected 1 unknown ending, got %d", stats.UnknownEndings)
	}
	// Unknown annotation maps to a normal completion
	for _, r := range rows {
		if r.Retirement || r.Walkover {
			t.Errorf("unknown annotation must not set ending flags")
		}
	}
}

func TestBuild_ByeAndDuplicateAndMissingTournament(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	raws := []*domain.RawMatch{
		{TournamentID: "t2024-501", RoundLabel: "R32", MatchOrder: 1, WinnerCode: "p1", LoserCode: ByePlayerCode, Score: ""},
		{TournamentID: "t2024-501", RoundLabel: "R32", MatchOrder: 2, WinnerCode: "p2", LoserCode: "p3", Score: "63 63"},
		{TournamentID: "t2024-501", RoundLabel: "R32", MatchOrder: 2, WinnerCode: "p2", LoserCode: "p3", Score: "63 63"},
		{TournamentID: "t-missing", RoundLabel: "R32", MatchOrder: 1, WinnerCode: "p4", LoserCode: "p5", Score: "62 62"},
	}

	rows, stats, err := b.Build(raws, []*domain.Tournament{testTournament()})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(rows))
	}
	if stats.ByeMatches != 1 {
		t.Errorf("ByeMatches = %d, want 1", stats.ByeMatches)
	}
	if stats.DuplicateMatches != 1 {
		t.Errorf("DuplicateMatches = %d, want 1", stats.DuplicateMatches)
	}
	if stats.MissingTournament != 1 {
		t.Errorf("MissingTournament = %d, want 1", stats.MissingTournament)
	}
}

func TestBuild_AllTournamentsMissingIsStructural(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	raws := []*domain.RawMatch{
		{TournamentID: "nope", RoundLabel: "F", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p2"},
	}

	if _, _, err := b.Build(raws, nil); err == nil {
		t.Fatal("expected structural error when every raw match misses its tournament")
	}
}

func TestBuild_CanonicalOrder(t *testing.T) {
	b := NewBuilder(DefaultEndingTokens())

	early := &domain.Tournament{ID: "tA", Name: "Adelaide", StartDate: date(2024, 1, 1), Surface: domain.SurfaceHard}
	late := &domain.Tournament{ID: "tB", Name: "Brisbane", StartDate: date(2024, 2, 1), Surface: domain.SurfaceHard}

	raws := []*domain.RawMatch{
		{TournamentID: "tB", RoundLabel: "F", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p2"},
		{TournamentID: "tA", RoundLabel: "SF", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p3"},
		{TournamentID: "tA", RoundLabel: "F", MatchOrder: 1, WinnerCode: "p1", LoserCode: "p4"},
	}

	rows, _, err := b.Build(raws, []*domain.Tournament{early, late})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Adelaide SF before Adelaide F before Brisbane F
	if rows[0].TournamentID != "tA" || rows[0].Round != domain.RoundSF {
		t.Errorf("first rows should be Adelaide SF, got %s %s", rows[0].TournamentID, rows[0].Round)
	}
	if rows[len(rows)-1].TournamentID != "tB" {
		t.Errorf("last rows should be Brisbane, got %s", rows[len(rows)-1].TournamentID)
	}
}
