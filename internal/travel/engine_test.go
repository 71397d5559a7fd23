package travel

import (
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
	"atp-panel-lab/internal/ordering"
)

type tournamentSpec struct {
	id      string
	start   time.Time
	country string
	surface domain.Surface
	indoor  bool
	rounds  []domain.RoundStage
}

// rowsFor builds one player's rows across a sequence of tournaments,
// one row per listed round.
func rowsFor(player string, specs []tournamentSpec) []*domain.MatchRow {
	var rows []*domain.MatchRow
	n := 0
	for _, ts := range specs {
		for _, round := range ts.rounds {
			n++
			rows = append(rows, &domain.MatchRow{
				MatchID:         player + "-" + ts.id + "-" + string(rune('a'+n)),
				TournamentID:    ts.id,
				TournamentName:  ts.id,
				TournamentStart: ts.start,
				Surface:         ts.surface,
				Indoor:          ts.indoor,
				Country:         ts.country,
				Round:           round,
				MatchOrder:      1,
				PlayerCode:      player,
				OpponentCode:    "opp",
				Result:          domain.ResultWin,
			})
		}
	}
	ordering.SortRows(rows)
	return rows
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_GapsAndFlags(t *testing.T) {
	rows := rowsFor("p", []tournamentSpec{
		{id: "t1", start: date(2024, 1, 1), country: "AUS", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
		{id: "t2", start: date(2024, 1, 8), country: "AUS", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
		{id: "t3", start: date(2024, 1, 22), country: "AUS", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
		{id: "t4", start: date(2024, 2, 19), country: "AUS", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
	})

	feats := NewEngine(DefaultConfig()).Compute(rows, nil, nil)

	byTournament := func(tid string) *domain.TravelFeatures {
		for _, r := range rows {
			if r.TournamentID == tid {
				return feats[r.Key()]
			}
		}
		return nil
	}

	first := byTournament("t1")
	if first.DaysSincePrev != nil || first.FatigueScore != nil {
		t.Error("first-ever tournament must carry no gap features")
	}

	b2b := byTournament("t2")
	if b2b.DaysSincePrev == nil || *b2b.DaysSincePrev != 7 {
		t.Fatalf("gap = %v, want 7", b2b.DaysSincePrev)
	}
	if !b2b.BackToBack || b2b.TwoWeekGap || b2b.LongRest {
		t.Error("7-day gap must flag back-to-back only")
	}

	twoWeek := byTournament("t3")
	if !twoWeek.TwoWeekGap || twoWeek.BackToBack {
		t.Error("14-day gap must flag the two-week window")
	}

	rest := byTournament("t4")
	if !rest.LongRest {
		t.Error("28-day gap must flag long rest")
	}
	if *rest.WeeksSincePrev != 4.0 {
		t.Errorf("weeks = %f, want 4", *rest.WeeksSincePrev)
	}
}

func TestCompute_ChangeFlagsAndFatigue(t *testing.T) {
	rows := rowsFor("p", []tournamentSpec{
		{id: "t1", start: date(2024, 1, 1), country: "AUS", surface: domain.SurfaceHard, indoor: false, rounds: []domain.RoundStage{domain.RoundR32}},
		{id: "t2", start: date(2024, 1, 8), country: "FRA", surface: domain.SurfaceClay, indoor: true, rounds: []domain.RoundStage{domain.RoundR32}},
	})

	feats := NewEngine(DefaultConfig()).Compute(rows, nil, nil)
	var f *domain.TravelFeatures
	for _, r := range rows {
		if r.TournamentID == "t2" {
			f = feats[r.Key()]
		}
	}

	for name, flag := range map[string]*bool{
		"country": f.CountryChange, "surface": f.SurfaceChange,
		"indoor": f.IndoorChange, "continent": f.ContinentChange,
	} {
		if flag == nil || !*flag {
			t.Errorf("%s change flag missing or false", name)
		}
	}
	if !f.RedEye {
		t.Error("back-to-back with continent change must flag red-eye")
	}
	// 2 (continent) + 1 (country) + 1 (surface) + 0.5 (indoor)
	if f.FatigueScore == nil || *f.FatigueScore != 4.5 {
		t.Errorf("fatigue = %v, want 4.5", f.FatigueScore)
	}
}

func TestCompute_PreviousTournamentWorkload(t *testing.T) {
	rows := rowsFor("p", []tournamentSpec{
		{id: "t1", start: date(2024, 1, 1), country: "AUS", surface: domain.SurfaceHard,
			rounds: []domain.RoundStage{domain.RoundR32, domain.RoundR16, domain.RoundQF}},
		{id: "t2", start: date(2024, 1, 15), country: "AUS", surface: domain.SurfaceHard,
			rounds: []domain.RoundStage{domain.RoundR32}},
	})

	feats := NewEngine(DefaultConfig()).Compute(rows, nil, nil)
	var f *domain.TravelFeatures
	for _, r := range rows {
		if r.TournamentID == "t2" {
			f = feats[r.Key()]
		}
	}

	if f.PrevMatches == nil || *f.PrevMatches != 3 {
		t.Errorf("previous matches = %v, want 3", f.PrevMatches)
	}
	if f.PrevBestRound == nil || *f.PrevBestRound != domain.RoundQF {
		t.Errorf("previous best round = %v, want QF", f.PrevBestRound)
	}
	if f.SeededFromArchive {
		t.Error("modern previous tournament wrongly marked as archive-seeded")
	}
}

func TestCompute_SetsPlayedWithinTournament(t *testing.T) {
	rows := rowsFor("p", []tournamentSpec{
		{id: "t1", start: date(2024, 1, 1), country: "AUS", surface: domain.SurfaceHard,
			rounds: []domain.RoundStage{domain.RoundR16, domain.RoundQF, domain.RoundSF}},
		{id: "t2", start: date(2024, 1, 15), country: "AUS", surface: domain.SurfaceHard,
			rounds: []domain.RoundStage{domain.RoundR32}},
	})
	// R16 goes three sets, QF two; the SF stat block is missing.
	for _, r := range rows {
		switch {
		case r.TournamentID == "t1" && r.Round == domain.RoundR16:
			r.HasStats = true
			r.PlayerStats.SetsWon, r.OpponentStats.SetsWon = 2, 1
		case r.TournamentID == "t1" && r.Round == domain.RoundQF:
			r.HasStats = true
			r.PlayerStats.SetsWon, r.OpponentStats.SetsWon = 2, 0
		}
	}

	feats := NewEngine(DefaultConfig()).Compute(rows, nil, nil)

	want := map[string]int{"t1/R16": 0, "t1/QF": 3, "t1/SF": 5, "t2/R32": 0}
	for _, r := range rows {
		key := r.TournamentID + "/" + string(r.Round)
		f := feats[r.Key()]
		if f == nil {
			t.Fatalf("no features for %s", key)
		}
		if f.SetsPlayedTournament != want[key] {
			t.Errorf("%s sets played = %d, want %d", key, f.SetsPlayedTournament, want[key])
		}
	}
}

func TestCompute_ArchiveFallback(t *testing.T) {
	rows := rowsFor("vet", []tournamentSpec{
		{id: "t1", start: date(1999, 2, 1), country: "USA", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
	})
	archive := []*domain.ArchiveMatch{
		{Date: date(1998, 11, 2), TournamentID: "old", TournamentName: "Old", Country: "GER",
			Surface: domain.SurfaceCarpet, RoundCode: "SF", WinnerCode: "vet", LoserCode: "q"},
		{Date: date(1998, 11, 1), TournamentID: "old", TournamentName: "Old", Country: "GER",
			Surface: domain.SurfaceCarpet, RoundCode: "QF", WinnerCode: "vet", LoserCode: "r"},
	}
	players := map[string]*domain.Player{"vet": {Code: "vet", TurnedPro: 1990}}

	feats := NewEngine(DefaultConfig()).Compute(rows, archive, players)
	f := feats[rows[0].Key()]

	if f.DaysSincePrev == nil {
		t.Fatal("archive fallback did not seed a previous tournament")
	}
	if !f.SeededFromArchive {
		t.Error("archive seed flag missing")
	}
	if f.PrevMatches == nil || *f.PrevMatches != 2 {
		t.Errorf("archive workload = %v, want 2", f.PrevMatches)
	}
	if f.PrevBestRound == nil || *f.PrevBestRound != domain.RoundSF {
		t.Errorf("archive best round = %v, want SF", f.PrevBestRound)
	}
	// Archive stints carry no venue info, so the indoor flag stays missing
	if f.IndoorChange != nil {
		t.Error("indoor change must be missing for archive-seeded previous")
	}
	if f.CountryChange == nil || !*f.CountryChange {
		t.Error("GER to USA must flag a country change")
	}
}

func TestCompute_ArchiveFallbackGates(t *testing.T) {
	rows := rowsFor("kid", []tournamentSpec{
		{id: "t1", start: date(1999, 2, 1), country: "USA", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
	})
	archive := []*domain.ArchiveMatch{
		{Date: date(1998, 11, 1), TournamentID: "old", TournamentName: "Old", Country: "GER",
			Surface: domain.SurfaceCarpet, RoundCode: "QF", WinnerCode: "kid", LoserCode: "r"},
	}

	// Turned pro in 1999: archive record exists but the gate rejects it
	players := map[string]*domain.Player{"kid": {Code: "kid", TurnedPro: 1999}}
	feats := NewEngine(DefaultConfig()).Compute(rows, archive, players)
	if feats[rows[0].Key()].DaysSincePrev != nil {
		t.Error("turned-pro 1999 must not receive an archive seed")
	}

	// Seeded date not strictly before the current start
	future := []*domain.ArchiveMatch{
		{Date: date(1999, 2, 1), TournamentID: "odd", TournamentName: "Odd", Country: "GER",
			Surface: domain.SurfaceCarpet, RoundCode: "QF", WinnerCode: "vet2", LoserCode: "r"},
	}
	rows2 := rowsFor("vet2", []tournamentSpec{
		{id: "t1", start: date(1999, 2, 1), country: "USA", surface: domain.SurfaceHard, rounds: []domain.RoundStage{domain.RoundR32}},
	})
	players2 := map[string]*domain.Player{"vet2": {Code: "vet2", TurnedPro: 1990}}
	feats2 := NewEngine(DefaultConfig()).Compute(rows2, future, players2)
	if feats2[rows2[0].Key()].DaysSincePrev != nil {
		t.Error("seed dated at the current start must be rejected by the anti-future guard")
	}
}
