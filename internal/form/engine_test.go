package form

import (
	"math"
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
)

// seq builds a one-player event history: one tournament per day so each
// result is its own event in canonical order. The opponent is a throwaway
// distinct code per match to keep windows isolated.
func seq(player string, results []bool) []*domain.MatchRow {
	rows := make([]*domain.MatchRow, 0, 2*len(results))
	for i, win := range results {
		day := time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
		opp := string(rune('z'-i%20)) + "x"
		base := domain.MatchRow{
			MatchID:         player + string(rune('0'+i/10)) + string(rune('0'+i%10)),
			TournamentID:    "t" + string(rune('0'+i/10)) + string(rune('0'+i%10)),
			TournamentName:  "T",
			TournamentStart: day,
			Round:           domain.RoundF,
			MatchOrder:      1,
		}
		p := base
		p.PlayerCode, p.OpponentCode = player, opp
		p.Result = domain.ResultLoss
		if win {
			p.Result = domain.ResultWin
		}
		o := base
		o.PlayerCode, o.OpponentCode = opp, player
		o.Result = domain.ResultWin
		if win {
			o.Result = domain.ResultLoss
		}
		rows = append(rows, &p, &o)
	}
	return rows
}

func TestCompute_LaggedFiveWindow(t *testing.T) {
	// Ordered results [W,W,L,W,L,W,L,W,W,W]: the ratio attached to the
	// 7th event (index 6) is the mean over indices 1-5 = [W,L,W,L,W] = 0.6
	results := []bool{true, true, false, true, false, true, false, true, true, true}
	rows := seq("p", results)

	feats := NewEngine(DefaultConfig()).Compute(rows, nil)

	f := feats[domain.RowKey{MatchID: "p06", PlayerCode: "p"}]
	if f == nil || f.WinRatio5 == nil {
		t.Fatal("missing win ratio at index 6")
	}
	if math.Abs(*f.WinRatio5-0.6) > 1e-12 {
		t.Errorf("win ratio at index 6 = %f, want 0.6", *f.WinRatio5)
	}
}

func TestCompute_FirstAppearanceIsNil(t *testing.T) {
	rows := seq("p", []bool{true, true})
	feats := NewEngine(DefaultConfig()).Compute(rows, nil)

	first := feats[domain.RowKey{MatchID: "p00", PlayerCode: "p"}]
	if first.WinRatio5 != nil || first.WinRatio10 != nil {
		t.Error("first-ever appearance must carry nil ratios, not zero")
	}

	second := feats[domain.RowKey{MatchID: "p01", PlayerCode: "p"}]
	if second.WinRatio5 == nil {
		t.Fatal("second appearance should carry a partial window")
	}
	if *second.WinRatio5 != 1.0 {
		t.Errorf("partial window over [W] = %f, want 1.0", *second.WinRatio5)
	}
}

func TestCompute_TrendAndConsistency(t *testing.T) {
	// 9 prior results: [L,L,L,L,W,W,W,W,W] -> 5-window = 1.0, 9-window = 5/9
	results := []bool{false, false, false, false, true, true, true, true, true, true}
	rows := seq("p", results)

	feats := NewEngine(DefaultConfig()).Compute(rows, nil)
	f := feats[domain.RowKey{MatchID: "p09", PlayerCode: "p"}]

	if f.Trend == nil || f.Consistency == nil {
		t.Fatal("trend/consistency missing")
	}
	wantTrend := 1.0 - 5.0/9.0
	if math.Abs(*f.Trend-wantTrend) > 1e-12 {
		t.Errorf("trend = %f, want %f", *f.Trend, wantTrend)
	}
	if math.Abs(*f.Consistency-math.Abs(wantTrend)) > 1e-12 {
		t.Errorf("consistency = %f, want %f", *f.Consistency, math.Abs(wantTrend))
	}
	if !f.GoodForm {
		t.Error("5-window of 1.0 must flag good form")
	}
}

func TestCompute_MomentumUsesOpponentWindow(t *testing.T) {
	// Two players meet twice; at the second meeting both have one prior
	// outcome: a won, b lost -> momentum(a) = 1 - 0 = 1
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	mk := func(id, tid string, d time.Time, winner, loser string) []*domain.MatchRow {
		base := domain.MatchRow{MatchID: id, TournamentID: tid, TournamentName: tid, TournamentStart: d, Round: domain.RoundF, MatchOrder: 1}
		w := base
		w.PlayerCode, w.OpponentCode, w.Result = winner, loser, domain.ResultWin
		l := base
		l.PlayerCode, l.OpponentCode, l.Result = loser, winner, domain.ResultLoss
		return []*domain.MatchRow{&w, &l}
	}

	rows := append(mk("m1", "t1", d1, "a", "b"), mk("m2", "t2", d2, "a", "b")...)
	feats := NewEngine(DefaultConfig()).Compute(rows, nil)

	f := feats[domain.RowKey{MatchID: "m2", PlayerCode: "a"}]
	if f.Momentum == nil {
		t.Fatal("momentum missing")
	}
	if *f.Momentum != 1.0 {
		t.Errorf("momentum = %f, want 1.0", *f.Momentum)
	}

	// First meeting: neither has history, momentum stays nil
	first := feats[domain.RowKey{MatchID: "m1", PlayerCode: "a"}]
	if first.Momentum != nil {
		t.Error("momentum must be nil when either window is empty")
	}
}

func TestCompute_ArchiveSeedsWindow(t *testing.T) {
	archive := []*domain.ArchiveMatch{
		{Date: time.Date(1998, 5, 1, 0, 0, 0, 0, time.UTC), TournamentID: "old1", TournamentName: "Old", RoundCode: "F", WinnerCode: "p", LoserCode: "q"},
		{Date: time.Date(1998, 6, 1, 0, 0, 0, 0, time.UTC), TournamentID: "old2", TournamentName: "Old2", RoundCode: "F", WinnerCode: "p", LoserCode: "q"},
	}
	rows := seq("p", []bool{true})

	feats := NewEngine(DefaultConfig()).Compute(rows, archive)
	f := feats[domain.RowKey{MatchID: "p00", PlayerCode: "p"}]

	if f.WinRatio5 == nil {
		t.Fatal("archive history must seed the window")
	}
	if *f.WinRatio5 != 1.0 {
		t.Errorf("seeded ratio = %f, want 1.0", *f.WinRatio5)
	}
}

func TestCompute_WonPrevTournament(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mk := func(id, tid string, d time.Time, round domain.RoundStage, winner, loser string) []*domain.MatchRow {
		base := domain.MatchRow{MatchID: id, TournamentID: tid, TournamentName: tid, TournamentStart: d, Round: round, MatchOrder: 1}
		w := base
		w.PlayerCode, w.OpponentCode, w.Result = winner, loser, domain.ResultWin
		l := base
		l.PlayerCode, l.OpponentCode, l.Result = loser, winner, domain.ResultLoss
		return []*domain.MatchRow{&w, &l}
	}

	var rows []*domain.MatchRow
	rows = append(rows, mk("m1", "t1", d1, domain.RoundSF, "a", "b")...)
	rows = append(rows, mk("m2", "t1", d1, domain.RoundF, "a", "c")...)
	rows = append(rows, mk("m3", "t2", d2, domain.RoundR16, "a", "d")...)
	rows = append(rows, mk("m4", "t2", d2, domain.RoundR16, "b", "e")...)

	feats := NewEngine(DefaultConfig()).Compute(rows, nil)

	// a won the t1 final -> flagged at t2
	if !feats[domain.RowKey{MatchID: "m3", PlayerCode: "a"}].WonPrevTournament {
		t.Error("a won the previous tournament's final; flag missing")
	}
	// b lost in the t1 semifinal -> no flag
	if feats[domain.RowKey{MatchID: "m4", PlayerCode: "b"}].WonPrevTournament {
		t.Error("b did not win the previous tournament")
	}
	// First tournament ever -> default false
	if feats[domain.RowKey{MatchID: "m1", PlayerCode: "a"}].WonPrevTournament {
		t.Error("no prior tournament exists; flag must default to false")
	}
}
