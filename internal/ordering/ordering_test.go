package ordering

import (
	"testing"
	"time"

	"atp-panel-lab/internal/domain"
)

func row(start time.Time, name, id string, round domain.RoundStage, order int, player string) *domain.MatchRow {
	return &domain.MatchRow{
		TournamentStart: start,
		TournamentName:  name,
		TournamentID:    id,
		Round:           round,
		MatchOrder:      order,
		PlayerCode:      player,
	}
}

func TestCompareRows_KeyPrecedence(t *testing.T) {
	d1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		a, b *domain.MatchRow
	}{
		{"date wins over everything", row(d1, "Zagreb", "z9", domain.RoundF, 9, "z"), row(d2, "Acapulco", "a1", domain.RoundQ1, 1, "a")},
		{"name breaks same date", row(d1, "Acapulco", "z9", domain.RoundF, 9, "z"), row(d1, "Dubai", "a1", domain.RoundQ1, 1, "a")},
		{"id breaks same name", row(d1, "Dubai", "a1", domain.RoundF, 9, "z"), row(d1, "Dubai", "a2", domain.RoundQ1, 1, "a")},
		{"round ordinal breaks same tournament", row(d1, "Dubai", "a1", domain.RoundR16, 9, "z"), row(d1, "Dubai", "a1", domain.RoundQF, 1, "a")},
		{"match order breaks same round", row(d1, "Dubai", "a1", domain.RoundQF, 1, "z"), row(d1, "Dubai", "a1", domain.RoundQF, 2, "a")},
	}

	for _, tc := range cases {
		if c := CompareRows(tc.a, tc.b); c >= 0 {
			t.Errorf("%s: expected a < b, got %d", tc.name, c)
		}
		if c := CompareRows(tc.b, tc.a); c <= 0 {
			t.Errorf("%s: expected b > a, got %d", tc.name, c)
		}
	}
}

func TestStageOrdinal_LadderOrder(t *testing.T) {
	ladder := []domain.RoundStage{
		domain.RoundQ1, domain.RoundQ2, domain.RoundQ3,
		domain.RoundBR, domain.RoundRR,
		domain.RoundR128, domain.RoundR64, domain.RoundR32, domain.RoundR16,
		domain.RoundQF, domain.RoundSF, domain.RoundF, domain.RoundThirdPlace,
	}

	for i := 1; i < len(ladder); i++ {
		if StageOrdinal(ladder[i-1]) >= StageOrdinal(ladder[i]) {
			t.Errorf("%s should sort before %s", ladder[i-1], ladder[i])
		}
	}
}

func TestStageOrdinal_UnknownSortsLast(t *testing.T) {
	if StageOrdinal(domain.RoundUnknown) != UnknownStageOrdinal {
		t.Errorf("unknown stage ordinal = %d, want %d", StageOrdinal(domain.RoundUnknown), UnknownStageOrdinal)
	}
	if StageOrdinal(domain.RoundThirdPlace) >= UnknownStageOrdinal {
		t.Error("known stages must sort before the unknown sentinel")
	}
}

func TestEventKey_SameDayMultiRound(t *testing.T) {
	d := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

	qf := KeyOfRow(row(d, "Rome", "r1", domain.RoundQF, 1, "a"))
	sf := KeyOfRow(row(d, "Rome", "r1", domain.RoundSF, 1, "a"))

	if !qf.Less(sf) {
		t.Error("same-day QF must order strictly before SF")
	}
	if sf.Less(qf) {
		t.Error("ordering must be antisymmetric")
	}
	if qf.Less(qf) {
		t.Error("ordering must be irreflexive")
	}
}

func TestCollapseArchiveRound(t *testing.T) {
	cases := map[string]domain.RoundStage{
		"R256":  domain.RoundR128,
		"R96":   domain.RoundR64,
		"R56":   domain.RoundR32,
		"R28":   domain.RoundR16,
		"F":     domain.RoundF,
		"weird": domain.RoundUnknown,
	}
	for code, want := range cases {
		if got := CollapseArchiveRound(code); got != want {
			t.Errorf("CollapseArchiveRound(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestSortRows_Deterministic(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := row(d, "Dubai", "a1", domain.RoundQF, 1, "p1")
	b := row(d, "Dubai", "a1", domain.RoundQF, 1, "p2")

	first := []*domain.MatchRow{a, b}
	second := []*domain.MatchRow{b, a}
	SortRows(first)
	SortRows(second)

	for i := range first {
		if first[i] != second[i] {
			t.Fatal("sorting must not depend on input order")
		}
	}
}
