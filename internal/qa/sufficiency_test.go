package qa

import (
	"strings"
	"testing"

	"atp-panel-lab/internal/domain"
)

func TestSufficiencyChecker_AllPass(t *testing.T) {
	a, b := validPair("m1", "p1", "p2", 1000)
	checker := NewSufficiencyChecker(SufficiencyConfig{MinPanelRows: 2, MinRankingCoverage: 0.5})

	result := checker.Check([]*domain.FeatureRow{a, b}, 100)

	if !result.AllPass {
		t.Fatalf("Expected all checks to pass: %+v", result.Checks)
	}
	if len(result.Checks) != 4 {
		t.Errorf("Expected 4 checks, got %d", len(result.Checks))
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
}

func TestSufficiencyChecker_TooFewRows(t *testing.T) {
	a, b := validPair("m1", "p1", "p2", 1000)
	checker := NewSufficiencyChecker(SufficiencyConfig{MinPanelRows: 100, MinRankingCoverage: 0.5})

	result := checker.Check([]*domain.FeatureRow{a, b}, 0)

	if result.AllPass {
		t.Fatal("Expected failure on row count")
	}
	if result.Checks[0].Pass {
		t.Errorf("Panel rows check should fail: %+v", result.Checks[0])
	}
}

func TestSufficiencyChecker_RankingCoverage(t *testing.T) {
	a, b := validPair("m1", "p1", "p2", 1000)
	b.Ranking.Rank = nil
	checker := NewSufficiencyChecker(SufficiencyConfig{MinPanelRows: 1, MinRankingCoverage: 0.9})

	result := checker.Check([]*domain.FeatureRow{a, b}, 0)

	if result.AllPass {
		t.Fatal("Expected failure on 50% ranking coverage")
	}
	if result.Checks[1].Pass {
		t.Errorf("Ranking coverage check should fail: %+v", result.Checks[1])
	}
}

func TestSufficiencyChecker_ArchiveIsInformational(t *testing.T) {
	a, b := validPair("m1", "p1", "p2", 1000)
	checker := NewSufficiencyChecker(SufficiencyConfig{MinPanelRows: 1, MinRankingCoverage: 0.5})

	result := checker.Check([]*domain.FeatureRow{a, b}, 0)

	if !result.AllPass {
		t.Fatalf("Zero archive matches must not fail the gate: %+v", result.Checks)
	}
}

func TestSufficiencyChecker_PairIntegrityErrors(t *testing.T) {
	a, b := validPair("m1", "p1", "p2", 1000)
	orphan, _ := validPair("m2", "p1", "p3", 2000)
	dup := *a
	checker := NewSufficiencyChecker(SufficiencyConfig{MinPanelRows: 1, MinRankingCoverage: 0.0})

	result := checker.Check([]*domain.FeatureRow{a, b, orphan, &dup}, 0)

	if result.AllPass {
		t.Fatal("Expected integrity failures")
	}
	var hasDup, hasOrphan bool
	for _, e := range result.Errors {
		if strings.Contains(e, "duplicate row key: m1/p1") {
			hasDup = true
		}
		if strings.Contains(e, "match m2 has 1 rows") {
			hasOrphan = true
		}
	}
	if !hasDup || !hasOrphan {
		t.Errorf("Missing expected integrity errors: %v", result.Errors)
	}
}
