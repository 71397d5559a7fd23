package ordering

import "atp-panel-lab/internal/domain"

// archiveRounds collapses the extended pre-1999 round codes onto the
// modern ladder. Oversized historical draws fold into the nearest modern
// draw stage at or below their size.
var archiveRounds = map[string]domain.RoundStage{
	"Q1":   domain.RoundQ1,
	"Q2":   domain.RoundQ2,
	"Q3":   domain.RoundQ3,
	"Q4":   domain.RoundQ3,
	"BR":   domain.RoundBR,
	"RR":   domain.RoundRR,
	"R256": domain.RoundR128,
	"R192": domain.RoundR128,
	"R128": domain.RoundR128,
	"R96":  domain.RoundR64,
	"R64":  domain.RoundR64,
	"R56":  domain.RoundR32,
	"R48":  domain.RoundR32,
	"R32":  domain.RoundR32,
	"R28":  domain.RoundR16,
	"R24":  domain.RoundR16,
	"R16":  domain.RoundR16,
	"QF":   domain.RoundQF,
	"SF":   domain.RoundSF,
	"F":    domain.RoundF,
	"3P":   domain.RoundThirdPlace,
}

// CollapseArchiveRound maps an extended pre-1999 round code onto the
// modern round ladder. Unrecognized codes return RoundUnknown.
func CollapseArchiveRound(code string) domain.RoundStage {
	if stage, ok := archiveRounds[code]; ok {
		return stage
	}
	return domain.RoundUnknown
}
