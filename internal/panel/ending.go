package panel

import "strings"

// EndingTokens is the closed set of match-ending annotations. The exact
// tokens are source-specific, so they are configuration, not literals
// scattered through the builder.
type EndingTokens struct {
	Retirement []string
	Walkover   []string
}

// DefaultEndingTokens returns the annotation tokens observed across the
// upstream extraction sources.
func DefaultEndingTokens() EndingTokens {
	return EndingTokens{
		Retirement: []string{"(RET)", "RET", "(WEA)", "(ABN)"},
		Walkover:   []string{"(W/O)", "W/O", "(WO)", "(DEF)"},
	}
}

// Detect classifies a raw ending annotation. An empty annotation is a
// normal completion. The third return is false for a non-empty token
// outside the configured set; such matches are treated as normal
// completions and counted as data-quality warnings by the builder.
func (e EndingTokens) Detect(annotation string) (retirement, walkover, recognized bool) {
	token := strings.ToUpper(strings.TrimSpace(annotation))
	if token == "" {
		return false, false, true
	}
	for _, t := range e.Retirement {
		if token == strings.ToUpper(t) {
			return true, false, true
		}
	}
	for _, t := range e.Walkover {
		if token == strings.ToUpper(t) {
			return false, true, true
		}
	}
	return false, false, false
}

// ExtractAnnotation pulls a trailing ending annotation out of a raw score
// string, returning the score without it. Scores like "64 36 2-1 (RET)"
// keep the set chunks intact.
func (e EndingTokens) ExtractAnnotation(score string) (clean, annotation string) {
	fields := strings.Fields(score)
	if len(fields) == 0 {
		return score, ""
	}
	last := fields[len(fields)-1]
	if _, _, recognized := e.Detect(last); recognized && last != "" {
		if isEndingToken(e, last) {
			return strings.Join(fields[:len(fields)-1], " "), last
		}
	}
	return score, ""
}

func isEndingToken(e EndingTokens, token string) bool {
	ret, wo, _ := e.Detect(token)
	return ret || wo
}
