package domain

import "strings"

// Surface is the court surface of a tournament.
// Closed domain: unrecognized values map to SurfaceUnknown, never coerced.
type Surface string

const (
	SurfaceClay    Surface = "Clay"
	SurfaceGrass   Surface = "Grass"
	SurfaceHard    Surface = "Hard"
	SurfaceCarpet  Surface = "Carpet"
	SurfaceUnknown Surface = "Unknown"
)

// Surfaces lists the canonical surfaces, excluding the unknown sentinel.
var Surfaces = []Surface{SurfaceClay, SurfaceGrass, SurfaceHard, SurfaceCarpet}

// ParseSurface normalizes a raw surface label.
// Unrecognized labels return SurfaceUnknown.
func ParseSurface(raw string) Surface {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clay":
		return SurfaceClay
	case "grass":
		return SurfaceGrass
	case "hard", "hardcourt":
		return SurfaceHard
	case "carpet":
		return SurfaceCarpet
	default:
		return SurfaceUnknown
	}
}

// Known reports whether the surface is one of the four canonical values.
func (s Surface) Known() bool {
	return s == SurfaceClay || s == SurfaceGrass || s == SurfaceHard || s == SurfaceCarpet
}

// RoundStage is the stage of a match within a tournament draw.
type RoundStage string

const (
	RoundQ1         RoundStage = "Q1"
	RoundQ2         RoundStage = "Q2"
	RoundQ3         RoundStage = "Q3"
	RoundBR         RoundStage = "BR" // bronze / playoff round
	RoundRR         RoundStage = "RR" // round robin
	RoundR128       RoundStage = "R128"
	RoundR64        RoundStage = "R64"
	RoundR32        RoundStage = "R32"
	RoundR16        RoundStage = "R16"
	RoundQF         RoundStage = "QF"
	RoundSF         RoundStage = "SF"
	RoundF          RoundStage = "F"
	RoundThirdPlace RoundStage = "3P"
	RoundUnknown    RoundStage = "?"
)

// ParseRoundStage normalizes a raw round label.
// Unrecognized labels return RoundUnknown.
func ParseRoundStage(raw string) RoundStage {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "Q1":
		return RoundQ1
	case "Q2":
		return RoundQ2
	case "Q3":
		return RoundQ3
	case "BR":
		return RoundBR
	case "RR":
		return RoundRR
	case "R128":
		return RoundR128
	case "R64":
		return RoundR64
	case "R32":
		return RoundR32
	case "R16":
		return RoundR16
	case "QF":
		return RoundQF
	case "SF":
		return RoundSF
	case "F":
		return RoundF
	case "3P":
		return RoundThirdPlace
	default:
		return RoundUnknown
	}
}

// Known reports whether the stage is part of the canonical ladder.
func (r RoundStage) Known() bool {
	return r != RoundUnknown && r != ""
}

// MatchResult is the outcome of a match from one player's perspective.
type MatchResult string

const (
	ResultWin  MatchResult = "win"
	ResultLoss MatchResult = "loss"
)

// TrendCategory classifies a ranking trajectory window.
type TrendCategory string

const (
	TrendImproving TrendCategory = "improving"
	TrendStable    TrendCategory = "stable"
	TrendDeclining TrendCategory = "declining"
)
