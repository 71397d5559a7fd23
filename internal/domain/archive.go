package domain

import "time"

// ArchiveMatch is one pre-1999 historical result used to seed the
// stateful engines (Elo, rolling form, H2H, rest proxies).
// Corresponds to the archive_matches staging table.
type ArchiveMatch struct {
	Date           time.Time // match or tournament date, UTC
	TournamentID   string    // historical tournament identifier
	TournamentName string
	Surface        Surface // normalized surface
	Country        string  // tournament country (IOC code), may be empty
	RoundCode      string  // extended pre-1999 round code, collapsed downstream
	WinnerCode     string
	LoserCode      string
}
