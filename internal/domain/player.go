package domain

// Player holds static player master attributes.
// Corresponds to the players staging table.
type Player struct {
	Code      string // opaque player identifier
	Hand      string // "R" | "L" | ""
	Backhand  string // "1" | "2" | ""
	TurnedPro int    // year, 0 when unknown
	HeightCm  int
	WeightKg  int
	Country   string // citizenship, IOC code
}
