package domain

import "time"

// Tournament holds tournament metadata attached to every panel row.
// Corresponds to the tournaments staging table.
type Tournament struct {
	ID        string    // opaque tournament identifier
	Name      string    // display name, second key of the canonical order
	StartDate time.Time // UTC date, first key of the canonical order
	Surface   Surface   // normalized surface
	Indoor    bool      // indoor venue flag
	Country   string    // IOC country code of the venue
	Category  string    // series category (GS, 1000, ATP, CH...)
	PrizeUSD  float64   // total prize money, USD
}
