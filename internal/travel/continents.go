package travel

// Continent names used by the change detector.
const (
	ContinentEurope       = "Europe"
	ContinentAsia         = "Asia"
	ContinentAfrica       = "Africa"
	ContinentNorthAmerica = "North America"
	ContinentSouthAmerica = "South America"
	ContinentOceania      = "Oceania"
)

// continents maps IOC country codes to continents. Unmapped codes make
// the continent-change flag missing rather than false.
var continents = map[string]string{
	// Europe
	"ALB": ContinentEurope, "AND": ContinentEurope, "ARM": ContinentEurope,
	"AUT": ContinentEurope, "AZE": ContinentEurope, "BEL": ContinentEurope,
	"BIH": ContinentEurope, "BLR": ContinentEurope, "BUL": ContinentEurope,
	"CRO": ContinentEurope, "CYP": ContinentEurope, "CZE": ContinentEurope,
	"DEN": ContinentEurope, "ESP": ContinentEurope, "EST": ContinentEurope,
	"FIN": ContinentEurope, "FRA": ContinentEurope, "GBR": ContinentEurope,
	"GEO": ContinentEurope, "GER": ContinentEurope, "GRE": ContinentEurope,
	"HUN": ContinentEurope, "IRL": ContinentEurope, "ISL": ContinentEurope,
	"ITA": ContinentEurope, "LAT": ContinentEurope, "LIE": ContinentEurope,
	"LTU": ContinentEurope, "LUX": ContinentEurope, "MDA": ContinentEurope,
	"MKD": ContinentEurope, "MLT": ContinentEurope, "MNE": ContinentEurope,
	"MON": ContinentEurope, "NED": ContinentEurope, "NOR": ContinentEurope,
	"POL": ContinentEurope, "POR": ContinentEurope, "ROU": ContinentEurope,
	"RUS": ContinentEurope, "SLO": ContinentEurope, "SRB": ContinentEurope,
	"SUI": ContinentEurope, "SVK": ContinentEurope, "SWE": ContinentEurope,
	"TUR": ContinentEurope, "UKR": ContinentEurope,

	// Asia
	"BAN": ContinentAsia, "BRN": ContinentAsia, "CHN": ContinentAsia,
	"HKG": ContinentAsia, "INA": ContinentAsia, "IND": ContinentAsia,
	"IRI": ContinentAsia, "ISR": ContinentAsia, "JOR": ContinentAsia,
	"JPN": ContinentAsia, "KAZ": ContinentAsia, "KOR": ContinentAsia,
	"KSA": ContinentAsia, "KUW": ContinentAsia, "LIB": ContinentAsia,
	"MAS": ContinentAsia, "PAK": ContinentAsia, "PHI": ContinentAsia,
	"QAT": ContinentAsia, "SIN": ContinentAsia, "SRI": ContinentAsia,
	"THA": ContinentAsia, "TPE": ContinentAsia, "UAE": ContinentAsia,
	"UZB": ContinentAsia, "VIE": ContinentAsia,

	// Africa
	"ALG": ContinentAfrica, "CIV": ContinentAfrica, "EGY": ContinentAfrica,
	"GHA": ContinentAfrica, "KEN": ContinentAfrica, "MAR": ContinentAfrica,
	"NGR": ContinentAfrica, "RSA": ContinentAfrica, "SEN": ContinentAfrica,
	"TUN": ContinentAfrica, "ZIM": ContinentAfrica,

	// Americas
	"BAH": ContinentNorthAmerica, "BAR": ContinentNorthAmerica,
	"CAN": ContinentNorthAmerica, "CRC": ContinentNorthAmerica,
	"CUB": ContinentNorthAmerica, "DOM": ContinentNorthAmerica,
	"ESA": ContinentNorthAmerica, "GUA": ContinentNorthAmerica,
	"HAI": ContinentNorthAmerica, "JAM": ContinentNorthAmerica,
	"MEX": ContinentNorthAmerica, "PAN": ContinentNorthAmerica,
	"PUR": ContinentNorthAmerica, "USA": ContinentNorthAmerica,
	"ARG": ContinentSouthAmerica, "BOL": ContinentSouthAmerica,
	"BRA": ContinentSouthAmerica, "CHI": ContinentSouthAmerica,
	"COL": ContinentSouthAmerica, "ECU": ContinentSouthAmerica,
	"PAR": ContinentSouthAmerica, "PER": ContinentSouthAmerica,
	"URU": ContinentSouthAmerica, "VEN": ContinentSouthAmerica,

	// Oceania
	"AUS": ContinentOceania, "FIJ": ContinentOceania, "NZL": ContinentOceania,
}

// ContinentOf returns the continent for an IOC country code.
func ContinentOf(country string) (string, bool) {
	c, ok := continents[country]
	return c, ok
}
