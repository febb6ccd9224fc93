package discovery

// countryNames covers the countries appearing in provider country tables.
// Codes outside the map fall back to the code itself.
var countryNames = map[string]string{
	"CI": "Côte d'Ivoire",
	"CM": "Cameroon",
	"EG": "Egypt",
	"ET": "Ethiopia",
	"GH": "Ghana",
	"KE": "Kenya",
	"MW": "Malawi",
	"NG": "Nigeria",
	"RW": "Rwanda",
	"SN": "Senegal",
	"TZ": "Tanzania",
	"UG": "Uganda",
	"ZA": "South Africa",
	"ZM": "Zambia",
}

// CountryName returns the display name for an alpha-2 code.
func CountryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}
