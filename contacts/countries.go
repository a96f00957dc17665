package contacts

import "github.com/biter777/countries"

// CountryCode converts a country (alpha-2 code, alpha-3 code or English name)
// to the alpha-3 code the CRM expects. Unknown values pass through unchanged.
func CountryCode(code string) string {
	c := countries.ByName(code)
	if c == countries.Unknown {
		return code
	}
	return c.Alpha3()
}
