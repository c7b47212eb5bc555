package constants

// Domain is the coarse product category guessed from a label image.
type Domain string

// Stable values (these exact strings appear on the wire).
const (
	DomainFood     Domain = "food"
	DomainDrug     Domain = "drug"
	DomainCosmetic Domain = "cosmetic"
	DomainMixed    Domain = "mixed" // fallback when nothing else matches
)

var allDomains = []Domain{DomainFood, DomainDrug, DomainCosmetic, DomainMixed}

// Domains returns the allowed domain values as strings, for schema enums.
func Domains() []string {
	result := make([]string, len(allDomains))
	for i, d := range allDomains {
		result[i] = string(d)
	}
	return result
}

// IsDomain reports whether input is exactly one of the allowed domain
// literals. No partial or case-insensitive matching.
func IsDomain(input string) bool {
	for _, d := range allDomains {
		if input == string(d) {
			return true
		}
	}
	return false
}
