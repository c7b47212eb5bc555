package constants

// RiskLevel is the qualitative safety tier assigned to one ingredient.
type RiskLevel string

const (
	RiskGreen   RiskLevel = "Green"
	RiskYellow  RiskLevel = "Yellow"
	RiskRed     RiskLevel = "Red"
	RiskUnknown RiskLevel = "Unknown" // also the fallback for unparseable input
)

var allRiskLevels = []RiskLevel{RiskGreen, RiskYellow, RiskRed, RiskUnknown}

// RiskLevels returns the allowed risk levels as strings, for schema enums.
func RiskLevels() []string {
	result := make([]string, len(allRiskLevels))
	for i, r := range allRiskLevels {
		result[i] = string(r)
	}
	return result
}

// IsRiskLevel reports whether input is exactly one of the four literals.
func IsRiskLevel(input string) bool {
	for _, r := range allRiskLevels {
		if input == string(r) {
			return true
		}
	}
	return false
}
