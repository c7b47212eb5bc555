package explain

import (
	"github.com/labelsense/labelsense/constants"
	"github.com/labelsense/labelsense/internal/knowledge"
	"github.com/labelsense/labelsense/internal/normalize"
)

// ExternalRecord is one opaque pass-through document fetched from a
// lookup provider for a single ingredient.
type ExternalRecord struct {
	Ingredient string `json:"ingredient"`
	Source     string `json:"source"` // provider hostname
	Data       any    `json:"data"`
}

// contextDoc is the document serialized into the explanation prompt. It
// combines the extraction output with local matches and any external
// records fetched for this request.
type contextDoc struct {
	Domain          constants.Domain                   `json:"domain_guess"`
	Sections        normalize.Sections                 `json:"sections"`
	Confidence      float64                            `json:"confidence"`
	Ingredients     []string                           `json:"ingredients"`
	GlossaryMatches map[string]knowledge.GlossaryEntry `json:"glossary_matches,omitempty"`
	RiskMatches     map[string][]knowledge.RiskRule    `json:"risk_matches,omitempty"`
	ExternalRecords []ExternalRecord                   `json:"external_records,omitempty"`
}

// Candidates returns the deduplicated, ordered model-fallback list: the
// configured explanation model, then the OCR model, then the hardcoded
// default. First success wins; exhaustion is terminal.
func Candidates(explainModel, ocrModel string) []string {
	ordered := []string{explainModel, ocrModel, DefaultModel}
	seen := make(map[string]struct{}, len(ordered))
	out := make([]string, 0, len(ordered))
	for _, m := range ordered {
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
