package normalize

import (
	"strings"

	"github.com/labelsense/labelsense/constants"
)

// Fallback texts used when the model omits summary or disclaimer, or when
// its output is unusable altogether.
const (
	DefaultSummary    = "No summary was produced for this label."
	DefaultDisclaimer = "This explanation is for general information only and is not medical, legal, or regulatory advice. Always read the product packaging and consult a professional when in doubt."
)

// ExplanationItem is one per-ingredient entry in the explanation.
type ExplanationItem struct {
	Name      string              `json:"name"`
	Function  string              `json:"function"`
	RiskLevel constants.RiskLevel `json:"risk_level"`
	Why       string              `json:"why"`
	Certainty float64             `json:"certainty"`
	Sources   []string            `json:"sources"`
}

// ExplanationResult is the normalized output of the explanation step.
type ExplanationResult struct {
	Summary    string            `json:"summary"`
	Items      []ExplanationItem `json:"items"`
	Disclaimer string            `json:"disclaimer"`
}

// DefaultExplanation is the safe fallback result. The summary is
// overridable so callers can distinguish "service offline" from
// "model output unusable".
func DefaultExplanation(summary string) ExplanationResult {
	if strings.TrimSpace(summary) == "" {
		summary = DefaultSummary
	}
	return ExplanationResult{
		Summary:    summary,
		Items:      []ExplanationItem{},
		Disclaimer: DefaultDisclaimer,
	}
}

// ExplanationFromJSON coerces an arbitrary decoded JSON value into an
// ExplanationResult. Summary and disclaimer fall back independently when
// not present as non-empty strings.
func ExplanationFromJSON(v any) ExplanationResult {
	m, ok := v.(map[string]any)
	if !ok {
		return DefaultExplanation("")
	}

	out := ExplanationResult{
		Summary:    DefaultSummary,
		Disclaimer: DefaultDisclaimer,
		Items:      Items(m["items"]),
	}
	if s, ok := m["summary"].(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out.Summary = trimmed
		}
	}
	if d, ok := m["disclaimer"].(string); ok {
		if trimmed := strings.TrimSpace(d); trimmed != "" {
			out.Disclaimer = trimmed
		}
	}
	return out
}

// RiskLevelFrom matches exactly against the four literals; anything else
// is Unknown. Unparseable levels are never dropped, only downgraded.
func RiskLevelFrom(v any) constants.RiskLevel {
	if s, ok := v.(string); ok && constants.IsRiskLevel(s) {
		return constants.RiskLevel(s)
	}
	return constants.RiskUnknown
}

// Certainty follows the same clamp-and-round rule as Confidence.
func Certainty(v any) float64 {
	return Confidence(v)
}

// Items normalizes the per-ingredient list. Non-list input yields an
// empty sequence; list elements that are not objects are dropped.
func Items(v any) []ExplanationItem {
	list, ok := v.([]any)
	if !ok {
		return []ExplanationItem{}
	}

	out := make([]ExplanationItem, 0, len(list))
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		item := ExplanationItem{
			Name:      "Unknown",
			RiskLevel: RiskLevelFrom(m["risk_level"]),
			Certainty: Certainty(m["certainty"]),
			Sources:   stringList(m["sources"]),
		}
		if s, ok := m["name"].(string); ok {
			item.Name = s
		}
		if s, ok := m["function"].(string); ok {
			item.Function = s
		}
		if s, ok := m["why"].(string); ok {
			item.Why = s
		}
		out = append(out, item)
	}
	return out
}

// stringList filters a decoded list down to its non-empty trimmed
// strings; non-list input yields an empty list.
func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := []string{}
	for _, e := range list {
		if s, ok := e.(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
