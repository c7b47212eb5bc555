// Package normalize is the trust boundary for model output. Every
// function takes an arbitrary decoded JSON value and produces a complete,
// strictly-typed value. Nothing here returns an error or panics:
// malformed input degrades to a documented default.
package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	"github.com/labelsense/labelsense/constants"
)

// Sections carries the optional label sections picked up alongside the
// ingredient list.
type Sections struct {
	Warnings string   `json:"warnings,omitempty"`
	Claims   []string `json:"claims,omitempty"`
}

// ExtractionResult is the normalized output of the vision step.
type ExtractionResult struct {
	Domain      constants.Domain `json:"domain_guess"`
	Ingredients []string         `json:"ingredients"`
	Sections    Sections         `json:"sections"`
	Confidence  float64          `json:"confidence"`
	Language    string           `json:"language"`
}

// DefaultExtraction is the degraded result used when the upstream call is
// skipped or its output is unusable.
func DefaultExtraction() ExtractionResult {
	return ExtractionResult{
		Domain:      constants.DomainMixed,
		Ingredients: []string{},
		Confidence:  0,
		Language:    "en",
	}
}

// ExtractionFromJSON coerces an arbitrary decoded JSON value into an
// ExtractionResult. Non-object input yields the default result. The
// empty-ingredient confidence cap is applied last: no evidence means
// confidence cannot exceed 0.2 regardless of what the model reported.
func ExtractionFromJSON(v any) ExtractionResult {
	m, ok := v.(map[string]any)
	if !ok {
		return DefaultExtraction()
	}

	out := ExtractionResult{
		Domain:      Domain(m["domain_guess"]),
		Ingredients: Ingredients(m["ingredients"]),
		Sections:    SectionsFrom(m["sections"]),
		Confidence:  Confidence(m["confidence"]),
		Language:    Language(m["language"]),
	}
	if len(out.Ingredients) == 0 {
		out.Confidence = math.Min(out.Confidence, 0.2)
	}
	return out
}

// Domain returns v unchanged only when it is exactly one of the four
// allowed literals; anything else collapses to mixed.
func Domain(v any) constants.Domain {
	if s, ok := v.(string); ok && constants.IsDomain(s) {
		return constants.Domain(s)
	}
	return constants.DomainMixed
}

// ingredient separators: newline and bullet first, then ";" and ","
func isHardSep(r rune) bool { return r == '\n' || r == '•' }
func isSoftSep(r rune) bool { return r == ';' || r == ',' }

// Ingredients accepts a single string or a list of strings; anything else
// yields an empty list. Fragments are trimmed, lowercased, emptied-out
// fragments discarded, and duplicates removed preserving first-seen order.
// Non-string list elements are skipped without error.
func Ingredients(v any) []string {
	var texts []string
	switch t := v.(type) {
	case string:
		texts = []string{t}
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				texts = append(texts, s)
			}
		}
	default:
		return []string{}
	}

	seen := make(map[string]struct{})
	out := []string{}
	for _, text := range texts {
		for _, line := range strings.FieldsFunc(text, isHardSep) {
			for _, frag := range strings.FieldsFunc(line, isSoftSep) {
				ing := strings.ToLower(strings.TrimSpace(frag))
				if ing == "" {
					continue
				}
				if _, dup := seen[ing]; dup {
					continue
				}
				seen[ing] = struct{}{}
				out = append(out, ing)
			}
		}
	}
	return out
}

// SectionsFrom copies warnings only when a non-empty string, and claims
// only when a list with at least one non-empty trimmed string survives
// filtering; an empty filtered list is omitted, not kept as [].
func SectionsFrom(v any) Sections {
	m, ok := v.(map[string]any)
	if !ok {
		return Sections{}
	}

	var out Sections
	if w, ok := m["warnings"].(string); ok {
		if trimmed := strings.TrimSpace(w); trimmed != "" {
			out.Warnings = trimmed
		}
	}
	if list, ok := m["claims"].([]any); ok {
		var claims []string
		for _, e := range list {
			if s, ok := e.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					claims = append(claims, trimmed)
				}
			}
		}
		out.Claims = claims // nil when nothing survived
	}
	return out
}

// Confidence clamps numeric input to [0,1] and rounds to 3 decimals.
// Non-numeric or NaN input yields 0.
func Confidence(v any) float64 {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) {
		return 0
	}
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	return math.Round(f*1000) / 1000
}

var reLanguageTag = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})*$`)

// Language lowercases a BCP-47-like tag and validates it against a 2-3
// letter primary subtag with optional 2-8 alphanumeric subtags. Anything
// else falls back to "en".
func Language(v any) string {
	s, ok := v.(string)
	if !ok {
		return "en"
	}
	tag := strings.ToLower(strings.TrimSpace(s))
	if tag == "" || !reLanguageTag.MatchString(tag) {
		return "en"
	}
	return tag
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
