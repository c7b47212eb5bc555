package llm

import (
	"encoding/json"
	"strings"

	"github.com/labelsense/labelsense/constants"
)

// BuildExtractionSystemPrompt composes the fixed system instruction for
// the vision extraction call.
func BuildExtractionSystemPrompt() string {
	parts := []string{
		"You are a product-label reader. Return ONLY JSON that matches the provided JSON Schema.",
		"Extract only what is visible on the label. Do not invent ingredients, warnings, or claims.",
		"domain_guess must be exactly one of: " + strings.Join(constants.Domains(), ", ") + ".",
		"List ingredients in the order printed on the label.",
		"Copy warning text verbatim into sections.warnings and marketing claims into sections.claims.",
		"confidence is your own estimate in [0,1] of how completely and correctly you read the label.",
		"Detect the predominant language of the label and report it as a BCP-47 tag in 'language'.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildExtractionUserPrompt is the short user message that accompanies
// the attached image.
func BuildExtractionUserPrompt() string {
	return "Read this product label photo and extract its ingredient list, warnings, and claims."
}

// BuildExplanationSystemPrompt composes the fixed system instruction for
// the explanation call.
func BuildExplanationSystemPrompt() string {
	parts := []string{
		"You explain product-label ingredients to lay consumers. Return ONLY strict JSON with keys: summary, items, disclaimer.",
		"Each item has: name, function, risk_level, why, certainty, sources.",
		"risk_level must be exactly one of: " + strings.Join(constants.RiskLevels(), ", ") + ". Use Unknown when uncertain.",
		"Cite your sources per item: glossary, rules, or the external database records given in the context.",
		"Write plainly, no jargon. Do not give medical or regulatory advice.",
		"certainty is your own estimate in [0,1] per item.",
	}
	return strings.Join(parts, " ")
}

// BuildExplanationUserPrompt serializes the assembled context document
// into the user message.
func BuildExplanationUserPrompt(contextDoc any) string {
	var b strings.Builder
	b.WriteString("Explain the ingredients of this product for a consumer.\n\nContext:\n")
	raw, err := json.MarshalIndent(contextDoc, "", "  ")
	if err != nil {
		// context comes from our own structs; this should not happen
		b.WriteString("{}")
	} else {
		b.Write(raw)
	}
	return b.String()
}
