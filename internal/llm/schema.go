package llm

import "github.com/labelsense/labelsense/constants"

// BuildExtractionJSONSchema returns the strict output schema for the
// vision extraction call as a generic map. We pass this to the provider
// as a structured-output constraint and also use it locally to validate.
func BuildExtractionJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"domain_guess": map[string]any{
				"type": "string",
				"enum": constants.Domains(),
			},
			"ingredients": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"sections": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"warnings": map[string]any{"type": "string"},
					"claims": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
			},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"language":   map[string]any{"type": "string"},
		},
		"required": []string{"domain_guess", "ingredients", "confidence"},
	}
}

// BuildExplanationJSONSchema returns the expected explanation shape.
// The explanation call never sends a strict constraint (candidate models
// vary in schema support), but the schema documents the contract and the
// normalizer enforces it field by field.
func BuildExplanationJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"summary": map[string]any{"type": "string"},
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":     map[string]any{"type": "string"},
						"function": map[string]any{"type": "string"},
						"risk_level": map[string]any{
							"type": "string",
							"enum": constants.RiskLevels(),
						},
						"why":       map[string]any{"type": "string"},
						"certainty": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
						"sources": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
				},
			},
			"disclaimer": map[string]any{"type": "string"},
		},
		"required": []string{"summary", "items"},
	}
}
