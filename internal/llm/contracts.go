package llm

import "encoding/json"

// ChatRequest is the provider-agnostic shape of one chat-style model
// call. ResponseFormat is passed through untouched so callers can switch
// between a strict json_schema constraint and a relaxed json_object one.
type ChatRequest struct {
	Model          string
	Temperature    float64
	System         string
	UserText       string
	ImageRef       string // optional: URL or data URI attached to the user message
	ResponseFormat map[string]any
}

// Body assembles the chat/completions request body.
func (r ChatRequest) Body() map[string]any {
	var userContent any = r.UserText
	if r.ImageRef != "" {
		userContent = []map[string]any{
			{"type": "text", "text": r.UserText},
			{"type": "image_url", "image_url": map[string]any{"url": r.ImageRef}},
		}
	}

	body := map[string]any{
		"model":       r.Model,
		"temperature": r.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": r.System},
			{"role": "user", "content": userContent},
		},
	}
	if r.ResponseFormat != nil {
		body["response_format"] = r.ResponseFormat
	}
	return body
}

// StrictFormat wraps a JSON-Schema map as a strict structured-output
// constraint.
func StrictFormat(name string, schema map[string]any) map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   name,
			"strict": true,
			"schema": schema,
		},
	}
}

// RelaxedFormat asks only for a JSON object, with no schema attached.
// Used as the fallback when a provider rejects the strict constraint.
func RelaxedFormat() map[string]any {
	return map[string]any{"type": "json_object"}
}

// envelope mirrors the provider response: each choice's message content
// is either a flat string or a list of typed content chunks.
type envelope struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type contentChunk struct {
	Type       string `json:"type"`
	Text       string `json:"text"`
	OutputText string `json:"output_text"`
}

// ExtractContent pulls the textual payload out of a raw provider
// response. Flat string content wins; otherwise the first chunk exposing
// output_text or text does. Missing choices or empty content yield "".
func ExtractContent(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if len(env.Choices) == 0 {
		return ""
	}
	content := env.Choices[0].Message.Content
	if len(content) == 0 {
		return ""
	}

	var flat string
	if err := json.Unmarshal(content, &flat); err == nil {
		return flat
	}

	var chunks []contentChunk
	if err := json.Unmarshal(content, &chunks); err != nil {
		return ""
	}
	for _, c := range chunks {
		if c.OutputText != "" {
			return c.OutputText
		}
		if c.Text != "" {
			return c.Text
		}
	}
	return ""
}
