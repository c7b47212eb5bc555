// Package extract turns a label image reference into a normalized
// ExtractionResult via a vision-capable model.
package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/llm"
	"github.com/labelsense/labelsense/internal/llm/openrouter"
	"github.com/labelsense/labelsense/internal/normalize"
)

type Client struct {
	provider *openrouter.Client
	model    string
	logger   *slog.Logger
}

func NewClient(provider *openrouter.Client, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{provider: provider, model: model, logger: logger}
}

// Extract obtains an ExtractionResult for an image reference (fetchable
// URL or data URI). A missing credential degrades to the default result
// rather than erroring. The first attempt carries a strict output-schema
// constraint; a 400 or 422 answer means the provider did not understand
// it, so one retry goes out with a relaxed json_object format. Any other
// failure, or failure of the retry, is terminal.
func (c *Client) Extract(ctx context.Context, imageRef string) (normalize.ExtractionResult, error) {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	start := time.Now()

	if strings.TrimSpace(imageRef) == "" {
		return normalize.ExtractionResult{}, common.NewAppError("EXTRACT_INPUT", "image reference is required", common.ErrInvalidInput)
	}

	if !c.provider.Configured() {
		c.logger.Warn("extract.degraded_no_credential", "req_id", rid)
		return normalize.DefaultExtraction(), nil
	}

	schema := llm.BuildExtractionJSONSchema()
	req := llm.ChatRequest{
		Model:          c.model,
		System:         llm.BuildExtractionSystemPrompt(),
		UserText:       llm.BuildExtractionUserPrompt(),
		ImageRef:       imageRef,
		ResponseFormat: llm.StrictFormat("label_extraction", schema),
	}

	c.logger.Info("extract.start", "req_id", rid, "model", c.model)

	content, err := c.provider.Complete(ctx, req)
	if err != nil {
		status := common.StatusOf(err)
		if status != http.StatusBadRequest && status != http.StatusUnprocessableEntity {
			c.logger.Error("extract.http_error", "req_id", rid, "status", status, "error", err,
				"elapsed_ms", time.Since(start).Milliseconds())
			return normalize.ExtractionResult{}, common.WrapError(err, "vision extraction")
		}

		// Provider rejected the strict schema; retry once relaxed.
		c.logger.Warn("extract.schema_rejected_retry_relaxed", "req_id", rid, "status", status)
		req.ResponseFormat = llm.RelaxedFormat()
		content, err = c.provider.Complete(ctx, req)
		if err != nil {
			c.logger.Error("extract.relaxed_retry_failed", "req_id", rid, "status", common.StatusOf(err), "error", err,
				"elapsed_ms", time.Since(start).Milliseconds())
			return normalize.ExtractionResult{}, common.WrapError(err, "vision extraction (relaxed)")
		}
	}

	if content == "" {
		c.logger.Warn("extract.empty_content", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return normalize.DefaultExtraction(), nil
	}

	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		c.logger.Warn("extract.unparseable_content", "req_id", rid, "error", err, "content_len", len(content))
		return normalize.DefaultExtraction(), nil
	}

	// Diagnostic only: a mismatch here is absorbed by the normalizer.
	if err := llm.ValidateJSONAgainstSchema(schema, []byte(content)); err != nil {
		c.logger.Warn("extract.schema_mismatch", "req_id", rid, "error", err)
	}

	out := normalize.ExtractionFromJSON(v)
	c.logger.Info("extract.ok",
		"req_id", rid,
		"domain", out.Domain,
		"ingredients", len(out.Ingredients),
		"confidence", out.Confidence,
		"language", out.Language,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
