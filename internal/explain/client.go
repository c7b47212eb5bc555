// Package explain produces a consumer-friendly ExplanationResult for an
// extraction, enriched with local glossary and risk-rule matches and
// optional external database records.
package explain

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/knowledge"
	"github.com/labelsense/labelsense/internal/llm"
	"github.com/labelsense/labelsense/internal/llm/openrouter"
	"github.com/labelsense/labelsense/internal/lookup"
	"github.com/labelsense/labelsense/internal/normalize"
)

// DefaultModel is the last-resort candidate when neither configured
// model succeeds.
const DefaultModel = "openai/gpt-4o-mini"

// OfflineSummary is the fixed summary used when no credential is
// configured.
const OfflineSummary = "The explanation service is not configured, so no ingredient analysis was performed."

// DefaultLookupLimit caps external lookups per request when the
// configured limit is unset.
const DefaultLookupLimit = 3

// Config narrows the application config to what this client needs.
type Config struct {
	ExplainModel  string
	OCRModel      string
	LookupEnabled bool
	LookupLimit   int
}

// JSONFetcher is the slice of the lookup fetcher this client needs.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, rawURL string, headers map[string]string) (any, error)
}

type Client struct {
	provider *openrouter.Client
	store    *knowledge.Store
	fetcher  JSONFetcher
	cfg      Config
	logger   *slog.Logger
}

func NewClient(provider *openrouter.Client, store *knowledge.Store, fetcher JSONFetcher, cfg Config, logger *slog.Logger) *Client {
	if cfg.LookupLimit <= 0 {
		cfg.LookupLimit = DefaultLookupLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{provider: provider, store: store, fetcher: fetcher, cfg: cfg, logger: logger}
}

// Explain assembles the context for an extraction and walks the
// candidate-model list until one answers. Unusable model output degrades
// to the default result; candidate exhaustion is a terminal error
// carrying the last observed status and body.
func (c *Client) Explain(ctx context.Context, extraction normalize.ExtractionResult) (normalize.ExplanationResult, error) {
	rid := uuid.New().String()
	ctx = common.WithRequestID(ctx, rid)
	start := time.Now()

	if !c.provider.Configured() {
		c.logger.Warn("explain.degraded_no_credential", "req_id", rid)
		return normalize.DefaultExplanation(OfflineSummary), nil
	}

	glossary, rules := c.store.Load(ctx)
	doc := contextDoc{
		Domain:          extraction.Domain,
		Sections:        extraction.Sections,
		Confidence:      extraction.Confidence,
		Ingredients:     extraction.Ingredients,
		GlossaryMatches: knowledge.GlossaryMatches(extraction.Ingredients, glossary),
		RiskMatches:     knowledge.RiskMatches(extraction.Ingredients, rules),
	}
	doc.ExternalRecords = c.fetchExternal(ctx, rid, extraction)

	candidates := Candidates(c.cfg.ExplainModel, c.cfg.OCRModel)
	c.logger.Info("explain.start",
		"req_id", rid,
		"candidates", candidates,
		"ingredients", len(extraction.Ingredients),
		"glossary_matches", len(doc.GlossaryMatches),
		"risk_matches", len(doc.RiskMatches),
		"external_records", len(doc.ExternalRecords),
	)

	content, err := c.tryCandidates(ctx, rid, candidates, doc)
	if err != nil {
		return normalize.ExplanationResult{}, err
	}

	if content == "" {
		c.logger.Warn("explain.empty_content", "req_id", rid)
		return normalize.DefaultExplanation(""), nil
	}
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		c.logger.Warn("explain.unparseable_content", "req_id", rid, "error", err, "content_len", len(content))
		return normalize.DefaultExplanation(""), nil
	}

	out := normalize.ExplanationFromJSON(v)
	c.logger.Info("explain.ok",
		"req_id", rid,
		"items", len(out.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// tryCandidates walks the ordered model list. A 400 or 422 moves to the
// next candidate except on the last one, where it is terminal like any
// other exhaustion; other failure statuses are logged and also move on.
func (c *Client) tryCandidates(ctx context.Context, rid string, candidates []string, doc contextDoc) (string, error) {
	req := llm.ChatRequest{
		System:         llm.BuildExplanationSystemPrompt(),
		UserText:       llm.BuildExplanationUserPrompt(doc),
		ResponseFormat: llm.RelaxedFormat(),
	}

	var lastErr error
	for i, model := range candidates {
		req.Model = model
		content, err := c.provider.Complete(ctx, req)
		if err == nil {
			if i > 0 {
				c.logger.Info("explain.fallback_candidate_succeeded", "req_id", rid, "model", model, "attempt", i+1)
			}
			return content, nil
		}

		lastErr = err
		status := common.StatusOf(err)
		last := i == len(candidates)-1
		if status == http.StatusBadRequest || status == http.StatusUnprocessableEntity {
			if last {
				break
			}
			c.logger.Warn("explain.candidate_rejected", "req_id", rid, "model", model, "status", status)
			continue
		}
		c.logger.Warn("explain.candidate_failed", "req_id", rid, "model", model, "status", status, "error", err)
	}

	c.logger.Error("explain.candidates_exhausted", "req_id", rid, "status", common.StatusOf(lastErr), "error", lastErr)
	return "", common.WrapError(lastErr, "explanation: all candidate models failed")
}

// fetchExternal runs the capped, sequential provider lookups. A single
// failure is logged and skipped; it never aborts the rest.
func (c *Client) fetchExternal(ctx context.Context, rid string, extraction normalize.ExtractionResult) []ExternalRecord {
	if !c.cfg.LookupEnabled || len(extraction.Ingredients) == 0 {
		return nil
	}

	limit := c.cfg.LookupLimit
	if len(extraction.Ingredients) < limit {
		limit = len(extraction.Ingredients)
	}
	host := lookup.ProviderHost(extraction.Domain)

	records := make([]ExternalRecord, 0, limit)
	for _, ing := range extraction.Ingredients[:limit] {
		data, err := c.fetcher.FetchJSON(ctx, lookup.SearchURL(host, ing), nil)
		if err != nil {
			c.logger.Warn("explain.lookup_skipped", "req_id", rid, "ingredient", ing, "host", host, "error", err)
			continue
		}
		records = append(records, ExternalRecord{Ingredient: ing, Source: host, Data: data})
	}
	return records
}
