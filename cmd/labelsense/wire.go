package main

import (
	"log/slog"
	"os"

	"github.com/labelsense/labelsense/internal/common"
	"github.com/labelsense/labelsense/internal/explain"
	"github.com/labelsense/labelsense/internal/extract"
	"github.com/labelsense/labelsense/internal/knowledge"
	"github.com/labelsense/labelsense/internal/llm/openrouter"
	"github.com/labelsense/labelsense/internal/lookup"
)

type app struct {
	cfg       *common.Config
	logger    *slog.Logger
	provider  *openrouter.Client
	extractor *extract.Client
	explainer *explain.Client
}

// buildApp loads configuration and wires the two clients with their
// collaborators. Both entrypoints (serve, analyze) share this.
func buildApp() (*app, error) {
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	provider := openrouter.NewClient(openrouter.Config{
		APIKey:       cfg.LLM.APIKey,
		BaseURL:      cfg.LLM.BaseURL,
		Timeout:      cfg.LLM.Timeout,
		ImageHostURL: cfg.LLM.ImageHostURL,
	}, logger)

	store := knowledge.NewStore(cfg.Knowledge.GlossaryPath, cfg.Knowledge.RiskRulesPath, logger)
	fetcher := lookup.NewFetcher(cfg.Lookup.Timeout, logger)

	extractor := extract.NewClient(provider, cfg.LLM.OCRModel, logger)
	explainer := explain.NewClient(provider, store, fetcher, explain.Config{
		ExplainModel:  cfg.LLM.ExplainModel,
		OCRModel:      cfg.LLM.OCRModel,
		LookupEnabled: cfg.Lookup.Enabled,
		LookupLimit:   cfg.Lookup.Limit,
	}, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		provider:  provider,
		extractor: extractor,
		explainer: explainer,
	}, nil
}
