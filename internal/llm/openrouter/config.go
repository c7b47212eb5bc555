package openrouter

import (
	"log/slog"
	"net/http"
	"time"
)

// Config for the OpenRouter client. All values come from the application
// config; this package never reads the environment itself.
type Config struct {
	APIKey       string        // empty means degraded mode: no calls are made
	BaseURL      string        // default https://openrouter.ai/api/v1
	Temperature  float64       // low temperature keeps extraction literal
	Timeout      time.Duration // http client timeout
	ImageHostURL string        // optional multipart file-hosting endpoint
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether a credential is present. Callers short-
// circuit to their degraded defaults when it is not.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Temperature exposes the configured sampling temperature.
func (c *Client) Temperature() float64 {
	return c.cfg.Temperature
}
