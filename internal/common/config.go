package common

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Lookup    LookupConfig
	Knowledge KnowledgeConfig
}

// ServerConfig holds the HTTP boundary configuration
type ServerConfig struct {
	Addr       string
	MaxImageMB int
}

// LLMConfig holds upstream model provider configuration
type LLMConfig struct {
	BaseURL      string
	APIKey       string
	OCRModel     string
	ExplainModel string // optional; OCRModel is used when empty
	ImageHostURL string // optional multipart file-hosting endpoint
	Timeout      time.Duration
}

// LookupConfig holds the external ingredient-lookup configuration
type LookupConfig struct {
	Enabled bool
	Limit   int
	Timeout time.Duration
}

// KnowledgeConfig holds paths to the local read-only documents
type KnowledgeConfig struct {
	GlossaryPath  string
	RiskRulesPath string
}

// LoadConfig loads configuration from environment variables. A .env file
// in the working directory is honored when present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Addr:       getEnv("HTTP_ADDR", ":8080"),
			MaxImageMB: getEnvAsInt("MAX_IMAGE_MB", 8),
		},
		LLM: LLMConfig{
			BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			APIKey:       getEnv("OPENROUTER_API_KEY", ""),
			OCRModel:     getEnv("OCR_MODEL", "openai/gpt-4o-mini"),
			ExplainModel: getEnv("EXPLAIN_MODEL", ""),
			ImageHostURL: getEnv("IMAGE_HOST_URL", ""),
			Timeout:      getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
		},
		Lookup: LookupConfig{
			Enabled: getEnvAsBool("EXTERNAL_LOOKUP", false),
			Limit:   getEnvAsInt("EXTERNAL_LOOKUP_LIMIT", 3),
			Timeout: getEnvAsDuration("LOOKUP_TIMEOUT", 6*time.Second),
		},
		Knowledge: KnowledgeConfig{
			GlossaryPath:  getEnv("GLOSSARY_PATH", "./data/glossary.json"),
			RiskRulesPath: getEnv("RISK_RULES_PATH", "./data/risk_rules.json"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the loaded configuration. A missing API key is NOT an
// error: the clients degrade to fixed default results without it.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Lookup.Limit < 0 {
		return NewAppError("CONFIG_ERROR", "EXTERNAL_LOOKUP_LIMIT must be >= 0", ErrInvalidInput)
	}
	if c.Server.MaxImageMB <= 0 {
		return NewAppError("CONFIG_ERROR", "MAX_IMAGE_MB must be positive", ErrInvalidInput)
	}
	return nil
}
