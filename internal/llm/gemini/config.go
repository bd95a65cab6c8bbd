package gemini

import (
	"os"
	"strconv"

	"mockprep/interview/internal/llm"
)

const (
	defaultModel           = "gemini-2.5-flash"
	defaultTemperature     = 0.4
	defaultMaxOutputTokens = 4096
)

// Config is read from GEMINI_* variables.
type Config struct {
	APIKey          string
	Model           string
	BaseURL         string
	Temperature     float32
	MaxOutputTokens int32
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "GEMINI_API_KEY environment variable is required",
		}
	}

	cfg := &Config{
		APIKey:          apiKey,
		Model:           defaultModel,
		BaseURL:         os.Getenv("GEMINI_BASE_URL"),
		Temperature:     defaultTemperature,
		MaxOutputTokens: defaultMaxOutputTokens,
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}
	if v, err := strconv.ParseFloat(os.Getenv("GEMINI_TEMPERATURE"), 32); err == nil && v >= 0 && v <= 2 {
		cfg.Temperature = float32(v)
	}
	if v, err := strconv.Atoi(os.Getenv("GEMINI_MAX_OUTPUT_TOKENS")); err == nil && v > 0 {
		cfg.MaxOutputTokens = int32(v)
	}
	return cfg, nil
}
