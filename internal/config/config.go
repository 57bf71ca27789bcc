package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"quotelens/adapters/llm"
	"quotelens/domain/quote"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	LLM        llm.Config
	Thresholds quote.Thresholds
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// Load reads configuration from an optional .env file and the environment.
// Missing values fall back to defaults; only the LLM API key has no default.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Config] No .env file found, using environment variables")
	}

	llmConfig := llm.DefaultConfig()
	llmConfig.APIKey = os.Getenv("OPENAI_API_KEY")
	llmConfig.BaseURL = getEnvOrDefault("LLM_BASE_URL", llmConfig.BaseURL)
	llmConfig.Timeout = getEnvDurationOrDefault("LLM_TIMEOUT", llmConfig.Timeout)
	llmConfig.Temperature = getEnvFloatOrDefault("LLM_TEMPERATURE", llmConfig.Temperature)
	llmConfig.MaxTokens = getEnvIntOrDefault("LLM_MAX_TOKENS", llmConfig.MaxTokens)
	if models := os.Getenv("LLM_MODELS"); models != "" {
		llmConfig.Models = splitModels(models)
	}

	thresholds := quote.DefaultThresholds()
	thresholds.HighAcceptance = getEnvFloatOrDefault("HIGH_ACCEPTANCE_CUTOFF", thresholds.HighAcceptance)
	thresholds.LowAcceptance = getEnvFloatOrDefault("LOW_ACCEPTANCE_CUTOFF", thresholds.LowAcceptance)
	thresholds.ConfidenceSampleCut = getEnvIntOrDefault("CONFIDENCE_SAMPLE_CUT", thresholds.ConfidenceSampleCut)

	return &Config{
		Server:     ServerConfig{Port: getEnvOrDefault("PORT", "8080")},
		LLM:        llmConfig,
		Thresholds: thresholds,
	}
}

func splitModels(raw string) []string {
	var models []string
	for _, m := range strings.Split(raw, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDurationOrDefault(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
