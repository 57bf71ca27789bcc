package llm

import "time"

// Config holds the settings for the external prediction adapter.
type Config struct {
	APIKey      string        `json:"-"`
	BaseURL     string        `json:"base_url"`
	Models      []string      `json:"models"` // tried in order until one answers
	Timeout     time.Duration `json:"timeout"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// DefaultModels is the ordered fallback list. The first model that answers
// stays selected for the rest of the session.
var DefaultModels = []string{
	"gpt-4o-mini",
	"gpt-4o",
	"gpt-4.1-mini",
	"gpt-3.5-turbo",
}

// DefaultConfig returns sensible defaults; the API key must come from the
// environment.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://api.openai.com/v1",
		Models:      DefaultModels,
		Timeout:     30 * time.Second,
		Temperature: 0.2,
		MaxTokens:   1024,
	}
}
