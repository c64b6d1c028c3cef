package config

import (
	"os"
	"sync"
	"time"
)

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

var (
	openAIConfig *OpenAIConfig
	openAIOnce   sync.Once
)

func LoadOpenAIConfig() *OpenAIConfig {
	openAIOnce.Do(func() {
		openAIConfig = &OpenAIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       envString("OPENAI_MODEL", "gpt-3.5-turbo"),
			MaxTokens:   envInt("OPENAI_MAX_TOKENS", 1000),
			Temperature: envFloat("OPENAI_TEMPERATURE", 0.7),
			Timeout:     envDuration("OPENAI_TIMEOUT", 60*time.Second),
		}
	})
	return openAIConfig
}

// Enabled reports whether an OpenAI key was provided.
func (c *OpenAIConfig) Enabled() bool {
	return c != nil && c.APIKey != ""
}
