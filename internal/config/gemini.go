package config

import (
	"os"
	"sync"
	"time"
)

type GeminiConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	MaxRetries     int
	RequestTimeout time.Duration
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = &GeminiConfig{
			APIKey:         os.Getenv("GEMINI_API_KEY"),
			Model:          envString("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbeddingModel: envString("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001"),
			MaxRetries:     envInt("GEMINI_MAX_RETRIES", 3),
			RequestTimeout: envDuration("GEMINI_TIMEOUT", 90*time.Second),
		}
	})
	return geminiConfig
}

// Enabled reports whether a Gemini key was provided.
func (c *GeminiConfig) Enabled() bool {
	return c != nil && c.APIKey != ""
}
