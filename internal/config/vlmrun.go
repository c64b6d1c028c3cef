package config

import (
	"os"
	"sync"
	"time"
)

type VLMRunConfig struct {
	APIKey       string
	BaseURL      string
	Domain       string
	Timeout      time.Duration
	PollInterval time.Duration
}

var (
	vlmRunConfig *VLMRunConfig
	vlmRunOnce   sync.Once
)

func LoadVLMRunConfig() *VLMRunConfig {
	vlmRunOnce.Do(func() {
		apiKey := os.Getenv("VLMRUN_API_KEY")
		if apiKey == "" {
			apiKey = os.Getenv("VLM_API_KEY")
		}
		vlmRunConfig = &VLMRunConfig{
			APIKey:       apiKey,
			BaseURL:      envString("VLMRUN_BASE_URL", "https://api.vlm.run/v1"),
			Domain:       envString("VLMRUN_DOMAIN", "document.resume"),
			Timeout:      envDuration("VLMRUN_TIMEOUT", 60*time.Second),
			PollInterval: envDuration("VLMRUN_POLL_INTERVAL", 2*time.Second),
		}
	})
	return vlmRunConfig
}

// Enabled reports whether a VLM.run key was provided. Without one the
// extraction worker serves the demonstration payload.
func (c *VLMRunConfig) Enabled() bool {
	return c != nil && c.APIKey != ""
}
