package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name           string
	Env            string
	Port           string
	BaseURL        string
	LogJSON        bool
	LogDebug       bool
	MaxUploadBytes int64
	UploadRate     int
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		port := os.Getenv("APP_PORT")
		if port == "" {
			port = ":8002"
		}
		name := os.Getenv("APP_NAME")
		if name == "" {
			name = "Resume Parser API"
		}
		appConfig = &AppConfig{
			Name:           name,
			Env:            env,
			Port:           port,
			BaseURL:        os.Getenv("APP_URL"),
			LogJSON:        envBool("LOG_JSON", env == "production"),
			LogDebug:       envBool("LOG_DEBUG", false),
			MaxUploadBytes: int64(envInt("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
			UploadRate:     envInt("UPLOAD_RATE_PER_MINUTE", 20),
		}
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
