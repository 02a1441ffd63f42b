package config

import (
	"os"
	"strconv"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Booth   BoothConfig
	Gemini  GeminiConfig
	OpenAI  OpenAIConfig
	Gallery GalleryConfig
}

type BoothConfig struct {
	Provider          string // "gemini" (default) or "openai"
	SessionTTLMinutes int    // idle booth sessions are dropped after this
}

type GeminiConfig struct {
	APIKey string
}

type OpenAIConfig struct {
	Token string
}

type GalleryConfig struct {
	Path        string // JSON slot on disk, defaults to gallery.json
	DatabaseURL string // optional PostgreSQL slot; takes precedence when set
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Booth: BoothConfig{
			Provider:          envString("BOOTH_PROVIDER", "gemini"),
			SessionTTLMinutes: envInt("BOOTH_SESSION_TTL_MINUTES", 30),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		OpenAI: OpenAIConfig{
			Token: os.Getenv("OPENAI_TOKEN"),
		},
		Gallery: GalleryConfig{
			Path:        envString("GALLERY_PATH", "gallery.json"),
			DatabaseURL: os.Getenv("GALLERY_DATABASE_URL"),
		},
	}
}
