package common

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Defaults match the Gusto demo environment.
const (
	DefaultBaseURL     = "https://api.gusto-demo.com"
	DefaultRedirectURI = "http://localhost:5000/callback"
)

// Config carries the static OAuth client settings. It is loaded once at
// process start and passed into constructors; nothing in this module reads
// the environment after that.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	BaseURL      string
}

// LoadConfig reads the configuration from the environment, layering in a
// .env file from the working directory when one exists. A missing required
// variable is a startup error naming the variable.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ClientID:     os.Getenv("GUSTO_CLIENT_ID"),
		ClientSecret: os.Getenv("GUSTO_CLIENT_SECRET"),
		RedirectURI:  getEnvOrDefault("GUSTO_REDIRECT_URI", DefaultRedirectURI),
		BaseURL:      getEnvOrDefault("GUSTO_BASE_URL", DefaultBaseURL),
	}

	if cfg.ClientID == "" {
		return Config{}, fmt.Errorf("GUSTO_CLIENT_ID is not set")
	}
	if cfg.ClientSecret == "" {
		return Config{}, fmt.Errorf("GUSTO_CLIENT_SECRET is not set")
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
