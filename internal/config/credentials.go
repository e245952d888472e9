package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

// Credentials holds the exchange API key pair. Secrets never live in the
// YAML file; they come from the environment at process start.
type Credentials struct {
	APIKey    string
	APISecret string
}

// LoadCredentials reads the Bittrex key pair from the environment, loading a
// local .env file first on a best-effort basis. A missing or empty secret is
// a hard configuration error: signing with an empty key must never happen.
func LoadCredentials() (Credentials, error) {
	_ = godotenv.Load() // best-effort
	creds := Credentials{
		APIKey:    os.Getenv("BITTREX_API_KEY"),
		APISecret: os.Getenv("BITTREX_API_SECRET"),
	}
	if creds.APIKey == "" {
		return Credentials{}, errors.New("BITTREX_API_KEY not set")
	}
	if creds.APISecret == "" {
		return Credentials{}, errors.New("BITTREX_API_SECRET not set")
	}
	return creds, nil
}
