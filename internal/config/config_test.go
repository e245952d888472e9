package config

import (
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "pumpbot-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.Exchange.PublicURL != "https://bittrex.com/api/v1.1/public" {
		t.Fatalf("unexpected Exchange.PublicURL: %s", cfg.Exchange.PublicURL)
	}
	if cfg.Exchange.ReferenceCurrency != "btc" {
		t.Fatalf("unexpected reference currency: %s", cfg.Exchange.ReferenceCurrency)
	}
	if cfg.Signal.Author != "officialmcafee" {
		t.Fatalf("unexpected signal author: %s", cfg.Signal.Author)
	}
	if cfg.Signal.MaxWaitSecs != 3600 {
		t.Fatalf("unexpected signal max wait: %d", cfg.Signal.MaxWaitSecs)
	}
	if cfg.Strategy.Budget != 0.01 {
		t.Fatalf("unexpected budget: %.4f", cfg.Strategy.Budget)
	}
	if cfg.Strategy.StopLossFactor != 0.95 {
		t.Fatalf("unexpected stop loss factor: %.2f", cfg.Strategy.StopLossFactor)
	}
	if cfg.Strategy.ProfitFactor != 1.2 {
		t.Fatalf("unexpected profit factor: %.2f", cfg.Strategy.ProfitFactor)
	}
	if cfg.Strategy.PollIntervalMs != 1000 {
		t.Fatalf("unexpected poll interval: %d", cfg.Strategy.PollIntervalMs)
	}
	if cfg.Strategy.MaxPollRetries != 5 {
		t.Fatalf("unexpected max poll retries: %d", cfg.Strategy.MaxPollRetries)
	}
	if cfg.Risk.MaxNotionalPerTrade != 0.05 {
		t.Fatalf("unexpected max notional: %.2f", cfg.Risk.MaxNotionalPerTrade)
	}
	if len(cfg.Paper.Prices) != 3 || cfg.Paper.Prices[2] != 121 {
		t.Fatalf("unexpected paper prices: %+v", cfg.Paper.Prices)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadCredentials(t *testing.T) {
	t.Setenv("BITTREX_API_KEY", "key")
	t.Setenv("BITTREX_API_SECRET", "secret")
	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("LoadCredentials returned error: %v", err)
	}
	if creds.APIKey != "key" || creds.APISecret != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestLoadCredentialsMissingSecret(t *testing.T) {
	t.Setenv("BITTREX_API_KEY", "key")
	t.Setenv("BITTREX_API_SECRET", "")
	if _, err := LoadCredentials(); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}
