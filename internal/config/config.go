// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Exchange describes the Bittrex connectivity parameters the bot expects.
type Exchange struct {
	PublicURL         string `yaml:"public_url"`
	TradeURL          string `yaml:"trade_url"`
	ReferenceCurrency string `yaml:"reference_currency"`
	TimeoutSecs       int    `yaml:"timeout_secs"`
}

// Signal configures where trade signals come from and how long to wait for one.
type Signal struct {
	Provider    string `yaml:"provider"` // "websocket" or "stub"
	StreamURL   string `yaml:"stream_url"`
	Author      string `yaml:"author"`
	OCRBaseURL  string `yaml:"ocr_base_url"`
	MaxWaitSecs int    `yaml:"max_wait_secs"` // 0 waits until interrupted
}

// Strategy groups the tunable knobs of the buy-hold-sell cycle.
type Strategy struct {
	Budget         float64 `yaml:"budget"` // capital per run, in the reference currency
	StopLossFactor float64 `yaml:"stop_loss_factor"`
	ProfitFactor   float64 `yaml:"profit_factor"`
	PollIntervalMs int     `yaml:"poll_interval_ms"`
	MaxHoldSecs    int     `yaml:"max_hold_secs"` // 0 holds until a boundary fires
	MaxPollRetries int     `yaml:"max_poll_retries"`
}

// Risk encodes guard-rails for how much size a single entry order may take on.
type Risk struct {
	MaxNotionalPerTrade float64 `yaml:"max_notional_per_trade"`
}

// Paper captures paper-trading settings for the offline binary.
type Paper struct {
	StartingCash float64   `yaml:"starting_cash"`
	FillsPath    string    `yaml:"fills_path"`
	Prices       []float64 `yaml:"prices"` // scripted price path for the simulator
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App      `yaml:"app"`
	Exchange Exchange `yaml:"exchange"`
	Signal   Signal   `yaml:"signal"`
	Strategy Strategy `yaml:"strategy"`
	Risk     Risk     `yaml:"risk"`
	Paper    Paper    `yaml:"paper"`
}

// Load reads a YAML file from disk and hydrates a Config struct.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return &config, nil
}
