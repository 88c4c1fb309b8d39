package config

import (
	"fmt"
	"os"
	"time"

	"github.com/steelsmol/subwatch/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	defaultNodeURL       = "ws://127.0.0.1:9944"
	defaultHistoryAPIURL = "https://subspace.webapi.subscan.io"
	defaultStateFile     = "wallet_balances.json"
	defaultPollInterval  = 5 * time.Minute
	defaultChartDays     = 7
	defaultMaxParallel   = 1

	minPollInterval = 10 * time.Second
	maxChartDays    = 90
	maxParallel     = 16

	// webhookEnv overrides the webhook target from the environment so the
	// config file can be committed without the secret URL.
	webhookEnv = "DISCORD_WEBHOOK_URL"
)

// Config is the resolved runtime configuration, constructed once at startup
// and passed by reference into each component.
type Config struct {
	NodeURL       string
	WebhookURL    string
	HistoryAPIURL string
	StateFile     string
	PollInterval  time.Duration
	ChartDays     int
	MaxParallel   int
	HealthAddr    string
	Wallets       []domain.Wallet
}

// File mirrors the YAML layout. Exported so the setup wizard can marshal it.
type File struct {
	NodeURL         string        `yaml:"node_url"`
	WebhookURL      string        `yaml:"webhook_url,omitempty"`
	HistoryAPIURL   string        `yaml:"history_api_url,omitempty"`
	StateFile       string        `yaml:"state_file,omitempty"`
	PollIntervalStr string        `yaml:"poll_interval,omitempty"`
	ChartDays       int           `yaml:"chart_days,omitempty"`
	MaxParallel     int           `yaml:"max_parallel,omitempty"`
	HealthAddr      string        `yaml:"health_addr,omitempty"`
	Wallets         []WalletEntry `yaml:"wallets"`
}

// WalletEntry is one watched address in the YAML wallet list.
type WalletEntry struct {
	Address string `yaml:"address"`
	Name    string `yaml:"name"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return fromFile(f)
}

func fromFile(f File) (*Config, error) {
	cfg := &Config{
		NodeURL:       f.NodeURL,
		WebhookURL:    f.WebhookURL,
		HistoryAPIURL: f.HistoryAPIURL,
		StateFile:     f.StateFile,
		PollInterval:  defaultPollInterval,
		ChartDays:     f.ChartDays,
		MaxParallel:   f.MaxParallel,
		HealthAddr:    f.HealthAddr,
	}

	if cfg.NodeURL == "" {
		cfg.NodeURL = defaultNodeURL
	}
	if cfg.HistoryAPIURL == "" {
		cfg.HistoryAPIURL = defaultHistoryAPIURL
	}
	if cfg.StateFile == "" {
		cfg.StateFile = defaultStateFile
	}
	if cfg.ChartDays == 0 {
		cfg.ChartDays = defaultChartDays
	}
	if cfg.MaxParallel == 0 {
		cfg.MaxParallel = defaultMaxParallel
	}

	if f.PollIntervalStr != "" {
		interval, err := time.ParseDuration(f.PollIntervalStr)
		if err != nil {
			return nil, fmt.Errorf("incorrect 'poll_interval' param in yaml config (correct format is 5m): %w", err)
		}
		cfg.PollInterval = interval
	}

	if env := os.Getenv(webhookEnv); env != "" {
		cfg.WebhookURL = env
	}

	for _, w := range f.Wallets {
		cfg.Wallets = append(cfg.Wallets, domain.Wallet{Address: w.Address, Name: w.Name})
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.WebhookURL == "" {
		return fmt.Errorf("webhook URL is not set: provide 'webhook_url' in the config or the %s env variable", webhookEnv)
	}
	if c.PollInterval < minPollInterval {
		return fmt.Errorf("poll_interval %s is below the minimum of %s", c.PollInterval, minPollInterval)
	}
	if c.ChartDays < 1 || c.ChartDays > maxChartDays {
		return fmt.Errorf("chart_days must be between 1 and %d, got %d", maxChartDays, c.ChartDays)
	}
	if c.MaxParallel < 1 || c.MaxParallel > maxParallel {
		return fmt.Errorf("max_parallel must be between 1 and %d, got %d", maxParallel, c.MaxParallel)
	}
	if len(c.Wallets) == 0 {
		return fmt.Errorf("at least one wallet must be configured")
	}

	seen := make(map[string]struct{}, len(c.Wallets))
	for i, w := range c.Wallets {
		if w.Address == "" {
			return fmt.Errorf("wallet #%d has an empty address", i+1)
		}
		if w.Name == "" {
			return fmt.Errorf("wallet %s has an empty name", w.Address)
		}
		if _, ok := seen[w.Address]; ok {
			return fmt.Errorf("duplicate wallet address %s", w.Address)
		}
		seen[w.Address] = struct{}{}
	}

	return nil
}
