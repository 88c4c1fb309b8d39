package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
node_url: ws://node.example:9944
webhook_url: https://discord.com/api/webhooks/1/abc
poll_interval: 1m
wallets:
  - address: stAAAA
    name: Farmer One
  - address: stBBBB
    name: Farmer Two
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "ws://node.example:9944", cfg.NodeURL)
	require.Equal(t, time.Minute, cfg.PollInterval)
	require.Len(t, cfg.Wallets, 2)
	require.Equal(t, "Farmer One", cfg.Wallets[0].Name)

	// defaults
	require.Equal(t, defaultHistoryAPIURL, cfg.HistoryAPIURL)
	require.Equal(t, defaultStateFile, cfg.StateFile)
	require.Equal(t, defaultChartDays, cfg.ChartDays)
	require.Equal(t, defaultMaxParallel, cfg.MaxParallel)
}

func TestLoadWebhookFromEnv(t *testing.T) {
	path := writeConfig(t, `
wallets:
  - address: stAAAA
    name: Farmer One
`)

	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/2/xyz")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "https://discord.com/api/webhooks/2/xyz", cfg.WebhookURL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "no webhook",
			content: `
wallets:
  - {address: stAAAA, name: One}
`,
			wantErr: "webhook URL is not set",
		},
		{
			name: "no wallets",
			content: `
webhook_url: https://discord.com/api/webhooks/1/abc
`,
			wantErr: "at least one wallet",
		},
		{
			name: "duplicate address",
			content: `
webhook_url: https://discord.com/api/webhooks/1/abc
wallets:
  - {address: stAAAA, name: One}
  - {address: stAAAA, name: Two}
`,
			wantErr: "duplicate wallet address",
		},
		{
			name: "missing name",
			content: `
webhook_url: https://discord.com/api/webhooks/1/abc
wallets:
  - {address: stAAAA, name: ""}
`,
			wantErr: "empty name",
		},
		{
			name: "interval too short",
			content: `
webhook_url: https://discord.com/api/webhooks/1/abc
poll_interval: 1s
wallets:
  - {address: stAAAA, name: One}
`,
			wantErr: "below the minimum",
		},
		{
			name: "bad interval format",
			content: `
webhook_url: https://discord.com/api/webhooks/1/abc
poll_interval: five minutes
wallets:
  - {address: stAAAA, name: One}
`,
			wantErr: "poll_interval",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			_, err := Load(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
