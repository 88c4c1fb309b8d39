package notifier

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/steelsmol/subwatch/internal/domain"
)

func changeEvent(prev, cur string) domain.ChangeEvent {
	p := decimal.RequireFromString(prev)
	c := decimal.RequireFromString(cur)
	return domain.ChangeEvent{
		Wallet:   domain.Wallet{Address: "stAAAA", Name: "Farmer One"},
		Previous: p,
		Current:  c,
		Delta:    c.Sub(p),
	}
}

func TestComposePositiveDelta(t *testing.T) {
	at := time.Date(2024, 2, 22, 14, 30, 0, 0, time.UTC)
	msg := Compose(changeEvent("10", "12.5"), decimal.RequireFromString("0.75"), "https://quickchart.io/chart?c=x", at)

	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]

	require.Equal(t, "Farmer One", embed.Title)
	require.Contains(t, embed.Description, "Balance: 12.50 tSSC")
	require.Contains(t, embed.Description, "(Change +2.50)")
	require.Contains(t, embed.Description, "Gains Today: +0.75 tSSC")
	require.Contains(t, embed.Description, "https://subspace.subscan.io/account/stAAAA?tab=balance_history")
	require.Equal(t, embedColor, embed.Color)
	require.Equal(t, "2024-02-22T14:30:00Z", embed.Timestamp)

	require.NotNil(t, embed.Image)
	require.Equal(t, "https://quickchart.io/chart?c=x", embed.Image.URL)
}

func TestComposeNegativeDelta(t *testing.T) {
	msg := Compose(changeEvent("12.5", "10"), decimal.Zero, "", time.Now())

	require.Contains(t, msg.Embeds[0].Description, "(Change -2.50)")
	require.Contains(t, msg.Embeds[0].Description, "Gains Today: +0.00 tSSC")
}

func TestComposeWithoutChart(t *testing.T) {
	msg := Compose(changeEvent("10", "12.5"), decimal.Zero, "", time.Now())

	require.Nil(t, msg.Embeds[0].Image, "missing chart must not produce an image block")
}

func TestSignedFixed(t *testing.T) {
	require.Equal(t, "+2.50", signedFixed(decimal.RequireFromString("2.5")))
	require.Equal(t, "-2.50", signedFixed(decimal.RequireFromString("-2.5")))
	require.Equal(t, "+0.00", signedFixed(decimal.Zero))
}
