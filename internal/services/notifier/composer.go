// Package notifier composes balance-change notifications and delivers them
// to a Discord-compatible webhook.
package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/steelsmol/subwatch/internal/domain"
)

const (
	embedColor = 16448250
	authorName = "Subspace Rewards"
	authorIcon = "https://pbs.twimg.com/profile_images/1382564944198078464/-7D9uyig_400x400.jpg"

	explorerURLFormat = "https://subspace.subscan.io/account/%s?tab=balance_history"
	tokenSymbol       = "tSSC"
)

// Compose turns a change event, the daily gain and an optional chart URL
// into a transport-ready webhook message. Pure, no I/O.
func Compose(ev domain.ChangeEvent, gain decimal.Decimal, chartURL string, at time.Time) domain.WebhookMessage {
	explorer := fmt.Sprintf(explorerURLFormat, ev.Wallet.Address)

	description := fmt.Sprintf(
		"Balance: %s %s  (Change %s)\nGains Today: +%s %s\n[View on Subscan Explorer](%s)",
		ev.Current.StringFixed(2), tokenSymbol,
		signedFixed(ev.Delta),
		gain.StringFixed(2), tokenSymbol,
		explorer,
	)

	embed := domain.Embed{
		Title:       ev.Wallet.Name,
		Description: description,
		Color:       embedColor,
		Author:      &domain.EmbedAuthor{Name: authorName, IconURL: authorIcon},
		Timestamp:   at.UTC().Format(time.RFC3339),
	}

	if chartURL != "" {
		embed.Image = &domain.EmbedImage{URL: chartURL}
	}

	return domain.WebhookMessage{Embeds: []domain.Embed{embed}}
}

// signedFixed renders with two decimals and an explicit sign.
func signedFixed(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if !strings.HasPrefix(s, "-") {
		s = "+" + s
	}
	return s
}
