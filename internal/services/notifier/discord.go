package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/steelsmol/subwatch/internal/domain"
	"github.com/steelsmol/subwatch/pkg/retrier"
)

const dispatchTimeout = 10 * time.Second

// DiscordDispatcher delivers webhook messages over HTTP with a bounded
// retry. Transport errors are returned to the caller, never fatal.
type DiscordDispatcher struct {
	webhookURL string
	httpClient *http.Client
	retry      *retrier.Retrier
}

// NewDiscordDispatcher creates a dispatcher targeting webhookURL.
func NewDiscordDispatcher(webhookURL string) *DiscordDispatcher {
	return &DiscordDispatcher{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: dispatchTimeout,
		},
		retry: retrier.New(retrier.WithMaxRetries(1), retrier.WithInitialInterval(time.Second)),
	}
}

// Send posts the message to the webhook.
func (d *DiscordDispatcher) Send(ctx context.Context, msg domain.WebhookMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal webhook message")
	}

	return d.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(payload))
		if err != nil {
			return errors.Wrap(err, "create webhook request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := d.httpClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "post to webhook")
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusMultipleChoices {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
			return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, body)
		}

		return nil
	})
}
