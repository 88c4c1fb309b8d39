package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/steelsmol/subwatch/internal/domain"
	"github.com/steelsmol/subwatch/pkg/retrier"
)

const (
	balanceHistoryPath = "/api/scan/account/balance_history"
	blockPath          = "/api/scan/block"

	subscanTimeout   = 15 * time.Second
	subscanUserAgent = "subwatch/1.0"

	dateLayout = "2006-01-02"
)

// SubscanClient calls the Subscan web API for historical balance data and
// timestamp-to-block resolution.
type SubscanClient struct {
	baseURL    string
	httpClient *http.Client
	retry      *retrier.Retrier
}

// NewSubscanClient creates a client for the Subscan API at baseURL.
func NewSubscanClient(baseURL string) *SubscanClient {
	return &SubscanClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: subscanTimeout,
		},
		retry: retrier.New(retrier.WithMaxRetries(2), retrier.WithInitialInterval(time.Second)),
	}
}

type historyRequest struct {
	Address string `json:"address"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type historyResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		History []struct {
			Date    string `json:"date"`
			Balance string `json:"balance"`
		} `json:"history"`
	} `json:"data"`
}

type blockRequest struct {
	BlockTimestamp int64 `json:"block_timestamp"`
	OnlyHead       bool  `json:"only_head"`
}

type blockResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		BlockNum uint64 `json:"block_num"`
	} `json:"data"`
}

// BalanceHistory returns the per-day balance series for address between
// start and end, ordered oldest first, balances in base units.
func (c *SubscanClient) BalanceHistory(ctx context.Context, address string, start, end time.Time) ([]domain.BalancePoint, error) {
	req := historyRequest{
		Address: address,
		Start:   start.UTC().Format(dateLayout),
		End:     end.UTC().Format(dateLayout),
	}

	return retrier.DoWithData(c.retry, ctx, func(ctx context.Context) ([]domain.BalancePoint, error) {
		var resp historyResponse
		if err := c.post(ctx, balanceHistoryPath, req, &resp); err != nil {
			return nil, err
		}
		if resp.Code != 0 {
			return nil, errors.Errorf("subscan error code %d: %s", resp.Code, resp.Message)
		}

		points := make([]domain.BalancePoint, 0, len(resp.Data.History))
		for _, h := range resp.Data.History {
			date, err := time.ParseInLocation(dateLayout, h.Date, time.UTC)
			if err != nil {
				return nil, errors.Wrapf(err, "parse history date %q", h.Date)
			}
			balance, ok := new(big.Int).SetString(h.Balance, 10)
			if !ok {
				return nil, errors.Errorf("parse history balance %q", h.Balance)
			}
			points = append(points, domain.BalancePoint{Date: date, Balance: balance})
		}

		return points, nil
	})
}

// BlockForTimestamp resolves a wall-clock timestamp to the number of the
// chain block produced at (or immediately before) that moment.
func (c *SubscanClient) BlockForTimestamp(ctx context.Context, ts time.Time) (uint64, error) {
	req := blockRequest{
		BlockTimestamp: ts.Unix(),
		OnlyHead:       true,
	}

	return retrier.DoWithData(c.retry, ctx, func(ctx context.Context) (uint64, error) {
		var resp blockResponse
		if err := c.post(ctx, blockPath, req, &resp); err != nil {
			return 0, err
		}
		if resp.Code != 0 {
			return 0, errors.Errorf("subscan error code %d: %s", resp.Code, resp.Message)
		}
		if resp.Data.BlockNum == 0 {
			return 0, errors.Errorf("no block found for timestamp %d", ts.Unix())
		}

		return resp.Data.BlockNum, nil
	})
}

func (c *SubscanClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", subscanUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("subscan returned status %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "unmarshal response of %s", path)
	}

	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
