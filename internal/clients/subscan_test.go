package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/steelsmol/subwatch/pkg/retrier"
)

// fastRetrier disables the backoff budget so failure paths stay quick.
func fastRetrier() *retrier.Retrier {
	return retrier.New(retrier.WithMaxRetries(0))
}

func TestSubscanClient_BalanceHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, balanceHistoryPath, r.URL.Path)

		var req historyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "stAAAA", req.Address)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"code": 0,
			"message": "Success",
			"data": {
				"history": [
					{"date": "2024-02-20", "balance": "1000000000000000000"},
					{"date": "2024-02-21", "balance": "2500000000000000000"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewSubscanClient(srv.URL)
	end := time.Now().UTC()
	points, err := c.BalanceHistory(context.Background(), "stAAAA", end.AddDate(0, 0, -7), end)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "1000000000000000000", points[0].Balance.String())
	require.Equal(t, time.Date(2024, 2, 21, 0, 0, 0, 0, time.UTC), points[1].Date)
}

func TestSubscanClient_BalanceHistoryAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 10004, "message": "Record Not Found", "data": null}`))
	}))
	defer srv.Close()

	c := NewSubscanClient(srv.URL)
	c.retry = fastRetrier()

	_, err := c.BalanceHistory(context.Background(), "stAAAA", time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "10004")
}

func TestSubscanClient_BalanceHistoryHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewSubscanClient(srv.URL)
	c.retry = fastRetrier()

	_, err := c.BalanceHistory(context.Background(), "stAAAA", time.Now().AddDate(0, 0, -7), time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 502")
}

func TestSubscanClient_BlockForTimestamp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, blockPath, r.URL.Path)

		var req blockRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.OnlyHead)
		require.Equal(t, int64(1708473540), req.BlockTimestamp)

		w.Write([]byte(`{"code": 0, "message": "Success", "data": {"block_num": 424242}}`))
	}))
	defer srv.Close()

	c := NewSubscanClient(srv.URL)
	block, err := c.BlockForTimestamp(context.Background(), time.Unix(1708473540, 0))
	require.NoError(t, err)
	require.Equal(t, uint64(424242), block)
}

func TestSubscanClient_BlockForTimestampEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": 0, "message": "Success", "data": {"block_num": 0}}`))
	}))
	defer srv.Close()

	c := NewSubscanClient(srv.URL)
	c.retry = fastRetrier()

	_, err := c.BlockForTimestamp(context.Background(), time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "no block found")
}
