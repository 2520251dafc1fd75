package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimplePrices(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		gotAPIKey = r.Header.Get("x-cg-demo-api-key")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"solana": {"usd": 150.25, "usd_24h_change": 7.5, "usd_24h_vol": 9999999, "usd_market_cap": 88888888},
			"bonk": {"usd": 0.0000125}
		}`))
	}))
	defer srv.Close()

	client := NewClient("demo-key", WithBaseURL(srv.URL))

	prices, err := client.GetSimplePrices(context.Background(), []string{"solana", "bonk"})
	require.NoError(t, err)

	assert.Equal(t, "/simple/price", gotPath)
	assert.Equal(t, "solana,bonk", gotQuery["ids"])
	assert.Equal(t, "usd", gotQuery["vs_currencies"])
	assert.Equal(t, "true", gotQuery["include_24hr_change"])
	assert.Equal(t, "true", gotQuery["include_24hr_vol"])
	assert.Equal(t, "true", gotQuery["include_market_cap"])
	assert.Equal(t, "demo-key", gotAPIKey)

	require.Contains(t, prices, "solana")
	assert.Equal(t, 150.25, prices["solana"].USD)
	assert.Equal(t, 7.5, prices["solana"].USDChange24h)
	assert.Equal(t, 9999999.0, prices["solana"].USDVolume24h)
	assert.Equal(t, 88888888.0, prices["solana"].USDMarketCap)

	// Missing fields decode to zero
	require.Contains(t, prices, "bonk")
	assert.Equal(t, 0.0000125, prices["bonk"].USD)
	assert.Equal(t, 0.0, prices["bonk"].USDChange24h)
}

func TestGetSimplePricesOmitsAPIKeyHeaderWhenEmpty(t *testing.T) {
	var hasHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasHeader = r.Header["X-Cg-Demo-Api-Key"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	_, err := client.GetSimplePrices(context.Background(), []string{"solana"})
	require.NoError(t, err)
	assert.False(t, hasHeader, "API key header should be absent when no key is set")
}

func TestGetSimplePricesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	_, err := client.GetSimplePrices(context.Background(), []string{"solana"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "/simple/price", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "rate limited")
}

func TestGetMarketChart(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"prices": [[1700000000000, 95.0], [1700086400000, 98.5]]}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))

	points, err := client.GetMarketChart(context.Background(), "solana", 7)
	require.NoError(t, err)

	assert.Equal(t, "/coins/solana/market_chart", gotPath)
	assert.Equal(t, "usd", gotQuery["vs_currency"])
	assert.Equal(t, "7", gotQuery["days"])

	require.Len(t, points, 2)
	assert.Equal(t, int64(1700000000000), points[0].Time.UnixMilli())
	assert.Equal(t, 95.0, points[0].Price)
	assert.Equal(t, 98.5, points[1].Price)
}

func TestGetMarketChartNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "coin not found"}`))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	_, err := client.GetMarketChart(context.Background(), "no-such-coin", 7)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestWithBaseURLTrimsTrailingSlash(t *testing.T) {
	client := NewClient("", WithBaseURL("https://example.com/api/v3/"))
	assert.Equal(t, "https://example.com/api/v3", client.baseURL)
}
