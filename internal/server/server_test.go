package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/soltrack/soltrack/internal/app"
	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/models"
	"github.com/soltrack/soltrack/internal/services/market"
	"github.com/soltrack/soltrack/internal/services/portfolio"
	"github.com/soltrack/soltrack/internal/storage"
)

// stubPriceClient implements interfaces.CoinGeckoClient for server tests.
// The zero value fails every call, so handlers exercise the fallback path.
type stubPriceClient struct {
	prices map[string]models.TokenPrice
	points []models.PricePoint
}

func (c *stubPriceClient) GetSimplePrices(ctx context.Context, ids []string) (map[string]models.TokenPrice, error) {
	if c.prices == nil {
		return nil, errors.New("upstream unavailable")
	}
	return c.prices, nil
}

func (c *stubPriceClient) GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	if c.points == nil {
		return nil, errors.New("upstream unavailable")
	}
	return c.points, nil
}

func newTestServer(t *testing.T, client *stubPriceClient) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.UsersFile = filepath.Join(t.TempDir(), "users.json")
	logger := common.NewSilentLogger()

	a := &app.App{
		Config:           config,
		Logger:           logger,
		Users:            storage.NewUserStore(logger, config.Storage.UsersFile),
		CoinGeckoClient:  client,
		MarketService:    market.NewService(client, logger),
		PortfolioService: portfolio.NewService(logger),
	}

	return NewServer(a)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
	return out
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := decodeBody(t, rec)
	if body["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", body["status"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	return data
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "ok" {
		t.Errorf("expected status ok, got %v", body["status"])
	}
}

func TestVersionEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/version", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	for _, key := range []string{"version", "build", "commit"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected %q in version response", key)
		}
	}
}

func TestMemstatsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/debug/memstats", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if _, ok := body["heap_alloc_bytes"]; !ok {
		t.Error("expected heap_alloc_bytes in memstats response")
	}
}

func TestDebugUsersOmitsSecrets(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/debug/users", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	data := dataField(t, rec)
	if data["user_count"].(float64) != 1 {
		t.Errorf("expected seed user count 1, got %v", data["user_count"])
	}

	users := data["users"].([]interface{})
	first := users[0].(map[string]interface{})
	if first["username"] != storage.SeedUsername {
		t.Errorf("expected seed username, got %v", first["username"])
	}
	for _, forbidden := range []string{"password", "recoveryPhrase", "recovery_phrase"} {
		if _, ok := first[forbidden]; ok {
			t.Errorf("debug user summary must not include %q", forbidden)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodOptions, "/api/tokens", nil, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", got)
	}
}

func TestCorrelationIDPropagation(t *testing.T) {
	srv := newTestServer(t, &stubPriceClient{})

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil, map[string]string{
		"X-Request-ID": "req-123",
	})
	if got := rec.Header().Get("X-Correlation-ID"); got != "req-123" {
		t.Errorf("expected correlation ID req-123, got %q", got)
	}

	// Generated when absent
	rec = doJSON(t, srv.Handler(), http.MethodGet, "/api/health", nil, nil)
	if got := rec.Header().Get("X-Correlation-ID"); len(got) != 8 {
		t.Errorf("expected generated 8-char correlation ID, got %q", got)
	}
}
