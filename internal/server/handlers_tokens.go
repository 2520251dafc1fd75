package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/soltrack/soltrack/internal/services/market"
)

// handleTokens handles GET /api/tokens — list tracked tokens with live pricing.
// Never fails: the market service falls back to static data on fetch errors.
func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	tokens := s.app.MarketService.ListTokens(r.Context())

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   tokens,
	})
}

// routeTokens dispatches /api/tokens/{id}/* to the appropriate handler.
func (s *Server) routeTokens(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/tokens/")
	if path == "" {
		s.handleTokens(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "chart":
		s.handleTokenChart(w, r, id)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleTokenChart handles GET /api/tokens/{id}/chart — render a PNG price chart.
// The days query parameter selects the history window (default 7, max 365).
func (s *Server) handleTokenChart(w http.ResponseWriter, r *http.Request, id string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	token, ok := s.app.MarketService.Token(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "token '"+id+"' not found")
		return
	}

	days := 7
	if d := r.URL.Query().Get("days"); d != "" {
		v, err := strconv.Atoi(d)
		if err != nil || v < 1 || v > 365 {
			WriteError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
			return
		}
		days = v
	}

	points, err := s.app.MarketService.PriceHistory(r.Context(), id, days)
	if err != nil {
		s.logger.Warn().Err(err).Str("token_id", id).Msg("Price history fetch failed")
		WriteError(w, http.StatusBadGateway, "failed to fetch price history")
		return
	}

	png, err := market.RenderPriceChart(token, points)
	if err != nil {
		s.logger.Error().Err(err).Str("token_id", id).Msg("Chart render failed")
		WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
