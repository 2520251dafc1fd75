package server

import (
	"net/http"

	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/models"
)

// handlePortfolio dispatches GET/POST for /api/portfolio.
// The portfolio scope is the authenticated user's ID, or "default" for
// unauthenticated requests.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handlePortfolioGet(w, r)
	case http.MethodPost:
		s.handlePortfolioAdd(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handlePortfolioGet returns the current holdings snapshot.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	userID := common.ResolveUserID(r.Context())
	snapshot := s.app.PortfolioService.Portfolio(userID)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   snapshot,
	})
}

// handlePortfolioAdd adds a holding. Validation failures return 400 and
// leave the ledger untouched.
func (s *Server) handlePortfolioAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenID  string       `json:"tokenId"`
		Quantity float64      `json:"quantity"`
		Token    models.Token `json:"token"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	userID := common.ResolveUserID(r.Context())
	snapshot, message, err := s.app.PortfolioService.AddHolding(userID, req.TokenID, req.Quantity, req.Token)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"message":   message,
			"portfolio": snapshot,
		},
	})
}
