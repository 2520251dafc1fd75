// Package portfolio maintains in-memory holdings per user.
package portfolio

import (
	"fmt"
	"sync"

	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/models"
)

// Service tracks each user's holdings in memory. State lives for the process
// lifetime only; a restart resets every ledger. A single RWMutex guards the
// map, so concurrent adds cannot lose updates.
type Service struct {
	mu       sync.RWMutex
	holdings map[string][]models.Holding // keyed by user ID
	logger   *common.Logger
}

// NewService creates a new portfolio service
func NewService(logger *common.Logger) *Service {
	return &Service{
		holdings: make(map[string][]models.Holding),
		logger:   logger,
	}
}

// Portfolio returns a snapshot of the user's holdings and their total value.
// The returned slice is a copy; callers cannot mutate ledger state through it.
func (s *Service) Portfolio(userID string) models.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(userID)
}

// snapshotLocked builds a Portfolio for the user. Callers must hold s.mu.
func (s *Service) snapshotLocked(userID string) models.Portfolio {
	src := s.holdings[userID]
	holdings := make([]models.Holding, len(src))
	copy(holdings, src)

	var total float64
	for _, h := range holdings {
		total += h.Value
	}
	return models.Portfolio{Holdings: holdings, TotalValue: total}
}

// AddHolding adds quantity of a token to the user's ledger. If the token is
// already held, the quantity accumulates and the token snapshot is replaced
// by the supplied (fresher) data; otherwise a new holding is appended.
// Value and the portfolio total are recomputed after every mutation.
// Validation failures leave the ledger untouched.
func (s *Service) AddHolding(userID, tokenID string, quantity float64, token models.Token) (models.Portfolio, string, error) {
	if tokenID == "" {
		return models.Portfolio{}, "", fmt.Errorf("token id is required")
	}
	if quantity <= 0 {
		return models.Portfolio{}, "", fmt.Errorf("quantity must be greater than zero")
	}
	if token.ID == "" {
		return models.Portfolio{}, "", fmt.Errorf("token data is required")
	}
	if token.ID != tokenID {
		return models.Portfolio{}, "", fmt.Errorf("token id '%s' does not match token data '%s'", tokenID, token.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.holdings[userID]
	updated := false
	for i := range list {
		if list[i].TokenID == tokenID {
			list[i].Quantity += quantity
			list[i].Token = token
			list[i].Value = list[i].Quantity * token.Price
			updated = true
			break
		}
	}
	if !updated {
		list = append(list, models.Holding{
			TokenID:  tokenID,
			Token:    token,
			Quantity: quantity,
			Value:    quantity * token.Price,
		})
	}
	s.holdings[userID] = list

	snapshot := s.snapshotLocked(userID)
	message := fmt.Sprintf("Added %g %s to portfolio", quantity, token.Symbol)

	s.logger.Debug().
		Str("user_id", userID).
		Str("token_id", tokenID).
		Float64("quantity", quantity).
		Float64("total_value", snapshot.TotalValue).
		Msg("Holding added")

	return snapshot, message, nil
}
