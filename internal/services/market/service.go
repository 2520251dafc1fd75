// Package market produces the tracked token list with best-effort live pricing.
package market

import (
	"context"
	"fmt"

	"github.com/soltrack/soltrack/internal/common"
	"github.com/soltrack/soltrack/internal/interfaces"
	"github.com/soltrack/soltrack/internal/models"
)

// fallbackTokens is the static dataset served when the live price source is
// unavailable, and the template the live fields are overlaid onto.
var fallbackTokens = []models.Token{
	{
		ID:             "solana",
		Name:           "Solana",
		Symbol:         "SOL",
		Price:          98.45,
		PriceChange24h: 5.2,
		Volume24h:      1234567,
		Liquidity:      9876543,
		PairAddress:    "0x123...",
		DexID:          "raydium",
		ChainID:        "solana",
	},
	{
		ID:             "bonk",
		Name:           "Bonk",
		Symbol:         "BONK",
		Price:          0.00001234,
		PriceChange24h: -2.1,
		Volume24h:      567890,
		Liquidity:      1234567,
		PairAddress:    "0x456...",
		DexID:          "raydium",
		ChainID:        "solana",
	},
	{
		ID:             "jupiter-exchange-solana",
		Name:           "Jupiter",
		Symbol:         "JUP",
		Price:          0.45,
		PriceChange24h: 12.5,
		Volume24h:      890123,
		Liquidity:      2345678,
		PairAddress:    "0x789...",
		DexID:          "raydium",
		ChainID:        "solana",
	},
	{
		ID:             "raydium",
		Name:           "Raydium",
		Symbol:         "RAY",
		Price:          2.34,
		PriceChange24h: 3.7,
		Volume24h:      345678,
		Liquidity:      5678901,
		PairAddress:    "0xabc...",
		DexID:          "raydium",
		ChainID:        "solana",
	},
	{
		ID:             "serum",
		Name:           "Serum",
		Symbol:         "SRM",
		Price:          0.12,
		PriceChange24h: -1.8,
		Volume24h:      234567,
		Liquidity:      3456789,
		PairAddress:    "0xdef...",
		DexID:          "raydium",
		ChainID:        "solana",
	},
}

// FallbackTokens returns a fresh copy of the static token table.
func FallbackTokens() []models.Token {
	out := make([]models.Token, len(fallbackTokens))
	copy(out, fallbackTokens)
	return out
}

// TokenIDs returns the fixed set of tracked token identifiers.
func TokenIDs() []string {
	ids := make([]string, len(fallbackTokens))
	for i, t := range fallbackTokens {
		ids[i] = t.ID
	}
	return ids
}

// Service fetches live prices for the fixed token set, overlaying them onto
// the static table. Stateless; no caching, no retry.
type Service struct {
	client interfaces.CoinGeckoClient
	logger *common.Logger
}

// NewService creates a new market service
func NewService(client interfaces.CoinGeckoClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// ListTokens returns the tracked tokens with best-effort live pricing.
// On any fetch failure it logs and returns the static table unchanged, so
// the operation never fails.
func (s *Service) ListTokens(ctx context.Context) []models.Token {
	tokens := FallbackTokens()

	prices, err := s.client.GetSimplePrices(ctx, TokenIDs())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Live price fetch failed, serving fallback data")
		return tokens
	}

	for i := range tokens {
		live, ok := prices[tokens[i].ID]
		if !ok {
			continue
		}
		// Field-by-field overlay: a zero live field keeps the static value.
		if live.USD != 0 {
			tokens[i].Price = live.USD
		}
		if live.USDChange24h != 0 {
			tokens[i].PriceChange24h = live.USDChange24h
		}
		if live.USDVolume24h != 0 {
			tokens[i].Volume24h = live.USDVolume24h
		}
		if live.USDMarketCap != 0 {
			tokens[i].Liquidity = live.USDMarketCap
		}
	}

	return tokens
}

// Token returns the tracked token with the given ID from the static table.
func (s *Service) Token(id string) (models.Token, bool) {
	for _, t := range fallbackTokens {
		if t.ID == id {
			return t, true
		}
	}
	return models.Token{}, false
}

// PriceHistory fetches a token's USD price history over the given number of
// days. Unlike ListTokens there is no static fallback for history, so
// upstream failures are returned to the caller.
func (s *Service) PriceHistory(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	if _, ok := s.Token(id); !ok {
		return nil, fmt.Errorf("token '%s' is not tracked", id)
	}
	if days <= 0 {
		days = 7
	}

	points, err := s.client.GetMarketChart(ctx, id, days)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price history for '%s': %w", id, err)
	}
	return points, nil
}
