// Package interfaces defines service contracts for SolTrack
package interfaces

import (
	"context"

	"github.com/soltrack/soltrack/internal/models"
)

// CoinGeckoClient provides access to the CoinGecko price API
type CoinGeckoClient interface {
	// GetSimplePrices retrieves current USD prices for the given token IDs
	GetSimplePrices(ctx context.Context, ids []string) (map[string]models.TokenPrice, error)

	// GetMarketChart retrieves a token's USD price history over the given number of days
	GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error)
}
