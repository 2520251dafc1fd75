package models

import "time"

// Token is an immutable snapshot of market data for one token at fetch time.
// It is never persisted; every fetch produces a fresh set.
type Token struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"priceChange24h"`
	Volume24h      float64 `json:"volume24h"`
	Liquidity      float64 `json:"liquidity"`
	PairAddress    string  `json:"pairAddress"`
	DexID          string  `json:"dexId"`
	ChainID        string  `json:"chainId"`
}

// TokenPrice holds the live price fields returned by the price API for one
// token. A zero field means the API omitted it and the static value applies.
type TokenPrice struct {
	USD          float64 `json:"usd"`
	USDChange24h float64 `json:"usd_24h_change"`
	USDVolume24h float64 `json:"usd_24h_vol"`
	USDMarketCap float64 `json:"usd_market_cap"`
}

// PricePoint is one timestamped price observation in a token's history.
type PricePoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}
