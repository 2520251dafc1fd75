// Package models defines data structures for SolTrack
package models

// Holding tracks the quantity and valuation of one token within a portfolio.
// Value always equals Quantity * Token.Price after any mutation.
type Holding struct {
	TokenID  string  `json:"tokenId"`
	Token    Token   `json:"token"`
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// Portfolio is a snapshot of one user's holdings, ordered by insertion.
// TotalValue is always derived as the sum of the holdings' values.
type Portfolio struct {
	Holdings   []Holding `json:"holdings"`
	TotalValue float64   `json:"totalValue"`
}
