package entity

import "time"

// StockValuation is the live valuation of one holding. The price-derived
// fields are nil when no quote could be obtained for the symbol; the holding
// is still reported so a single provider failure never hides a position.
type StockValuation struct {
	Stock           Stock    `json:"stock"`
	CurrentPrice    *float64 `json:"current_price,omitempty"`
	CurrentValue    *float64 `json:"current_value,omitempty"`
	GainLoss        *float64 `json:"gain_loss,omitempty"`
	GainLossPercent *float64 `json:"gain_loss_percent,omitempty"`
	QuoteError      string   `json:"quote_error,omitempty"`
}

// Priced reports whether a live quote was available for the holding.
func (v StockValuation) Priced() bool {
	return v.CurrentPrice != nil
}

// Performer names the holding with the largest or smallest unrealized
// gain/loss in a summary.
type Performer struct {
	Symbol   string  `json:"symbol"`
	GainLoss float64 `json:"gain_loss"`
}

// PortfolioSummary is the aggregate view over all holdings. Totals cover
// priced holdings only; unpriced ones appear in the breakdown with a nil
// valuation.
type PortfolioSummary struct {
	TotalCostBasis   float64          `json:"total_cost_basis"`
	TotalValue       float64          `json:"total_value"`
	TotalGainLoss    float64          `json:"total_gain_loss"`
	GainLossPercent  float64          `json:"gain_loss_percent"`
	TotalShares      float64          `json:"total_shares"`
	AvgPurchasePrice float64          `json:"avg_purchase_price"`
	AvgCurrentPrice  float64          `json:"avg_current_price"`
	Best             *Performer       `json:"best_performer,omitempty"`
	Worst            *Performer       `json:"worst_performer,omitempty"`
	Holdings         []StockValuation `json:"holdings"`
	GeneratedAt      time.Time        `json:"generated_at"`
}
