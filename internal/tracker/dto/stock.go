package dto

import "time"

// SaveStockRequest carries the user-supplied fields for adding or updating a
// holding. The company name is resolved from the market data provider, never
// taken from the caller.
type SaveStockRequest struct {
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice float64   `json:"purchase_price"`
	PurchaseDate  time.Time `json:"purchase_date"`
	LossThreshold float64   `json:"loss_threshold"`
}

// QuoteResult is the outcome of a symbol search: the validated symbol, its
// listed name and the current price.
type QuoteResult struct {
	Symbol       string    `json:"symbol"`
	CompanyName  string    `json:"company_name"`
	CurrentPrice float64   `json:"current_price"`
	FetchedAt    time.Time `json:"fetched_at"`
}
