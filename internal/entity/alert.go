package entity

import "time"

// AlertEvent is one threshold-breach notification. The monitor creates at
// most one per breach episode; dispatchers consume and discard it.
type AlertEvent struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name,omitempty"`
	CurrentPrice  float64   `json:"current_price"`
	LossThreshold float64   `json:"loss_threshold"`
	TriggeredAt   time.Time `json:"triggered_at"`
}
