package entity

import "time"

// Stock is a single portfolio holding. Symbol is the unique key within the
// portfolio. Breached is the only field mutated by the threshold monitor; it
// is persisted so that an already-notified breach does not re-alert after a
// restart.
type Stock struct {
	Symbol        string    `gorm:"primaryKey;size:16" json:"symbol"`
	CompanyName   string    `gorm:"size:128" json:"company_name,omitempty"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	PurchaseDate  time.Time `gorm:"not null" json:"purchase_date"`
	LossThreshold float64   `gorm:"not null" json:"loss_threshold"`
	Breached      bool      `gorm:"not null;default:false" json:"breached"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for the Postgres store backend.
func (Stock) TableName() string {
	return "stocks"
}

// CostBasis returns quantity times purchase price.
func (s *Stock) CostBasis() float64 {
	return s.Quantity * s.PurchasePrice
}
