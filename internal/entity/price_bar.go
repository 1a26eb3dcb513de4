package entity

import "time"

// PriceBar is one OHLCV candle for a symbol at a given period. Bars are
// immutable once fetched and are never persisted; the market data provider
// is the source of truth.
type PriceBar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// IsBullish reports whether the bar closed above its open.
func (b PriceBar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b PriceBar) IsBearish() bool {
	return b.Close < b.Open
}

// Body returns the absolute size of the bar's real body.
func (b PriceBar) Body() float64 {
	if b.Close > b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Range returns the high-low span of the bar.
func (b PriceBar) Range() float64 {
	return b.High - b.Low
}

// UpperShadow returns the distance from the top of the body to the high.
func (b PriceBar) UpperShadow() float64 {
	if b.Close > b.Open {
		return b.High - b.Close
	}
	return b.High - b.Open
}

// LowerShadow returns the distance from the bottom of the body to the low.
func (b PriceBar) LowerShadow() float64 {
	if b.Close > b.Open {
		return b.Open - b.Low
	}
	return b.Close - b.Low
}

// BodyMidpoint returns the price halfway through the bar's real body.
func (b PriceBar) BodyMidpoint() float64 {
	return (b.Open + b.Close) / 2
}
