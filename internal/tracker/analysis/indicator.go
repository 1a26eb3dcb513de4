package analysis

import (
	"golang-portfolio-tracker/internal/entity"
)

// Overlay is one indicator series aligned to a bar sequence. Values[k]
// belongs to bar Offset+k, so an overlay never claims values for bars its
// window does not cover.
type Overlay struct {
	Name   string    `json:"name"`
	Period int       `json:"period"`
	Offset int       `json:"offset"`
	Values []float64 `json:"values"`
}

// SMA computes the simple moving average over the given period. result[k] is
// the mean of values[k..k+period-1], i.e. the window ending at index
// k+period-1 of the input.
func SMA(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	out := make([]float64, 0, len(values)-period+1)
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out = append(out, sum/float64(period))
		}
	}
	return out
}

// MovingAverage builds an SMA overlay over the bar closes. ok is false when
// the sequence is shorter than the period.
func MovingAverage(bars []entity.PriceBar, period int) (Overlay, bool) {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	values := SMA(closes, period)
	if values == nil {
		return Overlay{}, false
	}
	return Overlay{
		Name:   "sma",
		Period: period,
		Offset: period - 1,
		Values: values,
	}, true
}
