package entity

// PatternKind identifies a recognized candlestick pattern.
type PatternKind string

const (
	PatternHammer           PatternKind = "hammer"
	PatternBullishEngulfing PatternKind = "bullish_engulfing"
	PatternMorningStar      PatternKind = "morning_star"
	PatternShootingStar     PatternKind = "shooting_star"
	PatternBearishEngulfing PatternKind = "bearish_engulfing"
)

// Direction is the price direction a pattern signals.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
)

// PatternMatch is one detected pattern occurrence. BarIndex points at the
// pattern's defining bar, the last of the bars it spans.
type PatternMatch struct {
	BarIndex  int         `json:"bar_index"`
	Kind      PatternKind `json:"pattern_kind"`
	Direction Direction   `json:"direction"`
}

// Window returns the number of consecutive bars the pattern kind spans.
func (k PatternKind) Window() int {
	switch k {
	case PatternBullishEngulfing, PatternBearishEngulfing:
		return 2
	case PatternMorningStar:
		return 3
	default:
		return 1
	}
}
