// Package analysis holds the pure price-bar computations: candlestick
// pattern recognition and indicator overlays. Nothing here performs I/O or
// mutates its input.
package analysis

import (
	"golang-portfolio-tracker/internal/entity"
)

const (
	// smallBodyRatio bounds a "small" real body relative to the bar's range.
	smallBodyRatio = 1.0 / 3.0
	// starBodyRatio bounds the star's body relative to the first bar's body
	// in a morning star.
	starBodyRatio = 0.5
	// trendLookback is the number of preceding closes a simplified trend test
	// inspects for single-bar reversal patterns.
	trendLookback = 3
)

// Detect scans a chronological bar sequence and returns every recognized
// pattern whose defining window fits within it. Kinds are non-exclusive: one
// bar may close more than one pattern. All threshold comparisons are
// inclusive so exact-equality bars are not missed.
func Detect(bars []entity.PriceBar) []entity.PatternMatch {
	var matches []entity.PatternMatch
	for i := range bars {
		if isHammerAt(bars, i) {
			matches = append(matches, entity.PatternMatch{BarIndex: i, Kind: entity.PatternHammer, Direction: entity.DirectionBullish})
		}
		if isShootingStarAt(bars, i) {
			matches = append(matches, entity.PatternMatch{BarIndex: i, Kind: entity.PatternShootingStar, Direction: entity.DirectionBearish})
		}
		if isBullishEngulfingAt(bars, i) {
			matches = append(matches, entity.PatternMatch{BarIndex: i, Kind: entity.PatternBullishEngulfing, Direction: entity.DirectionBullish})
		}
		if isBearishEngulfingAt(bars, i) {
			matches = append(matches, entity.PatternMatch{BarIndex: i, Kind: entity.PatternBearishEngulfing, Direction: entity.DirectionBearish})
		}
		if isMorningStarAt(bars, i) {
			matches = append(matches, entity.PatternMatch{BarIndex: i, Kind: entity.PatternMorningStar, Direction: entity.DirectionBullish})
		}
	}
	return matches
}

// closesBelowPreceding reports whether bar i closed below every close of the
// preceding bars within the lookback. This is the simplified downtrend test;
// it needs at least one preceding bar.
func closesBelowPreceding(bars []entity.PriceBar, i int) bool {
	if i == 0 {
		return false
	}
	start := i - trendLookback
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if bars[i].Close >= bars[j].Close {
			return false
		}
	}
	return true
}

// closesAbovePreceding is the uptrend mirror of closesBelowPreceding.
func closesAbovePreceding(bars []entity.PriceBar, i int) bool {
	if i == 0 {
		return false
	}
	start := i - trendLookback
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if bars[i].Close <= bars[j].Close {
			return false
		}
	}
	return true
}

// isHammerAt: small body in the upper portion of the range, lower shadow at
// least twice the body, upper shadow no larger than the body, after a
// downtrend.
func isHammerAt(bars []entity.PriceBar, i int) bool {
	b := bars[i]
	if b.Range() <= 0 {
		return false
	}
	return b.Body() <= b.Range()*smallBodyRatio &&
		b.LowerShadow() >= 2*b.Body() &&
		b.UpperShadow() <= b.Body() &&
		closesBelowPreceding(bars, i)
}

// isShootingStarAt is the hammer's inverse: long upper shadow after an
// uptrend.
func isShootingStarAt(bars []entity.PriceBar, i int) bool {
	b := bars[i]
	if b.Range() <= 0 {
		return false
	}
	return b.Body() <= b.Range()*smallBodyRatio &&
		b.UpperShadow() >= 2*b.Body() &&
		b.LowerShadow() <= b.Body() &&
		closesAbovePreceding(bars, i)
}

// isBullishEngulfingAt: a bearish bar followed by a bullish bar whose real
// body fully contains the prior body.
func isBullishEngulfingAt(bars []entity.PriceBar, i int) bool {
	if i < 1 {
		return false
	}
	prev, cur := bars[i-1], bars[i]
	return prev.IsBearish() && cur.IsBullish() &&
		cur.Open <= prev.Close && cur.Close >= prev.Open
}

// isBearishEngulfingAt is the bullish engulfing's inverse.
func isBearishEngulfingAt(bars []entity.PriceBar, i int) bool {
	if i < 1 {
		return false
	}
	prev, cur := bars[i-1], bars[i]
	return prev.IsBullish() && cur.IsBearish() &&
		cur.Open >= prev.Close && cur.Close <= prev.Open
}

// isMorningStarAt: a bearish bar, then a small-bodied star gapping down from
// it, then a bullish bar closing at or above the midpoint of the first bar's
// body.
func isMorningStarAt(bars []entity.PriceBar, i int) bool {
	if i < 2 {
		return false
	}
	first, star, third := bars[i-2], bars[i-1], bars[i]
	if !first.IsBearish() || !third.IsBullish() {
		return false
	}
	if star.Body() > first.Body()*starBodyRatio {
		return false
	}
	starBodyTop := star.Open
	if star.Close > star.Open {
		starBodyTop = star.Close
	}
	return starBodyTop <= first.Close && third.Close >= first.BodyMidpoint()
}
