package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
)

func bar(o, h, l, c float64) entity.PriceBar {
	return entity.PriceBar{Open: o, High: h, Low: l, Close: c}
}

// A bearish bar with a large body, a small star gapping down from its close,
// and a bullish bar closing above the first bar's body midpoint.
func morningStarBars() []entity.PriceBar {
	return []entity.PriceBar{
		bar(100, 101, 89, 90),
		bar(88, 88.5, 87, 87.5),
		bar(88, 97, 87.5, 96),
	}
}

func TestDetect_MorningStar(t *testing.T) {
	matches := Detect(morningStarBars())

	require.Len(t, matches, 1)
	assert.Equal(t, entity.PatternMorningStar, matches[0].Kind)
	assert.Equal(t, entity.DirectionBullish, matches[0].Direction)
	assert.Equal(t, 2, matches[0].BarIndex)
}

func TestDetect_MorningStar_StarOutsideGap(t *testing.T) {
	bars := morningStarBars()
	// Push the star's close above the first bar's close so its body no longer
	// gaps down.
	bars[1] = bar(88, 91.5, 87, 91)

	matches := Detect(bars)
	assert.Empty(t, matches)
}

func TestDetect_ShortSequences(t *testing.T) {
	full := morningStarBars()

	// Two bars cannot hold a three-bar pattern.
	matches := Detect(full[1:])
	for _, m := range matches {
		assert.NotEqual(t, entity.PatternMorningStar, m.Kind)
	}

	// A lone bar has no preceding trend and no two-bar window.
	matches = Detect(full[2:])
	assert.Empty(t, matches)
}

func TestDetect_HammerAfterDowntrend(t *testing.T) {
	bars := []entity.PriceBar{
		bar(101, 101.5, 99.5, 100),
		bar(100, 100.2, 97.8, 98),
		bar(98, 98.3, 95.8, 96),
		// Lower shadow is exactly twice the body; the inclusive comparison
		// must still match.
		bar(94.8, 95.4, 94.0, 95.2),
	}

	matches := Detect(bars)
	require.Len(t, matches, 1)
	assert.Equal(t, entity.PatternHammer, matches[0].Kind)
	assert.Equal(t, 3, matches[0].BarIndex)
}

func TestDetect_HammerNeedsDowntrend(t *testing.T) {
	// Same hammer shape, but preceded by a lower close: no downtrend.
	bars := []entity.PriceBar{
		bar(94, 94.5, 93, 94.2),
		bar(94.8, 95.4, 94.0, 95.2),
	}

	for _, m := range Detect(bars) {
		assert.NotEqual(t, entity.PatternHammer, m.Kind)
	}
}

func TestDetect_BullishEngulfing(t *testing.T) {
	bars := []entity.PriceBar{
		bar(50, 50.5, 47.5, 48),
		// Open equals the prior close and close equals the prior open: body
		// containment is inclusive.
		bar(48, 50.5, 47.8, 50),
	}

	matches := Detect(bars)
	require.Len(t, matches, 1)
	assert.Equal(t, entity.PatternBullishEngulfing, matches[0].Kind)
	assert.Equal(t, entity.DirectionBullish, matches[0].Direction)
	assert.Equal(t, 1, matches[0].BarIndex)
}

func TestDetect_BearishEngulfing(t *testing.T) {
	bars := []entity.PriceBar{
		bar(48, 50.2, 47.8, 50),
		bar(50.5, 50.6, 47.5, 47.8),
	}

	matches := Detect(bars)
	require.Len(t, matches, 1)
	assert.Equal(t, entity.PatternBearishEngulfing, matches[0].Kind)
	assert.Equal(t, entity.DirectionBearish, matches[0].Direction)
}

func TestDetect_ShootingStarAfterUptrend(t *testing.T) {
	bars := []entity.PriceBar{
		bar(95, 95.5, 94.5, 95.2),
		bar(95.2, 96.4, 95.0, 96.1),
		bar(96.1, 97.2, 96.0, 97),
		// Small body at the bottom of the range with a long upper shadow.
		bar(97.2, 98.6, 97.1, 97.6),
	}

	matches := Detect(bars)
	require.Len(t, matches, 1)
	assert.Equal(t, entity.PatternShootingStar, matches[0].Kind)
	assert.Equal(t, entity.DirectionBearish, matches[0].Direction)
	assert.Equal(t, 3, matches[0].BarIndex)
}

func TestDetect_EmptyAndFlatInput(t *testing.T) {
	assert.Empty(t, Detect(nil))

	// Zero-range bars can never match a shadow-based pattern.
	flat := []entity.PriceBar{bar(10, 10, 10, 10), bar(10, 10, 10, 10)}
	assert.Empty(t, Detect(flat))
}
