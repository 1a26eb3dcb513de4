package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-portfolio-tracker/internal/entity"
)

func TestSMA(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 4}, SMA([]float64{1, 2, 3, 4, 5}, 3))
	assert.Equal(t, []float64{3}, SMA([]float64{1, 2, 3, 4, 5}, 5))
	assert.Nil(t, SMA([]float64{1, 2}, 3))
	assert.Nil(t, SMA(nil, 1))
	assert.Nil(t, SMA([]float64{1, 2, 3}, 0))
}

func TestMovingAverage_AlignsToBars(t *testing.T) {
	bars := []entity.PriceBar{
		{Close: 10}, {Close: 20}, {Close: 30}, {Close: 40},
	}

	overlay, ok := MovingAverage(bars, 2)
	require.True(t, ok)
	assert.Equal(t, 2, overlay.Period)
	assert.Equal(t, 1, overlay.Offset)
	assert.Equal(t, []float64{15, 25, 35}, overlay.Values)
	// Every value maps onto a real bar index.
	assert.Equal(t, len(bars), overlay.Offset+len(overlay.Values))
}

func TestMovingAverage_TooFewBars(t *testing.T) {
	_, ok := MovingAverage([]entity.PriceBar{{Close: 10}}, 5)
	assert.False(t, ok)
}
