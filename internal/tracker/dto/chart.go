package dto

import (
	"golang-portfolio-tracker/internal/entity"
	"golang-portfolio-tracker/internal/tracker/analysis"
)

// ChartData is the renderable series for one symbol: chronological bars plus
// pattern annotations and indicator overlays. Pattern bar indices are always
// valid into Bars. Renderers consume this structure unchanged.
type ChartData struct {
	Symbol   string                `json:"symbol"`
	Interval string                `json:"interval"`
	Range    string                `json:"range"`
	Bars     []entity.PriceBar     `json:"bars"`
	Patterns []entity.PatternMatch `json:"patterns"`
	Overlays []analysis.Overlay    `json:"overlays"`
}
