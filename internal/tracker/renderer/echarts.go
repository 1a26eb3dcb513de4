// Package renderer draws chart data as a standalone HTML candlestick chart.
// It consumes the builder's output as-is and adds no analysis of its own.
package renderer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"golang-portfolio-tracker/internal/tracker/dto"
)

// WriteHTML renders the chart data into dir and returns the written file
// path.
func WriteHTML(data *dto.ChartData, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	kline := charts.NewKLine()
	kline.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s (%s / %s)", data.Symbol, data.Interval, data.Range),
			Subtitle: fmt.Sprintf("%d bars, %d patterns", len(data.Bars), len(data.Patterns)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	x := make([]string, len(data.Bars))
	candles := make([]opts.KlineData, len(data.Bars))
	for i, bar := range data.Bars {
		x[i] = bar.Timestamp.Format(timestampFormat(data.Interval))
		// go-echarts kline value order is open, close, low, high.
		candles[i] = opts.KlineData{Value: [4]float64{bar.Open, bar.Close, bar.Low, bar.High}}
	}

	marks := make([]opts.MarkPointNameCoordItem, 0, len(data.Patterns))
	for _, match := range data.Patterns {
		bar := data.Bars[match.BarIndex]
		marks = append(marks, opts.MarkPointNameCoordItem{
			Name:       string(match.Kind),
			Coordinate: []interface{}{x[match.BarIndex], bar.High},
		})
	}

	kline.SetXAxis(x).AddSeries("price", candles,
		charts.WithMarkPointNameCoordItemOpts(marks...))

	for _, overlay := range data.Overlays {
		points := make([]opts.LineData, len(data.Bars))
		for i := range data.Bars {
			if i < overlay.Offset {
				// Placeholder before the window covers the bar.
				points[i] = opts.LineData{Value: "-"}
				continue
			}
			points[i] = opts.LineData{Value: overlay.Values[i-overlay.Offset]}
		}

		line := charts.NewLine()
		line.SetXAxis(x).AddSeries(fmt.Sprintf("%s%d", overlay.Name, overlay.Period), points,
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
		kline.Overlap(line)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.html", data.Symbol, time.Now().Format("20060102-150405")))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := kline.Render(f); err != nil {
		return "", fmt.Errorf("failed to render chart: %w", err)
	}
	return path, nil
}

func timestampFormat(interval string) string {
	switch interval {
	case "1d", "5d", "1wk", "1mo":
		return "2006-01-02"
	default:
		return "01-02 15:04"
	}
}
