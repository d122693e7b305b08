// Package indicator provides the stock chart indicators used by the demo
// server. Non-overlay indicators give the chart extra panes, which is what
// exercises multi-pane coordinate resolution for real.
package indicator

import (
	"time"

	"github.com/raykavin/chartoverlay/pkg/server"
)

// BaseIndicator holds the settings shared by all indicators.
type BaseIndicator struct {
	Period int
	Color  string
	Time   []time.Time
}

// closes extracts the close series from candles.
func closes(candles []server.Candle) []float64 {
	values := make([]float64, len(candles))
	for i, candle := range candles {
		values[i] = candle.Close
	}
	return values
}

// trim drops the warmup prefix, where talib emits zero values.
func trim(values []float64, candles []server.Candle, warmup int) ([]float64, []time.Time) {
	if warmup > len(values) {
		warmup = len(values)
	}

	times := make([]time.Time, 0, len(candles)-warmup)
	for _, candle := range candles[warmup:] {
		times = append(times, candle.Time)
	}

	return values[warmup:], times
}

// metric builds a line metric from a value series.
func metric(color string, values []float64, times []time.Time) server.IndicatorMetric {
	return server.IndicatorMetric{
		Style:  "line",
		Color:  color,
		Values: values,
		Time:   times,
	}
}
