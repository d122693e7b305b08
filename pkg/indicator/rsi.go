package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartoverlay/pkg/server"
)

// RSI creates a new Relative Strength Index indicator, drawn in its own
// sub-pane.
func RSI(period int, color string) server.Indicator {
	return &rsi{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type rsi struct {
	BaseIndicator
	Values []float64
}

// Warmup returns the number of candles needed to calculate the indicator.
func (r rsi) Warmup() int {
	return r.Period
}

// Name returns the formatted name of the indicator.
func (r rsi) Name() string {
	return fmt.Sprintf("RSI(%d)", r.Period)
}

// Overlay returns false: RSI is drawn in a separate pane.
func (r rsi) Overlay() bool {
	return false
}

// Load calculates the indicator values from the provided candles.
func (r *rsi) Load(candles []server.Candle) {
	if len(candles) < r.Period {
		return
	}

	values := talib.Rsi(closes(candles), r.Period)
	r.Values, r.Time = trim(values, candles, r.Period)
}

// Metrics returns the visual representation of the indicator.
func (r rsi) Metrics() []server.IndicatorMetric {
	m := metric(r.Color, r.Values, r.Time)
	m.Name = r.Name()
	return []server.IndicatorMetric{m}
}
