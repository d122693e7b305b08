package indicator

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/chartoverlay/pkg/server"
)

// SMA creates a new Simple Moving Average indicator, drawn over the price
// pane.
func SMA(period int, color string) server.Indicator {
	return &sma{
		BaseIndicator: BaseIndicator{
			Period: period,
			Color:  color,
		},
	}
}

type sma struct {
	BaseIndicator
	Values []float64
}

// Warmup returns the number of candles needed to calculate the indicator.
func (s sma) Warmup() int {
	return s.Period
}

// Name returns the formatted name of the indicator.
func (s sma) Name() string {
	return fmt.Sprintf("SMA(%d)", s.Period)
}

// Overlay returns true if the indicator should be drawn on the price chart.
func (s sma) Overlay() bool {
	return true
}

// Load calculates the indicator values from the provided candles.
func (s *sma) Load(candles []server.Candle) {
	if len(candles) < s.Period {
		return
	}

	values := talib.Sma(closes(candles), s.Period)
	s.Values, s.Time = trim(values, candles, s.Period)
}

// Metrics returns the visual representation of the indicator.
func (s sma) Metrics() []server.IndicatorMetric {
	m := metric(s.Color, s.Values, s.Time)
	m.Name = s.Name()
	return []server.IndicatorMetric{m}
}
