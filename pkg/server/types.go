package server

import "time"

// Candle represents OHLCV data rendered by the chart page.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume float64   `json:"volume"`
}

// IndicatorMetric is one drawable series of an indicator.
type IndicatorMetric struct {
	Name   string      `json:"name"`
	Color  string      `json:"color"`
	Style  string      `json:"style"`
	Time   []time.Time `json:"time"`
	Values []float64   `json:"value"`
}

// Indicator defines the methods a chart indicator must implement. Indicators
// with Overlay() == false are drawn in their own sub-pane, which is what
// gives a chart a pane count above one.
type Indicator interface {
	Name() string
	Overlay() bool
	Warmup() int
	Metrics() []IndicatorMetric
	Load(candles []Candle)
}

// indicatorPayload is the JSON-serializable form of an Indicator.
type indicatorPayload struct {
	Name    string            `json:"name"`
	Overlay bool              `json:"overlay"`
	Metrics []IndicatorMetric `json:"metrics"`
}
