package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartoverlay/pkg/server"
)

func candleSeries(closes ...float64) []server.Candle {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]server.Candle, len(closes))
	for i, price := range closes {
		candles[i] = server.Candle{
			Time:  start.Add(time.Duration(i) * time.Hour),
			Close: price,
		}
	}
	return candles
}

func TestSMA(t *testing.T) {
	indicator := SMA(3, "#2962ff")

	require.Equal(t, "SMA(3)", indicator.Name())
	require.True(t, indicator.Overlay())
	require.Equal(t, 3, indicator.Warmup())

	candles := candleSeries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	indicator.Load(candles)

	metrics := indicator.Metrics()
	require.Len(t, metrics, 1)
	require.Equal(t, "SMA(3)", metrics[0].Name)
	require.Equal(t, "line", metrics[0].Style)
	require.Len(t, metrics[0].Values, len(candles)-3)
	require.Len(t, metrics[0].Time, len(candles)-3)

	// First emitted value averages closes 2, 3 and 4.
	require.InDelta(t, 3.0, metrics[0].Values[0], 1e-9)
	require.Equal(t, candles[3].Time, metrics[0].Time[0])
}

func TestSMA_TooFewCandles(t *testing.T) {
	indicator := SMA(20, "#2962ff")
	indicator.Load(candleSeries(1, 2, 3))

	metrics := indicator.Metrics()
	require.Len(t, metrics, 1)
	require.Empty(t, metrics[0].Values)
}

func TestRSI(t *testing.T) {
	indicator := RSI(14, "#f57f17")

	require.Equal(t, "RSI(14)", indicator.Name())
	require.False(t, indicator.Overlay())

	closes := make([]float64, 50)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	candles := candleSeries(closes...)
	indicator.Load(candles)

	metrics := indicator.Metrics()
	require.Len(t, metrics, 1)
	require.Len(t, metrics[0].Values, len(candles)-14)

	for _, value := range metrics[0].Values {
		require.GreaterOrEqual(t, value, 0.0)
		require.LessOrEqual(t, value, 100.0)
	}
}
