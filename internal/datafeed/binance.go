// Package datafeed fetches the historical candles shown by the demo chart.
package datafeed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/schollz/progressbar/v3"
	str2duration "github.com/xhit/go-str2duration/v2"
)

const batchSize = 500

// Candle is one OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	Close  float64
	High   float64
	Low    float64
	Volume float64
}

// BinanceFeed downloads candles from Binance's public market data API. No
// credentials are required for klines.
type BinanceFeed struct {
	client *binance.Client
	log    logger.Logger
}

// NewBinance creates a feed against the public Binance API.
func NewBinance(log logger.Logger) *BinanceFeed {
	return &BinanceFeed{
		client: binance.NewClient("", ""),
		log:    log,
	}
}

// CandlesByLimit fetches the most recent candles for a pair, paging in
// batches and reporting progress on the terminal.
func (f *BinanceFeed) CandlesByLimit(ctx context.Context, pair, timeframe string, limit int) ([]Candle, error) {
	interval, err := str2duration.ParseDuration(timeframe)
	if err != nil {
		return nil, fmt.Errorf("invalid timeframe %q: %w", timeframe, err)
	}

	f.log.Infof("Downloading %d candles of %s for %s", limit, timeframe, pair)
	progressBar := progressbar.Default(int64(limit))

	end := time.Now().Truncate(interval)
	start := end.Add(-interval * time.Duration(limit))

	candles := make([]Candle, 0, limit)
	for start.Before(end) {
		batchEnd := start.Add(interval * batchSize)
		if batchEnd.After(end) {
			batchEnd = end
		}

		data, err := f.client.NewKlinesService().
			Symbol(pair).
			Interval(timeframe).
			StartTime(start.UnixNano() / int64(time.Millisecond)).
			EndTime(batchEnd.UnixNano() / int64(time.Millisecond)).
			Limit(batchSize).
			Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch klines: %w", err)
		}

		for _, kline := range data {
			candles = append(candles, convertKline(*kline))
		}

		_ = progressBar.Add(len(data))
		start = batchEnd
	}

	if err := progressBar.Close(); err != nil {
		f.log.WithError(err).Warn("failed to close progress bar")
	}

	return candles, nil
}

// convertKline converts a Binance kline to a Candle.
func convertKline(k binance.Kline) Candle {
	candle := Candle{
		Time: time.Unix(0, k.OpenTime*int64(time.Millisecond)),
	}

	candle.Open, _ = strconv.ParseFloat(k.Open, 64)
	candle.Close, _ = strconv.ParseFloat(k.Close, 64)
	candle.High, _ = strconv.ParseFloat(k.High, 64)
	candle.Low, _ = strconv.ParseFloat(k.Low, 64)
	candle.Volume, _ = strconv.ParseFloat(k.Volume, 64)

	return candle
}
