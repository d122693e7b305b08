// Package config handles demo application configuration using Viper.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// AppConfig holds the demo application configuration.
type AppConfig struct {
	Addr   string
	Log    LogConfig
	Cache  CacheConfig
	Layout LayoutConfig
	Feed   FeedConfig
	Ranges []string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level          string
	DateTimeLayout string
	Colored        bool
	JSON           bool
}

// CacheConfig holds coordinate cache configuration.
type CacheConfig struct {
	Expiration    time.Duration
	SweepInterval time.Duration
	File          string
}

// LayoutConfig holds corner layout tunables.
type LayoutConfig struct {
	EdgePadding float64
	WidgetGap   float64
	BaseZIndex  int
}

// FeedConfig holds the demo candle feed configuration.
type FeedConfig struct {
	Pair      string
	Timeframe string
	Limit     int
}

// Load reads configuration from an optional YAML file and the environment.
// Environment variables use the CHARTOVERLAY_ prefix with underscores, e.g.
// CHARTOVERLAY_FEED_PAIR.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("CHARTOVERLAY")
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.datetime_layout", "2006-01-02 15:04:05")
	v.SetDefault("log.colored", true)
	v.SetDefault("log.json", false)
	v.SetDefault("cache.expiration", "5s")
	v.SetDefault("cache.sweep_interval", "1s")
	v.SetDefault("cache.file", "")
	v.SetDefault("layout.edge_padding", 6.0)
	v.SetDefault("layout.widget_gap", 6.0)
	v.SetDefault("layout.base_zindex", 100)
	v.SetDefault("feed.pair", "BTCUSDT")
	v.SetDefault("feed.timeframe", "1h")
	v.SetDefault("feed.limit", 500)
	v.SetDefault("ranges", []string{"15m", "1h", "4h", "1d"})

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	expiration, err := str2duration.ParseDuration(v.GetString("cache.expiration"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache.expiration: %w", err)
	}

	sweepInterval, err := str2duration.ParseDuration(v.GetString("cache.sweep_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache.sweep_interval: %w", err)
	}

	return &AppConfig{
		Addr: v.GetString("addr"),
		Log: LogConfig{
			Level:          v.GetString("log.level"),
			DateTimeLayout: v.GetString("log.datetime_layout"),
			Colored:        v.GetBool("log.colored"),
			JSON:           v.GetBool("log.json"),
		},
		Cache: CacheConfig{
			Expiration:    expiration,
			SweepInterval: sweepInterval,
			File:          v.GetString("cache.file"),
		},
		Layout: LayoutConfig{
			EdgePadding: v.GetFloat64("layout.edge_padding"),
			WidgetGap:   v.GetFloat64("layout.widget_gap"),
			BaseZIndex:  v.GetInt("layout.base_zindex"),
		},
		Feed: FeedConfig{
			Pair:      v.GetString("feed.pair"),
			Timeframe: v.GetString("feed.timeframe"),
			Limit:     v.GetInt("feed.limit"),
		},
		Ranges: v.GetStringSlice("ranges"),
	}, nil
}
