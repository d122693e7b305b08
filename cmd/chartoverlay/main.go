package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/raykavin/chartoverlay/internal/config"
	"github.com/raykavin/chartoverlay/internal/datafeed"
	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/indicator"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/logger/zerolog"
	"github.com/raykavin/chartoverlay/pkg/metric"
	"github.com/raykavin/chartoverlay/pkg/overlay"
	"github.com/raykavin/chartoverlay/pkg/overlay/coordcache"
	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
	"github.com/raykavin/chartoverlay/pkg/overlay/dims"
	"github.com/raykavin/chartoverlay/pkg/overlay/layout"
	"github.com/raykavin/chartoverlay/pkg/server"
	"github.com/raykavin/chartoverlay/pkg/widgets"
)

const chartID = "main"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "chartoverlay",
		Short:   "Chart overlay layout demo server",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./chartoverlay.yaml", "Config file path")
	rootCmd.AddCommand(buildServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo chart with overlay widgets",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := zerolog.New(cfg.Log.Level, cfg.Log.DateTimeLayout, cfg.Log.Colored, cfg.Log.JSON)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Coordinate pipeline: dimension provider -> resolver -> cache.
	cache, err := buildCache(log, cfg.Cache)
	if err != nil {
		return err
	}
	defer cache.Stop()

	handle := chart.NewMeasured()
	provider := dims.NewProvider(log)
	resolver := coordcache.NewCachedResolver(coords.NewResolver(log, provider), cache, chartID, "root")

	collector := metric.NewCollector()
	registry := layout.NewRegistry(log,
		layout.WithHandle(handle),
		layout.WithProvider(provider),
		layout.WithResolver(resolver),
		layout.WithRecorder(collector),
		layout.WithConfig(overlay.Config{
			EdgePadding: cfg.Layout.EdgePadding,
			WidgetGap:   cfg.Layout.WidgetGap,
			BaseZIndex:  cfg.Layout.BaseZIndex,
		}),
	)
	defer registry.CleanupAll()

	srv, err := server.New(log, registry, handle,
		server.WithAddr(cfg.Addr),
		server.WithChartID(chartID),
		server.WithIndicators(
			indicator.SMA(20, "#2962ff"),
			indicator.RSI(14, "#f57f17"),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if err := loadCandles(ctx, log, cfg.Feed, srv); err != nil {
		log.WithError(err).Warn("continuing without candle data")
	}

	if err := registerWidgets(log, cfg, registry, srv); err != nil {
		return err
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	fmt.Println("------ LAYOUT REPORT ------")
	collector.WriteReport(os.Stdout)
	if err := collector.WriteHistogram(os.Stdout); err != nil {
		log.WithError(err).Warn("failed to print layout histogram")
	}

	return nil
}

// buildCache creates the coordinate cache, file-backed when configured.
func buildCache(log logger.Logger, cfg config.CacheConfig) (*coordcache.Cache, error) {
	options := []coordcache.Option{
		coordcache.WithExpiration(cfg.Expiration),
		coordcache.WithSweepInterval(cfg.SweepInterval),
	}

	if cfg.File != "" {
		store, err := coordcache.FromFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache file: %w", err)
		}
		options = append(options, coordcache.WithStore(store))
	}

	return coordcache.New(log, options...)
}

// loadCandles downloads the demo candle series and hands it to the server.
func loadCandles(ctx context.Context, log logger.Logger, cfg config.FeedConfig, srv *server.Server) error {
	feed := datafeed.NewBinance(log)

	candles, err := feed.CandlesByLimit(ctx, cfg.Pair, cfg.Timeframe, cfg.Limit)
	if err != nil {
		return err
	}

	srv.SetCandles(lo.Map(candles, func(c datafeed.Candle, _ int) server.Candle {
		return server.Candle{
			Time:   c.Time,
			Open:   c.Open,
			Close:  c.Close,
			High:   c.High,
			Low:    c.Low,
			Volume: c.Volume,
		}
	}))

	return nil
}

// registerWidgets places the stock overlay widgets on the chart panes.
func registerWidgets(log logger.Logger, cfg *config.AppConfig, registry *layout.Registry, srv *server.Server) error {
	events := layout.Events{
		OnLayoutChanged: func(overlay.Corner, []overlay.Widget) {
			srv.BroadcastLayout()
		},
		OnOverflow: func(corner overlay.Corner, overflowed []overlay.Widget) {
			log.WithField("corner", corner.String()).
				Warnf("%d widget(s) overflow the chart area", len(overflowed))
		},
	}

	mainPane := registry.Get(chartID, 0)
	mainPane.On(events)

	legend := widgets.NewLegend("legend", overlay.TopLeft, 0,
		widgets.LegendRow{Label: cfg.Feed.Pair, Color: "#26a69a"},
		widgets.LegendRow{Label: "SMA(20)", Color: "#2962ff"},
	)

	ranges, err := widgets.ParseRanges(cfg.Ranges...)
	if err != nil {
		return err
	}
	rangeSwitcher := widgets.NewRangeSwitcher("range-switcher", overlay.TopLeft, 10, ranges)
	rangeSwitcher.OnSelect(func(r widgets.Range) {
		log.Infof("visible range set to %s", r.Label)
	})

	buttons := widgets.NewButtonPanel("pane-buttons", overlay.TopRight, 0,
		widgets.Button{Name: "collapse", Glyph: "▾"},
		widgets.Button{Name: "settings", Glyph: "⚙"},
	)

	mainPane.RegisterWidget(legend)
	mainPane.RegisterWidget(rangeSwitcher)
	mainPane.RegisterWidget(buttons)

	// The RSI sub-pane gets its own legend, managed independently.
	rsiPane := registry.Get(chartID, 1)
	rsiPane.On(events)
	rsiPane.RegisterWidget(widgets.NewLegend("rsi-legend", overlay.TopLeft, 0,
		widgets.LegendRow{Label: "RSI(14)", Color: "#f57f17"},
	))

	return nil
}
