// Package server serves the demo chart page and bridges the browser surface
// to the overlay layout engine: the page reports its DOM measurements over a
// websocket, the layout engine recomputes widget placements, and the server
// pushes the resulting positions back for the page to apply.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/overlay/layout"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// Server hosts the chart page and its overlay bridge.
type Server struct {
	sync.Mutex
	addr          string
	debug         bool
	chartID       string
	candles       []Candle
	indicators    []Indicator
	scriptContent string
	indexHTML     *template.Template
	handle        *chart.Measured
	registry      *layout.Registry
	ws            *WebSocketManager
	log           logger.Logger
}

// Option defines a function type for configuring a Server instance
type Option func(*Server)

// WithAddr sets the HTTP listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithDebug enables debug mode (disables minification).
func WithDebug() Option {
	return func(s *Server) {
		s.debug = true
	}
}

// WithChartID overrides the chart identity used for layout manager lookups.
func WithChartID(chartID string) Option {
	return func(s *Server) {
		s.chartID = chartID
	}
}

// WithIndicators adds indicators to the chart.
func WithIndicators(indicators ...Indicator) Option {
	return func(s *Server) {
		s.indicators = indicators
	}
}

// New creates a server bound to a layout registry and a measured chart
// handle. The overlay script is transpiled once at startup.
func New(log logger.Logger, registry *layout.Registry, handle *chart.Measured, options ...Option) (*Server, error) {
	server := &Server{
		addr:     ":8080",
		chartID:  "main",
		handle:   handle,
		registry: registry,
		log:      log,
	}

	// Apply all options
	for _, option := range options {
		option(server)
	}

	// Parse chart HTML template
	var err error
	server.indexHTML, err = template.ParseFS(staticFiles, "assets/chart.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart template: %w", err)
	}

	// Read and transpile the overlay bridge script
	overlayJS, err := staticFiles.ReadFile("assets/overlay.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read overlay.js: %w", err)
	}

	transpiled := api.Transform(string(overlayJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !server.debug,
		MinifyIdentifiers: !server.debug,
		MinifyWhitespace:  !server.debug,
	})

	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("overlay script failed with: %v", transpiled.Errors)
	}

	server.scriptContent = string(transpiled.Code)
	server.ws = NewWebSocketManager(log, server)

	return server, nil
}

// ChartID returns the chart identity this server serves.
func (s *Server) ChartID() string {
	return s.chartID
}

// SetCandles replaces the candle series shown by the chart page.
func (s *Server) SetCandles(candles []Candle) {
	s.Lock()
	defer s.Unlock()

	s.candles = candles
	for _, indicator := range s.indicators {
		indicator.Load(candles)
	}
}

// PaneCount is the main price pane plus one sub-pane per non-overlay
// indicator.
func (s *Server) PaneCount() int {
	s.Lock()
	defer s.Unlock()

	count := 1
	for _, indicator := range s.indicators {
		if !indicator.Overlay() {
			count++
		}
	}
	return count
}

// Start registers handlers and serves until the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.Handle("/assets/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("/assets/overlay.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		fmt.Fprint(w, s.scriptContent)
	})

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/data", s.handleData)
	mux.HandleFunc("/layout", s.handleLayout)
	mux.HandleFunc("/ws", s.ws.HandleWebSocket)
	mux.HandleFunc("/", s.handleIndex)

	s.log.Infof("Chart available at http://localhost%s", s.addr)
	return http.ListenAndServe(s.addr, mux)
}

// BroadcastLayout pushes the current placement of every widget to all
// connected pages. Wire it to the layout managers' OnLayoutChanged event.
func (s *Server) BroadcastLayout() {
	s.ws.Broadcast(WebSocketMessage{
		Type:    "layout",
		Payload: s.layoutSnapshot(),
	})
}

// applyMeasurement feeds a page-reported measurement into the chart handle
// and triggers a relayout of every pane manager for this chart.
func (s *Server) applyMeasurement(measurement chart.Measurement) {
	if measurement.PaneCount <= 0 {
		measurement.PaneCount = s.PaneCount()
	}
	s.handle.Report(measurement)

	for _, manager := range s.registry.Managers() {
		if manager.ChartID() == s.chartID {
			manager.UpdateChartLayout()
		}
	}
}

// layoutSnapshot collects widget placements per pane.
func (s *Server) layoutSnapshot() map[string]any {
	panes := make(map[string]any)
	for _, manager := range s.registry.Managers() {
		if manager.ChartID() != s.chartID {
			continue
		}
		panes[fmt.Sprintf("%d", manager.PaneID())] = manager.Snapshot()
	}

	return map[string]any{
		"chartId": s.chartID,
		"panes":   panes,
	}
}
