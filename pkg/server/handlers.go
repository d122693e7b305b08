package server

import (
	"encoding/json"
	"net/http"
)

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	err := s.indexHTML.Execute(w, map[string]any{
		"chartId":   s.ChartID(),
		"paneCount": s.PaneCount(),
	})
	if err != nil {
		s.log.WithError(err).Error("template execution failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// handleData serves the candle series and indicator payloads.
func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	candles := s.candles
	indicators := make([]indicatorPayload, 0, len(s.indicators))
	for _, indicator := range s.indicators {
		indicators = append(indicators, indicatorPayload{
			Name:    indicator.Name(),
			Overlay: indicator.Overlay(),
			Metrics: indicator.Metrics(),
		})
	}
	s.Unlock()

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"candles":    candles,
		"indicators": indicators,
	})
	if err != nil {
		s.log.WithError(err).Error("failed to encode chart data")
	}
}

// handleLayout serves the current widget placements as JSON, mainly for
// debugging and tests.
func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.layoutSnapshot()); err != nil {
		s.log.WithError(err).Error("failed to encode layout snapshot")
	}
}
