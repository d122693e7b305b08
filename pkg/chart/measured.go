package chart

import (
	"sync"

	"github.com/raykavin/chartoverlay/pkg/overlay"
)

// Measurement is a snapshot of chart geometry reported by the rendering
// surface (typically a browser client posting its DOM measurements).
type Measurement struct {
	Container  overlay.Dimensions `json:"container"`
	OriginX    float64            `json:"originX"`
	OriginY    float64            `json:"originY"`
	TimeScale  overlay.Dimensions `json:"timeScale"`
	PriceScale overlay.Dimensions `json:"priceScale"`
	PaneCount  int                `json:"paneCount"`
}

// Measured is a Handle fed by externally reported measurements. Before the
// first report every accessor answers "not available", which is exactly the
// degrade path the layout engine is built around.
type Measured struct {
	mu       sync.RWMutex
	current  Measurement
	reported bool
}

// NewMeasured creates an empty measured handle.
func NewMeasured() *Measured {
	return &Measured{}
}

// Report replaces the handle's geometry snapshot wholesale.
func (m *Measured) Report(measurement Measurement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = measurement
	m.reported = true
}

// PaneCount implements Handle.
func (m *Measured) PaneCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.reported {
		return 0
	}
	return m.current.PaneCount
}

// ContainerDimensions implements Handle.
func (m *Measured) ContainerDimensions() (overlay.Dimensions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.reported || m.current.Container.Width <= 0 || m.current.Container.Height <= 0 {
		return overlay.Dimensions{}, false
	}
	return m.current.Container, true
}

// ContainerOrigin implements Handle.
func (m *Measured) ContainerOrigin() (float64, float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.reported {
		return 0, 0, false
	}
	return m.current.OriginX, m.current.OriginY, true
}

// TimeScaleDimensions implements Handle.
func (m *Measured) TimeScaleDimensions() (overlay.Dimensions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.reported || m.current.TimeScale.Height <= 0 {
		return overlay.Dimensions{}, false
	}
	return m.current.TimeScale, true
}

// PriceScaleDimensions implements Handle.
func (m *Measured) PriceScaleDimensions() (overlay.Dimensions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.reported || m.current.PriceScale.Width <= 0 {
		return overlay.Dimensions{}, false
	}
	return m.current.PriceScale, true
}
