package coords

import (
	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/overlay"
	"github.com/raykavin/chartoverlay/pkg/overlay/dims"
)

// Resolver computes pane coordinates from a chart handle. Every lookup is
// best-effort: a missing handle or an out-of-range pane yields nil, never an
// error, because "not available yet" is a routine condition here.
type Resolver struct {
	provider *dims.Provider
	margins  overlay.Margins
	log      logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMargins sets the inner margins subtracted from each pane's content area.
func WithMargins(margins overlay.Margins) Option {
	return func(r *Resolver) {
		r.margins = margins
	}
}

// NewResolver creates a resolver backed by the given dimension provider.
func NewResolver(log logger.Logger, provider *dims.Provider, options ...Option) *Resolver {
	resolver := &Resolver{
		provider: provider,
		log:      log,
	}

	for _, option := range options {
		option(resolver)
	}

	return resolver
}

// PaneCoordinates resolves the box of one pane. Pane heights are estimated as
// containerHeight / paneCount; the cumulative top offset of pane N is the sum
// of the estimated heights of panes 0..N-1. Pane 0 is the main pane and alone
// carries the time-axis strip inside its box; its content area excludes it.
// Returns nil for a nil handle, an unready container, or a paneID outside
// [0, paneCount).
func (r *Resolver) PaneCoordinates(handle chart.Handle, paneID int) *PaneCoordinates {
	if handle == nil || paneID < 0 {
		return nil
	}

	paneCount := handle.PaneCount()
	if paneCount <= 0 || paneID >= paneCount {
		return nil
	}

	container := r.provider.ContainerDimensions(handle)
	if container == nil {
		return nil
	}

	axes := r.provider.AxisDimensions(handle)

	return r.paneFromMeasurements(handle, paneID, paneCount, *container, axes)
}

// FullPaneBounds resolves the raw box of one pane, before any content-area
// subtraction, or nil when the pane cannot be resolved.
func (r *Resolver) FullPaneBounds(handle chart.Handle, paneID int) *overlay.Rect {
	pane := r.PaneCoordinates(handle, paneID)
	if pane == nil {
		return nil
	}
	return &overlay.Rect{X: pane.X, Y: pane.Y, Width: pane.Width, Height: pane.Height}
}

// AllPaneCoordinates resolves every pane of the chart, or nil when the chart
// is not measurable yet.
func (r *Resolver) AllPaneCoordinates(handle chart.Handle) []*PaneCoordinates {
	if handle == nil {
		return nil
	}

	paneCount := handle.PaneCount()
	if paneCount <= 0 {
		return nil
	}

	panes := make([]*PaneCoordinates, 0, paneCount)
	for paneID := 0; paneID < paneCount; paneID++ {
		pane := r.PaneCoordinates(handle, paneID)
		if pane == nil {
			return nil
		}
		panes = append(panes, pane)
	}

	return panes
}

// PaneCoordinatesFromMeasurements is the degrade path used when no live
// handle is available: the caller supplies raw measurements (typically read
// from the document) and the same estimation strategy is applied. Results are
// coarser since axis sizes default when absent from the measurement.
func (r *Resolver) PaneCoordinatesFromMeasurements(measurement chart.Measurement, paneID int) *PaneCoordinates {
	if paneID < 0 {
		return nil
	}

	paneCount := measurement.PaneCount
	if paneCount <= 0 {
		paneCount = 1
	}
	if paneID >= paneCount {
		return nil
	}

	if measurement.Container.Width <= 0 || measurement.Container.Height <= 0 {
		return nil
	}

	axes := dims.AxisDimensions{
		TimeScale:  measurement.TimeScale,
		PriceScale: measurement.PriceScale,
	}
	if axes.TimeScale.Height <= 0 {
		axes.TimeScale = overlay.Dimensions{Width: measurement.Container.Width, Height: dims.DefaultTimeScaleHeight}
	}
	if axes.PriceScale.Width <= 0 {
		axes.PriceScale = overlay.Dimensions{Width: dims.DefaultPriceScaleWidth, Height: measurement.Container.Height}
	}

	pane := r.estimatePane(paneID, paneCount, measurement.Container, axes)
	pane.AbsoluteX = measurement.OriginX + pane.X
	pane.AbsoluteY = measurement.OriginY + pane.Y

	return pane
}

func (r *Resolver) paneFromMeasurements(handle chart.Handle, paneID, paneCount int, container overlay.Dimensions, axes dims.AxisDimensions) *PaneCoordinates {
	pane := r.estimatePane(paneID, paneCount, container, axes)

	pane.AbsoluteX = pane.X
	pane.AbsoluteY = pane.Y
	if originX, originY, ok := handle.ContainerOrigin(); ok {
		pane.AbsoluteX += originX
		pane.AbsoluteY += originY
	}

	return pane
}

// estimatePane applies the shared estimation strategy: equal pane heights,
// cumulative offsets, price scale on the left, time axis inside the main pane.
func (r *Resolver) estimatePane(paneID, paneCount int, container overlay.Dimensions, axes dims.AxisDimensions) *PaneCoordinates {
	paneHeight := container.Height / float64(paneCount)

	pane := &PaneCoordinates{
		PaneID:     paneID,
		X:          0,
		Y:          paneHeight * float64(paneID),
		Width:      container.Width,
		Height:     paneHeight,
		Margins:    r.margins,
		IsMainPane: paneID == 0,
		IsLastPane: paneID == paneCount-1,
	}

	content := overlay.Rect{
		X:      pane.X + axes.PriceScale.Width + r.margins.Left,
		Y:      pane.Y + r.margins.Top,
		Width:  pane.Width - axes.PriceScale.Width - r.margins.Left - r.margins.Right,
		Height: pane.Height - r.margins.Top - r.margins.Bottom,
	}

	// Only the main pane carries the time-axis strip.
	if pane.IsMainPane {
		content.Y += axes.TimeScale.Height
		content.Height -= axes.TimeScale.Height
	}

	if content.Width < 0 {
		content.Width = 0
	}
	if content.Height < 0 {
		content.Height = 0
	}

	pane.ContentArea = content
	return pane
}
