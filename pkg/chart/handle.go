// Package chart defines the narrow seam between the overlay layout engine and
// the host charting surface. The engine only ever asks a handle for pane
// counts and pixel sizes; every query is best-effort, because the browser-side
// chart may not have stabilized (or may not exist at all) when asked.
package chart

import "github.com/raykavin/chartoverlay/pkg/overlay"

// Handle is the read-only view of a live chart the layout engine depends on.
// Each accessor returns ok=false when the measurement is not yet available;
// callers degrade to fallback values rather than failing.
type Handle interface {
	// PaneCount returns the number of horizontal panes (main price pane plus
	// indicator sub-panes). Zero means "unknown".
	PaneCount() int

	// ContainerDimensions returns the pixel size of the chart's root element.
	ContainerDimensions() (overlay.Dimensions, bool)

	// ContainerOrigin returns the page-absolute offset of the chart's root
	// element, used to derive absolute widget coordinates.
	ContainerOrigin() (x, y float64, ok bool)

	// TimeScaleDimensions returns the size of the time-axis strip.
	TimeScaleDimensions() (overlay.Dimensions, bool)

	// PriceScaleDimensions returns the size of the price-axis strip.
	PriceScaleDimensions() (overlay.Dimensions, bool)
}
