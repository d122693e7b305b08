// Package coords derives per-pane pixel coordinates from a live chart handle.
// The host chart does not expose exact pane boxes, so pane heights are
// estimated as equal shares of the container and refined with axis sizes;
// results are deliberately approximate and recomputed on demand.
package coords

import (
	"github.com/raykavin/chartoverlay/pkg/overlay"
)

// PaneCoordinates describes one pane's box in container-relative and
// page-absolute space. ContentArea excludes the price-scale strip and the
// configured margins; for the main pane it also excludes the time-axis strip.
type PaneCoordinates struct {
	PaneID int `json:"paneId"`

	// Container-relative pane box.
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Page-absolute pane origin.
	AbsoluteX float64 `json:"absoluteX"`
	AbsoluteY float64 `json:"absoluteY"`

	ContentArea overlay.Rect    `json:"contentArea"`
	Margins     overlay.Margins `json:"margins"`

	IsMainPane bool `json:"isMainPane"`
	IsLastPane bool `json:"isLastPane"`
}
