// Package overlay defines the shared vocabulary of the corner-widget layout
// system: corners, pixel geometry, the widget contract, and layout tunables.
package overlay

// Corner identifies one of the four stacking regions of a chart pane.
type Corner string

const (
	TopLeft     Corner = "top-left"
	TopRight    Corner = "top-right"
	BottomLeft  Corner = "bottom-left"
	BottomRight Corner = "bottom-right"
)

// Corners returns every corner in a fixed order.
func Corners() []Corner {
	return []Corner{TopLeft, TopRight, BottomLeft, BottomRight}
}

// Valid reports whether c is one of the four known corners.
func (c Corner) Valid() bool {
	switch c {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

// IsTop reports whether widgets in this corner stack downward from the top edge.
func (c Corner) IsTop() bool {
	return c == TopLeft || c == TopRight
}

// IsLeft reports whether widgets in this corner anchor to the left edge.
func (c Corner) IsLeft() bool {
	return c == TopLeft || c == BottomLeft
}

func (c Corner) String() string {
	return string(c)
}
