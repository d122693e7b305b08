package overlay

// Dimensions is a pixel width/height pair.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Position is the computed placement of a widget, relative to the chart
// container. ZIndex orders widgets above the chart canvas.
type Position struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	ZIndex int     `json:"zIndex"`
}

// Offset shifts a widget away from its anchoring corner.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Margins are inner spacing subtracted from a pane's raw box when deriving
// its content area.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}
