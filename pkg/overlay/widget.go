package overlay

// Widget is the minimal contract an overlay element (legend, range switcher,
// button panel) must satisfy to be placed by the layout manager. It is the
// seam that keeps the layout engine independent of any widget's rendering.
//
// Dimensions is queried live on every layout pass; the manager never caches
// widget sizes. UpdatePosition is a side-effecting callback: the widget owns
// applying the computed position to its visual representation.
type Widget interface {
	ID() string
	Corner() Corner
	Priority() int
	Visible() bool
	Dimensions() Dimensions
	UpdatePosition(Position)
}
