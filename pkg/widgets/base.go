// Package widgets provides the stock overlay elements (legend, range
// switcher, button panel) that participate in corner layout. Widgets here do
// no drawing: they expose their pixel size and accept computed positions; the
// rendering surface applies those positions to its own elements.
package widgets

import (
	"sync"

	"github.com/raykavin/chartoverlay/pkg/overlay"
)

// Base carries the identity and placement state shared by all stock widgets.
type Base struct {
	mu         sync.RWMutex
	id         string
	corner     overlay.Corner
	priority   int
	visible    bool
	position   overlay.Position
	positioned bool
	onPosition func(overlay.Position)
}

func newBase(id string, corner overlay.Corner, priority int) Base {
	return Base{
		id:       id,
		corner:   corner,
		priority: priority,
		visible:  true,
	}
}

// ID implements overlay.Widget.
func (b *Base) ID() string {
	return b.id
}

// Corner implements overlay.Widget.
func (b *Base) Corner() overlay.Corner {
	return b.corner
}

// Priority implements overlay.Widget.
func (b *Base) Priority() int {
	return b.priority
}

// Visible implements overlay.Widget.
func (b *Base) Visible() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.visible
}

// SetVisible sets the widget's own visibility flag. Layout only reacts when
// the change is also reported to the manager via UpdateWidgetVisibility.
func (b *Base) SetVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
}

// UpdatePosition implements overlay.Widget: it records the computed position
// and forwards it to the position listener, if any.
func (b *Base) UpdatePosition(position overlay.Position) {
	b.mu.Lock()
	b.position = position
	b.positioned = true
	listener := b.onPosition
	b.mu.Unlock()

	if listener != nil {
		listener(position)
	}
}

// Position returns the last position pushed by the layout manager.
func (b *Base) Position() (overlay.Position, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.position, b.positioned
}

// OnPosition registers the listener invoked on every position push. This is
// the explicit handle external updaters hold instead of any ambient lookup.
func (b *Base) OnPosition(listener func(overlay.Position)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onPosition = listener
}
