package layout

import (
	"time"

	"github.com/raykavin/chartoverlay/pkg/overlay"
	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
	"github.com/samber/lo"
)

// cornerResult carries everything computed under the manager lock that must
// be dispatched after it is released: position pushes and event callbacks run
// outside the lock so widgets are free to call back into the manager.
type cornerResult struct {
	corner     overlay.Corner
	placements []placement
	visible    []overlay.Widget
	overflowed []overlay.Widget
	degenerate bool
}

type placement struct {
	widget   overlay.Widget
	position overlay.Position
}

// recalculateAllLocked lays out all four corners in their fixed order. The
// order is irrelevant to correctness: corners are independent of each other.
func (m *Manager) recalculateAllLocked() []*cornerResult {
	results := make([]*cornerResult, 0, 4)
	for _, corner := range overlay.Corners() {
		results = append(results, m.recalculateLocked(corner))
	}
	return results
}

// recalculateLocked fully resolves every visible widget of one corner: totals,
// overflow detection, and stacked positions. Any internal failure degrades to
// the fallback placement path instead of propagating; overlay layout must
// never be able to break the chart itself.
func (m *Manager) recalculateLocked(corner overlay.Corner) (result *cornerResult) {
	start := time.Now()
	state := m.corners[corner]

	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf("corner %s layout recovered: %v", corner, r)
			result = &cornerResult{corner: corner}
		}
	}()

	visibleEntries := lo.Filter(state.entries, func(e *entry, _ int) bool {
		return e.visible
	})

	state.totalHeight, state.totalWidth = m.cornerTotals(visibleEntries)

	rect, bounds, mode := m.placementContextLocked()

	result = &cornerResult{
		corner:     corner,
		degenerate: mode == modeDegenerate,
		visible: lo.Map(visibleEntries, func(e *entry, _ int) overlay.Widget {
			return e.widget
		}),
	}

	stackOffset := m.cfg.EdgePadding
	for i, e := range visibleEntries {
		size := e.widget.Dimensions()

		var position overlay.Position
		if mode == modeDegenerate {
			// Nothing is measurable: park the widget at the edge padding
			// offset near the top-left and let the retry correct it.
			position = overlay.Position{Top: stackOffset, Left: m.cfg.EdgePadding}
		} else {
			position = coords.PositionInRect(rect, size, corner, overlay.Offset{
				X: m.cfg.EdgePadding,
				Y: stackOffset,
			})
		}
		position.ZIndex = m.cfg.BaseZIndex + i

		if bounds != nil && overflows(position, size, *bounds) {
			result.overflowed = append(result.overflowed, e.widget)
		}

		e.position = position
		e.hasPosition = true
		result.placements = append(result.placements, placement{widget: e.widget, position: position})

		stackOffset += size.Height + m.cfg.WidgetGap
	}

	if mode == modeDegenerate && len(visibleEntries) > 0 {
		m.scheduleRetryLocked(corner)
	}

	if m.recorder != nil {
		m.recorder.RecordLayout(corner.String(), time.Since(start), len(result.overflowed))
	}

	return result
}

// cornerTotals computes the stacked height and width of the visible widgets,
// including inter-widget gaps and edge padding on both sides.
func (m *Manager) cornerTotals(visible []*entry) (totalHeight, totalWidth float64) {
	totalHeight = 2 * m.cfg.EdgePadding
	totalWidth = 2 * m.cfg.EdgePadding

	var maxWidth float64
	for i, e := range visible {
		size := e.widget.Dimensions()
		totalHeight += size.Height
		if i > 0 {
			totalHeight += m.cfg.WidgetGap
		}
		if size.Width > maxWidth {
			maxWidth = size.Width
		}
	}

	totalWidth += maxWidth
	return totalHeight, totalWidth
}

// placementContextLocked picks the best positioning basis currently
// available: the pane's own content area, a container-size estimate with
// default axis strips, or nothing at all.
func (m *Manager) placementContextLocked() (overlay.Rect, *overlay.Dimensions, placementMode) {
	// Pane-relative: precise placement that tracks pane collapse/resize.
	if m.handle != nil {
		if pane := m.resolver.PaneCoordinates(m.handle, m.paneID); pane != nil {
			container := m.provider.ContainerDimensions(m.handle)
			return pane.ContentArea, container, modePane
		}
	}

	// Container fallback: estimate the usable area by carving the default
	// axis strips off the container box.
	container := m.provider.ContainerDimensions(m.handle)
	if container == nil {
		container = m.fallbackDims
	}
	if container != nil {
		axes := m.provider.AxisDimensions(m.handle)
		rect := overlay.Rect{
			X:      0,
			Y:      0,
			Width:  container.Width - axes.PriceScale.Width,
			Height: container.Height - axes.TimeScale.Height,
		}
		return rect, container, modeContainer
	}

	return overlay.Rect{}, nil, modeDegenerate
}

// overflows reports whether a placed widget's box exceeds the container, or
// was pushed past the top-left origin.
func overflows(position overlay.Position, size overlay.Dimensions, bounds overlay.Dimensions) bool {
	return position.Left < 0 ||
		position.Top < 0 ||
		position.Left+size.Width > bounds.Width ||
		position.Top+size.Height > bounds.Height
}

// scheduleRetryLocked arms (or re-arms) the deferred recalculation for a
// corner that was laid out degenerately.
func (m *Manager) scheduleRetryLocked(corner overlay.Corner) {
	if m.closed {
		return
	}

	if timer, ok := m.retries[corner]; ok {
		timer.Stop()
	}

	m.retries[corner] = time.AfterFunc(m.retryDelay, func() {
		m.mu.Lock()
		if m.closed {
			m.mu.Unlock()
			return
		}
		delete(m.retries, corner)
		result := m.recalculateLocked(corner)
		m.mu.Unlock()

		m.dispatch(result)
	})
}

// dispatch pushes positions to widgets and fires event callbacks, outside the
// manager lock. Each callback is isolated: one panicking widget or subscriber
// must not stop the rest.
func (m *Manager) dispatch(result *cornerResult) {
	if result == nil {
		return
	}

	m.mu.Lock()
	events := m.events
	m.mu.Unlock()

	for _, p := range result.placements {
		m.safeCall(func() { p.widget.UpdatePosition(p.position) })
	}

	if len(result.overflowed) > 0 && events.OnOverflow != nil {
		m.safeCall(func() { events.OnOverflow(result.corner, result.overflowed) })
	}

	if events.OnLayoutChanged != nil {
		m.safeCall(func() { events.OnLayoutChanged(result.corner, result.visible) })
	}
}

func (m *Manager) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Errorf("layout callback panicked: %v", r)
		}
	}()
	fn()
}
