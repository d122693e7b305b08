// Package layout places overlay widgets into the four corners of a chart
// pane. Widgets stack along the axis away from their corner's edge, ordered
// by priority, separated by a configured gap. Positioning is pane-relative
// when the live chart can be measured, container-relative as a fallback, and
// a bare edge-padding placement with a scheduled retry when nothing can be
// measured at all. Layout is a cosmetic concern: no failure here is allowed
// to escape to the caller.
package layout

import (
	"sort"
	"sync"
	"time"

	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/overlay"
	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
	"github.com/raykavin/chartoverlay/pkg/overlay/dims"
)

// DefaultRetryDelay is how long a manager waits before retrying a corner that
// could only be given degenerate positions. Axis sizes are frequently not
// measurable in the same tick a widget registers.
const DefaultRetryDelay = 100 * time.Millisecond

// Events are the manager's outbound notifications. Both callbacks are
// optional and run after the corner's recalculation has fully completed.
type Events struct {
	OnLayoutChanged func(corner overlay.Corner, widgets []overlay.Widget)
	OnOverflow      func(corner overlay.Corner, widgets []overlay.Widget)
}

// Recorder receives layout instrumentation. Implemented by metric.Collector.
type Recorder interface {
	RecordLayout(corner string, elapsed time.Duration, overflowed int)
}

// PaneResolver resolves one pane's coordinates from a chart handle.
// Satisfied by coords.Resolver and by the memoizing resolver in coordcache.
type PaneResolver interface {
	PaneCoordinates(handle chart.Handle, paneID int) *coords.PaneCoordinates
}

// WidgetPlacement is a snapshot of one widget's computed placement.
type WidgetPlacement struct {
	ID         string             `json:"id"`
	Corner     overlay.Corner     `json:"corner"`
	Priority   int                `json:"priority"`
	Visible    bool               `json:"visible"`
	Position   overlay.Position   `json:"position"`
	Dimensions overlay.Dimensions `json:"dimensions"`
}

type entry struct {
	widget      overlay.Widget
	visible     bool
	seq         int
	position    overlay.Position
	hasPosition bool
}

type cornerState struct {
	entries     []*entry
	totalHeight float64
	totalWidth  float64
}

// positioning modes, in order of degradation.
type placementMode int

const (
	modePane placementMode = iota
	modeContainer
	modeDegenerate
)

// Manager owns the four corner stacks of one (chartID, paneID) pair. Widgets
// are referenced, never owned: unregistration forgets a widget, it does not
// destroy it.
type Manager struct {
	mu sync.Mutex

	chartID string
	paneID  int

	cfg      overlay.Config
	corners  map[overlay.Corner]*cornerState
	handle   chart.Handle
	resolver PaneResolver
	provider *dims.Provider
	events   Events
	recorder Recorder

	// fallbackDims is an explicitly reported container size, used when no
	// live handle measurement is available.
	fallbackDims *overlay.Dimensions

	retryDelay time.Duration
	retries    map[overlay.Corner]*time.Timer
	nextSeq    int
	closed     bool

	log logger.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets the initial layout tunables.
func WithConfig(cfg overlay.Config) Option {
	return func(m *Manager) {
		m.cfg = cfg
	}
}

// WithHandle sets the live chart handle at construction time.
func WithHandle(handle chart.Handle) Option {
	return func(m *Manager) {
		m.handle = handle
	}
}

// WithEvents sets the outbound callbacks.
func WithEvents(events Events) Option {
	return func(m *Manager) {
		m.events = events
	}
}

// WithRecorder attaches layout instrumentation.
func WithRecorder(recorder Recorder) Option {
	return func(m *Manager) {
		m.recorder = recorder
	}
}

// WithRetryDelay overrides the degenerate-placement retry delay.
func WithRetryDelay(delay time.Duration) Option {
	return func(m *Manager) {
		m.retryDelay = delay
	}
}

// WithResolver substitutes the coordinate resolver.
func WithResolver(resolver PaneResolver) Option {
	return func(m *Manager) {
		m.resolver = resolver
	}
}

// WithProvider substitutes the dimension provider.
func WithProvider(provider *dims.Provider) Option {
	return func(m *Manager) {
		m.provider = provider
	}
}

// NewManager creates a layout manager for one chart pane.
func NewManager(log logger.Logger, chartID string, paneID int, options ...Option) *Manager {
	manager := &Manager{
		chartID:    chartID,
		paneID:     paneID,
		cfg:        overlay.DefaultConfig(),
		corners:    make(map[overlay.Corner]*cornerState),
		retryDelay: DefaultRetryDelay,
		retries:    make(map[overlay.Corner]*time.Timer),
		log:        log.WithFields(map[string]any{"chart": chartID, "pane": paneID}),
	}

	for _, corner := range overlay.Corners() {
		manager.corners[corner] = &cornerState{}
	}

	for _, option := range options {
		option(manager)
	}

	if manager.provider == nil {
		manager.provider = dims.NewProvider(manager.log)
	}
	if manager.resolver == nil {
		manager.resolver = coords.NewResolver(manager.log, manager.provider)
	}

	return manager
}

// ChartID returns the chart identity this manager is keyed by.
func (m *Manager) ChartID() string { return m.chartID }

// PaneID returns the pane index this manager is keyed by.
func (m *Manager) PaneID() int { return m.paneID }

// RegisterWidget adds a widget to its corner and immediately lays that corner
// out. Registering an id that is already present replaces the prior
// registration; the corner list stays sorted by (priority, insertion order).
func (m *Manager) RegisterWidget(widget overlay.Widget) {
	if widget == nil || widget.ID() == "" {
		return
	}

	corner := widget.Corner()
	if !corner.Valid() {
		m.log.WithField("widget", widget.ID()).Warnf("ignoring widget with unknown corner %q", corner)
		return
	}

	m.mu.Lock()
	m.removeLocked(widget.ID())

	state := m.corners[corner]
	state.entries = append(state.entries, &entry{
		widget:  widget,
		visible: widget.Visible(),
		seq:     m.nextSeq,
	})
	m.nextSeq++

	sort.SliceStable(state.entries, func(i, j int) bool {
		if state.entries[i].widget.Priority() != state.entries[j].widget.Priority() {
			return state.entries[i].widget.Priority() < state.entries[j].widget.Priority()
		}
		return state.entries[i].seq < state.entries[j].seq
	})

	result := m.recalculateLocked(corner)
	m.mu.Unlock()

	m.dispatch(result)
}

// UnregisterWidget forgets a widget by id and lays its corner out again.
// Unknown ids are a no-op.
func (m *Manager) UnregisterWidget(id string) {
	m.mu.Lock()

	corner, removed := m.removeLocked(id)
	if !removed {
		m.mu.Unlock()
		return
	}

	result := m.recalculateLocked(corner)
	m.mu.Unlock()

	m.dispatch(result)
}

// UpdateWidgetVisibility flips a widget's layout visibility. An unchanged
// value short-circuits without recalculation. Invisible widgets occupy no
// stacking space and receive no position updates.
func (m *Manager) UpdateWidgetVisibility(id string, visible bool) {
	m.mu.Lock()

	var target *entry
	var corner overlay.Corner
	for c, state := range m.corners {
		for _, e := range state.entries {
			if e.widget.ID() == id {
				target, corner = e, c
				break
			}
		}
		if target != nil {
			break
		}
	}

	if target == nil || target.visible == visible {
		m.mu.Unlock()
		return
	}

	target.visible = visible
	result := m.recalculateLocked(corner)
	m.mu.Unlock()

	m.dispatch(result)
}

// WidgetPosition returns the last computed position for a widget, or nil when
// the widget is unknown, invisible, or has not been positioned yet.
func (m *Manager) WidgetPosition(id string) *overlay.Position {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, state := range m.corners {
		for _, e := range state.entries {
			if e.widget.ID() == id {
				if !e.visible || !e.hasPosition {
					return nil
				}
				position := e.position
				return &position
			}
		}
	}

	return nil
}

// Configure merges the patch into the layout tunables and lays out all four
// corners.
func (m *Manager) Configure(patch overlay.ConfigPatch) {
	m.mu.Lock()
	m.cfg = patch.Apply(m.cfg)
	results := m.recalculateAllLocked()
	m.mu.Unlock()

	for _, result := range results {
		m.dispatch(result)
	}
}

// Config returns the current layout tunables.
func (m *Manager) Config() overlay.Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// SetChartHandle attaches the live chart handle and lays out all corners.
// This is how a manager moves from fallback positioning to precise
// pane-relative positioning once the host chart becomes available.
func (m *Manager) SetChartHandle(handle chart.Handle) {
	m.mu.Lock()
	m.handle = handle
	results := m.recalculateAllLocked()
	m.mu.Unlock()

	for _, result := range results {
		m.dispatch(result)
	}
}

// UpdateChartDimensions reports an explicit container size for fallback
// positioning and lays out all corners.
func (m *Manager) UpdateChartDimensions(dimensions overlay.Dimensions) {
	m.mu.Lock()
	m.fallbackDims = &dimensions
	results := m.recalculateAllLocked()
	m.mu.Unlock()

	for _, result := range results {
		m.dispatch(result)
	}
}

// UpdateChartLayout lays out all corners from current measurements. Call on
// resize, pane collapse/expand, or any other chart mutation.
func (m *Manager) UpdateChartLayout() {
	m.mu.Lock()
	results := m.recalculateAllLocked()
	m.mu.Unlock()

	for _, result := range results {
		m.dispatch(result)
	}
}

// RecalculateCorner lays out one corner.
func (m *Manager) RecalculateCorner(corner overlay.Corner) {
	if !corner.Valid() {
		return
	}

	m.mu.Lock()
	result := m.recalculateLocked(corner)
	m.mu.Unlock()

	m.dispatch(result)
}

// On replaces the manager's event callbacks.
func (m *Manager) On(events Events) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = events
}

// CornerTotals returns the stacked height and width of a corner's visible
// widgets, including gaps and edge padding.
func (m *Manager) CornerTotals(corner overlay.Corner) (totalHeight, totalWidth float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if state, ok := m.corners[corner]; ok {
		return state.totalHeight, state.totalWidth
	}
	return 0, 0
}

// Snapshot returns the current placement of every registered widget, in stack
// order per corner.
func (m *Manager) Snapshot() map[overlay.Corner][]WidgetPlacement {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[overlay.Corner][]WidgetPlacement, len(m.corners))
	for corner, state := range m.corners {
		placements := make([]WidgetPlacement, 0, len(state.entries))
		for _, e := range state.entries {
			placements = append(placements, WidgetPlacement{
				ID:         e.widget.ID(),
				Corner:     corner,
				Priority:   e.widget.Priority(),
				Visible:    e.visible,
				Position:   e.position,
				Dimensions: e.widget.Dimensions(),
			})
		}
		snapshot[corner] = placements
	}

	return snapshot
}

// Close cancels pending retry timers and marks the manager unusable for
// further scheduling. Registered widgets are forgotten, not destroyed.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	for corner, timer := range m.retries {
		timer.Stop()
		delete(m.retries, corner)
	}
}

// removeLocked drops a widget by id from whichever corner holds it.
func (m *Manager) removeLocked(id string) (overlay.Corner, bool) {
	for corner, state := range m.corners {
		for i, e := range state.entries {
			if e.widget.ID() == id {
				state.entries = append(state.entries[:i], state.entries[i+1:]...)
				return corner, true
			}
		}
	}
	return "", false
}
