package coords

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/logger/zerolog"
	"github.com/raykavin/chartoverlay/pkg/overlay"
	"github.com/raykavin/chartoverlay/pkg/overlay/dims"
)

func testLogger(t *testing.T) logger.Logger {
	t.Helper()
	log, err := zerolog.New("error", time.RFC3339, false, false)
	require.NoError(t, err)
	return log
}

func measuredHandle(panes int) *chart.Measured {
	handle := chart.NewMeasured()
	handle.Report(chart.Measurement{
		Container:  overlay.Dimensions{Width: 800, Height: 600},
		OriginX:    10,
		OriginY:    20,
		TimeScale:  overlay.Dimensions{Width: 800, Height: 28},
		PriceScale: overlay.Dimensions{Width: 70, Height: 600},
		PaneCount:  panes,
	})
	return handle
}

func newTestResolver(t *testing.T, options ...Option) *Resolver {
	t.Helper()
	log := testLogger(t)
	return NewResolver(log, dims.NewProvider(log), options...)
}

func TestResolver_RejectsUnresolvablePanes(t *testing.T) {
	resolver := newTestResolver(t)

	require.Nil(t, resolver.PaneCoordinates(nil, 0))
	require.Nil(t, resolver.PaneCoordinates(measuredHandle(2), -1))
	require.Nil(t, resolver.PaneCoordinates(measuredHandle(2), 2))

	// Unreported handle has no container yet.
	require.Nil(t, resolver.PaneCoordinates(chart.NewMeasured(), 0))
}

func TestResolver_EqualPaneSplit(t *testing.T) {
	resolver := newTestResolver(t)
	handle := measuredHandle(3)

	for paneID := 0; paneID < 3; paneID++ {
		pane := resolver.PaneCoordinates(handle, paneID)
		require.NotNil(t, pane)
		require.Equal(t, paneID, pane.PaneID)
		require.Equal(t, 200.0, pane.Height)
		require.Equal(t, 200.0*float64(paneID), pane.Y)
		require.Equal(t, 800.0, pane.Width)
	}
}

func TestResolver_MainPaneCarriesTimeAxis(t *testing.T) {
	resolver := newTestResolver(t)
	handle := measuredHandle(2)

	main := resolver.PaneCoordinates(handle, 0)
	require.NotNil(t, main)
	require.True(t, main.IsMainPane)
	require.False(t, main.IsLastPane)
	require.Equal(t, 70.0, main.ContentArea.X)
	require.Equal(t, 28.0, main.ContentArea.Y)
	require.Equal(t, 730.0, main.ContentArea.Width)
	require.Equal(t, 300-28.0, main.ContentArea.Height)

	sub := resolver.PaneCoordinates(handle, 1)
	require.NotNil(t, sub)
	require.False(t, sub.IsMainPane)
	require.True(t, sub.IsLastPane)
	require.Equal(t, 300.0, sub.ContentArea.Y)
	require.Equal(t, 300.0, sub.ContentArea.Height)
}

func TestResolver_AbsoluteOffsetsIncludeOrigin(t *testing.T) {
	resolver := newTestResolver(t)

	pane := resolver.PaneCoordinates(measuredHandle(2), 1)
	require.NotNil(t, pane)
	require.Equal(t, 10.0, pane.AbsoluteX)
	require.Equal(t, 20+300.0, pane.AbsoluteY)
}

func TestResolver_MarginsShrinkContentArea(t *testing.T) {
	resolver := newTestResolver(t, WithMargins(overlay.Margins{Top: 5, Right: 10, Bottom: 5, Left: 10}))

	pane := resolver.PaneCoordinates(measuredHandle(1), 0)
	require.NotNil(t, pane)
	require.Equal(t, 70+10.0, pane.ContentArea.X)
	require.Equal(t, 5+28.0, pane.ContentArea.Y)
	require.Equal(t, 800-70-20.0, pane.ContentArea.Width)
	require.Equal(t, 600-10-28.0, pane.ContentArea.Height)
}

func TestResolver_FullPaneBounds(t *testing.T) {
	resolver := newTestResolver(t)

	bounds := resolver.FullPaneBounds(measuredHandle(2), 1)
	require.NotNil(t, bounds)
	require.Equal(t, overlay.Rect{X: 0, Y: 300, Width: 800, Height: 300}, *bounds)

	require.Nil(t, resolver.FullPaneBounds(nil, 0))
}

func TestResolver_AllPaneCoordinates(t *testing.T) {
	resolver := newTestResolver(t)

	panes := resolver.AllPaneCoordinates(measuredHandle(2))
	require.Len(t, panes, 2)
	require.True(t, panes[0].IsMainPane)
	require.True(t, panes[1].IsLastPane)

	require.Nil(t, resolver.AllPaneCoordinates(nil))
	require.Nil(t, resolver.AllPaneCoordinates(chart.NewMeasured()))
}

func TestResolver_FromMeasurementsDefaultsMissingAxes(t *testing.T) {
	resolver := newTestResolver(t)

	pane := resolver.PaneCoordinatesFromMeasurements(chart.Measurement{
		Container: overlay.Dimensions{Width: 800, Height: 600},
	}, 0)
	require.NotNil(t, pane)

	// Absent axes and pane count fall back to the fixed defaults.
	require.Equal(t, float64(dims.DefaultPriceScaleWidth), pane.ContentArea.X)
	require.Equal(t, float64(dims.DefaultTimeScaleHeight), pane.ContentArea.Y)
	require.Equal(t, 600.0, pane.Height)

	require.Nil(t, resolver.PaneCoordinatesFromMeasurements(chart.Measurement{}, 0))
	require.Nil(t, resolver.PaneCoordinatesFromMeasurements(chart.Measurement{
		Container: overlay.Dimensions{Width: 800, Height: 600},
	}, 1))
}

func TestElementPosition_AllCorners(t *testing.T) {
	pane := &PaneCoordinates{
		ContentArea: overlay.Rect{X: 70, Y: 28, Width: 730, Height: 572},
	}
	size := overlay.Dimensions{Width: 100, Height: 40}
	offset := overlay.Offset{X: 6, Y: 6}

	tests := []struct {
		corner overlay.Corner
		top    float64
		left   float64
	}{
		{overlay.TopLeft, 34, 76},
		{overlay.TopRight, 34, 800 - 100 - 6},
		{overlay.BottomLeft, 600 - 40 - 6, 76},
		{overlay.BottomRight, 600 - 40 - 6, 800 - 100 - 6},
	}

	for _, tt := range tests {
		position := ElementPosition(pane, size, tt.corner, offset)
		require.Equal(t, tt.top, position.Top, "corner %s", tt.corner)
		require.Equal(t, tt.left, position.Left, "corner %s", tt.corner)
	}
}

func TestElementPosition_NilPane(t *testing.T) {
	position := ElementPosition(nil, overlay.Dimensions{Width: 100, Height: 40}, overlay.TopLeft, overlay.Offset{X: 6, Y: 8})
	require.Equal(t, 8.0, position.Top)
	require.Equal(t, 6.0, position.Left)
}
