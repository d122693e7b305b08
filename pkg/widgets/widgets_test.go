package widgets

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartoverlay/pkg/overlay"
)

func TestLegend_DimensionsFollowRows(t *testing.T) {
	legend := NewLegend("legend", overlay.TopLeft, 0,
		LegendRow{Label: "BTCUSDT", Value: "64250.00"},
		LegendRow{Label: "SMA(20)"},
	)

	// Longest row is "BTCUSDT" + separator + "64250.00" = 17 chars.
	size := legend.Dimensions()
	require.Equal(t, float64(17*charWidth+2*legendPadding), size.Width)
	require.Equal(t, float64(2*legendRowHeight+2*legendPadding), size.Height)

	legend.AddRow(LegendRow{Label: "RSI(14)"})
	require.Equal(t, float64(3*legendRowHeight+2*legendPadding), legend.Dimensions().Height)
}

func TestLegend_SetValue(t *testing.T) {
	legend := NewLegend("legend", overlay.TopLeft, 0,
		LegendRow{Label: "BTCUSDT", Value: "0"},
	)

	legend.SetValue("BTCUSDT", "64250.00")
	legend.SetValue("unknown", "ignored")

	rows := legend.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, "64250.00", rows[0].Value)
}

func TestParseRanges(t *testing.T) {
	ranges, err := ParseRanges("15m", "1h", "1d")
	require.NoError(t, err)
	require.Len(t, ranges, 3)
	require.Equal(t, "15m", ranges[0].Label)
	require.Equal(t, 24.0, ranges[2].Duration.Hours())

	_, err = ParseRanges("15m", "nonsense")
	require.Error(t, err)
}

func TestRangeSwitcher_Select(t *testing.T) {
	ranges, err := ParseRanges("15m", "1h")
	require.NoError(t, err)

	switcher := NewRangeSwitcher("ranges", overlay.TopLeft, 0, ranges)
	require.Equal(t, "15m", switcher.Selected())

	var selected []string
	switcher.OnSelect(func(r Range) { selected = append(selected, r.Label) })

	switcher.Select("1h")
	switcher.Select("1h")      // unchanged, no callback
	switcher.Select("unknown") // ignored

	require.Equal(t, "1h", switcher.Selected())
	require.Equal(t, []string{"1h"}, selected)
}

func TestRangeSwitcher_Dimensions(t *testing.T) {
	ranges, err := ParseRanges("15m", "1h")
	require.NoError(t, err)

	switcher := NewRangeSwitcher("ranges", overlay.TopLeft, 0, ranges)
	size := switcher.Dimensions()

	// "15m" and "1h" buttons plus one gap between them.
	expected := float64(3*charWidth+2*rangeButtonPadding) +
		float64(2*charWidth+2*rangeButtonPadding) +
		rangeButtonGap
	require.Equal(t, expected, size.Width)
	require.Equal(t, float64(rangeButtonHeight), size.Height)
}

func TestButtonPanel(t *testing.T) {
	panel := NewButtonPanel("panel", overlay.TopRight, 0,
		Button{Name: "collapse", Glyph: "v"},
		Button{Name: "settings", Glyph: "*"},
	)

	size := panel.Dimensions()
	require.Equal(t, float64(2*panelButtonSize+panelButtonGap), size.Width)
	require.Equal(t, float64(panelButtonSize), size.Height)

	var pressed []string
	panel.OnPress(func(b Button) { pressed = append(pressed, b.Name) })
	panel.Press("collapse")
	panel.Press("missing")
	require.Equal(t, []string{"collapse"}, pressed)

	empty := NewButtonPanel("empty", overlay.TopRight, 0)
	require.Equal(t, overlay.Dimensions{}, empty.Dimensions())
}

func TestBase_PositionTracking(t *testing.T) {
	legend := NewLegend("legend", overlay.TopLeft, 0)

	_, ok := legend.Position()
	require.False(t, ok)

	var received overlay.Position
	legend.OnPosition(func(p overlay.Position) { received = p })

	legend.UpdatePosition(overlay.Position{Top: 6, Left: 6, ZIndex: 100})

	position, ok := legend.Position()
	require.True(t, ok)
	require.Equal(t, overlay.Position{Top: 6, Left: 6, ZIndex: 100}, position)
	require.Equal(t, position, received)

	require.True(t, legend.Visible())
	legend.SetVisible(false)
	require.False(t, legend.Visible())
}
