package widgets

import (
	"github.com/raykavin/chartoverlay/pkg/overlay"
)

// Sizing constants for text-based widgets. The rendering surface uses a
// monospace font for overlay chrome, so widths derive from rune counts.
const (
	legendRowHeight = 18
	legendPadding   = 8
	charWidth       = 7
)

// LegendRow is one series line in a legend.
type LegendRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

// Legend is the per-pane series legend. Its dimensions follow its rows, so
// adding a row or writing a longer value can change the corner stack; callers
// should trigger a chart layout update after structural changes.
type Legend struct {
	Base
	rows []LegendRow
}

// NewLegend creates a legend assigned to the given corner.
func NewLegend(id string, corner overlay.Corner, priority int, rows ...LegendRow) *Legend {
	return &Legend{
		Base: newBase(id, corner, priority),
		rows: rows,
	}
}

// Dimensions implements overlay.Widget: width follows the longest row,
// height follows the row count.
func (l *Legend) Dimensions() overlay.Dimensions {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var maxLen int
	for _, row := range l.rows {
		if n := len(row.Label) + 2 + len(row.Value); n > maxLen {
			maxLen = n
		}
	}

	return overlay.Dimensions{
		Width:  float64(maxLen*charWidth + 2*legendPadding),
		Height: float64(len(l.rows)*legendRowHeight + 2*legendPadding),
	}
}

// Rows returns a copy of the legend's rows.
func (l *Legend) Rows() []LegendRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rows := make([]LegendRow, len(l.rows))
	copy(rows, l.rows)
	return rows
}

// SetValue updates the value of the row with the given label. Unknown labels
// are ignored.
func (l *Legend) SetValue(label, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.rows {
		if l.rows[i].Label == label {
			l.rows[i].Value = value
			return
		}
	}
}

// AddRow appends a series row.
func (l *Legend) AddRow(row LegendRow) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rows = append(l.rows, row)
}
