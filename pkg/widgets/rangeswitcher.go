package widgets

import (
	"fmt"
	"time"

	"github.com/raykavin/chartoverlay/pkg/overlay"
	str2duration "github.com/xhit/go-str2duration/v2"
)

const (
	rangeButtonHeight  = 22
	rangeButtonPadding = 6
	rangeButtonGap     = 4
)

// Range is one visible-range choice offered by the switcher.
type Range struct {
	Label    string        `json:"label"`
	Duration time.Duration `json:"duration"`
}

// ParseRanges turns human labels ("15m", "4h", "1d", "1w") into ranges.
func ParseRanges(labels ...string) ([]Range, error) {
	ranges := make([]Range, 0, len(labels))
	for _, label := range labels {
		duration, err := str2duration.ParseDuration(label)
		if err != nil {
			return nil, fmt.Errorf("invalid range %q: %w", label, err)
		}
		ranges = append(ranges, Range{Label: label, Duration: duration})
	}
	return ranges, nil
}

// RangeSwitcher is a horizontal row of visible-range buttons.
type RangeSwitcher struct {
	Base
	ranges   []Range
	selected string
	onSelect func(Range)
}

// NewRangeSwitcher creates a switcher with the first range preselected.
func NewRangeSwitcher(id string, corner overlay.Corner, priority int, ranges []Range) *RangeSwitcher {
	switcher := &RangeSwitcher{
		Base:   newBase(id, corner, priority),
		ranges: ranges,
	}
	if len(ranges) > 0 {
		switcher.selected = ranges[0].Label
	}
	return switcher
}

// Dimensions implements overlay.Widget: one row of buttons sized by their
// labels.
func (r *RangeSwitcher) Dimensions() overlay.Dimensions {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var width float64
	for i, rng := range r.ranges {
		width += float64(len(rng.Label)*charWidth + 2*rangeButtonPadding)
		if i > 0 {
			width += rangeButtonGap
		}
	}

	return overlay.Dimensions{Width: width, Height: rangeButtonHeight}
}

// Ranges returns the switcher's choices.
func (r *RangeSwitcher) Ranges() []Range {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ranges := make([]Range, len(r.ranges))
	copy(ranges, r.ranges)
	return ranges
}

// Selected returns the label of the active range.
func (r *RangeSwitcher) Selected() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// Select activates a range by label and fires the selection callback.
// Unknown labels are ignored.
func (r *RangeSwitcher) Select(label string) {
	r.mu.Lock()
	var selected *Range
	for i := range r.ranges {
		if r.ranges[i].Label == label {
			selected = &r.ranges[i]
			break
		}
	}
	if selected == nil || r.selected == label {
		r.mu.Unlock()
		return
	}
	r.selected = label
	callback := r.onSelect
	r.mu.Unlock()

	if callback != nil {
		callback(*selected)
	}
}

// OnSelect registers the selection callback.
func (r *RangeSwitcher) OnSelect(callback func(Range)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onSelect = callback
}
