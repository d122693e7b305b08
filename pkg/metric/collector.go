// Package metric collects layout instrumentation: per-corner recompute
// durations and overflow counts, with console reporting helpers.
package metric

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/gonum/stat"
)

// CornerStats summarizes the recorded layout passes of one corner.
type CornerStats struct {
	Corner     string
	Count      int
	Overflows  int
	MeanMicros float64
	StdDev     float64
	MaxMicros  float64
}

// Collector accumulates layout timings. Safe for concurrent use; attach one
// to a layout manager through its Recorder option.
type Collector struct {
	mu        sync.Mutex
	durations map[string][]float64 // corner -> duration in microseconds
	overflows map[string]int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		durations: make(map[string][]float64),
		overflows: make(map[string]int),
	}
}

// RecordLayout implements the layout manager's Recorder seam.
func (c *Collector) RecordLayout(corner string, elapsed time.Duration, overflowed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.durations[corner] = append(c.durations[corner], float64(elapsed.Microseconds()))
	c.overflows[corner] += overflowed
}

// Stats returns per-corner summaries for every corner that recorded at least
// one layout pass.
func (c *Collector) Stats() []CornerStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := make([]CornerStats, 0, len(c.durations))
	for corner, samples := range c.durations {
		if len(samples) == 0 {
			continue
		}

		mean, stdDev := stat.MeanStdDev(samples, nil)

		var maxSample float64
		for _, s := range samples {
			if s > maxSample {
				maxSample = s
			}
		}

		stats = append(stats, CornerStats{
			Corner:     corner,
			Count:      len(samples),
			Overflows:  c.overflows[corner],
			MeanMicros: mean,
			StdDev:     stdDev,
			MaxMicros:  maxSample,
		})
	}

	return stats
}

// WriteReport renders the per-corner summary as a table.
func (c *Collector) WriteReport(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Corner", "Layouts", "Overflows", "Mean (µs)", "StdDev", "Max (µs)"})

	for _, s := range c.Stats() {
		table.Append([]string{
			s.Corner,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Overflows),
			fmt.Sprintf("%.1f", s.MeanMicros),
			fmt.Sprintf("%.1f", s.StdDev),
			fmt.Sprintf("%.1f", s.MaxMicros),
		})
	}

	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	table.Render()
}

// WriteHistogram prints the distribution of all recorded layout durations.
func (c *Collector) WriteHistogram(w io.Writer) error {
	c.mu.Lock()
	var all []float64
	for _, samples := range c.durations {
		all = append(all, samples...)
	}
	c.mu.Unlock()

	if len(all) == 0 {
		return nil
	}

	hist := histogram.Hist(10, all)
	return histogram.Fprint(w, hist, histogram.Linear(10))
}
