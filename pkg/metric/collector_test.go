package metric

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector_Stats(t *testing.T) {
	collector := NewCollector()

	collector.RecordLayout("top-left", 100*time.Microsecond, 0)
	collector.RecordLayout("top-left", 300*time.Microsecond, 1)
	collector.RecordLayout("bottom-right", 50*time.Microsecond, 0)

	stats := collector.Stats()
	require.Len(t, stats, 2)

	byCorner := make(map[string]CornerStats)
	for _, s := range stats {
		byCorner[s.Corner] = s
	}

	topLeft := byCorner["top-left"]
	require.Equal(t, 2, topLeft.Count)
	require.Equal(t, 1, topLeft.Overflows)
	require.Equal(t, 200.0, topLeft.MeanMicros)
	require.Equal(t, 300.0, topLeft.MaxMicros)

	require.Equal(t, 1, byCorner["bottom-right"].Count)
}

func TestCollector_EmptyStats(t *testing.T) {
	collector := NewCollector()
	require.Empty(t, collector.Stats())
}

func TestCollector_WriteReport(t *testing.T) {
	collector := NewCollector()
	collector.RecordLayout("top-left", 150*time.Microsecond, 2)

	var buf bytes.Buffer
	collector.WriteReport(&buf)

	require.Contains(t, buf.String(), "top-left")
	require.Contains(t, buf.String(), "2")
}

func TestCollector_WriteHistogram(t *testing.T) {
	collector := NewCollector()

	var buf bytes.Buffer
	require.NoError(t, collector.WriteHistogram(&buf))
	require.Empty(t, buf.String())

	for i := 1; i <= 20; i++ {
		collector.RecordLayout("top-left", time.Duration(i*10)*time.Microsecond, 0)
	}
	require.NoError(t, collector.WriteHistogram(&buf))
	require.NotEmpty(t, buf.String())
}
