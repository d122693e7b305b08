package coordcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
)

func sampleEntry(key, chartID string) *Entry {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &Entry{
		Key:         key,
		ChartID:     chartID,
		ContainerID: "root/p0",
		Coordinates: coords.PaneCoordinates{PaneID: 0, Width: 800, Height: 600},
		Timestamp:   now,
		ExpiresAt:   now.Add(5 * time.Second),
	}
}

func TestBuntStore_Roundtrip(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(sampleEntry("k1", "btc")))

	entry, err := store.Get("k1")
	require.NoError(t, err)
	require.Equal(t, "btc", entry.ChartID)
	require.Equal(t, 800.0, entry.Coordinates.Width)
}

func TestBuntStore_All(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Set(sampleEntry("k1", "btc")))
	require.NoError(t, store.Set(sampleEntry("k2", "eth")))

	entries, err := store.All()
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestBuntStore_DeleteMissingIsNoOp(t *testing.T) {
	store, err := FromMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Delete("missing"))

	require.NoError(t, store.Set(sampleEntry("k1", "btc")))
	require.NoError(t, store.Delete("k1"))

	_, err = store.Get("k1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEntry_Expired(t *testing.T) {
	entry := sampleEntry("k1", "btc")

	require.False(t, entry.Expired(entry.ExpiresAt.Add(-time.Nanosecond)))
	require.True(t, entry.Expired(entry.ExpiresAt))
	require.True(t, entry.Expired(entry.ExpiresAt.Add(time.Minute)))
}
