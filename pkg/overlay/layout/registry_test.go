package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/chartoverlay/pkg/overlay"
)

func TestRegistry_GetSharesInstances(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	t.Cleanup(registry.CleanupAll)

	a := registry.Get("btc", 0)
	b := registry.Get("btc", 0)
	require.Same(t, a, b)

	require.NotSame(t, a, registry.Get("btc", 1))
	require.NotSame(t, a, registry.Get("eth", 0))
}

func TestRegistry_OptionsApplyToCreatedManagers(t *testing.T) {
	cfg := overlay.Config{EdgePadding: 12, WidgetGap: 4, BaseZIndex: 50}
	registry := NewRegistry(testLogger(t), WithConfig(cfg))
	t.Cleanup(registry.CleanupAll)

	require.Equal(t, cfg, registry.Get("btc", 0).Config())
}

func TestRegistry_Lookup(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	t.Cleanup(registry.CleanupAll)

	_, ok := registry.Lookup("btc", 0)
	require.False(t, ok)

	created := registry.Get("btc", 0)
	found, ok := registry.Lookup("btc", 0)
	require.True(t, ok)
	require.Same(t, created, found)
}

func TestRegistry_ManagersOrdering(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	t.Cleanup(registry.CleanupAll)

	registry.Get("eth", 1)
	registry.Get("btc", 1)
	registry.Get("btc", 0)

	managers := registry.Managers()
	require.Len(t, managers, 3)
	require.Equal(t, "btc", managers[0].ChartID())
	require.Equal(t, 0, managers[0].PaneID())
	require.Equal(t, 1, managers[1].PaneID())
	require.Equal(t, "eth", managers[2].ChartID())
}

func TestRegistry_Cleanup(t *testing.T) {
	registry := NewRegistry(testLogger(t))
	t.Cleanup(registry.CleanupAll)

	registry.Get("btc", 0)
	registry.Get("btc", 1)
	registry.Get("eth", 0)

	registry.Cleanup("btc")

	_, ok := registry.Lookup("btc", 0)
	require.False(t, ok)
	_, ok = registry.Lookup("eth", 0)
	require.True(t, ok)
}
