package coordcache

import (
	"fmt"
	"time"

	"github.com/raykavin/chartoverlay/pkg/chart"
	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
)

// CachedResolver memoizes pane coordinate lookups through a Cache. It binds
// the chart and container identity once so it can stand in anywhere a plain
// resolver is accepted.
type CachedResolver struct {
	inner       *coords.Resolver
	cache       *Cache
	chartID     string
	containerID string
}

// NewCachedResolver wraps a resolver with cache lookups for one chart.
func NewCachedResolver(inner *coords.Resolver, cache *Cache, chartID, containerID string) *CachedResolver {
	return &CachedResolver{
		inner:       inner,
		cache:       cache,
		chartID:     chartID,
		containerID: containerID,
	}
}

// PaneCoordinates resolves through the cache: a fresh entry is returned
// as-is, otherwise the inner resolver runs and its result is cached. Failed
// resolutions (nil) are never cached.
func (r *CachedResolver) PaneCoordinates(handle chart.Handle, paneID int) *coords.PaneCoordinates {
	containerID := fmt.Sprintf("%s/p%d", r.containerID, paneID)
	key := Key(r.chartID, containerID, time.Now())

	if entry := r.cache.Get(key); entry != nil {
		coordinates := entry.Coordinates
		return &coordinates
	}

	pane := r.inner.PaneCoordinates(handle, paneID)
	if pane == nil {
		return nil
	}

	_ = r.cache.Set(key, Value{
		ChartID:     r.chartID,
		ContainerID: containerID,
		Coordinates: *pane,
	})

	return pane
}
