// Package coordcache memoizes resolved pane coordinates per chart+container
// key with time-based expiry, and notifies subscribers when an entry is
// invalidated. Storage is pluggable: the default is an in-memory BuntDB
// store, with a SQL store available for setups that already run a database.
package coordcache

import (
	"errors"
	"time"

	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
)

// ErrNotFound is returned by a Store when no entry exists for a key.
var ErrNotFound = errors.New("coordcache: entry not found")

// Entry is one cached coordinate resolution. Entries are immutable: a fresh
// Set replaces the prior entry wholesale.
type Entry struct {
	Key         string                 `json:"key"`
	ChartID     string                 `json:"chartId"`
	ContainerID string                 `json:"containerId"`
	Coordinates coords.PaneCoordinates `json:"coordinates"`
	Timestamp   time.Time              `json:"timestamp"`
	ExpiresAt   time.Time              `json:"expiresAt"`
}

// Expired reports whether the entry is stale at the given instant.
func (e *Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Store is the persistence seam beneath the cache front. Implementations do
// not enforce expiry themselves; the cache front owns TTL semantics and the
// sweep so that subscriber notification stays in one place.
type Store interface {
	Get(key string) (*Entry, error)
	Set(entry *Entry) error
	Delete(key string) error
	All() ([]*Entry, error)
	Close() error
}
