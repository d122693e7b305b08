package coordcache

import (
	"fmt"
	"sync"
	"time"

	"github.com/StudioSol/set"
	"github.com/raykavin/chartoverlay/pkg/logger"
	"github.com/raykavin/chartoverlay/pkg/overlay/coords"
)

const (
	// DefaultExpiration bounds how long a resolved coordinate set is trusted.
	DefaultExpiration = 5 * time.Second
	// DefaultSweepInterval is how often the background sweep evicts expired
	// entries that were never read again.
	DefaultSweepInterval = time.Second
)

// UpdateFunc is called with the cache key when that entry is invalidated or
// expires. Callbacks run synchronously on the invalidating goroutine.
type UpdateFunc func(key string)

// Value is the payload stored under a cache key.
type Value struct {
	ChartID     string
	ContainerID string
	Coordinates coords.PaneCoordinates
}

// Cache is the front over a Store: it owns TTL semantics, the per-chart key
// index used for bulk invalidation, subscriber notification, and the
// background sweep.
type Cache struct {
	mu          sync.Mutex
	store       Store
	expiration  time.Duration
	sweepEvery  time.Duration
	chartKeys   map[string]*set.LinkedHashSetString
	subscribers map[string]map[int]UpdateFunc
	nextSubID   int
	stop        chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
	log         logger.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore substitutes the persistence backend.
func WithStore(store Store) Option {
	return func(c *Cache) {
		c.store = store
	}
}

// WithExpiration overrides the entry TTL.
func WithExpiration(expiration time.Duration) Option {
	return func(c *Cache) {
		c.expiration = expiration
	}
}

// WithSweepInterval overrides how often expired entries are swept.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *Cache) {
		c.sweepEvery = interval
	}
}

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a cache backed by an in-memory BuntDB store unless an explicit
// store is supplied, and starts the background sweep. Stop must be called to
// release the sweep goroutine and the store.
func New(log logger.Logger, options ...Option) (*Cache, error) {
	cache := &Cache{
		expiration:  DefaultExpiration,
		sweepEvery:  DefaultSweepInterval,
		chartKeys:   make(map[string]*set.LinkedHashSetString),
		subscribers: make(map[string]map[int]UpdateFunc),
		stop:        make(chan struct{}),
		now:         time.Now,
		log:         log,
	}

	for _, option := range options {
		option(cache)
	}

	if cache.store == nil {
		store, err := FromMemory()
		if err != nil {
			return nil, fmt.Errorf("failed to create default store: %w", err)
		}
		cache.store = store
	}

	go cache.sweepLoop()

	return cache, nil
}

// Key composes a cache key from chart and container identity plus a coarse
// whole-second time bucket. The bucket intentionally caps how long a cached
// layout can survive a rapid resize sequence while still amortizing repeated
// lookups within the same tick.
func Key(chartID, containerID string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", chartID, containerID, at.Unix())
}

// Get returns the entry for key, or nil when absent or expired. An expired
// entry is evicted on the spot and its subscribers are notified.
func (c *Cache) Get(key string) *Entry {
	c.mu.Lock()

	entry, err := c.store.Get(key)
	if err != nil {
		c.mu.Unlock()
		return nil
	}

	if entry.Expired(c.now()) {
		callbacks := c.evictLocked(entry)
		c.mu.Unlock()
		runCallbacks(c.log, key, callbacks)
		return nil
	}

	c.mu.Unlock()
	return entry
}

// Set stores value under key with ExpiresAt = now + expiration, replacing any
// prior entry wholesale.
func (c *Cache) Set(key string, value Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &Entry{
		Key:         key,
		ChartID:     value.ChartID,
		ContainerID: value.ContainerID,
		Coordinates: value.Coordinates,
		Timestamp:   now,
		ExpiresAt:   now.Add(c.expiration),
	}

	if err := c.store.Set(entry); err != nil {
		return err
	}

	if value.ChartID != "" {
		keys, ok := c.chartKeys[value.ChartID]
		if !ok {
			keys = set.NewLinkedHashSetString()
			c.chartKeys[value.ChartID] = keys
		}
		keys.Add(key)
	}

	return nil
}

// Invalidate evicts one entry and notifies its subscribers. Unknown keys are
// a no-op.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()

	entry, err := c.store.Get(key)
	if err != nil {
		c.mu.Unlock()
		return
	}

	callbacks := c.evictLocked(entry)
	c.mu.Unlock()
	runCallbacks(c.log, key, callbacks)
}

// InvalidateChart evicts every entry tagged with chartID and fires the
// subscriber callbacks for each removed key.
func (c *Cache) InvalidateChart(chartID string) {
	c.mu.Lock()

	keys, ok := c.chartKeys[chartID]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.chartKeys, chartID)

	type pending struct {
		key       string
		callbacks []UpdateFunc
	}
	var removed []pending

	for key := range keys.Iter() {
		entry, err := c.store.Get(key)
		if err != nil {
			continue
		}
		removed = append(removed, pending{key: key, callbacks: c.evictLocked(entry)})
	}
	c.mu.Unlock()

	for _, p := range removed {
		runCallbacks(c.log, p.key, p.callbacks)
	}
}

// OnUpdate subscribes to invalidation of one key. Multiple subscribers per
// key are permitted. The returned function unsubscribes.
func (c *Cache) OnUpdate(key string, callback UpdateFunc) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	subs, ok := c.subscribers[key]
	if !ok {
		subs = make(map[int]UpdateFunc)
		c.subscribers[key] = subs
	}

	id := c.nextSubID
	c.nextSubID++
	subs[id] = callback

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if subs, ok := c.subscribers[key]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(c.subscribers, key)
			}
		}
	}
}

// Stop cancels the background sweep and closes the store. Safe to call more
// than once.
func (c *Cache) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		if err := c.store.Close(); err != nil {
			c.log.WithError(err).Warn("failed to close coordinate store")
		}
	})
}

// evictLocked removes the entry from the store and the chart index, and
// returns the callbacks to run once the lock is released.
func (c *Cache) evictLocked(entry *Entry) []UpdateFunc {
	if err := c.store.Delete(entry.Key); err != nil {
		c.log.WithError(err).WithField("key", entry.Key).Warn("failed to evict cache entry")
	}

	if keys, ok := c.chartKeys[entry.ChartID]; ok {
		keys.Remove(entry.Key)
		if keys.Length() == 0 {
			delete(c.chartKeys, entry.ChartID)
		}
	}

	subs := c.subscribers[entry.Key]
	callbacks := make([]UpdateFunc, 0, len(subs))
	for _, callback := range subs {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}

func (c *Cache) sweepLoop() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep evicts every expired entry in one pass.
func (c *Cache) sweep() {
	c.mu.Lock()

	entries, err := c.store.All()
	if err != nil {
		c.mu.Unlock()
		c.log.WithError(err).Warn("coordinate cache sweep failed")
		return
	}

	now := c.now()

	type pending struct {
		key       string
		callbacks []UpdateFunc
	}
	var removed []pending

	for _, entry := range entries {
		if entry.Expired(now) {
			removed = append(removed, pending{key: entry.Key, callbacks: c.evictLocked(entry)})
		}
	}
	c.mu.Unlock()

	for _, p := range removed {
		runCallbacks(c.log, p.key, p.callbacks)
	}
}

// runCallbacks invokes each subscriber in isolation: a panicking callback
// must not prevent the remaining subscribers from running.
func runCallbacks(log logger.Logger, key string, callbacks []UpdateFunc) {
	for _, callback := range callbacks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("key", key).Errorf("cache subscriber panicked: %v", r)
				}
			}()
			callback(key)
		}()
	}
}
