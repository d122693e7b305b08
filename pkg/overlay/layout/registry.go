package layout

import (
	"sort"
	"sync"

	"github.com/raykavin/chartoverlay/pkg/logger"
)

type managerKey struct {
	chartID string
	paneID  int
}

// Registry hands out one shared Manager per (chartID, paneID) pair, so
// independent call sites referring to the same chart pane converge on the
// same instance. It replaces the hidden static-instance pattern with an
// explicit object that owners create and inject.
type Registry struct {
	mu       sync.Mutex
	managers map[managerKey]*Manager
	options  []Option
	log      logger.Logger
}

// NewRegistry creates a registry. The given options are applied to every
// manager the registry creates.
func NewRegistry(log logger.Logger, options ...Option) *Registry {
	return &Registry{
		managers: make(map[managerKey]*Manager),
		options:  options,
		log:      log,
	}
}

// Get returns the manager for (chartID, paneID), creating it on first use.
func (r *Registry) Get(chartID string, paneID int) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := managerKey{chartID: chartID, paneID: paneID}
	if manager, ok := r.managers[key]; ok {
		return manager
	}

	manager := NewManager(r.log, chartID, paneID, r.options...)
	r.managers[key] = manager
	return manager
}

// Lookup returns the manager for (chartID, paneID) without creating one.
func (r *Registry) Lookup(chartID string, paneID int) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	manager, ok := r.managers[managerKey{chartID: chartID, paneID: paneID}]
	return manager, ok
}

// Managers returns every live manager, ordered by chart id then pane id.
func (r *Registry) Managers() []*Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	managers := make([]*Manager, 0, len(r.managers))
	for _, manager := range r.managers {
		managers = append(managers, manager)
	}

	sort.Slice(managers, func(i, j int) bool {
		if managers[i].ChartID() != managers[j].ChartID() {
			return managers[i].ChartID() < managers[j].ChartID()
		}
		return managers[i].PaneID() < managers[j].PaneID()
	})

	return managers
}

// Cleanup closes and forgets every manager associated with chartID. Call when
// that chart is destroyed.
func (r *Registry) Cleanup(chartID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, manager := range r.managers {
		if key.chartID == chartID {
			manager.Close()
			delete(r.managers, key)
		}
	}
}

// CleanupAll closes and forgets every manager.
func (r *Registry) CleanupAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, manager := range r.managers {
		manager.Close()
		delete(r.managers, key)
	}
}
