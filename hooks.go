package munimap

import (
	"sync"

	"github.com/openmuni/munimap/pkg/snapshot"
)

// Hook function types for pipeline events
type (
	// LineAddedHook is called for each line present in the new snapshot
	// but absent from the base
	LineAddedHook func(line string)

	// LineRemovedHook is called for each line present in the base
	// snapshot but absent from the new one
	LineRemovedHook func(line string)

	// RegionExportedHook is called when a region group's files are on disk
	RegionExportedHook func(uf string, records int)
)

// hooks manages event callbacks for diff and export milestones
type hooks struct {
	mu               sync.RWMutex
	onLineAdded      []LineAddedHook
	onLineRemoved    []LineRemovedHook
	onRegionExported []RegionExportedHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnLineAdded registers a callback for added snapshot lines.
func (p *Pipeline) OnLineAdded(fn LineAddedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onLineAdded = append(p.hooks.onLineAdded, fn)
}

// OnLineRemoved registers a callback for removed snapshot lines.
func (p *Pipeline) OnLineRemoved(fn LineRemovedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onLineRemoved = append(p.hooks.onLineRemoved, fn)
}

// OnRegionExported registers a callback for completed region groups.
func (p *Pipeline) OnRegionExported(fn RegionExportedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onRegionExported = append(p.hooks.onRegionExported, fn)
}

// triggerDiff fires line hooks for every entry in the changeset, additions
// first, matching report row order.
func (h *hooks) triggerDiff(changes *snapshot.Changeset) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, line := range changes.Added {
		for _, hook := range h.onLineAdded {
			hook(line)
		}
	}
	for _, line := range changes.Removed {
		for _, hook := range h.onLineRemoved {
			hook(line)
		}
	}
}

// triggerRegionExported fires region hooks after a group completes.
func (h *hooks) triggerRegionExported(uf string, records int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onRegionExported {
		hook(uf, records)
	}
}
