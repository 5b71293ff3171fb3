package zone

import (
	"maps"
	"sync"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
)

// Highlights is the registry through which the arrangement zone tells
// waveform zones whether their tag plays on the current beat.
type Highlights struct {
	mu   sync.Mutex
	tags map[object.Tag]bool
}

func NewHighlights() *Highlights {
	return &Highlights{tags: make(map[object.Tag]bool)}
}

// Get returns the highlight value of tag and whether one is set.
func (h *Highlights) Get(tag object.Tag) (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.tags[tag]
	return v, ok
}

// Replace swaps in a new set of highlights.
func (h *Highlights) Replace(tags map[object.Tag]bool) {
	h.mu.Lock()
	h.tags = maps.Clone(tags)
	if h.tags == nil {
		h.tags = make(map[object.Tag]bool)
	}
	h.mu.Unlock()
}

// Clear removes every highlight.
func (h *Highlights) Clear() {
	h.mu.Lock()
	clear(h.tags)
	h.mu.Unlock()
}

// Snapshot returns a copy of the registry.
func (h *Highlights) Snapshot() map[object.Tag]bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return maps.Clone(h.tags)
}
