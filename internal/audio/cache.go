package audio

import (
	"sync"
	"sync/atomic"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// Cache memoizes synthesized buffers by spec. Reads never take a lock.
type Cache struct {
	sampleRate int
	buffers    sync.Map // wave.Spec -> []int16
	size       atomic.Int64
}

// NewCache returns an empty cache synthesizing at sampleRate.
func NewCache(sampleRate int) *Cache {
	return &Cache{sampleRate: sampleRate}
}

// Get returns the buffer for spec if it has been generated.
func (c *Cache) Get(spec wave.Spec) ([]int16, bool) {
	v, ok := c.buffers.Load(spec)
	if !ok {
		return nil, false
	}
	return v.([]int16), true
}

// Generate returns the buffer for spec, synthesizing it on first use. Equal
// specs always get the same slice, even when generated concurrently.
func (c *Cache) Generate(spec wave.Spec) []int16 {
	if buf, ok := c.Get(spec); ok {
		return buf
	}
	buf := Synthesize(spec, c.sampleRate)
	if buf == nil {
		return nil
	}
	actual, loaded := c.buffers.LoadOrStore(spec, buf)
	if !loaded {
		c.size.Add(1)
	}
	return actual.([]int16)
}

// Len returns the number of cached buffers.
func (c *Cache) Len() int {
	return int(c.size.Load())
}
