package audio

import (
	"context"
	"log"
	"sync"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// Priority selects the queue a buffer request goes to.
type Priority int

const (
	// Immediate requests are needed by a voice this poll.
	Immediate Priority = iota
	// Prewarm requests fill the cache ahead of time.
	Prewarm
)

// Generator synthesizes buffers into a Cache on a background goroutine.
// Immediate requests are always served before prewarm requests.
type Generator struct {
	cache     *Cache
	immediate chan wave.Spec
	prewarm   chan wave.Spec

	mu       sync.Mutex
	inflight map[wave.Spec]struct{}
}

// NewGenerator creates a generator whose queues hold up to queueSize specs each.
func NewGenerator(cache *Cache, queueSize int) *Generator {
	return &Generator{
		cache:     cache,
		immediate: make(chan wave.Spec, queueSize),
		prewarm:   make(chan wave.Spec, queueSize),
		inflight:  make(map[wave.Spec]struct{}),
	}
}

// Request queues spec for synthesis without blocking. It reports whether the
// spec is cached or queued; a full queue drops the request.
func (g *Generator) Request(spec wave.Spec, p Priority) bool {
	if _, ok := g.cache.Get(spec); ok {
		return true
	}

	g.mu.Lock()
	if _, dup := g.inflight[spec]; dup {
		g.mu.Unlock()
		return true
	}
	g.inflight[spec] = struct{}{}
	g.mu.Unlock()

	ch := g.immediate
	if p == Prewarm {
		ch = g.prewarm
	}
	select {
	case ch <- spec:
		return true
	default:
		g.done(spec)
		return false
	}
}

// PrewarmAll queues every spec at prewarm priority and returns how many were
// accepted.
func (g *Generator) PrewarmAll(specs []wave.Spec) int {
	n := 0
	for _, s := range specs {
		if g.Request(s, Prewarm) {
			n++
		}
	}
	return n
}

// Pending returns the number of queued requests.
func (g *Generator) Pending() int {
	return len(g.immediate) + len(g.prewarm)
}

// Run serves requests until ctx is cancelled.
func (g *Generator) Run(ctx context.Context) {
	log.Printf("Generator: started")
	defer log.Printf("Generator: stopped (%d buffers cached)", g.cache.Len())

	for {
		// Drain immediate work before looking at prewarm.
		select {
		case <-ctx.Done():
			return
		case spec := <-g.immediate:
			g.build(spec)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return
		case spec := <-g.immediate:
			g.build(spec)
		case spec := <-g.prewarm:
			g.build(spec)
		}
	}
}

func (g *Generator) build(spec wave.Spec) {
	if g.cache.Generate(spec) == nil {
		log.Printf("Generator: cannot synthesize %s", spec)
	}
	g.done(spec)
}

func (g *Generator) done(spec wave.Spec) {
	g.mu.Lock()
	delete(g.inflight, spec)
	g.mu.Unlock()
}
