package audio

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

func TestCacheGenerateIdempotent(t *testing.T) {
	c := NewCache(SampleRate)
	s := spec(wave.Sine, 311.13)

	a := c.Generate(s)
	b := c.Generate(s)
	if len(a) == 0 || &a[0] != &b[0] {
		t.Error("Generate returned different slices for the same spec")
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	got, ok := c.Get(s)
	if !ok || &got[0] != &a[0] {
		t.Error("Get did not return the generated slice")
	}
}

func TestCacheConcurrentGenerateSharesSlice(t *testing.T) {
	c := NewCache(SampleRate)
	s := spec(wave.Triangle, 440)

	var wg sync.WaitGroup
	results := make([][]int16, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Generate(s)
		}()
	}
	wg.Wait()

	for i, r := range results {
		if &r[0] != &results[0][0] {
			t.Fatalf("goroutine %d got a different slice", i)
		}
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestCacheDistinctSpecs(t *testing.T) {
	c := NewCache(SampleRate)
	a := c.Generate(spec(wave.Sine, 440))
	s := spec(wave.Sine, 440)
	s.Volume = 0.25
	b := c.Generate(s)
	if &a[0] == &b[0] {
		t.Error("specs differing in volume share a cache entry")
	}
}

func TestCacheUnknownShapeNotStored(t *testing.T) {
	c := NewCache(SampleRate)
	if c.Generate(spec(wave.Shape(99), 440)) != nil {
		t.Error("unknown shape produced a buffer")
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}

// --- Generator ---

func TestGeneratorRequestNonBlocking(t *testing.T) {
	g := NewGenerator(NewCache(SampleRate), 1)

	if !g.Request(spec(wave.Sine, 440), Immediate) {
		t.Fatal("first request rejected")
	}
	// duplicate in flight: accepted without queueing again
	if !g.Request(spec(wave.Sine, 440), Immediate) {
		t.Error("duplicate request rejected")
	}
	if g.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", g.Pending())
	}

	done := make(chan bool)
	go func() { done <- g.Request(spec(wave.Square, 440), Immediate) }()
	select {
	case ok := <-done:
		if ok {
			t.Error("request into a full queue accepted")
		}
	case <-time.After(time.Second):
		t.Fatal("Request blocked on a full queue")
	}
}

func TestGeneratorFillsCache(t *testing.T) {
	c := NewCache(SampleRate)
	g := NewGenerator(c, 8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.Run(ctx)

	specs := []wave.Spec{spec(wave.Sine, 261.63), spec(wave.Pulse, 392), spec(wave.Sawtooth, 523.25)}
	if n := g.PrewarmAll(specs[1:]); n != 2 {
		t.Fatalf("PrewarmAll accepted %d, want 2", n)
	}
	g.Request(specs[0], Immediate)

	deadline := time.After(2 * time.Second)
	for c.Len() < len(specs) {
		select {
		case <-deadline:
			t.Fatalf("cache holds %d buffers, want %d", c.Len(), len(specs))
		case <-time.After(5 * time.Millisecond):
		}
	}
	for _, s := range specs {
		if _, ok := c.Get(s); !ok {
			t.Errorf("%s not cached", s)
		}
	}
	if !g.Request(specs[0], Immediate) || g.Pending() != 0 {
		t.Error("cached spec was queued again")
	}
}

func TestGeneratorImmediateFirst(t *testing.T) {
	c := NewCache(SampleRate)
	g := NewGenerator(c, 4)
	g.Request(spec(wave.Sine, 100), Prewarm)
	g.Request(spec(wave.Sine, 200), Immediate)

	// one step of the loop, without starting Run
	select {
	case s := <-g.immediate:
		g.build(s)
	default:
		t.Fatal("immediate queue empty")
	}
	if _, ok := c.Get(spec(wave.Sine, 200)); !ok {
		t.Error("immediate spec not built")
	}
	if _, ok := c.Get(spec(wave.Sine, 100)); ok {
		t.Error("prewarm spec built before immediate")
	}
}
