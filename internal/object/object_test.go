package object

import (
	"sync"
	"testing"
	"time"
)

func TestRectContainsEdges(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 20, H: 20}
	tests := []struct {
		x, y float64
		want bool
	}{
		{10, 10, true},
		{29.9, 29.9, true},
		{30, 20, false},
		{20, 30, false},
		{9.9, 20, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestInBoundsUsesCenter(t *testing.T) {
	now := time.Now()
	zone := Rect{X: 0, Y: 0, W: 100, H: 100}
	inside := New(Circle, 1, Rect{X: 80, Y: 80, W: 30, H: 30}, now)  // center 95,95
	overlap := New(Square, 2, Rect{X: 90, Y: 90, W: 40, H: 40}, now) // center 110,110
	outside := New(Star, 3, Rect{X: 200, Y: 200, W: 10, H: 10}, now) // far away

	got := InBounds([]*Tracked{inside, overlap, outside}, zone)
	if len(got) != 1 || got[0] != inside {
		t.Fatalf("InBounds = %v, want only the center-contained object", got)
	}
}

func TestTagIsMarker(t *testing.T) {
	for _, tag := range AllTags {
		want := tag == Plus || tag == Corner
		if tag.IsMarker() != want {
			t.Errorf("%s.IsMarker() = %v, want %v", tag, tag.IsMarker(), want)
		}
	}
}

func TestAttrOrInitRunsOnce(t *testing.T) {
	o := New(Circle, 1, Rect{}, time.Now())
	calls := 0
	var wg sync.WaitGroup
	var mu sync.Mutex
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.AttrOrInit(AttrRippleCount, func() any {
				mu.Lock()
				calls++
				mu.Unlock()
				return 2
			})
		}()
	}
	wg.Wait()
	if calls != 1 {
		t.Errorf("init called %d times, want 1", calls)
	}
	if v, _ := o.Attr(AttrRippleCount); v != 2 {
		t.Errorf("attr = %v, want 2", v)
	}
}

func TestStorePersistenceWindow(t *testing.T) {
	start := time.Now()
	s := NewStore(3 * time.Second)
	s.Observe(Circle, 7, Rect{X: 1, Y: 1, W: 10, H: 10}, start)

	if got := s.Snapshot(start.Add(2 * time.Second)); len(got) != 1 {
		t.Fatalf("within persistence: %d objects, want 1", len(got))
	}
	if got := s.Snapshot(start.Add(3 * time.Second)); len(got) != 0 {
		t.Fatalf("after persistence: %d objects, want 0", len(got))
	}
	if s.Len() != 0 {
		t.Errorf("expired object not dropped, Len = %d", s.Len())
	}
}

func TestStoreObserveMovesInPlace(t *testing.T) {
	now := time.Now()
	s := NewStore(time.Second)
	a := s.Observe(Star, 4, Rect{X: 0, Y: 0, W: 10, H: 10}, now)
	b := s.Observe(Star, 4, Rect{X: 50, Y: 50, W: 10, H: 10}, now.Add(100*time.Millisecond))
	if a != b {
		t.Fatal("re-observed track id produced a new object")
	}
	if x, y := b.Center(); x != 55 || y != 55 {
		t.Errorf("center = (%v, %v), want (55, 55)", x, y)
	}
	if !b.CreatedAt.Equal(now) {
		t.Error("CreatedAt changed on move")
	}
}

func TestStorePinAndUnpin(t *testing.T) {
	now := time.Now()
	s := NewStore(time.Millisecond)
	s.Pin(Circle, Rect{W: 10, H: 10}, now)
	s.Pin(Plus, Rect{W: 10, H: 10}, now)

	if got := s.Snapshot(now.Add(time.Hour)); len(got) != 2 {
		t.Fatalf("pinned objects expired: %d left", len(got))
	}
	if !s.Unpin() {
		t.Fatal("Unpin returned false")
	}
	got := s.Snapshot(now)
	if len(got) != 1 || got[0].Tag != Circle {
		t.Fatalf("Unpin removed the wrong object: %v", got)
	}
	s.Unpin()
	if s.Unpin() {
		t.Error("Unpin on empty store returned true")
	}
}
