package object

import (
	"sort"
	"sync"
	"time"
)

// Store keeps the tracker's view of the scene. Observed objects survive for
// the persistence window after their last observation; pinned objects (placed
// by hand) stay until removed.
type Store struct {
	mu          sync.Mutex
	persistence time.Duration
	objects     map[int]*Tracked
	pinOrder    []int
	nextID      int
}

// NewStore creates a store with the given persistence window.
func NewStore(persistence time.Duration) *Store {
	return &Store{
		persistence: persistence,
		objects:     make(map[int]*Tracked),
		nextID:      1 << 20, // keep manual ids clear of tracker ids
	}
}

// Observe records a tracker observation. Known track ids are moved in place;
// new ones are created.
func (s *Store) Observe(tag Tag, trackID int, bounds Rect, now time.Time) *Tracked {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.objects[trackID]; ok && o.Tag == tag {
		o.Move(bounds, now)
		return o
	}
	o := New(tag, trackID, bounds, now)
	s.objects[trackID] = o
	return o
}

// Pin adds an object that never expires.
func (s *Store) Pin(tag Tag, bounds Rect, now time.Time) *Tracked {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	o := New(tag, id, bounds, now)
	o.pinned = true
	s.objects[id] = o
	s.pinOrder = append(s.pinOrder, id)
	return o
}

// Unpin removes the most recently pinned object. It reports whether anything
// was removed.
func (s *Store) Unpin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pinOrder) > 0 {
		id := s.pinOrder[len(s.pinOrder)-1]
		s.pinOrder = s.pinOrder[:len(s.pinOrder)-1]
		if _, ok := s.objects[id]; ok {
			delete(s.objects, id)
			return true
		}
	}
	return false
}

// Snapshot drops expired objects and returns the live ones ordered by track
// id. The slice is owned by the caller.
func (s *Store) Snapshot(now time.Time) []*Tracked {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Tracked, 0, len(s.objects))
	for id, o := range s.objects {
		if !o.pinned && now.Sub(o.LastSeen()) >= s.persistence {
			delete(s.objects, id)
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrackID < out[j].TrackID })
	return out
}

// Len returns the number of stored objects, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
