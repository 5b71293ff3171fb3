package object

import (
	"sync"
	"time"
)

// Tag is the recognised shape of a tracked object.
type Tag string

const (
	Triangle Tag = "triangle"
	Square   Tag = "square"
	Circle   Tag = "circle"
	Star     Tag = "star"
	Arrow    Tag = "arrow"
	Plus     Tag = "plus"   // playback and selection marker
	Corner   Tag = "corner" // zone border marker
)

// AllTags lists every tag the tracker can report, in cycling order.
var AllTags = []Tag{Triangle, Square, Circle, Star, Arrow, Plus, Corner}

// IsMarker reports whether the tag is a marker rather than a sounding shape.
func (t Tag) IsMarker() bool {
	return t == Plus || t == Corner
}

// Well-known attribute keys.
const (
	AttrRippleCount  = "ripple_count"
	AttrRippleColour = "ripple_colour"
	AttrWave         = "wave"
	AttrLastPlayed   = "last_played"
)

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the rectangle's midpoint.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Contains reports whether the point lies inside the rectangle. The right
// and bottom edges are exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Tracked is one object reported by the tracker. Identity is immutable;
// bounds are updated in place while the tracker keeps observing it.
type Tracked struct {
	Tag       Tag
	TrackID   int
	CreatedAt time.Time

	mu       sync.RWMutex
	bounds   Rect
	lastSeen time.Time
	pinned   bool
	attrs    map[string]any
}

// New creates a tracked object first seen at now.
func New(tag Tag, trackID int, bounds Rect, now time.Time) *Tracked {
	return &Tracked{
		Tag:       tag,
		TrackID:   trackID,
		CreatedAt: now,
		bounds:    bounds,
		lastSeen:  now,
		attrs:     make(map[string]any),
	}
}

// Bounds returns the current bounding box.
func (o *Tracked) Bounds() Rect {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.bounds
}

// Center returns the center of the current bounding box.
func (o *Tracked) Center() (float64, float64) {
	return o.Bounds().Center()
}

// Move updates the bounding box and marks the object as observed at now.
func (o *Tracked) Move(bounds Rect, now time.Time) {
	o.mu.Lock()
	o.bounds = bounds
	o.lastSeen = now
	o.mu.Unlock()
}

// LastSeen returns when the tracker last reported this object.
func (o *Tracked) LastSeen() time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastSeen
}

// Age returns how long the object has existed at now.
func (o *Tracked) Age(now time.Time) time.Duration {
	return now.Sub(o.CreatedAt)
}

// Attr returns the attribute stored under key.
func (o *Tracked) Attr(key string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.attrs[key]
	return v, ok
}

// SetAttr stores an attribute.
func (o *Tracked) SetAttr(key string, v any) {
	o.mu.Lock()
	o.attrs[key] = v
	o.mu.Unlock()
}

// AttrOrInit returns the attribute under key, storing init() first if it is
// missing. init runs at most once per key.
func (o *Tracked) AttrOrInit(key string, init func() any) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	if v, ok := o.attrs[key]; ok {
		return v
	}
	v := init()
	o.attrs[key] = v
	return v
}

// InBounds returns the objects whose center lies inside r.
func InBounds(objs []*Tracked, r Rect) []*Tracked {
	var out []*Tracked
	for _, o := range objs {
		if r.Contains(o.Center()) {
			out = append(out, o)
		}
	}
	return out
}
