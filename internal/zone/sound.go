package zone

import (
	"context"
	"log"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// derivation is everything an object's wave depends on.
type derivation struct {
	zone       int
	generation int
	center     tone.Point
	pos        tone.Point
	maxDist    float64
	chord      string
}

// assignment is the wave an object was given, stored in its AttrWave
// attribute.
type assignment struct {
	from derivation
	spec wave.Spec
	ok   bool
}

type soundState struct {
	enabled    bool
	generation int
	chord      string
	rect       object.Rect
	objects    []*object.Tracked
}

func (z *Zone) soundSnapshot() soundState {
	z.mu.RLock()
	defer z.mu.RUnlock()
	s := soundState{
		enabled:    z.soundEnabled,
		generation: z.generation,
		chord:      z.chord,
		rect:       z.rect,
	}
	if s.enabled {
		s.objects = append([]*object.Tracked(nil), z.objects...)
	}
	return s
}

// waveFor returns the object's wave, recomputing it when the zone, its
// chord or the object's position changed since it was last assigned.
func (z *Zone) waveFor(o *object.Tracked, s soundState) (wave.Spec, bool) {
	cx, cy := s.rect.Center()
	ox, oy := o.Center()
	from := derivation{
		zone:       z.index,
		generation: s.generation,
		center:     tone.Point{X: cx, Y: cy},
		pos:        tone.Point{X: ox, Y: oy},
		maxDist:    MaxDist(s.rect),
		chord:      s.chord,
	}

	prev, had := o.Attr(object.AttrWave)
	if a, ok := prev.(assignment); ok && a.from == from {
		return a.spec, a.ok
	}

	a := assignment{from: from}
	a.spec, a.ok = tone.PosToWave(from.center, from.pos, from.maxDist, o.Tag, from.chord)
	if !a.ok && !had {
		log.Printf("Zone %d: no wave for %s object %d", z.index, o.Tag, o.TrackID)
	}
	o.SetAttr(object.AttrWave, a)
	return a.spec, a.ok
}

// PollSound reconciles the zone's voices with its objects once: every
// distinct wave of an object in an enabled zone plays, every other voice
// stops.
func (z *Zone) PollSound() {
	if z.voices == nil {
		return
	}
	s := z.soundSnapshot()

	wanted := make(map[wave.Spec]struct{}, len(s.objects))
	owners := make(map[wave.Spec][]*object.Tracked, len(s.objects))
	for _, o := range s.objects {
		spec, ok := z.waveFor(o, s)
		if !ok {
			continue
		}
		wanted[spec] = struct{}{}
		owners[spec] = append(owners[spec], o)
	}

	z.voices.Cleanup(wanted)
	now := time.Now()
	for spec := range wanted {
		if !z.voices.Play(spec) {
			continue
		}
		for _, o := range owners[spec] {
			o.SetAttr(object.AttrLastPlayed, now)
		}
	}
}

// RunSound polls the zone's voices until ctx is cancelled or the zone is
// destroyed, then stops them.
func (z *Zone) RunSound(ctx context.Context) {
	if z.voices == nil {
		return
	}
	interval := z.opts.SoundPoll
	if interval <= 0 {
		interval = DefaultSoundPoll
	}
	log.Printf("Zone %d: sound task started", z.index)
	defer func() {
		z.voices.StopAll()
		log.Printf("Zone %d: sound task stopped", z.index)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for z.Alive() {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			z.PollSound()
		}
	}
}
