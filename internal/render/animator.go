package render

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/zone"
)

// Input is the frame state a scene is computed from.
type Input struct {
	Now              time.Time
	ScreenW, ScreenH float64
	Objects          []*object.Tracked
}

// Animator computes scenes off the draw path. Drawing always uses the most
// recently finished scene.
type Animator struct {
	zones     []*zone.Zone
	timeRatio float64
	requests  chan Input
	scene     atomic.Pointer[Scene]
}

// NewAnimator creates an animator over zones. timeRatio sets the seconds a
// wave takes to travel WaveCycles cycles.
func NewAnimator(zones []*zone.Zone, timeRatio float64) *Animator {
	if timeRatio <= 0 {
		timeRatio = 1
	}
	a := &Animator{
		zones:     zones,
		timeRatio: timeRatio,
		requests:  make(chan Input, 1),
	}
	a.scene.Store(&Scene{})
	return a
}

// Scene returns the latest finished scene. It never returns nil.
func (a *Animator) Scene() *Scene {
	return a.scene.Load()
}

// Request asks for a scene of in without blocking. A pending request that
// has not been picked up yet is replaced.
func (a *Animator) Request(in Input) {
	select {
	case a.requests <- in:
		return
	default:
	}
	select {
	case <-a.requests:
	default:
	}
	select {
	case a.requests <- in:
	default:
	}
}

// Compute builds the scene for in, one goroutine per zone.
func (a *Animator) Compute(ctx context.Context, in Input) (*Scene, error) {
	parts := make([]zonePart, len(a.zones))
	g, ctx := errgroup.WithContext(ctx)
	for i, z := range a.zones {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parts[i] = buildZone(z, in, a.timeRatio)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Scene{Time: in.Now}
	for _, p := range parts {
		s.Zones = append(s.Zones, p.view)
		s.Lines = append(s.Lines, p.lines...)
		s.Ripples = append(s.Ripples, p.ripples...)
	}
	s.Sprites = spritesFor(in.Objects, s.Zones)
	return s, nil
}

// Run computes requested scenes until ctx is cancelled.
func (a *Animator) Run(ctx context.Context) {
	log.Printf("Animator: started with %d zones", len(a.zones))
	for {
		select {
		case <-ctx.Done():
			return
		case in := <-a.requests:
			s, err := a.Compute(ctx, in)
			if err != nil {
				continue
			}
			a.scene.Store(s)
		}
	}
}
