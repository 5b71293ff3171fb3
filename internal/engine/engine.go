// Package engine runs the zones of a layout: it owns the shared audio path,
// starts each zone's background tasks and feeds every zone the frame input.
package engine

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/audio"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/render"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/zone"
)

// ErrNoZone is returned for a zone index outside the layout.
var ErrNoZone = errors.New("no such zone")

// Options configures an Engine.
type Options struct {
	Zone         zone.Options
	MaxChannels  int
	MasterVolume float64
	// WaveTimeRatio is the seconds a drawn wave takes for WaveCycles cycles.
	WaveTimeRatio float64
	// QueueSize bounds each buffer generation queue.
	QueueSize int
}

// DefaultOptions returns the installation defaults.
func DefaultOptions() Options {
	return Options{
		Zone:          zone.DefaultOptions(),
		MaxChannels:   64,
		MasterVolume:  0.8,
		WaveTimeRatio: 1,
		QueueSize:     256,
	}
}

// FrameInput is what the host hands the engine once per display frame.
type FrameInput struct {
	ScreenW, ScreenH float64
	Objects          []*object.Tracked
	// ButtonEdge is set on the frame the control button was pressed.
	ButtonEdge bool
	Now        time.Time
}

// Engine drives every zone of a layout.
type Engine struct {
	cache      *audio.Cache
	generator  *audio.Generator
	mixer      *audio.Mixer
	highlights *zone.Highlights
	zones      []*zone.Zone
	animator   *render.Animator

	mu      sync.Mutex
	started bool
	wg      sync.WaitGroup
}

// New creates an engine with one zone per def. Each waveform zone gets its
// own voice set over the shared mixer and buffer cache.
func New(defs []zone.Def, opts Options) *Engine {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultOptions().QueueSize
	}
	cache := audio.NewCache(audio.SampleRate)
	e := &Engine{
		cache:      cache,
		generator:  audio.NewGenerator(cache, opts.QueueSize),
		mixer:      audio.NewMixer(opts.MaxChannels, opts.MasterVolume),
		highlights: zone.NewHighlights(),
	}
	for i, d := range defs {
		var voices *audio.VoiceSet
		if d.Type == zone.WaveGen {
			voices = audio.NewVoiceSet(e.mixer, cache, e.generator)
		}
		e.zones = append(e.zones, zone.New(i, d, opts.Zone, e.highlights, voices))
	}
	e.animator = render.NewAnimator(e.zones, opts.WaveTimeRatio)
	return e
}

// SetObserver reports every voice start and stop of every zone to o. Call it
// before Start.
func (e *Engine) SetObserver(o audio.Observer) {
	for _, z := range e.zones {
		if v := z.Voices(); v != nil {
			v.SetObserver(o)
		}
	}
}

// Start launches the generator, the mixer, the animator and each zone's
// background task. The buffers of every reachable wave are queued for
// synthesis up front. Start is a no-op after the first call.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true

	queued := e.generator.PrewarmAll(tone.Reachable())
	log.Printf("Engine: starting %d zones, %d buffers queued", len(e.zones), queued)

	e.goRun(func() { e.generator.Run(ctx) })
	e.goRun(func() { e.mixer.Run(ctx) })
	e.goRun(func() { e.animator.Run(ctx) })
	for _, z := range e.zones {
		switch z.Type() {
		case zone.WaveGen:
			e.goRun(func() { z.RunSound(ctx) })
		case zone.Arrangement:
			e.goRun(func() { z.RunMetronome(ctx) })
		}
	}
}

func (e *Engine) goRun(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		fn()
	}()
}

// Wait blocks until every task started by Start has returned.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Frame runs one display frame. Waveform zones update first so arrangement
// zones see whether any of them is in forced playback; a button edge then
// advances the mode of every selected zone.
func (e *Engine) Frame(in FrameInput) {
	f := zone.Frame{
		ScreenW: in.ScreenW,
		ScreenH: in.ScreenH,
		Objects: in.Objects,
		Now:     in.Now,
	}
	for _, z := range e.zones {
		if z.Type() == zone.WaveGen {
			z.Update(f)
			f.AnyForced = f.AnyForced || z.SoundForced()
		}
	}
	for _, z := range e.zones {
		if z.Type() == zone.Arrangement {
			z.Update(f)
		}
	}

	if in.ButtonEdge {
		for _, z := range e.zones {
			if z.Selected() {
				z.NextMode()
			}
		}
	}

	e.animator.Request(render.Input{
		Now:     in.Now,
		ScreenW: in.ScreenW,
		ScreenH: in.ScreenH,
		Objects: in.Objects,
	})
}

// Draw paints the latest finished scene.
func (e *Engine) Draw(s render.Surface) {
	e.animator.Scene().Draw(s)
}

// NextMode advances the mode of one zone, as a button press on it would.
func (e *Engine) NextMode(index int) error {
	if index < 0 || index >= len(e.zones) {
		return ErrNoZone
	}
	e.zones[index].NextMode()
	return nil
}

// SetMasterVolume sets the mix volume, clamped to [0,1].
func (e *Engine) SetMasterVolume(v float64) {
	e.mixer.SetMasterVolume(v)
}

// Frames returns the mixer's PCM frame channel. It is closed when the
// context passed to Start is cancelled.
func (e *Engine) Frames() <-chan []int16 {
	return e.mixer.Frames()
}

// Zones returns the engine's zones in layout order.
func (e *Engine) Zones() []*zone.Zone {
	return e.zones
}

// Status is a JSON view of the engine.
type Status struct {
	Zones      []zone.Status       `json:"zones"`
	Mixer      audio.MixerStats    `json:"mixer"`
	Buffers    int                 `json:"buffers"`
	Pending    int                 `json:"pending"`
	Highlights map[object.Tag]bool `json:"highlights"`
}

// Status returns a snapshot for reporting.
func (e *Engine) Status() Status {
	s := Status{
		Mixer:      e.mixer.Stats(),
		Buffers:    e.cache.Len(),
		Pending:    e.generator.Pending(),
		Highlights: e.highlights.Snapshot(),
	}
	for _, z := range e.zones {
		s.Zones = append(s.Zones, z.Status())
	}
	return s
}
