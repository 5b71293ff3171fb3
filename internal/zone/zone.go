// Package zone implements the per-frame state machine of a screen zone: it
// collects the tracked objects inside the zone, decides whether the zone
// should sound and, for waveform zones, keeps the zone's voices in step with
// its objects.
package zone

import (
	"image/color"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/audio"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
)

// Type distinguishes waveform zones from the arrangement zone.
type Type int

const (
	WaveGen Type = iota
	Arrangement
)

func (t Type) String() string {
	if t == Arrangement {
		return "arrangement"
	}
	return "wavegen"
}

const (
	// CheckboxSize is the side of the playback checkbox in pixels.
	CheckboxSize = 96
	// CheckboxInset is the checkbox's distance from the zone's top-right corner.
	CheckboxInset = 16

	// DefaultCooldown keeps a zone sounding after its playback marker leaves.
	DefaultCooldown = 3 * time.Second
	// DefaultSoundPoll is how often a zone reconciles its voices.
	DefaultSoundPoll = 50 * time.Millisecond

	// MetreSteps is the number of beats, and screen slices, in one bar.
	MetreSteps = 8
	// DefaultBPM is the arrangement tempo at startup.
	DefaultBPM = 120
	// MaxRippleCount bounds the ripples drawn around an object.
	MaxRippleCount = 3
)

// BPMChoices is the tempo cycle stepped through by a mode change.
var BPMChoices = []int{60, 90, 120, 150}

// Def describes a zone of the layout. Scaled fields are fractions of the
// screen; offsets and size adjustments are pixels added after scaling.
type Def struct {
	Name    string
	Type    Type
	Tag     object.Tag
	ScaledX float64
	ScaledY float64
	ScaledW float64
	ScaledH float64
	OffsetX float64
	OffsetY float64
	AddW    float64
	AddH    float64
}

// Resolve returns the zone rectangle for a screen, clamped to the screen.
func (d Def) Resolve(screenW, screenH float64) object.Rect {
	x := clamp(d.ScaledX*screenW+d.OffsetX, 0, screenW)
	y := clamp(d.ScaledY*screenH+d.OffsetY, 0, screenH)
	w := clamp(d.ScaledW*screenW+d.AddW, 0, screenW-x)
	h := clamp(d.ScaledH*screenH+d.AddH, 0, screenH-y)
	return object.Rect{X: x, Y: y, W: w, H: h}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// Checkbox returns the playback checkbox region of a zone rectangle.
func Checkbox(r object.Rect) object.Rect {
	return object.Rect{
		X: r.X + r.W - CheckboxInset - CheckboxSize,
		Y: r.Y + CheckboxInset,
		W: CheckboxSize,
		H: CheckboxSize,
	}
}

// Options are the deployment settings shared by every zone.
type Options struct {
	// PlaybackRequired makes zones silent unless a playback marker is in
	// their checkbox.
	PlaybackRequired bool
	Cooldown         time.Duration
	SoundPoll        time.Duration
}

// DefaultOptions returns the installation defaults.
func DefaultOptions() Options {
	return Options{
		PlaybackRequired: true,
		Cooldown:         DefaultCooldown,
		SoundPoll:        DefaultSoundPoll,
	}
}

// Frame is the input of one Update.
type Frame struct {
	ScreenW, ScreenH float64
	Objects          []*object.Tracked
	Now              time.Time
	// AnyForced is set when some waveform zone is in forced playback.
	// Only arrangement zones read it.
	AnyForced bool
}

// Zone is one region of the screen. Its exported methods are safe for
// concurrent use.
type Zone struct {
	index      int
	def        Def
	opts       Options
	highlights *Highlights
	voices     *audio.VoiceSet
	alive      atomic.Bool

	mu           sync.RWMutex
	screenW      float64
	rect         object.Rect
	chord        string
	bpm          int
	metre        int
	objects      []*object.Tracked
	selected     bool
	soundEnabled bool
	soundForced  bool
	playing      bool
	lastMarker   time.Time
	tree         *Node
	generation   int
}

// New creates a zone. voices is required for waveform zones and ignored for
// the arrangement zone.
func New(index int, def Def, opts Options, hl *Highlights, voices *audio.VoiceSet) *Zone {
	if def.Type == Arrangement {
		voices = nil
	}
	z := &Zone{
		index:      index,
		def:        def,
		opts:       opts,
		highlights: hl,
		voices:     voices,
		chord:      tone.DefaultChord,
		bpm:        DefaultBPM,
	}
	z.alive.Store(true)
	return z
}

func (z *Zone) Index() int              { return z.index }
func (z *Zone) Def() Def                { return z.def }
func (z *Zone) Type() Type              { return z.def.Type }
func (z *Zone) Alive() bool             { return z.alive.Load() }
func (z *Zone) Voices() *audio.VoiceSet { return z.voices }

// Update runs one frame: geometry, object collection, lazy object
// attributes, sound-enable decision and tree, in that order.
func (z *Zone) Update(f Frame) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.screenW = f.ScreenW
	z.rect = z.def.Resolve(f.ScreenW, f.ScreenH)

	inside := object.InBounds(f.Objects, z.rect)
	box := Checkbox(z.rect)
	z.objects = z.objects[:0]
	z.selected = false
	for _, o := range inside {
		if o.Tag == object.Plus {
			z.selected = true
			if box.Contains(o.Center()) {
				z.lastMarker = f.Now
			}
		}
		if !o.Tag.IsMarker() {
			z.objects = append(z.objects, o)
		}
	}
	for _, o := range z.objects {
		initAttributes(o)
	}

	z.soundForced = !z.lastMarker.IsZero() && f.Now.Sub(z.lastMarker) < z.opts.Cooldown
	checked := z.soundForced || !z.opts.PlaybackRequired

	switch z.def.Type {
	case WaveGen:
		z.soundEnabled = checked
		if hl, ok := z.highlights.Get(z.def.Tag); ok && !z.soundForced {
			z.soundEnabled = hl
		}
		z.tree = Flat(z.rect, z.objects)
	case Arrangement:
		z.soundEnabled = checked
		wasPlaying := z.playing
		z.playing = z.soundEnabled && !f.AnyForced
		if wasPlaying && !z.playing {
			z.highlights.Clear()
		}
	}
}

func initAttributes(o *object.Tracked) {
	o.AttrOrInit(object.AttrRippleCount, func() any {
		return rand.IntN(MaxRippleCount) + 1
	})
	o.AttrOrInit(object.AttrRippleColour, func() any {
		return color.RGBA{
			R: uint8(rand.IntN(256)),
			G: uint8(rand.IntN(256)),
			B: uint8(rand.IntN(256)),
			A: 0xff,
		}
	})
}

// NextMode reacts to a button press: waveform zones advance their chord and
// drop their cached waves; the arrangement zone advances its tempo.
func (z *Zone) NextMode() {
	z.mu.Lock()
	defer z.mu.Unlock()
	switch z.def.Type {
	case WaveGen:
		z.chord = tone.NextChord(z.chord)
		z.generation++
	case Arrangement:
		i := slices.Index(BPMChoices, z.bpm)
		z.bpm = BPMChoices[(i+1)%len(BPMChoices)]
	}
}

// Destroy stops the zone's background tasks within one poll interval.
func (z *Zone) Destroy() {
	z.alive.Store(false)
}

func (z *Zone) Rect() object.Rect {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.rect
}

func (z *Zone) Chord() string {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.chord
}

func (z *Zone) BPM() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.bpm
}

func (z *Zone) Metre() int {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.metre
}

func (z *Zone) Selected() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.selected
}

func (z *Zone) SoundEnabled() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.soundEnabled
}

func (z *Zone) SoundForced() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.soundForced
}

// Playing reports whether the arrangement is driving the highlights.
func (z *Zone) Playing() bool {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.playing
}

// Objects returns the objects of the last frame, markers excluded.
func (z *Zone) Objects() []*object.Tracked {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return slices.Clone(z.objects)
}

// Tree returns the last built tree; nil for the arrangement zone.
func (z *Zone) Tree() *Node {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.tree
}

// MaxDist is the distance from the zone center at which the last octave
// starts to repeat: half the zone diagonal.
func MaxDist(r object.Rect) float64 {
	return math.Hypot(r.W, r.H) / 2
}

// Status is a JSON view of a zone.
type Status struct {
	Index        int         `json:"index"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Tag          object.Tag  `json:"tag,omitempty"`
	Rect         object.Rect `json:"rect"`
	Chord        string      `json:"chord,omitempty"`
	BPM          int         `json:"bpm,omitempty"`
	Metre        int         `json:"metre"`
	Selected     bool        `json:"selected"`
	SoundEnabled bool        `json:"sound_enabled"`
	SoundForced  bool        `json:"sound_forced"`
	Playing      bool        `json:"playing,omitempty"`
	Objects      int         `json:"objects"`
	Voices       int         `json:"voices"`
}

// Status returns a snapshot for reporting.
func (z *Zone) Status() Status {
	z.mu.RLock()
	s := Status{
		Index:        z.index,
		Name:         z.def.Name,
		Type:         z.def.Type.String(),
		Rect:         z.rect,
		Metre:        z.metre,
		Selected:     z.selected,
		SoundEnabled: z.soundEnabled,
		SoundForced:  z.soundForced,
		Playing:      z.playing,
		Objects:      len(z.objects),
	}
	if z.def.Type == WaveGen {
		s.Tag = z.def.Tag
		s.Chord = z.chord
	} else {
		s.BPM = z.bpm
	}
	z.mu.RUnlock()

	if z.voices != nil {
		s.Voices = z.voices.Len()
	}
	return s
}
