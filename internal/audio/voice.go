package audio

import (
	"sync"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// Observer is told when a voice starts or stops.
type Observer interface {
	VoiceStarted(spec wave.Spec)
	VoiceStopped(spec wave.Spec)
}

// VoiceSet tracks the voices of one zone. At most one voice plays any given
// spec.
type VoiceSet struct {
	mixer *Mixer
	cache *Cache
	gen   *Generator

	mu       sync.Mutex
	voices   map[*Channel]wave.Spec
	observer Observer
}

// NewVoiceSet creates an empty voice set drawing channels from m and buffers
// from c, asking gen for buffers that are not cached yet.
func NewVoiceSet(m *Mixer, c *Cache, gen *Generator) *VoiceSet {
	return &VoiceSet{
		mixer:  m,
		cache:  c,
		gen:    gen,
		voices: make(map[*Channel]wave.Spec),
	}
}

// SetObserver installs o; nil removes it.
func (v *VoiceSet) SetObserver(o Observer) {
	v.mu.Lock()
	v.observer = o
	v.mu.Unlock()
}

// Play starts a voice for spec unless one is already playing and reports
// whether spec is audible afterwards. An uncached buffer is requested and
// false returned; the caller retries on its next poll.
func (v *VoiceSet) Play(spec wave.Spec) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, s := range v.voices {
		if s == spec {
			return true
		}
	}
	buf, ok := v.cache.Get(spec)
	if !ok {
		v.gen.Request(spec, Immediate)
		return false
	}
	ch := v.mixer.Acquire()
	if ch == nil {
		return false
	}
	v.mixer.Start(ch, buf, spec.Volume)
	v.voices[ch] = spec
	if v.observer != nil {
		v.observer.VoiceStarted(spec)
	}
	return true
}

// Cleanup stops every voice whose spec is not in wanted.
func (v *VoiceSet) Cleanup(wanted map[wave.Spec]struct{}) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for ch, s := range v.voices {
		if _, keep := wanted[s]; keep {
			continue
		}
		v.stop(ch, s)
	}
}

// StopAll stops every voice.
func (v *VoiceSet) StopAll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for ch, s := range v.voices {
		v.stop(ch, s)
	}
}

func (v *VoiceSet) stop(ch *Channel, s wave.Spec) {
	v.mixer.Stop(ch)
	delete(v.voices, ch)
	if v.observer != nil {
		v.observer.VoiceStopped(s)
	}
}

// Active returns the specs currently playing.
func (v *VoiceSet) Active() []wave.Spec {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]wave.Spec, 0, len(v.voices))
	for _, s := range v.voices {
		out = append(out, s)
	}
	return out
}

// Len returns the number of playing voices.
func (v *VoiceSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.voices)
}
