package audio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/viterin/vek/vek32"
)

// DefaultChannels is the size of a new channel pool.
const DefaultChannels = 8

// Channel is one slot of the mixer's pool. It loops a single buffer.
// All fields are guarded by the owning Mixer's lock.
type Channel struct {
	id       int
	busy     bool
	stopping bool
	buf      []int16
	pos      int
	volume   float32
	fade     ramp
}

// ID returns the channel's index in the pool.
func (c *Channel) ID() int { return c.id }

func (c *Channel) release() {
	c.busy = false
	c.stopping = false
	c.buf = nil
	c.pos = 0
	c.fade = ramp{}
}

// MixerStats is a snapshot of the channel pool.
type MixerStats struct {
	Channels int `json:"channels"`
	Active   int `json:"active"`
	Dropped  int `json:"dropped"`
}

// Mixer sums the voices of a growable channel pool into stereo PCM frames at
// real-time rate.
type Mixer struct {
	maxChannels int
	frameCh     chan []int16

	mu       sync.Mutex
	channels []*Channel
	master   float32
	dropped  int
	mix      []float32
	tmp      []float32
}

// NewMixer creates a mixer with DefaultChannels channels that may grow to
// maxChannels, at the given master volume.
func NewMixer(maxChannels int, masterVolume float64) *Mixer {
	maxChannels = max(maxChannels, 1)
	m := &Mixer{
		maxChannels: maxChannels,
		frameCh:     make(chan []int16, 100),
		master:      float32(masterVolume),
		mix:         make([]float32, FrameSize),
		tmp:         make([]float32, FrameSize),
	}
	m.grow(min(DefaultChannels, maxChannels))
	return m
}

func (m *Mixer) grow(n int) {
	for len(m.channels) < n {
		m.channels = append(m.channels, &Channel{id: len(m.channels)})
	}
}

// Acquire reserves a free channel, doubling the pool when none is free. It
// returns nil once the pool is at its maximum and fully in use.
func (m *Mixer) Acquire() *Channel {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.channels {
		if !c.busy {
			c.busy = true
			return c
		}
	}
	if len(m.channels) >= m.maxChannels {
		m.dropped++
		return nil
	}
	first := len(m.channels)
	m.grow(min(first*2, m.maxChannels))
	log.Printf("Mixer: channel pool grown to %d", len(m.channels))
	c := m.channels[first]
	c.busy = true
	return c
}

// Start begins looping buf on c at volume, fading in.
func (m *Mixer) Start(c *Channel, buf []int16, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.buf = buf
	c.pos = 0
	c.volume = float32(volume)
	c.stopping = false
	c.fade.fadeIn()
}

// Stop fades c out and returns it to the pool once silent.
func (m *Mixer) Stop(c *Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.buf == nil || c.fade.pos == 0 {
		c.release()
		return
	}
	c.stopping = true
	c.fade.fadeOut()
}

// SetMasterVolume scales every frame rendered from now on.
func (m *Mixer) SetMasterVolume(v float64) {
	m.mu.Lock()
	m.master = float32(min(max(v, 0), 1))
	m.mu.Unlock()
}

// Stats returns the current pool usage.
func (m *Mixer) Stats() MixerStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := MixerStats{Channels: len(m.channels), Dropped: m.dropped}
	for _, c := range m.channels {
		if c.busy {
			s.Active++
		}
	}
	return s
}

// Frames returns the channel of outgoing PCM frames (20ms each).
func (m *Mixer) Frames() <-chan []int16 {
	return m.frameCh
}

// Render mixes the next frame of every playing channel into an interleaved
// stereo frame.
func (m *Mixer) Render() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()

	mix := vek32.Zeros_Into(m.mix, FrameSize)
	for _, c := range m.channels {
		if !c.busy || len(c.buf) == 0 {
			continue
		}
		for i := range m.tmp {
			m.tmp[i] = float32(c.buf[c.pos]) * c.fade.next()
			c.pos++
			if c.pos == len(c.buf) {
				c.pos = 0
			}
		}
		vek32.MulNumber_Inplace(m.tmp, c.volume)
		vek32.Add_Inplace(mix, m.tmp)
		if c.stopping && c.fade.settled() {
			c.release()
		}
	}
	vek32.MulNumber_Inplace(mix, m.master)

	frame := make([]int16, FrameSamples)
	for i, v := range mix {
		s := clip16(v)
		frame[i*Channels] = s
		frame[i*Channels+1] = s
	}
	return frame
}

// Run renders a frame every FrameDuration. Blocks until ctx is cancelled.
func (m *Mixer) Run(ctx context.Context) {
	defer close(m.frameCh)

	ticker := time.NewTicker(FrameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		select {
		case m.frameCh <- m.Render():
		case <-ctx.Done():
			return
		}
	}
}
