package audio

import "time"

// FadeDuration is how long a voice takes to ramp in or out.
const FadeDuration = 5 * time.Millisecond

// fadeSamples is FadeDuration expressed in samples per channel.
const fadeSamples = int(SampleRate * FadeDuration / time.Second)

// Smoothstep returns the smoothstep interpolation for t in [0,1].
// Formula: 3t^2 - 2t^3.
func Smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// ramp is a fade position counted in samples, eased through Smoothstep. It
// moves one sample per call towards its target, 0 (silent) or fadeSamples.
type ramp struct {
	pos    int
	target int
}

func (r *ramp) fadeIn()  { r.target = fadeSamples }
func (r *ramp) fadeOut() { r.target = 0 }

// next advances the ramp by one sample and returns the eased gain.
func (r *ramp) next() float32 {
	switch {
	case r.pos < r.target:
		r.pos++
	case r.pos > r.target:
		r.pos--
	}
	return float32(Smoothstep(float64(r.pos) / float64(fadeSamples)))
}

// settled reports whether the ramp has reached its target.
func (r *ramp) settled() bool {
	return r.pos == r.target
}
