package audio

import (
	"math"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// LoopDuration is the approximate length of a synthesized buffer. Buffers are
// rounded to a whole number of periods so they loop without a seam.
const LoopDuration = 0.1 // seconds

type sampler func(x float64) float64

// samplers are keyed by shape; x is the phase in cycles.
var samplers = map[wave.Shape]sampler{
	wave.Sine: func(x float64) float64 {
		return math.Sin(2 * math.Pi * x)
	},
	wave.Square: func(x float64) float64 {
		return wave.Sign(math.Sin(2 * math.Pi * x))
	},
	wave.Triangle: func(x float64) float64 {
		return 2 / math.Pi * math.Asin(math.Sin(2*math.Pi*x))
	},
	wave.Sawtooth: func(x float64) float64 {
		return 2 * (x - math.Floor(x+0.5))
	},
	wave.Pulse: func(x float64) float64 {
		if x-math.Floor(x) < wave.DefaultDutyCycle {
			return 1
		}
		return -1
	},
}

// Synthesize renders whole periods of spec as mono int16 PCM at the given
// sample rate, scaled by the spec's amplitude. Volume is left to the mixer.
// It returns nil for an unknown shape or a non-positive frequency.
func Synthesize(spec wave.Spec, sampleRate int) []int16 {
	fn, ok := samplers[spec.Shape]
	if !ok || spec.Frequency <= 0 || sampleRate <= 0 {
		return nil
	}
	periods := max(math.Round(LoopDuration*spec.Frequency), 1)
	n := int(math.Round(periods * float64(sampleRate) / spec.Frequency))
	if n == 0 {
		return nil
	}
	// Spread the periods over exactly n samples so the loop point is seamless.
	perSample := periods / float64(n)
	amp := float64(spec.Amplitude)
	buf := make([]int16, n)
	for i := range buf {
		buf[i] = clip16(float32(math.Round(amp * fn(float64(i)*perSample))))
	}
	return buf
}
