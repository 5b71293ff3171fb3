// Package wave holds the five periodic wave shapes shared by tone generation
// and the on-screen waveform animation, the comparable Spec that identifies a
// distinct sound, and helpers that project a 1-D waveform onto a 2-D line.
package wave

import (
	"fmt"
	"math"
)

// Shape identifies one of the supported periodic waveforms.
type Shape int

const (
	Sine Shape = iota + 1
	Square
	Sawtooth
	Triangle
	Pulse
)

// Shapes lists every shape in declaration order.
var Shapes = []Shape{Sine, Square, Sawtooth, Triangle, Pulse}

func (s Shape) String() string {
	switch s {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Sawtooth:
		return "sawtooth"
	case Triangle:
		return "triangle"
	case Pulse:
		return "pulse"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// DefaultDutyCycle is the fraction of each period a pulse wave spends high.
const DefaultDutyCycle = 0.175

// Spec identifies a distinct sound. Two specs with equal fields are the same
// sound regardless of which object or frame produced them, so Spec is used
// directly as a map key for buffer caching and voice dedup.
type Spec struct {
	Shape     Shape
	Amplitude int
	Frequency float64
	Volume    float64
}

func (s Spec) String() string {
	return fmt.Sprintf("%s %.2fHz vol=%.3f", s.Shape, s.Frequency, s.Volume)
}

// singularEps bounds |sin(phase)| below which cot(phase) is treated as
// infinite.
const singularEps = 1e-9

// phase returns 2π·d/distPerCycle + 2π·t/timePerCycle. A zero period
// contributes nothing instead of dividing by zero.
func phase(d, t, distPerCycle, timePerCycle float64) float64 {
	var p float64
	if distPerCycle != 0 {
		p += 2 * math.Pi * d / distPerCycle
	}
	if timePerCycle != 0 {
		p += 2 * math.Pi * t / timePerCycle
	}
	return p
}

// SineFactor returns sin of the phase at distance d and time t.
func SineFactor(d, t, distPerCycle, timePerCycle float64) float64 {
	return math.Sin(phase(d, t, distPerCycle, timePerCycle))
}

// Sign returns -1 for negative x and +1 otherwise. Zero maps to +1.
func Sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// SquareFactor is the sign of the sine factor, with a zero crossing counted
// as +1.
func SquareFactor(d, t, distPerCycle, timePerCycle float64) float64 {
	return Sign(SineFactor(d, t, distPerCycle, timePerCycle))
}

// PulseFactor is an asymmetric square wave: -1 while the sine factor exceeds
// 2·duty-1, +1 otherwise.
func PulseFactor(d, t, distPerCycle, timePerCycle, duty float64) float64 {
	if SineFactor(d, t, distPerCycle, timePerCycle) > 2*duty-1 {
		return -1
	}
	return 1
}

// TriangleFactor is sinh of the sine factor. The curve is a softened
// triangle, not a linear one.
func TriangleFactor(d, t, distPerCycle, timePerCycle float64) float64 {
	return math.Sinh(SineFactor(d, t, distPerCycle, timePerCycle))
}

// SawtoothFactor is tanh(cot(phase)). At multiples of π, where cot is
// undefined, it saturates to ±1 following the sign of cos(phase).
func SawtoothFactor(d, t, distPerCycle, timePerCycle float64) float64 {
	p := phase(d, t, distPerCycle, timePerCycle)
	s, c := math.Sincos(p)
	if math.Abs(s) < singularEps {
		return Sign(c)
	}
	return math.Tanh(c / s)
}

type factorFunc func(d, t, distPerCycle, timePerCycle float64) float64

var factors = map[Shape]factorFunc{
	Sine:     SineFactor,
	Square:   SquareFactor,
	Sawtooth: SawtoothFactor,
	Triangle: TriangleFactor,
	Pulse: func(d, t, distPerCycle, timePerCycle float64) float64 {
		return PulseFactor(d, t, distPerCycle, timePerCycle, DefaultDutyCycle)
	},
}

// Factor evaluates the named shape. Unknown shapes return (0, false).
func Factor(shape Shape, d, t, distPerCycle, timePerCycle float64) (float64, bool) {
	f, ok := factors[shape]
	if !ok {
		return 0, false
	}
	return f(d, t, distPerCycle, timePerCycle), true
}
