package wave

import "math"

// LineRotation maps an offset d along an axis rotated by rot radians around
// (originX, originY) to screen coordinates.
func LineRotation(d, originX, originY, rot float64) (float64, float64) {
	sin, cos := math.Sincos(rot)
	return originX + d*cos, originY + d*sin
}

// Envelope is the triangular taper used along a line of length dist: 0 at
// both ends, 1 at the midpoint.
func Envelope(d, dist float64) float64 {
	half := dist / 2
	if half <= 0 {
		return 0
	}
	e := 1 - math.Abs(half-d)/half
	if e < 0 {
		return 0
	}
	return e
}

// WaveRotation places the sample at offset d of a waveform drawn along a line
// of length dist starting at (originX, originY) with direction rot. The
// sample is displaced perpendicular to the line by factor·envelope·ampDist.
func WaveRotation(factor, d, dist, ampDist, originX, originY, rot float64) (float64, float64) {
	perp := factor * Envelope(d, dist) * ampDist
	sin, cos := math.Sincos(rot)
	return originX + d*cos - perp*sin, originY + d*sin + perp*cos
}
