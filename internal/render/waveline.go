package render

import (
	"image/color"
	"math"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

const (
	// WaveSpan is the longest stretch of a line, in pixels, drawn as a wave.
	WaveSpan = 200.0
	// WaveQuality is the sampling step along the wave in pixels.
	WaveQuality = 2.0
	// WaveCycles is the number of visible cycles over the wave span.
	WaveCycles = 4.0
	// AmpDist is the peak perpendicular displacement in pixels.
	AmpDist = 12.0
	// LineWidth is the stroke width of waveform lines.
	LineWidth = 2.0
)

// Edge is a line from a zone center to one of its objects.
type Edge struct {
	X0, Y0, X1, Y1 float64
	From, To       color.RGBA
	Tag            object.Tag
	// Age is the target object's lifetime, which drives the wave's phase.
	Age time.Duration
}

// WaveLine returns the polyline of an edge: straight leads into and out of
// a centered wave of the target tag's shape. Tags without a shape, and
// zero-length edges, give a straight line.
func WaveLine(e Edge, timeRatio float64) []Vertex {
	start := Vertex{X: e.X0, Y: e.Y0, Colour: e.From}
	end := Vertex{X: e.X1, Y: e.Y1, Colour: e.To}

	dist := math.Hypot(e.X1-e.X0, e.Y1-e.Y0)
	shape, ok := tone.ShapeFor(e.Tag)
	if !ok || dist == 0 {
		return []Vertex{start, end}
	}

	span := math.Min(WaveSpan, dist)
	distPerCycle := span / WaveCycles
	timePerCycle := timeRatio / WaveCycles
	rot := math.Atan2(e.Y1-e.Y0, e.X1-e.X0)
	lead := (dist - span) / 2
	ox, oy := wave.LineRotation(lead, e.X0, e.Y0, rot)
	t := e.Age.Seconds()

	pts := make([]Vertex, 0, int(span/WaveQuality)+3)
	pts = append(pts, start)
	for d := 0.0; d <= span; d += WaveQuality {
		f, _ := wave.Factor(shape, d, t, distPerCycle, timePerCycle)
		x, y := wave.WaveRotation(f, d, span, AmpDist, ox, oy, rot)
		pts = append(pts, Vertex{X: x, Y: y, Colour: Lerp(e.From, e.To, (lead+d)/dist)})
	}
	return append(pts, end)
}
