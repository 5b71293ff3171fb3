// Package render computes the waveform lines and ripples drawn over the
// zones and hands them to a drawing surface.
package render

import (
	"image/color"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
)

// Vertex is a polyline point with its own colour.
type Vertex struct {
	X, Y   float64
	Colour color.RGBA
}

// Surface is the drawing target of a scene.
type Surface interface {
	DrawLine(x0, y0, x1, y1 float64, clr color.RGBA, width float64)
	// DrawPolyline draws each segment in the colour of its first vertex.
	DrawPolyline(pts []Vertex, width float64)
	DrawCircle(cx, cy, r float64, clr color.RGBA, width float64)
	DrawSprite(tag object.Tag, x, y, w, h float64, selected bool)
}

// Labeler is implemented by surfaces that can print text.
type Labeler interface {
	DrawText(s string, x, y float64)
}

// Lerp interpolates linearly between two colours; t is clamped to [0,1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	t = min(max(t, 0), 1)
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Fade scales a premultiplied colour towards transparent; k is clamped to
// [0,1].
func Fade(c color.RGBA, k float64) color.RGBA {
	k = min(max(k, 0), 1)
	scale := func(v uint8) uint8 { return uint8(float64(v)*k + 0.5) }
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: scale(c.A)}
}
