package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
)

var (
	spriteColour = color.RGBA{0xe0, 0xe0, 0xe0, 0xff}
	markerColour = color.RGBA{0xff, 0x50, 0x50, 0xff}
)

// EbitenSurface draws onto an ebiten image.
type EbitenSurface struct {
	Dst *ebiten.Image
}

func (s EbitenSurface) DrawLine(x0, y0, x1, y1 float64, clr color.RGBA, width float64) {
	vector.StrokeLine(s.Dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, true)
}

func (s EbitenSurface) DrawPolyline(pts []Vertex, width float64) {
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		s.DrawLine(a.X, a.Y, b.X, b.Y, a.Colour, width)
	}
}

func (s EbitenSurface) DrawCircle(cx, cy, r float64, clr color.RGBA, width float64) {
	vector.StrokeCircle(s.Dst, float32(cx), float32(cy), float32(r), float32(width), clr, true)
}

// DrawSprite draws a simple glyph for the tag inside its bounds.
func (s EbitenSurface) DrawSprite(tag object.Tag, x, y, w, h float64, selected bool) {
	clr := spriteColour
	if tag.IsMarker() {
		clr = markerColour
	}
	if selected {
		clr = SelectedColour
	}
	cx, cy := x+w/2, y+h/2
	r := min(w, h) / 2

	switch tag {
	case object.Circle:
		s.DrawCircle(cx, cy, r, clr, 2)
	case object.Square:
		vector.StrokeRect(s.Dst, float32(x), float32(y), float32(w), float32(h), 2, clr, true)
	case object.Triangle:
		s.polygon(clr, cx, y, x+w, y+h, x, y+h)
	case object.Star:
		s.polygon(clr, cx, y, x+w*0.62, y+h*0.38, x+w, y+h*0.38, x+w*0.69, y+h*0.62,
			x+w*0.81, y+h, cx, y+h*0.76, x+w*0.19, y+h, x+w*0.31, y+h*0.62, x, y+h*0.38, x+w*0.38, y+h*0.38)
	case object.Arrow:
		s.DrawLine(x, cy, x+w, cy, clr, 2)
		s.DrawLine(x+w*0.6, y, x+w, cy, clr, 2)
		s.DrawLine(x+w*0.6, y+h, x+w, cy, clr, 2)
	case object.Plus:
		s.DrawLine(cx, y, cx, y+h, clr, 3)
		s.DrawLine(x, cy, x+w, cy, clr, 3)
	case object.Corner:
		s.DrawLine(x, y, x+w, y, clr, 3)
		s.DrawLine(x, y, x, y+h, clr, 3)
	default:
		s.DrawCircle(cx, cy, r/2, clr, 1)
	}
}

// polygon strokes a closed outline through xy pairs.
func (s EbitenSurface) polygon(clr color.RGBA, xy ...float64) {
	n := len(xy) / 2
	for i := range n {
		j := (i + 1) % n
		s.DrawLine(xy[2*i], xy[2*i+1], xy[2*j], xy[2*j+1], clr, 2)
	}
}

func (s EbitenSurface) DrawText(str string, x, y float64) {
	ebitenutil.DebugPrintAt(s.Dst, str, int(x), int(y))
}
