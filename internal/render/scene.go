package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/zone"
)

var (
	CenterColour   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	EnabledColour  = color.RGBA{0x4c, 0xd9, 0x64, 0xff}
	DisabledColour = color.RGBA{0x60, 0x60, 0x60, 0xff}
	SelectedColour = color.RGBA{0xff, 0xcc, 0x00, 0xff}
	MetreColour    = color.RGBA{0x30, 0x90, 0xff, 0xff}
)

// ZoneView is what is drawn of a zone besides its lines.
type ZoneView struct {
	Type     zone.Type
	Rect     object.Rect
	Checkbox object.Rect
	Label    string
	Selected bool
	Enabled  bool
	Playing  bool
	// MetreX0 and MetreX1 bound the highlighted slice of an arrangement.
	MetreX0, MetreX1 float64
}

// Sprite is a tracked object drawn at its bounds.
type Sprite struct {
	Tag      object.Tag
	Bounds   object.Rect
	Selected bool
}

// Scene is one finished frame of animation.
type Scene struct {
	Time    time.Time
	Zones   []ZoneView
	Lines   [][]Vertex
	Ripples []Ripple
	Sprites []Sprite
}

// zonePart is the share of a scene computed from one zone.
type zonePart struct {
	view    ZoneView
	lines   [][]Vertex
	ripples []Ripple
}

func buildZone(z *zone.Zone, in Input, timeRatio float64) zonePart {
	st := z.Status()
	p := zonePart{view: ZoneView{
		Type:     z.Type(),
		Rect:     st.Rect,
		Selected: st.Selected,
		Enabled:  st.SoundEnabled,
		Playing:  st.Playing,
	}}

	switch z.Type() {
	case zone.WaveGen:
		p.view.Checkbox = zone.Checkbox(st.Rect)
		p.view.Label = fmt.Sprintf("%s  %s", st.Name, st.Chord)
		z.Tree().Edges(func(parent, child *zone.Node) {
			e := Edge{
				X0: parent.X, Y0: parent.Y, X1: child.X, Y1: child.Y,
				From: CenterColour, To: CenterColour,
			}
			if o := child.Object; o != nil {
				e.Tag = o.Tag
				e.Age = o.Age(in.Now)
				if c, ok := o.Attr(object.AttrRippleColour); ok {
					if rc, ok := c.(color.RGBA); ok {
						e.To = rc
					}
				}
			}
			p.lines = append(p.lines, WaveLine(e, timeRatio))
		})
		for _, o := range z.Objects() {
			p.ripples = append(p.ripples, Ripples(o, in.Now)...)
		}
	case zone.Arrangement:
		p.view.Label = fmt.Sprintf("%s  %d bpm", st.Name, st.BPM)
		w := in.ScreenW / zone.MetreSteps
		p.view.MetreX0 = float64(st.Metre) * w
		p.view.MetreX1 = p.view.MetreX0 + w
		p.view.Checkbox = zone.Checkbox(st.Rect)
	}
	return p
}

func spritesFor(objs []*object.Tracked, zones []ZoneView) []Sprite {
	out := make([]Sprite, 0, len(objs))
	for _, o := range objs {
		s := Sprite{Tag: o.Tag, Bounds: o.Bounds()}
		for _, z := range zones {
			if z.Selected && z.Rect.Contains(o.Center()) {
				s.Selected = true
				break
			}
		}
		out = append(out, s)
	}
	return out
}

// Draw paints the scene: zone frames, waveform lines, ripples, then objects.
func (s *Scene) Draw(surf Surface) {
	for _, z := range s.Zones {
		drawZone(surf, z)
	}
	for _, l := range s.Lines {
		surf.DrawPolyline(l, LineWidth)
	}
	for _, r := range s.Ripples {
		surf.DrawCircle(r.X, r.Y, r.R, r.Colour, 1)
	}
	for _, sp := range s.Sprites {
		surf.DrawSprite(sp.Tag, sp.Bounds.X, sp.Bounds.Y, sp.Bounds.W, sp.Bounds.H, sp.Selected)
	}
}

func drawZone(surf Surface, z ZoneView) {
	clr := DisabledColour
	if z.Enabled {
		clr = EnabledColour
	}
	if z.Selected {
		clr = SelectedColour
	}
	drawRect(surf, z.Rect, clr, 2)
	drawRect(surf, z.Checkbox, clr, 1)
	if z.Enabled {
		b := z.Checkbox
		surf.DrawLine(b.X+b.W*0.2, b.Y+b.H*0.55, b.X+b.W*0.42, b.Y+b.H*0.78, clr, 3)
		surf.DrawLine(b.X+b.W*0.42, b.Y+b.H*0.78, b.X+b.W*0.8, b.Y+b.H*0.25, clr, 3)
	}
	if z.Type == zone.Arrangement && z.Playing {
		x0 := max(z.MetreX0, z.Rect.X)
		x1 := min(z.MetreX1, z.Rect.X+z.Rect.W)
		if x0 < x1 {
			drawRect(surf, object.Rect{X: x0, Y: z.Rect.Y, W: x1 - x0, H: z.Rect.H}, MetreColour, 2)
		}
	}
	if l, ok := surf.(Labeler); ok && z.Label != "" {
		l.DrawText(z.Label, z.Rect.X+8, z.Rect.Y+8)
	}
}

func drawRect(surf Surface, r object.Rect, clr color.RGBA, width float64) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	x1, y1 := r.X+r.W, r.Y+r.H
	surf.DrawLine(r.X, r.Y, x1, r.Y, clr, width)
	surf.DrawLine(x1, r.Y, x1, y1, clr, width)
	surf.DrawLine(x1, y1, r.X, y1, clr, width)
	surf.DrawLine(r.X, y1, r.X, r.Y, clr, width)
}
