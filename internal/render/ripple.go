package render

import (
	"image/color"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
)

const (
	// RippleSpeed is how fast ripples expand in pixels per second.
	RippleSpeed = 30.0
	// RippleMinRadius is the radius ripples start from.
	RippleMinRadius = 12.0
	// RippleMaxRadius is the radius at which a ripple fades out and restarts.
	RippleMaxRadius = 60.0
	// RippleHold keeps ripples bright after an object's voice last played.
	RippleHold = 500 * time.Millisecond
	// quietAlpha dims ripples of objects that are not sounding.
	quietAlpha = 0.3
)

// Ripple is one circle around an object.
type Ripple struct {
	X, Y, R float64
	Colour  color.RGBA
}

// Ripples returns the concentric circles around o at now, using its ripple
// count and colour attributes. Objects without them have no ripples.
func Ripples(o *object.Tracked, now time.Time) []Ripple {
	n, _ := o.Attr(object.AttrRippleCount)
	c, _ := o.Attr(object.AttrRippleColour)
	count, ok := n.(int)
	if !ok || count <= 0 {
		return nil
	}
	clr, ok := c.(color.RGBA)
	if !ok {
		return nil
	}

	strength := quietAlpha
	if v, ok := o.Attr(object.AttrLastPlayed); ok {
		if played, ok := v.(time.Time); ok && now.Sub(played) < RippleHold {
			strength = 1
		}
	}

	x, y := o.Center()
	band := RippleMaxRadius - RippleMinRadius
	travel := o.Age(now).Seconds() * RippleSpeed
	out := make([]Ripple, 0, count)
	for i := range count {
		off := travel + float64(i)*band/float64(count)
		r := RippleMinRadius + off - band*float64(int(off/band))
		fade := 1 - (r-RippleMinRadius)/band
		out = append(out, Ripple{X: x, Y: y, R: r, Colour: Fade(clr, fade*strength)})
	}
	return out
}
