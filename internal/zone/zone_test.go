package zone

import (
	"image/color"
	"testing"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/audio"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
)

const screen = 1000.0

var t0 = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

// topLeft covers (0,0)-(500,500); its checkbox is (388,16)-(484,112).
var topLeft = Def{Name: "circle", Type: WaveGen, Tag: object.Circle, ScaledW: 0.5, ScaledH: 0.5}

func at(tag object.Tag, id int, x, y float64) *object.Tracked {
	return object.New(tag, id, object.Rect{X: x - 10, Y: y - 10, W: 20, H: 20}, t0)
}

func frame(now time.Time, objs ...*object.Tracked) Frame {
	return Frame{ScreenW: screen, ScreenH: screen, Objects: objs, Now: now}
}

func newVoices() (*audio.VoiceSet, *audio.Cache) {
	c := audio.NewCache(audio.SampleRate)
	m := audio.NewMixer(16, 1)
	return audio.NewVoiceSet(m, c, audio.NewGenerator(c, 16)), c
}

func warm(c *audio.Cache) {
	for _, s := range tone.Reachable() {
		c.Generate(s)
	}
}

// --- Geometry ---

func TestDefResolveClamps(t *testing.T) {
	tests := []struct {
		name string
		def  Def
		want object.Rect
	}{
		{"scaled", Def{ScaledX: 0.1, ScaledY: 0.2, ScaledW: 0.3, ScaledH: 0.4}, object.Rect{X: 100, Y: 200, W: 300, H: 400}},
		{"offset", Def{ScaledX: 0.68, ScaledW: 0.31, ScaledH: 0.47, OffsetX: 40, AddW: -40}, object.Rect{X: 720, Y: 0, W: 270, H: 470}},
		{"overflow", Def{ScaledX: 0.9, ScaledY: 0.9, ScaledW: 0.5, ScaledH: 0.5}, object.Rect{X: 900, Y: 900, W: 100, H: 100}},
		{"negative", Def{ScaledX: 0, OffsetX: -50, ScaledW: 0.1, AddW: -200, ScaledH: 0.1}, object.Rect{X: 0, Y: 0, W: 0, H: 100}},
	}
	for _, tt := range tests {
		got := tt.def.Resolve(screen, screen)
		if !nearRect(got, tt.want) {
			t.Errorf("%s: Resolve = %+v, want %+v", tt.name, got, tt.want)
		}
		if got.X+got.W > screen+1e-9 || got.Y+got.H > screen+1e-9 {
			t.Errorf("%s: %+v leaves the screen", tt.name, got)
		}
	}
}

func nearRect(a, b object.Rect) bool {
	const eps = 1e-9
	d := func(x, y float64) bool { return x-y < eps && y-x < eps }
	return d(a.X, b.X) && d(a.Y, b.Y) && d(a.W, b.W) && d(a.H, b.H)
}

func TestCheckboxRegion(t *testing.T) {
	box := Checkbox(object.Rect{X: 0, Y: 0, W: 500, H: 500})
	want := object.Rect{X: 388, Y: 16, W: CheckboxSize, H: CheckboxSize}
	if box != want {
		t.Errorf("Checkbox = %+v, want %+v", box, want)
	}
}

func TestMaxDist(t *testing.T) {
	if got := MaxDist(object.Rect{W: 300, H: 400}); got != 250 {
		t.Errorf("MaxDist = %v, want 250", got)
	}
}

// --- Collection ---

func TestUpdateFiltersMarkers(t *testing.T) {
	z := New(0, topLeft, Options{Cooldown: DefaultCooldown}, NewHighlights(), nil)
	circle := at(object.Circle, 1, 100, 100)
	corner := at(object.Corner, 2, 10, 490)
	plus := at(object.Plus, 3, 200, 300)
	outside := at(object.Square, 4, 700, 100)

	z.Update(frame(t0, circle, corner, plus, outside))

	objs := z.Objects()
	if len(objs) != 1 || objs[0] != circle {
		t.Errorf("Objects = %v, want only the circle", objs)
	}
	if !z.Selected() {
		t.Error("plus marker in bounds did not select the zone")
	}

	z.Update(frame(t0, circle))
	if z.Selected() {
		t.Error("zone still selected without a plus marker")
	}
}

func TestUpdateBuildsFlatTree(t *testing.T) {
	z := New(0, topLeft, DefaultOptions(), NewHighlights(), nil)
	a, b := at(object.Circle, 1, 100, 100), at(object.Star, 2, 400, 300)
	z.Update(frame(t0, a, b))

	root := z.Tree()
	if root == nil || root.X != 250 || root.Y != 250 || root.Object != nil {
		t.Fatalf("root = %+v, want the zone center", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children))
	}
	edges := 0
	root.Edges(func(p, c *Node) {
		edges++
		if p != root || len(c.Children) != 0 {
			t.Error("tree is not flat")
		}
	})
	if edges != 2 {
		t.Errorf("edges = %d, want 2", edges)
	}
}

func TestArrangementBuildsNoTree(t *testing.T) {
	z := New(0, Def{Type: Arrangement, ScaledW: 1, ScaledH: 1}, DefaultOptions(), NewHighlights(), nil)
	z.Update(frame(t0, at(object.Circle, 1, 100, 100)))
	if z.Tree() != nil {
		t.Error("arrangement zone built a tree")
	}
}

func TestAttributesAssignedOnce(t *testing.T) {
	z := New(0, topLeft, DefaultOptions(), NewHighlights(), nil)
	o := at(object.Triangle, 1, 100, 100)
	z.Update(frame(t0, o))

	n, _ := o.Attr(object.AttrRippleCount)
	c, _ := o.Attr(object.AttrRippleColour)
	count, ok := n.(int)
	if !ok || count < 1 || count > MaxRippleCount {
		t.Fatalf("ripple count = %v", n)
	}
	if _, ok := c.(color.RGBA); !ok {
		t.Fatalf("ripple colour = %v", c)
	}
	for range 20 {
		z.Update(frame(t0, o))
	}
	n2, _ := o.Attr(object.AttrRippleCount)
	c2, _ := o.Attr(object.AttrRippleColour)
	if n2 != n || c2 != c {
		t.Error("ripple attributes reassigned")
	}
}

func TestAttributesReadyAfterCollection(t *testing.T) {
	tests := []struct {
		name string
		def  Def
	}{
		{"wavegen", topLeft},
		{"arrangement", Def{Type: Arrangement, ScaledW: 1, ScaledH: 1}},
	}
	for _, tt := range tests {
		z := New(0, tt.def, DefaultOptions(), NewHighlights(), nil)
		objs := []*object.Tracked{at(object.Circle, 1, 100, 100), at(object.Star, 2, 300, 200)}
		marker := at(object.Plus, 9, 200, 400)
		z.Update(frame(t0, append(objs, marker)...))

		for _, o := range objs {
			if _, ok := o.Attr(object.AttrRippleCount); !ok {
				t.Errorf("%s: %s has no ripple count after one update", tt.name, o.Tag)
			}
			if _, ok := o.Attr(object.AttrRippleColour); !ok {
				t.Errorf("%s: %s has no ripple colour after one update", tt.name, o.Tag)
			}
		}
		if _, ok := marker.Attr(object.AttrRippleCount); ok {
			t.Errorf("%s: marker given ripple attributes", tt.name)
		}
		z.Tree().Edges(func(_, c *Node) {
			if _, ok := c.Object.Attr(object.AttrRippleColour); !ok {
				t.Errorf("%s: tree built over an object without attributes", tt.name)
			}
		})
	}
}

// --- Sound enable ---

func TestPlaybackMarkerCooldown(t *testing.T) {
	z := New(0, topLeft, DefaultOptions(), NewHighlights(), nil)
	marker := at(object.Plus, 9, 436, 64)

	z.Update(frame(t0))
	if z.SoundEnabled() {
		t.Fatal("enabled before any marker")
	}

	z.Update(frame(t0, marker))
	if !z.SoundEnabled() || !z.SoundForced() {
		t.Fatal("marker in checkbox did not enable sound immediately")
	}

	tests := []struct {
		after time.Duration
		want  bool
	}{
		{time.Second, true},
		{DefaultCooldown - time.Millisecond, true},
		{DefaultCooldown, false},
		{10 * time.Second, false},
	}
	for _, tt := range tests {
		z.Update(frame(t0.Add(tt.after)))
		if got := z.SoundEnabled(); got != tt.want {
			t.Errorf("%v after removal: enabled = %v, want %v", tt.after, got, tt.want)
		}
		if got := z.SoundForced(); got != tt.want {
			t.Errorf("%v after removal: forced = %v, want %v", tt.after, got, tt.want)
		}
	}
}

func TestMarkerOutsideCheckbox(t *testing.T) {
	z := New(0, topLeft, DefaultOptions(), NewHighlights(), nil)
	z.Update(frame(t0, at(object.Plus, 9, 100, 400)))
	if z.SoundEnabled() {
		t.Error("marker outside the checkbox enabled sound")
	}
	if !z.Selected() {
		t.Error("marker in the zone did not select it")
	}
}

func TestPlaybackNotRequired(t *testing.T) {
	opts := DefaultOptions()
	opts.PlaybackRequired = false
	z := New(0, topLeft, opts, NewHighlights(), nil)
	z.Update(frame(t0))
	if !z.SoundEnabled() {
		t.Error("zone silent although the checkmark is not required")
	}
	if z.SoundForced() {
		t.Error("zone forced without a marker")
	}
}

func TestHighlightOverridesCheckbox(t *testing.T) {
	hl := NewHighlights()
	opts := DefaultOptions()
	opts.PlaybackRequired = false
	z := New(0, topLeft, opts, hl, nil)

	hl.Replace(map[object.Tag]bool{object.Circle: false})
	z.Update(frame(t0))
	if z.SoundEnabled() {
		t.Error("highlight false did not mute the zone")
	}

	hl.Replace(map[object.Tag]bool{object.Square: false})
	z.Update(frame(t0))
	if !z.SoundEnabled() {
		t.Error("highlight of another tag muted the zone")
	}

	hl.Replace(map[object.Tag]bool{object.Circle: false})
	z.Update(frame(t0, at(object.Plus, 9, 436, 64)))
	if !z.SoundEnabled() {
		t.Error("forced zone muted by a highlight")
	}
}

// --- Mode ---

func TestNextModeCyclesChord(t *testing.T) {
	z := New(0, topLeft, DefaultOptions(), NewHighlights(), nil)
	for _, want := range []string{"major 7th", "minor", "minor 7th", "major"} {
		z.NextMode()
		if got := z.Chord(); got != want {
			t.Errorf("chord = %q, want %q", got, want)
		}
		if !tone.IsChord(z.Chord()) {
			t.Errorf("unsupported chord %q", z.Chord())
		}
	}
}

func TestNextModeCyclesBPM(t *testing.T) {
	z := New(0, Def{Type: Arrangement, ScaledW: 1, ScaledH: 1}, DefaultOptions(), NewHighlights(), nil)
	if z.BPM() != DefaultBPM {
		t.Fatalf("initial bpm = %d", z.BPM())
	}
	for _, want := range []int{150, 60, 90, 120} {
		z.NextMode()
		if got := z.BPM(); got != want {
			t.Errorf("bpm = %d, want %d", got, want)
		}
	}
	if z.Chord() != tone.DefaultChord {
		t.Error("arrangement NextMode changed the chord")
	}
}

func TestStatus(t *testing.T) {
	voices, _ := newVoices()
	z := New(3, topLeft, DefaultOptions(), NewHighlights(), voices)
	z.Update(frame(t0, at(object.Circle, 1, 100, 100)))
	s := z.Status()
	if s.Index != 3 || s.Type != "wavegen" || s.Tag != object.Circle || s.Chord != "major" || s.Objects != 1 {
		t.Errorf("status = %+v", s)
	}
}
