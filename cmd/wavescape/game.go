package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/engine"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/render"
)

// placedSize is the side of an object placed with the mouse.
const placedSize = 60

var background = color.RGBA{0x10, 0x10, 0x18, 0xff}

// game is the ebiten host. Mouse and keyboard stand in for the camera and
// control board: left click places an object, right click cycles the tag
// to place, Z removes the last placed object and B presses the button.
type game struct {
	engine *engine.Engine
	store  *object.Store
	done   <-chan struct{}
	now    func() time.Time

	tag    int
	width  int
	height int
}

func newGame(e *engine.Engine, s *object.Store, done <-chan struct{}) *game {
	return &game{engine: e, store: s, done: done, now: time.Now, tag: 2} // circle
}

func (g *game) placing() object.Tag {
	return object.AllTags[g.tag%len(object.AllTags)]
}

func (g *game) Update() error {
	select {
	case <-g.done:
		return ebiten.Termination
	default:
	}

	now := g.now()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.store.Pin(g.placing(), object.Rect{
			X: float64(x) - placedSize/2,
			Y: float64(y) - placedSize/2,
			W: placedSize,
			H: placedSize,
		}, now)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.tag = (g.tag + 1) % len(object.AllTags)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.store.Unpin()
	}

	g.engine.Frame(engine.FrameInput{
		ScreenW:    float64(g.width),
		ScreenH:    float64(g.height),
		Objects:    g.store.Snapshot(now),
		ButtonEdge: inpututil.IsKeyJustPressed(ebiten.KeyB),
		Now:        now,
	})
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.engine.Draw(render.EbitenSurface{Dst: screen})

	st := g.engine.Status()
	ebitenutil.DebugPrint(screen, fmt.Sprintf("placing: %s  voices: %d/%d  dropped: %d  fps: %.0f",
		g.placing(), st.Mixer.Active, st.Mixer.Channels, st.Mixer.Dropped, ebiten.ActualFPS()))
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
