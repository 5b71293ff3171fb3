package zone

import (
	"context"
	"log"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
)

// BeatInterval is the time between two beats at bpm.
func BeatInterval(bpm int) time.Duration {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return time.Minute / time.Duration(bpm)
}

// Beat advances the arrangement by one step. While the zone is enabled the
// metre moves to the next screen slice; while it is also playing, every tag
// in the zone is highlighted according to whether one of its objects sits in
// that slice. Waveform zones ignore Beat.
func (z *Zone) Beat() {
	z.mu.Lock()
	defer z.mu.Unlock()

	if z.def.Type != Arrangement || !z.soundEnabled {
		return
	}
	z.metre = (z.metre + 1) % MetreSteps
	if !z.playing {
		z.highlights.Clear()
		return
	}

	width := z.screenW / MetreSteps
	lo := float64(z.metre) * width
	hi := lo + width
	tags := make(map[object.Tag]bool, len(z.objects))
	for _, o := range z.objects {
		x, _ := o.Center()
		tags[o.Tag] = tags[o.Tag] || (x >= lo && x < hi)
	}
	z.highlights.Replace(tags)
}

// RunMetronome beats at the zone's tempo until ctx is cancelled or the zone
// is destroyed. Tempo changes take effect on the next beat.
func (z *Zone) RunMetronome(ctx context.Context) {
	if z.def.Type != Arrangement {
		return
	}
	log.Printf("Zone %d: metronome started at %d bpm", z.index, z.BPM())
	defer z.highlights.Clear()

	for z.Alive() {
		timer := time.NewTimer(BeatInterval(z.BPM()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		z.Beat()
	}
}
