// Package tone turns the position of an object relative to its zone into a
// note constrained to a chord, and that note into a wave.Spec.
package tone

import (
	"maps"
	"math"
	"slices"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

const (
	// BitDepth is the PCM sample width the amplitude is derived from.
	BitDepth = 16
	// Amplitude is the peak sample value at BitDepth.
	Amplitude = 1<<(BitDepth-1) - 1

	// SharpVolumeScalar softens shapes that sound louder than their level.
	SharpVolumeScalar = 0.65

	// RootNote is where every chord starts.
	RootNote = "C"

	maxAngle = 360.0
)

// ChordSteps maps a chord name to the semitone steps between its notes.
var ChordSteps = map[string][]int{
	"major":      {4, 3},
	"minor":      {3, 4},
	"diminished": {3, 3},
	"7th":        {4, 3, 3},
	"major 7th":  {4, 3, 4},
	"minor 7th":  {3, 4, 3},
}

// ChordCycle is the order chords are stepped through by a mode change.
var ChordCycle = []string{"major", "major 7th", "minor", "minor 7th"}

// DefaultChord is the chord a zone starts with.
const DefaultChord = "major"

// IsChord reports whether name is a supported chord.
func IsChord(name string) bool {
	_, ok := ChordSteps[name]
	return ok
}

// NextChord returns the chord after name in ChordCycle. Chords outside the
// cycle restart it.
func NextChord(name string) string {
	i := slices.Index(ChordCycle, name)
	return ChordCycle[(i+1)%len(ChordCycle)]
}

// Voicing is how a tag sounds: its wave shape and a volume adjustment.
type Voicing struct {
	Shape       wave.Shape
	VolumeScale float64
}

// Voicings is the single tag -> shape table used both for sound and for the
// on-screen waveform.
var Voicings = map[object.Tag]Voicing{
	object.Triangle: {Shape: wave.Triangle, VolumeScale: 1},
	object.Square:   {Shape: wave.Square, VolumeScale: SharpVolumeScalar},
	object.Circle:   {Shape: wave.Sine, VolumeScale: 1},
	object.Star:     {Shape: wave.Sawtooth, VolumeScale: SharpVolumeScalar},
	object.Arrow:    {Shape: wave.Pulse, VolumeScale: 1},
}

// ShapeFor returns the wave shape a tag is drawn and played with.
func ShapeFor(tag object.Tag) (wave.Shape, bool) {
	v, ok := Voicings[tag]
	return v.Shape, ok
}

// ShortenLookup returns lookup[floor(len·startPct) : ceil(len·endPct)].
func ShortenLookup[T any](lookup []T, startPct, endPct float64) []T {
	start := int(math.Floor(float64(len(lookup)) * startPct))
	end := int(math.Ceil(float64(len(lookup)) * endPct))
	start = min(max(start, 0), len(lookup))
	end = min(max(end, start), len(lookup))
	return lookup[start:end]
}

// ChordNotes walks the chord's semitone steps over noteList starting at
// root. It reports false for an unknown chord or root.
func ChordNotes(noteList []string, root, chord string) ([]string, bool) {
	steps, ok := ChordSteps[chord]
	if !ok {
		return nil, false
	}
	idx := slices.Index(noteList, root)
	if idx < 0 {
		return nil, false
	}
	notes := []string{root}
	for _, s := range steps {
		idx = (idx + s) % len(noteList)
		notes = append(notes, noteList[idx])
	}
	return notes, true
}

// Bin returns the index of the first of n equal bins over [0, limit) whose
// upper edge lies above v. A value on an edge belongs to the bin above it;
// values past the range fall in the last bin.
func Bin(v, limit float64, n int) int {
	for i := 0; i < n; i++ {
		if v < float64(i+1)*limit/float64(n) {
			return i
		}
	}
	return n - 1
}

// Point is a position in screen pixels.
type Point struct {
	X, Y float64
}

// Geometry returns the distance from center to obj and the direction of obj
// as an angle in [0, 360) degrees, rotated half a turn from the x axis.
func Geometry(center, obj Point) (distance, angle float64) {
	dx, dy := obj.X-center.X, obj.Y-center.Y
	distance = math.Hypot(dx, dy)
	angle = math.Atan2(dy, dx)*180/math.Pi + 180
	if angle >= maxAngle {
		angle -= maxAngle
	}
	return distance, angle
}

// Note returns the note key selected by an object at obj relative to a zone
// centered at center with radius maxDist.
func Note(center, obj Point, maxDist float64, chord string) (string, bool) {
	pitches, ok := ChordNotes(PitchList, RootNote, chord)
	if !ok {
		return "", false
	}
	octaves := ShortenLookup(OctaveList, OctaveStartPct, OctaveEndPct)
	if len(octaves) == 0 {
		return "", false
	}
	distance, angle := Geometry(center, obj)
	p := pitches[Bin(angle, maxAngle, len(pitches))]
	o := octaves[Bin(distance, maxDist, len(octaves))]
	return p + o, true
}

// PosToWave maps an object's position within a zone, its tag and the zone's
// chord to the wave it plays. Unknown tags or chords yield false.
func PosToWave(center, obj Point, maxDist float64, tag object.Tag, chord string) (wave.Spec, bool) {
	v, ok := Voicings[tag]
	if !ok {
		return wave.Spec{}, false
	}
	note, ok := Note(center, obj, maxDist, chord)
	if !ok {
		return wave.Spec{}, false
	}
	freq, ok := Frequency(note)
	if !ok {
		return wave.Spec{}, false
	}
	elc, _ := LoudnessScalar(note)
	return wave.Spec{
		Shape:     v.Shape,
		Amplitude: Amplitude,
		Frequency: freq,
		Volume:    elc * v.VolumeScale,
	}, true
}

// Reachable lists every spec PosToWave can produce over the supported chords,
// so buffers can be synthesized before they are needed.
func Reachable() []wave.Spec {
	seen := map[wave.Spec]struct{}{}
	var out []wave.Spec
	octaves := ShortenLookup(OctaveList, OctaveStartPct, OctaveEndPct)
	chords := slices.Sorted(maps.Keys(ChordSteps))
	for _, chord := range chords {
		pitches, _ := ChordNotes(PitchList, RootNote, chord)
		for _, p := range pitches {
			for _, o := range octaves {
				note := p + o
				freq, _ := Frequency(note)
				elc, _ := LoudnessScalar(note)
				for _, tag := range object.AllTags {
					v, ok := Voicings[tag]
					if !ok {
						continue
					}
					s := wave.Spec{Shape: v.Shape, Amplitude: Amplitude, Frequency: freq, Volume: elc * v.VolumeScale}
					if _, dup := seen[s]; dup {
						continue
					}
					seen[s] = struct{}{}
					out = append(out, s)
				}
			}
		}
	}
	return out
}
