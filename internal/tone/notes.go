package tone

import (
	"math"
	"strconv"
)

// PitchList is the chromatic scale starting at the chord root.
var PitchList = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// OctaveList covers the piano range by octave number.
var OctaveList = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}

// Octave slice bounds, as fractions of OctaveList, that keep generated tones
// in a comfortable register.
const (
	OctaveStartPct = 0.40
	OctaveEndPct   = 0.65
)

const (
	concertA     = 440.0
	concertAMidi = 69
	// elcReference scales the inverse A-weighting so that a 1 kHz tone plays
	// at a quarter of full volume; lower notes get proportionally more.
	elcReference = 0.25
)

var (
	frequencyMap = map[string]float64{}
	elcMap       = map[string]float64{}
)

func init() {
	for o, octave := range OctaveList {
		for p, pitch := range PitchList {
			note := pitch + octave
			midi := 12*(o+1) + p
			f := concertA * math.Pow(2, float64(midi-concertAMidi)/12)
			frequencyMap[note] = f
			elcMap[note] = loudnessScalar(f)
		}
	}
}

// Frequency returns the equal-tempered frequency of a note key such as "D#4".
func Frequency(note string) (float64, bool) {
	f, ok := frequencyMap[note]
	return f, ok
}

// LoudnessScalar returns the equal-loudness weight of a note key, in (0,1].
func LoudnessScalar(note string) (float64, bool) {
	v, ok := elcMap[note]
	return v, ok
}

// MidiKey returns the MIDI key number nearest to f, clamped to 0..127.
func MidiKey(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	k := math.Round(concertAMidi + 12*math.Log2(f/concertA))
	return uint8(min(max(k, 0), 127))
}

// NoteName returns the note key for a MIDI key number, e.g. 63 -> "D#4".
func NoteName(key uint8) string {
	return PitchList[int(key)%12] + strconv.Itoa(int(key)/12-1)
}

// aWeighting returns the A-weighting gain in dB at f.
func aWeighting(f float64) float64 {
	f2 := f * f
	ra := (12194 * 12194 * f2 * f2) /
		((f2 + 20.6*20.6) * math.Sqrt((f2+107.7*107.7)*(f2+737.9*737.9)) * (f2 + 12194*12194))
	return 20*math.Log10(ra) + 2.0
}

// loudnessScalar compensates the ear's reduced sensitivity away from the
// mid band, clamped to 1.
func loudnessScalar(f float64) float64 {
	v := elcReference * math.Pow(10, -aWeighting(f)/20)
	return min(v, 1)
}
