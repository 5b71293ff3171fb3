//go:build !cgo

package midiout

import "errors"

// Open is unavailable without cgo; the rtmidi driver needs it.
func Open(name string, channel uint8) (*Mirror, error) {
	return nil, errors.New("MIDI output requires a cgo build")
}
