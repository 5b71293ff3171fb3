// Package midiout mirrors voice starts and stops as MIDI notes, so an
// external synthesizer or DAW can follow the installation.
package midiout

import (
	"log"
	"sync"

	"gitlab.com/gomidi/midi/v2"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/tone"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

// Send delivers one MIDI message.
type Send func(msg midi.Message) error

// Mirror turns voice events into NoteOn/NoteOff on one MIDI channel. Zones
// playing the same key share one note, released when the last voice stops.
type Mirror struct {
	send    Send
	channel uint8
	close   func() error

	mu   sync.Mutex
	held map[uint8]int
	errs int
}

// New creates a mirror over send. channel is 0-based.
func New(send Send, channel uint8) *Mirror {
	return &Mirror{send: send, channel: channel & 0x0f, held: make(map[uint8]int)}
}

// Velocity maps a voice volume to a MIDI velocity in 1..127.
func Velocity(volume float64) uint8 {
	v := volume * 127
	return uint8(min(max(v, 1), 127) + 0.5)
}

func (m *Mirror) VoiceStarted(spec wave.Spec) {
	key := tone.MidiKey(spec.Frequency)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.held[key]++
	if m.held[key] == 1 {
		m.emit(midi.NoteOn(m.channel, key, Velocity(spec.Volume)), key)
	}
}

func (m *Mirror) VoiceStopped(spec wave.Spec) {
	key := tone.MidiKey(spec.Frequency)
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.held[key]
	if !ok {
		return
	}
	if n > 1 {
		m.held[key] = n - 1
		return
	}
	delete(m.held, key)
	m.emit(midi.NoteOff(m.channel, key), key)
}

// emit sends msg for key. Failures are counted in Errors; only the first
// one is logged.
func (m *Mirror) emit(msg midi.Message, key uint8) {
	if err := m.send(msg); err != nil {
		if m.errs == 0 {
			log.Printf("MIDI: send %v for %s failed: %v", msg, tone.NoteName(key), err)
		}
		m.errs++
	}
}

// Held returns the number of sounding keys.
func (m *Mirror) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.held)
}

// Errors returns how many messages failed to send.
func (m *Mirror) Errors() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs
}

// Close releases every held note and closes the port, if any.
func (m *Mirror) Close() error {
	m.mu.Lock()
	for key := range m.held {
		m.emit(midi.NoteOff(m.channel, key), key)
	}
	clear(m.held)
	m.mu.Unlock()
	if m.close != nil {
		return m.close()
	}
	return nil
}
