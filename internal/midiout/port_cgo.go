//go:build cgo

package midiout

import (
	"fmt"
	"log"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Open connects a mirror to the first output port whose name contains name.
func Open(name string, channel uint8) (*Mirror, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("open MIDI driver: %w", err)
	}
	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("list MIDI outputs: %w", err)
	}
	var found drivers.Out
	for _, out := range outs {
		if strings.Contains(out.String(), name) {
			found = out
			break
		}
	}
	if found == nil {
		drv.Close()
		return nil, fmt.Errorf("MIDI output %q not found", name)
	}
	if err := found.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open MIDI output %q: %w", found.String(), err)
	}
	send, err := midi.SendTo(found)
	if err != nil {
		found.Close()
		drv.Close()
		return nil, fmt.Errorf("send to MIDI output %q: %w", found.String(), err)
	}

	m := New(send, channel)
	m.close = func() error {
		err := found.Close()
		drv.Close()
		return err
	}
	log.Printf("MIDI: mirroring voices to %q on channel %d", found.String(), channel+1)
	return m, nil
}
