// Package speaker plays the live mix on the local audio device.
package speaker

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/audio"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/stream"
)

// DeviceBuffer is the latency requested from the audio device.
const DeviceBuffer = 4 * audio.FrameDuration

// frameReader turns listener frames into the byte stream a player pulls.
// Read blocks until a frame arrives and returns io.EOF once the listener is
// released.
type frameReader struct {
	listener *stream.Listener
	pending  []byte
}

func (r *frameReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		select {
		case frame := <-r.listener.C:
			r.pending = audio.SamplesToBytes(frame)
		case <-r.listener.Done():
			return 0, io.EOF
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

// Speaker is an oto player fed from a broadcaster.
type Speaker struct {
	broadcaster *stream.Broadcaster
	listener    *stream.Listener
	player      *oto.Player
	closeOnce   sync.Once
}

// New opens the default audio device and starts playing the broadcast.
func New(b *stream.Broadcaster) (*Speaker, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   audio.SampleRate,
		ChannelCount: audio.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   DeviceBuffer,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		return nil, errors.New("open audio device: timed out")
	}

	s := &Speaker{broadcaster: b, listener: b.Subscribe("speaker")}
	s.player = ctx.NewPlayer(&frameReader{listener: s.listener})
	s.player.Play()
	log.Printf("Speaker: playing at %d Hz, %v buffer", audio.SampleRate, DeviceBuffer)
	return s, nil
}

// Close stops playback and releases the broadcast listener.
func (s *Speaker) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.broadcaster.Unsubscribe(s.listener)
		err = s.player.Close()
	})
	return err
}
