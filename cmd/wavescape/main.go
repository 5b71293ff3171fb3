package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/config"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/engine"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/midiout"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/speaker"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/stream"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/zone"
)

func main() {
	cfg := config.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Println("wavescape starting up...")

	// Zone layout
	defs := config.DefaultLayout()
	if cfg.LayoutPath != "" {
		var err error
		if defs, err = config.LoadLayout(cfg.LayoutPath); err != nil {
			log.Fatalf("Layout: %v", err)
		}
		log.Printf("Layout: %d zones from %s", len(defs), cfg.LayoutPath)
	}

	// Zone engine: voices, mixer, metronome, animation
	eng := engine.New(defs, engine.Options{
		Zone: zone.Options{
			PlaybackRequired: cfg.PlaybackRequired,
			Cooldown:         cfg.PlaybackCooldown,
			SoundPoll:        cfg.SoundPoll,
		},
		MaxChannels:   cfg.MaxChannels,
		MasterVolume:  cfg.MasterVolume,
		WaveTimeRatio: cfg.WaveTimeRatio,
	})

	// MIDI mirror (optional)
	var mirror *midiout.Mirror
	if cfg.MIDIOut != "" {
		m, err := midiout.Open(cfg.MIDIOut, 0)
		if err != nil {
			log.Printf("MIDI: %v (continuing without MIDI)", err)
		} else {
			mirror = m
			eng.SetObserver(mirror)
		}
	}

	eng.Start(ctx)

	// Broadcaster: fan-out PCM frames to all listeners
	broadcaster := stream.NewBroadcaster()
	go broadcaster.Run(ctx, eng.Frames())

	// Local speaker (optional)
	var spk *speaker.Speaker
	if cfg.Speaker {
		s, err := speaker.New(broadcaster)
		if err != nil {
			log.Printf("Speaker: %v (continuing without local audio)", err)
		} else {
			spk = s
		}
	}

	store := object.NewStore(cfg.ObjectPersistence)
	webrtcHandler := stream.NewWebRTCHandler(broadcaster)
	a := &api{
		engine:      eng,
		store:       store,
		broadcaster: broadcaster,
		webrtc:      webrtcHandler,
		midi:        mirror,
		now:         time.Now,
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: a.routes()}
	go func() {
		log.Printf("wavescape API on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("wavescape")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(newGame(eng, store, ctx.Done())); err != nil {
		log.Printf("Game: %v", err)
	}

	log.Println("Shutting down...")
	cancel()
	server.Close()
	webrtcHandler.Close()
	if spk != nil {
		spk.Close()
	}
	eng.Wait()
	if mirror != nil {
		mirror.Close()
	}
}
