package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	// Server
	Port int

	// Zones
	LayoutPath        string        // YAML zone layout; empty uses the default
	PlaybackRequired  bool          // zones stay silent without a playback marker
	PlaybackCooldown  time.Duration // how long a removed marker keeps a zone sounding
	SoundPoll         time.Duration // voice reconcile interval
	ObjectPersistence time.Duration // how long unseen objects are kept

	// Audio
	MasterVolume float64 // 0..1
	MaxChannels  int     // mixer channel ceiling

	// Animation
	WaveTimeRatio float64 // seconds per WaveCycles cycles of the drawn wave

	// Outputs
	Speaker bool   // play the mix on the local audio device
	MIDIOut string // MIDI output port name; empty disables
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Port: envInt("WAVESCAPE_PORT", 8080),

		LayoutPath:        envStr("WAVESCAPE_LAYOUT", ""),
		PlaybackRequired:  envBool("WAVESCAPE_PLAYBACK_REQUIRED", true),
		PlaybackCooldown:  envDuration("WAVESCAPE_PLAYBACK_COOLDOWN", 3*time.Second),
		SoundPoll:         envDuration("WAVESCAPE_SOUND_POLL", 50*time.Millisecond),
		ObjectPersistence: envDuration("WAVESCAPE_OBJECT_PERSISTENCE", 3*time.Second),

		MasterVolume: envFloat("WAVESCAPE_MASTER_VOLUME", 0.8),
		MaxChannels:  envInt("WAVESCAPE_MAX_CHANNELS", 64),

		WaveTimeRatio: envFloat("WAVESCAPE_WAVE_TIME_RATIO", 1.0),

		Speaker: envBool("WAVESCAPE_SPEAKER", true),
		MIDIOut: envStr("WAVESCAPE_MIDI_OUT", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go durations ("250ms") or plain seconds ("3").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(f * float64(time.Second))
	}
	return fallback
}
