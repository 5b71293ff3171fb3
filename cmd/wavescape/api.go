package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/engine"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/midiout"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/stream"
)

// observation is one tracker report posted to /api/objects.
type observation struct {
	Tag     object.Tag `json:"tag"`
	TrackID int        `json:"track_id"`
	X       float64    `json:"x"`
	Y       float64    `json:"y"`
	W       float64    `json:"w"`
	H       float64    `json:"h"`
}

type api struct {
	engine      *engine.Engine
	store       *object.Store
	broadcaster *stream.Broadcaster
	webrtc      *stream.WebRTCHandler
	midi        *midiout.Mirror // nil without a MIDI output
	now         func() time.Time
}

func (a *api) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Audio streams
	mux.Handle("/stream", stream.NewHTTPHandler(a.broadcaster))
	mux.Handle("/offer", a.webrtc)

	// API endpoints
	mux.HandleFunc("GET /api/status", a.status)
	mux.HandleFunc("POST /api/zones/{index}/next", a.nextMode)
	mux.HandleFunc("POST /api/objects", a.observe)
	mux.HandleFunc("POST /api/volume", a.volume)
	return mux
}

func (a *api) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	status := map[string]any{
		"engine":    a.engine.Status(),
		"objects":   a.store.Len(),
		"listeners": a.broadcaster.Counts(),
		"webrtc":    a.webrtc.PeerCount(),
	}
	if a.midi != nil {
		status["midi"] = map[string]int{"held": a.midi.Held(), "errors": a.midi.Errors()}
	}
	json.NewEncoder(w).Encode(status)
}

func (a *api) nextMode(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid zone index", http.StatusBadRequest)
		return
	}
	if err := a.engine.NextMode(index); err != nil {
		if errors.Is(err, engine.ErrNoZone) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "zone": a.engine.Zones()[index].Status()})
}

func (a *api) observe(w http.ResponseWriter, r *http.Request) {
	var req []observation
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid observations", http.StatusBadRequest)
		return
	}
	now := a.now()
	for _, o := range req {
		if !slices.Contains(object.AllTags, o.Tag) || o.W <= 0 || o.H <= 0 {
			http.Error(w, "invalid observation", http.StatusBadRequest)
			return
		}
	}
	for _, o := range req {
		a.store.Observe(o.Tag, o.TrackID, object.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}, now)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "observed": len(req)})
}

func (a *api) volume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume *float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Volume == nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if *req.Volume < 0 || *req.Volume > 1 {
		http.Error(w, "volume must be 0-1", http.StatusBadRequest)
		return
	}
	a.engine.SetMasterVolume(*req.Volume)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "volume": *req.Volume})
}
