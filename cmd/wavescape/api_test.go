package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"github.com/Algernon0401/deco3801-team77-wavescape/internal/config"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/engine"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/midiout"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/object"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/stream"
	"github.com/Algernon0401/deco3801-team77-wavescape/internal/wave"
)

var t0 = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

func newAPI() *api {
	b := stream.NewBroadcaster()
	return &api{
		engine:      engine.New(config.DefaultLayout(), engine.DefaultOptions()),
		store:       object.NewStore(3 * time.Second),
		broadcaster: b,
		webrtc:      stream.NewWebRTCHandler(b),
		now:         func() time.Time { return t0 },
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestStatus(t *testing.T) {
	a := newAPI()
	rec := do(t, a.routes(), http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var got struct {
		Engine engine.Status   `json:"engine"`
		MIDI   *map[string]int `json:"midi"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Engine.Zones) != 5 {
		t.Errorf("zones = %d, want 5", len(got.Engine.Zones))
	}
	if got.MIDI != nil {
		t.Errorf("midi reported without an output: %v", *got.MIDI)
	}
}

func TestStatusReportsMIDI(t *testing.T) {
	a := newAPI()
	a.midi = midiout.New(func(midi.Message) error { return errors.New("port gone") }, 0)
	a.midi.VoiceStarted(wave.Spec{Shape: wave.Sine, Amplitude: 32767, Frequency: 440, Volume: 1})

	rec := do(t, a.routes(), http.MethodGet, "/api/status", "")
	var got struct {
		MIDI map[string]int `json:"midi"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.MIDI["held"] != 1 || got.MIDI["errors"] != 1 {
		t.Errorf("midi = %v, want held 1, errors 1", got.MIDI)
	}
}

func TestNextModeRoute(t *testing.T) {
	a := newAPI()
	mux := a.routes()

	// zone 1 is the circle zone of the default layout
	if rec := do(t, mux, http.MethodPost, "/api/zones/1/next", ""); rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if got := a.engine.Zones()[1].Chord(); got != "major 7th" {
		t.Errorf("chord = %q, want major 7th", got)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodPost, "/api/zones/9/next", http.StatusNotFound},
		{http.MethodPost, "/api/zones/x/next", http.StatusBadRequest},
		{http.MethodGet, "/api/zones/1/next", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		if rec := do(t, mux, tt.method, tt.path, ""); rec.Code != tt.want {
			t.Errorf("%s %s: status %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestObserveRoute(t *testing.T) {
	a := newAPI()
	mux := a.routes()

	body := `[{"tag":"circle","track_id":4,"x":10,"y":20,"w":30,"h":30},
	          {"tag":"plus","track_id":5,"x":100,"y":100,"w":30,"h":30}]`
	if rec := do(t, mux, http.MethodPost, "/api/objects", body); rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	objs := a.store.Snapshot(t0)
	if len(objs) != 2 || objs[0].TrackID != 4 || objs[0].Tag != object.Circle {
		t.Errorf("store = %v", objs)
	}

	for _, bad := range []string{
		`not json`,
		`[{"tag":"hexagon","track_id":1,"w":1,"h":1}]`,
		`[{"tag":"circle","track_id":1,"w":0,"h":1}]`,
	} {
		if rec := do(t, mux, http.MethodPost, "/api/objects", bad); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", bad, rec.Code)
		}
	}
	if a.store.Len() != 2 {
		t.Error("rejected request changed the store")
	}
}

func TestVolumeRoute(t *testing.T) {
	a := newAPI()
	mux := a.routes()
	tests := []struct {
		body string
		want int
	}{
		{`{"volume":0.25}`, http.StatusOK},
		{`{"volume":1.5}`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rec := do(t, mux, http.MethodPost, "/api/volume", tt.body); rec.Code != tt.want {
			t.Errorf("%s: status %d, want %d", tt.body, rec.Code, tt.want)
		}
	}
}
