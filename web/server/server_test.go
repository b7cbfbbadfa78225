package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

const halfSpaces = `# Scene: Half Spaces
# Source: -1 -1 -1 1 1 1

[[surface]]
id = 1
type = "px"
coefficients = [0]

[[cell]]
id = "A"
surfaces = "+1"

[[cell]]
id = "B"
surfaces = "-1"
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "half-spaces.toml"), []byte(halfSpaces), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewServer(0, dir, log)
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestScenes(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"sphere-shell", "file:half-spaces"} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in scene list: %s", want, body)
		}
	}
}

func TestInspect(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/inspect?scene=file:half-spaces&x=0.5&y=0&z=0&dx=-2&dy=0&dz=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !response.Found || response.Cell != "A" {
		t.Fatalf("Expected cell A, got %+v", response)
	}
	if len(response.Path) != 1 || response.Path[0] != "0" {
		t.Errorf("Expected path [0], got %v", response.Path)
	}
	if len(response.Bounds) != 1 || response.Bounds[0].Sense != "+" || response.Bounds[0].Value != 0.5 {
		t.Errorf("Unexpected bounds %+v", response.Bounds)
	}

	ray := response.Ray
	if ray == nil {
		t.Fatal("Expected ray info")
	}
	if math.Abs(ray.Distance-0.5) > 1e-9 || ray.Surface != "1" || ray.Next != "B" || ray.Escaped {
		t.Errorf("Unexpected ray %+v", ray)
	}
	if ray.Direction != [3]float64{-1, 0, 0} {
		t.Errorf("Expected normalized direction, got %v", ray.Direction)
	}
}

func TestInspectEscape(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/inspect?scene=file:half-spaces&x=0.5&y=0&z=0&dx=1&dy=0&dz=0")
	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if response.Ray == nil || !response.Ray.Escaped {
		t.Errorf("Expected escaping ray, got %+v", response.Ray)
	}
}

func TestInspectLost(t *testing.T) {
	// The outer sphere of the shell bounds the base universe
	rec := get(t, newTestServer(t), "/api/inspect?scene=sphere-shell&x=100&y=0&z=0")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var response InspectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if response.Found || response.Error == "" {
		t.Errorf("Expected a lost point, got %+v", response)
	}
}

func TestInspectErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing scene", "/api/inspect?x=0&y=0&z=0", "missing scene"},
		{"unknown scene", "/api/inspect?scene=nope&x=0&y=0&z=0", "nope"},
		{"path reference", "/api/inspect?scene=/etc/scenes/half-spaces.toml&x=0&y=0&z=0", "unknown scene"},
		{"parent directory", "/api/inspect?scene=file:../half-spaces&x=0&y=0&z=0", "invalid scene file name"},
		{"missing coordinate", "/api/inspect?scene=sphere-shell&x=0&y=0", "missing z"},
		{"bad coordinate", "/api/inspect?scene=sphere-shell&x=a&y=0&z=0", "invalid x"},
		{"zero direction", "/api/inspect?scene=sphere-shell&x=0&y=0&z=0&dx=0&dy=0&dz=0", "direction cannot be zero"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("Expected error containing %q, got %s", tt.want, rec.Body.String())
			}
		})
	}
}

// sseData returns the data line of the first event with the given name
func sseData(body, event string) (string, bool) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if line == "event: "+event && i+1 < len(lines) {
			return strings.TrimPrefix(lines[i+1], "data: "), true
		}
	}
	return "", false
}

func TestTrack(t *testing.T) {
	rec := get(t, newTestServer(t), "/api/track?scene=sphere-shell&histories=50&batch=10&workers=2&seed=7")
	body := rec.Body.String()
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	data, ok := sseData(body, "stats")
	if !ok {
		t.Fatalf("No stats event in %s", body)
	}
	var summary TrackSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if summary.Histories != 50 || summary.Leaked != 50 || summary.Lost != 0 {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if _, ok := summary.TrackLength["core"]; !ok {
		t.Errorf("Expected track length for the core cell, got %v", summary.TrackLength)
	}
	if _, ok := sseData(body, "complete"); !ok {
		t.Errorf("No complete event in %s", body)
	}
}

func TestTrackErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"bad histories", "/api/track?scene=sphere-shell&histories=0", "histories must be between"},
		{"bad workers", "/api/track?scene=sphere-shell&workers=x", "invalid workers"},
		{"missing scene", "/api/track", "missing scene"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := sseData(get(t, s, tt.target).Body.String(), "error")
			if !ok || !strings.Contains(data, tt.want) {
				t.Errorf("Expected error event containing %q, got %q", tt.want, data)
			}
		})
	}
}
