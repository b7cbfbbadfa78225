package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mohamed3ma/helios/pkg/geometry"
	"github.com/mohamed3ma/helios/pkg/tracking"
)

// TrackSummary is the final event of a tracking run
type TrackSummary struct {
	Histories   int                `json:"histories"`
	Escaped     int                `json:"escaped"`
	Leaked      int                `json:"leaked"`
	Lost        int                `json:"lost"`
	Truncated   int                `json:"truncated"`
	Crossings   int                `json:"crossings"`
	Reflections int                `json:"reflections"`
	TrackLength map[string]float64 `json:"meanTrackLength"` // Per cell, per history
	ElapsedMs   int64              `json:"elapsedMs"`
}

func newTrackSummary(stats tracking.Stats, elapsed time.Duration) TrackSummary {
	summary := TrackSummary{
		Histories:   stats.Histories,
		Escaped:     stats.Escaped,
		Leaked:      stats.Leaked,
		Lost:        stats.Lost,
		Truncated:   stats.Truncated,
		Crossings:   stats.Crossings,
		Reflections: stats.Reflections,
		TrackLength: make(map[string]float64),
		ElapsedMs:   elapsed.Milliseconds(),
	}
	for _, id := range stats.Cells() {
		summary.TrackLength[string(id)] = stats.MeanTrackLength(id)
	}
	return summary
}

// parseRunConfig reads the tracking parameters of a request
func parseRunConfig(r *http.Request) (tracking.RunConfig, error) {
	values := r.URL.Query()
	config := tracking.DefaultRunConfig()

	var err error
	if config.Histories, err = parseIntParam(values, "histories", 1000, 1, 10000000); err != nil {
		return config, err
	}
	if config.BatchSize, err = parseIntParam(values, "batch", 100, 1, 1000000); err != nil {
		return config, err
	}
	if config.NumWorkers, err = parseIntParam(values, "workers", 0, 0, 256); err != nil {
		return config, err
	}
	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31-1)
	if err != nil {
		return config, err
	}
	config.Seed = int64(seed)
	return config, nil
}

// handleTrack runs a tracking job and streams its progress with SSE
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	config, err := parseRunConfig(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := s.loadScene(r.URL.Query())
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}
	if _, err := geometry.New(sceneObj.Definitions, nil); err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	entry := s.log.WithFields(logrus.Fields{"scene": sceneObj.Info.ID, "histories": config.Histories})
	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(entry, consoleChan)

	type outcome struct {
		stats tracking.Stats
		err   error
	}
	done := make(chan outcome, 1)

	// Use request context to detect client disconnection
	ctx := r.Context()
	start := time.Now()
	go func() {
		stats, err := tracking.Run(ctx, sceneObj.Definitions, tracking.Source{Box: sceneObj.Source}, config, logger)
		done <- outcome{stats, err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		case result := <-done:
			// Flush console messages queued before the run ended
			for drained := false; !drained; {
				select {
				case msg := <-consoleChan:
					s.sendSSEJSON(w, "console", msg)
				default:
					drained = true
				}
			}
			if result.err != nil {
				entry.WithError(result.err).Warn("Tracking run aborted")
				s.sendSSEError(w, fmt.Sprintf("Tracking error: %v", result.err))
				return
			}
			entry.Info("Tracking run finished")
			s.sendSSEJSON(w, "stats", newTrackSummary(result.stats, time.Since(start)))
			s.sendSSEEvent(w, "complete", "Tracking completed")
			return
		}
	}
}

// sendSSEJSON sends a JSON encoded SSE event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
