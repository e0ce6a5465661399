package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/banshee-data/presence.report/internal/ld2410"
	"github.com/banshee-data/presence.report/internal/monitoring"
	"github.com/banshee-data/presence.report/internal/version"
	"github.com/banshee-data/presence.report/internal/view"
)

// Server exposes the sensor model to render clients: pull-based JSON
// snapshots, an SSE feed of coalesced change tags, and live chart pages.
type Server struct {
	state   *ld2410.State
	hub     *Hub
	history *History
	lines   *LineLog
}

// NewServer wires the render sink to the shared sensor model.
func NewServer(state *ld2410.State, hub *Hub, history *History, lines *LineLog) *Server {
	return &Server{
		state:   state,
		hub:     hub,
		history: history,
		lines:   lines,
	}
}

// ServeMux returns the handler tree for the monitor API and chart pages.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/detection", s.handleDetection)
	mux.HandleFunc("/api/gates", s.handleGates)
	mux.HandleFunc("/api/sensitivity", s.handleSensitivity)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/log", s.handleLog)
	mux.HandleFunc("/api/polar", s.handlePolarGeometry)
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/version", s.handleVersion)

	mux.HandleFunc("/charts/", s.handleDashboard)
	mux.HandleFunc("/charts/gates", s.handleGateBars)
	mux.HandleFunc("/charts/motion", s.handleMotionProfile)
	mux.HandleFunc("/charts/stationary", s.handleStationaryProfile)
	mux.HandleFunc("/charts/history", s.handleHistoryChart)
	mux.HandleFunc("/charts/polar", s.handlePolarChart)

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		monitoring.Logf("failed to encode response: %v", err)
	}
}

func (s *Server) handleDetection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.state.Detection())
}

func (s *Server) handleGates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.state.Gates())
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.state.Sensitivity())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.state.Config())
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Version   string `json:"version"`
		GitSHA    string `json:"git_sha"`
		BuildTime string `json:"build_time"`
	}{
		Version:   version.Version,
		GitSHA:    version.GitSHA,
		BuildTime: version.BuildTime,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.history.Snapshot())
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		Lines []string `json:"lines"`
	}{Lines: s.lines.Lines()})
}

// handlePolarGeometry projects the current detection sample into the caller's
// viewport and returns the drawable geometry: static frame plus target arcs.
func (s *Server) handlePolarGeometry(w http.ResponseWriter, r *http.Request) {
	width := queryInt(r, "width", 400)
	height := queryInt(r, "height", 300)
	if width < 40 || width > 4096 || height < 40 || height > 4096 {
		http.Error(w, "viewport out of range", http.StatusBadRequest)
		return
	}

	v := view.NewPolarView(width, height)
	sample := s.state.Detection()
	writeJSON(w, struct {
		Frame   view.Frame             `json:"frame"`
		Targets view.TargetArcs        `json:"targets"`
		Sample  ld2410.DetectionSample `json:"sample"`
	}{
		Frame:   v.Frame(),
		Targets: v.TargetArcs(sample.Presence, sample.StationaryDistanceCm, sample.MovingDistanceCm),
		Sample:  sample,
	})
}

// handleEvents streams coalesced change notifications as SSE. One event per
// drain, however many lines arrived since the last one; each event carries
// the merged tag set so the client redraws only the stale surfaces.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := s.hub.Subscribe()
	defer sub.Close()

	w.Write([]byte(": ping\n\n"))
	flusher.Flush()

	for {
		select {
		case <-sub.Ready():
			changes := sub.Drain()
			if changes == 0 {
				continue
			}
			payload, err := json.Marshal(struct {
				Tags []string `json:"tags"`
			}{Tags: changes.Tags()})
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
