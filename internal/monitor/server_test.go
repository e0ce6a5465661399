package monitor

import (
	"bufio"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/ld2410"
)

func newTestServer(t *testing.T) (*Server, *ld2410.State, *Hub, *httptest.Server) {
	t.Helper()
	state := ld2410.NewState()
	hub := NewHub()
	h, _ := newTestHistory()
	lines := NewLineLog()
	s := NewServer(state, hub, h, lines)
	ts := httptest.NewServer(s.ServeMux())
	t.Cleanup(ts.Close)
	return s, state, hub, ts
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestDetectionSnapshotEndpoint(t *testing.T) {
	_, state, _, ts := newTestServer(t)

	var d ld2410.Decoder
	state.ApplyAll(d.Decode("Presence: YES | Stationary: 38cm E:100 | Moving: 30cm E:100"))

	var got ld2410.DetectionSample
	getJSON(t, ts.URL+"/api/detection", &got)
	assert.Equal(t, ld2410.DetectionSample{
		Presence:             true,
		StationaryDistanceCm: 38,
		StationaryEnergy:     100,
		MovingDistanceCm:     30,
		MovingEnergy:         100,
	}, got)
}

func TestGatesAndSensitivityEndpoints(t *testing.T) {
	_, state, _, ts := newTestServer(t)

	var d ld2410.Decoder
	state.ApplyAll(d.Decode("GATES_MOV:1,2,3,4,5,6,7,8,9 | GATES_STAT:9,8,7,6,5,4,3,2,1"))
	state.ApplyAll(d.Decode("SENSITIVITY_MOTION:0:36"))

	var gates ld2410.GateEnergyFrame
	getJSON(t, ts.URL+"/api/gates", &gates)
	assert.Equal(t, [ld2410.NumGates]int{1, 2, 3, 4, 5, 6, 7, 8, 9}, gates.Moving)

	var profile ld2410.SensitivityProfile
	getJSON(t, ts.URL+"/api/sensitivity", &profile)
	assert.Equal(t, 36, profile.Moving[0])
	assert.False(t, profile.MovingComplete)
}

func TestConfigEndpoint(t *testing.T) {
	_, state, _, ts := newTestServer(t)

	var d ld2410.Decoder
	state.ApplyAll(d.Decode("Max gate: 8"))
	state.ApplyAll(d.Decode("Version: 2.04.23022511"))

	var cfg ld2410.SensorConfig
	getJSON(t, ts.URL+"/api/config", &cfg)
	require.NotNil(t, cfg.MaxGate)
	require.NotNil(t, cfg.FirmwareVersion)
	assert.Equal(t, 8, *cfg.MaxGate)
	assert.Equal(t, "2.04.23022511", *cfg.FirmwareVersion)
	assert.Nil(t, cfg.IdleTimeSeconds)
}

func TestHistoryAndLogEndpoints(t *testing.T) {
	s, _, _, ts := newTestServer(t)

	s.history.Record(ld2410.DetectionSample{StationaryDistanceCm: 38, MovingDistanceCm: 30})
	s.lines.Observe("Presence: YES | Stationary: 38cm E:100")

	var hist HistorySnapshot
	getJSON(t, ts.URL+"/api/history", &hist)
	require.Len(t, hist.Stationary, 1)
	assert.Equal(t, 38, hist.Stationary[0].Value)
	require.Len(t, hist.Photo, 1)
	assert.Equal(t, 0, hist.Photo[0].Value)

	var logBody struct {
		Lines []string `json:"lines"`
	}
	getJSON(t, ts.URL+"/api/log", &logBody)
	assert.Equal(t, []string{"Presence: YES | Stationary: 38cm E:100"}, logBody.Lines)
}

func TestPolarGeometryEndpoint(t *testing.T) {
	_, state, _, ts := newTestServer(t)

	var d ld2410.Decoder
	state.ApplyAll(d.Decode("Presence: YES | Stationary: 150cm E:80"))

	var got struct {
		Frame struct {
			Rings  []json.RawMessage `json:"rings"`
			Spokes []json.RawMessage `json:"spokes"`
		} `json:"frame"`
		Targets struct {
			Stationary *json.RawMessage `json:"stationary"`
			Moving     *json.RawMessage `json:"moving"`
		} `json:"targets"`
	}
	getJSON(t, ts.URL+"/api/polar?width=400&height=300", &got)
	assert.Len(t, got.Frame.Rings, 4)
	assert.Len(t, got.Frame.Spokes, 5)
	assert.NotNil(t, got.Targets.Stationary)
	assert.Nil(t, got.Targets.Moving)
}

func TestPolarGeometryRejectsBadViewport(t *testing.T) {
	_, _, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/polar?width=1&height=1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChartPagesRender(t *testing.T) {
	_, state, _, ts := newTestServer(t)

	var d ld2410.Decoder
	state.ApplyAll(d.Decode("GATES_MOV:1,2,3,4,5,6,7,8,9 | GATES_STAT:9,8,7,6,5,4,3,2,1"))
	state.ApplyAll(d.Decode("Presence: YES | Moving: 30cm E:80"))

	for _, path := range []string{
		"/charts/",
		"/charts/gates",
		"/charts/motion",
		"/charts/stationary",
		"/charts/history",
		"/charts/polar",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err, "GET %s", path)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err, "GET %s", path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html", "GET %s", path)
		assert.Contains(t, strings.ToLower(string(body)), "<html", "GET %s", path)
	}
}

func TestEventsStreamCoalescesTags(t *testing.T) {
	_, _, hub, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/events")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// let the handler subscribe before publishing
	time.Sleep(50 * time.Millisecond)
	hub.Publish(ld2410.ChangedDetection)
	hub.Publish(ld2410.ChangedGates)

	scanner := bufio.NewScanner(resp.Body)
	deadline := time.After(5 * time.Second)
	payload := make(chan string, 1)
	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				payload <- strings.TrimPrefix(line, "data: ")
				return
			}
		}
	}()

	select {
	case data := <-payload:
		var event struct {
			Tags []string `json:"tags"`
		}
		require.NoError(t, json.Unmarshal([]byte(data), &event))
		assert.Contains(t, event.Tags, "detection")
		// the second publish may or may not have merged into the first event
		// depending on timing; either way no tag is lost overall
	case <-deadline:
		t.Fatal("timeout waiting for SSE event")
	}
}
