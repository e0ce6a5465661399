package monitor

import (
	"sync"
	"time"

	"github.com/banshee-data/presence.report/internal/history"
	"github.com/banshee-data/presence.report/internal/ld2410"
)

// History bundles the three rolling time-series buffers behind the distance
// plots. All three are appended together on every detection update so their
// indices stay time-aligned: stationary distance, moving distance, and the
// photosensitive channel reserved for a sensor field the bridge does not
// report yet (always zero for now).
type History struct {
	mu     sync.Mutex
	origin time.Time
	now    func() time.Time

	stationary *history.Buffer[int]
	moving     *history.Buffer[int]
	photo      *history.Buffer[int]
}

// HistorySnapshot is the JSON form of the three aligned series.
type HistorySnapshot struct {
	Stationary []history.Sample[int] `json:"stationary_distance_cm"`
	Moving     []history.Sample[int] `json:"moving_distance_cm"`
	Photo      []history.Sample[int] `json:"photosensitive"`
}

// NewHistory creates the three buffers at the default ~120 s capacity with
// the time origin set to now.
func NewHistory() *History {
	h := &History{
		now:        time.Now,
		stationary: history.New[int](history.DefaultCapacity),
		moving:     history.New[int](history.DefaultCapacity),
		photo:      history.New[int](history.DefaultCapacity),
	}
	h.origin = h.now()
	return h
}

// Record appends one aligned sample triple from a detection update.
func (h *History) Record(sample ld2410.DetectionSample) {
	h.mu.Lock()
	elapsed := h.now().Sub(h.origin).Seconds()
	h.mu.Unlock()

	h.stationary.Append(elapsed, sample.StationaryDistanceCm)
	h.moving.Append(elapsed, sample.MovingDistanceCm)
	h.photo.Append(elapsed, 0)
}

// ResetOrigin restarts the elapsed-time origin and discards buffered samples.
// Called when the transport reconnects; the sensor model itself is not reset.
func (h *History) ResetOrigin() {
	h.mu.Lock()
	h.origin = h.now()
	h.mu.Unlock()

	h.stationary.Reset()
	h.moving.Reset()
	h.photo.Reset()
}

// Snapshot returns the three series oldest-first.
func (h *History) Snapshot() HistorySnapshot {
	return HistorySnapshot{
		Stationary: h.stationary.Samples(),
		Moving:     h.moving.Samples(),
		Photo:      h.photo.Samples(),
	}
}
