package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/presence.report/internal/ld2410"
)

// fakeClock steps a half second per reading, matching the sensor cadence.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(500 * time.Millisecond)
	return c.t
}

func newTestHistory() (*History, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	h := NewHistory()
	h.now = clock.now
	h.origin = clock.t
	return h, clock
}

func TestRecordAppendsAlignedTriples(t *testing.T) {
	h, _ := newTestHistory()

	h.Record(ld2410.DetectionSample{StationaryDistanceCm: 38, MovingDistanceCm: 30})
	h.Record(ld2410.DetectionSample{StationaryDistanceCm: 40, MovingDistanceCm: 0})

	snap := h.Snapshot()
	require.Len(t, snap.Stationary, 2)
	require.Len(t, snap.Moving, 2)
	require.Len(t, snap.Photo, 2)

	assert.Equal(t, 38, snap.Stationary[0].Value)
	assert.Equal(t, 30, snap.Moving[0].Value)
	assert.Equal(t, 0, snap.Photo[0].Value, "reserved channel always records zero")
	assert.Equal(t, 40, snap.Stationary[1].Value)

	// all three series carry the same timestamps
	assert.Equal(t, snap.Stationary[0].Elapsed, snap.Moving[0].Elapsed)
	assert.Equal(t, snap.Stationary[0].Elapsed, snap.Photo[0].Elapsed)
}

func TestElapsedIsNonDecreasing(t *testing.T) {
	h, _ := newTestHistory()
	for i := 0; i < 10; i++ {
		h.Record(ld2410.DetectionSample{})
	}

	snap := h.Snapshot()
	for i := 1; i < len(snap.Stationary); i++ {
		assert.Greater(t, snap.Stationary[i].Elapsed, snap.Stationary[i-1].Elapsed)
	}
}

func TestResetOriginRestartsElapsed(t *testing.T) {
	h, _ := newTestHistory()

	for i := 0; i < 5; i++ {
		h.Record(ld2410.DetectionSample{})
	}
	require.NotEmpty(t, h.Snapshot().Stationary)

	// reconnect: buffers drop and elapsed restarts near zero
	h.ResetOrigin()
	assert.Empty(t, h.Snapshot().Stationary)

	h.Record(ld2410.DetectionSample{StationaryDistanceCm: 10})
	snap := h.Snapshot()
	require.Len(t, snap.Stationary, 1)
	assert.InDelta(t, 0.5, snap.Stationary[0].Elapsed, 1e-9)
}
