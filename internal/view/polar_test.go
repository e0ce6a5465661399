package view

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRadiusClampsToMaxRange(t *testing.T) {
	v := NewPolarView(400, 300)

	assert.Equal(t, v.Radius(600), v.Radius(900), "past-rim distances project onto the rim")
	assert.Equal(t, v.Radius(0), v.Radius(-50), "negative distances project onto the origin")
	assert.Zero(t, v.Radius(0))
}

func TestRadiusScale(t *testing.T) {
	v := NewPolarView(400, 300)

	// working span is the viewport height minus both margins
	span := 300.0 - 60.0
	assert.InDelta(t, span, v.Radius(600), 1e-9)
	assert.InDelta(t, span/2, v.Radius(300), 1e-9)
}

func TestOrigin(t *testing.T) {
	v := NewPolarView(400, 300)
	assert.Equal(t, Point{X: 200, Y: 270}, v.Origin())
}

func TestDegenerateViewportDoesNotOverflow(t *testing.T) {
	v := NewPolarView(10, 20)
	assert.Zero(t, v.Radius(600))
	assert.NotPanics(t, func() { v.Frame() })
}

func TestTargetArcSpansWedge(t *testing.T) {
	v := NewPolarView(400, 300)
	arc := v.TargetArc(150)

	assert.Equal(t, 30.0, arc.StartDeg)
	assert.Equal(t, 120.0, arc.SweepDeg)
	assert.Equal(t, v.Origin(), arc.Center)
	assert.Equal(t, 150, arc.DistanceCm)
}

func TestTargetArcsFollowPresence(t *testing.T) {
	v := NewPolarView(400, 300)

	arcs := v.TargetArcs(true, 38, 30)
	assert.NotNil(t, arcs.Stationary)
	assert.NotNil(t, arcs.Moving)

	arcs = v.TargetArcs(false, 38, 30)
	assert.Nil(t, arcs.Stationary, "no arcs without presence")
	assert.Nil(t, arcs.Moving)

	arcs = v.TargetArcs(true, 38, 0)
	assert.NotNil(t, arcs.Stationary)
	assert.Nil(t, arcs.Moving, "zero distance means no target")
}

func TestScreenPointForward(t *testing.T) {
	v := NewPolarView(400, 300)

	// straight ahead: directly above the origin
	p := v.ScreenPoint(300, 0)
	assert.InDelta(t, 200, p.X, 1e-9)
	assert.InDelta(t, 270-v.Radius(300), p.Y, 1e-9)
}

func TestScreenPointClampsBearing(t *testing.T) {
	v := NewPolarView(400, 300)
	assert.Equal(t, v.ScreenPoint(300, 60), v.ScreenPoint(300, 90))
	assert.Equal(t, v.ScreenPoint(300, -60), v.ScreenPoint(300, -120))
}

func TestScreenPointRightOfCentreForPositiveBearing(t *testing.T) {
	v := NewPolarView(400, 300)
	right := v.ScreenPoint(300, 45)
	left := v.ScreenPoint(300, -45)

	assert.Greater(t, right.X, 200.0)
	assert.Less(t, left.X, 200.0)
	assert.InDelta(t, right.Y, left.Y, 1e-9, "symmetric bearings share a height")
}

func TestRangeRings(t *testing.T) {
	v := NewPolarView(400, 300)
	rings := v.RangeRings()

	assert.Len(t, rings, 4) // 150, 300, 450, 600
	for i, ring := range rings {
		assert.Equal(t, (i+1)*RingIntervalCm, ring.DistanceCm)
	}
}

func TestSpokes(t *testing.T) {
	v := NewPolarView(400, 300)
	spokes := v.Spokes()

	var angles []float64
	for _, s := range spokes {
		angles = append(angles, s.AngleDeg)
		assert.Equal(t, v.Origin(), s.From)
		// every spoke reaches the rim
		dx := s.To.X - s.From.X
		dy := s.To.Y - s.From.Y
		assert.InDelta(t, v.Radius(v.MaxRangeCm), math.Hypot(dx, dy), 1e-9)
	}
	assert.Equal(t, []float64{-60, -30, 0, 30, 60}, angles)
}
