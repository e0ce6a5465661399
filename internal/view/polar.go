// Package view computes renderable geometry from decoded sensor values. The
// projectors are pure: they read snapshots and never touch sensor state, so a
// render sink can call them at its own cadence.
package view

import "math"

const (
	// DefaultMaxRangeCm is the outermost ring of the arc view (gate 8).
	DefaultMaxRangeCm = 600

	// RingIntervalCm is the spacing of the reference range rings.
	RingIntervalCm = 150

	// WedgeHalfAngleDeg bounds the angular sensing wedge about forward.
	WedgeHalfAngleDeg = 60

	// originMargin keeps the sensor origin clear of the bottom edge, and
	// originMargin*2 is the total vertical inset the range scale works within.
	originMargin = 30
)

// Point is a screen-space coordinate. The origin is the top-left corner with
// y growing downward, matching both canvas and painter conventions.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arc is a circular arc centred on the sensor origin. Angles follow the
// painter convention: degrees counterclockwise from the positive x axis, so
// the ±60° wedge about forward spans StartDeg 30 through 150.
type Arc struct {
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	StartDeg   float64 `json:"start_deg"`
	SweepDeg   float64 `json:"sweep_deg"`
	DistanceCm int     `json:"distance_cm"`
}

// Spoke is one angular reference line from the origin to the wedge rim.
type Spoke struct {
	From     Point   `json:"from"`
	To       Point   `json:"to"`
	AngleDeg float64 `json:"angle_deg"`
}

// Frame is the static backdrop of the arc view: range rings, angular spokes,
// and the sensor dot.
type Frame struct {
	Rings  []Arc   `json:"rings"`
	Spokes []Spoke `json:"spokes"`
	Sensor Point   `json:"sensor"`
}

// TargetArcs holds the projected arcs for the current detection sample. A nil
// arc means that target is not drawn (no presence, or zero distance).
type TargetArcs struct {
	Stationary *Arc `json:"stationary,omitempty"`
	Moving     *Arc `json:"moving,omitempty"`
}

// PolarView projects sensor distances into a viewport. The sensor origin sits
// at the bottom centre and distance grows upward within the ±60° wedge.
type PolarView struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	MaxRangeCm int `json:"max_range_cm"`
}

// NewPolarView creates a projector for the given viewport using the default
// sensor range.
func NewPolarView(width, height int) PolarView {
	return PolarView{Width: width, Height: height, MaxRangeCm: DefaultMaxRangeCm}
}

// Origin returns the sensor position: bottom centre, inset by the margin.
func (v PolarView) Origin() Point {
	return Point{X: float64(v.Width) / 2, Y: float64(v.Height - originMargin)}
}

// scale is pixels per centimetre. Degenerate viewports collapse to zero so
// projection stays total.
func (v PolarView) scale() float64 {
	span := v.Height - 2*originMargin
	if span <= 0 || v.MaxRangeCm <= 0 {
		return 0
	}
	return float64(span) / float64(v.MaxRangeCm)
}

// Radius maps a distance to a pixel radius. Distances are clamped into
// [0, MaxRangeCm], so out-of-range targets sit on the rim instead of being
// drawn off-canvas.
func (v PolarView) Radius(distanceCm int) float64 {
	if distanceCm < 0 {
		distanceCm = 0
	}
	if distanceCm > v.MaxRangeCm {
		distanceCm = v.MaxRangeCm
	}
	return float64(distanceCm) * v.scale()
}

// TargetArc projects one target distance to its detection arc across the full
// sensing wedge.
func (v PolarView) TargetArc(distanceCm int) Arc {
	return Arc{
		Center:     v.Origin(),
		Radius:     v.Radius(distanceCm),
		StartDeg:   90 - WedgeHalfAngleDeg,
		SweepDeg:   2 * WedgeHalfAngleDeg,
		DistanceCm: distanceCm,
	}
}

// TargetArcs projects the current detection sample. Targets are drawn only
// while presence holds and the distance is non-zero, matching the sensor's
// report semantics (zero distance means "no such target").
func (v PolarView) TargetArcs(presence bool, stationaryCm, movingCm int) TargetArcs {
	var arcs TargetArcs
	if presence && stationaryCm > 0 {
		a := v.TargetArc(stationaryCm)
		arcs.Stationary = &a
	}
	if presence && movingCm > 0 {
		a := v.TargetArc(movingCm)
		arcs.Moving = &a
	}
	return arcs
}

// ScreenPoint places a (distance, bearing) pair on screen. Bearing is degrees
// off forward, positive to the right, clamped into the sensing wedge.
func (v PolarView) ScreenPoint(distanceCm int, bearingDeg float64) Point {
	if bearingDeg < -WedgeHalfAngleDeg {
		bearingDeg = -WedgeHalfAngleDeg
	}
	if bearingDeg > WedgeHalfAngleDeg {
		bearingDeg = WedgeHalfAngleDeg
	}
	origin := v.Origin()
	r := v.Radius(distanceCm)
	rad := bearingDeg * math.Pi / 180
	return Point{
		X: origin.X + r*math.Sin(rad),
		Y: origin.Y - r*math.Cos(rad),
	}
}

// RangeRings returns the reference arcs at every RingIntervalCm out to the
// maximum range.
func (v PolarView) RangeRings() []Arc {
	var rings []Arc
	for distance := RingIntervalCm; distance <= v.MaxRangeCm; distance += RingIntervalCm {
		rings = append(rings, v.TargetArc(distance))
	}
	return rings
}

// Spokes returns the angular reference lines at 30° steps across the wedge.
func (v PolarView) Spokes() []Spoke {
	origin := v.Origin()
	var spokes []Spoke
	for angle := -WedgeHalfAngleDeg; angle <= WedgeHalfAngleDeg; angle += 30 {
		spokes = append(spokes, Spoke{
			From:     origin,
			To:       v.ScreenPoint(v.MaxRangeCm, float64(angle)),
			AngleDeg: float64(angle),
		})
	}
	return spokes
}

// Frame returns the full static backdrop for the viewport.
func (v PolarView) Frame() Frame {
	return Frame{
		Rings:  v.RangeRings(),
		Spokes: v.Spokes(),
		Sensor: v.Origin(),
	}
}
