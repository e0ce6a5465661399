package view

import "gonum.org/v1/gonum/interp"

const (
	// GateCount and GateWidthCm mirror the sensor's fixed range-bin layout:
	// gate i is centred on horizontal position i*GateWidthCm.
	GateCount   = 9
	GateWidthCm = 75

	// ValueScaleMax fixes the vertical scale; energy and sensitivity are both
	// reported 0-100.
	ValueScaleMax = 100

	// curveStepCm is the horizontal resolution of the resampled curves.
	curveStepCm = 15
)

// CurveStyle distinguishes live signal from configured threshold so the two
// are never rendered the same way.
type CurveStyle string

const (
	StyleSolid  CurveStyle = "solid"  // live energy
	StyleDashed CurveStyle = "dashed" // sensitivity baseline
)

// BarPair is the paired moving/stationary bar for one gate.
type BarPair struct {
	Gate       int `json:"gate"`
	DistanceCm int `json:"distance_cm"`
	Moving     int `json:"moving"`
	Stationary int `json:"stationary"`
}

// CurvePoint is one vertex of a chart curve in sensor units.
type CurvePoint struct {
	DistanceCm float64 `json:"distance_cm"`
	Value      float64 `json:"value"`
}

// Curve is a polyline on the fixed 0-100 vertical scale.
type Curve struct {
	Style  CurveStyle   `json:"style"`
	Points []CurvePoint `json:"points"`
}

// BarPairs lays out the paired per-gate bars for the bar-chart variant.
func BarPairs(moving, stationary [GateCount]int) []BarPair {
	pairs := make([]BarPair, GateCount)
	for i := 0; i < GateCount; i++ {
		pairs[i] = BarPair{
			Gate:       i,
			DistanceCm: i * GateWidthCm,
			Moving:     moving[i],
			Stationary: stationary[i],
		}
	}
	return pairs
}

// GatePoints returns the raw chart vertices at the nine gate centres.
func GatePoints(values [GateCount]int) []CurvePoint {
	points := make([]CurvePoint, GateCount)
	for i, v := range values {
		points[i] = CurvePoint{DistanceCm: float64(i * GateWidthCm), Value: float64(v)}
	}
	return points
}

// EnergyCurve builds the solid live-energy curve for one target class.
func EnergyCurve(values [GateCount]int) Curve {
	return resampledCurve(values, StyleSolid)
}

// SensitivityCurve builds the dashed threshold-baseline curve.
func SensitivityCurve(values [GateCount]int) Curve {
	return resampledCurve(values, StyleDashed)
}

// resampledCurve fits a spline through the nine gate values and samples it at
// curveStepCm so the chart reads as a continuous profile rather than a
// nine-segment zigzag. The spline passes through every gate centre exactly;
// between gates the interpolant may overshoot, so values are clamped back
// onto the 0-100 scale.
func resampledCurve(values [GateCount]int, style CurveStyle) Curve {
	xs := make([]float64, GateCount)
	ys := make([]float64, GateCount)
	for i, v := range values {
		xs[i] = float64(i * GateWidthCm)
		ys[i] = float64(v)
	}

	var spline interp.AkimaSpline
	if err := spline.Fit(xs, ys); err != nil {
		// cannot happen with the fixed strictly-increasing gate axis; fall
		// back to the raw vertices rather than dropping the curve
		return Curve{Style: style, Points: GatePoints(values)}
	}

	maxX := (GateCount - 1) * GateWidthCm
	points := make([]CurvePoint, 0, maxX/curveStepCm+1)
	for x := 0; x <= maxX; x += curveStepCm {
		y := spline.Predict(float64(x))
		if y < 0 {
			y = 0
		}
		if y > ValueScaleMax {
			y = ValueScaleMax
		}
		points = append(points, CurvePoint{DistanceCm: float64(x), Value: y})
	}
	return Curve{Style: style, Points: points}
}
