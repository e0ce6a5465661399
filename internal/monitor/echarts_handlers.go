package monitor

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/presence.report/internal/ld2410"
	"github.com/banshee-data/presence.report/internal/view"
)

const echartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

const chartTheme = "dark"

// chartRenderer is the slice of the go-echarts chart API the handlers need.
type chartRenderer interface {
	Render(w io.Writer) error
}

func renderChart(w http.ResponseWriter, renderer chartRenderer) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to render chart: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleGateBars renders the paired moving/stationary energy bars, one pair
// per gate, on the fixed 0-100 scale.
func (s *Server) handleGateBars(w http.ResponseWriter, r *http.Request) {
	frame := s.state.Gates()
	pairs := view.BarPairs(frame.Moving, frame.Stationary)

	labels := make([]string, 0, len(pairs))
	moving := make([]opts.BarData, 0, len(pairs))
	stationary := make([]opts.BarData, 0, len(pairs))
	for _, p := range pairs {
		labels = append(labels, strconv.Itoa(p.DistanceCm)+"cm")
		moving = append(moving, opts.BarData{Value: p.Moving})
		stationary = append(stationary, opts.BarData{Value: p.Stationary})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Gate Energy", Theme: chartTheme, AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Gate Energy", Subtitle: "live per-gate signal strength"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: view.ValueScaleMax, Name: "Energy"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance"}),
	)
	bar.SetXAxis(labels).
		AddSeries("moving", moving).
		AddSeries("stationary", stationary)

	renderChart(w, bar)
}

// gateProfileChart renders one target class's live energy (solid) against its
// configured sensitivity baseline (dashed) so signal and threshold can never
// be confused.
func (s *Server) gateProfileChart(w http.ResponseWriter, class ld2410.TargetClass) {
	gates := s.state.Gates()
	profile := s.state.Sensitivity()

	var energy, sensitivity view.Curve
	var title string
	switch class {
	case ld2410.Moving:
		energy = view.EnergyCurve(gates.Moving)
		sensitivity = view.SensitivityCurve(profile.Moving)
		title = "Moving Target Energy vs Distance"
	default:
		energy = view.EnergyCurve(gates.Stationary)
		sensitivity = view.SensitivityCurve(profile.Stationary)
		title = "Stationary Target Energy vs Distance"
	}

	labels := make([]string, 0, len(energy.Points))
	energyData := make([]opts.LineData, 0, len(energy.Points))
	sensitivityData := make([]opts.LineData, 0, len(sensitivity.Points))
	for i := range energy.Points {
		labels = append(labels, strconv.FormatFloat(energy.Points[i].DistanceCm, 'f', -1, 64))
		energyData = append(energyData, opts.LineData{Value: energy.Points[i].Value})
		sensitivityData = append(sensitivityData, opts.LineData{Value: sensitivity.Points[i].Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Theme: chartTheme, AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "solid: live energy / dashed: sensitivity baseline"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: view.ValueScaleMax}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Distance (cm)"}),
	)
	line.SetXAxis(labels).
		AddSeries("energy", energyData,
			charts.WithLineStyleOpts(opts.LineStyle{Width: 3, Type: string(energy.Style)})).
		AddSeries("sensitivity", sensitivityData,
			charts.WithLineStyleOpts(opts.LineStyle{Width: 2, Type: string(sensitivity.Style)}))

	renderChart(w, line)
}

func (s *Server) handleMotionProfile(w http.ResponseWriter, r *http.Request) {
	s.gateProfileChart(w, ld2410.Moving)
}

func (s *Server) handleStationaryProfile(w http.ResponseWriter, r *http.Request) {
	s.gateProfileChart(w, ld2410.Stationary)
}

// handleHistoryChart renders the rolling detection-range series.
func (s *Server) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	snapshot := s.history.Snapshot()

	labels := make([]string, 0, len(snapshot.Stationary))
	stationary := make([]opts.LineData, 0, len(snapshot.Stationary))
	moving := make([]opts.LineData, 0, len(snapshot.Moving))
	for i := range snapshot.Stationary {
		labels = append(labels, strconv.FormatFloat(snapshot.Stationary[i].Elapsed, 'f', 1, 64))
		stationary = append(stationary, opts.LineData{Value: snapshot.Stationary[i].Value})
		moving = append(moving, opts.LineData{Value: snapshot.Moving[i].Value})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Detection Range", Theme: chartTheme, AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Detection Range", Subtitle: "last 120 seconds"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Distance (cm)"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Elapsed (s)"}),
	)
	line.SetXAxis(labels).
		AddSeries("stationary", stationary).
		AddSeries("moving", moving)

	renderChart(w, line)
}

// handlePolarChart renders the detection arc view as an XY scatter: rings and
// spokes sampled through the polar projector, plus the current target arcs.
func (s *Server) handlePolarChart(w http.ResponseWriter, r *http.Request) {
	const size = 600
	v := view.NewPolarView(size, size)
	sample := s.state.Detection()

	var backdrop []opts.ScatterData
	for _, ring := range v.RangeRings() {
		for bearing := -view.WedgeHalfAngleDeg; bearing <= view.WedgeHalfAngleDeg; bearing += 5 {
			p := v.ScreenPoint(ring.DistanceCm, float64(bearing))
			backdrop = append(backdrop, opts.ScatterData{Value: []interface{}{p.X, float64(size) - p.Y}})
		}
	}
	for _, spoke := range v.Spokes() {
		for distance := 0; distance <= v.MaxRangeCm; distance += 50 {
			p := v.ScreenPoint(distance, spoke.AngleDeg)
			backdrop = append(backdrop, opts.ScatterData{Value: []interface{}{p.X, float64(size) - p.Y}})
		}
	}

	targetPoints := func(distanceCm int) []opts.ScatterData {
		var points []opts.ScatterData
		for bearing := -view.WedgeHalfAngleDeg; bearing <= view.WedgeHalfAngleDeg; bearing += 2 {
			p := v.ScreenPoint(distanceCm, float64(bearing))
			points = append(points, opts.ScatterData{Value: []interface{}{p.X, float64(size) - p.Y}})
		}
		return points
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Detection Arc", Theme: chartTheme, Width: "700px", Height: "700px", AssetsHost: echartsAssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: "Detection Arc", Subtitle: statusLine(sample)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: size}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: size}),
	)
	scatter.AddSeries("range", backdrop, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))

	arcs := v.TargetArcs(sample.Presence, sample.StationaryDistanceCm, sample.MovingDistanceCm)
	if arcs.Stationary != nil {
		scatter.AddSeries("stationary", targetPoints(arcs.Stationary.DistanceCm),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}
	if arcs.Moving != nil {
		scatter.AddSeries("moving", targetPoints(arcs.Moving.DistanceCm),
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	}

	renderChart(w, scatter)
}

func statusLine(sample ld2410.DetectionSample) string {
	if !sample.Presence {
		return "NO TARGET"
	}
	return fmt.Sprintf("DETECTED stationary=%dcm moving=%dcm",
		sample.StationaryDistanceCm, sample.MovingDistanceCm)
}

// handleDashboard renders a plain page iframing the live charts.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/charts/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Presence Radar Charts</title>
<style>
  body { background: #1a1a24; color: #e0e0e0; font-family: sans-serif; margin: 1rem; }
  iframe { border: 1px solid #3c3c50; background: #1e1e28; width: 48%; height: 420px; }
</style>
</head>
<body>
<h1>Presence Radar Charts</h1>
<iframe src="/charts/polar"></iframe>
<iframe src="/charts/gates"></iframe>
<iframe src="/charts/motion"></iframe>
<iframe src="/charts/stationary"></iframe>
<iframe src="/charts/history"></iframe>
</body>
</html>`)
}
