// Command replay-plot replays a captured telemetry log through the decoder
// and renders PNG plots of the run: target distance over time, the final
// per-gate energy frame, and the reported sensitivity profile. Useful for
// tuning gate sensitivities from a capture without a live sensor.
package main

import (
	"bufio"
	"flag"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/presence.report/internal/ld2410"
)

var (
	input     = flag.String("input", "fixtures.txt", "Captured telemetry log to replay")
	outputDir = flag.String("out", "plots", "Directory for generated PNG files")
	cadence   = flag.Float64("cadence", 0.5, "Seconds between detection lines in the capture")
)

// replay runs every line through the decoder and collects the detection
// series plus the final sensor model.
type replay struct {
	state   *ld2410.State
	decoder ld2410.Decoder

	elapsed    []float64
	stationary []float64
	moving     []float64
}

func (r *replay) handleLine(line string) {
	events := r.decoder.Decode(line)
	r.state.ApplyAll(events)
	for _, ev := range events {
		if du, ok := ev.(ld2410.DetectionUpdate); ok {
			r.elapsed = append(r.elapsed, float64(len(r.elapsed))*(*cadence))
			r.stationary = append(r.stationary, float64(du.Sample.StationaryDistanceCm))
			r.moving = append(r.moving, float64(du.Sample.MovingDistanceCm))
		}
	}
}

func main() {
	flag.Parse()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open capture: %v", err)
	}
	defer f.Close()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	r := &replay{state: ld2410.NewState()}
	scanner := bufio.NewScanner(f)
	lineCount := 0
	for scanner.Scan() {
		r.handleLine(scanner.Text())
		lineCount++
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("failed to read capture: %v", err)
	}

	if err := plotDistanceHistory(r, filepath.Join(*outputDir, "distance_history.png")); err != nil {
		log.Fatalf("distance history plot: %v", err)
	}
	if err := plotGateProfile(
		"Gate Energy (last frame)", "Energy",
		r.state.Gates().Moving, r.state.Gates().Stationary,
		filepath.Join(*outputDir, "gate_energy.png"),
	); err != nil {
		log.Fatalf("gate energy plot: %v", err)
	}
	if err := plotGateProfile(
		"Gate Sensitivity", "Threshold",
		r.state.Sensitivity().Moving, r.state.Sensitivity().Stationary,
		filepath.Join(*outputDir, "gate_sensitivity.png"),
	); err != nil {
		log.Fatalf("gate sensitivity plot: %v", err)
	}

	log.Printf("replayed %d lines (%d detection samples) into %s", lineCount, len(r.elapsed), *outputDir)
}

var (
	movingColor     = color.RGBA{R: 230, G: 140, B: 40, A: 255}
	stationaryColor = color.RGBA{R: 70, G: 180, B: 110, A: 255}
)

// plotDistanceHistory renders the stationary and moving distance series over
// the replayed run.
func plotDistanceHistory(r *replay, path string) error {
	p := plot.New()
	p.Title.Text = "Target Distance"
	p.X.Label.Text = "Elapsed (s)"
	p.Y.Label.Text = "Distance (cm)"
	p.Y.Min = 0
	p.Y.Max = ld2410.MaxRangeCm

	series := []struct {
		name   string
		values []float64
		color  color.Color
	}{
		{"stationary", r.stationary, stationaryColor},
		{"moving", r.moving, movingColor},
	}
	for _, s := range series {
		pts := make(plotter.XYs, 0, len(s.values))
		for i, v := range s.values {
			// zero distance means no target in that class for the sample
			if v > 0 {
				pts = append(pts, plotter.XY{X: r.elapsed[i], Y: v})
			}
		}
		if len(pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(10*vg.Inch, 4*vg.Inch, path)
}

// plotGateProfile renders paired per-gate values, one line per target class,
// with gate centres on the distance axis.
func plotGateProfile(title, yLabel string, moving, stationary [ld2410.NumGates]int, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance (cm)"
	p.Y.Label.Text = yLabel
	p.Y.Min = 0
	p.Y.Max = 100

	gatePoints := func(values [ld2410.NumGates]int) plotter.XYs {
		pts := make(plotter.XYs, ld2410.NumGates)
		for i, v := range values {
			pts[i] = plotter.XY{X: float64(i * ld2410.GateWidthCm), Y: float64(v)}
		}
		return pts
	}

	for _, s := range []struct {
		name   string
		values [ld2410.NumGates]int
		color  color.Color
	}{
		{"moving", moving, movingColor},
		{"stationary", stationary, stationaryColor},
	} {
		line, err := plotter.NewLine(gatePoints(s.values))
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
