package ld2410

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	maxGateRe           = regexp.MustCompile(`Max gate:\s*(\d+)`)
	maxMovingGateRe     = regexp.MustCompile(`Max moving gate:\s*(\d+)`)
	maxStationaryGateRe = regexp.MustCompile(`Max stationary gate:\s*(\d+)`)
	idleTimeRe          = regexp.MustCompile(`Sensor idle time:\s*(\d+)`)

	stationaryClauseRe = regexp.MustCompile(`Stationary:\s*(\d+)cm\s*E:(\d+)`)
	movingClauseRe     = regexp.MustCompile(`Moving:\s*(\d+)cm\s*E:(\d+)`)

	gatesMovRe  = regexp.MustCompile(`GATES_MOV:([\d,]+)`)
	gatesStatRe = regexp.MustCompile(`GATES_STAT:([\d,]+)`)

	legacyGateRe = regexp.MustCompile(`Gate\s+(\d+):\s*(\d+)`)
)

// captureMode tracks which side of the legacy multi-line sensitivity dump is
// currently being captured.
type captureMode int

const (
	captureIdle captureMode = iota
	captureMotionGates
	captureStaticGates
)

// Decoder turns raw telemetry lines into typed events. It is stateful only for
// the legacy sensitivity dump, which spans multiple lines; everything else is
// decoded line-locally.
//
// Decoding never fails: a line that matches no known record kind produces no
// events, and a line may match several kinds at once, in which case all of
// them are emitted. The zero Decoder is ready to use.
type Decoder struct {
	mode      captureMode
	gateCount int
}

// Decode parses one trimmed line and returns the events it carries, possibly
// none. Extractors run in a fixed order and never short-circuit each other.
func (d *Decoder) Decode(line string) []Event {
	var events []Event
	for _, extract := range []func(string) []Event{
		decodeConfig,
		decodeDetection,
		decodeGates,
		decodeSensitivity,
		d.decodeLegacySensitivity,
	} {
		events = append(events, extract(line)...)
	}
	return events
}

// decodeConfig extracts a single sparse configuration field, if present. A
// field whose value does not parse is skipped, leaving the previously accrued
// value in place.
func decodeConfig(line string) []Event {
	numeric := func(field ConfigField, re *regexp.Regexp) []Event {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return nil
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil
		}
		return []Event{ConfigUpdate{Field: field, Number: n}}
	}

	switch {
	case strings.Contains(line, "Max gate:"):
		return numeric(FieldMaxGate, maxGateRe)
	case strings.Contains(line, "Max moving gate:"):
		return numeric(FieldMaxMovingGate, maxMovingGateRe)
	case strings.Contains(line, "Max stationary gate:"):
		return numeric(FieldMaxStationaryGate, maxStationaryGateRe)
	case strings.Contains(line, "Sensor idle time:"):
		return numeric(FieldIdleTime, idleTimeRe)
	case strings.Contains(line, "firmware version:") || strings.Contains(line, "Version:"):
		idx := strings.Index(line, ":")
		version := strings.TrimSpace(line[idx+1:])
		if version == "" {
			return nil
		}
		return []Event{ConfigUpdate{Field: FieldFirmware, Text: version}}
	}
	return nil
}

// decodeDetection extracts the detection snapshot. The line is authoritative:
// a missing stationary or moving clause resets that side to zero rather than
// preserving the previous sample.
func decodeDetection(line string) []Event {
	if !strings.Contains(line, "Presence:") {
		return nil
	}

	sample := DetectionSample{Presence: strings.Contains(line, "YES")}
	if m := stationaryClauseRe.FindStringSubmatch(line); m != nil {
		sample.StationaryDistanceCm, _ = strconv.Atoi(m[1])
		sample.StationaryEnergy, _ = strconv.Atoi(m[2])
	}
	if m := movingClauseRe.FindStringSubmatch(line); m != nil {
		sample.MovingDistanceCm, _ = strconv.Atoi(m[1])
		sample.MovingEnergy, _ = strconv.Atoi(m[2])
	}
	return []Event{DetectionUpdate{Sample: sample}}
}

// decodeGates extracts the engineering-mode gate energy frame. Each side is
// applied atomically: unless a side parses to exactly NumGates integers it
// produces no event, so a malformed side never corrupts or clears state.
func decodeGates(line string) []Event {
	if !strings.Contains(line, "GATES_MOV:") && !strings.Contains(line, "GATES_STAT:") {
		return nil
	}

	var events []Event
	if values, ok := parseGateList(gatesMovRe, line); ok {
		events = append(events, GateEnergyUpdate{Class: Moving, Values: values})
	}
	if values, ok := parseGateList(gatesStatRe, line); ok {
		events = append(events, GateEnergyUpdate{Class: Stationary, Values: values})
	}
	return events
}

func parseGateList(re *regexp.Regexp, line string) ([NumGates]int, bool) {
	var values [NumGates]int
	m := re.FindStringSubmatch(line)
	if m == nil {
		return values, false
	}
	fields := strings.Split(m[1], ",")
	if len(fields) != NumGates {
		return values, false
	}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return values, false
		}
		values[i] = n
	}
	return values, true
}

// decodeSensitivity extracts the current one-line sensitivity format, e.g.
// "SENSITIVITY_MOTION:0:36". It applies regardless of any legacy capture in
// progress. Out-of-range gate indexes are ignored.
func decodeSensitivity(line string) []Event {
	var class TargetClass
	switch {
	case strings.HasPrefix(line, "SENSITIVITY_MOTION:"):
		class = Moving
	case strings.HasPrefix(line, "SENSITIVITY_STATIC:"):
		class = Stationary
	default:
		return nil
	}

	parts := strings.Split(line, ":")
	if len(parts) != 3 {
		return nil
	}
	gate, err := strconv.Atoi(parts[1])
	if err != nil || gate < 0 || gate >= NumGates {
		return nil
	}
	value, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil
	}
	return []Event{SensitivityUpdate{Class: class, Gate: gate, Value: value}}
}

// decodeLegacySensitivity handles the legacy multi-line config dump:
//
//	Motion Sensitivity (per gate):
//	  Gate 0: 36
//	  ...
//	  Gate 8: 90
//
// A header line arms the capture for its side and resets the gate counter,
// pre-empting any capture already in progress. The gate-8 line both applies
// its value and returns the decoder to idle.
func (d *Decoder) decodeLegacySensitivity(line string) []Event {
	switch {
	case strings.Contains(line, "Motion Sensitivity"):
		d.mode = captureMotionGates
		d.gateCount = 0
		return []Event{SensitivityCapture{Class: Moving}}
	case strings.Contains(line, "Stationary Sensitivity"):
		d.mode = captureStaticGates
		d.gateCount = 0
		return []Event{SensitivityCapture{Class: Stationary}}
	}

	if d.mode == captureIdle {
		return nil
	}

	m := legacyGateRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	gate, _ := strconv.Atoi(m[1])
	value, _ := strconv.Atoi(m[2])
	if gate < 0 || gate >= NumGates {
		return nil
	}

	class := Moving
	if d.mode == captureStaticGates {
		class = Stationary
	}
	d.gateCount++
	if gate == NumGates-1 {
		d.mode = captureIdle
		d.gateCount = 0
	}
	return []Event{SensitivityUpdate{Class: class, Gate: gate, Value: value}}
}
