package ld2410

import "sync"

// Changes is a bitmask naming which visual surfaces an applied event made
// stale. Downstream consumers recompute only the affected visuals.
type Changes uint8

const (
	ChangedDetection Changes = 1 << iota
	ChangedGates
	ChangedSensitivity
	ChangedConfig

	// SensitivityComplete is raised, together with ChangedSensitivity, exactly
	// when the gate-8 value of a sensitivity profile lands.
	SensitivityComplete
)

// Tags returns the human-readable names of the set change bits, in a fixed
// order. Used by the SSE event feed and in log output.
func (c Changes) Tags() []string {
	var tags []string
	for _, t := range []struct {
		bit  Changes
		name string
	}{
		{ChangedDetection, "detection"},
		{ChangedGates, "gates"},
		{ChangedSensitivity, "sensitivity"},
		{ChangedConfig, "config"},
		{SensitivityComplete, "sensitivity_complete"},
	} {
		if c&t.bit != 0 {
			tags = append(tags, t.name)
		}
	}
	return tags
}

// DetectionSample is the sensor's composite detection report. It is replaced
// wholesale on every detection line.
type DetectionSample struct {
	Presence             bool `json:"presence"`
	StationaryDistanceCm int  `json:"stationary_distance_cm"`
	StationaryEnergy     int  `json:"stationary_energy"`
	MovingDistanceCm     int  `json:"moving_distance_cm"`
	MovingEnergy         int  `json:"moving_energy"`
}

// GateEnergyFrame holds the live per-gate signal strength for both target
// classes. Gate i corresponds to physical distance i*GateWidthCm.
type GateEnergyFrame struct {
	Moving     [NumGates]int `json:"moving"`
	Stationary [NumGates]int `json:"stationary"`
}

// SensitivityProfile holds the configured per-gate detection thresholds,
// built incrementally one gate at a time. The completion flags turn true when
// gate 8 of the respective side lands and stay true until a new legacy
// capture begins for that side.
type SensitivityProfile struct {
	Moving             [NumGates]int `json:"moving"`
	Stationary         [NumGates]int `json:"stationary"`
	MovingComplete     bool          `json:"moving_complete"`
	StationaryComplete bool          `json:"stationary_complete"`
}

// SensorConfig is the sparse, monotonically accreting sensor configuration.
// Fields are set independently as config lines arrive and are never unset,
// only overwritten.
type SensorConfig struct {
	MaxGate           *int    `json:"max_gate,omitempty"`
	MaxMovingGate     *int    `json:"max_moving_gate,omitempty"`
	MaxStationaryGate *int    `json:"max_stationary_gate,omitempty"`
	IdleTimeSeconds   *int    `json:"idle_time_seconds,omitempty"`
	FirmwareVersion   *string `json:"firmware_version,omitempty"`
}

// clone returns a deep copy so snapshot holders cannot alias state-owned
// pointees.
func (c SensorConfig) clone() SensorConfig {
	out := SensorConfig{}
	copyInt := func(p *int) *int {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	out.MaxGate = copyInt(c.MaxGate)
	out.MaxMovingGate = copyInt(c.MaxMovingGate)
	out.MaxStationaryGate = copyInt(c.MaxStationaryGate)
	out.IdleTimeSeconds = copyInt(c.IdleTimeSeconds)
	if c.FirmwareVersion != nil {
		v := *c.FirmwareVersion
		out.FirmwareVersion = &v
	}
	return out
}

// State is the authoritative current sensor model. It holds only current
// values, never history; history lives in the time-series buffers fed by the
// caller on detection changes.
//
// State is safe for concurrent use: the decode pump applies events while HTTP
// handlers read snapshots.
type State struct {
	mu          sync.Mutex
	detection   DetectionSample
	gates       GateEnergyFrame
	sensitivity SensitivityProfile
	config      SensorConfig
}

// NewState returns an empty sensor model.
func NewState() *State {
	return &State{}
}

// Apply mutates exactly the sub-state implied by the event and returns the
// change tag for the surface it touched. Events produced from the same line
// are expected to be applied back to back by a single goroutine so the line's
// effects are atomic with respect to snapshot readers taking one surface at a
// time.
func (s *State) Apply(ev Event) Changes {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e := ev.(type) {
	case DetectionUpdate:
		s.detection = e.Sample
		return ChangedDetection

	case GateEnergyUpdate:
		if e.Class == Moving {
			s.gates.Moving = e.Values
		} else {
			s.gates.Stationary = e.Values
		}
		return ChangedGates

	case SensitivityUpdate:
		changes := ChangedSensitivity
		if e.Class == Moving {
			s.sensitivity.Moving[e.Gate] = e.Value
			if e.Gate == NumGates-1 {
				s.sensitivity.MovingComplete = true
				changes |= SensitivityComplete
			}
		} else {
			s.sensitivity.Stationary[e.Gate] = e.Value
			if e.Gate == NumGates-1 {
				s.sensitivity.StationaryComplete = true
				changes |= SensitivityComplete
			}
		}
		return changes

	case SensitivityCapture:
		if e.Class == Moving {
			s.sensitivity.MovingComplete = false
		} else {
			s.sensitivity.StationaryComplete = false
		}
		return ChangedSensitivity

	case ConfigUpdate:
		switch e.Field {
		case FieldMaxGate:
			v := e.Number
			s.config.MaxGate = &v
		case FieldMaxMovingGate:
			v := e.Number
			s.config.MaxMovingGate = &v
		case FieldMaxStationaryGate:
			v := e.Number
			s.config.MaxStationaryGate = &v
		case FieldIdleTime:
			v := e.Number
			s.config.IdleTimeSeconds = &v
		case FieldFirmware:
			v := e.Text
			s.config.FirmwareVersion = &v
		default:
			return 0
		}
		return ChangedConfig
	}
	return 0
}

// ApplyAll applies every event from one decoded line and returns the merged
// change mask.
func (s *State) ApplyAll(events []Event) Changes {
	var changes Changes
	for _, ev := range events {
		changes |= s.Apply(ev)
	}
	return changes
}

// Detection returns the current detection sample.
func (s *State) Detection() DetectionSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detection
}

// Gates returns the current gate energy frame.
func (s *State) Gates() GateEnergyFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gates
}

// Sensitivity returns the current sensitivity profile.
func (s *State) Sensitivity() SensitivityProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sensitivity
}

// Config returns a deep copy of the accrued sensor configuration.
func (s *State) Config() SensorConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config.clone()
}
