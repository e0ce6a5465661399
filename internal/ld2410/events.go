// Package ld2410 decodes the line-oriented ASCII telemetry emitted by the
// ESP32 bridge in front of an LD2410C presence radar, and maintains the
// current sensor model built from those lines.
//
// The stream interleaves several record kinds on a single serial feed:
// detection snapshots, per-gate engineering energy frames, per-gate
// sensitivity values in two wire formats (a one-line current format and a
// legacy multi-line dump), and sparse configuration fields. Decoding is
// deliberately permissive: a line that matches nothing is dropped without an
// error, and a line may match several record kinds at once.
package ld2410

// NumGates is the number of range bins the sensor reports. Gate i covers the
// band starting at i*GateWidthCm.
const NumGates = 9

// GateWidthCm is the physical width of one range gate.
const GateWidthCm = 75

// MaxRangeCm is the outermost distance the sensor resolves (gate 8).
const MaxRangeCm = 600

// TargetClass distinguishes the two independently tracked target kinds.
type TargetClass int

const (
	Moving TargetClass = iota
	Stationary
)

func (c TargetClass) String() string {
	if c == Moving {
		return "moving"
	}
	return "stationary"
}

// ConfigField names one of the sparse sensor configuration fields.
type ConfigField string

const (
	FieldMaxGate           ConfigField = "max_gate"
	FieldMaxMovingGate     ConfigField = "max_moving_gate"
	FieldMaxStationaryGate ConfigField = "max_stationary_gate"
	FieldIdleTime          ConfigField = "idle_time_seconds"
	FieldFirmware          ConfigField = "firmware_version"
)

// Event is one typed record decoded from a telemetry line. A single line may
// produce several events.
type Event interface {
	isEvent()
}

// ConfigUpdate sets a single sparse configuration field. Number carries the
// value for the numeric fields; Text carries it for FieldFirmware.
type ConfigUpdate struct {
	Field  ConfigField
	Number int
	Text   string
}

// DetectionUpdate replaces the current detection sample wholesale. Detection
// lines are authoritative snapshots: a clause missing from the line means the
// corresponding distance and energy are zero, not unchanged.
type DetectionUpdate struct {
	Sample DetectionSample
}

// GateEnergyUpdate replaces one side of the gate energy frame. Emitted only
// when the side parsed to exactly NumGates integers; a malformed side emits
// nothing and so leaves prior state untouched.
type GateEnergyUpdate struct {
	Class  TargetClass
	Values [NumGates]int
}

// SensitivityUpdate sets the sensitivity threshold for a single gate. Produced
// by both the current one-line format and the legacy multi-line dump.
type SensitivityUpdate struct {
	Class TargetClass
	Gate  int
	Value int
}

// SensitivityCapture marks the start of a legacy multi-line sensitivity dump
// for the given target class. It clears that side's completion flag; any
// unfinished capture for the other side is discarded.
type SensitivityCapture struct {
	Class TargetClass
}

func (ConfigUpdate) isEvent()       {}
func (DetectionUpdate) isEvent()    {}
func (GateEnergyUpdate) isEvent()   {}
func (SensitivityUpdate) isEvent()  {}
func (SensitivityCapture) isEvent() {}
