// Package input turns discrete driving commands into the axis values the
// vehicle force model reads once per fixed tick.
//
// A binding layer (keyboard, gamepad, network, script) calls Press and Release
// on command edges, or SetAxis directly. Each write overwrites the axis: last
// writer wins, nothing is queued. The physics tick reads a Snapshot.
package input

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
)

// ErrUnknownCommand is returned by ParseCommand for a name no command has
var ErrUnknownCommand = errors.New("unknown command")

type Axis uint8

const (
	AxisThrottle Axis = iota
	AxisSteer
	AxisFrontLeft
	AxisFrontRight
	AxisRearLeft
	AxisRearRight

	axisCount
)

func (a Axis) String() string {
	switch a {
	case AxisThrottle:
		return "throttle"
	case AxisSteer:
		return "steer"
	case AxisFrontLeft:
		return "frontLeft"
	case AxisFrontRight:
		return "frontRight"
	case AxisRearLeft:
		return "rearLeft"
	case AxisRearRight:
		return "rearRight"
	default:
		return fmt.Sprintf("axis(%d)", uint8(a))
	}
}

type Command uint8

const (
	Forward Command = iota
	Backward
	SteerLeft
	SteerRight
	FrontLeftForward
	FrontLeftBackward
	FrontRightForward
	FrontRightBackward
)

var commandNames = map[Command]string{
	Forward:            "forward",
	Backward:           "backward",
	SteerLeft:          "steerLeft",
	SteerRight:         "steerRight",
	FrontLeftForward:   "frontLeftForward",
	FrontLeftBackward:  "frontLeftBackward",
	FrontRightForward:  "frontRightForward",
	FrontRightBackward: "frontRightBackward",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

// ParseCommand resolves a command name, case-insensitively
func ParseCommand(name string) (Command, error) {
	for c, n := range commandNames {
		if strings.EqualFold(n, name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
}

// Binding writes Value to Axis while Command is held
type Binding struct {
	Command Command
	Axis    Axis
	Value   float64
}

// DifferentialBindings drive a car with one throttle and one steering axis
func DifferentialBindings() []Binding {
	return []Binding{
		{Command: Forward, Axis: AxisThrottle, Value: 1},
		{Command: Backward, Axis: AxisThrottle, Value: -1},
		{Command: SteerLeft, Axis: AxisSteer, Value: -1},
		{Command: SteerRight, Axis: AxisSteer, Value: 1},
	}
}

// IndependentBindings drive each front wheel on its own. Rear wheels have no command.
func IndependentBindings() []Binding {
	return []Binding{
		{Command: FrontLeftForward, Axis: AxisFrontLeft, Value: 1},
		{Command: FrontLeftBackward, Axis: AxisFrontLeft, Value: -1},
		{Command: FrontRightForward, Axis: AxisFrontRight, Value: 1},
		{Command: FrontRightBackward, Axis: AxisFrontRight, Value: -1},
	}
}

// Snapshot is the value of every axis at one instant
type Snapshot [axisCount]float64

func (s Snapshot) Get(a Axis) float64 {
	if a >= axisCount {
		return 0
	}
	return s[a]
}

// Mapper stores one scalar per axis. Writes may come from any goroutine.
type Mapper struct {
	axes     [axisCount]atomic.Uint64
	bindings map[Command]Binding
}

func NewMapper(bindings ...Binding) *Mapper {
	m := &Mapper{bindings: make(map[Command]Binding, len(bindings))}
	for _, b := range bindings {
		m.bindings[b.Command] = b
	}

	return m
}

// SetAxis stores value clamped to [-1, 1]. Unknown axes and NaN are ignored.
func (m *Mapper) SetAxis(a Axis, value float64) {
	if a >= axisCount || math.IsNaN(value) {
		return
	}
	value = math.Max(-1, math.Min(1, value))
	m.axes[a].Store(math.Float64bits(value))
}

func (m *Mapper) Axis(a Axis) float64 {
	if a >= axisCount {
		return 0
	}
	return math.Float64frombits(m.axes[a].Load())
}

// Press writes the bound value. It reports false for an unbound command.
func (m *Mapper) Press(c Command) bool {
	b, ok := m.bindings[c]
	if !ok {
		return false
	}
	m.SetAxis(b.Axis, b.Value)

	return true
}

// Release zeroes the bound axis, even if another command on the same axis is still held.
func (m *Mapper) Release(c Command) bool {
	b, ok := m.bindings[c]
	if !ok {
		return false
	}
	m.SetAxis(b.Axis, 0)

	return true
}

// Reset zeroes every axis
func (m *Mapper) Reset() {
	for i := range m.axes {
		m.axes[i].Store(0)
	}
}

func (m *Mapper) Snapshot() Snapshot {
	var s Snapshot
	for i := range m.axes {
		s[i] = math.Float64frombits(m.axes[i].Load())
	}

	return s
}
