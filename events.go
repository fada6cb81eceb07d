package carforce

import (
	"github.com/akmonengine/carforce/actor"
	"github.com/akmonengine/carforce/ground"
	"github.com/akmonengine/carforce/vehicle"
)

const (
	WHEEL_GROUNDED EventType = iota
	WHEEL_AIRBORNE
	SPEED_LIMITED
	ON_SLEEP
	ON_WAKE
)

type wheelKey struct {
	owner *Vehicle
	wheel vehicle.WheelID
}

type EventType uint8

func (t EventType) String() string {
	switch t {
	case WHEEL_GROUNDED:
		return "wheel_grounded"
	case WHEEL_AIRBORNE:
		return "wheel_airborne"
	case SPEED_LIMITED:
		return "speed_limited"
	case ON_SLEEP:
		return "on_sleep"
	case ON_WAKE:
		return "on_wake"
	default:
		return "unknown"
	}
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// WheelGroundedEvent is sent when a wheel touches the ground after being airborne
type WheelGroundedEvent struct {
	Vehicle *Vehicle
	Wheel   vehicle.WheelID
	Contact ground.Hit
}

func (e WheelGroundedEvent) Type() EventType { return WHEEL_GROUNDED }

// WheelAirborneEvent is sent when a wheel loses the ground
type WheelAirborneEvent struct {
	Vehicle *Vehicle
	Wheel   vehicle.WheelID
}

func (e WheelAirborneEvent) Type() EventType { return WHEEL_AIRBORNE }

// SpeedLimitedEvent is sent once per step for a vehicle whose speed was clamped
type SpeedLimitedEvent struct {
	Vehicle     *Vehicle
	SpeedBefore float64 // highest speed seen before clamping during the step
	MaxSpeed    float64
}

func (e SpeedLimitedEvent) Type() EventType { return SPEED_LIMITED }

// Sleep/Wake events
type SleepEvent struct {
	Body *actor.RigidBody
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Body *actor.RigidBody
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

// EventListener - callback for events
type EventListener func(event Event)

// Events buffers what happened during a step and sends it to the listeners at the end of it
type Events struct {
	listeners map[EventType][]EventListener

	buffer []Event

	// wheel state seen during the current step, and the state already reported
	currentWheels map[wheelKey]vehicle.WheelForces
	groundStates  map[wheelKey]bool

	limited map[*Vehicle]SpeedLimitedEvent

	sleepStates map[*actor.RigidBody]bool
}

func NewEvents() Events {
	return Events{
		listeners:     make(map[EventType][]EventListener),
		buffer:        make([]Event, 0, 64),
		currentWheels: make(map[wheelKey]vehicle.WheelForces),
		groundStates:  make(map[wheelKey]bool),
		limited:       make(map[*Vehicle]SpeedLimitedEvent),
		sleepStates:   make(map[*actor.RigidBody]bool),
	}
}

func (e *Events) ensure() {
	if e.listeners == nil {
		*e = NewEvents()
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.ensure()
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// recordTrace is called after every controller tick. The last substep wins for wheel contact.
func (e *Events) recordTrace(v *Vehicle, trace vehicle.StepTrace) {
	for _, w := range trace.Wheels {
		if w.Present {
			e.currentWheels[wheelKey{owner: v, wheel: w.ID}] = w
		}
	}

	if trace.Clamped {
		event := e.limited[v]
		event.Vehicle = v
		event.SpeedBefore = max(event.SpeedBefore, trace.SpeedBefore)
		event.MaxSpeed = trace.SpeedAfter
		e.limited[v] = event
	}
}

// processVehicleEvents compares the wheel contacts of this step with the reported ones.
// A wheel seen for the first time is tracked without an event.
func (e *Events) processVehicleEvents(vehicles []*Vehicle) {
	for _, v := range vehicles {
		if event, ok := e.limited[v]; ok {
			e.buffer = append(e.buffer, event)
		}

		for id := range vehicle.WheelCount {
			key := wheelKey{owner: v, wheel: vehicle.WheelID(id)}
			current, seen := e.currentWheels[key]
			if !seen {
				continue
			}

			trackedState, exists := e.groundStates[key]
			e.groundStates[key] = current.Grounded
			if !exists {
				continue
			}

			if !trackedState && current.Grounded {
				e.buffer = append(e.buffer, WheelGroundedEvent{Vehicle: v, Wheel: key.wheel, Contact: current.Contact})
			} else if trackedState && !current.Grounded {
				e.buffer = append(e.buffer, WheelAirborneEvent{Vehicle: v, Wheel: key.wheel})
			}
		}
	}

	clear(e.currentWheels)
	clear(e.limited)
}

func (e *Events) processSleepEvents(bodies []*actor.RigidBody) {
	for _, body := range bodies {
		trackedState, exists := e.sleepStates[body]
		if !exists {
			e.sleepStates[body] = body.IsSleeping
			continue
		}

		if !trackedState && body.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Body: body})
			e.sleepStates[body] = true
		} else if trackedState && !body.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Body: body})
			e.sleepStates[body] = false
		}
	}
}

func (e *Events) forgetVehicle(v *Vehicle) {
	for id := range vehicle.WheelCount {
		key := wheelKey{owner: v, wheel: vehicle.WheelID(id)}
		delete(e.groundStates, key)
		delete(e.currentWheels, key)
	}
	delete(e.limited, v)
}

func (e *Events) forgetBody(body *actor.RigidBody) {
	delete(e.sleepStates, body)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
