package sim

import (
	"fmt"
	"math"
)

// VehicleState is the mechanical state of a Vehicle (spec.md §3 C2).
type VehicleState string

const (
	VehicleIdle         VehicleState = "idle"
	VehicleMoving       VehicleState = "moving"
	VehicleDoorsOpen    VehicleState = "doors-open"
	VehicleLoading      VehicleState = "loading"
	VehicleUnloading    VehicleState = "unloading"
	VehicleOutOfService VehicleState = "out-of-service"
)

const arrivalEpsilon = 1e-6

// Vehicle models one car's continuous position, timed door/loading
// sub-states, and onboard passenger list (spec.md §4.1). The controller
// owns all timing semantics beyond the raw countdown; Vehicle only
// counts down and moves.
type Vehicle struct {
	ID       int
	Capacity int

	position     float64
	hasTarget    bool
	targetFloor  int
	direction    Direction
	state        VehicleState
	onboard      []int
	timeRemaining float64
}

// NewVehicle constructs a Vehicle at startFloor, idle, empty. Panics if
// id <= 0 or capacity <= 0 (spec.md §7).
func NewVehicle(id, capacity, startFloor int) *Vehicle {
	if id <= 0 {
		panic("sim: NewVehicle requires a positive id")
	}
	if capacity <= 0 {
		panic("sim: NewVehicle requires capacity > 0")
	}
	return &Vehicle{
		ID:        id,
		Capacity:  capacity,
		position:  float64(startFloor),
		direction: DirectionIdle,
		state:     VehicleIdle,
		onboard:   make([]int, 0, capacity),
	}
}

// Position returns the continuous floor position.
func (v *Vehicle) Position() float64 { return v.position }

// CurrentFloor returns the rounded current floor, ties away from zero
// (spec.md §3 invariant on Vehicle.position).
func (v *Vehicle) CurrentFloor() int {
	return int(math.Round(v.position))
}

// Target returns the target floor and whether one is set.
func (v *Vehicle) Target() (int, bool) { return v.targetFloor, v.hasTarget }

// Direction returns the vehicle's current direction.
func (v *Vehicle) Direction() Direction { return v.direction }

// State returns the vehicle's current mechanical state.
func (v *Vehicle) State() VehicleState { return v.state }

// Onboard returns the ordered list of onboard person ids. The caller
// must not mutate the returned slice.
func (v *Vehicle) Onboard() []int { return v.onboard }

// OccupantCount returns the number of onboard passengers.
func (v *Vehicle) OccupantCount() int { return len(v.onboard) }

// TimeRemaining returns the non-negative countdown for timed states.
func (v *Vehicle) TimeRemaining() float64 { return v.timeRemaining }

// SetTarget sets the vehicle's destination floor. If floor equals the
// current floor, it transitions directly to doors-open with zero dwell
// (spec.md §4.1); otherwise it starts moving.
func (v *Vehicle) SetTarget(floor int) {
	v.hasTarget = true
	v.targetFloor = floor
	if floor == v.CurrentFloor() {
		v.direction = DirectionIdle
		v.state = VehicleDoorsOpen
		v.timeRemaining = 0
		return
	}
	v.state = VehicleMoving
	if floor > v.CurrentFloor() {
		v.direction = DirectionUp
	} else {
		v.direction = DirectionDown
	}
	v.timeRemaining = 0
}

// BeginDoorDwell arms the door-open dwell timer.
func (v *Vehicle) BeginDoorDwell(seconds float64) {
	v.state = VehicleDoorsOpen
	v.direction = DirectionIdle
	v.timeRemaining = math.Max(0, seconds)
}

// BeginBoarding starts the loading timer for n boarding passengers at
// 1.0s/person (spec.md §4.4 constants).
func (v *Vehicle) BeginBoarding(n int) {
	v.state = VehicleLoading
	v.timeRemaining = float64(n) * 1.0
}

// BeginUnloading starts the unloading timer for n alighting passengers
// at 0.5s/person.
func (v *Vehicle) BeginUnloading(n int) {
	v.state = VehicleUnloading
	v.timeRemaining = float64(n) * 0.5
}

// CloseDoorsToIdle transitions the vehicle back to idle with direction idle
// and a zero timer. The last target floor stays recorded (Target still
// reports it) until the next SetTarget.
func (v *Vehicle) CloseDoorsToIdle() {
	v.state = VehicleIdle
	v.direction = DirectionIdle
	v.timeRemaining = 0
}

// AddPassenger appends a passenger to the onboard list. Panics if the
// vehicle is already at capacity — an invariant violation the controller
// must never trigger (spec.md §7); capacity-at-pickup is checked by the
// controller before calling this.
func (v *Vehicle) AddPassenger(personID int) {
	if len(v.onboard) >= v.Capacity {
		panic(fmt.Sprintf("sim: AddPassenger on vehicle %d at capacity %d", v.ID, v.Capacity))
	}
	v.onboard = append(v.onboard, personID)
}

// RemovePassenger removes personID from the onboard list in O(n).
// Returns whether the passenger was present.
func (v *Vehicle) RemovePassenger(personID int) bool {
	for i, id := range v.onboard {
		if id == personID {
			v.onboard = append(v.onboard[:i], v.onboard[i+1:]...)
			return true
		}
	}
	return false
}

// CapacityRemaining returns how many more passengers the vehicle can
// carry right now.
func (v *Vehicle) CapacityRemaining() int {
	return v.Capacity - len(v.onboard)
}

// Update advances the vehicle's mechanics by dt seconds at the given
// speed (floors/second), per spec.md §4.1.
func (v *Vehicle) Update(dt, speedFloorsPerSecond float64) {
	switch v.state {
	case VehicleDoorsOpen, VehicleLoading, VehicleUnloading:
		v.timeRemaining = math.Max(0, v.timeRemaining-dt)
		return
	case VehicleMoving:
		if !v.hasTarget {
			return
		}
		target := float64(v.targetFloor)
		delta := target - v.position
		if delta > 0 {
			v.direction = DirectionUp
			step := speedFloorsPerSecond * dt
			if step > delta {
				step = delta
			}
			v.position += step
		} else if delta < 0 {
			v.direction = DirectionDown
			step := speedFloorsPerSecond * dt
			if step > -delta {
				step = -delta
			}
			v.position -= step
		}
		if math.Abs(target-v.position) < arrivalEpsilon {
			v.position = target
			v.direction = DirectionIdle
			v.state = VehicleDoorsOpen
			v.timeRemaining = 0
		}
	default:
		// idle / out-of-service: no-op
	}
}
