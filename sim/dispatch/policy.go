// Package dispatch implements the pluggable elevator dispatch strategies
// (spec.md §4.3, C4): a basic nearest-idle policy and a cooldown decorator
// that wraps any inner policy.
package dispatch

import (
	"github.com/Holosim/ElevatorTrafficSim/sim"
)

// VehicleView is a read-only snapshot of one vehicle's state as seen by a
// dispatch policy. Policies never see the live *sim.Vehicle; the controller
// builds a FleetView from its fleet before each selection.
type VehicleView struct {
	ID           int
	CurrentFloor int
	State        sim.VehicleState
}

// FleetView is the ordered, read-only slice of VehicleView a policy selects
// over. Order is the fleet's construction order; it is not itself part of
// the selection rule.
type FleetView []VehicleView

// Policy maps a fleet view and a call to the id of the vehicle that should
// service it (spec.md §4.3: `select_elevator(fleet_view, call) -> vehicle_id`).
type Policy interface {
	SelectElevator(fleet FleetView, call sim.CallRequest) int
}

// Basic orders candidates by (idle first), then by distance from the call's
// origin floor, then by id ascending, and returns the first. It is a pure
// function of the fleet view at call time.
type Basic struct{}

// NewBasic constructs a Basic policy.
func NewBasic() *Basic { return &Basic{} }

func (b *Basic) SelectElevator(fleet FleetView, call sim.CallRequest) int {
	if len(fleet) == 0 {
		panic("dispatch: Basic.SelectElevator: empty fleet")
	}
	best := fleet[0]
	for _, v := range fleet[1:] {
		if betterCandidate(v, best, call.Origin) {
			best = v
		}
	}
	return best.ID
}

// betterCandidate reports whether a ranks ahead of b for the given origin
// floor: idle before busy, then nearer before farther, then lower id.
func betterCandidate(a, b VehicleView, origin int) bool {
	aBusy, bBusy := busyRank(a), busyRank(b)
	if aBusy != bBusy {
		return aBusy < bBusy
	}
	aDist, bDist := distance(a.CurrentFloor, origin), distance(b.CurrentFloor, origin)
	if aDist != bDist {
		return aDist < bDist
	}
	return a.ID < b.ID
}

func busyRank(v VehicleView) int {
	if v.State == sim.VehicleIdle {
		return 0
	}
	return 1
}

func distance(floor, origin int) int {
	d := floor - origin
	if d < 0 {
		return -d
	}
	return d
}
