package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Holosim/ElevatorTrafficSim/sim"
	"github.com/Holosim/ElevatorTrafficSim/sim/dispatch"
)

func newFixture(floors, vehicles, capacity int) (*sim.Building, []*sim.Vehicle, *sim.EventBus, *ElevatorController) {
	building := sim.NewBuilding(floors)
	fleet := make([]*sim.Vehicle, vehicles)
	for i := range fleet {
		fleet[i] = sim.NewVehicle(i+1, capacity, 0)
	}
	bus := sim.NewEventBus()
	ec := NewElevatorController(building, bus, dispatch.NewBasic(), fleet)
	return building, fleet, bus, ec
}

// runToCompletion advances the vehicle through one controller+mechanics tick
// at a time until no call is pending or active, or maxTicks is exhausted.
func runToCompletion(ec *ElevatorController, v *sim.Vehicle, dt, speed float64, maxTicks int) bool {
	t := 0.0
	for i := 0; i < maxTicks; i++ {
		ec.Tick(t)
		v.Update(dt, speed)
		t += dt
		if ec.PendingCount() == 0 && len(ec.active) == 0 && i > 0 {
			return true
		}
	}
	return false
}

func TestElevatorController_SubmitCall_QueuesPending(t *testing.T) {
	_, _, _, ec := newFixture(5, 1, 4)
	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 0, 3, 0))
	assert.Equal(t, 1, ec.PendingCount())
}

func TestElevatorController_FullPickupToDropoff_SinglePassenger(t *testing.T) {
	// GIVEN a single call from floor 0 to floor 3
	building, fleet, bus, ec := newFixture(5, 1, 4)
	building.GetFloor(0).EnqueueUp(1)

	var boarded, alighted bool
	bus.Subscribe(func(e sim.DomainEvent) {
		switch e.(type) {
		case sim.PersonBoardedEvent:
			boarded = true
		case sim.PersonAlightedEvent:
			alighted = true
		}
	})

	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 0, 3, 0))

	// WHEN the controller is ticked to completion
	done := runToCompletion(ec, fleet[0], 0.5, 1.0, 200)

	// THEN the call is fully serviced
	assert.True(t, done)
	assert.True(t, boarded)
	assert.True(t, alighted)
	assert.Equal(t, 0, fleet[0].OccupantCount())
}

func TestElevatorController_VehicleAtCapacity_RequeuesCallAndPublishesCapacityHit(t *testing.T) {
	// GIVEN a zero-capacity-remaining vehicle at floor 0 and a call from floor 2
	building, fleet, bus, ec := newFixture(5, 1, 1)
	fleet[0].AddPassenger(999) // occupies the only seat
	building.GetFloor(2).EnqueueUp(1)

	capacityHit := false
	bus.Subscribe(func(e sim.DomainEvent) {
		if _, ok := e.(sim.VehicleAtCapacityAtPickupEvent); ok {
			capacityHit = true
		}
	})

	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 2, 4, 0))

	// WHEN ticking until the vehicle reaches the pickup floor and opens doors
	for i := 0; i < 20 && !capacityHit; i++ {
		ec.Tick(float64(i) * 0.5)
		fleet[0].Update(0.5, 1.0)
	}

	assert.True(t, capacityHit)
	assert.Equal(t, 1, ec.PendingCount(), "a capacity-blocked call must be requeued, not dropped")
}

func TestElevatorController_CoDirectionalBatch_BoardsTogether(t *testing.T) {
	// GIVEN two pending calls from the same floor and direction
	building, fleet, bus, ec := newFixture(10, 1, 4)
	building.GetFloor(0).EnqueueUp(1)
	building.GetFloor(0).EnqueueUp(2)

	boardedCount := 0
	bus.Subscribe(func(e sim.DomainEvent) {
		if _, ok := e.(sim.PersonBoardedEvent); ok {
			boardedCount++
		}
	})

	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 0, 5, 0))
	ec.SubmitCall(sim.NewCallRequest(2, 2, sim.PersonTypeResident, 0, 7, 0))

	// WHEN ticking until both board
	for i := 0; i < 40 && boardedCount < 2; i++ {
		ec.Tick(float64(i) * 0.5)
		fleet[0].Update(0.5, 1.0)
	}

	assert.Equal(t, 2, boardedCount)
	assert.Equal(t, 2, fleet[0].OccupantCount())
}

func TestElevatorController_FullPickupToDropoff_PublishesArrivedAndDoorEvents(t *testing.T) {
	// GIVEN a single call from floor 0 to floor 3
	building, fleet, bus, ec := newFixture(5, 1, 4)
	building.GetFloor(0).EnqueueUp(1)

	var arrivedFloors []int
	var doorsOpened, doorsClosed int
	bus.Subscribe(func(e sim.DomainEvent) {
		switch ev := e.(type) {
		case sim.ElevatorArrivedEvent:
			arrivedFloors = append(arrivedFloors, ev.Floor)
		case sim.DoorsOpenedEvent:
			doorsOpened++
		case sim.DoorsClosedEvent:
			doorsClosed++
		}
	})

	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 0, 3, 0))

	done := runToCompletion(ec, fleet[0], 0.5, 1.0, 200)

	assert.True(t, done)
	assert.Equal(t, []int{0, 3}, arrivedFloors, "elevator arrives at the pickup floor, then the dropoff floor")
	assert.Equal(t, 2, doorsOpened, "doors open once at pickup and once at dropoff")
	assert.Equal(t, 2, doorsClosed, "doors close once after boarding and once after unloading")
}

func TestElevatorController_VehicleAtCapacity_StillPublishesDoorsClosed(t *testing.T) {
	// A capacity-blocked boarding attempt still closes the doors it opened.
	building, fleet, bus, ec := newFixture(5, 1, 1)
	fleet[0].AddPassenger(999)
	building.GetFloor(2).EnqueueUp(1)

	doorsClosed := false
	bus.Subscribe(func(e sim.DomainEvent) {
		if _, ok := e.(sim.DoorsClosedEvent); ok {
			doorsClosed = true
		}
	})

	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 2, 4, 0))

	for i := 0; i < 20 && !doorsClosed; i++ {
		ec.Tick(float64(i) * 0.5)
		fleet[0].Update(0.5, 1.0)
	}

	assert.True(t, doorsClosed)
}

func TestElevatorController_AssignPending_DoesNotStarveHeadCall(t *testing.T) {
	// GIVEN a single vehicle already assigned to call 1
	_, fleet, _, ec := newFixture(5, 1, 4)
	ec.SubmitCall(sim.NewCallRequest(1, 1, sim.PersonTypeResident, 0, 3, 0))
	ec.Tick(0)
	assert.Equal(t, 0, ec.PendingCount())

	// WHEN a second call arrives while the only vehicle is busy
	ec.SubmitCall(sim.NewCallRequest(2, 2, sim.PersonTypeResident, 4, 1, 0))
	ec.Tick(0.5)

	// THEN it remains pending rather than being starved or dropped
	assert.Equal(t, 1, ec.PendingCount())
	_ = fleet
}
