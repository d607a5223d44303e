package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubSubmitter records every call handed to it, standing in for the
// elevator controller (sim cannot import sim/controller, see DESIGN.md).
type stubSubmitter struct {
	calls []CallRequest
}

func (s *stubSubmitter) SubmitCall(call CallRequest) { s.calls = append(s.calls, call) }

func TestPassengerController_Tick_SpawnsArrivalsAndSubmitsCalls(t *testing.T) {
	// GIVEN a controller configured with a single always-firing arrival curve
	building := NewBuilding(10)
	bus := NewEventBus()
	sub := &stubSubmitter{}
	cfg := PassengerControllerConfig{
		StartOfDaySeconds:     0,
		ArrivalHorizonSeconds: 3600,
		Types: map[PersonType]PassengerTypeConfig{
			PersonTypeResident: {
				Curve:            NewRateCurve([]RateSegment{{StartS: 0, EndS: secondsPerDay, RatePerSecond: 1.0}}),
				DestinationRange: FloorRange{Min: 1, Max: 9},
				StayRange:        SecondsRange{Min: 10, Max: 10},
			},
		},
	}
	pc := NewPassengerController(building, bus, sub, 42, cfg)

	// WHEN ticking forward past several expected arrivals
	for tt := 0.0; tt < 20.0; tt += 0.1 {
		pc.Tick(tt)
	}

	// THEN at least one call was submitted and at least one person spawned
	assert.NotEmpty(t, sub.calls)
	assert.Greater(t, pc.PeopleSpawned(), 0)
}

func TestPassengerController_PersonAlightedAtFirstLeg_DoesNotCountCompletedCall(t *testing.T) {
	building := NewBuilding(10)
	bus := NewEventBus()
	sub := &stubSubmitter{}
	cfg := DefaultPassengerControllerConfig(10)
	pc := NewPassengerController(building, bus, sub, 1, cfg)

	// Sampled arrivals land strictly after the time they are sampled at, so
	// tick forward until the first person spawns.
	for tt := 0.0; pc.PeopleSpawned() == 0 && tt < 600; tt += 0.1 {
		pc.Tick(tt)
	}
	assert.NotZero(t, pc.PeopleSpawned())

	// Simulate the first spawned person boarding and alighting at the first
	// leg of their two-leg route.
	bus.Publish(NewPersonBoardedEvent(1, "test", 1, sub.calls[0].CallID, 1, 0, 1))
	bus.Publish(NewPersonAlightedEvent(10, "test", 1, sub.calls[0].CallID, 1, sub.calls[0].Destination, 0))

	assert.Equal(t, 0, pc.CompletedCalls(), "first leg alighting schedules a return, it does not complete the call")
}

func TestPassengerController_ReturnTrip_SchedulesAndEventuallyFires(t *testing.T) {
	building := NewBuilding(10)
	bus := NewEventBus()
	sub := &stubSubmitter{}
	cfg := PassengerControllerConfig{
		StartOfDaySeconds:     0,
		ArrivalHorizonSeconds: 3600,
		Types: map[PersonType]PassengerTypeConfig{
			PersonTypeResident: {
				Curve:            NewRateCurve([]RateSegment{{StartS: 0, EndS: secondsPerDay, RatePerSecond: 1.0}}),
				DestinationRange: FloorRange{Min: 3, Max: 3},
				StayRange:        SecondsRange{Min: 5, Max: 5},
			},
		},
	}
	pc := NewPassengerController(building, bus, sub, 1, cfg)
	for tt := 0.0; len(sub.calls) == 0 && tt < 60; tt += 0.1 {
		pc.Tick(tt)
	}
	require := assert.New(t)
	require.NotEmpty(sub.calls)

	firstCall := sub.calls[0]
	bus.Publish(NewPersonBoardedEvent(0.5, "test", firstCall.PersonID, firstCall.CallID, 1, 0, 1))
	bus.Publish(NewPersonAlightedEvent(1.0, "test", firstCall.PersonID, firstCall.CallID, 1, 3, 0))

	callsBefore := len(sub.calls)
	pc.Tick(6.0)

	require.Greater(len(sub.calls), callsBefore, "the scheduled return trip should fire by t=6")
	// Tick drains due returns before generating new arrivals, so the return
	// trip is the first call submitted by this tick.
	returnCall := sub.calls[callsBefore]
	require.Equal(3, returnCall.Origin)
	require.Equal(0, returnCall.Destination)
}
