package sim

// PersonType classifies a person for arrival-curve and route-sampling
// purposes (C1/C6).
type PersonType string

const (
	PersonTypeResident     PersonType = "Resident"
	PersonTypeOfficeWorker PersonType = "OfficeWorker"
	PersonTypeShopper      PersonType = "Shopper"
)

// LifecycleState is a Person's position in the not-spawned → waiting →
// riding → (staying → waiting → riding)* → completed state machine
// (spec.md §8).
type LifecycleState string

const (
	LifecycleNotSpawned LifecycleState = "not-spawned"
	LifecycleWaiting    LifecycleState = "waiting"
	LifecycleRiding     LifecycleState = "riding"
	LifecycleStaying    LifecycleState = "staying"
	LifecycleCompleted  LifecycleState = "completed"
)

// Person is a unique rider moving along a Route.
type Person struct {
	ID           int
	Type         PersonType
	CurrentFloor int
	Route        Route
	RouteIndex   int
	State        LifecycleState
}

// NewPerson creates a Person at the first leg of its route, in the
// not-spawned state; callers transition it to waiting once the initial
// call is enqueued.
func NewPerson(id int, typ PersonType, startFloor int, route Route) *Person {
	if id <= 0 {
		panic("sim: NewPerson requires a positive id")
	}
	return &Person{
		ID:           id,
		Type:         typ,
		CurrentFloor: startFloor,
		Route:        route,
		RouteIndex:   0,
		State:        LifecycleNotSpawned,
	}
}

// CurrentDestination returns the Destination the person is currently
// travelling toward.
func (p *Person) CurrentDestination() Destination {
	return p.Route.At(p.RouteIndex)
}

// HasNextLeg reports whether there is another destination after the
// current one.
func (p *Person) HasNextLeg() bool {
	return p.RouteIndex+1 < p.Route.Len()
}

// AdvanceLeg moves the person to the next leg of its route.
func (p *Person) AdvanceLeg() {
	p.RouteIndex++
}
