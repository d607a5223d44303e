package dispatch

import "github.com/Holosim/ElevatorTrafficSim/sim"

// DefaultCooldownSeconds is the minimum time a departed vehicle is excluded
// from reselection when no override is configured (spec.md §4.3).
const DefaultCooldownSeconds = 3.0

// Cooldown wraps an inner Policy with a per-vehicle "departed-at" map: a
// vehicle that departed pickup less than cooldown seconds ago is excluded
// from selection, unless excluding it would leave no candidates at all (the
// anti-starvation fallback), in which case selection falls through to the
// full fleet.
//
// The controller must call SetNow before each selection (the decorator has
// no clock of its own) and NotifyDeparture when an assigned vehicle leaves
// its pickup floor.
type Cooldown struct {
	inner       Policy
	cooldown    float64
	departedAt  map[int]float64
	now         float64
}

// NewCooldown wraps inner with a cooldown decorator using the given
// cooldown duration in seconds.
func NewCooldown(inner Policy, cooldownSeconds float64) *Cooldown {
	return &Cooldown{
		inner:      inner,
		cooldown:   cooldownSeconds,
		departedAt: make(map[int]float64),
	}
}

// SetNow records the current sim time for cooldown filtering. Must be
// called before SelectElevator each tick.
func (c *Cooldown) SetNow(t float64) { c.now = t }

// NotifyDeparture records that vehicleID just departed its pickup floor,
// starting its cooldown window from the current sim time.
func (c *Cooldown) NotifyDeparture(vehicleID int) {
	c.departedAt[vehicleID] = c.now
}

func (c *Cooldown) SelectElevator(fleet FleetView, call sim.CallRequest) int {
	eligible := make(FleetView, 0, len(fleet))
	for _, v := range fleet {
		if departed, ok := c.departedAt[v.ID]; !ok || departed+c.cooldown <= c.now {
			eligible = append(eligible, v)
		}
	}
	if len(eligible) == 0 {
		// Anti-starvation fallback: every candidate is cooling down, so fall
		// through to the full fleet rather than stalling assignment.
		eligible = fleet
	}
	return c.inner.SelectElevator(eligible, call)
}

// NewPolicy builds a dispatch policy by name. Valid names: "basic",
// "cooldown". The cooldown policy wraps a Basic inner policy using
// cooldownSeconds (DefaultCooldownSeconds if <= 0).
func NewPolicy(name string, cooldownSeconds float64) Policy {
	switch name {
	case "basic":
		return NewBasic()
	case "cooldown":
		if cooldownSeconds <= 0 {
			cooldownSeconds = DefaultCooldownSeconds
		}
		return NewCooldown(NewBasic(), cooldownSeconds)
	default:
		panic("dispatch: unknown policy \"" + name + "\"; valid policies: [basic, cooldown]")
	}
}
