package sim

import (
	"fmt"
	"math"
	"math/rand"
)

const secondsPerDay = 86400.0

// RateSegment is one piece of a piecewise-constant arrival-rate curve.
type RateSegment struct {
	StartS        float64
	EndS          float64
	RatePerSecond float64
}

// RateCurve is an ordered, non-overlapping set of RateSegments covering
// (at most) a 24-hour day (spec.md §4.5, C1). Rate returns 0 outside all
// segments.
type RateCurve struct {
	segments []RateSegment
	maxRate  float64
}

// NewRateCurve validates and constructs a RateCurve. Panics if segments
// is empty, any segment has StartS >= EndS or negative rate, or segments
// are not sorted and non-overlapping — all input-validity failures
// (spec.md §7).
func NewRateCurve(segments []RateSegment) RateCurve {
	if len(segments) == 0 {
		panic("sim: NewRateCurve requires at least one segment")
	}
	cp := make([]RateSegment, len(segments))
	copy(cp, segments)
	maxRate := 0.0
	for i, s := range cp {
		if s.StartS >= s.EndS {
			panic(fmt.Sprintf("sim: RateCurve segment %d has StartS >= EndS", i))
		}
		if s.RatePerSecond < 0 {
			panic(fmt.Sprintf("sim: RateCurve segment %d has negative rate", i))
		}
		if i > 0 && s.StartS < cp[i-1].EndS {
			panic(fmt.Sprintf("sim: RateCurve segment %d overlaps segment %d", i, i-1))
		}
		if s.RatePerSecond > maxRate {
			maxRate = s.RatePerSecond
		}
	}
	return RateCurve{segments: cp, maxRate: maxRate}
}

// Rate returns the arrival rate (per second) at the given time-of-day
// (seconds since midnight, wrapped to [0, secondsPerDay)).
func (c RateCurve) Rate(timeOfDaySeconds float64) float64 {
	t := math.Mod(timeOfDaySeconds, secondsPerDay)
	if t < 0 {
		t += secondsPerDay
	}
	for _, s := range c.segments {
		if t >= s.StartS && t < s.EndS {
			return s.RatePerSecond
		}
	}
	return 0
}

// MaxRate returns the largest rate across all segments.
func (c RateCurve) MaxRate() float64 { return c.maxRate }

// NextArrivalViaThinning samples the next arrival time after t0 (seconds
// elapsed since the run began, per Simulator.Time) under a non-homogeneous
// Poisson process governed by curve, using thinning (spec.md §4.5).
// startOfDaySeconds anchors t0 onto the curve's time-of-day axis: the rate
// lookup is curve.Rate(startOfDaySeconds + t), so a run that begins at
// 08:00 correctly samples the morning-rush segment at t=0 rather than
// shifting the whole curve by another 8 hours. Returns +Inf if no arrival
// occurs within [t0, t0+horizon). Draws exactly one u and one d per
// candidate, as required for determinism (spec.md §9).
func NextArrivalViaThinning(rng *rand.Rand, curve RateCurve, startOfDaySeconds, t0, horizon float64) float64 {
	maxRate := curve.MaxRate()
	if maxRate <= 0 {
		return math.Inf(1)
	}
	t := t0
	for {
		u := 1 - rng.Float64() // (0,1], strictly > 0
		w := -math.Log(u) / maxRate
		t += w
		if t >= t0+horizon {
			return math.Inf(1)
		}
		d := 1 - rng.Float64() // (0,1], strictly > 0
		rate := curve.Rate(startOfDaySeconds + t)
		if d <= rate/maxRate {
			return t
		}
	}
}

// DefaultRateCurve returns the built-in diurnal curve for a passenger
// type: residential traffic peaks morning/evening, office-worker traffic
// peaks during the business day, shopper traffic peaks midday/afternoon.
// Panics on an unknown type.
func DefaultRateCurve(personType PersonType) RateCurve {
	switch personType {
	case PersonTypeResident:
		return NewRateCurve([]RateSegment{
			{StartS: 0, EndS: 6 * 3600, RatePerSecond: 0.002},
			{StartS: 6 * 3600, EndS: 9 * 3600, RatePerSecond: 0.08},
			{StartS: 9 * 3600, EndS: 17 * 3600, RatePerSecond: 0.01},
			{StartS: 17 * 3600, EndS: 20 * 3600, RatePerSecond: 0.09},
			{StartS: 20 * 3600, EndS: 24 * 3600, RatePerSecond: 0.015},
		})
	case PersonTypeOfficeWorker:
		return NewRateCurve([]RateSegment{
			{StartS: 0, EndS: 7 * 3600, RatePerSecond: 0.0},
			{StartS: 7 * 3600, EndS: 9 * 3600, RatePerSecond: 0.12},
			{StartS: 9 * 3600, EndS: 11*3600 + 1800, RatePerSecond: 0.02},
			{StartS: 11*3600 + 1800, EndS: 13*3600 + 1800, RatePerSecond: 0.06},
			{StartS: 13*3600 + 1800, EndS: 17 * 3600, RatePerSecond: 0.02},
			{StartS: 17 * 3600, EndS: 19 * 3600, RatePerSecond: 0.11},
			{StartS: 19 * 3600, EndS: 24 * 3600, RatePerSecond: 0.0},
		})
	case PersonTypeShopper:
		return NewRateCurve([]RateSegment{
			{StartS: 0, EndS: 10 * 3600, RatePerSecond: 0.0},
			{StartS: 10 * 3600, EndS: 12 * 3600, RatePerSecond: 0.03},
			{StartS: 12 * 3600, EndS: 18 * 3600, RatePerSecond: 0.05},
			{StartS: 18 * 3600, EndS: 21 * 3600, RatePerSecond: 0.02},
			{StartS: 21 * 3600, EndS: 24 * 3600, RatePerSecond: 0.0},
		})
	default:
		panic(fmt.Sprintf("sim: DefaultRateCurve: unknown person type %q", personType))
	}
}
