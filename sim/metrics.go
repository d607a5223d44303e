package sim

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// callInfo is what MetricsAggregator remembers about a call between its
// request and its resolution, so wait can be computed when the person
// boards (spec.md §4.6, C7).
type callInfo struct {
	RequestT   float64
	PersonType PersonType
}

// Distribution summarizes a sample set the way spec.md §4.6 requires:
// count, mean, 95th percentile by nearest-rank, and the fraction at or
// under a target.
type Distribution struct {
	Count        int
	Mean         float64
	P95          float64
	PctWithinSLA float64
}

// MetricsAggregator subscribes to call-requested (to learn request time
// and person type), person-boarded, and person-alighted, and computes
// wait/ride statistics overall and per passenger type.
type MetricsAggregator struct {
	calls     map[int]callInfo
	boardTime map[int]float64

	overallWait []float64
	overallRide []float64
	perTypeWait map[PersonType][]float64
}

// NewMetricsAggregator constructs a MetricsAggregator and subscribes it
// to bus.
func NewMetricsAggregator(bus *EventBus) *MetricsAggregator {
	m := &MetricsAggregator{
		calls:       make(map[int]callInfo),
		boardTime:   make(map[int]float64),
		perTypeWait: make(map[PersonType][]float64),
	}
	bus.Subscribe(m.onEvent)
	return m
}

func (m *MetricsAggregator) onEvent(e DomainEvent) {
	switch ev := e.(type) {
	case CallRequestedEvent:
		m.calls[ev.CallID] = callInfo{RequestT: ev.T, PersonType: ev.PersonType}
	case PersonBoardedEvent:
		m.handleBoarded(ev)
	case PersonAlightedEvent:
		m.handleAlighted(ev)
	}
}

func (m *MetricsAggregator) handleBoarded(ev PersonBoardedEvent) {
	m.boardTime[ev.CallID] = ev.T
	info, ok := m.calls[ev.CallID]
	if !ok {
		return
	}
	wait := ev.T - info.RequestT
	if wait < 0 {
		return
	}
	m.overallWait = append(m.overallWait, wait)
	m.perTypeWait[info.PersonType] = append(m.perTypeWait[info.PersonType], wait)
}

func (m *MetricsAggregator) handleAlighted(ev PersonAlightedEvent) {
	boardT, ok := m.boardTime[ev.CallID]
	if !ok {
		return
	}
	ride := ev.T - boardT
	if ride < 0 {
		return
	}
	m.overallRide = append(m.overallRide, ride)
}

// percentile95 implements spec.md §4.6's nearest-rank definition:
// rank = clamp(ceil(0.95*n), 1, n); return sorted[rank-1].
func percentile95(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := int(math.Ceil(0.95 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func distributionOf(samples []float64, waitTargetSeconds float64) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	within := 0
	for _, s := range sorted {
		if s <= waitTargetSeconds {
			within++
		}
	}

	return Distribution{
		Count:        len(sorted),
		Mean:         stat.Mean(sorted, nil),
		P95:          percentile95(sorted),
		PctWithinSLA: 100 * float64(within) / float64(len(sorted)),
	}
}

// Report is the full set of statistics MetricsAggregator can produce.
type Report struct {
	OverallWait Distribution
	OverallRide Distribution
	WaitByType  map[PersonType]Distribution
}

// DefaultWaitTargetSeconds is the SLA wait threshold used when the
// caller does not configure one (spec.md §4.6).
const DefaultWaitTargetSeconds = 60.0

// BuildReport computes the full Report using waitTargetSeconds as the
// SLA threshold for PctWithinSLA on wait distributions (ride
// distributions report PctWithinSLA against the same threshold for
// symmetry, though it is not a wait-SLA notion).
func (m *MetricsAggregator) BuildReport(waitTargetSeconds float64) Report {
	byType := make(map[PersonType]Distribution, len(m.perTypeWait))
	for t, samples := range m.perTypeWait {
		byType[t] = distributionOf(samples, waitTargetSeconds)
	}
	return Report{
		OverallWait: distributionOf(m.overallWait, waitTargetSeconds),
		OverallRide: distributionOf(m.overallRide, waitTargetSeconds),
		WaitByType:  byType,
	}
}
