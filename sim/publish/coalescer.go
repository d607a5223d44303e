package publish

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

// SnapshotCoalescer is the capacity-1, drop-oldest snapshot queue
// (spec.md §4.9). Offer never blocks: a new snapshot evicts whatever is
// still buffered and unconsumed.
type SnapshotCoalescer struct {
	sink     Sink
	runID    int
	ch       chan SnapshotRecord
	period   time.Duration
	throttle int32 // 0 = fast mode, 1 = wall-throttle mode
}

// NewSnapshotCoalescer constructs a SnapshotCoalescer starting in fast
// mode (publish as soon as a snapshot arrives).
func NewSnapshotCoalescer(sink Sink, runID int, period time.Duration) *SnapshotCoalescer {
	return &SnapshotCoalescer{
		sink:   sink,
		runID:  runID,
		ch:     make(chan SnapshotRecord, 1),
		period: period,
	}
}

// SetThrottle flips wall-throttle mode at runtime (spec.md §4.9: "the
// throttle flag can be flipped at runtime").
func (c *SnapshotCoalescer) SetThrottle(on bool) {
	v := int32(0)
	if on {
		v = 1
	}
	atomic.StoreInt32(&c.throttle, v)
}

func (c *SnapshotCoalescer) throttled() bool {
	return atomic.LoadInt32(&c.throttle) != 0
}

// Offer enqueues snap, dropping any previously-buffered, unconsumed
// snapshot first. Never blocks.
func (c *SnapshotCoalescer) Offer(snap sim.TickSnapshot) {
	rec := ToSnapshotRecord(snap, c.runID)
	select {
	case c.ch <- rec:
		return
	default:
	}
	select {
	case <-c.ch:
	default:
	}
	select {
	case c.ch <- rec:
	default:
	}
}

// Run drains the coalescer until ctx is cancelled. In fast mode it
// publishes as soon as a snapshot arrives, first draining any fresher
// arrival. In wall-throttle mode it wakes on a fixed period and publishes
// the latest buffered snapshot, if any.
func (c *SnapshotCoalescer) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	ticker := time.NewTicker(c.period)
	defer ticker.Stop()
	for {
		if c.throttled() {
			select {
			case <-ctx.Done():
				c.drainAndFlush()
				return
			case <-ticker.C:
				c.drainAndFlush()
			}
			continue
		}
		select {
		case <-ctx.Done():
			c.drainAndFlush()
			return
		case rec := <-c.ch:
			c.flush(c.drainLatest(rec))
		}
	}
}

func (c *SnapshotCoalescer) drainLatest(first SnapshotRecord) SnapshotRecord {
	latest := first
	for {
		select {
		case rec := <-c.ch:
			latest = rec
		default:
			return latest
		}
	}
}

func (c *SnapshotCoalescer) drainAndFlush() {
	select {
	case rec := <-c.ch:
		c.flush(c.drainLatest(rec))
	default:
	}
}

func (c *SnapshotCoalescer) flush(rec SnapshotRecord) {
	if err := c.sink.WriteSnapshot(rec); err != nil {
		logrus.Warnf("publish: snapshot sink write failed, dropping tick %d: %v", rec.Tick, err)
	}
}
