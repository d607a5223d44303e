package publish

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

// DefaultChannelCap is the event batcher's default bounded-queue capacity
// (spec.md §4.9).
const DefaultChannelCap = 10000

// DefaultMaxBatch is the default maximum records drained per flush.
const DefaultMaxBatch = 512

// DefaultFlushInterval is the default pacing delay between flushes.
const DefaultFlushInterval = 100 * time.Millisecond

// Sink is the durable destination for event and snapshot records. Errors
// are logged and dropped by the pipeline, never propagated to the
// simulation goroutine (spec.md §7).
type Sink interface {
	WriteEvents(records []EventRecord) error
	WriteSnapshot(snap SnapshotRecord) error
	Close() error
}

// EventBatcher is the no-drop, bounded event queue (spec.md §4.9). Offer
// blocks when the channel is full — the backpressure contract — and a
// single background goroutine drains and flushes batches.
type EventBatcher struct {
	sink          Sink
	ch            chan EventRecord
	maxBatch      int
	flushInterval time.Duration
	runID         int
	seq           int64
}

// NewEventBatcher constructs an EventBatcher. Zero/negative tuning
// parameters fall back to the package defaults.
func NewEventBatcher(sink Sink, runID, channelCap, maxBatch int, flushInterval time.Duration) *EventBatcher {
	if channelCap <= 0 {
		channelCap = DefaultChannelCap
	}
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	if flushInterval <= 0 {
		flushInterval = DefaultFlushInterval
	}
	return &EventBatcher{
		sink:          sink,
		ch:            make(chan EventRecord, channelCap),
		maxBatch:      maxBatch,
		flushInterval: flushInterval,
		runID:         runID,
	}
}

// Offer converts e into an EventRecord with the next strictly-increasing
// sequence number, starting at 1, and enqueues it. Blocks while the
// channel is full. Must be called only from the single simulation
// goroutine, since Sequence assignment is not itself synchronized.
func (b *EventBatcher) Offer(e sim.DomainEvent) {
	b.seq++
	rec := ToRecord(e, b.runID)
	rec.Sequence = b.seq
	b.ch <- rec
}

// Run drains the batcher until ctx is cancelled: wait for at least one
// record, drain up to maxBatch without blocking, flush, then pace by
// flushInterval before looping (spec.md §4.9). On cancellation, drains and
// flushes whatever remains before returning.
func (b *EventBatcher) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case <-ctx.Done():
			b.drainAndFlushAll()
			return
		case rec := <-b.ch:
			batch := b.drainUpTo([]EventRecord{rec})
			b.flush(batch)
			select {
			case <-time.After(b.flushInterval):
			case <-ctx.Done():
				b.drainAndFlushAll()
				return
			}
		}
	}
}

func (b *EventBatcher) drainUpTo(batch []EventRecord) []EventRecord {
	for len(batch) < b.maxBatch {
		select {
		case rec := <-b.ch:
			batch = append(batch, rec)
		default:
			return batch
		}
	}
	return batch
}

func (b *EventBatcher) drainAndFlushAll() {
	for {
		batch := b.drainUpTo(nil)
		if len(batch) == 0 {
			return
		}
		b.flush(batch)
	}
}

func (b *EventBatcher) flush(batch []EventRecord) {
	if len(batch) == 0 {
		return
	}
	if err := b.sink.WriteEvents(batch); err != nil {
		logrus.Warnf("publish: event sink write failed, dropping %d records: %v", len(batch), err)
	}
}
