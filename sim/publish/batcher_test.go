package publish

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

type fakeSink struct {
	mu        sync.Mutex
	events    []EventRecord
	snapshots []SnapshotRecord
	closed    bool
}

func (f *fakeSink) WriteEvents(records []EventRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, records...)
	return nil
}

func (f *fakeSink) WriteSnapshot(snap SnapshotRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, snap)
	return nil
}

func (f *fakeSink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeSink) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestEventBatcher_Offer_AssignsStrictlyIncreasingSequence(t *testing.T) {
	sink := &fakeSink{}
	b := NewEventBatcher(sink, 1, 10, 10, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go b.Run(ctx, &wg)

	for i := 0; i < 5; i++ {
		b.Offer(sim.NewRunStartedEvent(float64(i), "test", 1, 1, 1, 1, "s", "1.0"))
	}

	cancel()
	wg.Wait()

	assert.Equal(t, 5, sink.eventCount())
	for i, rec := range sink.events {
		assert.Equal(t, int64(i+1), rec.Sequence)
	}
}

func TestEventBatcher_Shutdown_DrainsRemainingRecords(t *testing.T) {
	sink := &fakeSink{}
	b := NewEventBatcher(sink, 1, 100, 100, time.Hour) // pacing interval long enough that only drain-on-shutdown flushes the rest
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go b.Run(ctx, &wg)

	for i := 0; i < 20; i++ {
		b.Offer(sim.NewRunStartedEvent(float64(i), "test", 1, 1, 1, 1, "s", "1.0"))
	}
	cancel()
	wg.Wait()

	assert.Equal(t, 20, sink.eventCount())
}
