package publish

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Holosim/ElevatorTrafficSim/sim"
)

func TestSnapshotCoalescer_Offer_NeverBlocks(t *testing.T) {
	// GIVEN a coalescer with nothing draining it
	sink := &fakeSink{}
	c := NewSnapshotCoalescer(sink, 1, time.Hour)

	// WHEN offering many snapshots in a row
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			c.Offer(sim.TickSnapshot{Tick: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Offer blocked under an undrained coalescer")
	}
}

func TestSnapshotCoalescer_FastMode_PublishesLatestOnArrival(t *testing.T) {
	sink := &fakeSink{}
	c := NewSnapshotCoalescer(sink, 1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Run(ctx, &wg)

	c.Offer(sim.TickSnapshot{Tick: 1})
	time.Sleep(20 * time.Millisecond)
	c.Offer(sim.TickSnapshot{Tick: 2})
	time.Sleep(20 * time.Millisecond)

	cancel()
	wg.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.NotEmpty(t, sink.snapshots)
	last := sink.snapshots[len(sink.snapshots)-1]
	assert.Equal(t, int64(2), last.Tick)
}

func TestSnapshotCoalescer_ThrottleMode_DropsIntermediateSnapshots(t *testing.T) {
	sink := &fakeSink{}
	c := NewSnapshotCoalescer(sink, 1, 30*time.Millisecond)
	c.SetThrottle(true)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go c.Run(ctx, &wg)

	for i := int64(0); i < 50; i++ {
		c.Offer(sim.TickSnapshot{Tick: i})
	}
	time.Sleep(50 * time.Millisecond)
	cancel()
	wg.Wait()

	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Less(t, len(sink.snapshots), 50, "throttle mode must coalesce, not forward every snapshot")
}
