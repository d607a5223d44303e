package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBuilding_InvalidFloorCount_Panics(t *testing.T) {
	assert.Panics(t, func() { NewBuilding(0) })
}

func TestFloor_EnqueueDequeueUp_FIFO(t *testing.T) {
	b := NewBuilding(5)
	f := b.GetFloor(0)

	f.EnqueueUp(1)
	f.EnqueueUp(2)
	assert.Equal(t, 2, f.WaitingUp())

	first := f.DequeueUp()
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, f.WaitingUp())
}

func TestFloor_DequeueUp_Empty_Panics(t *testing.T) {
	b := NewBuilding(3)
	f := b.GetFloor(0)
	assert.Panics(t, func() { f.DequeueUp() })
}

func TestFloor_Occupants_TracksBothQueues(t *testing.T) {
	b := NewBuilding(3)
	f := b.GetFloor(1)
	f.EnqueueUp(1)
	f.EnqueueDown(2)
	assert.Equal(t, 2, f.Occupants())
	f.DequeueUp()
	assert.Equal(t, 1, f.Occupants())
}

func TestBuilding_GetFloor_OutOfRange_Panics(t *testing.T) {
	b := NewBuilding(3)
	assert.Panics(t, func() { b.GetFloor(3) })
	assert.Panics(t, func() { b.GetFloor(-1) })
}

func TestFloor_MaxQueue_TracksHighWaterMark(t *testing.T) {
	b := NewBuilding(3)
	f := b.GetFloor(0)
	f.EnqueueUp(1)
	f.EnqueueUp(2)
	f.EnqueueUp(3)
	f.DequeueUp()
	assert.Equal(t, 3, f.MaxUpQueue())
	assert.Equal(t, 2, f.WaitingUp())
}
