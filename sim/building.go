package sim

import "fmt"

// Floor holds the FIFO up/down call queues and occupancy bookkeeping for
// a single level of the Building (spec.md §3 C3).
type Floor struct {
	Index int

	upQueue   []int
	downQueue []int

	occupants int

	maxUpQueue   int
	maxDownQueue int
}

func newFloor(index int) *Floor {
	return &Floor{Index: index}
}

// EnqueueUp appends a person to the up-direction queue.
func (f *Floor) EnqueueUp(personID int) {
	f.upQueue = append(f.upQueue, personID)
	f.occupants++
	if len(f.upQueue) > f.maxUpQueue {
		f.maxUpQueue = len(f.upQueue)
	}
}

// EnqueueDown appends a person to the down-direction queue.
func (f *Floor) EnqueueDown(personID int) {
	f.downQueue = append(f.downQueue, personID)
	f.occupants++
	if len(f.downQueue) > f.maxDownQueue {
		f.maxDownQueue = len(f.downQueue)
	}
}

// DequeueUp removes and returns the head of the up queue. Panics if
// empty — callers that cannot rule that out check WaitingUp first, as the
// controller's defensive batch-boarding path does (spec.md §4.4, §7).
func (f *Floor) DequeueUp() int {
	if len(f.upQueue) == 0 {
		panic(fmt.Sprintf("sim: DequeueUp on empty queue at floor %d", f.Index))
	}
	id := f.upQueue[0]
	f.upQueue = f.upQueue[1:]
	f.occupants--
	return id
}

// DequeueDown removes and returns the head of the down queue. Panics if
// empty (see DequeueUp).
func (f *Floor) DequeueDown() int {
	if len(f.downQueue) == 0 {
		panic(fmt.Sprintf("sim: DequeueDown on empty queue at floor %d", f.Index))
	}
	id := f.downQueue[0]
	f.downQueue = f.downQueue[1:]
	f.occupants--
	return id
}

// WaitingUp returns the current size of the up queue.
func (f *Floor) WaitingUp() int { return len(f.upQueue) }

// WaitingDown returns the current size of the down queue.
func (f *Floor) WaitingDown() int { return len(f.downQueue) }

// Occupants returns the number of people currently on the floor
// (waiting in either queue).
func (f *Floor) Occupants() int { return f.occupants }

// MaxUpQueue returns the largest observed size of the up queue.
func (f *Floor) MaxUpQueue() int { return f.maxUpQueue }

// MaxDownQueue returns the largest observed size of the down queue.
func (f *Floor) MaxDownQueue() int { return f.maxDownQueue }

// Building is an ordered sequence of Floors; index 0 is the lobby.
type Building struct {
	floors []*Floor
}

// NewBuilding constructs a Building with floorCount floors (indices
// 0..floorCount-1). Panics if floorCount < 1 (spec.md §7).
func NewBuilding(floorCount int) *Building {
	if floorCount < 1 {
		panic("sim: NewBuilding requires floorCount >= 1")
	}
	floors := make([]*Floor, floorCount)
	for i := range floors {
		floors[i] = newFloor(i)
	}
	return &Building{floors: floors}
}

// FloorCount returns the number of floors in the building.
func (b *Building) FloorCount() int { return len(b.floors) }

// GetFloor returns the Floor at index i. Panics if out of bounds.
func (b *Building) GetFloor(i int) *Floor {
	if i < 0 || i >= len(b.floors) {
		panic(fmt.Sprintf("sim: GetFloor index %d out of range [0,%d)", i, len(b.floors)))
	}
	return b.floors[i]
}

// Floors returns the ordered slice of floors for read-only iteration
// (e.g. by the snapshot assembler).
func (b *Building) Floors() []*Floor { return b.floors }
