package sieve

import "sync/atomic"

// Stats is a point-in-time view of the aggregate counters.
type Stats struct {
	Produced int
	Consumed int

	// ConsumedEven, ConsumedOdd and ConsumedPrime count consumed values by
	// their own classification, so a consumed 2 counts as even and prime.
	ConsumedEven  int
	ConsumedOdd   int
	ConsumedPrime int

	Size     int
	Capacity int
}

// Utilization returns buffer occupancy as an integer percentage.
func (s Stats) Utilization() int {
	if s.Capacity <= 0 {
		return 0
	}
	return s.Size * 100 / s.Capacity
}

// ConsumedIn returns the consumed count for category c.
func (s Stats) ConsumedIn(c Category) int {
	switch c {
	case Even:
		return s.ConsumedEven
	case Odd:
		return s.ConsumedOdd
	case Prime:
		return s.ConsumedPrime
	default:
		return 0
	}
}

// counters accumulates Stats from concurrent loops.
type counters struct {
	produced atomic.Int64
	consumed atomic.Int64
	by       [len(AllCategories)]atomic.Int64
}

func (c *counters) recordProduced() {
	c.produced.Add(1)
}

func (c *counters) recordConsumed(value int) {
	c.consumed.Add(1)
	item := Classify(value)
	for _, cat := range AllCategories {
		if item.Is(cat) {
			c.by[cat].Add(1)
		}
	}
}

func (c *counters) snapshot(size, capacity int) Stats {
	return Stats{
		Produced:      int(c.produced.Load()),
		Consumed:      int(c.consumed.Load()),
		ConsumedEven:  int(c.by[Even].Load()),
		ConsumedOdd:   int(c.by[Odd].Load()),
		ConsumedPrime: int(c.by[Prime].Load()),
		Size:          size,
		Capacity:      capacity,
	}
}
