package sieve

// Observer receives presentation updates from a running Pipeline.
// Implement this interface to render the log, the buffer contents, consumer
// sums or aggregate counters. Callbacks run on the producer and consumer
// goroutines and must not block.
type Observer interface {
	// OnEvent is called with a human readable description of each step,
	// e.g. "produced value 7" or "consumer 2 (prime) consumed value 7, running sum 12".
	OnEvent(msg string)

	// OnBuffer is called with a snapshot of the buffer after it changes.
	OnBuffer(items []Item)

	// OnSum is called with a consumer's running sum after each take.
	OnSum(consumer int, category Category, sum int)

	// OnStats is called with the aggregate counters after each step.
	OnStats(stats Stats)
}

// NoOpObserver is a no-op implementation of Observer.
// Use this as an embedded type to implement only the methods you need.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(_ string)               {}
func (NoOpObserver) OnBuffer(_ []Item)              {}
func (NoOpObserver) OnSum(_ int, _ Category, _ int) {}
func (NoOpObserver) OnStats(_ Stats)                {}

// Observers fans every callback out to each observer in order.
type Observers []Observer

func (o Observers) OnEvent(msg string) {
	for _, obs := range o {
		obs.OnEvent(msg)
	}
}

func (o Observers) OnBuffer(items []Item) {
	for _, obs := range o {
		obs.OnBuffer(items)
	}
}

func (o Observers) OnSum(consumer int, category Category, sum int) {
	for _, obs := range o {
		obs.OnSum(consumer, category, sum)
	}
}

func (o Observers) OnStats(stats Stats) {
	for _, obs := range o {
		obs.OnStats(stats)
	}
}
