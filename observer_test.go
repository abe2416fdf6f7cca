package sieve

import "testing"

type countingObserver struct {
	NoOpObserver
	events int
	sums   int
}

func (o *countingObserver) OnEvent(_ string)               { o.events++ }
func (o *countingObserver) OnSum(_ int, _ Category, _ int) { o.sums++ }

func TestObservers_FanOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	obs := Observers{a, b, NoOpObserver{}}

	obs.OnEvent("produced value 1")
	obs.OnSum(0, Even, 2)
	obs.OnBuffer(nil)
	obs.OnStats(Stats{})

	for i, o := range []*countingObserver{a, b} {
		if o.events != 1 || o.sums != 1 {
			t.Errorf("observer %d: expected 1 event and 1 sum, got %d and %d", i, o.events, o.sums)
		}
	}
}

func TestEnv_Report_NilObserver(t *testing.T) {
	e := newEnv(NewBuffer(1), NewGate())
	// Must not panic.
	e.report("nothing listens")
}

func TestEnv_Report_SendsSnapshotAndStats(t *testing.T) {
	var got struct {
		msg   string
		items []Item
		stats Stats
	}
	obs := &funcObserver{
		event:  func(m string) { got.msg = m },
		buffer: func(i []Item) { got.items = i },
		stats:  func(s Stats) { got.stats = s },
	}

	buf := NewBuffer(4)
	_ = buf.Put(t.Context(), Classify(5))

	e := newEnv(buf, NewGate())
	e.observer = obs
	e.stats.recordProduced()
	e.report("produced value 5")

	if got.msg != "produced value 5" {
		t.Errorf("unexpected message %q", got.msg)
	}
	if len(got.items) != 1 || got.items[0].Value != 5 {
		t.Errorf("expected snapshot [5], got %v", got.items)
	}
	if got.stats.Produced != 1 || got.stats.Size != 1 || got.stats.Capacity != 4 {
		t.Errorf("unexpected stats %+v", got.stats)
	}
	if got.stats.Utilization() != 25 {
		t.Errorf("expected 25%% utilization, got %d", got.stats.Utilization())
	}
}

type funcObserver struct {
	NoOpObserver
	event  func(string)
	buffer func([]Item)
	stats  func(Stats)
}

func (o *funcObserver) OnEvent(m string)  { o.event(m) }
func (o *funcObserver) OnBuffer(i []Item) { o.buffer(i) }
func (o *funcObserver) OnStats(s Stats)   { o.stats(s) }
