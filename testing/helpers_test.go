package testing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zoobzio/sieve"
)

func TestFastConfig_Valid(t *testing.T) {
	cfg := FastConfig(3, 6)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.Capacity != 3 || cfg.Consumers != 6 {
		t.Errorf("expected capacity 3 and 6 consumers, got %+v", cfg)
	}
}

func TestWaitFor(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		if !WaitFor(t, 100*time.Millisecond, func() bool { return true }) {
			t.Error("expected WaitFor to return true")
		}
	})

	t.Run("condition never met", func(t *testing.T) {
		if WaitFor(t, 50*time.Millisecond, func() bool { return false }) {
			t.Error("expected WaitFor to return false")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		start := time.Now()
		if !WaitFor(t, time.Second, func() bool { return time.Since(start) > 30*time.Millisecond }) {
			t.Error("expected WaitFor to return true")
		}
	})
}

func TestNewFastPipeline_DrainsValues(t *testing.T) {
	p := NewFastPipeline(3, 3, 2, 3, 4, 9, 10)
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer p.Stop()

	if !WaitForTotal(t, p, 28, 2*time.Second) {
		t.Fatalf("expected total 28, got %d", Total(p))
	}
	RequireStopped(t, p)
}

func TestNewTestControl(t *testing.T) {
	target := &Target{}
	c, ch := NewTestControl(t, target)

	ch <- []byte("paused: true\nspeed: 4\n")
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	RequireState(t, c, sieve.StateHealthy)
	if !target.Paused() {
		t.Error("expected target paused")
	}
	if target.Speed() != sieve.SpeedFast {
		t.Errorf("expected fast speed, got %s", target.Speed())
	}
}

func TestTarget_FailResets(t *testing.T) {
	target := &Target{}
	if err := target.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	boom := errors.New("boom")
	target.FailResets(boom)
	if err := target.Reset(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if target.Resets() != 1 {
		t.Errorf("expected 1 successful reset, got %d", target.Resets())
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.OnEvent("produced value 7")
	r.OnSum(2, sieve.Prime, 7)
	r.OnStats(sieve.Stats{Produced: 1})
	r.OnBuffer([]sieve.Item{sieve.Classify(7)})

	if !r.HasEvent("produced value 7") {
		t.Error("expected event recorded")
	}
	if !r.Eventf("produced value %d", 7) {
		t.Error("expected formatted event recorded")
	}
	if r.Sum(2) != 7 {
		t.Errorf("expected sum 7, got %d", r.Sum(2))
	}
	if r.Stats().Produced != 1 {
		t.Errorf("expected 1 produced, got %d", r.Stats().Produced)
	}
	if len(r.Buffer()) != 1 {
		t.Errorf("expected 1 buffered item, got %d", len(r.Buffer()))
	}
}
