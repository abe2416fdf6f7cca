package sieve

import (
	"context"
	"testing"
)

func TestApply_InitialDocument(t *testing.T) {
	target := &fakeTarget{}
	req := &Request{Current: ControlSpec{Paused: true, Speed: SpeedFast, Reset: 4}, Initial: true}

	if err := apply(context.Background(), target, req); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if !target.paused {
		t.Error("expected paused")
	}
	if target.speed != SpeedFast {
		t.Errorf("expected fast, got %s", target.speed)
	}
	if target.resets != 0 {
		t.Errorf("initial document must not reset, got %d resets", target.resets)
	}
}

func TestApply_ResetGeneration(t *testing.T) {
	target := &fakeTarget{}
	ctx := context.Background()

	steps := []struct {
		prev, curr int
		resets     int
	}{
		{0, 1, 1},
		{1, 1, 1},
		{1, 3, 2},
		{3, 2, 2},
	}
	for _, s := range steps {
		req := &Request{Previous: ControlSpec{Reset: s.prev}, Current: ControlSpec{Reset: s.curr}}
		if err := apply(ctx, target, req); err != nil {
			t.Fatalf("apply failed: %v", err)
		}
		if target.resets != s.resets {
			t.Errorf("reset %d -> %d: expected %d total resets, got %d", s.prev, s.curr, s.resets, target.resets)
		}
	}
}

func TestApply_SpeedOnlyWhenChanged(t *testing.T) {
	target := &fakeTarget{}
	ctx := context.Background()

	_ = apply(ctx, target, &Request{Previous: ControlSpec{Speed: SpeedFast}, Current: ControlSpec{Speed: SpeedFast}})
	if target.speedCalls != 0 {
		t.Errorf("unchanged speed applied %d times", target.speedCalls)
	}
	_ = apply(ctx, target, &Request{Previous: ControlSpec{Speed: SpeedFast}, Current: ControlSpec{}})
	if target.speedCalls != 0 {
		t.Errorf("zero speed applied %d times", target.speedCalls)
	}
	_ = apply(ctx, target, &Request{Previous: ControlSpec{Speed: SpeedFast}, Current: ControlSpec{Speed: SpeedSlow}})
	if target.speedCalls != 1 || target.speed != SpeedSlow {
		t.Errorf("expected one call to slow, got %d calls, %s", target.speedCalls, target.speed)
	}
}
