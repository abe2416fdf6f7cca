package sieve

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestGenerate_RangeAndCount(t *testing.T) {
	var buf bytes.Buffer
	rng := rand.New(rand.NewPCG(1, 2))

	if err := Generate(&buf, 500, -5, 5, rng); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 500 {
		t.Fatalf("expected 500 lines, got %d", len(lines))
	}
	seen := make(map[int]bool)
	for _, line := range lines {
		n, err := strconv.Atoi(line)
		if err != nil {
			t.Fatalf("malformed line %q", line)
		}
		if n < -5 || n > 5 {
			t.Errorf("value %d out of range", n)
		}
		seen[n] = true
	}
	if !seen[-5] || !seen[5] {
		t.Error("expected both bounds to be reachable")
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	_ = Generate(&a, 20, 1, 1000, rand.New(rand.NewPCG(7, 7)))
	_ = Generate(&b, 20, 1, 1000, rand.New(rand.NewPCG(7, 7)))
	if a.String() != b.String() {
		t.Error("expected identical output for identical seeds")
	}
}

func TestGenerate_SingleValue(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, 3, 7, 7, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if buf.String() != "7\n7\n7\n" {
		t.Errorf("expected three sevens, got %q", buf.String())
	}
}

func TestGenerate_Invalid(t *testing.T) {
	var buf bytes.Buffer
	if err := Generate(&buf, 1, 10, 1, nil); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if err := Generate(&buf, -1, 1, 10, nil); err == nil {
		t.Error("expected error for negative count")
	}
	if buf.Len() != 0 {
		t.Error("nothing should be written on invalid input")
	}
}

func TestGenerate_ReadableByFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numeros.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if err := Generate(f, DefaultGenerateCount, DefaultGenerateMin, DefaultGenerateMax, nil); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	f.Close()

	src, err := FileSource(path).Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := drain(t, src); len(got) != DefaultGenerateCount {
		t.Errorf("expected %d tokens, got %d", DefaultGenerateCount, len(got))
	}
}

func TestGenerate_RejectsOverflowingRange(t *testing.T) {
	for _, r := range [][2]int{
		{math.MinInt, math.MaxInt},
		{math.MinInt, 0},
		{-1, math.MaxInt},
	} {
		err := Generate(&bytes.Buffer{}, 1, r[0], r[1], nil)
		if !errors.Is(err, ErrInvalidRange) {
			t.Errorf("[%d, %d]: expected ErrInvalidRange, got %v", r[0], r[1], err)
		}
	}
}

func TestGenerate_WidestValidRange(t *testing.T) {
	var buf bytes.Buffer
	rng := rand.New(rand.NewPCG(1, 2))
	if err := Generate(&buf, 5, 0, math.MaxInt-1, rng); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if n := len(strings.Fields(buf.String())); n != 5 {
		t.Errorf("expected 5 values, got %d", n)
	}
}
