package sieve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"
)

// Defaults for Generate, matching a source file a Pipeline drains in a few
// minutes at normal speed.
const (
	DefaultGenerateCount = 100
	DefaultGenerateMin   = 1
	DefaultGenerateMax   = 1000
)

// ErrInvalidRange is returned by Generate when low exceeds high or the range
// holds more values than an int can count.
var ErrInvalidRange = errors.New("low bound must not exceed high bound")

// Generate writes count uniformly random integers in [low, high] to w, one per
// line, in the layout FileSource reads. A nil rng uses the global source.
func Generate(w io.Writer, count, low, high int, rng *rand.Rand) error {
	if low > high {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, low, high)
	}
	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}

	// The span must fit in an int for IntN.
	diff := high - low
	if diff < 0 || diff == math.MaxInt {
		return fmt.Errorf("%w: [%d, %d] spans more than %d values", ErrInvalidRange, low, high, math.MaxInt)
	}
	span := diff + 1
	intn := rand.IntN
	if rng != nil {
		intn = rng.IntN
	}

	bw := bufio.NewWriter(w)
	for i := 0; i < count; i++ {
		n := low + intn(span)
		if _, err := bw.WriteString(strconv.Itoa(n) + "\n"); err != nil {
			return fmt.Errorf("writing numbers: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing numbers: %w", err)
	}
	return nil
}
