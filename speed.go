package sieve

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSpeed is returned for speed presets outside 1..5.
var ErrInvalidSpeed = errors.New("speed must be between 1 and 5")

// Speed selects the producer and consumer delays.
type Speed int

// Speed presets, slowest to fastest.
const (
	SpeedVerySlow Speed = iota + 1
	SpeedSlow
	SpeedNormal
	SpeedFast
	SpeedVeryFast
)

// DefaultSpeed is used when no speed is configured.
const DefaultSpeed = SpeedNormal

// Delays is the pause each loop takes after a unit of work.
type Delays struct {
	Producer time.Duration
	Consumer time.Duration
}

var presets = map[Speed]Delays{
	SpeedVerySlow: {Producer: 2000 * time.Millisecond, Consumer: 3000 * time.Millisecond},
	SpeedSlow:     {Producer: 1000 * time.Millisecond, Consumer: 1500 * time.Millisecond},
	SpeedNormal:   {Producer: 500 * time.Millisecond, Consumer: 800 * time.Millisecond},
	SpeedFast:     {Producer: 200 * time.Millisecond, Consumer: 300 * time.Millisecond},
	SpeedVeryFast: {Producer: 50 * time.Millisecond, Consumer: 100 * time.Millisecond},
}

// Validate reports whether s is a known preset.
func (s Speed) Validate() error {
	if _, ok := presets[s]; !ok {
		return fmt.Errorf("%w, got %d", ErrInvalidSpeed, int(s))
	}
	return nil
}

// Delays returns the delays for the preset. Unknown presets map to DefaultSpeed.
func (s Speed) Delays() Delays {
	if d, ok := presets[s]; ok {
		return d
	}
	return presets[DefaultSpeed]
}

// String returns the string representation of the speed.
func (s Speed) String() string {
	switch s {
	case SpeedVerySlow:
		return "very slow"
	case SpeedSlow:
		return "slow"
	case SpeedNormal:
		return "normal"
	case SpeedFast:
		return "fast"
	case SpeedVeryFast:
		return "very fast"
	default:
		return "unknown"
	}
}
