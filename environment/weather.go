// Package environment models the process-wide weather and the day/night clock.
package environment

import (
	"fmt"

	"github.com/pthm-cable/meadow/rng"
)

// Kind is the weather in effect for a tick.
type Kind uint8

const (
	Sunny Kind = iota
	Rainy
	Foggy
	Storm

	// NumKinds is the number of weather kinds.
	NumKinds = 4
)

// Kinds lists every weather kind in declaration order.
var Kinds = [NumKinds]Kind{Sunny, Rainy, Foggy, Storm}

func (k Kind) String() string {
	switch k {
	case Sunny:
		return "sunny"
	case Rainy:
		return "rainy"
	case Foggy:
		return "foggy"
	case Storm:
		return "storm"
	}
	return fmt.Sprintf("weather(%d)", uint8(k))
}

// ParseKind maps a weather name back to its Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return Sunny, fmt.Errorf("unknown weather %q", s)
}

// WeatherParams holds the draw thresholds and the duration bound.
type WeatherParams struct {
	StormProbability float64
	FoggyProbability float64
	RainyProbability float64
	MaxDuration      int
}

// DefaultWeatherParams returns the stock weather table.
func DefaultWeatherParams() WeatherParams {
	return WeatherParams{
		StormProbability: 0.005,
		FoggyProbability: 0.12,
		RainyProbability: 0.05,
		MaxDuration:      7,
	}
}

// Weather is the autocorrelated weather state machine. A new kind is drawn
// only when the remaining duration reaches zero.
type Weather struct {
	params    WeatherParams
	kind      Kind
	remaining int
}

// NewWeather starts sunny with one tick remaining, so the first Advance draws.
func NewWeather(params WeatherParams) *Weather {
	if params.MaxDuration < 1 {
		params.MaxDuration = 1
	}
	return &Weather{params: params, kind: Sunny, remaining: 1}
}

// Advance moves the weather one tick forward.
// Thresholds are checked storm, foggy, rainy with an independent draw each;
// this is a biased sequential draw, not a categorical distribution.
func (w *Weather) Advance(src rng.Source) {
	w.remaining--
	if w.remaining > 0 {
		return
	}
	switch {
	case src.Float64() < w.params.StormProbability:
		w.kind = Storm
	case src.Float64() < w.params.FoggyProbability:
		w.kind = Foggy
	case src.Float64() < w.params.RainyProbability:
		w.kind = Rainy
	default:
		w.kind = Sunny
	}
	w.remaining = src.IntN(w.params.MaxDuration) + 1
}

// Kind returns the current weather.
func (w *Weather) Kind() Kind { return w.kind }

// Remaining returns the ticks left before the next draw.
func (w *Weather) Remaining() int { return w.remaining }

// Force overrides the current state. Used by scenario setups and tests.
func (w *Weather) Force(kind Kind, remaining int) {
	w.kind = kind
	w.remaining = remaining
}
