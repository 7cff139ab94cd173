package config

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/meadow/species"
)

// ConfigurationError reports a setting the simulation cannot run with.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration and fills Derived. Non-positive grid
// dimensions are rejected, never replaced.
func (c *Config) Validate() error {
	if c.World.Depth <= 0 || c.World.Width <= 0 {
		return invalid("world", "dimensions must be positive, got %dx%d", c.World.Depth, c.World.Width)
	}
	if c.Clock.HoursPerDay <= 0 {
		return invalid("clock.hours_per_day", "must be positive, got %d", c.Clock.HoursPerDay)
	}
	if c.Clock.DayStart < 0 || c.Clock.DayEnd >= c.Clock.HoursPerDay || c.Clock.DayStart > c.Clock.DayEnd {
		return invalid("clock", "day hours %d..%d outside a %d-hour day", c.Clock.DayStart, c.Clock.DayEnd, c.Clock.HoursPerDay)
	}
	for name, p := range map[string]float64{
		"weather.storm_probability":   c.Weather.StormProbability,
		"weather.foggy_probability":   c.Weather.FoggyProbability,
		"weather.rainy_probability":   c.Weather.RainyProbability,
		"disease.appear_probability":  c.Disease.AppearProbability,
		"disease.infect_probability":  c.Disease.InfectProbability,
		"disease.die_probability":     c.Disease.DieProbability,
		"bookmarks.outbreak_fraction": c.Bookmarks.OutbreakFraction,
	} {
		if p < 0 || p > 1 {
			return invalid(name, "probability %v outside [0,1]", p)
		}
	}
	if c.Weather.MaxDuration <= 0 {
		return invalid("weather.max_duration", "must be positive, got %d", c.Weather.MaxDuration)
	}
	if c.Disease.MaxInfectTime <= 0 {
		return invalid("disease.max_infect_time", "must be positive, got %d", c.Disease.MaxInfectTime)
	}
	if c.Telemetry.StatsWindow <= 0 {
		return invalid("telemetry.stats_window", "must be positive, got %d", c.Telemetry.StatsWindow)
	}

	catalog, err := species.Build(c.Animals, c.Plants)
	if err != nil {
		var se *species.Error
		if errors.As(err, &se) {
			field := se.Field
			if se.Species != "" {
				field = se.Species + "." + se.Field
			}
			return &ConfigurationError{Field: field, Reason: se.Reason, Err: err}
		}
		return &ConfigurationError{Field: "species", Reason: err.Error(), Err: err}
	}

	creation := make([]Creation, 0, len(c.Population))
	seen := make(map[string]bool, len(c.Population))
	for i, row := range c.Population {
		field := fmt.Sprintf("population[%d]", i)
		id, ok := catalog.Lookup(row.Species)
		if !ok {
			reason := fmt.Sprintf("unknown species %q", row.Species)
			if hint := species.Suggest(row.Species, catalog.Names()); hint != "" {
				reason += fmt.Sprintf(" (did you mean %q?)", hint)
			}
			return invalid(field, "%s", reason)
		}
		if seen[row.Species] {
			return invalid(field, "duplicate species %q", row.Species)
		}
		seen[row.Species] = true
		if row.Probability < 0 || row.Probability > 1 {
			return invalid(field, "probability %v outside [0,1]", row.Probability)
		}
		creation = append(creation, Creation{Species: id, Probability: row.Probability})
	}

	c.Derived = DerivedConfig{Catalog: catalog, Creation: creation}
	return nil
}
