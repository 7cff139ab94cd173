package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are the settings that may come from the environment.
// Unset variables leave the pointer nil and the file value untouched.
type envOverrides struct {
	Seed        *int64 `env:"MEADOW_SEED"`
	Depth       *int   `env:"MEADOW_DEPTH"`
	Width       *int   `env:"MEADOW_WIDTH"`
	StatsWindow *int   `env:"MEADOW_STATS_WINDOW"`
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	if o.Depth != nil {
		cfg.World.Depth = *o.Depth
	}
	if o.Width != nil {
		cfg.World.Width = *o.Width
	}
	if o.StatsWindow != nil {
		cfg.Telemetry.StatsWindow = *o.StatsWindow
	}
	return nil
}
