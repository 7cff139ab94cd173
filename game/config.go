package game

import (
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

// Options holds everything needed to build a Simulator.
type Options struct {
	Depth int
	Width int

	Seed int64
	Rand rng.Source // replaces the seeded generator when set

	Clock    environment.Clock
	Weather  environment.WeatherParams
	Disease  systems.DiseaseParams
	Catalog  *species.Catalog
	Creation []config.Creation // populate order, first match wins

	// Events receives organism events in addition to telemetry.
	Events systems.Recorder

	// Telemetry
	LogStats        bool
	OutputDir       string
	Config          *config.Config // written to OutputDir when set
	StatsWindow     int
	PerfWindow      int
	BookmarkHistory int
	Bookmarks       config.BookmarksConfig
	StatsCallback   func(telemetry.WindowStats, []telemetry.SpeciesStats)
}

// OptionsFromConfig builds options from a validated configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Depth:   cfg.World.Depth,
		Width:   cfg.World.Width,
		Seed:    cfg.Seed,
		Clock:   cfg.ClockValue(),
		Weather: cfg.WeatherParams(),
		Disease: systems.DiseaseParams{
			AppearProbability: cfg.Disease.AppearProbability,
			InfectProbability: cfg.Disease.InfectProbability,
			DieProbability:    cfg.Disease.DieProbability,
			MaxInfectTime:     cfg.Disease.MaxInfectTime,
		},
		Catalog:         cfg.Derived.Catalog,
		Creation:        cfg.Derived.Creation,
		Config:          cfg,
		StatsWindow:     cfg.Telemetry.StatsWindow,
		PerfWindow:      cfg.Telemetry.PerfWindow,
		BookmarkHistory: cfg.Telemetry.BookmarkHistorySize,
		Bookmarks:       cfg.Bookmarks,
	}
}
