// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/species"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig          `yaml:"world"`
	Seed       int64                `yaml:"seed"`
	Clock      ClockConfig          `yaml:"clock"`
	Weather    WeatherConfig        `yaml:"weather"`
	Disease    DiseaseConfig        `yaml:"disease"`
	Population []CreationConfig     `yaml:"population"`
	Animals    []species.AnimalSpec `yaml:"animals"`
	Plants     []species.PlantSpec  `yaml:"plants"`
	Telemetry  TelemetryConfig      `yaml:"telemetry"`
	Bookmarks  BookmarksConfig      `yaml:"bookmarks"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the grid dimensions.
type WorldConfig struct {
	Depth int `yaml:"depth"`
	Width int `yaml:"width"`
}

// ClockConfig holds the day/night cycle.
type ClockConfig struct {
	HoursPerDay int `yaml:"hours_per_day"`
	DayStart    int `yaml:"day_start"`
	DayEnd      int `yaml:"day_end"`
}

// WeatherConfig holds the weather draw thresholds.
type WeatherConfig struct {
	StormProbability float64 `yaml:"storm_probability"`
	FoggyProbability float64 `yaml:"foggy_probability"`
	RainyProbability float64 `yaml:"rainy_probability"`
	MaxDuration      int     `yaml:"max_duration"`
}

// DiseaseConfig holds the disease constants.
type DiseaseConfig struct {
	AppearProbability float64 `yaml:"appear_probability"`
	InfectProbability float64 `yaml:"infect_probability"`
	DieProbability    float64 `yaml:"die_probability"`
	MaxInfectTime     int     `yaml:"max_infect_time"`
}

// CreationConfig is one row of the populate table.
type CreationConfig struct {
	Species     string  `yaml:"species"`
	Probability float64 `yaml:"probability"`
}

// TelemetryConfig holds stats and perf windows.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"`
	PerfWindow          int `yaml:"perf_window"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	OutbreakFraction float64               `yaml:"outbreak_fraction"`
	PopulationCrash  PopulationCrashConfig `yaml:"population_crash"`
	StableEcosystem  StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// PopulationCrashConfig holds animal population crash detection parameters.
type PopulationCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinSpecies    int     `yaml:"min_species"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// Creation is a resolved populate row.
type Creation struct {
	Species     components.SpeciesID
	Probability float64
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Catalog  *species.Catalog
	Creation []Creation
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies environment overrides and validates the result.
// Lists (animals, plants, population) in a user file replace the defaults
// wholesale.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the embedded defaults without environment overrides.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	return cfg, nil
}

// ClockValue converts the clock section.
func (c *Config) ClockValue() environment.Clock {
	return environment.Clock{
		HoursPerDay: c.Clock.HoursPerDay,
		DayStart:    c.Clock.DayStart,
		DayEnd:      c.Clock.DayEnd,
	}
}

// WeatherParams converts the weather section.
func (c *Config) WeatherParams() environment.WeatherParams {
	return environment.WeatherParams{
		StormProbability: c.Weather.StormProbability,
		FoggyProbability: c.Weather.FoggyProbability,
		RainyProbability: c.Weather.RainyProbability,
		MaxDuration:      c.Weather.MaxDuration,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
