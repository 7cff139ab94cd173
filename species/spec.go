package species

import (
	"fmt"

	"github.com/pthm-cable/meadow/environment"
)

// AnimalSpec is the configuration form of an animal species.
type AnimalSpec struct {
	Name                  string             `yaml:"name"`
	BreedingAge           int                `yaml:"breeding_age"`
	MaxAge                int                `yaml:"max_age"`
	BreedingProbability   float64            `yaml:"breeding_probability"`
	MaxLitterSize         int                `yaml:"max_litter_size"`
	MaxFoodLevel          int                `yaml:"max_food_level"`
	Night                 string             `yaml:"night"` // "grazer" or "hunter"
	NightProbability      float64            `yaml:"night_probability"`
	FoodValue             int                `yaml:"food_value"`
	StormDeathProbability float64            `yaml:"storm_death_probability"`
	HuntRows              int                `yaml:"hunt_rows"`
	HuntCols              int                `yaml:"hunt_cols"`
	Diet                  []string           `yaml:"diet"`
	Infects               []string           `yaml:"infects,omitempty"` // empty = every animal species
	Forage                map[string]float64 `yaml:"forage"`
}

// PlantWeather is one row of a plant's weather table.
type PlantWeather struct {
	GrowthRate int `yaml:"growth_rate"`
	MaxSeeds   int `yaml:"max_seeds"`
}

// PlantSpec is the configuration form of a plant species.
type PlantSpec struct {
	Name                  string                  `yaml:"name"`
	MaxAge                int                     `yaml:"max_age"`
	BreedingInterval      int                     `yaml:"breeding_interval"`
	MaxFoodValue          int                     `yaml:"max_food_value"`
	InitialFoodValue      int                     `yaml:"initial_food_value"`
	SeedProbability       float64                 `yaml:"seed_probability"`
	StormDeathProbability float64                 `yaml:"storm_death_probability"`
	Weather               map[string]PlantWeather `yaml:"weather"`
}

// Error reports an invalid species table entry.
type Error struct {
	Species string
	Field   string
	Reason  string
}

func (e *Error) Error() string {
	if e.Species == "" {
		return fmt.Sprintf("species: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("species %q: %s: %s", e.Species, e.Field, e.Reason)
}

func checkProbability(species, field string, p float64) error {
	if p < 0 || p > 1 {
		return &Error{Species: species, Field: field, Reason: fmt.Sprintf("probability %v outside [0,1]", p)}
	}
	return nil
}

func checkPositive(species, field string, v int) error {
	if v <= 0 {
		return &Error{Species: species, Field: field, Reason: fmt.Sprintf("must be positive, got %d", v)}
	}
	return nil
}

func (s *AnimalSpec) validate() error {
	checks := []error{
		checkPositive(s.Name, "max_age", s.MaxAge),
		checkPositive(s.Name, "max_litter_size", s.MaxLitterSize),
		checkPositive(s.Name, "max_food_level", s.MaxFoodLevel),
		checkProbability(s.Name, "breeding_probability", s.BreedingProbability),
		checkProbability(s.Name, "night_probability", s.NightProbability),
		checkProbability(s.Name, "storm_death_probability", s.StormDeathProbability),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if s.BreedingAge < 0 {
		return &Error{Species: s.Name, Field: "breeding_age", Reason: "must not be negative"}
	}
	if s.FoodValue < 0 {
		return &Error{Species: s.Name, Field: "food_value", Reason: "must not be negative"}
	}
	if s.HuntRows < 0 || s.HuntCols < 0 {
		return &Error{Species: s.Name, Field: "hunt_rows/hunt_cols", Reason: "must not be negative"}
	}
	if s.Night != "" && s.Night != Grazer.String() && s.Night != Hunter.String() {
		return &Error{Species: s.Name, Field: "night", Reason: fmt.Sprintf("unknown night mode %q", s.Night)}
	}
	for name := range s.Forage {
		if _, err := environment.ParseKind(name); err != nil {
			return &Error{Species: s.Name, Field: "forage", Reason: err.Error()}
		}
	}
	for _, k := range environment.Kinds {
		p, ok := s.Forage[k.String()]
		if !ok {
			return &Error{Species: s.Name, Field: "forage", Reason: "missing entry for " + k.String()}
		}
		if err := checkProbability(s.Name, "forage."+k.String(), p); err != nil {
			return err
		}
	}
	return nil
}

func (s *PlantSpec) validate() error {
	checks := []error{
		checkPositive(s.Name, "max_age", s.MaxAge),
		checkPositive(s.Name, "breeding_interval", s.BreedingInterval),
		checkPositive(s.Name, "max_food_value", s.MaxFoodValue),
		checkProbability(s.Name, "seed_probability", s.SeedProbability),
		checkProbability(s.Name, "storm_death_probability", s.StormDeathProbability),
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	if s.InitialFoodValue < 0 || s.InitialFoodValue > s.MaxFoodValue {
		return &Error{Species: s.Name, Field: "initial_food_value", Reason: fmt.Sprintf("must be in [0,%d]", s.MaxFoodValue)}
	}
	for name := range s.Weather {
		if _, err := environment.ParseKind(name); err != nil {
			return &Error{Species: s.Name, Field: "weather", Reason: err.Error()}
		}
	}
	for _, k := range environment.Kinds {
		g, ok := s.Weather[k.String()]
		if !ok {
			return &Error{Species: s.Name, Field: "weather", Reason: "missing entry for " + k.String()}
		}
		if g.GrowthRate < 0 {
			return &Error{Species: s.Name, Field: "weather." + k.String() + ".growth_rate", Reason: "must not be negative"}
		}
		if err := checkPositive(s.Name, "weather."+k.String()+".max_seeds", g.MaxSeeds); err != nil {
			return err
		}
	}
	return nil
}
