// Package species holds the data-driven species descriptors. Every animal
// shares one lifecycle and every plant another; species differ only by the
// parameters collected here.
package species

import (
	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
)

// NightMode selects how an animal behaves at night.
type NightMode uint8

const (
	// Grazer gates reproduction and movement behind NightProbability.
	Grazer NightMode = iota
	// Hunter never breeds at night; NightProbability gates the hunger step.
	Hunter
)

func (m NightMode) String() string {
	if m == Hunter {
		return "hunter"
	}
	return "grazer"
}

// Radius is the half-extent of a rectangular hunting neighbourhood.
// The zero value means adjacent-only foraging.
type Radius struct {
	Rows, Cols int
}

// IsZero reports whether the radius falls back to the 8-neighbourhood.
func (r Radius) IsZero() bool { return r.Rows == 0 && r.Cols == 0 }

// Set is a bitset of species IDs.
type Set uint64

// Has reports membership.
func (s Set) Has(id components.SpeciesID) bool { return s&(1<<id) != 0 }

// With returns s plus id.
func (s Set) With(id components.SpeciesID) Set { return s | 1<<id }

// Animal is the resolved parameter table for one animal species.
type Animal struct {
	ID                    components.SpeciesID
	Name                  string
	BreedingAge           int
	MaxAge                int
	BreedingProbability   float64
	MaxLitterSize         int
	MaxFoodLevel          int
	Night                 NightMode
	NightProbability      float64
	FoodValue             int // yielded to a predator that eats this animal
	StormDeathProbability float64
	Hunt                  Radius
	Diet                  Set
	Infects               Set
	Forage                [environment.NumKinds]float64
}

// ForageProbability returns the chance a food search happens under w.
func (a *Animal) ForageProbability(w environment.Kind) float64 {
	return a.Forage[w]
}

// Growth is a plant's weather-dependent growth for one tick.
type Growth struct {
	GrowthRate int
	MaxSeeds   int
}

// Plant is the resolved parameter table for one plant species.
type Plant struct {
	ID                    components.SpeciesID
	Name                  string
	MaxAge                int
	BreedingInterval      int
	MaxFoodValue          int
	InitialFoodValue      int
	SeedProbability       float64
	StormDeathProbability float64
	Weather               [environment.NumKinds]Growth
}

// GrowthFor returns the growth table entry for w.
func (p *Plant) GrowthFor(w environment.Kind) Growth {
	return p.Weather[w]
}
