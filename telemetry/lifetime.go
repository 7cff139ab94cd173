package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// LifetimeStats tracks per-organism statistics over its lifetime.
type LifetimeStats struct {
	Species   components.SpeciesID
	BirthTick int

	// Reproduction
	Children int

	// Feeding
	Meals     int
	FoodEaten int

	Infections int
}

// LifetimeTracker manages per-organism lifetime statistics and the mean
// lifespan of organisms that died in the current window.
type LifetimeTracker struct {
	stats map[ecs.Entity]*LifetimeStats

	lifespanSum   []float64
	lifespanCount []int
}

// NewLifetimeTracker creates a new lifetime tracker for numSpecies species.
func NewLifetimeTracker(numSpecies int) *LifetimeTracker {
	return &LifetimeTracker{
		stats:         make(map[ecs.Entity]*LifetimeStats),
		lifespanSum:   make([]float64, numSpecies),
		lifespanCount: make([]int, numSpecies),
	}
}

// Register creates lifetime stats for an organism. birthTick may lie before
// the current tick for organisms created with a non-zero age.
func (lt *LifetimeTracker) Register(e ecs.Entity, species components.SpeciesID, birthTick int) {
	lt.stats[e] = &LifetimeStats{
		Species:   species,
		BirthTick: birthTick,
	}
}

// Get returns the lifetime stats for an organism, or nil if not found.
func (lt *LifetimeTracker) Get(e ecs.Entity) *LifetimeStats {
	return lt.stats[e]
}

// Remove removes an organism's stats and returns them.
func (lt *LifetimeTracker) Remove(e ecs.Entity) *LifetimeStats {
	stats := lt.stats[e]
	delete(lt.stats, e)
	return stats
}

// Birth registers the child and credits the parent.
func (lt *LifetimeTracker) Birth(tick int, parent, child ecs.Entity, species components.SpeciesID) {
	if s := lt.stats[parent]; s != nil {
		s.Children++
	}
	lt.Register(child, species, tick)
}

// Death accumulates the organism's lifespan and drops its stats.
func (lt *LifetimeTracker) Death(tick int, e ecs.Entity, species components.SpeciesID, _ components.DeathCause) {
	s := lt.Remove(e)
	if s == nil || int(species) >= len(lt.lifespanSum) {
		return
	}
	lt.lifespanSum[species] += float64(tick - s.BirthTick)
	lt.lifespanCount[species]++
}

// Infection counts infections caught over the organism's life.
func (lt *LifetimeTracker) Infection(_ int, e ecs.Entity, _ components.SpeciesID, _ bool) {
	if s := lt.stats[e]; s != nil {
		s.Infections++
	}
}

// Meal counts meals and food gained.
func (lt *LifetimeTracker) Meal(_ int, eater ecs.Entity, _, _ components.SpeciesID, food int) {
	if s := lt.stats[eater]; s != nil {
		s.Meals++
		s.FoodEaten += food
	}
}

// MeanLifespans returns the mean lifespan per species of organisms that died
// since the last call, and resets the accumulators.
func (lt *LifetimeTracker) MeanLifespans() []float64 {
	means := make([]float64, len(lt.lifespanSum))
	for id, n := range lt.lifespanCount {
		if n > 0 {
			means[id] = lt.lifespanSum[id] / float64(n)
		}
	}
	clear(lt.lifespanSum)
	clear(lt.lifespanCount)
	return means
}

// Count returns the number of tracked organisms.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// Reset drops all tracked organisms.
func (lt *LifetimeTracker) Reset() {
	clear(lt.stats)
	clear(lt.lifespanSum)
	clear(lt.lifespanCount)
}
