package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

type causeCounts [components.CauseEaten + 1]int

// Collector accumulates events within tick windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int
	windowStartTick     int

	// Event counters for current window, indexed by species
	births      []int
	deaths      []causeCounts
	infections  []int
	spontaneous int
	meals       []int
	foodEaten   int
}

// NewCollector creates a new stats collector for numSpecies species.
func NewCollector(windowTicks, numSpecies int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: windowTicks,
		births:              make([]int, numSpecies),
		deaths:              make([]causeCounts, numSpecies),
		infections:          make([]int, numSpecies),
		meals:               make([]int, numSpecies),
	}
}

// Record counts a single event.
func (c *Collector) Record(ev Event) {
	if int(ev.Species) >= len(c.births) {
		return
	}
	switch ev.Type {
	case EventBirth:
		c.births[ev.Species]++
	case EventDeath:
		c.deaths[ev.Species][ev.Cause]++
	case EventInfection:
		c.infections[ev.Species]++
		if ev.Spontaneous {
			c.spontaneous++
		}
	case EventMeal:
		c.meals[ev.Species]++
		c.foodEaten += ev.Amount
	}
}

// Birth records a birth event.
func (c *Collector) Birth(tick int, parent, child ecs.Entity, species components.SpeciesID) {
	c.Record(NewBirthEvent(tick, child, parent, species))
}

// Death records a death event.
func (c *Collector) Death(tick int, e ecs.Entity, species components.SpeciesID, cause components.DeathCause) {
	c.Record(NewDeathEvent(tick, e, species, cause))
}

// Infection records an infection event.
func (c *Collector) Infection(tick int, e ecs.Entity, species components.SpeciesID, spontaneous bool) {
	c.Record(NewInfectionEvent(tick, e, species, spontaneous))
}

// Meal records a meal event.
func (c *Collector) Meal(tick int, eater ecs.Entity, species, prey components.SpeciesID, food int) {
	c.Record(NewMealEvent(tick, eater, species, prey, food))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the population state observed at the end of a window.
type Sample struct {
	Tick      int
	Weather   string
	Names     []string  // species names by ID
	Plant     []bool    // whether each species is a plant
	Counts    []int     // live organisms per species
	Infected  []int     // infected animals per species
	Lifespans []float64 // mean lifespan of the window's deaths per species

	AnimalFood []float64
	AnimalAge  []float64
	PlantFood  []float64
}

// Flush produces the window totals plus one row per species and resets
// counters for the next window.
func (c *Collector) Flush(s Sample) (WindowStats, []SpeciesStats) {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   s.Tick,
		Weather:         s.Weather,
		FoodEaten:       c.foodEaten,

		SpontaneousInfections: c.spontaneous,
	}

	rows := make([]SpeciesStats, len(c.births))
	for id := range c.births {
		row := SpeciesStats{WindowEnd: s.Tick, Births: c.births[id], Infections: c.infections[id], Meals: c.meals[id]}
		if id < len(s.Names) {
			row.Species = s.Names[id]
		}
		if id < len(s.Counts) {
			row.Count = s.Counts[id]
		}
		if id < len(s.Infected) {
			row.Infected = s.Infected[id]
		}
		if id < len(s.Lifespans) {
			row.MeanLifespan = s.Lifespans[id]
		}
		for _, cause := range components.DeathCauses {
			n := c.deaths[id][cause]
			row.Deaths += n
			stats.addDeaths(cause, n)
		}
		row.Eaten = c.deaths[id][components.CauseEaten]
		rows[id] = row

		if row.Count > 0 {
			stats.SpeciesAlive++
		}
		if id < len(s.Plant) && s.Plant[id] {
			stats.Plants += row.Count
		} else {
			stats.Animals += row.Count
		}
		stats.Births += row.Births
		stats.Deaths += row.Deaths
		stats.Infections += row.Infections
		stats.Infected += row.Infected
		stats.Meals += row.Meals
	}

	stats.FoodMean, stats.FoodStd, stats.FoodP10, stats.FoodP50, stats.FoodP90 = ComputeDistribution(s.AnimalFood)
	stats.AgeMean, _, _, stats.AgeP50, stats.AgeP90 = ComputeDistribution(s.AnimalAge)
	stats.PlantFoodMean, _, _, _, _ = ComputeDistribution(s.PlantFood)

	// Reset for next window
	c.windowStartTick = s.Tick
	clear(c.births)
	clear(c.deaths)
	clear(c.infections)
	clear(c.meals)
	c.spontaneous = 0
	c.foodEaten = 0

	return stats, rows
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int {
	return c.windowDurationTicks
}
