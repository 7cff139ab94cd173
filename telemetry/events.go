// Package telemetry provides ecosystem health tracking, bookmarking, metrics and CSV output.
package telemetry

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// EventType identifies telemetry events.
type EventType uint8

const (
	EventBirth EventType = iota
	EventDeath
	EventInfection
	EventMeal
)

// Event represents a single telemetry event.
type Event struct {
	Type    EventType
	Tick    int
	Entity  ecs.Entity
	Species components.SpeciesID

	// Optional fields depending on event type
	Other       ecs.Entity            // parent for births
	Cause       components.DeathCause // for deaths
	Prey        components.SpeciesID  // for meals
	Amount      int                   // food gained by a meal
	Spontaneous bool                  // infection without a carrier
}

// NewBirthEvent creates a birth event.
func NewBirthEvent(tick int, child, parent ecs.Entity, species components.SpeciesID) Event {
	return Event{
		Type:    EventBirth,
		Tick:    tick,
		Entity:  child,
		Species: species,
		Other:   parent,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int, e ecs.Entity, species components.SpeciesID, cause components.DeathCause) Event {
	return Event{
		Type:    EventDeath,
		Tick:    tick,
		Entity:  e,
		Species: species,
		Cause:   cause,
	}
}

// NewInfectionEvent creates an infection event.
func NewInfectionEvent(tick int, e ecs.Entity, species components.SpeciesID, spontaneous bool) Event {
	return Event{
		Type:        EventInfection,
		Tick:        tick,
		Entity:      e,
		Species:     species,
		Spontaneous: spontaneous,
	}
}

// NewMealEvent creates a meal event.
func NewMealEvent(tick int, eater ecs.Entity, species, prey components.SpeciesID, amount int) Event {
	return Event{
		Type:    EventMeal,
		Tick:    tick,
		Entity:  eater,
		Species: species,
		Prey:    prey,
		Amount:  amount,
	}
}
