package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/species"
)

// forage applies the weather effect, then moves e onto food or a free
// neighbour. An animal with nowhere to go dies of overcrowding.
func (s *FaunaSystem) forage(ctx Context, e ecs.Entity, desc *species.Animal) error {
	if ctx.Weather == environment.Storm && ctx.Rand.Float64() <= desc.StormDeathProbability {
		s.store.Kill(ctx.Tick, e, components.CauseStorm)
		return nil
	}
	loc := s.store.Position(e).Loc
	target, ok := s.findFood(ctx, e, loc, desc)
	if !ok {
		target, ok = s.store.field.FreeAdjacentLocation(loc, ctx.Rand)
	}
	if !ok {
		s.store.Kill(ctx.Tick, e, components.CauseOvercrowding)
		return nil
	}
	return s.store.Move(e, target)
}

// huntingGround is the 8-neighbourhood, or the hunting rectangle for
// species with a radius.
func (s *FaunaSystem) huntingGround(ctx Context, loc components.Location, desc *species.Animal) []components.Location {
	if desc.Hunt.IsZero() {
		return s.store.field.AdjacentLocations(loc, ctx.Rand)
	}
	return s.store.field.SurroundLocations(loc, desc.Hunt.Rows, desc.Hunt.Cols, ctx.Rand)
}

// findFood eats the first live organism in the hunting ground whose species
// is in the diet. The search only happens when the forage roll succeeds.
func (s *FaunaSystem) findFood(ctx Context, e ecs.Entity, loc components.Location, desc *species.Animal) (components.Location, bool) {
	ground := s.huntingGround(ctx, loc, desc)
	if ctx.Rand.Float64() > desc.ForageProbability(ctx.Weather) {
		return components.Location{}, false
	}
	for _, l := range ground {
		prey, ok := s.store.field.At(l)
		if !ok || prey == e {
			continue
		}
		org := s.store.Organism(prey)
		if org == nil || !org.Alive || !desc.Diet.Has(org.Species) {
			continue
		}
		value := s.foodValue(prey, org)
		preySpecies := org.Species
		s.store.Kill(ctx.Tick, prey, components.CauseEaten)

		an := s.store.Animal(e)
		an.FoodLevel = min(an.FoodLevel+value, desc.MaxFoodLevel)
		s.store.events.Meal(ctx.Tick, e, desc.ID, preySpecies, value)
		return l, true
	}
	return components.Location{}, false
}

// foodValue is what the eater gains: a plant's current food value or the
// prey species' fixed value.
func (s *FaunaSystem) foodValue(prey ecs.Entity, org *components.Organism) int {
	if org.Kind == components.KindPlant {
		return s.store.Plant(prey).FoodValue
	}
	return s.store.catalog.Animal(org.Species).FoodValue
}
