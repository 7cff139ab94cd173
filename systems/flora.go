package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
)

// FloraSystem drives plant growth and seed dispersal.
type FloraSystem struct {
	store    *Store
	breeding *BreedingSystem
}

// NewFloraSystem creates a flora system.
func NewFloraSystem(store *Store, breeding *BreedingSystem) *FloraSystem {
	return &FloraSystem{store: store, breeding: breeding}
}

// Act ages the plant, applies the weather, grows it and disperses seeds.
// Plants act the same by day and night.
func (s *FloraSystem) Act(ctx Context, e ecs.Entity) ([]ecs.Entity, error) {
	if _, err := s.store.living(e); err != nil {
		return nil, err
	}
	org := s.store.Organism(e)
	desc := s.store.catalog.Plant(org.Species)
	if desc == nil || !s.store.plantMap.Has(e) {
		return nil, fmt.Errorf("systems: %v is not a plant", e)
	}

	pl := s.store.Plant(e)
	pl.Age++
	if pl.Age > desc.MaxAge {
		s.store.Kill(ctx.Tick, e, components.CauseOldAge)
		return nil, nil
	}

	g := desc.GrowthFor(ctx.Weather)
	pl.GrowthRate = g.GrowthRate
	pl.MaxSeeds = g.MaxSeeds
	if ctx.Weather == environment.Storm && ctx.Rand.Float64() <= desc.StormDeathProbability {
		s.store.Kill(ctx.Tick, e, components.CauseStorm)
		return nil, nil
	}

	pl.FoodValue = min(pl.FoodValue+pl.GrowthRate, desc.MaxFoodValue)
	return s.breeding.DisperseSeeds(ctx, e, desc)
}
