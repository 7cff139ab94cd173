package systems

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/species"
)

// FaunaSystem drives the day and night actions of animals.
type FaunaSystem struct {
	store    *Store
	disease  *DiseaseSystem
	breeding *BreedingSystem
}

// NewFaunaSystem creates a fauna system.
func NewFaunaSystem(store *Store, disease *DiseaseSystem, breeding *BreedingSystem) *FaunaSystem {
	return &FaunaSystem{store: store, disease: disease, breeding: breeding}
}

func (s *FaunaSystem) begin(e ecs.Entity) (*species.Animal, error) {
	if _, err := s.store.living(e); err != nil {
		return nil, err
	}
	org := s.store.Organism(e)
	desc := s.store.catalog.Animal(org.Species)
	if desc == nil || !s.store.animalMap.Has(e) {
		return nil, fmt.Errorf("systems: %v is not an animal", e)
	}
	return desc, nil
}

// ActDay runs a daytime tick for e and returns the newborns it placed.
func (s *FaunaSystem) ActDay(ctx Context, e ecs.Entity) ([]ecs.Entity, error) {
	desc, err := s.begin(e)
	if err != nil {
		return nil, err
	}
	if !s.age(ctx, e, desc) || !s.hunger(ctx, e) {
		return nil, nil
	}
	if !s.disease.Update(ctx, e, desc) {
		return nil, nil
	}
	young, err := s.mate(ctx, e, desc)
	if err != nil {
		return young, err
	}
	return young, s.forage(ctx, e, desc)
}

// ActNight runs a night tick for e. Disease is not processed at night.
// Grazers act, breed included, only when the activity roll succeeds.
// Hunters never breed at night and get hungry only when the hunger roll
// succeeds.
func (s *FaunaSystem) ActNight(ctx Context, e ecs.Entity) ([]ecs.Entity, error) {
	desc, err := s.begin(e)
	if err != nil {
		return nil, err
	}
	if !s.age(ctx, e, desc) {
		return nil, nil
	}
	if desc.Night == species.Hunter {
		if ctx.Rand.Float64() < desc.NightProbability && !s.hunger(ctx, e) {
			return nil, nil
		}
		return nil, s.forage(ctx, e, desc)
	}
	if !s.hunger(ctx, e) {
		return nil, nil
	}
	if ctx.Rand.Float64() >= desc.NightProbability {
		return nil, nil
	}
	young, err := s.mate(ctx, e, desc)
	if err != nil {
		return young, err
	}
	return young, s.forage(ctx, e, desc)
}

// Act dispatches to ActDay or ActNight.
func (s *FaunaSystem) Act(ctx Context, e ecs.Entity, day bool) ([]ecs.Entity, error) {
	if day {
		return s.ActDay(ctx, e)
	}
	return s.ActNight(ctx, e)
}

func (s *FaunaSystem) age(ctx Context, e ecs.Entity, desc *species.Animal) bool {
	an := s.store.Animal(e)
	an.Age++
	if an.Age > desc.MaxAge {
		s.store.Kill(ctx.Tick, e, components.CauseOldAge)
		return false
	}
	return true
}

func (s *FaunaSystem) hunger(ctx Context, e ecs.Entity) bool {
	an := s.store.Animal(e)
	an.FoodLevel--
	if an.FoodLevel <= 0 {
		s.store.Kill(ctx.Tick, e, components.CauseStarvation)
		return false
	}
	return true
}

// mate gives birth when a partner of the opposite sex is adjacent and e is
// female.
func (s *FaunaSystem) mate(ctx Context, e ecs.Entity, desc *species.Animal) ([]ecs.Entity, error) {
	if !s.breeding.HasMate(e) || !s.store.Animal(e).Female {
		return nil, nil
	}
	return s.breeding.GiveBirth(ctx, e, desc)
}
