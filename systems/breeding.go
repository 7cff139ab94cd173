package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
)

// BreedingSystem places offspring of animals and plants.
type BreedingSystem struct {
	store *Store
}

// NewBreedingSystem creates a breeding system.
func NewBreedingSystem(store *Store) *BreedingSystem {
	return &BreedingSystem{store: store}
}

// LitterSize is zero unless the animal is of breeding age and the breeding
// roll succeeds, in which case it is uniform in [1, MaxLitterSize].
func LitterSize(src rng.Source, age int, desc *species.Animal) int {
	if age < desc.BreedingAge || src.Float64() > desc.BreedingProbability {
		return 0
	}
	return src.IntN(desc.MaxLitterSize) + 1
}

// SeedCount is zero unless age is a multiple of the breeding interval and
// the dispersal roll succeeds; otherwise uniform in [1, maxSeeds].
func SeedCount(src rng.Source, age, maxSeeds int, desc *species.Plant) int {
	if age%desc.BreedingInterval != 0 || src.Float64() > desc.SeedProbability {
		return 0
	}
	if maxSeeds < 1 {
		return 0
	}
	return src.IntN(maxSeeds) + 1
}

// HasMate reports whether a same-species animal of the opposite sex sits
// in the 8-neighbourhood of e.
func (b *BreedingSystem) HasMate(e ecs.Entity) bool {
	org := b.store.Organism(e)
	an := b.store.Animal(e)
	loc := b.store.Position(e).Loc
	for _, l := range b.store.field.NearLocations(loc) {
		other, ok := b.store.field.At(l)
		if !ok {
			continue
		}
		o := b.store.Organism(other)
		if o == nil || !o.Alive || o.Kind != components.KindAnimal || o.Species != org.Species {
			continue
		}
		if b.store.Animal(other).Female != an.Female {
			return true
		}
	}
	return false
}

// GiveBirth places a litter into the free neighbours of parent, consuming
// them front to back and stopping when they run out.
func (b *BreedingSystem) GiveBirth(ctx Context, parent ecs.Entity, desc *species.Animal) ([]ecs.Entity, error) {
	loc := b.store.Position(parent).Loc
	free := b.store.field.FreeAdjacentLocations(loc, ctx.Rand)
	births := LitterSize(ctx.Rand, b.store.Animal(parent).Age, desc)
	var young []ecs.Entity
	for i := 0; i < births && len(free) > 0; i++ {
		child, err := b.store.SpawnAnimal(desc, free[0], false, ctx.Rand)
		if err != nil {
			return young, err
		}
		free = free[1:]
		young = append(young, child)
		b.store.events.Birth(ctx.Tick, parent, child, desc.ID)
	}
	return young, nil
}

// DisperseSeeds places seedlings of parent into its free near cells.
func (b *BreedingSystem) DisperseSeeds(ctx Context, parent ecs.Entity, desc *species.Plant) ([]ecs.Entity, error) {
	loc := b.store.Position(parent).Loc
	free := b.store.field.FreeNearLocations(loc, ctx.Rand)
	pl := b.store.Plant(parent)
	seeds := SeedCount(ctx.Rand, pl.Age, pl.MaxSeeds, desc)
	var young []ecs.Entity
	for i := 0; i < seeds && len(free) > 0; i++ {
		child, err := b.store.SpawnPlant(desc, free[0], false, ctx.Rand)
		if err != nil {
			return young, err
		}
		free = free[1:]
		young = append(young, child)
		b.store.events.Birth(ctx.Tick, parent, child, desc.ID)
	}
	return young, nil
}
