package systems

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/field"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
)

// ErrDeadOrganism is returned when an action targets an organism that is
// dead or no longer sits on the field.
var ErrDeadOrganism = errors.New("systems: organism is dead or off the field")

// Store owns the ECS world and the component maps shared by every system.
type Store struct {
	world   *ecs.World
	field   *field.Field
	catalog *species.Catalog
	events  Recorder

	animalMapper *ecs.Map3[components.Organism, components.Position, components.Animal]
	plantMapper  *ecs.Map3[components.Organism, components.Position, components.Plant]

	orgMap    *ecs.Map[components.Organism]
	posMap    *ecs.Map[components.Position]
	animalMap *ecs.Map[components.Animal]
	plantMap  *ecs.Map[components.Plant]
}

// NewStore creates an empty world bound to f.
func NewStore(f *field.Field, catalog *species.Catalog, events Recorder) *Store {
	if events == nil {
		events = NopRecorder{}
	}
	world := ecs.NewWorld()
	return &Store{
		world:        world,
		field:        f,
		catalog:      catalog,
		events:       events,
		animalMapper: ecs.NewMap3[components.Organism, components.Position, components.Animal](world),
		plantMapper:  ecs.NewMap3[components.Organism, components.Position, components.Plant](world),
		orgMap:       ecs.NewMap[components.Organism](world),
		posMap:       ecs.NewMap[components.Position](world),
		animalMap:    ecs.NewMap[components.Animal](world),
		plantMap:     ecs.NewMap[components.Plant](world),
	}
}

// World exposes the ECS world for filters built by callers.
func (s *Store) World() *ecs.World { return s.world }

// Field returns the grid the store places organisms on.
func (s *Store) Field() *field.Field { return s.field }

// Catalog returns the species catalog.
func (s *Store) Catalog() *species.Catalog { return s.catalog }

// Events returns the recorder.
func (s *Store) Events() Recorder { return s.events }

// SpawnAnimal creates an animal at loc. Random organisms get a random age
// and food level; newborns start at age zero and full food.
func (s *Store) SpawnAnimal(desc *species.Animal, loc components.Location, random bool, src rng.Source) (ecs.Entity, error) {
	if !s.field.Contains(loc) {
		return ecs.Entity{}, &field.InvariantError{Op: "spawn", Loc: loc, Reason: "out of bounds"}
	}
	an := components.Animal{FoodLevel: desc.MaxFoodLevel}
	if random {
		an.Age = src.IntN(desc.MaxAge)
		an.FoodLevel = src.IntN(desc.MaxFoodLevel)
	}
	an.Female = src.IntN(2) == 1
	org := components.Organism{Species: desc.ID, Kind: components.KindAnimal, Alive: true}
	pos := components.Position{Loc: loc, OnField: true}
	e := s.animalMapper.NewEntity(&org, &pos, &an)
	if err := s.field.Place(e, loc); err != nil {
		return ecs.Entity{}, err
	}
	return e, nil
}

// SpawnPlant creates a plant at loc. Newborn plants start at the species'
// initial food value.
func (s *Store) SpawnPlant(desc *species.Plant, loc components.Location, random bool, src rng.Source) (ecs.Entity, error) {
	if !s.field.Contains(loc) {
		return ecs.Entity{}, &field.InvariantError{Op: "spawn", Loc: loc, Reason: "out of bounds"}
	}
	pl := components.Plant{FoodValue: desc.InitialFoodValue}
	if random {
		pl.Age = src.IntN(desc.MaxAge)
		pl.FoodValue = src.IntN(desc.MaxFoodValue)
	}
	org := components.Organism{Species: desc.ID, Kind: components.KindPlant, Alive: true}
	pos := components.Position{Loc: loc, OnField: true}
	e := s.plantMapper.NewEntity(&org, &pos, &pl)
	if err := s.field.Place(e, loc); err != nil {
		return ecs.Entity{}, err
	}
	return e, nil
}

// Organism returns the shared component of e, or nil if e is gone.
func (s *Store) Organism(e ecs.Entity) *components.Organism {
	if !s.world.Alive(e) {
		return nil
	}
	return s.orgMap.Get(e)
}

// Position returns the position component of e, or nil if e is gone.
func (s *Store) Position(e ecs.Entity) *components.Position {
	if !s.world.Alive(e) {
		return nil
	}
	return s.posMap.Get(e)
}

// Animal returns the animal component of e, or nil.
func (s *Store) Animal(e ecs.Entity) *components.Animal {
	if !s.world.Alive(e) || !s.animalMap.Has(e) {
		return nil
	}
	return s.animalMap.Get(e)
}

// Plant returns the plant component of e, or nil.
func (s *Store) Plant(e ecs.Entity) *components.Plant {
	if !s.world.Alive(e) || !s.plantMap.Has(e) {
		return nil
	}
	return s.plantMap.Get(e)
}

// IsAlive reports whether e exists and has not died.
func (s *Store) IsAlive(e ecs.Entity) bool {
	org := s.Organism(e)
	return org != nil && org.Alive
}

// living checks that e may act and returns its location.
func (s *Store) living(e ecs.Entity) (components.Location, error) {
	org := s.Organism(e)
	if org == nil || !org.Alive {
		return components.Location{}, fmt.Errorf("%w: %v", ErrDeadOrganism, e)
	}
	pos := s.posMap.Get(e)
	loc, ok := s.field.LocationOf(e)
	if !pos.OnField || !ok || loc != pos.Loc {
		return components.Location{}, fmt.Errorf("%w: %v has no cell", ErrDeadOrganism, e)
	}
	return loc, nil
}

// Move relocates a living organism to loc.
func (s *Store) Move(e ecs.Entity, loc components.Location) error {
	if err := s.field.Place(e, loc); err != nil {
		return err
	}
	s.posMap.Get(e).Loc = loc
	return nil
}

// Kill marks e dead and clears its cell in one step. Killing a dead
// organism is a no-op.
func (s *Store) Kill(tick int, e ecs.Entity, cause components.DeathCause) {
	org := s.Organism(e)
	if org == nil || !org.Alive {
		return
	}
	org.Alive = false
	org.Cause = cause
	pos := s.posMap.Get(e)
	pos.OnField = false
	s.field.Remove(e)
	s.events.Death(tick, e, org.Species, cause)
}

// Remove deletes a dead entity from the world.
func (s *Store) Remove(e ecs.Entity) {
	if !s.world.Alive(e) {
		return
	}
	s.field.Remove(e)
	s.world.RemoveEntity(e)
}

// Reset drops every entity and empties the field.
func (s *Store) Reset() {
	s.world = ecs.NewWorld()
	s.animalMapper = ecs.NewMap3[components.Organism, components.Position, components.Animal](s.world)
	s.plantMapper = ecs.NewMap3[components.Organism, components.Position, components.Plant](s.world)
	s.orgMap = ecs.NewMap[components.Organism](s.world)
	s.posMap = ecs.NewMap[components.Position](s.world)
	s.animalMap = ecs.NewMap[components.Animal](s.world)
	s.plantMap = ecs.NewMap[components.Plant](s.world)
	s.field.ClearAll()
}
