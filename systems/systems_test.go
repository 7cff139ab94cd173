package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/field"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
)

func forage(p float64) map[string]float64 {
	return map[string]float64{"sunny": p, "rainy": p, "foggy": p, "storm": p}
}

func testCatalog(t *testing.T) *species.Catalog {
	t.Helper()
	animals := []species.AnimalSpec{
		{
			Name: "fox", BreedingAge: 30, MaxAge: 120, BreedingProbability: 0.76,
			MaxLitterSize: 4, MaxFoodLevel: 19, Night: "hunter", NightProbability: 0.45,
			StormDeathProbability: 0.045, HuntRows: 2, HuntCols: 2,
			Diet: []string{"rabbit"}, Forage: forage(0.75),
		},
		{
			Name: "rabbit", BreedingAge: 14, MaxAge: 55, BreedingProbability: 0.94,
			MaxLitterSize: 8, MaxFoodLevel: 12, Night: "grazer", NightProbability: 0.69,
			FoodValue: 7, StormDeathProbability: 0.05,
			Diet: []string{"rose"}, Forage: forage(0.8),
		},
	}
	plants := []species.PlantSpec{
		{
			Name: "rose", MaxAge: 12, BreedingInterval: 1, MaxFoodValue: 14, InitialFoodValue: 5,
			SeedProbability: 0.7, StormDeathProbability: 0.12,
			Weather: map[string]species.PlantWeather{
				"sunny": {GrowthRate: 4, MaxSeeds: 9},
				"rainy": {GrowthRate: 3, MaxSeeds: 8},
				"foggy": {GrowthRate: 3, MaxSeeds: 7},
				"storm": {GrowthRate: 1, MaxSeeds: 2},
			},
		},
		{
			Name: "appletree", MaxAge: 100, BreedingInterval: 4, MaxFoodValue: 20, InitialFoodValue: 3,
			SeedProbability: 0.65, StormDeathProbability: 0.05,
			Weather: map[string]species.PlantWeather{
				"sunny": {GrowthRate: 4, MaxSeeds: 9},
				"rainy": {GrowthRate: 3, MaxSeeds: 7},
				"foggy": {GrowthRate: 3, MaxSeeds: 6},
				"storm": {GrowthRate: 1, MaxSeeds: 2},
			},
		},
	}
	c, err := species.Build(animals, plants)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return c
}

// recorder counts lifecycle events.
type recorder struct {
	births     int
	deaths     map[components.DeathCause]int
	infections int
	meals      int
}

func newRecorder() *recorder {
	return &recorder{deaths: make(map[components.DeathCause]int)}
}

func (r *recorder) Birth(int, ecs.Entity, ecs.Entity, components.SpeciesID) { r.births++ }
func (r *recorder) Death(_ int, _ ecs.Entity, _ components.SpeciesID, c components.DeathCause) {
	r.deaths[c]++
}
func (r *recorder) Infection(int, ecs.Entity, components.SpeciesID, bool) { r.infections++ }
func (r *recorder) Meal(int, ecs.Entity, components.SpeciesID, components.SpeciesID, int) {
	r.meals++
}

type harness struct {
	store   *Store
	fauna   *FaunaSystem
	flora   *FloraSystem
	events  *recorder
	catalog *species.Catalog
}

func newHarness(t *testing.T, depth, width int) *harness {
	t.Helper()
	f, err := field.New(depth, width)
	if err != nil {
		t.Fatal(err)
	}
	cat := testCatalog(t)
	rec := newRecorder()
	store := NewStore(f, cat, rec)
	breeding := NewBreedingSystem(store)
	return &harness{
		store:   store,
		fauna:   NewFaunaSystem(store, NewDiseaseSystem(store, DefaultDiseaseParams()), breeding),
		flora:   NewFloraSystem(store, breeding),
		events:  rec,
		catalog: cat,
	}
}

func (h *harness) animal(t *testing.T, name string, loc components.Location, female bool) ecs.Entity {
	t.Helper()
	id, _ := h.catalog.Lookup(name)
	gender := 0
	if female {
		gender = 1
	}
	e, err := h.store.SpawnAnimal(h.catalog.Animal(id), loc, false, &rng.Fixed{Int: gender})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func (h *harness) plant(t *testing.T, name string, loc components.Location) ecs.Entity {
	t.Helper()
	id, _ := h.catalog.Lookup(name)
	e, err := h.store.SpawnPlant(h.catalog.Plant(id), loc, false, &rng.Fixed{})
	if err != nil {
		t.Fatal(err)
	}
	return e
}

// quiet never triggers a probabilistic event.
func quiet() *rng.Fixed { return &rng.Fixed{Float: 0.999} }

func sunny(src rng.Source) Context {
	return Context{Tick: 1, Weather: environment.Sunny, Rand: src}
}

func assertDead(t *testing.T, h *harness, e ecs.Entity, cause components.DeathCause) {
	t.Helper()
	org := h.store.Organism(e)
	if org.Alive {
		t.Fatalf("organism alive, want dead of %v", cause)
	}
	if org.Cause != cause {
		t.Errorf("cause = %v, want %v", org.Cause, cause)
	}
	if h.store.Position(e).OnField {
		t.Error("dead organism still marked on field")
	}
	if _, ok := h.store.Field().LocationOf(e); ok {
		t.Error("dead organism still indexed by the field")
	}
}
