package systems

import (
	"errors"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/rng"
)

func TestOvercrowdingOnSingleCell(t *testing.T) {
	h := newHarness(t, 1, 1)
	e := h.animal(t, "rabbit", components.At(0, 0), false)

	if _, err := h.fauna.ActDay(sunny(quiet()), e); err != nil {
		t.Fatal(err)
	}
	assertDead(t, h, e, components.CauseOvercrowding)
	if h.store.Field().Count() != 0 {
		t.Errorf("field count = %d, want 0", h.store.Field().Count())
	}
}

func TestStarvationBoundary(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)
	h.store.Animal(e).FoodLevel = 1

	if _, err := h.fauna.ActDay(sunny(quiet()), e); err != nil {
		t.Fatal(err)
	}
	if got := h.store.Animal(e).FoodLevel; got != 0 {
		t.Errorf("food level = %d, want 0", got)
	}
	assertDead(t, h, e, components.CauseStarvation)
}

func TestAgingBoundary(t *testing.T) {
	h := newHarness(t, 3, 3)
	young := h.animal(t, "rabbit", components.At(0, 0), false)
	old := h.animal(t, "rabbit", components.At(2, 2), false)
	maxAge := h.catalog.Animal(h.store.Organism(old).Species).MaxAge
	h.store.Animal(young).Age = maxAge - 1
	h.store.Animal(old).Age = maxAge

	for _, e := range []ecs.Entity{young, old} {
		if _, err := h.fauna.ActNight(sunny(quiet()), e); err != nil {
			t.Fatal(err)
		}
	}
	if !h.store.IsAlive(young) || h.store.Animal(young).Age != maxAge {
		t.Errorf("young: alive=%v age=%d, want alive at %d", h.store.IsAlive(young), h.store.Animal(young).Age, maxAge)
	}
	assertDead(t, h, old, components.CauseOldAge)
}

func TestActingOnDeadOrganism(t *testing.T) {
	h := newHarness(t, 1, 1)
	e := h.animal(t, "rabbit", components.At(0, 0), false)
	h.store.Kill(0, e, components.CauseStorm)

	if _, err := h.fauna.ActDay(sunny(quiet()), e); !errors.Is(err, ErrDeadOrganism) {
		t.Errorf("ActDay error = %v, want ErrDeadOrganism", err)
	}
	if h.events.deaths[components.CauseStorm] != 1 {
		t.Errorf("storm deaths = %d, want 1", h.events.deaths[components.CauseStorm])
	}

	// A second kill does not record another death.
	h.store.Kill(0, e, components.CauseDisease)
	if h.store.Organism(e).Cause != components.CauseStorm {
		t.Error("cause changed after a second kill")
	}
}

func TestHunterEatsWithinRadius(t *testing.T) {
	tests := []struct {
		name  string
		food  int
		wantF int
	}{
		{"adds value", 5, 5 - 1 + 7},
		{"capped", 18, 19},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, 5, 5)
			fox := h.animal(t, "fox", components.At(0, 0), false)
			rabbit := h.animal(t, "rabbit", components.At(2, 2), false)
			h.store.Animal(fox).FoodLevel = tt.food

			// appear fails, forage succeeds
			src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999}
			if _, err := h.fauna.ActDay(sunny(src), fox); err != nil {
				t.Fatal(err)
			}
			assertDead(t, h, rabbit, components.CauseEaten)
			if got, _ := h.store.Field().LocationOf(fox); got != components.At(2, 2) {
				t.Errorf("fox at %v, want (2,2)", got)
			}
			if got := h.store.Animal(fox).FoodLevel; got != tt.wantF {
				t.Errorf("food level = %d, want %d", got, tt.wantF)
			}
			if h.events.meals != 1 {
				t.Errorf("meals = %d, want 1", h.events.meals)
			}
		})
	}
}

func TestGrazerEatsPlant(t *testing.T) {
	h := newHarness(t, 1, 2)
	rabbit := h.animal(t, "rabbit", components.At(0, 0), false)
	rose := h.plant(t, "rose", components.At(0, 1))
	h.store.Animal(rabbit).FoodLevel = 3

	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), rabbit); err != nil {
		t.Fatal(err)
	}
	assertDead(t, h, rose, components.CauseEaten)
	if got := h.store.Animal(rabbit).FoodLevel; got != 3-1+5 {
		t.Errorf("food level = %d, want %d", got, 3-1+5)
	}
}

func TestForageRollGatesSearch(t *testing.T) {
	h := newHarness(t, 1, 3)
	rabbit := h.animal(t, "rabbit", components.At(0, 0), false)
	rose := h.plant(t, "rose", components.At(0, 1))

	if _, err := h.fauna.ActDay(sunny(quiet()), rabbit); err != nil {
		t.Fatal(err)
	}
	if !h.store.IsAlive(rose) {
		t.Error("rose eaten although the forage roll failed")
	}
	// The only free neighbour of (0,0) is taken, so the rabbit cannot move.
	assertDead(t, h, rabbit, components.CauseOvercrowding)
}

func TestStormDeath(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)
	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999}
	ctx := Context{Tick: 1, Weather: environment.Storm, Rand: src}
	if _, err := h.fauna.ActDay(ctx, e); err != nil {
		t.Fatal(err)
	}
	assertDead(t, h, e, components.CauseStorm)
}

func TestBirthBoundedByFreeCells(t *testing.T) {
	h := newHarness(t, 2, 2)
	mother := h.animal(t, "rabbit", components.At(0, 0), true)
	h.animal(t, "rabbit", components.At(0, 1), false)
	h.store.Animal(mother).Age = 20

	// appear fails, breeding succeeds, forage fails; litter draws the max.
	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999, Int: 100}
	young, err := h.fauna.ActDay(sunny(src), mother)
	if err != nil {
		t.Fatal(err)
	}
	if len(young) != 2 {
		t.Fatalf("litter = %d, want 2 (free cells)", len(young))
	}
	desc := h.catalog.Animal(h.store.Organism(young[0]).Species)
	for _, y := range young {
		an := h.store.Animal(y)
		if an.Age != 0 || an.FoodLevel != desc.MaxFoodLevel {
			t.Errorf("newborn age=%d food=%d, want 0 and %d", an.Age, an.FoodLevel, desc.MaxFoodLevel)
		}
	}
	if h.events.births != 2 {
		t.Errorf("births = %d, want 2", h.events.births)
	}
	// The field is now full, so the mother dies trying to move.
	assertDead(t, h, mother, components.CauseOvercrowding)
}

func TestMaleDoesNotGiveBirth(t *testing.T) {
	h := newHarness(t, 3, 3)
	father := h.animal(t, "rabbit", components.At(1, 1), false)
	h.animal(t, "rabbit", components.At(0, 1), true)
	h.store.Animal(father).Age = 20

	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999}
	young, err := h.fauna.ActDay(sunny(src), father)
	if err != nil {
		t.Fatal(err)
	}
	if len(young) != 0 {
		t.Errorf("male produced %d young", len(young))
	}
}

func TestNightHunterSkipsHungerAndBreeding(t *testing.T) {
	h := newHarness(t, 3, 3)
	fox := h.animal(t, "fox", components.At(1, 1), true)
	h.animal(t, "fox", components.At(0, 0), false)
	h.store.Animal(fox).Age = 40
	before := h.store.Animal(fox).FoodLevel

	young, err := h.fauna.ActNight(sunny(quiet()), fox)
	if err != nil {
		t.Fatal(err)
	}
	if len(young) != 0 {
		t.Errorf("hunter bred at night")
	}
	if got := h.store.Animal(fox).FoodLevel; got != before {
		t.Errorf("food level = %d, want %d", got, before)
	}
	if loc, _ := h.store.Field().LocationOf(fox); loc == components.At(1, 1) {
		t.Error("hunter did not move at night")
	}
}

func TestNightGrazerInactive(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)
	before := h.store.Animal(e).FoodLevel

	if _, err := h.fauna.ActNight(sunny(quiet()), e); err != nil {
		t.Fatal(err)
	}
	if got := h.store.Animal(e).FoodLevel; got != before-1 {
		t.Errorf("food level = %d, want %d", got, before-1)
	}
	if loc, _ := h.store.Field().LocationOf(e); loc != components.At(1, 1) {
		t.Errorf("inactive grazer moved to %v", loc)
	}
}

func TestLitterSize(t *testing.T) {
	h := newHarness(t, 1, 1)
	id, _ := h.catalog.Lookup("rabbit")
	desc := h.catalog.Animal(id)

	if n := LitterSize(&rng.Fixed{}, desc.BreedingAge-1, desc); n != 0 {
		t.Errorf("underage litter = %d, want 0", n)
	}
	src := rng.New(5)
	for i := 0; i < 500; i++ {
		n := LitterSize(src, desc.BreedingAge, desc)
		if n < 0 || n > desc.MaxLitterSize {
			t.Fatalf("litter %d outside [0,%d]", n, desc.MaxLitterSize)
		}
	}
}
