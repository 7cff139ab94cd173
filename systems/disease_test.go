package systems

import (
	"testing"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/rng"
)

func TestDiseaseDurationDecreases(t *testing.T) {
	h := newHarness(t, 5, 5)
	e := h.animal(t, "rabbit", components.At(2, 2), false)
	h.store.Animal(e).Disease.Infect(3)

	for want := 2; want >= 0; want-- {
		if _, err := h.fauna.ActDay(sunny(quiet()), e); err != nil {
			t.Fatal(err)
		}
		d := h.store.Animal(e).Disease
		if d.Remaining != want {
			t.Fatalf("remaining = %d, want %d", d.Remaining, want)
		}
		if d.Infected != (want > 0) {
			t.Fatalf("infected = %v with %d ticks left", d.Infected, want)
		}
	}
}

func TestDiseaseSkippedAtNight(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)
	h.store.Animal(e).Disease.Infect(4)

	// Night activity succeeds; every other roll would trigger an event.
	src := &rng.Fixed{Floats: []float64{0.0}, Float: 0.0}
	if _, err := h.fauna.ActNight(sunny(src), e); err != nil {
		t.Fatal(err)
	}
	if got := h.store.Animal(e).Disease.Remaining; got != 4 {
		t.Errorf("remaining = %d, want 4", got)
	}
}

func TestDiseaseSpreadsToNeighbour(t *testing.T) {
	h := newHarness(t, 1, 3)
	sick := h.animal(t, "rabbit", components.At(0, 1), false)
	healthy := h.animal(t, "rabbit", components.At(0, 0), false)
	h.store.Animal(sick).Disease.Infect(5)

	// appear fails, infection succeeds, death fails.
	src := &rng.Fixed{Floats: []float64{0.99, 0.0, 0.99}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), sick); err != nil {
		t.Fatal(err)
	}
	d := h.store.Animal(healthy).Disease
	if !d.Infected || d.Remaining < 1 || d.Remaining > DefaultDiseaseParams().MaxInfectTime {
		t.Errorf("neighbour disease = %+v, want infected within bounds", d)
	}
	if h.events.infections != 1 {
		t.Errorf("infections = %d, want 1", h.events.infections)
	}
	if !h.store.IsAlive(sick) {
		t.Error("carrier died although the death roll failed")
	}
}

func TestDiseaseRespectsInfectSet(t *testing.T) {
	h := newHarness(t, 1, 2)
	sick := h.animal(t, "rabbit", components.At(0, 0), false)
	rose := h.plant(t, "rose", components.At(0, 1))
	h.store.Animal(sick).Disease.Infect(5)

	src := &rng.Fixed{Floats: []float64{0.99}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), sick); err != nil {
		t.Fatal(err)
	}
	if h.events.infections != 0 {
		t.Errorf("plant neighbour infected")
	}
	if !h.store.IsAlive(rose) {
		t.Error("rose died")
	}
}

func TestDiseaseDeath(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)
	h.store.Animal(e).Disease.Infect(5)

	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), e); err != nil {
		t.Fatal(err)
	}
	assertDead(t, h, e, components.CauseDisease)
}

func TestSpontaneousInfection(t *testing.T) {
	h := newHarness(t, 3, 3)
	e := h.animal(t, "rabbit", components.At(1, 1), false)

	// appear succeeds with duration 3, then the carrier survives.
	src := &rng.Fixed{Floats: []float64{0.0}, Ints: []int{2}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), e); err != nil {
		t.Fatal(err)
	}
	d := h.store.Animal(e).Disease
	if !d.Infected || d.Remaining != 2 {
		t.Errorf("disease = %+v, want infected with 2 left", d)
	}
}

func TestDiseaseReinfectionRestartsDuration(t *testing.T) {
	h := newHarness(t, 1, 3)
	sick := h.animal(t, "rabbit", components.At(0, 1), false)
	other := h.animal(t, "rabbit", components.At(0, 0), false)
	h.store.Animal(sick).Disease.Infect(5)
	h.store.Animal(other).Disease.Infect(2)

	// appear fails, infection succeeds with duration 8, death fails.
	src := &rng.Fixed{Floats: []float64{0.99, 0.0}, Ints: []int{0, 7}, Float: 0.999}
	if _, err := h.fauna.ActDay(sunny(src), sick); err != nil {
		t.Fatal(err)
	}
	d := h.store.Animal(other).Disease
	if !d.Infected || d.Remaining != 8 {
		t.Errorf("neighbour disease = %+v, want infected with 8 left", d)
	}
	if h.events.infections != 0 {
		t.Errorf("infections = %d, want 0 for a reinfection", h.events.infections)
	}
}
