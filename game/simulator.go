// Package game drives the ecosystem: it owns the field, the weather, the
// population registry and the ECS store, and advances them one tick at a time.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/config"
	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/field"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

// LongSimulationSteps is the length of RunLongSimulation.
const LongSimulationSteps = 4000

// Simulator is the step scheduler.
type Simulator struct {
	opts    Options
	rand    rng.Source
	clock   environment.Clock
	catalog *species.Catalog

	field   *field.Field
	store   *systems.Store
	fauna   *systems.FaunaSystem
	flora   *systems.FloraSystem
	weather *environment.Weather
	pop     Population

	telemetry *telemetryHub
	viewers   []Viewer

	tick   int
	census Census
}

// New builds a simulator and populates the field. Non-positive dimensions
// yield a *config.ConfigurationError.
func New(opts Options) (*Simulator, error) {
	f, err := field.New(opts.Depth, opts.Width)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "world", Reason: "dimensions must be positive", Err: err}
	}
	if opts.Catalog == nil {
		return nil, &config.ConfigurationError{Field: "species", Reason: "no species catalog"}
	}

	src := opts.Rand
	if src == nil {
		src = rng.New(opts.Seed)
	}
	if opts.Clock.HoursPerDay == 0 {
		opts.Clock = environment.DefaultClock()
	}

	hub, err := newTelemetryHub(opts, opts.Catalog.Names())
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		opts:      opts,
		rand:      src,
		clock:     opts.Clock,
		catalog:   opts.Catalog,
		field:     f,
		weather:   environment.NewWeather(opts.Weather),
		telemetry: hub,
	}
	s.store = systems.NewStore(f, opts.Catalog, hub)
	disease := systems.NewDiseaseSystem(s.store, opts.Disease)
	breeding := systems.NewBreedingSystem(s.store)
	s.fauna = systems.NewFaunaSystem(s.store, disease, breeding)
	s.flora = systems.NewFloraSystem(s.store, breeding)

	s.Reset()
	return s, nil
}

// AddViewer registers a viewer; it is shown the current state immediately.
func (s *Simulator) AddViewer(v Viewer) {
	s.viewers = append(s.viewers, v)
	v.ShowStatus(s.Snapshot())
}

// Reset clears the registry and the field and repopulates. The weather
// carries over.
func (s *Simulator) Reset() {
	s.tick = 0
	s.pop.Clear()
	s.store.Reset()
	s.telemetry.reset(s.opts.StatsWindow, s.catalog.Len())
	s.populate()

	s.census = s.takeCensus()
	slog.Info("reset",
		"depth", s.field.Depth(),
		"width", s.field.Width(),
		"organisms", s.pop.Len(),
	)
	s.publish(s.Snapshot())
}

// populate rolls each cell against the creation table in order; the first
// species whose roll succeeds is placed there with a random age and food.
func (s *Simulator) populate() {
	for row := range s.field.Depth() {
		for col := range s.field.Width() {
			loc := components.At(row, col)
			for _, c := range s.opts.Creation {
				if s.rand.Float64() > c.Probability {
					continue
				}
				s.spawn(c.Species, loc)
				break
			}
		}
	}
}

func (s *Simulator) spawn(id components.SpeciesID, loc components.Location) {
	var (
		e   ecs.Entity
		age int
		err error
	)
	switch s.catalog.Kind(id) {
	case components.KindAnimal:
		e, err = s.store.SpawnAnimal(s.catalog.Animal(id), loc, true, s.rand)
		if err == nil {
			age = s.store.Animal(e).Age
			s.pop.AddAnimal(e)
		}
	case components.KindPlant:
		e, err = s.store.SpawnPlant(s.catalog.Plant(id), loc, true, s.rand)
		if err == nil {
			age = s.store.Plant(e).Age
			s.pop.AddPlant(e)
		}
	}
	if err != nil {
		panic(fmt.Errorf("game: populate %v: %w", loc, err))
	}
	s.telemetry.lifetimes.Register(e, id, -age)
}

// Step advances the simulation by one tick and returns the new snapshot.
func (s *Simulator) Step() Snapshot {
	perf := s.telemetry.perf
	perf.StartTick()

	s.tick++
	perf.StartPhase(telemetry.PhaseWeather)
	s.weather.Advance(s.rand)
	ctx := systems.Context{Tick: s.tick, Weather: s.weather.Kind(), Rand: s.rand}
	day := s.clock.IsDay(s.tick)

	perf.StartPhase(telemetry.PhaseAnimals)
	var newAnimals []ecs.Entity
	for _, e := range s.pop.Animals() {
		// eaten earlier this tick
		if !s.store.IsAlive(e) {
			continue
		}
		young, err := s.fauna.Act(ctx, e, day)
		mustAct(err, "animal", e, s.tick)
		newAnimals = append(newAnimals, young...)
	}

	perf.StartPhase(telemetry.PhasePlants)
	var newPlants []ecs.Entity
	for _, e := range s.pop.Plants() {
		if !s.store.IsAlive(e) {
			continue
		}
		young, err := s.flora.Act(ctx, e)
		mustAct(err, "plant", e, s.tick)
		newPlants = append(newPlants, young...)
	}

	perf.StartPhase(telemetry.PhaseBirths)
	dead := s.pop.Commit(s.store.IsAlive, newAnimals, newPlants)

	perf.StartPhase(telemetry.PhaseCleanup)
	for _, e := range dead {
		s.store.Remove(e)
	}

	perf.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	perf.EndTick()

	prev := s.census
	s.census = s.takeCensus()
	logExtinctions(prev, s.census, s.tick)

	snap := s.Snapshot()
	s.publish(snap)
	return snap
}

// mustAct panics on errors from organism actions. Those only arise from
// broken engine invariants.
func mustAct(err error, what string, e ecs.Entity, tick int) {
	if err == nil {
		return
	}
	var inv *field.InvariantError
	if errors.As(err, &inv) || errors.Is(err, systems.ErrDeadOrganism) {
		panic(fmt.Errorf("game: %s %v at tick %d: invariant violated: %w", what, e, tick, err))
	}
	panic(fmt.Errorf("game: %s %v at tick %d: %w", what, e, tick, err))
}

// Simulate runs up to n steps, stopping early once the run is not viable.
// It returns the number of steps taken.
func (s *Simulator) Simulate(n int) int {
	steps := 0
	for ; steps < n && s.IsViable(); steps++ {
		s.Step()
	}
	return steps
}

// RunLongSimulation runs LongSimulationSteps steps.
func (s *Simulator) RunLongSimulation() int {
	return s.Simulate(LongSimulationSteps)
}

// IsViable asks every viewer; with no viewers anything alive is viable.
func (s *Simulator) IsViable() bool {
	snap := s.Snapshot()
	if len(s.viewers) == 0 {
		return Viable(snap)
	}
	for _, v := range s.viewers {
		if !v.IsViable(snap) {
			return false
		}
	}
	return true
}

// Snapshot returns the current tick, a read-only field view, the weather
// and the census.
func (s *Simulator) Snapshot() Snapshot {
	return Snapshot{
		Tick:    s.tick,
		Field:   s.field,
		Weather: s.weather.Kind(),
		Census:  s.census,
	}
}

func (s *Simulator) publish(snap Snapshot) {
	for _, v := range s.viewers {
		v.ShowStatus(snap)
	}
}

func (s *Simulator) takeCensus() Census {
	c := Census{Names: s.catalog.Names(), Counts: make([]int, s.catalog.Len())}
	s.field.Each(func(_ components.Location, e ecs.Entity) {
		if org := s.store.Organism(e); org != nil {
			c.Counts[org.Species]++
		}
	})
	return c
}

// Tick returns the current tick.
func (s *Simulator) Tick() int { return s.tick }

// Population returns the registry.
func (s *Simulator) Population() *Population { return &s.pop }

// Store returns the organism store.
func (s *Simulator) Store() *systems.Store { return s.store }

// Weather returns the weather state.
func (s *Simulator) Weather() *environment.Weather { return s.weather }

// Lifetimes returns the lifetime tracker.
func (s *Simulator) Lifetimes() *telemetry.LifetimeTracker { return s.telemetry.lifetimes }

// Close writes the final metrics and closes output files.
func (s *Simulator) Close() error {
	h := s.telemetry
	if err := h.output.WriteMetrics(h.metrics); err != nil {
		h.output.Close()
		return err
	}
	return h.output.Close()
}
