package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/systems"
	"github.com/pthm-cable/meadow/telemetry"
)

// telemetryHub fans organism events out to every telemetry sink.
type telemetryHub struct {
	collector *telemetry.Collector
	lifetimes *telemetry.LifetimeTracker
	metrics   *telemetry.Metrics
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	perf      *telemetry.PerfCollector
	extra     systems.Recorder

	logStats      bool
	statsCallback func(telemetry.WindowStats, []telemetry.SpeciesStats)
}

func newTelemetryHub(opts Options, names []string) (*telemetryHub, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if opts.Config != nil {
		if err := output.WriteConfig(opts.Config); err != nil {
			output.Close()
			return nil, err
		}
	}
	extra := opts.Events
	if extra == nil {
		extra = systems.NopRecorder{}
	}
	return &telemetryHub{
		collector:     telemetry.NewCollector(opts.StatsWindow, len(names)),
		lifetimes:     telemetry.NewLifetimeTracker(len(names)),
		metrics:       telemetry.NewMetrics(names),
		bookmarks:     telemetry.NewBookmarkDetector(opts.BookmarkHistory, opts.Bookmarks),
		output:        output,
		perf:          telemetry.NewPerfCollector(opts.PerfWindow),
		extra:         extra,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}, nil
}

// reset starts a fresh window after the simulator resets its tick counter.
func (h *telemetryHub) reset(windowTicks, numSpecies int) {
	h.collector = telemetry.NewCollector(windowTicks, numSpecies)
	h.lifetimes.Reset()
}

func (h *telemetryHub) Birth(tick int, parent, child ecs.Entity, species components.SpeciesID) {
	h.collector.Birth(tick, parent, child, species)
	h.lifetimes.Birth(tick, parent, child, species)
	h.metrics.Birth(tick, parent, child, species)
	h.extra.Birth(tick, parent, child, species)
}

func (h *telemetryHub) Death(tick int, e ecs.Entity, species components.SpeciesID, cause components.DeathCause) {
	h.collector.Death(tick, e, species, cause)
	h.lifetimes.Death(tick, e, species, cause)
	h.metrics.Death(tick, e, species, cause)
	h.extra.Death(tick, e, species, cause)
}

func (h *telemetryHub) Infection(tick int, e ecs.Entity, species components.SpeciesID, spontaneous bool) {
	h.collector.Infection(tick, e, species, spontaneous)
	h.lifetimes.Infection(tick, e, species, spontaneous)
	h.metrics.Infection(tick, e, species, spontaneous)
	h.extra.Infection(tick, e, species, spontaneous)
}

func (h *telemetryHub) Meal(tick int, eater ecs.Entity, species, prey components.SpeciesID, food int) {
	h.collector.Meal(tick, eater, species, prey, food)
	h.lifetimes.Meal(tick, eater, species, prey, food)
	h.metrics.Meal(tick, eater, species, prey, food)
	h.extra.Meal(tick, eater, species, prey, food)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulator) flushTelemetry() {
	h := s.telemetry
	if !h.collector.ShouldFlush(s.tick) {
		return
	}

	sample := s.sample()
	sample.Lifespans = h.lifetimes.MeanLifespans()

	stats, rows := h.collector.Flush(sample)
	perfStats := h.perf.Stats()
	h.metrics.ObservePopulation(s.tick, sample.Counts)

	if h.statsCallback != nil {
		h.statsCallback(stats, rows)
	}

	if h.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if h.output != nil {
		if err := h.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := h.output.WriteSpecies(rows); err != nil {
			slog.Error("failed to write species", "error", err)
		}
		if err := h.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := h.output.WriteMetrics(h.metrics); err != nil {
			slog.Error("failed to write metrics", "error", err)
		}
	}

	for _, bm := range h.bookmarks.Check(stats, rows) {
		if h.logStats {
			bm.LogBookmark()
		}
		if h.output != nil {
			if err := h.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// sample collects per-species counts and the food and age distributions of
// the live population.
func (s *Simulator) sample() telemetry.Sample {
	n := s.catalog.Len()
	sample := telemetry.Sample{
		Tick:     s.tick,
		Weather:  s.weather.Kind().String(),
		Names:    s.catalog.Names(),
		Plant:    make([]bool, n),
		Counts:   make([]int, n),
		Infected: make([]int, n),
	}
	for id := range n {
		sample.Plant[id] = s.catalog.Kind(components.SpeciesID(id)) == components.KindPlant
	}

	for _, e := range s.pop.Animals() {
		org, an := s.store.Organism(e), s.store.Animal(e)
		if org == nil || an == nil || !org.Alive {
			continue
		}
		sample.Counts[org.Species]++
		if an.Disease.Infected {
			sample.Infected[org.Species]++
		}
		sample.AnimalFood = append(sample.AnimalFood, float64(an.FoodLevel))
		sample.AnimalAge = append(sample.AnimalAge, float64(an.Age))
	}
	for _, e := range s.pop.Plants() {
		org, pl := s.store.Organism(e), s.store.Plant(e)
		if org == nil || pl == nil || !org.Alive {
			continue
		}
		sample.Counts[org.Species]++
		sample.PlantFood = append(sample.PlantFood, float64(pl.FoodValue))
	}
	return sample
}
