package telemetry

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pthm-cable/meadow/components"
)

// Metrics exposes population counters on a private registry. They are written
// to a textfile instead of served.
type Metrics struct {
	registry *prometheus.Registry
	names    []string

	population *prometheus.GaugeVec
	births     *prometheus.CounterVec
	deaths     *prometheus.CounterVec
	infections *prometheus.CounterVec
	tick       prometheus.Gauge
}

// NewMetrics registers the meadow collectors for the given species names,
// indexed by species ID.
func NewMetrics(names []string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		names:    names,
		population: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "meadow_population",
			Help: "Live organisms per species.",
		}, []string{"species"}),
		births: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meadow_births_total",
			Help: "Organisms born per species.",
		}, []string{"species"}),
		deaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meadow_deaths_total",
			Help: "Organism deaths per species and cause.",
		}, []string{"species", "cause"}),
		infections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meadow_infections_total",
			Help: "Disease infections per species.",
		}, []string{"species"}),
		tick: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "meadow_tick",
			Help: "Current simulation tick.",
		}),
	}
	m.registry.MustRegister(m.population, m.births, m.deaths, m.infections, m.tick)
	return m
}

func (m *Metrics) name(id components.SpeciesID) string {
	if int(id) < len(m.names) {
		return m.names[id]
	}
	return fmt.Sprintf("species_%d", id)
}

// Birth counts a birth.
func (m *Metrics) Birth(_ int, _, _ ecs.Entity, species components.SpeciesID) {
	m.births.WithLabelValues(m.name(species)).Inc()
}

// Death counts a death by cause.
func (m *Metrics) Death(_ int, _ ecs.Entity, species components.SpeciesID, cause components.DeathCause) {
	m.deaths.WithLabelValues(m.name(species), cause.String()).Inc()
}

// Infection counts an infection.
func (m *Metrics) Infection(_ int, _ ecs.Entity, species components.SpeciesID, _ bool) {
	m.infections.WithLabelValues(m.name(species)).Inc()
}

// Meal is not exported as a metric.
func (m *Metrics) Meal(int, ecs.Entity, components.SpeciesID, components.SpeciesID, int) {}

// ObservePopulation sets the population gauges from per-species counts.
func (m *Metrics) ObservePopulation(tick int, counts []int) {
	m.tick.Set(float64(tick))
	for id, n := range counts {
		m.population.WithLabelValues(m.name(components.SpeciesID(id))).Set(float64(n))
	}
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes the current metrics in text exposition format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
