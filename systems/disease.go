package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/rng"
	"github.com/pthm-cable/meadow/species"
)

// DiseaseParams are the species-independent disease constants.
type DiseaseParams struct {
	AppearProbability float64 // spontaneous infection, per day tick
	InfectProbability float64 // per compatible neighbour, per day tick
	DieProbability    float64 // per day tick while infected
	MaxInfectTime     int     // upper bound of the infection duration
}

// DefaultDiseaseParams returns the stock disease constants.
func DefaultDiseaseParams() DiseaseParams {
	return DiseaseParams{
		AppearProbability: 0.03,
		InfectProbability: 0.12,
		DieProbability:    0.07,
		MaxInfectTime:     10,
	}
}

// DiseaseSystem runs the day-time infection step of animals.
type DiseaseSystem struct {
	store  *Store
	params DiseaseParams
}

// NewDiseaseSystem creates a disease system.
func NewDiseaseSystem(store *Store, params DiseaseParams) *DiseaseSystem {
	return &DiseaseSystem{store: store, params: params}
}

// Params returns the active constants.
func (d *DiseaseSystem) Params() DiseaseParams { return d.params }

func (d *DiseaseSystem) duration(src rng.Source) int {
	return src.IntN(d.params.MaxInfectTime) + 1
}

// Update lets the disease appear on e, and when e carries it, advances the
// infection, spreads it to the 8-neighbourhood and rolls for death.
// It reports whether e is still alive.
func (d *DiseaseSystem) Update(ctx Context, e ecs.Entity, desc *species.Animal) bool {
	an := d.store.Animal(e)
	if ctx.Rand.Float64() <= d.params.AppearProbability && !an.Disease.Infected {
		an.Disease.Infect(d.duration(ctx.Rand))
		d.store.events.Infection(ctx.Tick, e, desc.ID, true)
	}
	if !an.Disease.Infected {
		return true
	}
	an.Disease.Advance()
	d.spread(ctx, e, desc)
	if ctx.Rand.Float64() <= d.params.DieProbability {
		d.store.Kill(ctx.Tick, e, components.CauseDisease)
		return false
	}
	return true
}

// spread rolls against every live neighbour whose species is in
// desc.Infects. A success on a neighbour that is already infected restarts
// its infection with a fresh duration; only first infections are recorded.
func (d *DiseaseSystem) spread(ctx Context, e ecs.Entity, desc *species.Animal) {
	loc := d.store.Position(e).Loc
	for _, l := range d.store.field.AdjacentLocations(loc, ctx.Rand) {
		other, ok := d.store.field.At(l)
		if !ok {
			continue
		}
		org := d.store.Organism(other)
		if org == nil || !org.Alive || org.Kind != components.KindAnimal || !desc.Infects.Has(org.Species) {
			continue
		}
		if ctx.Rand.Float64() > d.params.InfectProbability {
			continue
		}
		an := d.store.Animal(other)
		first := !an.Disease.Infected
		an.Disease.Infect(d.duration(ctx.Rand))
		if first {
			d.store.events.Infection(ctx.Tick, other, org.Species, false)
		}
	}
}
