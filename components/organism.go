// Package components defines ECS components for the simulation.
package components

// Kind separates the two organism capability sets.
type Kind uint8

const (
	KindAnimal Kind = iota
	KindPlant
)

func (k Kind) String() string {
	if k == KindPlant {
		return "plant"
	}
	return "animal"
}

// SpeciesID indexes a species descriptor in the catalog.
type SpeciesID uint8

// Organism is shared by every living entity.
type Organism struct {
	Species SpeciesID
	Kind    Kind
	Alive   bool
	Cause   DeathCause // set once Alive goes false
}

// Animal holds per-individual animal state.
type Animal struct {
	Age       int
	FoodLevel int
	Female    bool
	Disease   Disease
}

// Plant holds per-individual plant state.
// GrowthRate and MaxSeeds are refreshed from the weather table every tick.
type Plant struct {
	Age        int
	FoodValue  int
	GrowthRate int
	MaxSeeds   int
}

// Disease is the per-animal infection state.
// Remaining is positive while Infected and zero otherwise.
type Disease struct {
	Infected  bool
	Remaining int
}

// Infect marks the disease present for the given number of ticks.
func (d *Disease) Infect(duration int) {
	if duration < 1 {
		duration = 1
	}
	d.Infected = true
	d.Remaining = duration
}

// Advance counts one tick off an active infection, clearing it at zero.
func (d *Disease) Advance() {
	if !d.Infected {
		return
	}
	d.Remaining--
	if d.Remaining <= 0 {
		d.Remaining = 0
		d.Infected = false
	}
}

// DeathCause records why an organism died.
type DeathCause uint8

const (
	CauseNone DeathCause = iota
	CauseOldAge
	CauseStarvation
	CauseDisease
	CauseStorm
	CauseOvercrowding
	CauseEaten
)

// DeathCauses lists every real cause, excluding CauseNone.
var DeathCauses = [...]DeathCause{
	CauseOldAge, CauseStarvation, CauseDisease, CauseStorm, CauseOvercrowding, CauseEaten,
}

func (c DeathCause) String() string {
	switch c {
	case CauseOldAge:
		return "old_age"
	case CauseStarvation:
		return "starvation"
	case CauseDisease:
		return "disease"
	case CauseStorm:
		return "storm"
	case CauseOvercrowding:
		return "overcrowding"
	case CauseEaten:
		return "eaten"
	}
	return "none"
}
