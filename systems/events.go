package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// Recorder receives lifecycle events as they happen inside a tick.
type Recorder interface {
	Birth(tick int, parent, child ecs.Entity, species components.SpeciesID)
	Death(tick int, e ecs.Entity, species components.SpeciesID, cause components.DeathCause)
	Infection(tick int, e ecs.Entity, species components.SpeciesID, spontaneous bool)
	Meal(tick int, eater ecs.Entity, species, prey components.SpeciesID, food int)
}

// NopRecorder discards every event.
type NopRecorder struct{}

func (NopRecorder) Birth(int, ecs.Entity, ecs.Entity, components.SpeciesID) {}
func (NopRecorder) Death(int, ecs.Entity, components.SpeciesID, components.DeathCause) {}
func (NopRecorder) Infection(int, ecs.Entity, components.SpeciesID, bool) {}
func (NopRecorder) Meal(int, ecs.Entity, components.SpeciesID, components.SpeciesID, int) {}
