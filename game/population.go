package game

import "github.com/mlange-42/ark/ecs"

// Population is the ordered registry of live animals and plants. It is
// mutated only between organism actions.
type Population struct {
	animals []ecs.Entity
	plants  []ecs.Entity
}

// Animals returns the live animals in acting order.
func (p *Population) Animals() []ecs.Entity { return p.animals }

// Plants returns the live plants in acting order.
func (p *Population) Plants() []ecs.Entity { return p.plants }

// Len returns the number of registered organisms.
func (p *Population) Len() int { return len(p.animals) + len(p.plants) }

// AddAnimal registers an animal at the end of the acting order.
func (p *Population) AddAnimal(e ecs.Entity) { p.animals = append(p.animals, e) }

// AddPlant registers a plant at the end of the acting order.
func (p *Population) AddPlant(e ecs.Entity) { p.plants = append(p.plants, e) }

// Commit drops dead organisms, appends the surviving newborns and returns
// every dead entity seen, newborns included, for removal from the world.
func (p *Population) Commit(alive func(ecs.Entity) bool, animals, plants []ecs.Entity) []ecs.Entity {
	var dead []ecs.Entity
	p.animals, dead = commit(p.animals, animals, alive, dead)
	p.plants, dead = commit(p.plants, plants, alive, dead)
	return dead
}

func commit(live, born []ecs.Entity, alive func(ecs.Entity) bool, dead []ecs.Entity) ([]ecs.Entity, []ecs.Entity) {
	kept := live[:0]
	for _, group := range [][]ecs.Entity{live, born} {
		for _, e := range group {
			if alive(e) {
				kept = append(kept, e)
			} else {
				dead = append(dead, e)
			}
		}
	}
	return kept, dead
}

// Clear empties the registry.
func (p *Population) Clear() {
	p.animals = p.animals[:0]
	p.plants = p.plants[:0]
}
