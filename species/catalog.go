package species

import (
	"fmt"

	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/environment"
)

// MaxSpecies bounds the catalog so diet and infection sets fit a Set.
const MaxSpecies = 64

type entry struct {
	kind   components.Kind
	animal *Animal
	plant  *Plant
}

// Catalog resolves species IDs to descriptors. Animals take the first IDs in
// declaration order, plants follow.
type Catalog struct {
	entries []entry
	byName  map[string]components.SpeciesID
	animals []*Animal
	plants  []*Plant
}

// Build validates the species tables and resolves diet and infection names.
func Build(animals []AnimalSpec, plants []PlantSpec) (*Catalog, error) {
	if len(animals)+len(plants) > MaxSpecies {
		return nil, &Error{Field: "species", Reason: fmt.Sprintf("at most %d species supported", MaxSpecies)}
	}

	c := &Catalog{byName: make(map[string]components.SpeciesID)}
	register := func(name string, e entry) error {
		if name == "" {
			return &Error{Field: "name", Reason: "must not be empty"}
		}
		if _, dup := c.byName[name]; dup {
			return &Error{Species: name, Field: "name", Reason: "duplicate species"}
		}
		c.byName[name] = components.SpeciesID(len(c.entries))
		c.entries = append(c.entries, e)
		return nil
	}

	for i := range animals {
		spec := &animals[i]
		if err := spec.validate(); err != nil {
			return nil, err
		}
		a := &Animal{
			ID:                    components.SpeciesID(len(c.entries)),
			Name:                  spec.Name,
			BreedingAge:           spec.BreedingAge,
			MaxAge:                spec.MaxAge,
			BreedingProbability:   spec.BreedingProbability,
			MaxLitterSize:         spec.MaxLitterSize,
			MaxFoodLevel:          spec.MaxFoodLevel,
			NightProbability:      spec.NightProbability,
			FoodValue:             spec.FoodValue,
			StormDeathProbability: spec.StormDeathProbability,
			Hunt:                  Radius{Rows: spec.HuntRows, Cols: spec.HuntCols},
		}
		if spec.Night == Hunter.String() {
			a.Night = Hunter
		}
		for _, k := range environment.Kinds {
			a.Forage[k] = spec.Forage[k.String()]
		}
		if err := register(spec.Name, entry{kind: components.KindAnimal, animal: a}); err != nil {
			return nil, err
		}
		c.animals = append(c.animals, a)
	}

	for i := range plants {
		spec := &plants[i]
		if err := spec.validate(); err != nil {
			return nil, err
		}
		p := &Plant{
			ID:                    components.SpeciesID(len(c.entries)),
			Name:                  spec.Name,
			MaxAge:                spec.MaxAge,
			BreedingInterval:      spec.BreedingInterval,
			MaxFoodValue:          spec.MaxFoodValue,
			InitialFoodValue:      spec.InitialFoodValue,
			SeedProbability:       spec.SeedProbability,
			StormDeathProbability: spec.StormDeathProbability,
		}
		for _, k := range environment.Kinds {
			w := spec.Weather[k.String()]
			p.Weather[k] = Growth{GrowthRate: w.GrowthRate, MaxSeeds: w.MaxSeeds}
		}
		if err := register(spec.Name, entry{kind: components.KindPlant, plant: p}); err != nil {
			return nil, err
		}
		c.plants = append(c.plants, p)
	}

	// Second pass: names are all known now.
	var allAnimals Set
	for _, a := range c.animals {
		allAnimals = allAnimals.With(a.ID)
	}
	for i, a := range c.animals {
		spec := &animals[i]
		diet, err := c.resolve(spec.Name, "diet", spec.Diet)
		if err != nil {
			return nil, err
		}
		a.Diet = diet
		if len(spec.Infects) == 0 {
			a.Infects = allAnimals
			continue
		}
		infects, err := c.resolve(spec.Name, "infects", spec.Infects)
		if err != nil {
			return nil, err
		}
		for id := range c.entries {
			if infects.Has(components.SpeciesID(id)) && c.entries[id].kind != components.KindAnimal {
				return nil, &Error{Species: spec.Name, Field: "infects", Reason: fmt.Sprintf("%q is not an animal", c.entries[id].name())}
			}
		}
		a.Infects = infects
	}

	return c, nil
}

func (c *Catalog) resolve(species, field string, names []string) (Set, error) {
	var s Set
	for _, name := range names {
		id, ok := c.byName[name]
		if !ok {
			reason := fmt.Sprintf("unknown species %q", name)
			if hint := Suggest(name, c.Names()); hint != "" {
				reason += fmt.Sprintf(" (did you mean %q?)", hint)
			}
			return 0, &Error{Species: species, Field: field, Reason: reason}
		}
		s = s.With(id)
	}
	return s, nil
}

func (e entry) name() string {
	if e.kind == components.KindPlant {
		return e.plant.Name
	}
	return e.animal.Name
}

// Len returns the number of species.
func (c *Catalog) Len() int { return len(c.entries) }

// Kind returns whether id is an animal or a plant species.
func (c *Catalog) Kind(id components.SpeciesID) components.Kind {
	return c.entries[id].kind
}

// Name returns the species name for id.
func (c *Catalog) Name(id components.SpeciesID) string {
	if int(id) >= len(c.entries) {
		return fmt.Sprintf("species(%d)", id)
	}
	return c.entries[id].name()
}

// Names returns every species name in ID order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.name()
	}
	return names
}

// Lookup finds a species by name.
func (c *Catalog) Lookup(name string) (components.SpeciesID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Animal returns the animal descriptor for id, or nil if id is a plant.
func (c *Catalog) Animal(id components.SpeciesID) *Animal {
	if int(id) >= len(c.entries) {
		return nil
	}
	return c.entries[id].animal
}

// Plant returns the plant descriptor for id, or nil if id is an animal.
func (c *Catalog) Plant(id components.SpeciesID) *Plant {
	if int(id) >= len(c.entries) {
		return nil
	}
	return c.entries[id].plant
}

// Animals returns the animal descriptors in ID order.
func (c *Catalog) Animals() []*Animal { return c.animals }

// Plants returns the plant descriptors in ID order.
func (c *Catalog) Plants() []*Plant { return c.plants }
