package game

import (
	"log/slog"

	"github.com/pthm-cable/meadow/environment"
	"github.com/pthm-cable/meadow/field"
)

// Snapshot is the state handed to viewers after every step.
type Snapshot struct {
	Tick    int
	Field   field.View
	Weather environment.Kind
	Census  Census
}

// Viewer consumes snapshots and decides whether the run is still worth
// stepping.
type Viewer interface {
	ShowStatus(s Snapshot)
	IsViable(s Snapshot) bool
}

// Census counts the organisms of each species on the field.
type Census struct {
	Names  []string
	Counts []int
}

// Total returns the number of organisms counted.
func (c Census) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// Count returns the count for a species name, or 0.
func (c Census) Count(name string) int {
	for i, n := range c.Names {
		if n == name {
			return c.Counts[i]
		}
	}
	return 0
}

// Alive returns how many species have at least one organism.
func (c Census) Alive() int {
	n := 0
	for _, v := range c.Counts {
		if v > 0 {
			n++
		}
	}
	return n
}

// LogValue implements slog.LogValuer.
func (c Census) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(c.Counts))
	for i, n := range c.Counts {
		attrs = append(attrs, slog.Int(c.Names[i], n))
	}
	return slog.GroupValue(attrs...)
}

// Viable is the default viability predicate: anything alive at all.
func Viable(s Snapshot) bool {
	return s.Census.Total() > 0
}
