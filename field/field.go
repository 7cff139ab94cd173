// Package field implements the bounded simulation grid. The field indexes
// entity handles by location; it never owns the organisms themselves.
package field

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/meadow/components"
)

// ErrDimensions is returned by New for non-positive dimensions.
var ErrDimensions = errors.New("field: dimensions must be positive")

// InvariantError reports misuse of the field by the engine itself.
type InvariantError struct {
	Op     string
	Loc    components.Location
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("field: %s %v: %s", e.Op, e.Loc, e.Reason)
}

// View is the read-only surface handed to viewers.
type View interface {
	Depth() int
	Width() int
	At(loc components.Location) (ecs.Entity, bool)
	Count() int
	Each(fn func(loc components.Location, e ecs.Entity))
}

// Field is a depth x width grid holding at most one entity per cell.
// The reverse index guarantees an entity sits in exactly one cell.
type Field struct {
	depth, width int
	cells        []ecs.Entity
	occupied     []bool
	where        map[ecs.Entity]components.Location
}

// New creates an empty field.
func New(depth, width int) (*Field, error) {
	if depth <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimensions, depth, width)
	}
	n := depth * width
	return &Field{
		depth:    depth,
		width:    width,
		cells:    make([]ecs.Entity, n),
		occupied: make([]bool, n),
		where:    make(map[ecs.Entity]components.Location),
	}, nil
}

// Depth returns the number of rows.
func (f *Field) Depth() int { return f.depth }

// Width returns the number of columns.
func (f *Field) Width() int { return f.width }

// Contains reports whether loc is inside the field.
func (f *Field) Contains(loc components.Location) bool {
	return loc.Row >= 0 && loc.Row < f.depth && loc.Col >= 0 && loc.Col < f.width
}

func (f *Field) index(loc components.Location) int {
	return loc.Row*f.width + loc.Col
}

// Place records e at loc, first clearing e's previous cell. Whatever was at
// loc is overwritten; callers check occupancy first.
func (f *Field) Place(e ecs.Entity, loc components.Location) error {
	if !f.Contains(loc) {
		return &InvariantError{Op: "place", Loc: loc, Reason: "out of bounds"}
	}
	if prev, ok := f.where[e]; ok {
		f.clearIndex(f.index(prev))
	}
	idx := f.index(loc)
	if f.occupied[idx] {
		delete(f.where, f.cells[idx])
	}
	f.cells[idx] = e
	f.occupied[idx] = true
	f.where[e] = loc
	return nil
}

// Clear empties loc. It is a no-op for empty or out-of-bounds cells.
func (f *Field) Clear(loc components.Location) {
	if !f.Contains(loc) {
		return
	}
	f.clearIndex(f.index(loc))
}

func (f *Field) clearIndex(idx int) {
	if !f.occupied[idx] {
		return
	}
	delete(f.where, f.cells[idx])
	f.cells[idx] = ecs.Entity{}
	f.occupied[idx] = false
}

// Remove clears whichever cell holds e.
func (f *Field) Remove(e ecs.Entity) {
	if loc, ok := f.where[e]; ok {
		f.clearIndex(f.index(loc))
	}
}

// ClearAll empties every cell.
func (f *Field) ClearAll() {
	for i := range f.cells {
		f.cells[i] = ecs.Entity{}
		f.occupied[i] = false
	}
	clear(f.where)
}

// At returns the occupant of loc, if any.
func (f *Field) At(loc components.Location) (ecs.Entity, bool) {
	if !f.Contains(loc) {
		return ecs.Entity{}, false
	}
	idx := f.index(loc)
	return f.cells[idx], f.occupied[idx]
}

// LocationOf returns the cell holding e.
func (f *Field) LocationOf(e ecs.Entity) (components.Location, bool) {
	loc, ok := f.where[e]
	return loc, ok
}

// IsFree reports whether loc is in bounds and empty.
func (f *Field) IsFree(loc components.Location) bool {
	return f.Contains(loc) && !f.occupied[f.index(loc)]
}

// Count returns the number of occupied cells.
func (f *Field) Count() int { return len(f.where) }

// Each visits occupied cells in row-major order.
func (f *Field) Each(fn func(loc components.Location, e ecs.Entity)) {
	for i, ok := range f.occupied {
		if ok {
			fn(components.Location{Row: i / f.width, Col: i % f.width}, f.cells[i])
		}
	}
}
