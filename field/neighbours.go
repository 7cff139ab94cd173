package field

import (
	"github.com/pthm-cable/meadow/components"
	"github.com/pthm-cable/meadow/rng"
)

// NearLocations returns the in-bounds Moore neighbourhood of loc in
// row-major order. Used for mate detection.
func (f *Field) NearLocations(loc components.Location) []components.Location {
	return f.rect(loc, 1, 1)
}

// AdjacentLocations returns the in-bounds Moore neighbourhood of loc,
// shuffled so repeated scans do not favour one direction.
func (f *Field) AdjacentLocations(loc components.Location, src rng.Source) []components.Location {
	locs := f.rect(loc, 1, 1)
	shuffle(src, locs)
	return locs
}

// SurroundLocations returns the rectangle of half-extents rows x cols around
// loc, excluding loc, clipped to bounds and shuffled.
func (f *Field) SurroundLocations(loc components.Location, rows, cols int, src rng.Source) []components.Location {
	locs := f.rect(loc, rows, cols)
	shuffle(src, locs)
	return locs
}

// FreeAdjacentLocations returns every empty neighbour in random order.
// Callers consume the slice front to back.
func (f *Field) FreeAdjacentLocations(loc components.Location, src rng.Source) []components.Location {
	return f.free(f.AdjacentLocations(loc, src))
}

// FreeNearLocations returns every empty neighbour in random order.
// Used for seed placement.
func (f *Field) FreeNearLocations(loc components.Location, src rng.Source) []components.Location {
	return f.free(f.AdjacentLocations(loc, src))
}

// FreeAdjacentLocation returns one random empty neighbour.
func (f *Field) FreeAdjacentLocation(loc components.Location, src rng.Source) (components.Location, bool) {
	free := f.FreeAdjacentLocations(loc, src)
	if len(free) == 0 {
		return components.Location{}, false
	}
	return free[0], true
}

func (f *Field) rect(loc components.Location, rows, cols int) []components.Location {
	locs := make([]components.Location, 0, (2*rows+1)*(2*cols+1)-1)
	for dr := -rows; dr <= rows; dr++ {
		for dc := -cols; dc <= cols; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			next := loc.Offset(dr, dc)
			if f.Contains(next) {
				locs = append(locs, next)
			}
		}
	}
	return locs
}

func (f *Field) free(locs []components.Location) []components.Location {
	out := locs[:0]
	for _, l := range locs {
		if f.IsFree(l) {
			out = append(out, l)
		}
	}
	return out
}

func shuffle(src rng.Source, locs []components.Location) {
	rng.Shuffle(src, len(locs), func(i, j int) { locs[i], locs[j] = locs[j], locs[i] })
}
