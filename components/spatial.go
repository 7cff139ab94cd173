package components

import "fmt"

// Location is an immutable (row, col) grid coordinate.
type Location struct {
	Row, Col int
}

// At is shorthand for Location{Row: row, Col: col}.
func At(row, col int) Location {
	return Location{Row: row, Col: col}
}

// Offset returns the location shifted by dr rows and dc columns.
func (l Location) Offset(dr, dc int) Location {
	return Location{Row: l.Row + dr, Col: l.Col + dc}
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// Position records where an organism sits on the field.
// OnField is false once the organism is dead; Loc is then meaningless.
type Position struct {
	Loc     Location
	OnField bool
}
