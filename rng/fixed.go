package rng

// Fixed is a Source that replays scripted values and then repeats its
// fallbacks. It lets tests pin every probabilistic branch.
type Fixed struct {
	Floats []float64 // consumed front to back by Float64
	Ints   []int     // consumed front to back by IntN
	Float  float64   // returned once Floats is exhausted
	Int    int       // returned once Ints is exhausted, clamped to [0,n)
}

// Float64 returns the next scripted double.
func (f *Fixed) Float64() float64 {
	if len(f.Floats) > 0 {
		v := f.Floats[0]
		f.Floats = f.Floats[1:]
		return v
	}
	return f.Float
}

// IntN returns the next scripted integer clamped into [0,n).
func (f *Fixed) IntN(n int) int {
	v := f.Int
	if len(f.Ints) > 0 {
		v = f.Ints[0]
		f.Ints = f.Ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}
