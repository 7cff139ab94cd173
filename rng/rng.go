// Package rng provides the shared source of randomness for the simulation.
package rng

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
)

// Source supplies uniform doubles in [0,1) and uniform integers in [0,n).
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// New returns a deterministic PCG generator for the given seed.
func New(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for reproducible runs.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Shuffle permutes n elements with Fisher-Yates using src.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		swap(i, j)
	}
}
