package walk

import (
	"math/rand/v2"
)

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG-backed source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// NewAmbientSource returns a source seeded from the runtime's entropy.
func NewAmbientSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
