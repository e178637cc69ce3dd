package scene

import (
	"math"
	"math/rand/v2"
)

// Rand is the random source generation draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Range is a min/max pair values are drawn uniformly from.
type Range struct {
	Min float64 `toml:"min" json:"min"`
	Max float64 `toml:"max" json:"max"`
}

// Sample draws uniformly from [Min, Max).
func (r Range) Sample(rng Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// finite reports whether v is neither NaN nor infinite.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// orDefault orders r, replacing it with fallback when a bound is not finite.
func (r Range) orDefault(fallback Range) Range {
	if !finite(r.Min) || !finite(r.Max) {
		return fallback
	}
	return r.ordered()
}

func (r Range) ordered() Range {
	if r.Min > r.Max {
		return Range{Min: r.Max, Max: r.Min}
	}
	return r
}

// below keeps v strictly under limit; float rounding in Sample can land on it.
func below(v, limit float64) float64 {
	if v >= limit {
		return math.Nextafter(limit, math.Inf(-1))
	}
	if v < 0 {
		return 0
	}
	return v
}

func chance(rng Rand, p float64) bool {
	return rng.Float64() < p
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomSuffix(rng Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rng.IntN(len(base36))]
	}
	return string(b)
}

// Shuffled returns a shuffled copy of elements; the input is left untouched.
func Shuffled(elements []Element, rng Rand) []Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
