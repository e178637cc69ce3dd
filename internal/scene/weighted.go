package scene

import (
	"math"
	"sort"
)

// Choice pairs a value with its relative weight.
type Choice[T any] struct {
	Value  T
	Weight float64
}

// Weighted samples from a discrete distribution over explicit choices.
// The result depends only on weights, not on declaration order
// beyond how ties in the cumulative table are broken.
type Weighted[T any] struct {
	values     []T
	cumulative []float64
	total      float64
}

// NewWeighted builds a sampler. Choices with a non-positive weight are
// dropped; if none remain, every given choice is weighted equally.
func NewWeighted[T any](choices []Choice[T]) *Weighted[T] {
	w := &Weighted[T]{}
	for _, c := range choices {
		if !(c.Weight > 0) || math.IsInf(c.Weight, 0) {
			continue
		}
		w.total += c.Weight
		w.values = append(w.values, c.Value)
		w.cumulative = append(w.cumulative, w.total)
	}
	if len(w.values) > 0 {
		return w
	}
	for _, c := range choices {
		w.total++
		w.values = append(w.values, c.Value)
		w.cumulative = append(w.cumulative, w.total)
	}
	return w
}

// Len returns the number of choices that can be drawn.
func (w *Weighted[T]) Len() int {
	return len(w.values)
}

// Probability returns the share of draws that land on index i.
func (w *Weighted[T]) Probability(i int) float64 {
	if i < 0 || i >= len(w.values) || w.total == 0 {
		return 0
	}
	prev := 0.0
	if i > 0 {
		prev = w.cumulative[i-1]
	}
	return (w.cumulative[i] - prev) / w.total
}

// Sample draws one value. An empty sampler returns the zero value.
func (w *Weighted[T]) Sample(rng Rand) T {
	var zero T
	if len(w.values) == 0 {
		return zero
	}
	target := rng.Float64() * w.total
	i := sort.Search(len(w.cumulative), func(i int) bool {
		return w.cumulative[i] > target
	})
	if i >= len(w.values) {
		i = len(w.values) - 1
	}
	return w.values[i]
}
