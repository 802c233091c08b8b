// Package similarity implements the pure numeric layer of ambiguity scoring:
// cosine similarity between embedding vectors and summary statistics over a
// set of similarities. The statistics feed calibrated thresholds downstream,
// so their exact formulas must not change.
package similarity

import (
	"fmt"
	"math"

	"github.com/lexiguard/lexiguard-backend/internal/domain"
)

// Stats summarizes a set of similarity scores. Dispersion is the population
// standard deviation (sum of squared deviations divided by n, not n−1) —
// detector thresholds are calibrated against this definition.
type Stats struct {
	Max        float64
	Min        float64
	Spread     float64
	Dispersion float64
}

// Cosine returns the cosine similarity between two equal-length vectors.
// Returns domain.ErrInvalidInput when either vector is empty or the
// dimensions differ.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, fmt.Errorf("cosine: empty vector: %w", domain.ErrInvalidInput)
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("cosine: dimension mismatch %d != %d: %w", len(a), len(b), domain.ErrInvalidInput)
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// Similarities computes the cosine similarity of the context vector against
// each definition vector, preserving input order. The result has one entry
// per definition vector, including none for an empty input.
func Similarities(contextVec []float32, definitionVecs [][]float32) ([]float64, error) {
	sims := make([]float64, 0, len(definitionVecs))
	for _, dv := range definitionVecs {
		sim, err := Cosine(contextVec, dv)
		if err != nil {
			return nil, err
		}
		sims = append(sims, sim)
	}
	return sims, nil
}

// Statistics derives (max, min, spread, dispersion) over the given
// similarities. An empty input yields all zeros; a single value yields
// (x, x, 0, 0).
func Statistics(sims []float64) Stats {
	if len(sims) == 0 {
		return Stats{}
	}

	max, min := sims[0], sims[0]
	var sum float64
	for _, s := range sims {
		if s > max {
			max = s
		}
		if s < min {
			min = s
		}
		sum += s
	}

	mean := sum / float64(len(sims))
	var variance float64
	for _, s := range sims {
		d := s - mean
		variance += d * d
	}
	variance /= float64(len(sims))

	return Stats{
		Max:        max,
		Min:        min,
		Spread:     max - min,
		Dispersion: math.Sqrt(variance),
	}
}

// Normalize returns the L2-normalized copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
