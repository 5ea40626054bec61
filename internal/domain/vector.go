package domain

import "math"

// NeutralRelevance is the relevance assigned when a vector is unavailable.
// 0.5 means "unknown", not "irrelevant".
const NeutralRelevance = 0.5

// Cosine returns the cosine similarity of two vectors in [-1, 1].
// Defined as 0 when lengths mismatch or either vector has zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// RelevanceFromCosine rescales a cosine value from [-1, 1] to [0, 1] so it
// can be combined with other unit-range signals.
func RelevanceFromCosine(cos float64) float64 {
	return (cos + 1) / 2
}

// MeanVector returns the arithmetic mean of the given vectors. Vectors whose
// length differs from the first one are skipped. Returns nil for empty input.
func MeanVector(vectors [][]float32) []float32 {
	var dim int
	for _, v := range vectors {
		if len(v) > 0 {
			dim = len(v)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	sum := make([]float64, dim)
	var n int
	for _, v := range vectors {
		if len(v) != dim {
			continue
		}
		for i, f := range v {
			sum[i] += float64(f)
		}
		n++
	}
	if n == 0 {
		return nil
	}

	mean := make([]float32, dim)
	for i := range sum {
		mean[i] = float32(sum[i] / float64(n))
	}
	return mean
}
