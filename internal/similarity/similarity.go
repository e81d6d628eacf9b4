package similarity

import "math"

// Cosine returns the cosine similarity of two equal-length vectors.
// Empty, mismatched-length, or zero-magnitude vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Distance is the cosine distance (1 - similarity). Lower means closer.
// This is the same convention pgvector's <=> operator uses, so in-process
// and pushed-down rankings sort identically.
func Distance(a, b []float32) float64 {
	return 1 - Cosine(a, b)
}
