package similarity

import (
	"math"
	"testing"
)

func TestCosineIdentical(t *testing.T) {
	v := []float32{0.3, 0.5, 0.8}
	if got := Cosine(v, v); math.Abs(got-1) > 1e-9 {
		t.Fatalf("expected similarity 1 for identical vectors, got %v", got)
	}
}

func TestCosineOrthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := Cosine(a, b); math.Abs(got) > 1e-9 {
		t.Fatalf("expected similarity 0 for orthogonal vectors, got %v", got)
	}
}

func TestCosineOpposite(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	if got := Cosine(a, b); math.Abs(got+1) > 1e-9 {
		t.Fatalf("expected similarity -1 for opposite vectors, got %v", got)
	}
}

func TestCosineDegenerateInputs(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"both empty", nil, nil},
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"zero magnitude", []float32{0, 0}, []float32{1, 2}},
	}
	for _, tc := range cases {
		if got := Cosine(tc.a, tc.b); got != 0 {
			t.Fatalf("%s: expected 0, got %v", tc.name, got)
		}
	}
}

func TestDistanceConvention(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 0}
	c := []float32{0, 1}
	if Distance(a, b) >= Distance(a, c) {
		t.Fatalf("closer vector must have lower distance: d(a,b)=%v d(a,c)=%v", Distance(a, b), Distance(a, c))
	}
}
