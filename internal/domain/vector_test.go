package domain

import (
	"math"
	"testing"
)

func TestCosine_Identical(t *testing.T) {
	v := []float32{0.5, 0.5, 0.7}
	if got := Cosine(v, v); math.Abs(got-1) > 1e-9 {
		t.Errorf("expected cosine 1 for identical vectors, got %v", got)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if got := Cosine(a, b); math.Abs(got) > 1e-9 {
		t.Errorf("expected cosine 0 for orthogonal vectors, got %v", got)
	}
}

func TestCosine_Opposite(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{-1, -2}
	if got := Cosine(a, b); math.Abs(got+1) > 1e-9 {
		t.Errorf("expected cosine -1 for opposite vectors, got %v", got)
	}
}

func TestCosine_DefinedAsZeroOnBadInput(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
	}{
		{"length mismatch", []float32{1, 2}, []float32{1, 2, 3}},
		{"zero norm left", []float32{0, 0}, []float32{1, 1}},
		{"zero norm right", []float32{1, 1}, []float32{0, 0}},
		{"both nil", nil, nil},
		{"one nil", []float32{1}, nil},
	}
	for _, tc := range cases {
		if got := Cosine(tc.a, tc.b); got != 0 {
			t.Errorf("%s: expected 0, got %v", tc.name, got)
		}
	}
}

func TestRelevanceFromCosine_Rescales(t *testing.T) {
	if got := RelevanceFromCosine(-1); got != 0 {
		t.Errorf("cos=-1 should rescale to 0, got %v", got)
	}
	if got := RelevanceFromCosine(1); got != 1 {
		t.Errorf("cos=1 should rescale to 1, got %v", got)
	}
	if got := RelevanceFromCosine(0); got != 0.5 {
		t.Errorf("cos=0 should rescale to 0.5, got %v", got)
	}
}

func TestMeanVector(t *testing.T) {
	mean := MeanVector([][]float32{{1, 3}, {3, 5}})
	if len(mean) != 2 || mean[0] != 2 || mean[1] != 4 {
		t.Errorf("expected [2 4], got %v", mean)
	}
}

func TestMeanVector_SkipsMismatchedLengths(t *testing.T) {
	mean := MeanVector([][]float32{{2, 2}, {1, 2, 3}, {4, 4}})
	if len(mean) != 2 || mean[0] != 3 || mean[1] != 3 {
		t.Errorf("expected [3 3], got %v", mean)
	}
}

func TestMeanVector_Empty(t *testing.T) {
	if got := MeanVector(nil); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := MeanVector([][]float32{nil, nil}); got != nil {
		t.Errorf("expected nil for all-nil input, got %v", got)
	}
}
