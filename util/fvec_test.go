package util

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMapFVec_MissingIsNaN(t *testing.T) {
	fv := MapFVec{0: 1.5, 3: -2.0}

	if got := fv.Fvalue(0); got != 1.5 {
		t.Errorf("Fvalue(0) = %v, want 1.5", got)
	}
	if got := fv.Fvalue(3); got != -2.0 {
		t.Errorf("Fvalue(3) = %v, want -2.0", got)
	}
	if got := fv.Fvalue(1); !math.IsNaN(got) {
		t.Errorf("Fvalue(1) = %v, want NaN for absent feature", got)
	}
}

func TestDenseFVec_OutOfRangeIsNaN(t *testing.T) {
	fv := NewDenseFVec([]float64{0.1, 0.2}, false)

	if got := fv.Fvalue(1); got != 0.2 {
		t.Errorf("Fvalue(1) = %v, want 0.2", got)
	}
	if got := fv.Fvalue(2); !math.IsNaN(got) {
		t.Errorf("Fvalue(2) = %v, want NaN past the end", got)
	}
	if got := fv.Fvalue(-1); !math.IsNaN(got) {
		t.Errorf("Fvalue(-1) = %v, want NaN for negative index", got)
	}
}

func TestDenseFVec_TreatsZeroAsMissing(t *testing.T) {
	fv := NewDenseFVec([]float64{0.0, 0.2}, true)

	if got := fv.Fvalue(0); !math.IsNaN(got) {
		t.Errorf("Fvalue(0) = %v, want NaN when zeros are missing", got)
	}
	if got := fv.Fvalue(1); got != 0.2 {
		t.Errorf("Fvalue(1) = %v, want 0.2", got)
	}

	// Without the mode, zero is a real value.
	fv = NewDenseFVec([]float64{0.0}, false)
	if got := fv.Fvalue(0); got != 0.0 {
		t.Errorf("Fvalue(0) = %v, want 0.0", got)
	}
}

func TestVectorFVec_WrapsGonumVector(t *testing.T) {
	vec := mat.NewVecDense(3, []float64{0.5, 1.5, 2.5})
	fv := NewVectorFVec(vec)

	if got := fv.Fvalue(2); got != 2.5 {
		t.Errorf("Fvalue(2) = %v, want 2.5", got)
	}
	if got := fv.Fvalue(3); !math.IsNaN(got) {
		t.Errorf("Fvalue(3) = %v, want NaN past the end", got)
	}
}

func TestVectorFVec_MatrixRow(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{
		1, 2,
		3, 4,
	})
	fv := NewVectorFVec(X.RowView(1))

	if got := fv.Fvalue(0); got != 3 {
		t.Errorf("Fvalue(0) = %v, want 3", got)
	}
	if got := fv.Fvalue(1); got != 4 {
		t.Errorf("Fvalue(1) = %v, want 4", got)
	}
}
