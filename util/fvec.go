package util

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// FVec supplies feature values to tree traversal. Fvalue returns NaN for a
// feature index with no observed value; traversal routes NaN through each
// split's default direction, so any index may be queried safely.
type FVec interface {
	Fvalue(featureIndex int) float64
}

// MapFVec is a sparse feature vector backed by a map. Absent indices are
// missing values.
type MapFVec map[int]float64

// Fvalue implements FVec.
func (m MapFVec) Fvalue(featureIndex int) float64 {
	v, ok := m[featureIndex]
	if !ok {
		return math.NaN()
	}
	return v
}

// DenseFVec is a dense feature vector backed by a slice. Indices past the end
// are missing. With treatsZeroAsMissing set, exact-zero entries are reported
// as missing too, which matches sparse training data where unobserved
// features materialize as zeros.
type DenseFVec struct {
	values              []float64
	treatsZeroAsMissing bool
}

// NewDenseFVec wraps values as a feature vector. The slice is not copied.
func NewDenseFVec(values []float64, treatsZeroAsMissing bool) DenseFVec {
	return DenseFVec{values: values, treatsZeroAsMissing: treatsZeroAsMissing}
}

// Fvalue implements FVec.
func (d DenseFVec) Fvalue(featureIndex int) float64 {
	if featureIndex < 0 || featureIndex >= len(d.values) {
		return math.NaN()
	}
	v := d.values[featureIndex]
	if d.treatsZeroAsMissing && v == 0 {
		return math.NaN()
	}
	return v
}

// VectorFVec adapts a gonum mat.Vector to the FVec contract, so rows of a
// feature matrix can be fed to prediction without copying.
type VectorFVec struct {
	vec mat.Vector
}

// NewVectorFVec wraps vec as a feature vector.
func NewVectorFVec(vec mat.Vector) VectorFVec {
	return VectorFVec{vec: vec}
}

// Fvalue implements FVec.
func (v VectorFVec) Fvalue(featureIndex int) float64 {
	if featureIndex < 0 || featureIndex >= v.vec.Len() {
		return math.NaN()
	}
	return v.vec.AtVec(featureIndex)
}
