package shapes

import (
	"github.com/gomlx/exceptions"
)

// CheckRank returns whether the shape of shaped has the given rank.
func CheckRank(shaped HasShape, rank int) bool {
	return shaped.Shape().Rank() == rank
}

// AssertRank panics if the shape of shaped does not have the given rank.
func AssertRank(shaped HasShape, rank int) {
	if !CheckRank(shaped, rank) {
		exceptions.Panicf("shape %s does not have expected rank %d", shaped.Shape(), rank)
	}
}

// CheckScalar returns whether the shape of shaped is a scalar.
func CheckScalar(shaped HasShape) bool {
	return shaped.Shape().IsScalar()
}

// AssertScalar panics if the shape of shaped is not a scalar.
func AssertScalar(shaped HasShape) {
	if !CheckScalar(shaped) {
		exceptions.Panicf("shape %s is not a scalar", shaped.Shape())
	}
}

// CheckDims returns whether the shape of shaped matches the given dimensions.
// A -1 in dimensions means the corresponding axis can take any value.
func CheckDims(shaped HasShape, dimensions ...int) bool {
	shape := shaped.Shape()
	if shape.Rank() != len(dimensions) {
		return false
	}
	for axis, wantDim := range dimensions {
		if wantDim != -1 && shape.Dimensions[axis] != wantDim {
			return false
		}
	}
	return true
}

// AssertDims panics if the shape of shaped does not match the given dimensions.
// A -1 in dimensions means the corresponding axis can take any value.
func AssertDims(shaped HasShape, dimensions ...int) {
	if !CheckDims(shaped, dimensions...) {
		exceptions.Panicf("shape %s does not match expected dimensions %v", shaped.Shape(), dimensions)
	}
}
