package tensors

import (
	"reflect"

	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/types/shapes"
)

// ConstFlatData calls accessFn with the flat data of the tensor. The slice is
// the actual backing data, and must not be mutated -- see MutableFlatData.
//
// It panics if T does not match the tensor's dtype.
func ConstFlatData[T shapes.Supported](t *Tensor, accessFn func(flat []T)) {
	accessFn(flatOf[T](t))
}

// MutableFlatData calls accessFn with the flat data of the tensor. Mutations of
// the slice contents change the tensor values directly.
//
// It panics if T does not match the tensor's dtype.
func MutableFlatData[T shapes.Supported](t *Tensor, accessFn func(flat []T)) {
	accessFn(flatOf[T](t))
}

// CopyFlatData returns a copy of the flat data of the tensor.
//
// It panics if T does not match the tensor's dtype.
func CopyFlatData[T shapes.Supported](t *Tensor) []T {
	flat := flatOf[T](t)
	result := make([]T, len(flat))
	copy(result, flat)
	return result
}

// AssignFlatData overwrites the tensor values with fromFlat. The length of
// fromFlat must match the tensor size, and T must match its dtype.
func AssignFlatData[T shapes.Supported](t *Tensor, fromFlat []T) {
	flat := flatOf[T](t)
	if len(fromFlat) != len(flat) {
		exceptions.Panicf("tensors.AssignFlatData: got %d values for tensor shaped %s", len(fromFlat), t.Shape())
	}
	copy(flat, fromFlat)
}

// ToScalar returns the value of a scalar (or size 1) tensor.
//
// It panics if T does not match the tensor's dtype or if the tensor holds more
// than one value.
func ToScalar[T shapes.Supported](t *Tensor) T {
	flat := flatOf[T](t)
	if len(flat) != 1 {
		exceptions.Panicf("tensors.ToScalar: tensor shaped %s is not a scalar", t.Shape())
	}
	return flat[0]
}

func flatOf[T shapes.Supported](t *Tensor) []T {
	t.AssertValid()
	flat, ok := t.flat.([]T)
	if !ok {
		var v T
		exceptions.Panicf("tensors: requested access as %T, but tensor dtype is %s", v, t.DType())
	}
	return flat
}

// Value returns a multidimensional Go slice (or scalar, for rank-0) with a copy
// of the tensor values. The returned type is `[][]...[]T`, with the tensor's
// rank levels of nesting.
func (t *Tensor) Value() any {
	t.AssertValid()
	flatV := reflect.ValueOf(t.flat)
	if t.Rank() == 0 {
		return flatV.Index(0).Interface()
	}
	return buildNested(flatV, t.shape.Dimensions).Interface()
}

// buildNested recursively builds nested Go slices from the flat data.
func buildNested(flat reflect.Value, dimensions []int) reflect.Value {
	if len(dimensions) == 1 {
		result := reflect.MakeSlice(flat.Type(), dimensions[0], dimensions[0])
		reflect.Copy(result, flat)
		return result
	}
	stride := 1
	for _, dim := range dimensions[1:] {
		stride *= dim
	}
	var elemType reflect.Type
	subSlices := make([]reflect.Value, dimensions[0])
	for ii := 0; ii < dimensions[0]; ii++ {
		subSlices[ii] = buildNested(flat.Slice(ii*stride, (ii+1)*stride), dimensions[1:])
		elemType = subSlices[ii].Type()
	}
	result := reflect.MakeSlice(reflect.SliceOf(elemType), dimensions[0], dimensions[0])
	for ii, sub := range subSlices {
		result.Index(ii).Set(sub)
	}
	return result
}
