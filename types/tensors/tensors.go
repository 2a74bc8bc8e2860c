/*
 *	Copyright 2023 The pymc3-go Authors
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package tensors implements a Tensor, a representation of a multidimensional array.
//
// Tensors are multidimensional arrays (from scalar with 0 dimensions, to arbitrarily
// large dimensions), defined by their shape (a data type and its axes' dimensions)
// and their actual content, stored as a flat (1D) Go slice of the underlying dtype.
//
// There are various ways to construct a Tensor from local data:
//
//   - FromShape(shape shapes.Shape): creates a tensor with the given shape and zero values.
//
//   - FromScalarAndDimensions[T shapes.Supported](value T, dimensions ...int): creates a
//     Tensor with the given dimensions, filled with the scalar value given.
//
//   - FromFlatDataAndDimensions[T shapes.Supported](data []T, dimensions ...int): creates
//     a Tensor with the given dimensions and sets the flattened values with the given
//     data. Example:
//
//     t := FromFlatDataAndDimensions([]int32{1, 2, 3, 4}, 2, 2) // Tensor with [[1,2], [3,4]]
//
//   - FromValue[S MultiDimensionSlice](value S): generic conversion works with the scalar
//     supported dtypes as well as with any arbitrary multidimensional slice of them.
//     Slices of rank > 1 must be regular, that is, all the sub-slices must have the same
//     shape. Example:
//
//     t := FromValue([][]float64{{1, 2}, {3, 5}, {7, 11}})
//
//   - FromAnyValue(value any): same as FromValue but non-generic. The exception is if
//     `value` is already a tensor, then it is a no-op and returns the tensor itself.
//
// To access the data use the generic ConstFlatData or MutableFlatData, or the
// reflection-based Value, which rebuilds the multidimensional Go slices.
package tensors

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/x448/float16"
)

// Tensor represents a multidimensional array of one of the supported dtypes.
//
// The shape is immutable after creation; the flat data can be mutated with
// MutableFlatData or replaced wholesale with AssignFlatData.
type Tensor struct {
	shape shapes.Shape

	// flat is a []T slice, with T matching shape.DType, and len == shape.Size().
	flat any
}

// MultiDimensionSlice lists the Go types a Tensor can be constructed from with
// FromValue: scalars or (nested) slices of the supported dtypes, up to rank 3.
type MultiDimensionSlice interface {
	bool | int | int32 | int64 | float32 | float64 |
		[]bool | []int | []int32 | []int64 | []float32 | []float64 |
		[][]bool | [][]int | [][]int32 | [][]int64 | [][]float32 | [][]float64 |
		[][][]bool | [][][]int | [][][]int32 | [][][]int64 | [][][]float32 | [][][]float64
}

// FromShape returns a Tensor with the given shape, with the data initialized with zeros.
func FromShape(shape shapes.Shape) *Tensor {
	if !shape.Ok() {
		exceptions.Panicf("tensors.FromShape: invalid shape %s", shape)
	}
	flat := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), shape.Size(), shape.Size())
	return &Tensor{shape: shape.Clone(), flat: flat.Interface()}
}

// FromScalar returns a scalar Tensor with the given value.
func FromScalar[T shapes.Supported](value T) *Tensor {
	return FromFlatDataAndDimensions([]T{value})
}

// FromScalarAndDimensions returns a Tensor with the given dimensions, filled
// with the given scalar value.
func FromScalarAndDimensions[T shapes.Supported](value T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypeFor[T](), dimensions...)
	data := make([]T, shape.Size())
	for ii := range data {
		data[ii] = value
	}
	return &Tensor{shape: shape, flat: data}
}

// FromFlatDataAndDimensions returns a Tensor with the given dimensions, with the
// flattened values set from data. The length of data must match the size of the
// resulting shape.
func FromFlatDataAndDimensions[T shapes.Supported](data []T, dimensions ...int) *Tensor {
	shape := shapes.Make(dtypeFor[T](), dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFlatDataAndDimensions: data length %d does not match shape %s (size %d)",
			len(data), shape, shape.Size())
	}
	flat := make([]T, len(data))
	copy(flat, data)
	return &Tensor{shape: shape, flat: flat}
}

func dtypeFor[T shapes.Supported]() shapes.DType {
	dtype := shapes.FromGenericsType[T]()
	if dtype == shapes.InvalidDType {
		var t T
		exceptions.Panicf("tensors: unsupported Go type %T", t)
	}
	return dtype
}

// FromValue returns a Tensor from any scalar or regular multidimensional slice
// of a supported dtype.
func FromValue[S MultiDimensionSlice](value S) *Tensor {
	return FromAnyValue(value)
}

// FromAnyValue is a non-generic version of FromValue. If value is already a
// *Tensor, it is returned unchanged.
func FromAnyValue(value any) *Tensor {
	if t, ok := value.(*Tensor); ok {
		return t
	}
	shape, err := shapeForValue(value)
	if err != nil {
		panic(err)
	}
	t := FromShape(shape)
	flatV := reflect.ValueOf(t.flat)
	pos := 0
	var fill func(v reflect.Value)
	fill = func(v reflect.Value) {
		if v.Kind() != reflect.Slice {
			elem := v
			if elem.Type() != shape.DType.GoType() {
				elem = elem.Convert(shape.DType.GoType())
			}
			flatV.Index(pos).Set(elem)
			pos++
			return
		}
		for ii := 0; ii < v.Len(); ii++ {
			fill(v.Index(ii))
		}
	}
	fill(reflect.ValueOf(value))
	return t
}

// shapeForValue introspects a scalar or (nested) slice value and returns the
// corresponding Shape. Irregular nested slices return an error.
func shapeForValue(value any) (shapes.Shape, error) {
	v := reflect.ValueOf(value)
	t := v.Type()
	var dims []int
	for t.Kind() == reflect.Slice {
		if v.Len() == 0 {
			return shapes.Invalid(), fmt.Errorf("tensors: cannot infer shape from empty slice %T", value)
		}
		dims = append(dims, v.Len())
		t = t.Elem()
		v = v.Index(0)
	}
	dtype := shapes.FromGoType(t)
	if dtype == shapes.InvalidDType {
		return shapes.Invalid(), fmt.Errorf("tensors: unsupported value type %T", value)
	}
	shape := shapes.Make(dtype, dims...)

	// Regularity check: every sub-slice must have the dimension recorded for its depth.
	var check func(v reflect.Value, depth int) error
	check = func(v reflect.Value, depth int) error {
		if v.Kind() != reflect.Slice {
			return nil
		}
		if v.Len() != dims[depth] {
			return fmt.Errorf("tensors: irregular multidimensional slice at depth %d: got length %d, want %d",
				depth, v.Len(), dims[depth])
		}
		for ii := 0; ii < v.Len(); ii++ {
			if err := check(v.Index(ii), depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(reflect.ValueOf(value), 0); err != nil {
		return shapes.Invalid(), err
	}
	return shape, nil
}

// Shape of the Tensor, includes the DType.
func (t *Tensor) Shape() shapes.Shape { return t.shape }

// DType returns the DType of the tensor's shape.
func (t *Tensor) DType() shapes.DType { return t.shape.DType }

// Rank returns the rank of the tensor's shape.
func (t *Tensor) Rank() int { return t.shape.Rank() }

// Size returns the number of elements of the tensor.
func (t *Tensor) Size() int { return t.shape.Size() }

// AssertValid panics if t is nil or if its shape is invalid.
func (t *Tensor) AssertValid() {
	if t == nil {
		exceptions.Panicf("tensors.Tensor is nil")
	}
	if !t.shape.Ok() {
		exceptions.Panicf("tensors.Tensor shape is invalid")
	}
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	t.AssertValid()
	newT := FromShape(t.shape)
	reflect.Copy(reflect.ValueOf(newT.flat), reflect.ValueOf(t.flat))
	return newT
}

// Equal compares both tensors for equality of shape and values.
func (t *Tensor) Equal(other *Tensor) bool {
	t.AssertValid()
	other.AssertValid()
	if !t.shape.Equal(other.shape) {
		return false
	}
	return reflect.DeepEqual(t.flat, other.flat)
}

// InDelta compares both tensors for equality of shape, and whether each element
// is within delta of the other. It converts values to float64 for comparison.
func (t *Tensor) InDelta(other *Tensor, delta float64) bool {
	t.AssertValid()
	other.AssertValid()
	if !t.shape.EqualDimensions(other.shape) {
		return false
	}
	a, b := t.ConvertToFloat64(), other.ConvertToFloat64()
	for ii := range a {
		diff := a[ii] - b[ii]
		if diff < -delta || diff > delta {
			return false
		}
	}
	return true
}

// String prints the shape and up to 16 values of the tensor.
func (t *Tensor) String() string {
	if t == nil || !t.shape.Ok() {
		return "tensors.Tensor(nil)"
	}
	const maxValues = 16
	flatV := reflect.ValueOf(t.flat)
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s: [", t.shape)
	for ii := 0; ii < flatV.Len() && ii < maxValues; ii++ {
		if ii > 0 {
			sb.WriteString(", ")
		}
		_, _ = fmt.Fprintf(&sb, "%v", flatV.Index(ii).Interface())
	}
	if flatV.Len() > maxValues {
		sb.WriteString(", ...")
	}
	sb.WriteString("]")
	return sb.String()
}

// ConvertToFloat64 returns a flat copy of the tensor values converted to float64.
// It panics for the Bool dtype.
func (t *Tensor) ConvertToFloat64() []float64 {
	t.AssertValid()
	result := make([]float64, t.Size())
	switch flat := t.flat.(type) {
	case []float64:
		copy(result, flat)
	case []float32:
		for ii, v := range flat {
			result[ii] = float64(v)
		}
	case []float16.Float16:
		for ii, v := range flat {
			result[ii] = float64(v.Float32())
		}
	case []int:
		for ii, v := range flat {
			result[ii] = float64(v)
		}
	case []int32:
		for ii, v := range flat {
			result[ii] = float64(v)
		}
	case []int64:
		for ii, v := range flat {
			result[ii] = float64(v)
		}
	default:
		exceptions.Panicf("Tensor.ConvertToFloat64: cannot convert dtype %s", t.DType())
	}
	return result
}

// FromFloat64AndDimensions creates a tensor of the given dtype and dimensions,
// converting the flat float64 data to the dtype. The inverse of ConvertToFloat64.
func FromFloat64AndDimensions(data []float64, dtype shapes.DType, dimensions ...int) *Tensor {
	shape := shapes.Make(dtype, dimensions...)
	if len(data) != shape.Size() {
		exceptions.Panicf("tensors.FromFloat64AndDimensions: data length %d does not match shape %s",
			len(data), shape)
	}
	t := FromShape(shape)
	flatV := reflect.ValueOf(t.flat)
	for ii, v := range data {
		flatV.Index(ii).Set(reflect.ValueOf(shapes.FromFloat64(v, dtype)))
	}
	return t
}
