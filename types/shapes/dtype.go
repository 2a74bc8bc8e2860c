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

package shapes

import (
	"reflect"
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/x448/float16"
)

// DType indicates the type of the unit element of a Tensor. It enumerates the
// supported data types: Bool, Int32, Int64, Float16, Float32 and Float64.
//
// Float16 values are stored as github.com/x448/float16 half-precision floats.
type DType int32

//go:generate go tool enumer -type=DType -output=gen_dtype_enumer.go

const (
	InvalidDType DType = iota
	Bool
	Int32
	Int64
	Float16
	Float32
	Float64
)

// Aliases, for those used to the shorter forms.
const (
	I32 = Int32
	I64 = Int64
	F16 = Float16
	F32 = Float32
	F64 = Float64
)

// Supported lists the Go types that can back a Tensor. Used as a generics constraint.
type Supported interface {
	bool | int | int32 | int64 | float16.Float16 | float32 | float64
}

// Number is the subset of Supported types on which arithmetic is defined natively in Go.
// See also NumberNotHalf if you need to exclude float16.
type Number interface {
	int | int32 | int64 | float32 | float64
}

// IsFloat returns whether dtype is a float type -- including Float16.
func (dtype DType) IsFloat() bool {
	return dtype == Float16 || dtype == Float32 || dtype == Float64
}

// IsInt returns whether dtype is a supported integer type.
func (dtype DType) IsInt() bool {
	return dtype == Int32 || dtype == Int64
}

// IsSupported returns whether dtype can back a Tensor.
func (dtype DType) IsSupported() bool {
	return dtype > InvalidDType && dtype <= Float64
}

// FromGenericsType returns the DType for the given Go type.
func FromGenericsType[T Supported]() DType {
	var t T
	return FromAny(t)
}

// FromAny introspects the dynamic type of value and returns the corresponding
// DType. Unsupported types return InvalidDType.
func FromAny(value any) DType {
	switch value.(type) {
	case bool:
		return Bool
	case int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case int32:
		return Int32
	case int64:
		return Int64
	case float16.Float16:
		return Float16
	case float32:
		return Float32
	case float64:
		return Float64
	}
	return InvalidDType
}

// FromGoType returns the DType for the given reflect.Type.
// Unsupported types return InvalidDType.
func FromGoType(t reflect.Type) DType {
	if t == float16Type {
		return Float16
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int:
		if strconv.IntSize == 32 {
			return Int32
		}
		return Int64
	case reflect.Int32:
		return Int32
	case reflect.Int64:
		return Int64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	default:
		return InvalidDType
	}
}

// Pre-generated reflect.Type values for convenience.
var (
	float16Type = reflect.TypeOf(float16.Float16(0))
	goTypes     = map[DType]reflect.Type{
		Bool:    reflect.TypeOf(bool(false)),
		Int32:   reflect.TypeOf(int32(0)),
		Int64:   reflect.TypeOf(int64(0)),
		Float16: float16Type,
		Float32: reflect.TypeOf(float32(0)),
		Float64: reflect.TypeOf(float64(0)),
	}
)

// GoType returns the reflect.Type of the Go type backing the dtype.
// It panics for invalid DType values.
func (dtype DType) GoType() reflect.Type {
	t, found := goTypes[dtype]
	if !found {
		exceptions.Panicf("shapes.DType(%d) has no corresponding Go type", dtype)
	}
	return t
}

// Size returns the number of bytes used per element of the given DType.
func (dtype DType) Size() int {
	return int(dtype.GoType().Size())
}

// Memory returns the number of bytes used per element, as an uintptr.
// It's an alias to Size.
func (dtype DType) Memory() uintptr {
	return uintptr(dtype.Size())
}

// ToFloat64 converts a single element of the given dtype (held as `any`) to float64.
// It panics for non-numeric dtypes.
func ToFloat64(value any) float64 {
	switch v := value.(type) {
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case float16.Float16:
		return float64(v.Float32())
	case float32:
		return float64(v)
	case float64:
		return v
	}
	exceptions.Panicf("shapes.ToFloat64: cannot convert %T to float64", value)
	return 0
}

// FromFloat64 converts a float64 to the given dtype, returned as `any`.
// It panics for non-numeric dtypes.
func FromFloat64(value float64, dtype DType) any {
	switch dtype {
	case Int32:
		return int32(value)
	case Int64:
		return int64(value)
	case Float16:
		return float16.Fromfloat32(float32(value))
	case Float32:
		return float32(value)
	case Float64:
		return value
	}
	exceptions.Panicf("shapes.FromFloat64: cannot convert float64 to dtype %s", dtype)
	return nil
}
