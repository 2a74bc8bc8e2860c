package graph

import (
	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/types/shapes"
	"github.com/spiyer99/pymc3/types/tensors"
	"github.com/spiyer99/pymc3/types/xslices"
)

// Eval evaluates the expression rooted at n. Param nodes are resolved from env;
// Shared nodes read the live value of their container. It panics if a Param has
// no value in env, or on shape mismatches.
func (n *Node) Eval(env Env) *tensors.Tensor {
	n.AssertValid()
	switch n.typ {
	case NodeConst:
		return n.tensor
	case NodeParam:
		value, found := env[n.name]
		if !found {
			exceptions.Panicf("graph: no value for free variable %q in evaluation environment", n.name)
		}
		return value
	case NodeShared:
		return n.shared.Value()
	case NodeAdd, NodeSub, NodeMul, NodeDiv:
		return evalBinary(n.typ, n.inputs[0].Eval(env), n.inputs[1].Eval(env))
	case NodeTake:
		return evalTake(n.inputs[0].Eval(env), n.inputs[1].Eval(env))
	case NodeAxisSize:
		operand := n.inputs[0].Eval(env)
		return tensors.FromScalar(int64(operand.Shape().Dim(n.axis)))
	}
	exceptions.Panicf("graph: cannot evaluate node of type %d", n.typ)
	return nil
}

// EvalShape returns the shape the expression evaluates to under env.
func (n *Node) EvalShape(env Env) shapes.Shape {
	return n.Eval(env).Shape()
}

// BroadcastDimensions returns the NumPy-style broadcast of the two dimension
// lists: dimensions are aligned on the trailing axes, and axes of size 1 (or
// missing) stretch to match. It panics when the dimensions are incompatible.
func BroadcastDimensions(a, b []int) []int {
	rank := max(len(a), len(b))
	result := make([]int, rank)
	for ii := 0; ii < rank; ii++ {
		dimA, dimB := 1, 1
		if ii >= rank-len(a) {
			dimA = a[ii-(rank-len(a))]
		}
		if ii >= rank-len(b) {
			dimB = b[ii-(rank-len(b))]
		}
		switch {
		case dimA == dimB:
			result[ii] = dimA
		case dimA == 1:
			result[ii] = dimB
		case dimB == 1:
			result[ii] = dimA
		default:
			exceptions.Panicf("graph: cannot broadcast dimensions %v with %v", a, b)
		}
	}
	return result
}

// BroadcastToDimensions returns a flat float64 copy of t expanded to the given
// dimensions, following the broadcast rules of BroadcastDimensions. It panics
// when t's dimensions cannot be broadcast to dims.
func BroadcastToDimensions(t *tensors.Tensor, dims []int) []float64 {
	tDims := t.Shape().Dimensions
	if got := BroadcastDimensions(tDims, dims); !slicesEqual(got, dims) {
		exceptions.Panicf("graph: cannot broadcast shape %v to %v", tDims, dims)
	}
	strides := broadcastStrides(tDims, dims)
	flat := t.ConvertToFloat64()
	size := 1
	for _, dim := range dims {
		size *= dim
	}
	result := make([]float64, size)
	index := make([]int, len(dims))
	for flatIdx := 0; flatIdx < size; flatIdx++ {
		srcIdx := 0
		for axis, pos := range index {
			srcIdx += pos * strides[axis]
		}
		result[flatIdx] = flat[srcIdx]
		for axis := len(index) - 1; axis >= 0; axis-- {
			index[axis]++
			if index[axis] < dims[axis] {
				break
			}
			index[axis] = 0
		}
	}
	return result
}

func slicesEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for ii := range a {
		if a[ii] != b[ii] {
			return false
		}
	}
	return true
}

// broadcastStrides returns the strides mapping an index of the output
// dimensions to the flat index of an operand with the given dimensions: axes
// being broadcast get stride 0.
func broadcastStrides(operand, output []int) []int {
	strides := make([]int, len(output))
	stride := 1
	for ii := len(operand) - 1; ii >= 0; ii-- {
		outAxis := ii + len(output) - len(operand)
		if operand[ii] != 1 || output[outAxis] == 1 {
			strides[outAxis] = stride
		}
		stride *= operand[ii]
	}
	return strides
}

func evalBinary(typ NodeType, lhs, rhs *tensors.Tensor) *tensors.Tensor {
	outDims := BroadcastDimensions(lhs.Shape().Dimensions, rhs.Shape().Dimensions)
	lhsStrides := broadcastStrides(lhs.Shape().Dimensions, outDims)
	rhsStrides := broadcastStrides(rhs.Shape().Dimensions, outDims)
	lhsFlat := lhs.ConvertToFloat64()
	rhsFlat := rhs.ConvertToFloat64()

	size := 1
	for _, dim := range outDims {
		size *= dim
	}
	result := make([]float64, size)
	index := make([]int, len(outDims))
	for flatIdx := 0; flatIdx < size; flatIdx++ {
		lhsIdx, rhsIdx := 0, 0
		for axis, pos := range index {
			lhsIdx += pos * lhsStrides[axis]
			rhsIdx += pos * rhsStrides[axis]
		}
		a, b := lhsFlat[lhsIdx], rhsFlat[rhsIdx]
		switch typ {
		case NodeAdd:
			result[flatIdx] = a + b
		case NodeSub:
			result[flatIdx] = a - b
		case NodeMul:
			result[flatIdx] = a * b
		case NodeDiv:
			result[flatIdx] = a / b
		}
		// Increment the multidimensional index.
		for axis := len(index) - 1; axis >= 0; axis-- {
			index[axis]++
			if index[axis] < outDims[axis] {
				break
			}
			index[axis] = 0
		}
	}

	dtype := shapes.Float64
	if lhs.DType().IsInt() && rhs.DType().IsInt() && typ != NodeDiv {
		dtype = shapes.Int64
	}
	return tensors.FromFloat64AndDimensions(result, dtype, outDims...)
}

func evalTake(x, indices *tensors.Tensor) *tensors.Tensor {
	if !indices.DType().IsInt() {
		exceptions.Panicf("graph.Take: indices must be integers, got dtype %s", indices.DType())
	}
	if x.Rank() < 1 {
		exceptions.Panicf("graph.Take: cannot index a scalar")
	}
	xDims := x.Shape().Dimensions
	rowSize := 1
	for _, dim := range xDims[1:] {
		rowSize *= dim
	}
	xFlat := x.ConvertToFloat64()
	idxFlat := indices.ConvertToFloat64()

	outDims := append(xslices.Copy(indices.Shape().Dimensions), xDims[1:]...)
	result := make([]float64, len(idxFlat)*rowSize)
	for ii, idxF := range idxFlat {
		idx := int(idxF)
		if idx < 0 || idx >= xDims[0] {
			exceptions.Panicf("graph.Take: index %d out of bounds for axis 0 with dimension %d", idx, xDims[0])
		}
		copy(result[ii*rowSize:(ii+1)*rowSize], xFlat[idx*rowSize:(idx+1)*rowSize])
	}
	return tensors.FromFloat64AndDimensions(result, x.DType(), outDims...)
}
