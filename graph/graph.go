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

// Package graph implements the expression nodes used to connect random
// variables and data containers in a model.
//
// Unlike a compiled computation graph, nodes here are evaluated eagerly, on
// demand, against the live values of the model: a Shared node reads the current
// tensor of its data container at every evaluation, so mutating a container is
// immediately visible to every expression depending on it -- this is what makes
// out-of-sample prediction work without rebuilding the model.
//
// Node kinds:
//
//   - Const: a fixed tensor value.
//   - Param: a placeholder for a free variable, resolved from an Env at
//     evaluation time.
//   - Shared: reads the live tensor of a SharedValue (the storage behind a
//     model's data container).
//   - Add, Sub, Mul, Div: element-wise arithmetic with NumPy-style broadcasting.
//   - Take: integer fancy-indexing along axis 0.
//   - AxisSize: scalar Int64 node tracking the live dimension of an axis -- the
//     "symbolic dimension length" of a model.
package graph

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/spiyer99/pymc3/types/tensors"
)

// NodeType identifies the operation of a Node.
type NodeType int

const (
	NodeInvalid NodeType = iota
	NodeConst
	NodeParam
	NodeShared
	NodeAdd
	NodeSub
	NodeMul
	NodeDiv
	NodeTake
	NodeAxisSize
)

// Env maps free-variable (Param) names to their values during an evaluation.
type Env map[string]*tensors.Tensor

// SharedValue is a named, mutable tensor holder. It is the storage behind a
// model's data container: Shared nodes read its current value at every
// evaluation.
type SharedValue struct {
	name  string
	value *tensors.Tensor
}

// NewShared returns a new SharedValue with the given name and initial value.
func NewShared(name string, value *tensors.Tensor) *SharedValue {
	value.AssertValid()
	return &SharedValue{name: name, value: value}
}

// Name of the shared value.
func (s *SharedValue) Name() string { return s.name }

// Value returns the current tensor.
func (s *SharedValue) Value() *tensors.Tensor { return s.value }

// SetValue replaces the current tensor. The shape may change; expressions and
// AxisSize nodes pick up the new shape on their next evaluation.
func (s *SharedValue) SetValue(value *tensors.Tensor) {
	value.AssertValid()
	s.value = value
}

// Node is one expression node. Create them with the constructors below; the
// zero value is invalid.
type Node struct {
	typ    NodeType
	inputs []*Node

	tensor *tensors.Tensor // NodeConst
	name   string          // NodeParam
	shared *SharedValue    // NodeShared
	axis   int             // NodeAxisSize
}

// Const returns a node with a fixed tensor value.
func Const(t *tensors.Tensor) *Node {
	t.AssertValid()
	return &Node{typ: NodeConst, tensor: t}
}

// ConstValue is a shortcut for Const(tensors.FromAnyValue(value)).
func ConstValue(value any) *Node {
	return Const(tensors.FromAnyValue(value))
}

// Param returns a placeholder node for the free variable of the given name.
func Param(name string) *Node {
	return &Node{typ: NodeParam, name: name}
}

// Shared returns a node reading the live value of s.
func (s *SharedValue) Node() *Node {
	return &Node{typ: NodeShared, shared: s}
}

func binary(typ NodeType, lhs, rhs *Node) *Node {
	lhs.AssertValid()
	rhs.AssertValid()
	return &Node{typ: typ, inputs: []*Node{lhs, rhs}}
}

// Add returns lhs+rhs, with broadcasting.
func Add(lhs, rhs *Node) *Node { return binary(NodeAdd, lhs, rhs) }

// Sub returns lhs-rhs, with broadcasting.
func Sub(lhs, rhs *Node) *Node { return binary(NodeSub, lhs, rhs) }

// Mul returns lhs*rhs, with broadcasting.
func Mul(lhs, rhs *Node) *Node { return binary(NodeMul, lhs, rhs) }

// Div returns lhs/rhs, with broadcasting.
func Div(lhs, rhs *Node) *Node { return binary(NodeDiv, lhs, rhs) }

// Take returns x indexed by the integer node indices along axis 0: the result
// shape is indices.Shape() followed by x.Shape()[1:].
func Take(x, indices *Node) *Node { return binary(NodeTake, x, indices) }

// AxisSize returns a scalar Int64 node that evaluates to the current dimension
// of the given axis of x. When x is a Shared node, the result tracks the
// container's live shape.
func AxisSize(x *Node, axis int) *Node {
	x.AssertValid()
	return &Node{typ: NodeAxisSize, inputs: []*Node{x}, axis: axis}
}

// AssertValid panics if the node is nil or invalid.
func (n *Node) AssertValid() {
	if n == nil || n.typ == NodeInvalid {
		exceptions.Panicf("graph.Node is nil or invalid")
	}
}

// Type returns the node's operation type.
func (n *Node) Type() NodeType { return n.typ }

// Inputs returns the node's input nodes.
func (n *Node) Inputs() []*Node { return n.inputs }

// Name returns the free-variable name of a Param node, or the container name of
// a Shared node. Empty for other node types.
func (n *Node) Name() string {
	switch n.typ {
	case NodeParam:
		return n.name
	case NodeShared:
		return n.shared.Name()
	}
	return ""
}

// ConstTensor returns the tensor of a Const node, nil for other node types.
func (n *Node) ConstTensor() *tensors.Tensor {
	if n.typ != NodeConst {
		return nil
	}
	return n.tensor
}

// SharedValue returns the SharedValue of a Shared node, nil for other node types.
func (n *Node) SharedValue() *SharedValue {
	if n.typ != NodeShared {
		return nil
	}
	return n.shared
}

// Leaves returns the Param and Shared nodes that n depends on, in depth-first
// order and deduplicated.
func (n *Node) Leaves() []*Node {
	n.AssertValid()
	var leaves []*Node
	seen := make(map[*Node]bool)
	var visit func(node *Node)
	visit = func(node *Node) {
		if seen[node] {
			return
		}
		seen[node] = true
		switch node.typ {
		case NodeParam, NodeShared:
			leaves = append(leaves, node)
		default:
			for _, input := range node.inputs {
				visit(input)
			}
		}
	}
	visit(n)
	return leaves
}

// String renders the node as a compact expression, used in model visualization:
// leaf names for Param and Shared nodes, values for scalar constants, and
// "f(...)" for operations.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.typ {
	case NodeConst:
		if n.tensor.Shape().IsScalar() {
			return fmt.Sprintf("%v", n.tensor.Value())
		}
		return fmt.Sprintf("array%v", n.tensor.Shape().Dimensions)
	case NodeParam:
		return n.name
	case NodeShared:
		return n.shared.Name()
	case NodeAxisSize:
		return fmt.Sprintf("f(%s.shape[%d])", n.inputs[0], n.axis)
	default:
		parts := make([]string, len(n.inputs))
		for ii, input := range n.inputs {
			parts[ii] = input.String()
		}
		return fmt.Sprintf("f(%s)", strings.Join(parts, ", "))
	}
}
