// Copyright 2026 The PyTorch TVM Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package jit models the host engine's captured dataflow graphs and runs
// them with a reference interpreter. Graphs are append-only: nodes stay in
// insertion order, which is topological for traced programs.
package jit

import (
	"fmt"
	"strings"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// Node kinds with engine-level meaning.
const (
	KindConstant    = "prim::Constant"
	KindReturn      = "prim::Return"
	KindFusionGroup = "tvm::CompilationGroup"
)

// TensorType is the static type annotation of a Value. Dims is nil when
// only the element type is known; a type with concrete dims and a valid
// dtype is "complete".
type TensorType struct {
	DType tensor.DType
	Dims  []int64
}

// Complete reports whether dtype and every dim are concrete.
func (t *TensorType) Complete() bool {
	if t == nil || t.DType == tensor.Invalid || t.Dims == nil {
		return false
	}
	for _, d := range t.Dims {
		if d < 0 {
			return false
		}
	}
	return true
}

func (t *TensorType) String() string {
	if t == nil {
		return "Tensor"
	}
	if t.Dims == nil {
		return fmt.Sprintf("Tensor(%s)", t.DType)
	}
	return fmt.Sprintf("%s%v", t.DType, t.Dims)
}

// InferType reads the concrete type off a runtime tensor. The returned
// dims are non-nil even for rank-0 tensors, whose empty shape is concrete.
func InferType(t *tensor.Tensor) *TensorType {
	dims := make([]int64, len(t.Dims()))
	copy(dims, t.Dims())
	return &TensorType{DType: t.DType(), Dims: dims}
}

// Use records one consumer of a value and the operand slot it occupies.
type Use struct {
	User   *Node
	Offset int
}

// Value is an edge of the graph: produced by one node (or declared as a
// graph input) and consumed through its use list.
type Value struct {
	id        int
	debugName string
	node      *Node
	offset    int
	typ       *TensorType
	uses      []Use
}

func (v *Value) ID() int           { return v.id }
func (v *Value) DebugName() string { return v.debugName }
func (v *Value) Node() *Node       { return v.node }
func (v *Value) Offset() int       { return v.offset }
func (v *Value) Type() *TensorType { return v.typ }
func (v *Value) Uses() []Use       { return v.uses }

// SetDebugName renames the value and returns it for chaining.
func (v *Value) SetDebugName(name string) *Value {
	v.debugName = name
	return v
}

// SetType attaches a static type annotation.
func (v *Value) SetType(t *TensorType) *Value {
	v.typ = t
	return v
}

// UniqueName is the debug name suffixed with the value id, unique within
// the graph even when debug names collide.
func (v *Value) UniqueName() string {
	return fmt.Sprintf("%s_%d", v.debugName, v.id)
}

// IsCompleteTensor reports whether the static type pins dtype and dims.
func (v *Value) IsCompleteTensor() bool {
	return v.typ.Complete()
}

// Node is an operation instance. Constant nodes carry their payload in
// ivalue; fusion nodes carry the captured subgraph.
type Node struct {
	kind     string
	graph    *Graph
	inputs   []*Value
	outputs  []*Value
	ivalue   *IValue
	subgraph *Graph
}

func (n *Node) Kind() string      { return n.kind }
func (n *Node) Inputs() []*Value  { return n.inputs }
func (n *Node) Outputs() []*Value { return n.outputs }
func (n *Node) Subgraph() *Graph  { return n.subgraph }
func (n *Node) IValue() *IValue   { return n.ivalue }

// Input returns operand i.
func (n *Node) Input(i int) *Value { return n.inputs[i] }

// Output returns the sole output of a single-output node.
func (n *Node) Output() *Value {
	if len(n.outputs) != 1 {
		panic(fmt.Sprintf("jit: Output() on node %s with %d outputs", n.kind, len(n.outputs)))
	}
	return n.outputs[0]
}

// AddInput appends an operand and records the use on the value.
func (n *Node) AddInput(v *Value) *Node {
	v.uses = append(v.uses, Use{User: n, Offset: len(n.inputs)})
	n.inputs = append(n.inputs, v)
	return n
}

// AddOutput creates a fresh output value of this node.
func (n *Node) AddOutput() *Value {
	v := n.graph.newValue("")
	v.node = n
	v.offset = len(n.outputs)
	n.outputs = append(n.outputs, v)
	return v
}

// SetSubgraph attaches a captured subgraph, for fusion nodes.
func (n *Node) SetSubgraph(g *Graph) *Node {
	n.subgraph = g
	return n
}

// Graph is one captured program: declared inputs, nodes in topological
// order, and a terminating return node consuming the outputs.
type Graph struct {
	inputs []*Value
	nodes  []*Node
	ret    *Node
	nextID int
}

func NewGraph() *Graph {
	g := &Graph{}
	g.ret = &Node{kind: KindReturn, graph: g}
	return g
}

func (g *Graph) newValue(name string) *Value {
	if name == "" {
		name = "t"
	}
	v := &Value{id: g.nextID, debugName: name}
	g.nextID++
	return v
}

// AddInput declares a graph input.
func (g *Graph) AddInput(name string) *Value {
	v := g.newValue(name)
	g.inputs = append(g.inputs, v)
	return v
}

// NewNode appends an operation consuming the given values. Outputs are
// added separately via AddOutput.
func (g *Graph) NewNode(kind string, inputs ...*Value) *Node {
	n := &Node{kind: kind, graph: g}
	for _, in := range inputs {
		n.AddInput(in)
	}
	g.nodes = append(g.nodes, n)
	return n
}

// NewConstant appends a constant node and returns its output value.
func (g *Graph) NewConstant(iv *IValue) *Value {
	n := g.NewNode(KindConstant)
	n.ivalue = iv
	out := n.AddOutput()
	if tv, ok := iv.tensorOrNil(); ok {
		out.SetType(InferType(tv))
	}
	return out
}

// RegisterOutput appends a graph output. Outputs are operands of the
// return node, so use-walking sees the terminator like any consumer.
func (g *Graph) RegisterOutput(v *Value) {
	g.ret.AddInput(v)
}

func (g *Graph) Inputs() []*Value  { return g.inputs }
func (g *Graph) Outputs() []*Value { return g.ret.inputs }
func (g *Graph) Nodes() []*Node    { return g.nodes }

// Return exposes the terminator node.
func (g *Graph) Return() *Node { return g.ret }

// ToIValue resolves the compile-time payload of a constant-produced value.
func ToIValue(v *Value) (*IValue, bool) {
	if v.node != nil && v.node.kind == KindConstant {
		return v.node.ivalue, true
	}
	return nil, false
}

// String renders the graph in engine IR text form.
func (g *Graph) String() string {
	var b strings.Builder
	b.WriteString("graph(")
	for i, in := range g.inputs {
		if i > 0 {
			b.WriteString(",\n      ")
		}
		fmt.Fprintf(&b, "%%%s : %s", in.UniqueName(), in.typ)
	}
	b.WriteString("):\n")
	for _, n := range g.nodes {
		b.WriteString("  ")
		for i, out := range n.outputs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%%%s", out.UniqueName())
		}
		if len(n.outputs) > 0 {
			b.WriteString(" = ")
		}
		b.WriteString(n.kind)
		if n.kind == KindConstant {
			fmt.Fprintf(&b, "[value=%s]", n.ivalue)
		}
		b.WriteString("(")
		for i, in := range n.inputs {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%%%s", in.UniqueName())
		}
		b.WriteString(")\n")
	}
	b.WriteString("  return (")
	for i, out := range g.Outputs() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%%%s", out.UniqueName())
	}
	b.WriteString(")")
	return b.String()
}
