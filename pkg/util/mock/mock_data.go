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

// Package mock provides canned subgraphs and input tensors shared by
// tests and the demo.
package mock

import (
	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// f32Type builds a complete float32 annotation. No arguments means
// rank-0, not unknown shape.
func f32Type(dims ...int64) *jit.TensorType {
	return &jit.TensorType{DType: tensor.Float32, Dims: append([]int64{}, dims...)}
}

func mustFromFloat32(dims []int64, vals []float32) *tensor.Tensor {
	t, err := tensor.FromFloat32(dims, vals)
	if err != nil {
		panic(err)
	}
	return t
}

// MockChainSubgraph captures relu(add(x, y)) over 2x2 float32 inputs,
// the smallest chain of supported elementwise operations.
func MockChainSubgraph() *jit.Graph {
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(f32Type(2, 2))
	y := g.AddInput("y").SetType(f32Type(2, 2))
	one := g.NewConstant(jit.NewInt(1))
	add := g.NewNode("aten::add", x, y, one)
	relu := g.NewNode("aten::relu", add.AddOutput())
	g.RegisterOutput(relu.AddOutput())
	return g
}

// MockChainInputs returns operands for MockChainSubgraph. The sums mix
// signs so relu is visible in the result.
func MockChainInputs() []*jit.IValue {
	x := mustFromFloat32([]int64{2, 2}, []float32{-1, 2, -3, 4})
	y := mustFromFloat32([]int64{2, 2}, []float32{0.5, -4, 1, 1})
	return []*jit.IValue{jit.NewTensorValue(x), jit.NewTensorValue(y)}
}

// MockDenseSubgraph captures add(mm(x, w), b) where the weight matrix w
// and the bias b are compile-time tensor constants, the shape traced
// models take after freezing. Translation promotes both to runtime
// inputs.
func MockDenseSubgraph() *jit.Graph {
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(f32Type(2, 3))
	w := mustFromFloat32([]int64{3, 4}, []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
	})
	wc := g.NewConstant(jit.NewTensorValue(w)).SetDebugName("w")
	bc := g.NewConstant(jit.NewTensorValue(tensor.ScalarFloat32(0.5))).SetDebugName("b")
	one := g.NewConstant(jit.NewInt(1))
	mm := g.NewNode("aten::mm", x, wc)
	add := g.NewNode("aten::add", mm.AddOutput(), bc, one)
	g.RegisterOutput(add.AddOutput())
	return g
}

// MockDenseInput returns the activation for MockDenseSubgraph.
func MockDenseInput() []*jit.IValue {
	x := mustFromFloat32([]int64{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	return []*jit.IValue{jit.NewTensorValue(x)}
}

// MockVarMeanSubgraph captures the multi-output aten::var_mean over a
// length-4 vector. Output 0 is the variance, output 1 the mean.
func MockVarMeanSubgraph() *jit.Graph {
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(f32Type(4))
	vm := g.NewNode("aten::var_mean", x)
	g.RegisterOutput(vm.AddOutput())
	g.RegisterOutput(vm.AddOutput())
	return g
}

// MockVarMeanInput returns the vector for MockVarMeanSubgraph.
func MockVarMeanInput() []*jit.IValue {
	x := mustFromFloat32([]int64{4}, []float32{1, 2, 3, 4})
	return []*jit.IValue{jit.NewTensorValue(x)}
}

// MockFloorSubgraph captures floor(add(x, y)). The interpreter evaluates
// aten::floor but the operator-translation table has no entry for it, so
// the subgraph exercises the fallback boundary.
func MockFloorSubgraph() *jit.Graph {
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(f32Type(2, 2))
	y := g.AddInput("y").SetType(f32Type(2, 2))
	one := g.NewConstant(jit.NewInt(1))
	add := g.NewNode("aten::add", x, y, one)
	floor := g.NewNode("aten::floor", add.AddOutput())
	g.RegisterOutput(floor.AddOutput())
	return g
}

// MockFloorInputs returns operands with fractional sums for
// MockFloorSubgraph.
func MockFloorInputs() []*jit.IValue {
	x := mustFromFloat32([]int64{2, 2}, []float32{1.2, -0.5, 3.7, 2})
	y := mustFromFloat32([]int64{2, 2}, []float32{0.3, 0.4, -1.2, 0.25})
	return []*jit.IValue{jit.NewTensorValue(x), jit.NewTensorValue(y)}
}

// MockFusedGraph wraps sub in an outer graph holding a single fusion
// node, the shape the engine hands over after capture. It returns the
// outer graph and the fusion node.
func MockFusedGraph(sub *jit.Graph) (*jit.Graph, *jit.Node) {
	outer := jit.NewGraph()
	n := outer.NewNode(jit.KindFusionGroup)
	n.SetSubgraph(sub)
	for _, in := range sub.Inputs() {
		v := outer.AddInput(in.DebugName()).SetType(in.Type())
		n.AddInput(v)
	}
	for range sub.Outputs() {
		outer.RegisterOutput(n.AddOutput())
	}
	return outer, n
}
