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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
	"github.com/yinghai/tvm-1/pkg/util/mock"
)

func TestTranslateChain(t *testing.T) {
	r := require.New(t)
	g := mock.MockChainSubgraph()

	fn, inputs, err := newTranslator().translate(g)
	r.NoError(err)
	r.Len(fn.Params, 2)
	r.Len(inputs, 2)
	assert.Same(t, g.Inputs()[0], inputs[0])
	assert.Same(t, g.Inputs()[1], inputs[1])
	assert.Equal(t,
		"fn (%x_0: Tensor[(2, 2), float32], %y_1: Tensor[(2, 2), float32]) {\n"+
			"  (nn.relu(add(%x_0, %y_1)),)\n"+
			"}",
		fn.String())

	// Translating the same graph again yields an equivalent function.
	again, _, err := newTranslator().translate(g)
	r.NoError(err)
	assert.Equal(t, fn.String(), again.String())
}

func TestTranslatePromotesTensorConstants(t *testing.T) {
	r := require.New(t)
	g := mock.MockDenseSubgraph()

	fn, inputs, err := newTranslator().translate(g)
	r.NoError(err)
	// Declared input first, then the weight and bias constants in
	// discovery order.
	r.Len(inputs, 3)
	assert.Same(t, g.Inputs()[0], inputs[0])
	assert.Equal(t, "w_1", inputs[1].UniqueName())
	assert.Equal(t, "b_2", inputs[2].UniqueName())
	assert.Equal(t,
		"fn (%x_0: Tensor[(2, 3), float32], %w_1: Tensor[(3, 4), float32], %b_2: Tensor[(), float32]) {\n"+
			"  (add(nn.dense(%x_0, transpose(%w_1, axes=[1 0])), %b_2),)\n"+
			"}",
		fn.String())
}

func TestTranslateMultiOutput(t *testing.T) {
	r := require.New(t)
	g := mock.MockVarMeanSubgraph()

	fn, inputs, err := newTranslator().translate(g)
	r.NoError(err)
	r.Len(inputs, 1)

	body, ok := fn.Body.(*relay.Tuple)
	r.True(ok)
	r.Len(body.Fields, 2)
	first, ok := body.Fields[0].(*relay.TupleGetItem)
	r.True(ok)
	second, ok := body.Fields[1].(*relay.TupleGetItem)
	r.True(ok)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 1, second.Index)
	// Both projections read the same tuple; the node translated once.
	assert.Same(t, first.Tuple, second.Tuple)
	assert.Equal(t, "(variance(%x_0, correction=1), mean(%x_0),).0", first.String())
}

func TestTranslateConstants(t *testing.T) {
	tr := newTranslator()

	e, err := tr.translateConstant(jit.NewDouble(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5f", e.String())

	e, err = tr.translateConstant(jit.NewInt(42))
	require.NoError(t, err)
	assert.Equal(t, "42", e.String())
	c, ok := e.(*relay.Constant)
	require.True(t, ok)
	assert.Equal(t, tensor.Int32, c.Value.DType())

	e, err = tr.translateConstant(jit.NewBool(true))
	require.NoError(t, err)
	assert.Equal(t, "true", e.String())

	e, err = tr.translateConstant(jit.NewIntList([]int64{1, 2, 3}))
	require.NoError(t, err)
	tup, ok := e.(*relay.Tuple)
	require.True(t, ok)
	assert.Len(t, tup.Fields, 3)
	assert.Equal(t, "(1, 2, 3,)", tup.String())
}

func TestTranslateConstantNoneSentinel(t *testing.T) {
	e, err := newTranslator().translateConstant(jit.NewNone())
	require.NoError(t, err)
	c, ok := e.(*relay.Constant)
	require.True(t, ok)
	assert.True(t, tensor.IsNoneSentinel(c.Value))
	assert.Equal(t, "none", c.String())
}

func TestTranslateConstantRangeOverflow(t *testing.T) {
	tr := newTranslator()
	cases := []*jit.IValue{
		jit.NewDouble(1e308),
		jit.NewDouble(-1e308),
		jit.NewInt(1 << 40),
		jit.NewInt(-(1 << 40)),
		jit.NewIntList([]int64{1, 1 << 40}),
	}
	for _, iv := range cases {
		_, err := tr.translateConstant(iv)
		require.Error(t, err, "constant %s", iv)
		assert.Equal(t, status.CodeRangeOverflow, status.CodeOf(err))
	}
}

func TestTranslateConstantUnsupportedKind(t *testing.T) {
	tv := jit.NewTensorValue(tensor.ScalarFloat32(1))
	_, err := newTranslator().translateConstant(tv)
	require.Error(t, err)
	assert.Equal(t, status.CodeUnsupportedConstant, status.CodeOf(err))
}

func TestTranslateIncompleteInputType(t *testing.T) {
	g := jit.NewGraph()
	x := g.AddInput("x")
	n := g.NewNode("aten::relu", x)
	g.RegisterOutput(n.AddOutput())

	_, _, err := newTranslator().translate(g)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.CodeIncompleteType))

	// A dtype alone is not enough either.
	x.SetType(&jit.TensorType{DType: tensor.Float32})
	_, _, err = newTranslator().translate(g)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.CodeIncompleteType))
}

func TestTranslateUnsupportedInputDtype(t *testing.T) {
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(&jit.TensorType{DType: tensor.Float16, Dims: []int64{2}})
	n := g.NewNode("aten::relu", x)
	g.RegisterOutput(n.AddOutput())

	_, _, err := newTranslator().translate(g)
	require.Error(t, err)
	assert.True(t, status.Is(err, status.CodeUnsupportedType))
}

func TestTranslateTypeHintOverridesStatic(t *testing.T) {
	r := require.New(t)
	g := mock.MockChainSubgraph()
	hint, err := tensor.New(tensor.Float32, []int64{1, 4})
	r.NoError(err)

	tr := newTranslator()
	tr.typeHints[g.Inputs()[0]] = jit.InferType(hint)
	tr.typeHints[g.Inputs()[1]] = jit.InferType(hint)
	fn, _, err := tr.translate(g)
	r.NoError(err)
	assert.Equal(t, []int64{1, 4}, fn.Params[0].Type.Dims)
	assert.Equal(t, []int64{1, 4}, fn.Params[1].Type.Dims)
}

func TestTranslateUnsupportedOp(t *testing.T) {
	_, _, err := newTranslator().translate(mock.MockFloorSubgraph())
	require.Error(t, err)
	assert.True(t, status.Is(err, status.CodeUnsupportedOp))
	assert.Contains(t, err.Error(), "aten::floor")
}

func TestTranslateConstantOutputViaTerminator(t *testing.T) {
	r := require.New(t)
	g := jit.NewGraph()
	x := g.AddInput("x").SetType(&jit.TensorType{DType: tensor.Float32, Dims: []int64{2, 2}})
	c := g.NewConstant(jit.NewDouble(2.5))
	g.RegisterOutput(x)
	g.RegisterOutput(c)

	// The terminator resolves its operands like any consumer, so the
	// scalar constant output materializes when the walk reaches it.
	fn, inputs, err := newTranslator().translate(g)
	r.NoError(err)
	r.Len(inputs, 1)
	assert.Equal(t, "fn (%x_0: Tensor[(2, 2), float32]) {\n  (%x_0, 2.5f,)\n}", fn.String())
}

func TestTranslateUnreachableOutput(t *testing.T) {
	g := jit.NewGraph()
	g.AddInput("x").SetType(&jit.TensorType{DType: tensor.Float32, Dims: []int64{2, 2}})
	c := g.NewConstant(jit.NewDouble(1))
	g.RegisterOutput(c)

	// The input is unused, so the walk never reaches the terminator and
	// the constant output stays unresolved.
	_, _, err := newTranslator().translate(g)
	require.Error(t, err)
	assert.Equal(t, status.CodeInternalConsistency, status.CodeOf(err))
	assert.Contains(t, err.Error(), "never resolved")
}
