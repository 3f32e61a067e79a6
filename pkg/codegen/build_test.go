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

package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinghai/tvm-1/pkg/graphruntime"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

func f32Type(dims ...int64) *relay.TensorType {
	return relay.NewTensorType(dims, relay.Float(32))
}

func cpuTargets() map[int]string {
	return map[int]string{tensor.DeviceCPU: "llvm"}
}

func TestBuildAndExecute(t *testing.T) {
	r := require.New(t)

	x := relay.NewVar("x_0", f32Type(2, 2))
	y := relay.NewVar("y_1", f32Type(2, 2))
	sum := relay.NewCall("add", []relay.Expr{x, y})
	out := relay.NewCall("nn.relu", []relay.Expr{sum})
	fn := relay.NewFunction([]*relay.Var{x, y}, relay.NewTuple([]relay.Expr{out}))

	art, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	r.NoError(err)

	rt, err := graphruntime.Create(art.GraphJSON, art.Mod, tensor.DeviceCPU, 0)
	r.NoError(err)
	r.Equal(1, rt.GetNumOutputs())
	r.Equal(2, rt.NumInputs())

	xt, _ := tensor.FromFloat32([]int64{2, 2}, []float32{-1, 2, -3, 4})
	yt, _ := tensor.FromFloat32([]int64{2, 2}, []float32{0, 0, 1, 1})
	r.NoError(rt.SetInput(0, xt))
	r.NoError(rt.SetInput(1, yt))
	r.NoError(rt.Run())

	got, err := rt.GetOutput(0)
	r.NoError(err)
	vals, _ := got.Float32s()
	assert.Equal(t, []float32{0, 2, 0, 5}, vals)
}

func TestBuildInternalizesConstantsAsFloat32(t *testing.T) {
	r := require.New(t)

	x := relay.NewVar("x_0", f32Type(2))
	alpha := relay.NewConstant(tensor.ScalarInt32(3))
	body := relay.NewCall("multiply", []relay.Expr{x, alpha})
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{body}))

	// Level 0 keeps the constant as a runtime param instead of folding.
	art, err := NewBuildModule(0).Build(fn, cpuTargets(), "llvm")
	r.NoError(err)

	p, ok := art.Mod.Param("p0")
	r.True(ok)
	assert.Equal(t, tensor.Float32, p.DType())

	rt, err := graphruntime.Create(art.GraphJSON, art.Mod, tensor.DeviceCPU, 0)
	r.NoError(err)
	xt, _ := tensor.FromFloat32([]int64{2}, []float32{1, 2})
	r.NoError(rt.SetInput(0, xt))
	r.NoError(rt.Run())
	got, _ := rt.GetOutput(0)
	vals, _ := got.Float32s()
	assert.Equal(t, []float32{3, 6}, vals)
}

func TestBuildFoldsConstantSubtrees(t *testing.T) {
	r := require.New(t)

	x := relay.NewVar("x_0", f32Type(2))
	two := relay.NewConstant(tensor.ScalarFloat32(2))
	three := relay.NewConstant(tensor.ScalarFloat32(3))
	scale := relay.NewCall("multiply", []relay.Expr{two, three})
	body := relay.NewCall("multiply", []relay.Expr{x, scale})
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{body}))

	countKernels := func(graphJSON string) int {
		g, err := graphruntime.DecodeGraphJSON(graphJSON)
		r.NoError(err)
		n := 0
		for _, nd := range g.Nodes {
			if nd.Op == graphruntime.OpKern {
				n++
			}
		}
		return n
	}

	unopt, err := NewBuildModule(0).Build(fn, cpuTargets(), "llvm")
	r.NoError(err)
	assert.Equal(t, 2, countKernels(unopt.GraphJSON))

	opt, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	r.NoError(err)
	assert.Equal(t, 1, countKernels(opt.GraphJSON))
}

func TestBuildTupleProjection(t *testing.T) {
	r := require.New(t)

	x := relay.NewVar("x_0", f32Type(4))
	pair := relay.NewTuple([]relay.Expr{
		relay.NewCallAttrs("variance", []relay.Expr{x}, map[string]interface{}{"correction": 1}),
		relay.NewCall("mean", []relay.Expr{x}),
	})
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{
		relay.NewTupleGetItem(pair, 0),
		relay.NewTupleGetItem(pair, 1),
	}))

	art, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	r.NoError(err)

	rt, err := graphruntime.Create(art.GraphJSON, art.Mod, tensor.DeviceCPU, 0)
	r.NoError(err)
	r.Equal(2, rt.GetNumOutputs())

	xt, _ := tensor.FromFloat32([]int64{4}, []float32{1, 2, 3, 4})
	r.NoError(rt.SetInput(0, xt))
	r.NoError(rt.Run())

	v, _ := rt.GetOutput(0)
	m, _ := rt.GetOutput(1)
	vv, _ := v.Float32s()
	mv, _ := m.Float32s()
	assert.InDelta(t, 5.0/3.0, vv[0], 1e-6)
	assert.InDelta(t, 2.5, mv[0], 1e-6)
}

func TestBuildRejectsUnsupportedTarget(t *testing.T) {
	x := relay.NewVar("x_0", f32Type(2))
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{x}))

	_, err := NewBuildModule(2).Build(fn, map[int]string{tensor.DeviceGPU: "cuda"}, "llvm")
	require.Error(t, err)
	assert.Equal(t, status.CodeBuild, status.CodeOf(err))

	_, err = NewBuildModule(2).Build(fn, cpuTargets(), "cuda")
	require.Error(t, err)
	assert.Equal(t, status.CodeBuild, status.CodeOf(err))
}

func TestBuildRejectsUnknownOperator(t *testing.T) {
	x := relay.NewVar("x_0", f32Type(1, 3, 8, 8))
	body := relay.NewCall("nn.conv2d", []relay.Expr{x, x})
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{body}))

	_, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	require.Error(t, err)
	assert.Equal(t, status.CodeBuild, status.CodeOf(err))
	assert.Contains(t, err.Error(), "nn.conv2d")
}

func TestBuildRejectsLooseVariable(t *testing.T) {
	x := relay.NewVar("x_0", f32Type(2))
	stray := relay.NewVar("stray_1", f32Type(2))
	body := relay.NewCall("add", []relay.Expr{x, stray})
	fn := relay.NewFunction([]*relay.Var{x}, relay.NewTuple([]relay.Expr{body}))

	_, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	require.Error(t, err)
	assert.Equal(t, status.CodeBuild, status.CodeOf(err))
}

func TestBuildRejectsNonTupleBody(t *testing.T) {
	x := relay.NewVar("x_0", f32Type(2))
	fn := relay.NewFunction([]*relay.Var{x}, x)

	_, err := NewBuildModule(2).Build(fn, cpuTargets(), "llvm")
	require.Error(t, err)
	assert.Equal(t, status.CodeBuild, status.CodeOf(err))
}
