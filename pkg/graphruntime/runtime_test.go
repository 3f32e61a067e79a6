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

package graphruntime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// scaleGraph describes multiply(add(x, p0), p0) over 2x2 float32 with one
// internalized parameter.
func scaleGraph(t *testing.T) (string, *Module) {
	t.Helper()
	g := &GraphJSON{
		Nodes: []JSONNode{
			{Op: OpNull, Name: "x_0"},
			{Op: OpConst, Name: "p0"},
			{Op: OpKern, Name: "add_0", Inputs: [][2]int{{0, 0}, {1, 0}},
				Attrs: &NodeAttrs{FuncName: "add"}},
			{Op: OpKern, Name: "multiply_1", Inputs: [][2]int{{2, 0}, {1, 0}},
				Attrs: &NodeAttrs{FuncName: "multiply"}},
		},
		ArgNodes: []int{0},
		Heads:    [][2]int{{3, 0}},
		Attrs: GraphAttrs{
			DLTypes: []string{"float32", "float32", "float32", "float32"},
			Shapes:  [][]int64{{2, 2}, {}, {2, 2}, {2, 2}},
		},
	}
	encoded, err := g.Encode()
	require.NoError(t, err)

	p0 := tensor.ScalarFloat32(2)
	mod := NewModule("llvm", StandardKernels(), map[string]*tensor.Tensor{"p0": p0})
	return encoded, mod
}

func TestCreateRunGetOutput(t *testing.T) {
	r := require.New(t)

	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	r.NoError(err)
	r.Equal(1, rt.GetNumOutputs())
	r.Equal(1, rt.NumInputs())

	x, err := tensor.FromFloat32([]int64{2, 2}, []float32{1, 2, 3, 4})
	r.NoError(err)
	r.NoError(rt.SetInput(0, x))
	r.NoError(rt.Run())

	out, err := rt.GetOutput(0)
	r.NoError(err)
	vals, err := out.Float32s()
	r.NoError(err)
	// (x + 2) * 2
	assert.Equal(t, []float32{6, 8, 10, 12}, vals)
}

func TestSetInputCopies(t *testing.T) {
	r := require.New(t)

	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	r.NoError(err)

	x, _ := tensor.FromFloat32([]int64{2, 2}, []float32{1, 1, 1, 1})
	r.NoError(rt.SetInput(0, x))

	// Mutating the source after a copying bind must not leak through.
	xv, _ := x.Float32s()
	xv[0] = 100
	r.NoError(rt.Run())
	out, _ := rt.GetOutput(0)
	vals, _ := out.Float32s()
	assert.Equal(t, []float32{6, 6, 6, 6}, vals)
}

func TestSetInputZeroCopyShares(t *testing.T) {
	r := require.New(t)

	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	r.NoError(err)

	x, _ := tensor.FromFloat32([]int64{2, 2}, []float32{1, 1, 1, 1})
	dl := x.ToDLPack()
	r.True(dl.Aligned())
	r.NoError(rt.SetInputZeroCopy(0, dl))

	// A zero-copy bind observes later writes to the source buffer.
	xv, _ := x.Float32s()
	xv[0] = 9
	r.NoError(rt.Run())
	out, _ := rt.GetOutput(0)
	vals, _ := out.Float32s()
	assert.Equal(t, []float32{22, 6, 6, 6}, vals)
}

func TestSetInputZeroCopyRejectsMisaligned(t *testing.T) {
	r := require.New(t)

	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	r.NoError(err)

	backing, _ := tensor.New(tensor.Uint8, []int64{64 + 16})
	view, err := tensor.FromRaw(tensor.Float32, []int64{2, 2}, backing.Bytes()[4:20])
	r.NoError(err)
	err = rt.SetInputZeroCopy(0, view.ToDLPack())
	r.Error(err)
	assert.Contains(t, err.Error(), "aligned")
}

func TestBindValidatesPlan(t *testing.T) {
	r := require.New(t)

	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	r.NoError(err)

	wrongShape, _ := tensor.FromFloat32([]int64{4}, []float32{1, 2, 3, 4})
	assert.Error(t, rt.SetInput(0, wrongShape))

	wrongType, _ := tensor.New(tensor.Float64, []int64{2, 2})
	assert.Error(t, rt.SetInput(0, wrongType))

	assert.Error(t, rt.SetInput(5, wrongShape))
}

func TestRunOnZeroedInputs(t *testing.T) {
	encoded, mod := scaleGraph(t)
	rt, err := Create(encoded, mod, tensor.DeviceCPU, 0)
	require.NoError(t, err)

	// Input storage is preallocated, so Run succeeds on zeros.
	require.NoError(t, rt.Run())
	out, err := rt.GetOutput(0)
	require.NoError(t, err)
	vals, _ := out.Float32s()
	assert.Equal(t, []float32{4, 4, 4, 4}, vals)
}

func TestCreateErrors(t *testing.T) {
	encoded, mod := scaleGraph(t)

	_, err := Create(encoded, mod, tensor.DeviceGPU, 0)
	assert.Error(t, err, "gpu context is rejected")

	empty := NewModule("llvm", map[string]Kernel{}, nil)
	_, err = Create(encoded, empty, tensor.DeviceCPU, 0)
	assert.Error(t, err, "missing kernels are detected at create time")

	noParams := NewModule("llvm", StandardKernels(), nil)
	_, err = Create(encoded, noParams, tensor.DeviceCPU, 0)
	assert.Error(t, err, "missing params are detected at create time")

	_, err = Create("{not json", mod, tensor.DeviceCPU, 0)
	assert.Error(t, err)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	g := &GraphJSON{
		Nodes:    []JSONNode{{Op: OpKern, Name: "k", Inputs: [][2]int{{3, 0}}, Attrs: &NodeAttrs{FuncName: "add"}}},
		ArgNodes: nil,
		Heads:    [][2]int{{0, 0}},
		Attrs:    GraphAttrs{DLTypes: []string{"float32"}, Shapes: [][]int64{{1}}},
	}
	s, err := g.Encode()
	require.NoError(t, err)
	_, err = DecodeGraphJSON(s)
	assert.Error(t, err, "forward reference is rejected")
}
