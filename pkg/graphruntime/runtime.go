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
	"fmt"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// Module is the runnable artifact a build produces: lowered kernels plus
// the parameters internalized from constant tensors, tied to one target.
type Module struct {
	target  string
	kernels map[string]Kernel
	params  map[string]*tensor.Tensor
}

// NewModule assembles a module. The kernel map is adopted, not copied.
func NewModule(target string, kernels map[string]Kernel, params map[string]*tensor.Tensor) *Module {
	if params == nil {
		params = map[string]*tensor.Tensor{}
	}
	return &Module{target: target, kernels: kernels, params: params}
}

// Target returns the target string the module was built for.
func (m *Module) Target() string { return m.target }

// Lookup resolves a lowered kernel by name.
func (m *Module) Lookup(name string) (Kernel, bool) {
	k, ok := m.kernels[name]
	return k, ok
}

// Param resolves an internalized parameter by name.
func (m *Module) Param(name string) (*tensor.Tensor, bool) {
	p, ok := m.params[name]
	return p, ok
}

type entry struct {
	node   JSONNode
	kernel Kernel
	dtype  tensor.DType
	dims   []int64
}

// Runtime executes one created graph instance. It is not safe for
// concurrent use; callers serialize, as with the rest of the pipeline.
type Runtime struct {
	mod     *Module
	entries []entry
	storage []*tensor.Tensor
	args    []int
	heads   [][2]int
	device  int
}

// Create instantiates a runtime for the descriptor on the given device.
// Input slots are preallocated from the storage plan so copying binds
// have a destination.
func Create(graphJSON string, mod *Module, deviceType, deviceID int) (*Runtime, error) {
	if deviceType != tensor.DeviceCPU {
		return nil, fmt.Errorf("graphruntime.Create: device type %d not supported by module for target %q", deviceType, mod.Target())
	}
	g, err := DecodeGraphJSON(graphJSON)
	if err != nil {
		return nil, fmt.Errorf("graphruntime.Create: %w", err)
	}
	rt := &Runtime{
		mod:     mod,
		entries: make([]entry, len(g.Nodes)),
		storage: make([]*tensor.Tensor, len(g.Nodes)),
		args:    g.ArgNodes,
		heads:   g.Heads,
		device:  deviceID,
	}
	for i, n := range g.Nodes {
		dtype, err := tensor.ParseDType(g.Attrs.DLTypes[i])
		if err != nil {
			return nil, fmt.Errorf("graphruntime.Create: entry %d: %w", i, err)
		}
		e := entry{node: n, dtype: dtype, dims: g.Attrs.Shapes[i]}
		switch n.Op {
		case OpNull:
			buf, err := tensor.New(dtype, e.dims)
			if err != nil {
				return nil, fmt.Errorf("graphruntime.Create: entry %d: %w", i, err)
			}
			rt.storage[i] = buf
		case OpConst:
			p, ok := mod.Param(n.Name)
			if !ok {
				return nil, fmt.Errorf("graphruntime.Create: missing param %q", n.Name)
			}
			rt.storage[i] = p
		case OpKern:
			k, ok := mod.Lookup(n.Attrs.FuncName)
			if !ok {
				return nil, fmt.Errorf("graphruntime.Create: module has no kernel %q", n.Attrs.FuncName)
			}
			e.kernel = k
		default:
			return nil, fmt.Errorf("graphruntime.Create: entry %d has op %q", i, n.Op)
		}
		rt.entries[i] = e
	}
	return rt, nil
}

// GetNumOutputs returns the head count of the graph.
func (rt *Runtime) GetNumOutputs() int { return len(rt.heads) }

// NumInputs returns the placeholder count.
func (rt *Runtime) NumInputs() int { return len(rt.args) }

func (rt *Runtime) inputEntry(i int) (int, *entry, error) {
	if i < 0 || i >= len(rt.args) {
		return 0, nil, fmt.Errorf("input %d out of range, runtime has %d", i, len(rt.args))
	}
	idx := rt.args[i]
	return idx, &rt.entries[idx], nil
}

// SetInput stores a private copy of t in input slot i. Shape and element
// type must match the storage plan. The copy never lands in a buffer a
// prior zero-copy bind adopted from the caller.
func (rt *Runtime) SetInput(i int, t *tensor.Tensor) error {
	idx, e, err := rt.inputEntry(i)
	if err != nil {
		return fmt.Errorf("Runtime.SetInput: %w", err)
	}
	if err := checkPlan(e, t.DType(), t.Dims()); err != nil {
		return fmt.Errorf("Runtime.SetInput: input %d: %w", i, err)
	}
	rt.storage[idx] = t.Clone()
	return nil
}

// SetInputZeroCopy adopts the handle's buffer for input slot i. The
// buffer must satisfy the runtime alignment contract and stay alive and
// unchanged until the next bind.
func (rt *Runtime) SetInputZeroCopy(i int, dl *tensor.DLTensor) error {
	idx, e, err := rt.inputEntry(i)
	if err != nil {
		return fmt.Errorf("Runtime.SetInputZeroCopy: %w", err)
	}
	if !dl.Aligned() {
		return fmt.Errorf("Runtime.SetInputZeroCopy: input %d buffer not %d-byte aligned", i, tensor.Alignment)
	}
	if err := checkPlan(e, dl.DType, dl.Dims); err != nil {
		return fmt.Errorf("Runtime.SetInputZeroCopy: input %d: %w", i, err)
	}
	adopted, err := tensor.FromDLPack(dl)
	if err != nil {
		return fmt.Errorf("Runtime.SetInputZeroCopy: input %d: %w", i, err)
	}
	rt.storage[idx] = adopted
	return nil
}

func checkPlan(e *entry, dtype tensor.DType, dims []int64) error {
	if dtype != e.dtype {
		return fmt.Errorf("dtype %s does not match plan %s", dtype, e.dtype)
	}
	if len(dims) != len(e.dims) {
		return fmt.Errorf("shape %v does not match plan %v", dims, e.dims)
	}
	for i, d := range dims {
		if e.dims[i] != d {
			return fmt.Errorf("shape %v does not match plan %v", dims, e.dims)
		}
	}
	return nil
}

// Run executes every kernel entry in graph order.
func (rt *Runtime) Run() error {
	for i := range rt.entries {
		e := &rt.entries[i]
		if e.node.Op != OpKern {
			continue
		}
		args := make([]*tensor.Tensor, len(e.node.Inputs))
		for j, in := range e.node.Inputs {
			src := rt.storage[in[0]]
			if src == nil {
				return fmt.Errorf("Runtime.Run: entry %d reads unbound entry %d", i, in[0])
			}
			args[j] = src
		}
		var attrs map[string]interface{}
		if e.node.Attrs != nil {
			attrs = e.node.Attrs.OpAttrs
		}
		out, err := e.kernel(attrs, args)
		if err != nil {
			return fmt.Errorf("Runtime.Run: %s: %w", e.node.Name, err)
		}
		if err := checkPlan(e, out.DType(), out.Dims()); err != nil {
			return fmt.Errorf("Runtime.Run: %s produced off-plan result: %w", e.node.Name, err)
		}
		rt.storage[i] = out
	}
	return nil
}

// GetOutput returns head i. The tensor references runtime storage and is
// replaced, not overwritten, by the next Run.
func (rt *Runtime) GetOutput(i int) (*tensor.Tensor, error) {
	if i < 0 || i >= len(rt.heads) {
		return nil, fmt.Errorf("Runtime.GetOutput: output %d out of range, runtime has %d", i, len(rt.heads))
	}
	out := rt.storage[rt.heads[i][0]]
	if out == nil {
		return nil, fmt.Errorf("Runtime.GetOutput: output %d requested before Run", i)
	}
	return out, nil
}
