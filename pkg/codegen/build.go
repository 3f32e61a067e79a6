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

// Package codegen lowers translated functions into runnable modules. The
// native code generator covers CPU-class targets only; requesting any
// other target is a build failure, which non-strict callers absorb as a
// fallback.
package codegen

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yinghai/tvm-1/pkg/graphruntime"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// Artifact is the pair a successful build hands back: the runtime graph
// descriptor and the module executing it.
type Artifact struct {
	GraphJSON string
	Mod       *graphruntime.Module
}

// BuildModule lowers functions at a fixed optimization level. Level 2 and
// above folds constant subexpressions before lowering.
type BuildModule struct {
	optLevel int
	kernels  map[string]graphruntime.Kernel
}

// NewBuildModule creates a build module.
func NewBuildModule(optLevel int) *BuildModule {
	return &BuildModule{optLevel: optLevel, kernels: graphruntime.StandardKernels()}
}

func supportedTarget(target string) bool {
	return target == "cpu" || target == "llvm" || strings.HasPrefix(target, "llvm ")
}

// Build lowers fn for the device targets in targets (keyed by device type
// code) with host as the host-side target. Every requested target must be
// one the native code generator covers.
func (b *BuildModule) Build(fn *relay.Function, targets map[int]string, host string) (*Artifact, error) {
	if !supportedTarget(host) {
		return nil, status.New(status.CodeBuild, "no code generator for host target %q", host)
	}
	devTypes := make([]int, 0, len(targets))
	for dt := range targets {
		devTypes = append(devTypes, dt)
	}
	sort.Ints(devTypes)
	target := host
	for _, dt := range devTypes {
		if !supportedTarget(targets[dt]) {
			return nil, status.New(status.CodeBuild, "no code generator for target %q (device type %d)", targets[dt], dt)
		}
		target = targets[dt]
	}

	if b.optLevel >= 2 {
		fn = relay.FoldConstants(fn, b.foldEval)
	}

	l := newLowerer(b.kernels)
	artifact, err := l.lower(fn, target)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("codegen: lowered %d params into %d entries for target %q",
		len(fn.Params), len(l.graph.Nodes), target)
	return artifact, nil
}

// foldEval evaluates one call over literal arguments, converting numeric
// literals to the runtime element type first, the same conversion the
// engine applies to bound inputs. Sentinel literals never fold.
func (b *BuildModule) foldEval(op string, attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
	k, ok := b.kernels[op]
	if !ok {
		return nil, fmt.Errorf("no kernel for %s", op)
	}
	conv := make([]*tensor.Tensor, len(args))
	for i, a := range args {
		if tensor.IsNoneSentinel(a) {
			return nil, fmt.Errorf("sentinel argument is not foldable")
		}
		c, err := a.Convert(tensor.Float32)
		if err != nil {
			return nil, err
		}
		conv[i] = c
	}
	return k(attrs, conv)
}

// lowerer flattens one function body into runtime entries.
type lowerer struct {
	kernels map[string]graphruntime.Kernel
	graph   graphruntime.GraphJSON
	params  map[string]*tensor.Tensor
	vars    map[*relay.Var]int
	consts  map[*relay.Constant]int
	memo    map[relay.Expr]int
}

func newLowerer(kernels map[string]graphruntime.Kernel) *lowerer {
	return &lowerer{
		kernels: kernels,
		params:  map[string]*tensor.Tensor{},
		vars:    map[*relay.Var]int{},
		consts:  map[*relay.Constant]int{},
		memo:    map[relay.Expr]int{},
	}
}

func (l *lowerer) addEntry(n graphruntime.JSONNode, dtype tensor.DType, dims []int64) int {
	idx := len(l.graph.Nodes)
	l.graph.Nodes = append(l.graph.Nodes, n)
	l.graph.Attrs.DLTypes = append(l.graph.Attrs.DLTypes, dtype.String())
	if dims == nil {
		dims = []int64{}
	}
	l.graph.Attrs.Shapes = append(l.graph.Attrs.Shapes, dims)
	return idx
}

func (l *lowerer) lower(fn *relay.Function, target string) (*Artifact, error) {
	// Placeholders first, in parameter order: the runtime's input index
	// space must line up with the caller's recorded input values.
	for _, p := range fn.Params {
		dtype, err := p.Type.DType.StorageDType()
		if err != nil {
			return nil, status.Wrapf(status.CodeBuild, err, "param %%%s", p.Name)
		}
		idx := l.addEntry(graphruntime.JSONNode{Op: graphruntime.OpNull, Name: p.Name}, dtype, p.Type.Dims)
		l.vars[p] = idx
		l.graph.ArgNodes = append(l.graph.ArgNodes, idx)
	}

	body, ok := fn.Body.(*relay.Tuple)
	if !ok {
		return nil, status.New(status.CodeBuild, "function body is %T, want tuple", fn.Body)
	}
	for _, field := range body.Fields {
		idx, err := l.lowerExpr(field)
		if err != nil {
			return nil, err
		}
		l.graph.Heads = append(l.graph.Heads, [2]int{idx, 0})
	}

	encoded, err := l.graph.Encode()
	if err != nil {
		return nil, status.Wrap(status.CodeBuild, err)
	}
	mod := graphruntime.NewModule(target, l.kernels, l.params)
	return &Artifact{GraphJSON: encoded, Mod: mod}, nil
}

func (l *lowerer) lowerExpr(e relay.Expr) (int, error) {
	if idx, ok := l.memo[e]; ok {
		return idx, nil
	}
	idx, err := l.lowerExprUncached(e)
	if err == nil {
		l.memo[e] = idx
	}
	return idx, err
}

func (l *lowerer) lowerExprUncached(e relay.Expr) (int, error) {
	switch x := e.(type) {
	case *relay.Var:
		idx, ok := l.vars[x]
		if !ok {
			return 0, status.New(status.CodeBuild, "variable %%%s is not a function parameter", x.Name)
		}
		return idx, nil

	case *relay.Constant:
		if idx, ok := l.consts[x]; ok {
			return idx, nil
		}
		val, err := l.internalize(x.Value)
		if err != nil {
			return 0, status.Wrap(status.CodeBuild, err)
		}
		name := fmt.Sprintf("p%d", len(l.params))
		l.params[name] = val
		idx := l.addEntry(graphruntime.JSONNode{Op: graphruntime.OpConst, Name: name}, val.DType(), val.Dims())
		l.consts[x] = idx
		return idx, nil

	case *relay.Call:
		if _, ok := l.kernels[x.Op]; !ok {
			return 0, status.New(status.CodeBuild, "no code generator for operator %q", x.Op)
		}
		inputs := make([][2]int, len(x.Args))
		argDims := make([][]int64, len(x.Args))
		for i, a := range x.Args {
			idx, err := l.lowerExpr(a)
			if err != nil {
				return 0, err
			}
			inputs[i] = [2]int{idx, 0}
			argDims[i] = l.graph.Attrs.Shapes[idx]
		}
		dims, err := inferDims(x.Op, x.Attrs, argDims)
		if err != nil {
			return 0, status.Wrapf(status.CodeBuild, err, "planning %s", x.Op)
		}
		idx := l.addEntry(graphruntime.JSONNode{
			Op:     graphruntime.OpKern,
			Name:   fmt.Sprintf("%s_%d", x.Op, len(l.graph.Nodes)),
			Inputs: inputs,
			Attrs:  &graphruntime.NodeAttrs{FuncName: x.Op, OpAttrs: x.Attrs},
		}, tensor.Float32, dims)
		return idx, nil

	case *relay.TupleGetItem:
		tup, ok := x.Tuple.(*relay.Tuple)
		if !ok {
			return 0, status.New(status.CodeBuild, "projection over non-literal tuple %T", x.Tuple)
		}
		if x.Index < 0 || x.Index >= len(tup.Fields) {
			return 0, status.New(status.CodeBuild, "projection index %d out of range %d", x.Index, len(tup.Fields))
		}
		return l.lowerExpr(tup.Fields[x.Index])

	default:
		return 0, status.New(status.CodeBuild, "cannot lower expression %T", e)
	}
}

// internalize converts a constant into the parameter the module carries.
// Numeric literals adopt the runtime element type, matching the engine's
// treatment of bound inputs; the none sentinel passes through untouched.
func (l *lowerer) internalize(t *tensor.Tensor) (*tensor.Tensor, error) {
	if tensor.IsNoneSentinel(t) {
		return t, nil
	}
	return t.Convert(tensor.Float32)
}

// inferDims plans the output shape of one lowered call from its argument
// shapes.
func inferDims(op string, attrs map[string]interface{}, args [][]int64) ([]int64, error) {
	switch op {
	case "add", "subtract", "multiply", "divide":
		if len(args) != 2 {
			return nil, fmt.Errorf("want 2 args, got %d", len(args))
		}
		a, b := args[0], args[1]
		switch {
		case len(b) == 0:
			return a, nil
		case len(a) == 0:
			return b, nil
		case slices.Equal(a, b):
			return a, nil
		default:
			return nil, fmt.Errorf("shape mismatch %v vs %v", a, b)
		}
	case "nn.relu", "sigmoid", "tanh", "exp", "sqrt", "log", "negative", "abs":
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 arg, got %d", len(args))
		}
		return args[0], nil
	case "transpose":
		if len(args) != 1 || len(args[0]) != 2 {
			return nil, fmt.Errorf("want one rank-2 arg, got %v", args)
		}
		if fmt.Sprint(attrs["axes"]) != "[1 0]" {
			return nil, fmt.Errorf("unsupported axes %v", attrs["axes"])
		}
		return []int64{args[0][1], args[0][0]}, nil
	case "nn.dense":
		if len(args) != 2 || len(args[0]) != 2 || len(args[1]) != 2 {
			return nil, fmt.Errorf("want two rank-2 args, got %v", args)
		}
		if args[0][1] != args[1][1] {
			return nil, fmt.Errorf("reduction dims differ, %v vs %v", args[0], args[1])
		}
		return []int64{args[0][0], args[1][0]}, nil
	case "variance", "mean":
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 arg, got %d", len(args))
		}
		return []int64{}, nil
	default:
		return nil, fmt.Errorf("no shape rule for %s", op)
	}
}
