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
	"fmt"
	"math"

	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/operators"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// translator holds the state of one translation attempt: the
// value-to-expression context, the runtime inputs collected so far, and
// the types observed from the current invocation's concrete tensors. The
// whole state is discarded when an attempt fails, so nothing from a
// failed pass leaks into the graph or into later attempts.
type translator struct {
	exprs       map[*jit.Value]relay.Expr
	typeHints   map[*jit.Value]*jit.TensorType
	inputVars   []*relay.Var
	inputValues []*jit.Value
	translated  map[*jit.Node]bool
}

func newTranslator() *translator {
	return &translator{
		exprs:      map[*jit.Value]relay.Expr{},
		typeHints:  map[*jit.Value]*jit.TensorType{},
		translated: map[*jit.Node]bool{},
	}
}

// effectiveType resolves the type a placeholder is constructed from: the
// invocation hint first, then the payload of a constant-bound tensor,
// then the static annotation.
func (tr *translator) effectiveType(v *jit.Value) *jit.TensorType {
	if t, ok := tr.typeHints[v]; ok {
		return t
	}
	if iv, ok := jit.ToIValue(v); ok {
		if t, err := iv.Tensor(); err == nil {
			inferred := jit.InferType(t)
			tr.typeHints[v] = inferred
			return inferred
		}
	}
	return v.Type()
}

// translatePlaceholder converts a tensor-valued graph value into a typed
// free variable named after the value.
func (tr *translator) translatePlaceholder(v *jit.Value) (*relay.Var, error) {
	typ := tr.effectiveType(v)
	if !typ.Complete() {
		return nil, status.New(status.CodeIncompleteType, "value %%%s has type %s, want a complete tensor type", v.UniqueName(), typ)
	}
	dt, err := ScalarTypeToRelay(typ.DType)
	if err != nil {
		return nil, fmt.Errorf("translatePlaceholder %%%s: %w", v.UniqueName(), err)
	}
	return relay.NewVar(v.UniqueName(), relay.NewTensorType(typ.Dims, dt)), nil
}

// translateConstant materializes a compile-time scalar into the IR.
// Numeric payloads narrow to 32 bits and must fit. None becomes the
// reserved sentinel tensor, the IR has no optional type. Int lists become
// tuples of int32 constants.
func (tr *translator) translateConstant(iv *jit.IValue) (relay.Expr, error) {
	switch iv.Kind() {
	case jit.DoubleValue:
		d, _ := iv.Double()
		if !(d <= math.MaxFloat32 && d >= -math.MaxFloat32) {
			return nil, status.New(status.CodeRangeOverflow, "double constant %v exceeds float32 range", d)
		}
		return relay.NewConstant(tensor.ScalarFloat32(float32(d))), nil
	case jit.IntValue:
		i, _ := iv.Int()
		c, err := narrowInt32(i)
		if err != nil {
			return nil, err
		}
		return relay.NewConstant(c), nil
	case jit.BoolValue:
		b, _ := iv.Bool()
		return relay.NewConstant(tensor.ScalarBool(b)), nil
	case jit.NoneValue:
		return relay.NewConstant(tensor.NewNoneSentinel()), nil
	case jit.IntListValue:
		list, _ := iv.IntList()
		fields := make([]relay.Expr, 0, len(list))
		for _, elem := range list {
			c, err := narrowInt32(elem)
			if err != nil {
				return nil, err
			}
			fields = append(fields, relay.NewConstant(c))
		}
		return relay.NewTuple(fields), nil
	default:
		return nil, status.New(status.CodeUnsupportedConstant, "cannot translate %s constant", iv.Kind())
	}
}

func narrowInt32(v int64) (*tensor.Tensor, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return nil, status.New(status.CodeRangeOverflow, "int constant %d exceeds int32 range", v)
	}
	return tensor.ScalarInt32(int32(v)), nil
}

// translate lowers the whole subgraph into a function plus the ordered
// runtime inputs backing its parameters. Declared inputs come first;
// tensor-valued constants discovered during the walk are promoted and
// appended in discovery order. The walk is a breadth-first sweep over use
// lists: a consumer translates once every operand is available and its
// outputs join the next frontier.
func (tr *translator) translate(g *jit.Graph) (*relay.Function, []*jit.Value, error) {
	for _, in := range g.Inputs() {
		v, err := tr.translatePlaceholder(in)
		if err != nil {
			return nil, nil, fmt.Errorf("translate input: %w", err)
		}
		tr.addInput(in, v)
	}

	frontier := append([]*jit.Value(nil), g.Inputs()...)
	for len(frontier) > 0 {
		var next []*jit.Value
		for _, val := range frontier {
			for _, use := range val.Uses() {
				produced, err := tr.translateUser(use.User)
				if err != nil {
					return nil, nil, err
				}
				next = append(next, produced...)
			}
		}
		frontier = next
	}

	fields := make([]relay.Expr, 0, len(g.Outputs()))
	for _, out := range g.Outputs() {
		e, ok := tr.exprs[out]
		if !ok {
			return nil, nil, status.New(status.CodeInternalConsistency, "subgraph output %%%s was never resolved", out.UniqueName())
		}
		fields = append(fields, e)
	}
	body := relay.NewTuple(fields)

	params := make(map[*relay.Var]bool, len(tr.inputVars))
	for _, v := range tr.inputVars {
		params[v] = true
	}
	for _, fv := range relay.FreeVars(body) {
		if !params[fv] {
			return nil, nil, status.New(status.CodeInternalConsistency, "free variable %%%s is not backed by a runtime input", fv.Name)
		}
	}
	return relay.NewFunction(tr.inputVars, body), tr.inputValues, nil
}

// translateUser translates one consuming node once all of its operands
// are available. A node with a missing non-constant operand is skipped
// without error: either a later frontier pass supplies the operand, or
// the output-coverage check reports the node's results as unresolved.
// Terminators resolve their operands like any consumer but produce
// nothing.
func (tr *translator) translateUser(n *jit.Node) ([]*jit.Value, error) {
	if tr.translated[n] {
		return nil, nil
	}
	inputs, ready, err := tr.resolveOperands(n)
	if err != nil || !ready {
		return nil, err
	}
	if len(n.Outputs()) == 0 {
		return nil, nil
	}
	expr, err := operators.GetOperator(n, inputs)
	if err != nil {
		return nil, err
	}
	tr.translated[n] = true
	if len(n.Outputs()) == 1 {
		out := n.Outputs()[0]
		tr.exprs[out] = expr
		return []*jit.Value{out}, nil
	}
	produced := make([]*jit.Value, 0, len(n.Outputs()))
	for idx, out := range n.Outputs() {
		tr.exprs[out] = relay.NewTupleGetItem(expr, idx)
		produced = append(produced, out)
	}
	return produced, nil
}

// resolveOperands gathers the translated expressions for every operand of
// n. An operand seen for the first time must be a compile-time constant:
// tensor payloads are promoted to runtime inputs, scalars materialize as
// IR constants. ready is false when an operand is neither translated nor
// constant, meaning n has to wait for a later pass.
func (tr *translator) resolveOperands(n *jit.Node) (inputs []relay.Expr, ready bool, err error) {
	inputs = make([]relay.Expr, 0, len(n.Inputs()))
	for _, in := range n.Inputs() {
		e, ok := tr.exprs[in]
		if !ok {
			iv, isConst := jit.ToIValue(in)
			if !isConst {
				return nil, false, nil
			}
			if iv.IsTensor() {
				v, perr := tr.translatePlaceholder(in)
				if perr != nil {
					return nil, false, fmt.Errorf("promoting constant %%%s: %w", in.UniqueName(), perr)
				}
				tr.addInput(in, v)
				e = v
			} else {
				ce, cerr := tr.translateConstant(iv)
				if cerr != nil {
					return nil, false, fmt.Errorf("constant %%%s: %w", in.UniqueName(), cerr)
				}
				tr.exprs[in] = ce
				e = ce
			}
		}
		inputs = append(inputs, e)
	}
	return inputs, true, nil
}

func (tr *translator) addInput(val *jit.Value, v *relay.Var) {
	tr.inputVars = append(tr.inputVars, v)
	tr.inputValues = append(tr.inputValues, val)
	tr.exprs[val] = v
}
