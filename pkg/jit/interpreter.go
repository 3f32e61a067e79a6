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

package jit

import (
	"fmt"
	"sync"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// Operation executes one node instance over the calling-convention stack:
// inputs are on top on entry, outputs replace them on return.
type Operation func(stack *Stack) error

// OperatorFactory builds the Operation for a concrete node. Factories let
// an operator close over per-node state such as an attached subgraph.
type OperatorFactory func(n *Node) (Operation, error)

var registry = struct {
	sync.RWMutex
	factories map[string]OperatorFactory
}{factories: map[string]OperatorFactory{}}

// RegisterOperator installs a factory for a node kind. Registered
// factories take precedence over the builtin evaluators, which lets
// embedders reroute kinds like fusion groups.
func RegisterOperator(kind string, f OperatorFactory) {
	registry.Lock()
	defer registry.Unlock()
	registry.factories[kind] = f
}

// UnregisterOperator removes a previously installed factory.
func UnregisterOperator(kind string) {
	registry.Lock()
	defer registry.Unlock()
	delete(registry.factories, kind)
}

func lookupOperator(kind string) (OperatorFactory, bool) {
	registry.RLock()
	defer registry.RUnlock()
	f, ok := registry.factories[kind]
	return f, ok
}

// Code is a graph resolved to executable operations, one per node.
type Code struct {
	graph *Graph
	ops   []Operation
	nodes []*Node
}

// NewCode resolves every node of g to an Operation, failing on kinds that
// have neither a registered factory nor a builtin evaluator.
func NewCode(g *Graph) (*Code, error) {
	c := &Code{graph: g}
	for _, n := range g.Nodes() {
		op, err := resolveOperation(n)
		if err != nil {
			return nil, fmt.Errorf("NewCode: %w", err)
		}
		c.ops = append(c.ops, op)
		c.nodes = append(c.nodes, n)
	}
	return c, nil
}

// Run executes the graph. On entry the stack holds one value per graph
// input; on return those are replaced by one value per graph output.
func (c *Code) Run(stack *Stack) error {
	ins, err := stack.PopN(len(c.graph.Inputs()))
	if err != nil {
		return fmt.Errorf("Code.Run: %w", err)
	}
	env := make(map[*Value]*IValue, len(ins))
	for i, in := range c.graph.Inputs() {
		env[in] = ins[i]
	}
	for i, n := range c.nodes {
		for _, in := range n.Inputs() {
			iv, ok := env[in]
			if !ok {
				return fmt.Errorf("Code.Run: %%%s consumed before production", in.UniqueName())
			}
			stack.Push(iv)
		}
		if err := c.ops[i](stack); err != nil {
			return fmt.Errorf("Code.Run: %s: %w", n.Kind(), err)
		}
		outs, err := stack.PopN(len(n.Outputs()))
		if err != nil {
			return fmt.Errorf("Code.Run: %s left a short stack: %w", n.Kind(), err)
		}
		for j, out := range n.Outputs() {
			env[out] = outs[j]
		}
	}
	for _, out := range c.graph.Outputs() {
		iv, ok := env[out]
		if !ok {
			return fmt.Errorf("Code.Run: output %%%s never produced", out.UniqueName())
		}
		stack.Push(iv)
	}
	return nil
}

// Interpret resolves and runs g in one step, the shape the fallback path
// uses.
func Interpret(g *Graph, stack *Stack) error {
	code, err := NewCode(g)
	if err != nil {
		return err
	}
	return code.Run(stack)
}

func resolveOperation(n *Node) (Operation, error) {
	if f, ok := lookupOperator(n.Kind()); ok {
		return f(n)
	}
	if f, ok := builtins[n.Kind()]; ok {
		return f(n)
	}
	return nil, fmt.Errorf("no operation registered for kind %s", n.Kind())
}

// asTensor coerces a value to a float32 tensor: tensors convert, numeric
// scalars become rank-zero tensors.
func asTensor(v *IValue) (*tensor.Tensor, error) {
	switch v.Kind() {
	case TensorValue:
		t, _ := v.Tensor()
		return t.Convert(tensor.Float32)
	case DoubleValue:
		d, _ := v.Double()
		return tensor.ScalarFloat32(float32(d)), nil
	case IntValue:
		i, _ := v.Int()
		return tensor.ScalarFloat32(float32(i)), nil
	case BoolValue:
		b, _ := v.Bool()
		if b {
			return tensor.ScalarFloat32(1), nil
		}
		return tensor.ScalarFloat32(0), nil
	default:
		return nil, fmt.Errorf("cannot treat %s as tensor", v.Kind())
	}
}

// scalarOne reports whether v is the numeric scalar 1, the common alpha
// argument of add and sub.
func scalarOne(v *IValue) bool {
	switch v.Kind() {
	case IntValue:
		i, _ := v.Int()
		return i == 1
	case DoubleValue:
		d, _ := v.Double()
		return d == 1
	default:
		return false
	}
}

type binaryFn func(a, b *tensor.Tensor) (*tensor.Tensor, error)
type unaryFn func(a *tensor.Tensor) (*tensor.Tensor, error)

// scaledBinary evaluates a binary op with the optional trailing alpha
// scalar scaling the second operand.
func scaledBinary(f binaryFn) OperatorFactory {
	return func(n *Node) (Operation, error) {
		argc := len(n.Inputs())
		if argc != 2 && argc != 3 {
			return nil, fmt.Errorf("want 2 or 3 inputs, node has %d", argc)
		}
		return func(stack *Stack) error {
			args, err := stack.PopN(argc)
			if err != nil {
				return err
			}
			a, err := asTensor(args[0])
			if err != nil {
				return err
			}
			b, err := asTensor(args[1])
			if err != nil {
				return err
			}
			if argc == 3 && !scalarOne(args[2]) {
				alpha, err := asTensor(args[2])
				if err != nil {
					return err
				}
				if b, err = tensor.Mul(b, alpha); err != nil {
					return err
				}
			}
			out, err := f(a, b)
			if err != nil {
				return err
			}
			stack.Push(NewTensorValue(out))
			return nil
		}, nil
	}
}

func plainBinary(f binaryFn) OperatorFactory {
	return func(n *Node) (Operation, error) {
		if len(n.Inputs()) != 2 {
			return nil, fmt.Errorf("want 2 inputs, node has %d", len(n.Inputs()))
		}
		return func(stack *Stack) error {
			args, err := stack.PopN(2)
			if err != nil {
				return err
			}
			a, err := asTensor(args[0])
			if err != nil {
				return err
			}
			b, err := asTensor(args[1])
			if err != nil {
				return err
			}
			out, err := f(a, b)
			if err != nil {
				return err
			}
			stack.Push(NewTensorValue(out))
			return nil
		}, nil
	}
}

func plainUnary(f unaryFn) OperatorFactory {
	return func(n *Node) (Operation, error) {
		if len(n.Inputs()) != 1 {
			return nil, fmt.Errorf("want 1 input, node has %d", len(n.Inputs()))
		}
		return func(stack *Stack) error {
			args, err := stack.PopN(1)
			if err != nil {
				return err
			}
			a, err := asTensor(args[0])
			if err != nil {
				return err
			}
			out, err := f(a)
			if err != nil {
				return err
			}
			stack.Push(NewTensorValue(out))
			return nil
		}, nil
	}
}

func constantOp(n *Node) (Operation, error) {
	if n.IValue() == nil {
		return nil, fmt.Errorf("constant node without payload")
	}
	iv := n.IValue()
	return func(stack *Stack) error {
		stack.Push(iv)
		return nil
	}, nil
}

func mmOp(n *Node) (Operation, error) {
	if len(n.Inputs()) != 2 {
		return nil, fmt.Errorf("want 2 inputs, node has %d", len(n.Inputs()))
	}
	return func(stack *Stack) error {
		args, err := stack.PopN(2)
		if err != nil {
			return err
		}
		a, err := asTensor(args[0])
		if err != nil {
			return err
		}
		b, err := asTensor(args[1])
		if err != nil {
			return err
		}
		bt, err := tensor.Transpose2D(b)
		if err != nil {
			return err
		}
		out, err := tensor.Dense(a, bt)
		if err != nil {
			return err
		}
		stack.Push(NewTensorValue(out))
		return nil
	}, nil
}

func varMeanOp(n *Node) (Operation, error) {
	if len(n.Inputs()) != 1 || len(n.Outputs()) != 2 {
		return nil, fmt.Errorf("want 1 input and 2 outputs, node has %d/%d", len(n.Inputs()), len(n.Outputs()))
	}
	return func(stack *Stack) error {
		args, err := stack.PopN(1)
		if err != nil {
			return err
		}
		a, err := asTensor(args[0])
		if err != nil {
			return err
		}
		v, err := tensor.Variance(a, 1)
		if err != nil {
			return err
		}
		m, err := tensor.Mean(a)
		if err != nil {
			return err
		}
		stack.Push(NewTensorValue(v), NewTensorValue(m))
		return nil
	}, nil
}

var builtins = map[string]OperatorFactory{
	KindConstant:     constantOp,
	"aten::add":      scaledBinary(tensor.Add),
	"aten::sub":      scaledBinary(tensor.Sub),
	"aten::mul":      plainBinary(tensor.Mul),
	"aten::div":      plainBinary(tensor.Div),
	"aten::relu":     plainUnary(tensor.Relu),
	"aten::sigmoid":  plainUnary(tensor.Sigmoid),
	"aten::tanh":     plainUnary(tensor.Tanh),
	"aten::exp":      plainUnary(tensor.Exp),
	"aten::sqrt":     plainUnary(tensor.Sqrt),
	"aten::log":      plainUnary(tensor.Log),
	"aten::neg":      plainUnary(tensor.Neg),
	"aten::abs":      plainUnary(tensor.Abs),
	"aten::floor":    plainUnary(tensor.Floor),
	"aten::mm":       mmOp,
	"aten::var_mean": varMeanOp,
}
