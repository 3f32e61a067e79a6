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

package operators

import (
	"fmt"

	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// isScalarOne recognizes a literal 1 of any numeric width, the neutral
// alpha argument carried by traced add and sub nodes.
func isScalarOne(e relay.Expr) bool {
	c, ok := e.(*relay.Constant)
	if !ok || c.Value.Numel() != 1 {
		return false
	}
	switch c.Value.DType() {
	case tensor.Int32:
		vals, _ := c.Value.Int32s()
		return vals[0] == 1
	case tensor.Int64:
		vals, _ := c.Value.Int64s()
		return vals[0] == 1
	case tensor.Float32:
		vals, _ := c.Value.Float32s()
		return vals[0] == 1
	case tensor.Float64:
		vals, _ := c.Value.Float64s()
		return vals[0] == 1
	default:
		return false
	}
}

// scaledBinary lowers add/sub: an alpha operand other than literal 1
// scales the second argument first.
func scaledBinary(op string) TranslateFunc {
	return func(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
		switch len(inputs) {
		case 2:
			return relay.NewCall(op, inputs), nil
		case 3:
			rhs := inputs[1]
			if !isScalarOne(inputs[2]) {
				rhs = relay.NewCall("multiply", []relay.Expr{rhs, inputs[2]})
			}
			return relay.NewCall(op, []relay.Expr{inputs[0], rhs}), nil
		default:
			return nil, fmt.Errorf("want 2 or 3 inputs, got %d", len(inputs))
		}
	}
}

func plainBinary(op string) TranslateFunc {
	return func(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
		if len(inputs) != 2 {
			return nil, fmt.Errorf("want 2 inputs, got %d", len(inputs))
		}
		return relay.NewCall(op, inputs), nil
	}
}

func plainUnary(op string) TranslateFunc {
	return func(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
		if len(inputs) != 1 {
			return nil, fmt.Errorf("want 1 input, got %d", len(inputs))
		}
		return relay.NewCall(op, inputs), nil
	}
}

// mm lowers a matrix product to the dense-layer form the backend
// implements: dense(x, w) contracts over transposed w, so the second
// operand is transposed on the way in.
func mm(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("want 2 inputs, got %d", len(inputs))
	}
	wt := relay.NewCallAttrs("transpose", []relay.Expr{inputs[1]},
		map[string]interface{}{"axes": []int{1, 0}})
	return relay.NewCall("nn.dense", []relay.Expr{inputs[0], wt}), nil
}

// varMean produces the (variance, mean) pair as a tuple of two reduction
// calls, matching the node's two outputs.
func varMean(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("want 1 input, got %d", len(inputs))
	}
	v := relay.NewCallAttrs("variance", []relay.Expr{inputs[0]},
		map[string]interface{}{"correction": 1})
	m := relay.NewCall("mean", []relay.Expr{inputs[0]})
	return relay.NewTuple([]relay.Expr{v, m}), nil
}

func init() {
	Register("aten::add", scaledBinary("add"))
	Register("aten::sub", scaledBinary("subtract"))
	Register("aten::mul", plainBinary("multiply"))
	Register("aten::div", plainBinary("divide"))
	Register("aten::relu", plainUnary("nn.relu"))
	Register("aten::sigmoid", plainUnary("sigmoid"))
	Register("aten::tanh", plainUnary("tanh"))
	Register("aten::exp", plainUnary("exp"))
	Register("aten::sqrt", plainUnary("sqrt"))
	Register("aten::log", plainUnary("log"))
	Register("aten::neg", plainUnary("negative"))
	Register("aten::abs", plainUnary("abs"))
	Register("aten::mm", mm)
	Register("aten::var_mean", varMean)
}
