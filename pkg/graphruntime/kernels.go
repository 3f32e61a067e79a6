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

// Kernel computes one lowered operation over float32 tensors.
type Kernel func(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error)

// attrInt reads an integer attribute, tolerating the float64 that JSON
// round-trips produce.
func attrInt(attrs map[string]interface{}, key string, def int) int {
	v, ok := attrs[key]
	if !ok {
		return def
	}
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		return int(x)
	default:
		return def
	}
}

func binaryKernel(f func(a, b *tensor.Tensor) (*tensor.Tensor, error)) Kernel {
	return func(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("want 2 args, got %d", len(args))
		}
		return f(args[0], args[1])
	}
}

func unaryKernel(f func(a *tensor.Tensor) (*tensor.Tensor, error)) Kernel {
	return func(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 arg, got %d", len(args))
		}
		return f(args[0])
	}
}

func transposeKernel(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 arg, got %d", len(args))
	}
	return tensor.Transpose2D(args[0])
}

func varianceKernel(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 arg, got %d", len(args))
	}
	return tensor.Variance(args[0], attrInt(attrs, "correction", 1))
}

func meanKernel(attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("want 1 arg, got %d", len(args))
	}
	return tensor.Mean(args[0])
}

// StandardKernels returns the CPU kernel table covering every operator
// the translation layer emits.
func StandardKernels() map[string]Kernel {
	return map[string]Kernel{
		"add":       binaryKernel(tensor.Add),
		"subtract":  binaryKernel(tensor.Sub),
		"multiply":  binaryKernel(tensor.Mul),
		"divide":    binaryKernel(tensor.Div),
		"nn.relu":   unaryKernel(tensor.Relu),
		"sigmoid":   unaryKernel(tensor.Sigmoid),
		"tanh":      unaryKernel(tensor.Tanh),
		"exp":       unaryKernel(tensor.Exp),
		"sqrt":      unaryKernel(tensor.Sqrt),
		"log":       unaryKernel(tensor.Log),
		"negative":  unaryKernel(tensor.Neg),
		"abs":       unaryKernel(tensor.Abs),
		"nn.dense":  binaryKernel(tensor.Dense),
		"transpose": transposeKernel,
		"variance":  varianceKernel,
		"mean":      meanKernel,
	}
}
