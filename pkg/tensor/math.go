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

package tensor

import (
	"fmt"
	"math"
)

// Float32-only dense math shared by the graph interpreter and the lowered
// runtime kernels. Binary operations accept equal shapes or a scalar on
// either side; general broadcasting is not implemented.

func checkFloat32(op string, ts ...*Tensor) error {
	for _, t := range ts {
		if t.dtype != Float32 {
			return fmt.Errorf("%s: only float32 kernels are implemented, got %s", op, t.dtype)
		}
	}
	return nil
}

func binaryEW(op string, a, b *Tensor, f func(x, y float32) float32) (*Tensor, error) {
	if err := checkFloat32(op, a, b); err != nil {
		return nil, err
	}
	av, bv := a.mustFloat32s(), b.mustFloat32s()
	switch {
	case a.SameShape(b):
		out, _ := New(Float32, a.dims)
		ov := out.mustFloat32s()
		for i := range ov {
			ov[i] = f(av[i], bv[i])
		}
		return out, nil
	case b.Numel() == 1:
		out, _ := New(Float32, a.dims)
		ov := out.mustFloat32s()
		for i := range ov {
			ov[i] = f(av[i], bv[0])
		}
		return out, nil
	case a.Numel() == 1:
		out, _ := New(Float32, b.dims)
		ov := out.mustFloat32s()
		for i := range ov {
			ov[i] = f(av[0], bv[i])
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: shape mismatch %v vs %v", op, a.dims, b.dims)
	}
}

func unaryEW(op string, a *Tensor, f func(x float32) float32) (*Tensor, error) {
	if err := checkFloat32(op, a); err != nil {
		return nil, err
	}
	out, _ := New(Float32, a.dims)
	av, ov := a.mustFloat32s(), out.mustFloat32s()
	for i := range ov {
		ov[i] = f(av[i])
	}
	return out, nil
}

func Add(a, b *Tensor) (*Tensor, error) {
	return binaryEW("tensor.Add", a, b, func(x, y float32) float32 { return x + y })
}

func Sub(a, b *Tensor) (*Tensor, error) {
	return binaryEW("tensor.Sub", a, b, func(x, y float32) float32 { return x - y })
}

func Mul(a, b *Tensor) (*Tensor, error) {
	return binaryEW("tensor.Mul", a, b, func(x, y float32) float32 { return x * y })
}

func Div(a, b *Tensor) (*Tensor, error) {
	return binaryEW("tensor.Div", a, b, func(x, y float32) float32 { return x / y })
}

func Relu(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Relu", a, func(x float32) float32 {
		if x < 0 {
			return 0
		}
		return x
	})
}

func Sigmoid(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Sigmoid", a, func(x float32) float32 {
		return float32(1 / (1 + math.Exp(-float64(x))))
	})
}

func Tanh(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Tanh", a, func(x float32) float32 {
		return float32(math.Tanh(float64(x)))
	})
}

func Exp(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Exp", a, func(x float32) float32 {
		return float32(math.Exp(float64(x)))
	})
}

func Sqrt(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Sqrt", a, func(x float32) float32 {
		return float32(math.Sqrt(float64(x)))
	})
}

func Log(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Log", a, func(x float32) float32 {
		return float32(math.Log(float64(x)))
	})
}

func Neg(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Neg", a, func(x float32) float32 { return -x })
}

func Abs(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Abs", a, func(x float32) float32 {
		if x < 0 {
			return -x
		}
		return x
	})
}

func Floor(a *Tensor) (*Tensor, error) {
	return unaryEW("tensor.Floor", a, func(x float32) float32 {
		return float32(math.Floor(float64(x)))
	})
}

// Transpose2D swaps the two axes of a matrix.
func Transpose2D(a *Tensor) (*Tensor, error) {
	if err := checkFloat32("tensor.Transpose2D", a); err != nil {
		return nil, err
	}
	if len(a.dims) != 2 {
		return nil, fmt.Errorf("tensor.Transpose2D: need rank 2, got %v", a.dims)
	}
	r, c := a.dims[0], a.dims[1]
	out, _ := New(Float32, []int64{c, r})
	av, ov := a.mustFloat32s(), out.mustFloat32s()
	for i := int64(0); i < r; i++ {
		for j := int64(0); j < c; j++ {
			ov[j*r+i] = av[i*c+j]
		}
	}
	return out, nil
}

// Dense computes x times transpose(w) for x of shape [m,k] and w of
// shape [n,k], the dense-layer convention of the target IR.
func Dense(x, w *Tensor) (*Tensor, error) {
	if err := checkFloat32("tensor.Dense", x, w); err != nil {
		return nil, err
	}
	if len(x.dims) != 2 || len(w.dims) != 2 {
		return nil, fmt.Errorf("tensor.Dense: need rank 2, got %v and %v", x.dims, w.dims)
	}
	m, k := x.dims[0], x.dims[1]
	n, k2 := w.dims[0], w.dims[1]
	if k != k2 {
		return nil, fmt.Errorf("tensor.Dense: reduction dims differ, %v vs %v", x.dims, w.dims)
	}
	out, _ := New(Float32, []int64{m, n})
	xv, wv, ov := x.mustFloat32s(), w.mustFloat32s(), out.mustFloat32s()
	for i := int64(0); i < m; i++ {
		for j := int64(0); j < n; j++ {
			var acc float32
			for l := int64(0); l < k; l++ {
				acc += xv[i*k+l] * wv[j*k+l]
			}
			ov[i*n+j] = acc
		}
	}
	return out, nil
}

// Mean reduces all elements to a scalar.
func Mean(a *Tensor) (*Tensor, error) {
	if err := checkFloat32("tensor.Mean", a); err != nil {
		return nil, err
	}
	n := a.Numel()
	if n == 0 {
		return nil, fmt.Errorf("tensor.Mean: empty tensor")
	}
	var sum float64
	for _, v := range a.mustFloat32s() {
		sum += float64(v)
	}
	return ScalarFloat32(float32(sum / float64(n))), nil
}

// Variance reduces all elements to their sample variance with the given
// correction (1 gives the unbiased estimator).
func Variance(a *Tensor, correction int) (*Tensor, error) {
	if err := checkFloat32("tensor.Variance", a); err != nil {
		return nil, err
	}
	n := a.Numel()
	if n <= correction {
		return nil, fmt.Errorf("tensor.Variance: %d elements with correction %d", n, correction)
	}
	mean, _ := Mean(a)
	mu := float64(mean.mustFloat32s()[0])
	var acc float64
	for _, v := range a.mustFloat32s() {
		d := float64(v) - mu
		acc += d * d
	}
	return ScalarFloat32(float32(acc / float64(n-correction))), nil
}
