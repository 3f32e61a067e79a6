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
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow/memory"
)

// NoneSentinel is the designated uint64 scalar standing in for an absent
// optional value inside translated IR. Spells "TVM_NONE".
const NoneSentinel uint64 = 0x54564d5f4e4f4e45

var allocator memory.Allocator = memory.NewGoAllocator()

// Tensor is a dense row-major host tensor. An empty dims slice denotes a
// scalar. Data lives in an Arrow-allocated buffer unless the tensor was
// built with FromRaw, so freshly allocated tensors are 64-byte aligned.
type Tensor struct {
	dtype DType
	dims  []int64
	data  []byte
}

// New allocates a zero-filled tensor.
func New(dtype DType, dims []int64) (*Tensor, error) {
	if dtype.Size() == 0 {
		return nil, fmt.Errorf("tensor.New: invalid dtype %s", dtype)
	}
	n := int64(1)
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("tensor.New: negative dim %d in %v", d, dims)
		}
		n *= d
	}
	size := int(n) * dtype.Size()
	buf := allocator.Allocate(size)
	for i := range buf {
		buf[i] = 0
	}
	return &Tensor{dtype: dtype, dims: append([]int64(nil), dims...), data: buf}, nil
}

// FromRaw wraps an existing byte slice without copying. The caller keeps
// ownership; alignment is whatever the slice happens to have.
func FromRaw(dtype DType, dims []int64, data []byte) (*Tensor, error) {
	n := int64(1)
	for _, d := range dims {
		n *= d
	}
	if want := int(n) * dtype.Size(); len(data) != want {
		return nil, fmt.Errorf("tensor.FromRaw: have %d bytes, want %d for %s%v", len(data), want, dtype, dims)
	}
	return &Tensor{dtype: dtype, dims: append([]int64(nil), dims...), data: data}, nil
}

// FromFloat32 builds a float32 tensor from vals, which must match the dim
// product exactly.
func FromFloat32(dims []int64, vals []float32) (*Tensor, error) {
	t, err := New(Float32, dims)
	if err != nil {
		return nil, err
	}
	dst := t.mustFloat32s()
	if len(dst) != len(vals) {
		return nil, fmt.Errorf("tensor.FromFloat32: %d values for shape %v", len(vals), dims)
	}
	copy(dst, vals)
	return t, nil
}

// FromInt64 builds an int64 tensor from vals.
func FromInt64(dims []int64, vals []int64) (*Tensor, error) {
	t, err := New(Int64, dims)
	if err != nil {
		return nil, err
	}
	dst := unsafe.Slice((*int64)(unsafe.Pointer(&t.data[0])), t.Numel())
	if len(dst) != len(vals) {
		return nil, fmt.Errorf("tensor.FromInt64: %d values for shape %v", len(vals), dims)
	}
	copy(dst, vals)
	return t, nil
}

// Scalar constructors. A scalar has an empty dim list.

func ScalarFloat32(v float32) *Tensor {
	t, _ := New(Float32, nil)
	t.mustFloat32s()[0] = v
	return t
}

func ScalarFloat64(v float64) *Tensor {
	t, _ := New(Float64, nil)
	*(*float64)(unsafe.Pointer(&t.data[0])) = v
	return t
}

func ScalarInt32(v int32) *Tensor {
	t, _ := New(Int32, nil)
	*(*int32)(unsafe.Pointer(&t.data[0])) = v
	return t
}

func ScalarInt64(v int64) *Tensor {
	t, _ := New(Int64, nil)
	*(*int64)(unsafe.Pointer(&t.data[0])) = v
	return t
}

func ScalarBool(v bool) *Tensor {
	t, _ := New(Bool, nil)
	if v {
		t.data[0] = 1
	}
	return t
}

func ScalarUint64(v uint64) *Tensor {
	t, _ := New(Uint64, nil)
	*(*uint64)(unsafe.Pointer(&t.data[0])) = v
	return t
}

// NewNoneSentinel builds the uint64 scalar standing in for "no value".
func NewNoneSentinel() *Tensor {
	return ScalarUint64(NoneSentinel)
}

// IsNoneSentinel reports whether t is the none placeholder.
func IsNoneSentinel(t *Tensor) bool {
	if t == nil || t.dtype != Uint64 || t.Numel() != 1 {
		return false
	}
	return *(*uint64)(unsafe.Pointer(&t.data[0])) == NoneSentinel
}

// DType returns the element type.
func (t *Tensor) DType() DType { return t.dtype }

// Dims returns the shape. Callers must not mutate it.
func (t *Tensor) Dims() []int64 { return t.dims }

// Numel returns the element count; 1 for scalars.
func (t *Tensor) Numel() int {
	n := int64(1)
	for _, d := range t.dims {
		n *= d
	}
	return int(n)
}

// Bytes exposes the backing buffer.
func (t *Tensor) Bytes() []byte { return t.data }

// DataAddr returns the buffer start address, used for alignment checks.
// Zero-sized tensors report address 0.
func (t *Tensor) DataAddr() uintptr {
	if len(t.data) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&t.data[0]))
}

func (t *Tensor) String() string {
	return fmt.Sprintf("%s%v", t.dtype, t.dims)
}

// SameShape reports dim-list equality.
func (t *Tensor) SameShape(o *Tensor) bool {
	if len(t.dims) != len(o.dims) {
		return false
	}
	for i, d := range t.dims {
		if o.dims[i] != d {
			return false
		}
	}
	return true
}

// Clone performs a deep copy into a freshly allocated buffer.
func (t *Tensor) Clone() *Tensor {
	c, _ := New(t.dtype, t.dims)
	copy(c.data, t.data)
	return c
}

func (t *Tensor) mustFloat32s() []float32 {
	n := t.Numel()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.data[0])), n)
}

// Float32s views the buffer as float32 elements without copying.
func (t *Tensor) Float32s() ([]float32, error) {
	if t.dtype != Float32 {
		return nil, fmt.Errorf("tensor.Float32s: tensor is %s", t.dtype)
	}
	return t.mustFloat32s(), nil
}

// Float64s views the buffer as float64 elements without copying.
func (t *Tensor) Float64s() ([]float64, error) {
	if t.dtype != Float64 {
		return nil, fmt.Errorf("tensor.Float64s: tensor is %s", t.dtype)
	}
	if t.Numel() == 0 {
		return nil, nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&t.data[0])), t.Numel()), nil
}

// Int32s views the buffer as int32 elements without copying.
func (t *Tensor) Int32s() ([]int32, error) {
	if t.dtype != Int32 && t.dtype != QInt32 {
		return nil, fmt.Errorf("tensor.Int32s: tensor is %s", t.dtype)
	}
	if t.Numel() == 0 {
		return nil, nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.data[0])), t.Numel()), nil
}

// Int64s views the buffer as int64 elements without copying.
func (t *Tensor) Int64s() ([]int64, error) {
	if t.dtype != Int64 {
		return nil, fmt.Errorf("tensor.Int64s: tensor is %s", t.dtype)
	}
	if t.Numel() == 0 {
		return nil, nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&t.data[0])), t.Numel()), nil
}

// Uint64s views the buffer as uint64 elements without copying.
func (t *Tensor) Uint64s() ([]uint64, error) {
	if t.dtype != Uint64 {
		return nil, fmt.Errorf("tensor.Uint64s: tensor is %s", t.dtype)
	}
	if t.Numel() == 0 {
		return nil, nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&t.data[0])), t.Numel()), nil
}

// item reads element i widened to float64, for conversions.
func (t *Tensor) item(i int) float64 {
	base := unsafe.Pointer(&t.data[0])
	switch t.dtype {
	case Float32:
		return float64(*(*float32)(unsafe.Add(base, i*4)))
	case Float64:
		return *(*float64)(unsafe.Add(base, i*8))
	case Int8, QInt8:
		return float64(*(*int8)(unsafe.Add(base, i)))
	case Int16:
		return float64(*(*int16)(unsafe.Add(base, i*2)))
	case Int32, QInt32:
		return float64(*(*int32)(unsafe.Add(base, i*4)))
	case Int64:
		return float64(*(*int64)(unsafe.Add(base, i*8)))
	case Uint8, QUInt8:
		return float64(*(*uint8)(unsafe.Add(base, i)))
	case Uint64:
		return float64(*(*uint64)(unsafe.Add(base, i*8)))
	case Bool:
		if t.data[i] != 0 {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

func (t *Tensor) setItem(i int, v float64) {
	base := unsafe.Pointer(&t.data[0])
	switch t.dtype {
	case Float32:
		*(*float32)(unsafe.Add(base, i*4)) = float32(v)
	case Float64:
		*(*float64)(unsafe.Add(base, i*8)) = v
	case Int8, QInt8:
		*(*int8)(unsafe.Add(base, i)) = int8(v)
	case Int16:
		*(*int16)(unsafe.Add(base, i*2)) = int16(v)
	case Int32, QInt32:
		*(*int32)(unsafe.Add(base, i*4)) = int32(v)
	case Int64:
		*(*int64)(unsafe.Add(base, i*8)) = int64(v)
	case Uint8, QUInt8:
		*(*uint8)(unsafe.Add(base, i)) = uint8(v)
	case Uint64:
		*(*uint64)(unsafe.Add(base, i*8)) = uint64(v)
	case Bool:
		if v != 0 {
			t.data[i] = 1
		} else {
			t.data[i] = 0
		}
	}
}

// Convert returns a tensor of the requested dtype. When the dtype already
// matches, the receiver is returned unchanged, so the common float32 path
// stays zero-copy. Float16 has no conversion support.
func (t *Tensor) Convert(dtype DType) (*Tensor, error) {
	if dtype == t.dtype {
		return t, nil
	}
	if t.dtype == Float16 || dtype == Float16 {
		return nil, fmt.Errorf("tensor.Convert: %s -> %s not supported", t.dtype, dtype)
	}
	out, err := New(dtype, t.dims)
	if err != nil {
		return nil, err
	}
	for i := 0; i < t.Numel(); i++ {
		out.setItem(i, t.item(i))
	}
	return out, nil
}
