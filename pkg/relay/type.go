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

// Package relay models the functional tensor IR the compiler targets:
// typed free variables, constants, operator calls and tuples, assembled
// into single-body functions.
package relay

import (
	"fmt"
	"strings"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// TypeCode is the DLPack scalar class.
type TypeCode uint8

const (
	KDLInt   TypeCode = 0
	KDLUInt  TypeCode = 1
	KDLFloat TypeCode = 2
)

// DataType is a DLPack-coded scalar type. Bool is represented as a
// one-bit unsigned integer, following the target convention.
type DataType struct {
	Code  TypeCode
	Bits  int
	Lanes int
}

func Float(bits int) DataType { return DataType{Code: KDLFloat, Bits: bits, Lanes: 1} }
func Int(bits int) DataType   { return DataType{Code: KDLInt, Bits: bits, Lanes: 1} }
func UInt(bits int) DataType  { return DataType{Code: KDLUInt, Bits: bits, Lanes: 1} }
func Bool() DataType          { return UInt(1) }

func (d DataType) String() string {
	if d == Bool() {
		return "bool"
	}
	var base string
	switch d.Code {
	case KDLInt:
		base = "int"
	case KDLUInt:
		base = "uint"
	case KDLFloat:
		base = "float"
	default:
		base = fmt.Sprintf("code%d", d.Code)
	}
	s := fmt.Sprintf("%s%d", base, d.Bits)
	if d.Lanes > 1 {
		s = fmt.Sprintf("%sx%d", s, d.Lanes)
	}
	return s
}

// StorageDType maps the IR scalar type to the host tensor element type
// that stores it. Bool widens to one byte.
func (d DataType) StorageDType() (tensor.DType, error) {
	if d.Lanes > 1 {
		return tensor.Invalid, fmt.Errorf("StorageDType: vector type %s has no host storage", d)
	}
	switch {
	case d == Bool():
		return tensor.Bool, nil
	case d.Code == KDLFloat && d.Bits == 32:
		return tensor.Float32, nil
	case d.Code == KDLFloat && d.Bits == 64:
		return tensor.Float64, nil
	case d.Code == KDLInt && d.Bits == 8:
		return tensor.Int8, nil
	case d.Code == KDLInt && d.Bits == 16:
		return tensor.Int16, nil
	case d.Code == KDLInt && d.Bits == 32:
		return tensor.Int32, nil
	case d.Code == KDLInt && d.Bits == 64:
		return tensor.Int64, nil
	case d.Code == KDLUInt && d.Bits == 8:
		return tensor.Uint8, nil
	case d.Code == KDLUInt && d.Bits == 64:
		return tensor.Uint64, nil
	default:
		return tensor.Invalid, fmt.Errorf("StorageDType: no host storage for %s", d)
	}
}

// TensorType describes a tensor-valued expression: concrete dims plus the
// scalar type. An empty dim list is a scalar.
type TensorType struct {
	Dims  []int64
	DType DataType
}

func NewTensorType(dims []int64, dtype DataType) *TensorType {
	return &TensorType{Dims: append([]int64(nil), dims...), DType: dtype}
}

func (t *TensorType) String() string {
	dims := make([]string, len(t.Dims))
	for i, d := range t.Dims {
		dims[i] = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("Tensor[(%s), %s]", strings.Join(dims, ", "), t.DType)
}

// Equal reports structural type equality.
func (t *TensorType) Equal(o *TensorType) bool {
	if t.DType != o.DType || len(t.Dims) != len(o.Dims) {
		return false
	}
	for i, d := range t.Dims {
		if o.Dims[i] != d {
			return false
		}
	}
	return true
}
