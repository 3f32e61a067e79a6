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
	"strings"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// IValueKind tags the runtime value categories the engine passes around.
type IValueKind int

const (
	TensorValue IValueKind = iota
	DoubleValue
	IntValue
	BoolValue
	NoneValue
	IntListValue
)

func (k IValueKind) String() string {
	switch k {
	case TensorValue:
		return "Tensor"
	case DoubleValue:
		return "Double"
	case IntValue:
		return "Int"
	case BoolValue:
		return "Bool"
	case NoneValue:
		return "None"
	case IntListValue:
		return "IntList"
	default:
		return fmt.Sprintf("IValueKind(%d)", int(k))
	}
}

// IValue is one dynamically typed engine value. Treat instances as
// immutable; tensors are shared by reference.
type IValue struct {
	kind IValueKind
	t    *tensor.Tensor
	d    float64
	i    int64
	b    bool
	list []int64
}

func NewTensorValue(t *tensor.Tensor) *IValue { return &IValue{kind: TensorValue, t: t} }
func NewDouble(d float64) *IValue             { return &IValue{kind: DoubleValue, d: d} }
func NewInt(i int64) *IValue                  { return &IValue{kind: IntValue, i: i} }
func NewBool(b bool) *IValue                  { return &IValue{kind: BoolValue, b: b} }
func NewNone() *IValue                        { return &IValue{kind: NoneValue} }

func NewIntList(vals []int64) *IValue {
	return &IValue{kind: IntListValue, list: append([]int64(nil), vals...)}
}

func (v *IValue) Kind() IValueKind { return v.kind }
func (v *IValue) IsTensor() bool   { return v.kind == TensorValue }
func (v *IValue) IsNone() bool     { return v.kind == NoneValue }

// Tensor returns the payload of a tensor value.
func (v *IValue) Tensor() (*tensor.Tensor, error) {
	if v.kind != TensorValue {
		return nil, fmt.Errorf("IValue.Tensor: value is %s", v.kind)
	}
	return v.t, nil
}

func (v *IValue) tensorOrNil() (*tensor.Tensor, bool) {
	if v.kind == TensorValue {
		return v.t, true
	}
	return nil, false
}

// Double returns the payload of a double value.
func (v *IValue) Double() (float64, error) {
	if v.kind != DoubleValue {
		return 0, fmt.Errorf("IValue.Double: value is %s", v.kind)
	}
	return v.d, nil
}

// Int returns the payload of an int value.
func (v *IValue) Int() (int64, error) {
	if v.kind != IntValue {
		return 0, fmt.Errorf("IValue.Int: value is %s", v.kind)
	}
	return v.i, nil
}

// Bool returns the payload of a bool value.
func (v *IValue) Bool() (bool, error) {
	if v.kind != BoolValue {
		return false, fmt.Errorf("IValue.Bool: value is %s", v.kind)
	}
	return v.b, nil
}

// IntList returns the payload of an int-list value.
func (v *IValue) IntList() ([]int64, error) {
	if v.kind != IntListValue {
		return nil, fmt.Errorf("IValue.IntList: value is %s", v.kind)
	}
	return v.list, nil
}

func (v *IValue) String() string {
	switch v.kind {
	case TensorValue:
		return v.t.String()
	case DoubleValue:
		return fmt.Sprintf("%v", v.d)
	case IntValue:
		return fmt.Sprintf("%d", v.i)
	case BoolValue:
		return fmt.Sprintf("%v", v.b)
	case NoneValue:
		return "None"
	case IntListValue:
		parts := make([]string, len(v.list))
		for i, x := range v.list {
			parts[i] = fmt.Sprintf("%d", x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.kind.String()
	}
}
