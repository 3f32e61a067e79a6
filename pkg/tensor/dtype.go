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

// Package tensor provides the dense host tensors exchanged between the
// graph engine, the translator and the compiled runtime. Buffers come from
// an Arrow allocator, whose 64-byte alignment is what the zero-copy input
// binding path depends on.
package tensor

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

// DType is the scalar element type of a Tensor. The quantized kinds share
// storage with their integral widths but stay distinct so the type mapper
// can report them faithfully.
type DType int

const (
	Invalid DType = iota
	Float32
	Float64
	Float16
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint64
	Bool
	QInt8
	QUInt8
	QInt32
)

var dtypeNames = map[DType]string{
	Float32: "float32",
	Float64: "float64",
	Float16: "float16",
	Int8:    "int8",
	Int16:   "int16",
	Int32:   "int32",
	Int64:   "int64",
	Uint8:   "uint8",
	Uint64:  "uint64",
	Bool:    "bool",
	QInt8:   "qint8",
	QUInt8:  "quint8",
	QInt32:  "qint32",
}

func (d DType) String() string {
	if name, ok := dtypeNames[d]; ok {
		return name
	}
	return fmt.Sprintf("dtype(%d)", int(d))
}

// ParseDType is the inverse of String. Runtime descriptors store dtypes as
// their names.
func ParseDType(s string) (DType, error) {
	for d, name := range dtypeNames {
		if name == s {
			return d, nil
		}
	}
	return Invalid, fmt.Errorf("ParseDType: unknown dtype %q", s)
}

// Size returns the element width in bytes. Bool occupies one byte per
// element, matching the DLPack convention rather than Arrow's bit packing.
func (d DType) Size() int {
	switch d {
	case Float32, Int32, QInt32:
		return 4
	case Float64, Int64, Uint64:
		return 8
	case Float16, Int16:
		return 2
	case Int8, Uint8, Bool, QInt8, QUInt8:
		return 1
	default:
		return 0
	}
}

// ArrowType maps a DType onto the Arrow type used when tensors are handed
// to Arrow-based consumers. Quantized kinds surface as their storage type.
func (d DType) ArrowType() (arrow.DataType, error) {
	switch d {
	case Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case Float64:
		return arrow.PrimitiveTypes.Float64, nil
	case Float16:
		return arrow.FixedWidthTypes.Float16, nil
	case Int8, QInt8:
		return arrow.PrimitiveTypes.Int8, nil
	case Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case Int32, QInt32:
		return arrow.PrimitiveTypes.Int32, nil
	case Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case Uint8, QUInt8:
		return arrow.PrimitiveTypes.Uint8, nil
	case Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case Bool:
		return arrow.FixedWidthTypes.Boolean, nil
	default:
		return nil, fmt.Errorf("ArrowType: no arrow mapping for %s", d)
	}
}
