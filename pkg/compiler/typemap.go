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
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// ScalarTypeToRelay maps a host element type onto the target scalar type.
// Quantized kinds map to their storage widths. Anything outside the
// supported set is an unsupported-type error naming the offender.
func ScalarTypeToRelay(d tensor.DType) (relay.DataType, error) {
	switch d {
	case tensor.Float32:
		return relay.Float(32), nil
	case tensor.Float64:
		return relay.Float(64), nil
	case tensor.Int32, tensor.QInt32:
		return relay.Int(32), nil
	case tensor.Int64:
		return relay.Int(64), nil
	case tensor.Bool:
		return relay.Bool(), nil
	case tensor.Int8, tensor.QInt8:
		return relay.Int(8), nil
	case tensor.Uint8, tensor.QUInt8:
		return relay.UInt(8), nil
	default:
		return relay.DataType{}, status.New(status.CodeUnsupportedType, "no target scalar type for %s", d)
	}
}
