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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

func TestScalarTypeToRelay(t *testing.T) {
	cases := []struct {
		in   tensor.DType
		want relay.DataType
	}{
		{tensor.Float32, relay.Float(32)},
		{tensor.Float64, relay.Float(64)},
		{tensor.Int32, relay.Int(32)},
		{tensor.Int64, relay.Int(64)},
		{tensor.Bool, relay.Bool()},
		{tensor.Int8, relay.Int(8)},
		{tensor.Uint8, relay.UInt(8)},
		{tensor.QInt8, relay.Int(8)},
		{tensor.QUInt8, relay.UInt(8)},
		{tensor.QInt32, relay.Int(32)},
	}
	for _, c := range cases {
		got, err := ScalarTypeToRelay(c.in)
		require.NoError(t, err, "dtype %s", c.in)
		assert.Equal(t, c.want, got, "dtype %s", c.in)

		// The mapping is deterministic across calls.
		again, err := ScalarTypeToRelay(c.in)
		require.NoError(t, err)
		assert.Equal(t, got, again)
	}
}

func TestScalarTypeToRelayUnsupported(t *testing.T) {
	for _, d := range []tensor.DType{tensor.Float16, tensor.Int16, tensor.Uint64, tensor.Invalid} {
		_, err := ScalarTypeToRelay(d)
		require.Error(t, err, "dtype %s", d)
		assert.Equal(t, status.CodeUnsupportedType, status.CodeOf(err))
		assert.Contains(t, err.Error(), d.String())
	}
}
