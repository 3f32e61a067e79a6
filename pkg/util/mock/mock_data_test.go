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

package mock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestF32Type(t *testing.T) {
	typ := f32Type(2, 3)
	assert.True(t, typ.Complete())
	assert.Equal(t, []int64{2, 3}, typ.Dims)

	// No arguments is a rank-0 annotation, not an unknown shape.
	scalar := f32Type()
	assert.True(t, scalar.Complete())
	require.NotNil(t, scalar.Dims)
	assert.Empty(t, scalar.Dims)
}
