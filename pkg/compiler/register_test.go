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

	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/util/mock"
)

func TestFusionHandlerThroughInterpreter(t *testing.T) {
	r := require.New(t)
	RegisterFusionHandler(DefaultOptions())
	defer UnregisterFusionHandler()

	outer, _ := mock.MockFusedGraph(mock.MockChainSubgraph())
	code, err := jit.NewCode(outer)
	r.NoError(err)

	// The same Code object keeps its compiler, so the second run reuses
	// the cached specialization.
	for i := 0; i < 2; i++ {
		stack := jit.NewStack(mock.MockChainInputs()...)
		r.NoError(code.Run(stack))
		outs := popTensors(t, stack, 1)
		assert.Equal(t, []float32{0, 0, 0, 5}, float32sOf(t, outs[0]))
	}
}

func TestFusionHandlerRejectsBareNode(t *testing.T) {
	RegisterFusionHandler(DefaultOptions())
	defer UnregisterFusionHandler()

	g := jit.NewGraph()
	n := g.NewNode(jit.KindFusionGroup, g.AddInput("x"))
	g.RegisterOutput(n.AddOutput())

	_, err := jit.NewCode(g)
	require.Error(t, err)
	assert.Equal(t, status.CodeInvalidArgument, status.CodeOf(err))
}
