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
	"fmt"

	"github.com/yinghai/tvm-1/pkg/jit"
)

// RegisterFusionHandler routes fusion-group nodes through the compiler:
// whenever the interpreter resolves a node captured for acceleration, a
// compiled unit is created for its subgraph with the given options. Each
// node gets its own unit and with it its own specialization cache.
func RegisterFusionHandler(opts Options) {
	jit.RegisterOperator(jit.KindFusionGroup, func(n *jit.Node) (jit.Operation, error) {
		c, err := NewCompiler(n, opts)
		if err != nil {
			return nil, fmt.Errorf("RegisterFusionHandler: %w", err)
		}
		return c.Run, nil
	})
}

// UnregisterFusionHandler restores interpreter-only execution of fusion
// nodes.
func UnregisterFusionHandler() {
	jit.UnregisterOperator(jit.KindFusionGroup)
}
