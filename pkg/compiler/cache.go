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
	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/tensor"
)

// cacheEntry is one compiled specialization: the ordered runtime inputs
// (declared subgraph inputs first, then promoted tensor constants in
// discovery order) and the operations bound to one runtime instance.
// Entries exist only for fully verified builds and are never evicted for
// the life of the compiled unit; failed attempts leave no entry behind,
// so the next invocation with the same signature retries from scratch.
type cacheEntry struct {
	inputValues      []*jit.Value
	setInput         func(i int, t *tensor.Tensor) error
	setInputZeroCopy func(i int, dl *tensor.DLTensor) error
	run              func() error
	getOutput        func(i int) (*tensor.Tensor, error)
}
