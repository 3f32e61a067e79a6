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
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/yinghai/tvm-1/pkg/jit"
)

// Signature keys one compiled specialization. Only the element type and
// concrete shape of each bound input participate, never the data, so runs
// that differ only in values share an artifact.
type Signature struct {
	Hash uint64
	Repr string
}

// SignatureOf derives the signature of one invocation from the values
// bound to the declared inputs, in declaration order. Non-tensor values
// contribute their kind tag.
func SignatureOf(inputs []*jit.IValue) Signature {
	var b strings.Builder
	for i, iv := range inputs {
		if i > 0 {
			b.WriteByte(';')
		}
		if t, err := iv.Tensor(); err == nil {
			b.WriteString(t.String())
		} else {
			b.WriteString(iv.Kind().String())
		}
	}
	repr := b.String()
	return Signature{Hash: xxhash.Sum64String(repr), Repr: repr}
}

func (s Signature) String() string { return s.Repr }
