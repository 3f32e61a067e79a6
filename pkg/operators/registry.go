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

// Package operators maps host graph operations onto target IR
// expressions. The table is the single seam between engine semantics and
// the IR: translation resolves a node's inputs first, then asks the table
// for the equivalent expression.
package operators

import (
	"sync"

	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
)

// TranslateFunc builds the IR expression for one node. inputs holds the
// already translated operand expressions, in operand order.
type TranslateFunc func(n *jit.Node, inputs []relay.Expr) (relay.Expr, error)

var registry = struct {
	sync.RWMutex
	table map[string]TranslateFunc
}{table: map[string]TranslateFunc{}}

// Register installs the translation for a node kind, replacing any
// previous entry.
func Register(kind string, f TranslateFunc) {
	registry.Lock()
	defer registry.Unlock()
	registry.table[kind] = f
}

// IsRegistered reports whether kind has a translation.
func IsRegistered(kind string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.table[kind]
	return ok
}

// GetOperator translates one node with resolved inputs. Unsupported kinds
// and per-operation rejections both surface as errors for the caller's
// failure policy to classify.
func GetOperator(n *jit.Node, inputs []relay.Expr) (relay.Expr, error) {
	registry.RLock()
	f, ok := registry.table[n.Kind()]
	registry.RUnlock()
	if !ok {
		return nil, status.New(status.CodeUnsupportedOp, "no translation for %s", n.Kind())
	}
	e, err := f(n, inputs)
	if err != nil {
		return nil, status.Wrapf(status.CodeUnsupportedOp, err, "translating %s", n.Kind())
	}
	return e, nil
}
