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

// Package graphruntime executes built modules. A runtime is created from
// the build's graph descriptor plus the module holding lowered kernels
// and internalized parameters; callers then bind inputs, run, and read
// outputs, mirroring the set_input / run / get_output surface of the
// target stack.
package graphruntime

import (
	"encoding/json"
	"fmt"
)

// Node operator classes inside the descriptor.
const (
	OpNull  = "null"   // placeholder bound by the caller
	OpConst = "const"  // parameter internalized at build time
	OpKern  = "tvm_op" // lowered kernel invocation
)

// JSONNode is one entry of the flattened graph. Inputs reference
// producing entries as [entry, output] pairs; every entry here produces
// exactly one output.
type JSONNode struct {
	Op     string     `json:"op"`
	Name   string     `json:"name"`
	Inputs [][2]int   `json:"inputs,omitempty"`
	Attrs  *NodeAttrs `json:"attrs,omitempty"`
}

// NodeAttrs carries kernel selection and operator attributes.
type NodeAttrs struct {
	FuncName string                 `json:"func_name"`
	OpAttrs  map[string]interface{} `json:"op_attrs,omitempty"`
}

// GraphAttrs carries the per-entry storage plan: element type and shape,
// indexed like Nodes.
type GraphAttrs struct {
	DLTypes []string  `json:"dltype"`
	Shapes  [][]int64 `json:"shape"`
}

// GraphJSON is the runtime-facing graph descriptor produced by a build.
type GraphJSON struct {
	Nodes    []JSONNode `json:"nodes"`
	ArgNodes []int      `json:"arg_nodes"`
	Heads    [][2]int   `json:"heads"`
	Attrs    GraphAttrs `json:"attrs"`
}

// Encode serializes the descriptor.
func (g *GraphJSON) Encode() (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("GraphJSON.Encode: %w", err)
	}
	return string(b), nil
}

// DecodeGraphJSON parses and structurally validates a descriptor.
func DecodeGraphJSON(s string) (*GraphJSON, error) {
	var g GraphJSON
	if err := json.Unmarshal([]byte(s), &g); err != nil {
		return nil, fmt.Errorf("DecodeGraphJSON: %w", err)
	}
	n := len(g.Nodes)
	if len(g.Attrs.DLTypes) != n || len(g.Attrs.Shapes) != n {
		return nil, fmt.Errorf("DecodeGraphJSON: %d nodes with %d dltypes and %d shapes",
			n, len(g.Attrs.DLTypes), len(g.Attrs.Shapes))
	}
	for _, a := range g.ArgNodes {
		if a < 0 || a >= n {
			return nil, fmt.Errorf("DecodeGraphJSON: arg node %d out of range", a)
		}
		if g.Nodes[a].Op != OpNull {
			return nil, fmt.Errorf("DecodeGraphJSON: arg node %d is %q, want %q", a, g.Nodes[a].Op, OpNull)
		}
	}
	for _, h := range g.Heads {
		if h[0] < 0 || h[0] >= n {
			return nil, fmt.Errorf("DecodeGraphJSON: head %v out of range", h)
		}
	}
	for i, nd := range g.Nodes {
		for _, in := range nd.Inputs {
			if in[0] < 0 || in[0] >= i {
				return nil, fmt.Errorf("DecodeGraphJSON: node %d consumes %v before production", i, in)
			}
		}
		if nd.Op == OpKern && (nd.Attrs == nil || nd.Attrs.FuncName == "") {
			return nil, fmt.Errorf("DecodeGraphJSON: node %d has no func_name", i)
		}
	}
	return &g, nil
}
