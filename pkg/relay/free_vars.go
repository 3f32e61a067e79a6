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

package relay

// FreeVars collects the distinct variables referenced by e, in first-visit
// order.
func FreeVars(e Expr) []*Var {
	var out []*Var
	seen := map[*Var]bool{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case *Var:
			if !seen[x] {
				seen[x] = true
				out = append(out, x)
			}
		case *Constant:
		case *Call:
			for _, a := range x.Args {
				walk(a)
			}
		case *Tuple:
			for _, f := range x.Fields {
				walk(f)
			}
		case *TupleGetItem:
			walk(x.Tuple)
		}
	}
	walk(e)
	return out
}

// FreeVarsFunc collects body variables the function does not bind.
func FreeVarsFunc(f *Function) []*Var {
	bound := map[*Var]bool{}
	for _, p := range f.Params {
		bound[p] = true
	}
	var out []*Var
	for _, v := range FreeVars(f.Body) {
		if !bound[v] {
			out = append(out, v)
		}
	}
	return out
}
