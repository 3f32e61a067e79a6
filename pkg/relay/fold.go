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

import "github.com/yinghai/tvm-1/pkg/tensor"

// Evaluator computes one operator call over literal arguments. Lowering
// backends supply their kernel table through this hook so the IR layer
// stays backend-free.
type Evaluator func(op string, attrs map[string]interface{}, args []*tensor.Tensor) (*tensor.Tensor, error)

// FoldConstants rewrites calls whose arguments all reduce to literals into
// the literal result, and projections over literal tuples into the
// projected field. Folding is best-effort: when the evaluator rejects an
// operator the original call is kept. Shared subexpressions fold once.
func FoldConstants(f *Function, eval Evaluator) *Function {
	memo := map[Expr]Expr{}
	var rewrite func(Expr) Expr
	rewrite = func(e Expr) Expr {
		if done, ok := memo[e]; ok {
			return done
		}
		var out Expr
		switch x := e.(type) {
		case *Var, *Constant:
			out = e
		case *Call:
			args := make([]Expr, len(x.Args))
			lits := make([]*tensor.Tensor, 0, len(x.Args))
			allLit := true
			for i, a := range x.Args {
				args[i] = rewrite(a)
				if c, ok := args[i].(*Constant); ok {
					lits = append(lits, c.Value)
				} else {
					allLit = false
				}
			}
			out = &Call{Op: x.Op, Args: args, Attrs: x.Attrs}
			if allLit && eval != nil {
				if v, err := eval(x.Op, x.Attrs, lits); err == nil {
					out = NewConstant(v)
				}
			}
		case *Tuple:
			fields := make([]Expr, len(x.Fields))
			for i, fl := range x.Fields {
				fields[i] = rewrite(fl)
			}
			out = &Tuple{Fields: fields}
		case *TupleGetItem:
			tup := rewrite(x.Tuple)
			if lit, ok := tup.(*Tuple); ok && x.Index >= 0 && x.Index < len(lit.Fields) {
				out = lit.Fields[x.Index]
			} else {
				out = &TupleGetItem{Tuple: tup, Index: x.Index}
			}
		default:
			out = e
		}
		memo[e] = out
		return out
	}
	return NewFunction(f.Params, rewrite(f.Body))
}
