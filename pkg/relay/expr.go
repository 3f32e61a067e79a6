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

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yinghai/tvm-1/pkg/tensor"
)

// Expr is a node of the functional IR. Expressions are immutable once
// built; sharing is by reference.
type Expr interface {
	fmt.Stringer
	isExpr()
}

// Var is a named free variable with a concrete tensor type.
type Var struct {
	Name string
	Type *TensorType
}

// Constant embeds a literal tensor.
type Constant struct {
	Value *tensor.Tensor
}

// Call applies a named operator to argument expressions. Attrs carries
// operator attributes such as transpose axes; values must be
// JSON-serializable.
type Call struct {
	Op    string
	Args  []Expr
	Attrs map[string]interface{}
}

// Tuple groups expressions. Function bodies are always tuples, even for a
// single result.
type Tuple struct {
	Fields []Expr
}

// TupleGetItem projects one field out of a tuple-valued expression.
type TupleGetItem struct {
	Tuple Expr
	Index int
}

// Function is a closed-over translation unit: every free variable of Body
// must appear in Params.
type Function struct {
	Params []*Var
	Body   Expr
}

func (*Var) isExpr()          {}
func (*Constant) isExpr()     {}
func (*Call) isExpr()         {}
func (*Tuple) isExpr()        {}
func (*TupleGetItem) isExpr() {}

func NewVar(name string, typ *TensorType) *Var {
	return &Var{Name: name, Type: typ}
}

func NewConstant(value *tensor.Tensor) *Constant {
	return &Constant{Value: value}
}

func NewCall(op string, args []Expr) *Call {
	return &Call{Op: op, Args: args}
}

func NewCallAttrs(op string, args []Expr, attrs map[string]interface{}) *Call {
	return &Call{Op: op, Args: args, Attrs: attrs}
}

func NewTuple(fields []Expr) *Tuple {
	return &Tuple{Fields: fields}
}

func NewTupleGetItem(tuple Expr, index int) *TupleGetItem {
	return &TupleGetItem{Tuple: tuple, Index: index}
}

func NewFunction(params []*Var, body Expr) *Function {
	return &Function{Params: params, Body: body}
}

func (v *Var) String() string {
	return fmt.Sprintf("%%%s: %s", v.Name, v.Type)
}

func (c *Constant) String() string {
	t := c.Value
	if t.Numel() != 1 || len(t.Dims()) != 0 {
		return fmt.Sprintf("const(%s)", t)
	}
	switch t.DType() {
	case tensor.Float32:
		vals, _ := t.Float32s()
		return fmt.Sprintf("%vf", vals[0])
	case tensor.Float64:
		vals, _ := t.Float64s()
		return fmt.Sprintf("%v", vals[0])
	case tensor.Int32:
		vals, _ := t.Int32s()
		return fmt.Sprintf("%d", vals[0])
	case tensor.Int64:
		vals, _ := t.Int64s()
		return fmt.Sprintf("%di64", vals[0])
	case tensor.Bool:
		if t.Bytes()[0] != 0 {
			return "true"
		}
		return "false"
	case tensor.Uint64:
		if tensor.IsNoneSentinel(t) {
			return "none"
		}
		vals, _ := t.Uint64s()
		return fmt.Sprintf("%du64", vals[0])
	default:
		return fmt.Sprintf("const(%s)", t)
	}
}

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = refString(a)
	}
	s := fmt.Sprintf("%s(%s", c.Op, strings.Join(args, ", "))
	if len(c.Attrs) > 0 {
		keys := make([]string, 0, len(c.Attrs))
		for k := range c.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s += fmt.Sprintf(", %s=%v", k, c.Attrs[k])
		}
	}
	return s + ")"
}

func (t *Tuple) String() string {
	fields := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		fields[i] = refString(f)
	}
	return fmt.Sprintf("(%s,)", strings.Join(fields, ", "))
}

func (g *TupleGetItem) String() string {
	return fmt.Sprintf("%s.%d", refString(g.Tuple), g.Index)
}

func (f *Function) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("fn (%s) {\n  %s\n}", strings.Join(params, ", "), f.Body)
}

// refString prints vars by reference name only; everything else in full.
func refString(e Expr) string {
	if v, ok := e.(*Var); ok {
		return "%" + v.Name
	}
	return e.String()
}
