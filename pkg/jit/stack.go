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

package jit

import "fmt"

// Stack is the value stack of the engine's calling convention: callers
// push operation inputs, operations consume them and push outputs.
type Stack struct {
	vals []*IValue
}

// NewStack builds a stack holding vals bottom-to-top.
func NewStack(vals ...*IValue) *Stack {
	return &Stack{vals: append([]*IValue(nil), vals...)}
}

func (s *Stack) Len() int { return len(s.vals) }

// Push appends values on top.
func (s *Stack) Push(vals ...*IValue) {
	s.vals = append(s.vals, vals...)
}

// Last returns the top n values, bottom-to-top, without consuming them.
func (s *Stack) Last(n int) ([]*IValue, error) {
	if n > len(s.vals) {
		return nil, fmt.Errorf("Stack.Last: want %d values, have %d", n, len(s.vals))
	}
	return s.vals[len(s.vals)-n:], nil
}

// Drop removes the top n values.
func (s *Stack) Drop(n int) error {
	if n > len(s.vals) {
		return fmt.Errorf("Stack.Drop: want %d values, have %d", n, len(s.vals))
	}
	s.vals = s.vals[:len(s.vals)-n]
	return nil
}

// PopN removes and returns the top n values, bottom-to-top.
func (s *Stack) PopN(n int) ([]*IValue, error) {
	top, err := s.Last(n)
	if err != nil {
		return nil, err
	}
	out := append([]*IValue(nil), top...)
	s.vals = s.vals[:len(s.vals)-n]
	return out, nil
}
