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

// Package status carries the error codes shared across the compiler
// pipeline. Every failure that crosses a package boundary is tagged with a
// Code so callers can branch on the failure class without string matching.
package status

import (
	"errors"
	"fmt"
)

// Code classifies a pipeline failure.
type Code int32

const (
	CodeOK Code = iota
	// CodeUnsupportedType marks a scalar element type with no counterpart
	// in the target IR.
	CodeUnsupportedType
	// CodeIncompleteType marks a graph value whose tensor type lacks a
	// concrete dtype or dimension list.
	CodeIncompleteType
	// CodeRangeOverflow marks a constant that does not fit the narrowed
	// target representation.
	CodeRangeOverflow
	// CodeUnsupportedConstant marks a constant of a category the
	// translator does not handle.
	CodeUnsupportedConstant
	// CodeUnsupportedOp marks a graph operation absent from the operator
	// translation table, or rejected by its table entry.
	CodeUnsupportedOp
	// CodeInternalConsistency marks a violated translator invariant, such
	// as an unresolved subgraph output or a stray free variable.
	CodeInternalConsistency
	// CodeOutputCountMismatch marks a compiled runtime whose output count
	// disagrees with the subgraph. Never downgraded to a fallback.
	CodeOutputCountMismatch
	// CodeTranslation is the strict-mode umbrella wrapping any
	// translation-phase failure.
	CodeTranslation
	// CodeBuild marks a failure while lowering a translated function into
	// a runnable module.
	CodeBuild
	// CodeRuntime marks an execution-phase failure inside the compiled
	// runtime or while marshaling its inputs and outputs.
	CodeRuntime
	// CodeInvalidArgument marks misuse of an API by the caller.
	CodeInvalidArgument
)

var codeNames = map[Code]string{
	CodeOK:                  "OK",
	CodeUnsupportedType:     "UNSUPPORTED_TYPE",
	CodeIncompleteType:      "INCOMPLETE_TYPE",
	CodeRangeOverflow:       "RANGE_OVERFLOW",
	CodeUnsupportedConstant: "UNSUPPORTED_CONSTANT",
	CodeUnsupportedOp:       "UNSUPPORTED_OP",
	CodeInternalConsistency: "INTERNAL_CONSISTENCY",
	CodeOutputCountMismatch: "OUTPUT_COUNT_MISMATCH",
	CodeTranslation:         "TRANSLATION",
	CodeBuild:               "BUILD",
	CodeRuntime:             "RUNTIME",
	CodeInvalidArgument:     "INVALID_ARGUMENT",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CODE(%d)", int32(c))
}

// Status is an error with a Code and an optional wrapped cause.
type Status struct {
	code  Code
	msg   string
	cause error
}

// New creates a Status with a formatted message.
func New(code Code, format string, args ...interface{}) *Status {
	return &Status{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap tags err with code. A nil err yields a nil Status.
func Wrap(code Code, err error) *Status {
	if err == nil {
		return nil
	}
	return &Status{code: code, cause: err}
}

// Wrapf tags err with code and prefixes a formatted message.
func Wrapf(code Code, err error, format string, args ...interface{}) *Status {
	if err == nil {
		return nil
	}
	return &Status{code: code, msg: fmt.Sprintf(format, args...), cause: err}
}

func (s *Status) Error() string {
	switch {
	case s.msg == "" && s.cause == nil:
		return s.code.String()
	case s.msg == "":
		return fmt.Sprintf("%s: %v", s.code, s.cause)
	case s.cause == nil:
		return fmt.Sprintf("%s: %s", s.code, s.msg)
	default:
		return fmt.Sprintf("%s: %s: %v", s.code, s.msg, s.cause)
	}
}

// Code returns the failure class.
func (s *Status) Code() Code {
	if s == nil {
		return CodeOK
	}
	return s.code
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (s *Status) Unwrap() error { return s.cause }

// CodeOf extracts the outermost Status code carried by err, or CodeOK for
// nil and CodeRuntime for untagged errors.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var s *Status
	if errors.As(err, &s) {
		return s.Code()
	}
	return CodeRuntime
}

// Is reports whether err carries code at any wrapping depth.
func Is(err error, code Code) bool {
	for err != nil {
		if s, ok := err.(*Status); ok && s.code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}
