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

package status

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	a := assert.New(t)

	a.Equal(CodeOK, CodeOf(nil))
	a.Equal(CodeRuntime, CodeOf(errors.New("plain")))

	err := New(CodeRangeOverflow, "value %v out of range", 1e308)
	a.Equal(CodeRangeOverflow, CodeOf(err))

	wrapped := fmt.Errorf("translateConstant: %w", err)
	a.Equal(CodeRangeOverflow, CodeOf(wrapped))
}

func TestWrapKeepsCause(t *testing.T) {
	a := assert.New(t)

	cause := errors.New("no operator registered")
	err := Wrap(CodeUnsupportedOp, cause)
	a.ErrorIs(err, cause)
	a.Equal(CodeUnsupportedOp, err.Code())
	a.Contains(err.Error(), "UNSUPPORTED_OP")

	a.Nil(Wrap(CodeBuild, nil))
}

func TestIsFindsNestedCode(t *testing.T) {
	a := assert.New(t)

	inner := New(CodeIncompleteType, "value %s has no concrete dims", "x_1")
	outer := Wrapf(CodeTranslation, inner, "subgraph translation failed")

	a.True(Is(outer, CodeTranslation))
	a.True(Is(outer, CodeIncompleteType))
	a.False(Is(outer, CodeBuild))
	a.Equal(CodeTranslation, CodeOf(outer))
}

func TestCodeString(t *testing.T) {
	a := assert.New(t)
	a.Equal("OUTPUT_COUNT_MISMATCH", CodeOutputCountMismatch.String())
	a.Equal("CODE(99)", Code(99).String())
}
