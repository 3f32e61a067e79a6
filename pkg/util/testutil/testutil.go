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

// Package testutil holds shared test helpers. Golden files regenerate with
// `go test -record ./...`.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// record regenerates golden files instead of comparing against them.
var record bool

func init() {
	flag.BoolVar(&record, "record", false, "to generate test result")
}

// IsRecording returns true if the -record flag is set.
func IsRecording() bool {
	return record
}

// CheckGolden compares got with the golden file at path (relative to the
// test's package directory). With -record the file is rewritten instead.
// A trailing newline in the file is ignored, so editors may add one.
func CheckGolden(t *testing.T, path, got string) {
	t.Helper()
	if record {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(got+"\n"), 0o644))
		return
	}
	want, err := os.ReadFile(path)
	require.NoError(t, err, "golden file missing; run with -record to create it")
	require.Equal(t, strings.TrimSuffix(string(want), "\n"), got)
}
