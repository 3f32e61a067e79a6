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

// Options fixes the behavior of one compiled unit: how hard the optimizer
// works, whether translation failures fail the invocation or fall back to
// interpretation, and which device and host code is generated for.
type Options struct {
	// OptLevel selects the optimization level. Level 2 and above enables
	// constant folding during lowering.
	OptLevel int `json:"opt_level"`
	// Strict surfaces translation failures to the caller instead of
	// falling back to the interpreter.
	Strict bool `json:"strict"`
	// DeviceType names the execution device kind, "cpu" or "gpu".
	DeviceType string `json:"device_type"`
	// Device is the code generation target for the device.
	Device string `json:"device"`
	// Host is the code generation target for host-side glue.
	Host string `json:"host"`
}

// DefaultOptions is the CPU configuration used when the embedder supplies
// nothing.
func DefaultOptions() Options {
	return Options{
		OptLevel:   2,
		Strict:     false,
		DeviceType: "cpu",
		Device:     "llvm",
		Host:       "llvm",
	}
}
