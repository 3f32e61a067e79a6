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

// Package compiler bridges captured jit subgraphs onto the relay stack.
// A compiled unit translates its subgraph into a relay function, builds
// it once per input signature, and executes the compiled runtime in place
// of interpretation, falling back to the interpreter when lowering is not
// possible.
package compiler

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yinghai/tvm-1/pkg/codegen"
	"github.com/yinghai/tvm-1/pkg/graphruntime"
	"github.com/yinghai/tvm-1/pkg/jit"
	"github.com/yinghai/tvm-1/pkg/relay"
	"github.com/yinghai/tvm-1/pkg/status"
	"github.com/yinghai/tvm-1/pkg/tensor"
	"github.com/yinghai/tvm-1/pkg/util/logutil"
)

// Builder lowers a translated function into a runnable artifact.
// *codegen.BuildModule is the production implementation.
type Builder interface {
	Build(fn *relay.Function, targets map[int]string, host string) (*codegen.Artifact, error)
}

// Compiler accelerates one fusion node's subgraph. It owns the
// specialization cache and the device context, both fixed at
// construction. Instances are not safe for concurrent use; the engine's
// operator contract serializes invocations.
type Compiler struct {
	subgraph   *jit.Graph
	opts       Options
	deviceType int
	deviceID   int
	builder    Builder
	cache      map[Signature]*cacheEntry
}

// NewCompiler creates the compiled unit for a fusion node carrying a
// captured subgraph.
func NewCompiler(n *jit.Node, opts Options) (*Compiler, error) {
	if n.Subgraph() == nil {
		return nil, status.New(status.CodeInvalidArgument, "node %s carries no subgraph", n.Kind())
	}
	deviceType := tensor.DeviceCPU
	if opts.DeviceType == "gpu" {
		deviceType = tensor.DeviceGPU
	}
	return &Compiler{
		subgraph:   n.Subgraph(),
		opts:       opts,
		deviceType: deviceType,
		builder:    codegen.NewBuildModule(opts.OptLevel),
		cache:      map[Signature]*cacheEntry{},
	}, nil
}

// CacheLen reports how many specializations have been compiled so far.
func (c *Compiler) CacheLen() int { return len(c.cache) }

// Run implements the engine's custom-operation calling convention: the
// declared inputs are consumed from the top of the stack and replaced by
// the subgraph outputs. A miss translates and builds the subgraph for the
// observed signature; translation and build failures fall back to
// interpretation on the untouched stack, or surface as a translation
// error in strict mode. An output-count mismatch against the compiled
// runtime is fatal either way, and so is every execution-phase error.
func (c *Compiler) Run(stack *jit.Stack) error {
	numInputs := len(c.subgraph.Inputs())
	inputs, err := stack.Last(numInputs)
	if err != nil {
		return status.Wrapf(status.CodeInvalidArgument, err, "Compiler.Run")
	}
	bound := make(map[*jit.Value]*jit.IValue, numInputs)
	for i, in := range c.subgraph.Inputs() {
		bound[in] = inputs[i]
	}

	sig := SignatureOf(inputs)
	entry, hit := c.cache[sig]
	logrus.Debugf("compiler: signature %s cache hit=%v", sig, hit)
	if !hit {
		entry, err = c.compile(sig, bound)
		if err != nil {
			if status.Is(err, status.CodeOutputCountMismatch) {
				return err
			}
			if c.opts.Strict {
				return status.Wrapf(status.CodeTranslation, err, "failed to lower subgraph")
			}
			logrus.Warnf("compiler: falling back to interpretation: %v", err)
			return jit.Interpret(c.subgraph, stack)
		}
		c.cache[sig] = entry
	}

	if err := c.bindInputs(entry, bound); err != nil {
		return err
	}
	if err := entry.run(); err != nil {
		return status.Wrapf(status.CodeRuntime, err, "executing specialization %s", sig)
	}
	if err := stack.Drop(numInputs); err != nil {
		return status.Wrap(status.CodeRuntime, err)
	}
	for i := range c.subgraph.Outputs() {
		out, err := entry.getOutput(i)
		if err != nil {
			return status.Wrap(status.CodeRuntime, err)
		}
		stack.Push(jit.NewTensorValue(out))
	}
	return nil
}

// compile produces one specialization, recording cost and outcome.
func (c *Compiler) compile(sig Signature, bound map[*jit.Value]*jit.IValue) (*cacheEntry, error) {
	timeStart := time.Now()
	logEntry := &logutil.MonitorLogEntry{
		ActionName: "Compiler@Compile",
		Signature:  sig.Repr,
	}
	entry, err := c.compileCore(bound)
	logEntry.CostTime = time.Since(timeStart)
	if err != nil {
		logEntry.ErrorMsg = err.Error()
		logrus.Error(logEntry)
	} else {
		logrus.Info(logEntry)
	}
	return entry, err
}

func (c *Compiler) compileCore(bound map[*jit.Value]*jit.IValue) (*cacheEntry, error) {
	tr := newTranslator()
	for _, in := range c.subgraph.Inputs() {
		iv := bound[in]
		t, err := iv.Tensor()
		if err != nil {
			return nil, status.Wrapf(status.CodeIncompleteType, err, "input %%%s", in.UniqueName())
		}
		tr.typeHints[in] = jit.InferType(t)
	}
	fn, inputValues, err := tr.translate(c.subgraph)
	if err != nil {
		return nil, err
	}
	art, err := c.builder.Build(fn, map[int]string{c.deviceType: c.opts.Device}, c.opts.Host)
	if err != nil {
		return nil, err
	}
	rt, err := graphruntime.Create(art.GraphJSON, art.Mod, c.deviceType, c.deviceID)
	if err != nil {
		return nil, status.Wrap(status.CodeBuild, err)
	}
	if n := rt.GetNumOutputs(); n != len(c.subgraph.Outputs()) {
		return nil, status.New(status.CodeOutputCountMismatch, "compiled runtime reports %d outputs, subgraph declares %d", n, len(c.subgraph.Outputs()))
	}
	return &cacheEntry{
		inputValues:      inputValues,
		setInput:         rt.SetInput,
		setInputZeroCopy: rt.SetInputZeroCopy,
		run:              rt.Run,
		getOutput:        rt.GetOutput,
	}, nil
}

// bindInputs marshals every recorded runtime input into the compiled
// runtime, in recorded order. Inputs beyond the declared ones are
// promoted constants and re-evaluate their payload here. Everything is
// converted to the engine element type first; a buffer that satisfies
// the alignment contract binds zero-copy, anything else is copied in.
func (c *Compiler) bindInputs(entry *cacheEntry, bound map[*jit.Value]*jit.IValue) error {
	for i, val := range entry.inputValues {
		iv, ok := bound[val]
		if !ok {
			civ, isConst := jit.ToIValue(val)
			if !isConst {
				return status.New(status.CodeInternalConsistency, "runtime input %%%s is neither bound nor constant", val.UniqueName())
			}
			iv = civ
		}
		t, err := iv.Tensor()
		if err != nil {
			return status.Wrapf(status.CodeRuntime, err, "runtime input %%%s", val.UniqueName())
		}
		converted, err := t.Convert(tensor.Float32)
		if err != nil {
			return status.Wrapf(status.CodeRuntime, err, "runtime input %%%s", val.UniqueName())
		}
		dl := converted.ToDLPack()
		if dl.Aligned() {
			err = entry.setInputZeroCopy(i, dl)
		} else {
			err = entry.setInput(i, converted)
		}
		if err != nil {
			return status.Wrapf(status.CodeRuntime, err, "binding input %d", i)
		}
	}
	return nil
}
