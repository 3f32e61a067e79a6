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

// Package logutil holds the shared log entry formats.
package logutil

import (
	"fmt"
	"time"
)

// MonitorLogEntry is the one-line cost record emitted around expensive
// boundary actions such as compiling a specialization.
type MonitorLogEntry struct {
	ActionName string
	Signature  string
	CostTime   time.Duration
	ErrorMsg   string
}

func (e *MonitorLogEntry) String() string {
	return fmt.Sprintf("|ActionName:%v|CostTime:%v|Signature:%v|ErrorMsg:%v",
		e.ActionName, e.CostTime, e.Signature, e.ErrorMsg)
}
