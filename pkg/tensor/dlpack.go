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

package tensor

import "fmt"

// Alignment is the buffer alignment the compiled runtime requires before
// it will adopt a borrowed buffer. Arrow's Go allocator hands out buffers
// at this alignment, so tensors allocated here normally qualify.
const Alignment = 64

// Device type codes, per the DLPack convention.
const (
	DeviceCPU = 1
	DeviceGPU = 2
)

// DLTensor is the zero-copy exchange handle between tensor owners. It
// aliases the producer's buffer; the producer must keep it alive for as
// long as the handle circulates.
type DLTensor struct {
	DType      DType
	Dims       []int64
	Data       []byte
	DeviceType int
	DeviceID   int
}

// ToDLPack wraps t in an exchange handle without copying.
func (t *Tensor) ToDLPack() *DLTensor {
	return &DLTensor{
		DType:      t.dtype,
		Dims:       t.dims,
		Data:       t.data,
		DeviceType: DeviceCPU,
	}
}

// FromDLPack adopts the handle's buffer without copying.
func FromDLPack(d *DLTensor) (*Tensor, error) {
	if d.DeviceType != DeviceCPU {
		return nil, fmt.Errorf("tensor.FromDLPack: device type %d not resident on host", d.DeviceType)
	}
	return FromRaw(d.DType, d.Dims, d.Data)
}

// Aligned reports whether the handle's buffer start satisfies the runtime
// alignment contract. Empty buffers never qualify for zero-copy adoption.
func (d *DLTensor) Aligned() bool {
	t := Tensor{dtype: d.DType, dims: d.Dims, data: d.Data}
	addr := t.DataAddr()
	return addr != 0 && addr%Alignment == 0
}
