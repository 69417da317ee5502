/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package runner

import (
	"encoding/binary"
	"math"

	"github.com/hebench/frontend-sub001/internal/bridge"
)

// elemWidth is the native backend byte width of dt — the single dispatch
// point spec.md §9's "templated numeric helpers" note calls for: the enum
// is switched on once here, everything else in this package works with
// plain float64 slices.
func elemWidth(dt bridge.DataType) int {
	switch dt {
	case bridge.DataTypeInt32, bridge.DataTypeFloat32:
		return 4
	default:
		return 8
	}
}

func encodeScalar(v float64, dt bridge.DataType) []byte {
	switch dt {
	case bridge.DataTypeInt32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(int32(v)))
		return buf
	case bridge.DataTypeFloat32:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return buf
	case bridge.DataTypeInt64:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		return buf
	default:
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		return buf
	}
}

func decodeScalar(buf []byte, dt bridge.DataType) float64 {
	switch dt {
	case bridge.DataTypeInt32:
		return float64(int32(binary.LittleEndian.Uint32(buf)))
	case bridge.DataTypeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(buf)))
	case bridge.DataTypeInt64:
		return float64(int64(binary.LittleEndian.Uint64(buf)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(buf))
	}
}

// packParam lays one operation parameter's sample vectors out as the
// backend's native DataPack byte buffers.
func packParam(p int, samples [][]float64, dt bridge.DataType) bridge.DataPack {
	width := elemWidth(dt)
	buffers := make([][]byte, len(samples))
	for s, vec := range samples {
		buf := make([]byte, len(vec)*width)
		for k, v := range vec {
			copy(buf[k*width:(k+1)*width], encodeScalar(v, dt))
		}
		buffers[s] = buf
	}
	return bridge.DataPack{ParamPosition: uint64(p), Buffers: buffers}
}

// packCollection converts an entire Dataset's inputs into the
// DataPackCollection the bridge encode call expects.
func packCollection(inputs [][][]float64, dt bridge.DataType) bridge.DataPackCollection {
	packs := make([]bridge.DataPack, len(inputs))
	for p, samples := range inputs {
		packs[p] = packParam(p, samples, dt)
	}
	return bridge.DataPackCollection{Packs: packs}
}

// shapeCollection builds the empty DataPackCollection Decode fills,
// pre-allocated to the ground-truth output shape.
func shapeCollection(outputs [][][]float64, dt bridge.DataType) bridge.DataPackCollection {
	width := elemWidth(dt)
	packs := make([]bridge.DataPack, len(outputs))
	for c, samples := range outputs {
		buffers := make([][]byte, len(samples))
		for s, vec := range samples {
			buffers[s] = make([]byte, len(vec)*width)
		}
		packs[c] = bridge.DataPack{ParamPosition: uint64(c), Buffers: buffers}
	}
	return bridge.DataPackCollection{Packs: packs}
}

// unpackCollection converts a decoded DataPackCollection back into the
// float64 shape used by the Workload Catalogue's reference computation.
func unpackCollection(coll bridge.DataPackCollection, dt bridge.DataType) [][][]float64 {
	width := elemWidth(dt)
	out := make([][][]float64, len(coll.Packs))
	for c, pack := range coll.Packs {
		samples := make([][]float64, len(pack.Buffers))
		for s, buf := range pack.Buffers {
			vec := make([]float64, len(buf)/width)
			for k := range vec {
				vec[k] = decodeScalar(buf[k*width:(k+1)*width], dt)
			}
			samples[s] = vec
		}
		out[c] = samples
	}
	return out
}
