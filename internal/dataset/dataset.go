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

// Package dataset is the Dataset Provider (C3): builds the ragged
// three-level input/output arrays a benchmark operates over, either by
// pseudo-random generation from a workload's declared distribution or by
// loading a CSV-described dataset from disk.
package dataset

import "github.com/hebench/frontend-sub001/internal/bridge"

// Dataset holds Inputs[p][s][k] and Outputs[c][s][k]: p indexes an
// operation parameter, c an output component, s a sample within that
// parameter/component, k an element of the sample vector (spec.md §3).
type Dataset struct {
	Inputs  [][][]float64
	Outputs [][][]float64
}

// elemSize returns the native backend byte width of one scalar of dt, used
// to compute a Dataset's memory footprint against max_loaded_size.
func elemSize(dt bridge.DataType) int64 {
	switch dt {
	case bridge.DataTypeInt32, bridge.DataTypeFloat32:
		return 4
	default:
		return 8
	}
}

// SizeBytes reports the Dataset's footprint as dt-typed native buffers.
func (d *Dataset) SizeBytes(dt bridge.DataType) int64 {
	width := elemSize(dt)
	var elems int64
	for _, samples := range d.Inputs {
		for _, vec := range samples {
			elems += int64(len(vec))
		}
	}
	for _, samples := range d.Outputs {
		for _, vec := range samples {
			elems += int64(len(vec))
		}
	}
	return elems * width
}

// SampleCounts returns the number of samples held per input operation
// parameter.
func (d *Dataset) SampleCounts() []uint64 {
	counts := make([]uint64, len(d.Inputs))
	for p, samples := range d.Inputs {
		counts[p] = uint64(len(samples))
	}
	return counts
}
