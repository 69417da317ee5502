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

package dataset

import (
	"math/rand"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// Generate pseudo-randomly fills a Dataset for desc from seed, drawing
// sampleCounts[p] samples of desc's declared vector length for each
// operation parameter p, then computing ground-truth outputs over the
// full Cartesian product via desc.Reference. maxLoadedSize, if non-zero,
// bounds the resulting footprint under dt's native element width; a
// dataset that would exceed it fails fast with *TooLargeError before any
// backend call (spec.md §4.3).
//
// Reseeding with the same seed reproduces bit-identical output: element
// order is fixed (parameter, then sample, then vector index) and draws
// exactly one rng value per element, never more.
func Generate(desc *workload.Descriptor, params []bridge.WorkloadParam, sampleCounts []uint64, seed uint64, dt bridge.DataType, maxLoadedSize int64) (*Dataset, error) {
	shapes, err := desc.Shapes(params)
	if err != nil {
		return nil, err
	}

	if maxLoadedSize > 0 {
		if projected := projectedSizeBytes(shapes, sampleCounts, dt); projected > maxLoadedSize {
			return nil, &TooLargeError{SizeBytes: projected, MaxBytes: maxLoadedSize}
		}
	}

	rng := rand.New(rand.NewSource(int64(seed)))

	inputs := make([][][]float64, len(shapes.InputLens))
	for p, vecLen := range shapes.InputLens {
		count := uint64(0)
		if p < len(sampleCounts) {
			count = sampleCounts[p]
		}
		samples := make([][]float64, count)
		for s := range samples {
			vec := make([]float64, vecLen)
			for k := range vec {
				vec[k] = desc.Sample(rng, params, p)
			}
			samples[s] = vec
		}
		inputs[p] = samples
	}

	outputs, err := desc.Reference(params, inputs)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Inputs: inputs, Outputs: outputs}
	if maxLoadedSize > 0 {
		if actual := ds.SizeBytes(dt); actual > maxLoadedSize {
			return nil, &TooLargeError{SizeBytes: actual, MaxBytes: maxLoadedSize}
		}
	}
	return ds, nil
}

// projectedSizeBytes estimates a Dataset's footprint from shapes and
// sample counts without allocating it, so TooLargeError can fail before
// the generator does any work.
func projectedSizeBytes(shapes workload.Shapes, sampleCounts []uint64, dt bridge.DataType) int64 {
	width := elemSize(dt)
	var inputElems int64
	product := int64(1)
	for p, vecLen := range shapes.InputLens {
		count := int64(1)
		if p < len(sampleCounts) {
			count = int64(sampleCounts[p])
		}
		inputElems += count * int64(vecLen)
		product *= count
	}
	var outputElems int64
	for _, vecLen := range shapes.OutputLens {
		outputElems += product * int64(vecLen)
	}
	return (inputElems + outputElems) * width
}
