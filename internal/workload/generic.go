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

package workload

import (
	"fmt"
	"math/rand"

	"github.com/hebench/frontend-sub001/internal/bridge"
)

// Generic covers user-defined workloads whose reference output is
// supplied by the loaded dataset itself (spec.md §4.4: "reference supplied
// via dataset"), not computed here. n_in/n_out count the operation
// parameters/output components; length gives the common per-parameter
// vector length. Generic benchmarks are only meaningful with a CSV
// dataset (internal/dataset); the generation path below exists so
// --dump_config and descriptor validation work without one, and always
// yields zero-filled references.
func genericDims(params []bridge.WorkloadParam) (nIn, nOut, length int, err error) {
	ni, ok := bridge.FindParam(params, "n_in")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"n_in\"")
	}
	no, ok := bridge.FindParam(params, "n_out")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"n_out\"")
	}
	l, ok := bridge.FindParam(params, "length")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"length\"")
	}
	nii, _ := ni.AsI64()
	noi, _ := no.AsI64()
	li, _ := l.AsI64()
	return int(nii), int(noi), int(li), nil
}

func init() {
	register(&Descriptor{
		ID:   Generic,
		Name: "Generic",
		Params: []ParamSpec{
			{Name: "n_in", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "n_out", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "length", Tag: bridge.ParamTagInt64, Constraint: positive},
		},
		DefaultSampleSizes: []uint64{5},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			nIn, nOut, length, err := genericDims(params)
			if err != nil {
				return Shapes{}, err
			}
			in := make([]int, nIn)
			out := make([]int, nOut)
			for i := range in {
				in[i] = length
			}
			for i := range out {
				out[i] = length
			}
			return Shapes{InputLens: in, OutputLens: out}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 { return uniformSample(rng) },
		Reference: func(params []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			_, nOut, length, err := genericDims(params)
			if err != nil {
				return nil, err
			}
			sampleCount := 1
			if len(inputs) > 0 {
				sampleCount = len(inputs[0])
			}
			out := make([][][]float64, nOut)
			for c := range out {
				out[c] = make([][]float64, sampleCount)
				for s := range out[c] {
					out[c][s] = make([]float64, length)
				}
			}
			return out, nil
		},
	})
}
