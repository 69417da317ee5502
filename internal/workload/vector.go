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

// uniformRange is the workload-declared sampling range for element-wise and
// dot-product workloads (spec.md §4.3: "uniform in a workload-declared
// range for add/mul/intersection").
const uniformRange = 100.0

func vectorLen(params []bridge.WorkloadParam) (int, error) {
	n, ok := bridge.FindParam(params, "n")
	if !ok {
		return 0, fmt.Errorf("missing parameter \"n\"")
	}
	v, _ := n.AsI64()
	return int(v), nil
}

func uniformSample(rng *rand.Rand) float64 {
	return rng.Float64()*2*uniformRange - uniformRange
}

func init() {
	register(&Descriptor{
		ID:                 ElementwiseAdd,
		Name:               "ElementwiseAdd",
		Params:             []ParamSpec{{Name: "n", Tag: bridge.ParamTagInt64, Constraint: positive}},
		DefaultSampleSizes: []uint64{5, 5},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			n, err := vectorLen(params)
			if err != nil {
				return Shapes{}, err
			}
			return Shapes{InputLens: []int{n, n}, OutputLens: []int{n}}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 { return uniformSample(rng) },
		Reference: func(_ []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			a, b := inputs[0], inputs[1]
			out := make([][]float64, len(a)*len(b))
			n := len(a[0])
			idx := 0
			for _, sa := range a {
				for _, sb := range b {
					sum := make([]float64, n)
					for k := 0; k < n; k++ {
						sum[k] = sa[k] + sb[k]
					}
					out[idx] = sum
					idx++
				}
			}
			return [][][]float64{out}, nil
		},
	})

	register(&Descriptor{
		ID:                 ElementwiseMul,
		Name:               "ElementwiseMul",
		Params:             []ParamSpec{{Name: "n", Tag: bridge.ParamTagInt64, Constraint: positive}},
		DefaultSampleSizes: []uint64{5, 5},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			n, err := vectorLen(params)
			if err != nil {
				return Shapes{}, err
			}
			return Shapes{InputLens: []int{n, n}, OutputLens: []int{n}}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 { return uniformSample(rng) },
		Reference: func(_ []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			a, b := inputs[0], inputs[1]
			out := make([][]float64, len(a)*len(b))
			n := len(a[0])
			idx := 0
			for _, sa := range a {
				for _, sb := range b {
					prod := make([]float64, n)
					for k := 0; k < n; k++ {
						prod[k] = sa[k] * sb[k]
					}
					out[idx] = prod
					idx++
				}
			}
			return [][][]float64{out}, nil
		},
	})

	register(&Descriptor{
		ID:                 DotProduct,
		Name:               "DotProduct",
		Params:             []ParamSpec{{Name: "n", Tag: bridge.ParamTagInt64, Constraint: positive}},
		DefaultSampleSizes: []uint64{5, 5},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			n, err := vectorLen(params)
			if err != nil {
				return Shapes{}, err
			}
			return Shapes{InputLens: []int{n, n}, OutputLens: []int{1}}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 { return uniformSample(rng) },
		Reference: func(_ []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			a, b := inputs[0], inputs[1]
			out := make([][]float64, len(a)*len(b))
			idx := 0
			for _, sa := range a {
				for _, sb := range b {
					var sum float64
					for k := range sa {
						sum += sa[k] * sb[k]
					}
					out[idx] = []float64{sum}
					idx++
				}
			}
			return [][][]float64{out}, nil
		},
	})
}
