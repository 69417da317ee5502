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

// normalMean and normalSigma are the workload-declared normal-distribution
// parameters for matmul/logreg sampling (spec.md §4.3).
const (
	normalMean  = 0.0
	normalSigma = 1.0
)

func matmulDims(params []bridge.WorkloadParam) (rowsA, colsA, colsB int, err error) {
	r, ok := bridge.FindParam(params, "rows_a")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"rows_a\"")
	}
	c, ok := bridge.FindParam(params, "cols_a")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"cols_a\"")
	}
	cb, ok := bridge.FindParam(params, "cols_b")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"cols_b\"")
	}
	ri, _ := r.AsI64()
	ci, _ := c.AsI64()
	cbi, _ := cb.AsI64()
	return int(ri), int(ci), int(cbi), nil
}

func init() {
	register(&Descriptor{
		ID:   MatrixMultiply,
		Name: "MatrixMultiply",
		Params: []ParamSpec{
			{Name: "rows_a", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "cols_a", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "cols_b", Tag: bridge.ParamTagInt64, Constraint: positive},
		},
		DefaultSampleSizes: []uint64{5, 5},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			rowsA, colsA, colsB, err := matmulDims(params)
			if err != nil {
				return Shapes{}, err
			}
			return Shapes{
				InputLens:  []int{rowsA * colsA, colsA * colsB},
				OutputLens: []int{rowsA * colsB},
			}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 {
			return rng.NormFloat64()*normalSigma + normalMean
		},
		Reference: func(params []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			rowsA, colsA, colsB, err := matmulDims(params)
			if err != nil {
				return nil, err
			}
			matA, matB := inputs[0], inputs[1]
			out := make([][]float64, len(matA)*len(matB))
			idx := 0
			for _, a := range matA {
				for _, b := range matB {
					c := make([]float64, rowsA*colsB)
					for i := 0; i < rowsA; i++ {
						for j := 0; j < colsB; j++ {
							var sum float64
							for k := 0; k < colsA; k++ {
								sum += a[i*colsA+k] * b[k*colsB+j]
							}
							c[i*colsB+j] = sum
						}
					}
					out[idx] = c
					idx++
				}
			}
			return [][][]float64{out}, nil
		},
	})
}
