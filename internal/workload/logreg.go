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
	"math"
	"math/rand"

	"github.com/hebench/frontend-sub001/internal/bridge"
)

// sigmoidKind selects between the exact sigmoid and its odd Taylor
// truncations, per spec.md §4.4.
type sigmoidKind int

const (
	sigmoidExact sigmoidKind = iota
	sigmoidPolyD3
	sigmoidPolyD5
	sigmoidPolyD7
)

// sigmoid evaluates σ(x) = 1/(1+e^-x), or its odd-degree Taylor truncation
// around 0 when kind requests one.
func sigmoid(x float64, kind sigmoidKind) float64 {
	if kind == sigmoidExact {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	// Odd Taylor series of sigmoid(x) - 0.5 around 0: x/4 - x^3/48 + x^5/480 - 17x^7/80640 + ...
	result := 0.5 + x/4
	x3 := x * x * x
	result -= x3 / 48
	if kind == sigmoidPolyD3 {
		return result
	}
	x5 := x3 * x * x
	result += x5 / 480
	if kind == sigmoidPolyD5 {
		return result
	}
	x7 := x5 * x * x
	result -= 17 * x7 / 80640
	return result
}

func logregLen(params []bridge.WorkloadParam) (int, error) {
	n, ok := bridge.FindParam(params, "n")
	if !ok {
		return 0, fmt.Errorf("missing parameter \"n\"")
	}
	v, _ := n.AsI64()
	return int(v), nil
}

func registerLogisticRegression(id ID, name string, kind sigmoidKind) {
	register(&Descriptor{
		ID:                 id,
		Name:               name,
		Params:             []ParamSpec{{Name: "n", Tag: bridge.ParamTagInt64, Constraint: positive}},
		DefaultSampleSizes: []uint64{5, 1, 5},
		// parameter 1 is the bias b: a single scalar shared across the
		// whole offline batch, so its sample count is pinned to 1.
		FixedSampleCounts: map[int]uint64{1: 1},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			n, err := logregLen(params)
			if err != nil {
				return Shapes{}, err
			}
			return Shapes{InputLens: []int{n, 1, n}, OutputLens: []int{1}}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 {
			return rng.NormFloat64()*normalSigma + normalMean
		},
		Reference: func(_ []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			w, b, x := inputs[0], inputs[1], inputs[2]
			out := make([][]float64, len(w)*len(b)*len(x))
			idx := 0
			for _, sw := range w {
				for _, sb := range b {
					for _, sx := range x {
						var dot float64
						for k := range sw {
							dot += sw[k] * sx[k]
						}
						out[idx] = []float64{sigmoid(dot+sb[0], kind)}
						idx++
					}
				}
			}
			return [][][]float64{out}, nil
		},
	})
}

func init() {
	registerLogisticRegression(LogisticRegression, "LogisticRegression", sigmoidExact)
	registerLogisticRegression(LogisticRegressionPolyD3, "LogisticRegression_PolyD3", sigmoidPolyD3)
	registerLogisticRegression(LogisticRegressionPolyD5, "LogisticRegression_PolyD5", sigmoidPolyD5)
	registerLogisticRegression(LogisticRegressionPolyD7, "LogisticRegression_PolyD7", sigmoidPolyD7)
}
