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

// itemRange bounds the integer-valued items sampled for set intersection,
// kept small enough that X and Y actually overlap some of the time.
const itemRange = 16

func intersectionDims(params []bridge.WorkloadParam) (sizeX, sizeY, k int, err error) {
	x, ok := bridge.FindParam(params, "size_x")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"size_x\"")
	}
	y, ok := bridge.FindParam(params, "size_y")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"size_y\"")
	}
	kk, ok := bridge.FindParam(params, "k")
	if !ok {
		return 0, 0, 0, fmt.Errorf("missing parameter \"k\"")
	}
	xi, _ := x.AsI64()
	yi, _ := y.AsI64()
	ki, _ := kk.AsI64()
	return int(xi), int(yi), int(ki), nil
}

func init() {
	register(&Descriptor{
		ID:   SimpleSetIntersection,
		Name: "SimpleSetIntersection",
		Params: []ParamSpec{
			{Name: "size_x", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "size_y", Tag: bridge.ParamTagInt64, Constraint: positive},
			{Name: "k", Tag: bridge.ParamTagInt64, Constraint: positive},
		},
		DefaultSampleSizes: []uint64{1, 1},
		// Each operation parameter is the whole set in a single sample;
		// the set's cardinality is sized by size_x/size_y, not by an
		// offline batch dimension.
		FixedSampleCounts: map[int]uint64{0: 1, 1: 1},
		Shapes: func(params []bridge.WorkloadParam) (Shapes, error) {
			sizeX, sizeY, k, err := intersectionDims(params)
			if err != nil {
				return Shapes{}, err
			}
			outLen := sizeX
			if sizeY < outLen {
				outLen = sizeY
			}
			return Shapes{InputLens: []int{sizeX * k, sizeY * k}, OutputLens: []int{outLen * k}}, nil
		},
		Sample: func(rng *rand.Rand, _ []bridge.WorkloadParam, _ int) float64 {
			return math.Round(rng.Float64() * itemRange)
		},
		Reference: func(params []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error) {
			_, _, k, err := intersectionDims(params)
			if err != nil {
				return nil, err
			}
			setX, setY := inputs[0], inputs[1]
			out := make([][]float64, len(setX)*len(setY))
			idx := 0
			for _, x := range setX {
				for _, y := range setY {
					out[idx] = intersectItems(x, y, k)
					idx++
				}
			}
			return [][][]float64{out}, nil
		},
	})
}

// intersectItems returns the item-equal multiset intersection of the two
// flattened item lists (each item is a k-element tuple), padded with
// zeros to min(len(x), len(y))/k items.
func intersectItems(x, y []float64, k int) []float64 {
	outLen := len(x)
	if len(y) < outLen {
		outLen = len(y)
	}
	out := make([]float64, outLen)

	used := make([]bool, len(y)/k)
	pos := 0
	for i := 0; i+k <= len(x) && pos+k <= len(out); i += k {
		item := x[i : i+k]
		for j := 0; j+k <= len(y); j += k {
			yi := j / k
			if used[yi] {
				continue
			}
			if sameItem(item, y[j:j+k]) {
				used[yi] = true
				copy(out[pos:pos+k], item)
				pos += k
				break
			}
		}
	}
	return out
}

func sameItem(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
