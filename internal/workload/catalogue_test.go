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
	"math/rand"
	"testing"

	"github.com/hebench/frontend-sub001/internal/bridge"
)

func TestMatchKnownWorkloads(t *testing.T) {
	names := []string{
		"ElementwiseAdd", "ElementwiseMul", "DotProduct", "MatrixMultiply",
		"LogisticRegression", "LogisticRegression_PolyD3", "LogisticRegression_PolyD5",
		"LogisticRegression_PolyD7", "SimpleSetIntersection", "Generic",
	}
	for _, name := range names {
		if _, err := Match(name); err != nil {
			t.Errorf("Match(%q) error: %v", name, err)
		}
	}
}

func TestMatchUnknownWorkload(t *testing.T) {
	if _, err := Match("NotAWorkload"); err == nil {
		t.Fatal("Match(unknown) error = nil, want error")
	}
}

func TestElementwiseAddReference(t *testing.T) {
	d, err := Match("ElementwiseAdd")
	if err != nil {
		t.Fatal(err)
	}
	params := []bridge.WorkloadParam{bridge.NewInt64Param("n", 4)}
	if err := d.ValidateParams(params); err != nil {
		t.Fatalf("ValidateParams: %v", err)
	}
	inputs := [][][]float64{
		{{1, 2, 3, 4}},
		{{10, 20, 30, 40}},
	}
	outputs, err := d.Reference(params, inputs)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{11, 22, 33, 44}
	got := outputs[0][0]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("outputs[0][0][%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDotProductResolveSampleCounts(t *testing.T) {
	d, _ := Match("DotProduct")
	counts := d.ResolveSampleCounts([]uint64{0, 3}, []uint64{7, 0})
	if counts[0] != 7 {
		t.Errorf("counts[0] = %d, want 7 (backend-declared fallback)", counts[0])
	}
	if counts[1] != 3 {
		t.Errorf("counts[1] = %d, want 3 (config override)", counts[1])
	}
}

func TestLogisticRegressionFixesBiasSampleCount(t *testing.T) {
	d, _ := Match("LogisticRegression")
	counts := d.ResolveSampleCounts(nil, nil)
	if counts[1] != 1 {
		t.Errorf("bias sample count = %d, want 1 (fixed)", counts[1])
	}
}

func TestSimpleSetIntersectionReference(t *testing.T) {
	d, _ := Match("SimpleSetIntersection")
	params := []bridge.WorkloadParam{
		bridge.NewInt64Param("size_x", 3),
		bridge.NewInt64Param("size_y", 3),
		bridge.NewInt64Param("k", 1),
	}
	inputs := [][][]float64{
		{{1, 2, 3}},
		{{2, 3, 4}},
	}
	outputs, err := d.Reference(params, inputs)
	if err != nil {
		t.Fatal(err)
	}
	got := outputs[0][0]
	found := map[float64]bool{}
	for _, v := range got {
		if v != 0 {
			found[v] = true
		}
	}
	if !found[2] || !found[3] {
		t.Errorf("intersection = %v, want to contain 2 and 3", got)
	}
}

func TestMatMulShapes(t *testing.T) {
	d, _ := Match("MatrixMultiply")
	params := []bridge.WorkloadParam{
		bridge.NewInt64Param("rows_a", 4),
		bridge.NewInt64Param("cols_a", 3),
		bridge.NewInt64Param("cols_b", 2),
	}
	shapes, err := d.Shapes(params)
	if err != nil {
		t.Fatal(err)
	}
	if shapes.InputLens[0] != 12 || shapes.InputLens[1] != 6 || shapes.OutputLens[0] != 8 {
		t.Errorf("shapes = %+v, want InputLens=[12,6] OutputLens=[8]", shapes)
	}
}

func TestSampleDeterministic(t *testing.T) {
	d, _ := Match("ElementwiseAdd")
	rng1 := rand.New(rand.NewSource(7))
	rng2 := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		a := d.Sample(rng1, nil, 0)
		b := d.Sample(rng2, nil, 0)
		if a != b {
			t.Fatalf("same-seed Sample() diverged at iteration %d: %v != %v", i, a, b)
		}
	}
}
