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

// Package workload is the Workload Catalogue (C4): a registry mapping a
// backend-declared workload id to the record of closures that know that
// workload's operand shapes, parameter schema, default sample sizes,
// sampling distribution and reference computation.
package workload

import (
	"fmt"
	"math/rand"

	"github.com/hebench/frontend-sub001/internal/bridge"
)

// ID identifies one registered workload. Values are this repository's own
// assignment (spec.md §4.4 names workloads but does not fix numeric ids).
// The Engine resolves a backend descriptor's WorkloadID against these
// constants with Lookup; Match is the separate lookup by Name.
type ID uint32

const (
	ElementwiseAdd ID = iota + 1
	ElementwiseMul
	DotProduct
	MatrixMultiply
	LogisticRegression
	LogisticRegressionPolyD3
	LogisticRegressionPolyD5
	LogisticRegressionPolyD7
	SimpleSetIntersection
	Generic
)

// ParamSpec describes one entry in a workload's parameter schema: a named,
// tagged value with an optional constraint (e.g. "must be > 0").
type ParamSpec struct {
	Name       string
	Tag        bridge.ParamTag
	Constraint func(bridge.WorkloadParam) error
}

// Shapes gives, for a resolved set of workload parameters, the element
// count of every input operation parameter and every output component.
type Shapes struct {
	InputLens  []int
	OutputLens []int
}

// Descriptor is everything the catalogue knows about one workload: its
// parameter schema, default sample sizes, shape function, sampling
// distribution and reference computer. All per-sample math runs in
// float64 (DESIGN.md: templated numeric helpers collapse to a single
// float64 path internally; the runner casts to/from the backend's native
// DataType only at the encode/decode boundary).
type Descriptor struct {
	ID     ID
	Name   string
	Params []ParamSpec

	// DefaultSampleSizes is used when neither the config nor the backend
	// descriptor supplies a non-zero sample count for a parameter.
	DefaultSampleSizes []uint64

	// Shapes resolves per-parameter and per-output-component vector
	// lengths from a concrete parameter set.
	Shapes func(params []bridge.WorkloadParam) (Shapes, error)

	// Sample draws one input scalar for operation parameter p using rng,
	// honouring the workload's declared distribution.
	Sample func(rng *rand.Rand, params []bridge.WorkloadParam, p int) float64

	// Reference computes ground-truth outputs from sampled inputs.
	// inputs[p][s] is the s-th sample vector for parameter p.
	Reference func(params []bridge.WorkloadParam, inputs [][][]float64) ([][][]float64, error)

	// FixedSampleCounts pins some operation parameters to a sample count
	// of 1 regardless of config/backend/default resolution (intersection
	// and logistic regression pin scalar-ish parameters, per spec.md §4.4).
	FixedSampleCounts map[int]uint64
}

// catalogue is the process-wide registry, populated by init() in each
// per-workload file in this package.
var catalogue = map[ID]*Descriptor{}

func register(d *Descriptor) {
	if _, exists := catalogue[d.ID]; exists {
		panic(fmt.Sprintf("workload: duplicate registration for id %d", d.ID))
	}
	catalogue[d.ID] = d
}

// ErrNoMatchingWorkload is returned by Match when no registered workload's
// name matches the requested one.
type ErrNoMatchingWorkload struct {
	Name string
}

func (e *ErrNoMatchingWorkload) Error() string {
	return fmt.Sprintf("workload: no registered workload matches backend name %q", e.Name)
}

// Match looks up a workload by its catalogue name (case-sensitive,
// per the names in spec.md §4.4's table).
func Match(name string) (*Descriptor, error) {
	for _, d := range catalogue {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, &ErrNoMatchingWorkload{Name: name}
}

// Lookup returns the registered descriptor for id, if any.
func Lookup(id ID) (*Descriptor, bool) {
	d, ok := catalogue[id]
	return d, ok
}

// ValidateParams checks params against d's schema: every required name
// present with the declared tag, and every constraint satisfied.
func (d *Descriptor) ValidateParams(params []bridge.WorkloadParam) error {
	for _, spec := range d.Params {
		p, ok := bridge.FindParam(params, spec.Name)
		if !ok {
			return fmt.Errorf("workload %s: missing required parameter %q", d.Name, spec.Name)
		}
		if p.Tag != spec.Tag {
			return fmt.Errorf("workload %s: parameter %q has tag %s, want %s", d.Name, spec.Name, p.Tag, spec.Tag)
		}
		if spec.Constraint != nil {
			if err := spec.Constraint(p); err != nil {
				return fmt.Errorf("workload %s: parameter %q: %w", d.Name, spec.Name, err)
			}
		}
	}
	return nil
}

// ResolveSampleCounts implements spec.md §4.4's sample-size resolution: for
// each operation parameter p, effective count = config override if
// present and non-zero, else the backend descriptor's declared count if
// non-zero, else the workload default, else the harness fallback of 5 —
// unless FixedSampleCounts pins p outright.
func (d *Descriptor) ResolveSampleCounts(configOverride, backendDeclared []uint64) []uint64 {
	n := len(d.DefaultSampleSizes)
	out := make([]uint64, n)
	for p := 0; p < n; p++ {
		if fixed, ok := d.FixedSampleCounts[p]; ok {
			out[p] = fixed
			continue
		}
		if p < len(configOverride) && configOverride[p] != 0 {
			out[p] = configOverride[p]
			continue
		}
		if p < len(backendDeclared) && backendDeclared[p] != 0 {
			out[p] = backendDeclared[p]
			continue
		}
		if d.DefaultSampleSizes[p] != 0 {
			out[p] = d.DefaultSampleSizes[p]
			continue
		}
		out[p] = 5
	}
	return out
}

func positive(p bridge.WorkloadParam) error {
	v, ok := p.AsI64()
	if !ok || v <= 0 {
		return fmt.Errorf("must be a positive integer")
	}
	return nil
}
