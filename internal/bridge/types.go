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

// Package bridge wraps the backend's C ABI ("the bridge") so the rest of
// the harness sees fallible Go operations instead of raw error codes and
// opaque handles.
package bridge

import "fmt"

// Handle is an opaque identifier the backend returns for engines, benchmark
// descriptors, benchmarks, and pipeline-stage data. The harness never
// dereferences a handle; it only stores it, passes it back, and destroys it.
type Handle uint64

// NullHandle is never returned by a successful backend call.
const NullHandle Handle = 0

// ErrorCode is the backend's raw return code. Zero is success.
type ErrorCode int64

// Success is the only non-error return code.
const Success ErrorCode = 0

// CriticalError is the one reserved code that aborts the whole harness run
// instead of just the current benchmark.
const CriticalError ErrorCode = -1

// DataType enumerates the native element types a workload operates over.
type DataType uint32

const (
	DataTypeInt32 DataType = iota
	DataTypeInt64
	DataTypeFloat32
	DataTypeFloat64
)

func (t DataType) String() string {
	switch t {
	case DataTypeInt32:
		return "int32"
	case DataTypeInt64:
		return "int64"
	case DataTypeFloat32:
		return "float32"
	case DataTypeFloat64:
		return "float64"
	default:
		return fmt.Sprintf("DataType(%d)", uint32(t))
	}
}

// Category is a benchmark's execution style.
type Category uint32

const (
	// CategoryLatency runs many repetitions of one operation.
	CategoryLatency Category = iota
	// CategoryOffline runs one pass over a full batch of input samples.
	CategoryOffline
)

func (c Category) String() string {
	switch c {
	case CategoryLatency:
		return "Latency"
	case CategoryOffline:
		return "Offline"
	default:
		return fmt.Sprintf("Category(%d)", uint32(c))
	}
}

// Scheme and Security are opaque backend-assigned identifiers; the harness
// only ever prints their backend-supplied names, never interprets them.
type Scheme uint32

type Security uint32

// CategoryParams carries the category-specific knobs from BenchmarkDescriptor.
type CategoryParams struct {
	// WarmupIterations and MinTestTimeMs apply when Category == CategoryLatency.
	WarmupIterations uint64
	MinTestTimeMs    uint64

	// SampleCounts holds the backend-declared per-operand sample count when
	// Category == CategoryOffline (data_count[p] in spec.md §4.4).
	SampleCounts []uint64
}

// BenchmarkDescriptor is the fixed record the backend declares identifying a
// registered benchmark. The tuple uniquely identifies the benchmark among
// those the owning engine registers.
type BenchmarkDescriptor struct {
	WorkloadID    uint32
	DataType      DataType
	Category      Category
	CategoryParam CategoryParams
	CipherMask    uint64
	Scheme        Scheme
	Security      Security
	Other         int64
}

// CipherMaskSet reports whether operation parameter i is supplied encrypted.
func (d BenchmarkDescriptor) CipherMaskSet(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return d.CipherMask&(uint64(1)<<uint(i)) != 0
}

// ParameterIndexer selects the sample sub-range of one operation parameter
// to feed to a single Operate call: ValueIndex is the first sample, BatchSize
// the count of samples starting there.
type ParameterIndexer struct {
	ValueIndex uint64
	BatchSize  uint64
}

// DataPack is one operation parameter's worth of sample buffers, laid out
// as native scalars of the benchmark's DataType.
type DataPack struct {
	ParamPosition uint64
	Buffers       [][]byte
}

// DataPackCollection groups the DataPacks passed to a single pipeline call.
type DataPackCollection struct {
	Packs []DataPack
}
