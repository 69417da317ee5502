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

package engine

import "fmt"

// NoMatchingWorkloadError is returned by Describe when no registered
// workload in the catalogue matches the backend's declared workload id.
type NoMatchingWorkloadError struct {
	Index      int
	WorkloadID uint32
}

func (e *NoMatchingWorkloadError) Error() string {
	return fmt.Sprintf("no catalogue workload matches backend descriptor %d (workload id %d)", e.Index, e.WorkloadID)
}

// BenchmarkAlreadyLiveError is returned by Create when a previously issued
// Benchmark has not yet been destroyed. Spec.md §7 treats this as a
// programmer error: correct Driver/Runner usage never triggers it, so
// seeing this error indicates a bug in the caller, not in the backend.
type BenchmarkAlreadyLiveError struct{}

func (e *BenchmarkAlreadyLiveError) Error() string {
	return "engine: a benchmark is already live; destroy it before creating another"
}
