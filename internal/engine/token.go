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

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// DescriptionToken is what Engine.Describe hands back: everything the
// Runner needs to materialise and run one benchmark, already matched
// against the Workload Catalogue.
type DescriptionToken struct {
	Index            int
	DescriptorHandle bridge.Handle
	Descriptor       bridge.BenchmarkDescriptor
	Workload         *workload.Descriptor
	Params           []bridge.WorkloadParam
	SampleCounts     []uint64 // only meaningful for Category == Offline
	Header           string
	PathFragment     string
}

var pathUnsafe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizePathFragment(s string) string {
	return strings.Trim(pathUnsafe.ReplaceAllString(s, "-"), "-")
}

// buildHeader renders the human-readable header reproduced atop both the
// Report CSV (spec.md §6) and the console overview table
// (SPEC_FULL.md §11).
func buildHeader(index int, d bridge.BenchmarkDescriptor, wl *workload.Descriptor, schemeName, securityName, extra string) string {
	var mask strings.Builder
	for i := 63; i >= 0; i-- {
		if d.CipherMaskSet(i) {
			mask.WriteByte('1')
		} else {
			mask.WriteByte('0')
		}
	}
	header := fmt.Sprintf("%s | %s | %s | mask=%s | %s/%s",
		wl.Name, d.Category, d.DataType, mask.String(), schemeName, securityName)
	if extra != "" {
		header += " | " + extra
	}
	return header
}
