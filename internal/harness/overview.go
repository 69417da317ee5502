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

package harness

import (
	"fmt"

	"github.com/hebench/frontend-sub001/internal/report"
)

// printOverview renders the final aggregate summary table (spec.md §4.8
// step 6): console-only, never through zap, matching SPEC_FULL.md §11's
// --run_overview rendering.
func printOverview(lines []summaryLine) {
	fmt.Printf("%-60s %-18s %12s %12s\n", "BENCHMARK", "STATUS", "WALL MEAN", "CPU MEAN")
	for _, l := range lines {
		fmt.Printf("%-60s %-18s %12s %12s\n", truncate(l.Header, 60), l.Status, l.WallMean, l.CPUMean)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// meanLabel renders an event's mean duration with the SI prefix that
// places it in [1,1000), e.g. "4.231ms".
func meanLabel(r *report.Report, wall bool) string {
	stats := r.WallStats("Operate")
	if !wall {
		stats = r.CPUStats("Operate")
	}
	if stats.Count == 0 {
		return "-"
	}
	prefix, ratio := report.SIPrefix(stats.Mean)
	return fmt.Sprintf("%.3f%ss", stats.Mean*ratio.Scale(), prefix)
}
