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

package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

var summaryColumns = []string{
	"event_id", "count", "total", "mean", "variance", "min", "max",
	"ratio_num", "ratio_den", "si_prefix",
	"cpu_total", "cpu_mean", "cpu_variance", "cpu_min", "cpu_max",
}

// WriteSummaryCSV serialises the Summary CSV format spec.md §6 fixes: the
// same header block as the Report CSV, then one row per event_id with
// count/total/mean/variance/min/max, the SI rescaling ratio chosen to
// place the wall-clock mean in [1,1000), and the matching CPU-time stats.
func (r *Report) WriteSummaryCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"#header", r.Header}); err != nil {
		return err
	}
	if err := cw.Write(summaryColumns); err != nil {
		return err
	}
	for _, id := range r.EventIDs() {
		wall := r.WallStats(id)
		cpu := r.CPUStats(id)
		prefix, ratio := chooseSIPrefix(wall.Mean)
		row := []string{
			id,
			strconv.FormatUint(wall.Count, 10),
			formatFloat(wall.Total),
			formatFloat(wall.Mean),
			formatFloat(wall.Variance()),
			formatFloat(wall.Min),
			formatFloat(wall.Max),
			strconv.FormatUint(ratio.Num, 10),
			strconv.FormatUint(ratio.Den, 10),
			prefix,
			formatFloat(cpu.Total),
			formatFloat(cpu.Mean),
			formatFloat(cpu.Variance()),
			formatFloat(cpu.Min),
			formatFloat(cpu.Max),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
