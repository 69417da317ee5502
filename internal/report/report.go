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

// aggregate holds the running wall and CPU statistics for one event_id.
type aggregate struct {
	Wall EventStats
	CPU  EventStats
}

// Report is the append-only per-benchmark timing log: one Header block
// (reproducing the workload's descriptive text) plus every TimingEvent
// fired during the run, plus a running EventStats per event_id.
type Report struct {
	Header string
	Events []TimingEvent

	aggs map[string]*aggregate
}

// New starts an empty Report carrying header atop both its CSV
// serialisations.
func New(header string) *Report {
	return &Report{Header: header, aggs: map[string]*aggregate{}}
}

// Record appends e and folds its wall/CPU elapsed time into that
// event_id's running statistics.
func (r *Report) Record(e TimingEvent) {
	r.Events = append(r.Events, e)
	agg, ok := r.aggs[e.EventID]
	if !ok {
		agg = &aggregate{}
		r.aggs[e.EventID] = agg
	}
	agg.Wall.Add(e.WallElapsed().Seconds())
	agg.CPU.Add(e.CPUElapsed().Seconds())
}

// EventIDs returns every event_id seen, in first-observed order.
func (r *Report) EventIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, e := range r.Events {
		if !seen[e.EventID] {
			seen[e.EventID] = true
			ids = append(ids, e.EventID)
		}
	}
	return ids
}

// WallStats returns a copy of the wall-clock EventStats for eventID.
func (r *Report) WallStats(eventID string) EventStats {
	if agg, ok := r.aggs[eventID]; ok {
		return agg.Wall
	}
	return EventStats{}
}

// CPUStats returns a copy of the CPU-time EventStats for eventID.
func (r *Report) CPUStats(eventID string) EventStats {
	if agg, ok := r.aggs[eventID]; ok {
		return agg.CPU
	}
	return EventStats{}
}
