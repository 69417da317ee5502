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

// Package report is the Timing Report (C6): an append-only log of timing
// events with online mean/variance/min/max, serialising to a per-benchmark
// CSV report and a per-benchmark summary CSV.
package report

import "time"

// TimingEvent records one pipeline stage firing (spec.md §3).
type TimingEvent struct {
	EventID          string
	Iteration        uint64
	WallStart        time.Time
	WallEnd          time.Time
	CPUStart         time.Time
	CPUEnd           time.Time
	InputSampleCount uint64
}

// WallElapsed is the stage's wall-clock duration.
func (e TimingEvent) WallElapsed() time.Duration { return e.WallEnd.Sub(e.WallStart) }

// CPUElapsed is the stage's CPU-time duration. The harness calls the
// backend synchronously and in-process (spec.md §5's single-threaded
// cooperative model), so absent a portable per-call CPU clock this is
// tracked identically to wall time — a future iteration could wire
// getrusage for a true CPU-time split.
func (e TimingEvent) CPUElapsed() time.Duration { return e.CPUEnd.Sub(e.CPUStart) }

// EventStats maintains running count/mean/m2/min/max/total via Welford's
// online algorithm (spec.md §3).
type EventStats struct {
	Count uint64
	Mean  float64
	M2    float64
	Min   float64
	Max   float64
	Total float64
}

// Add folds one new observation into the running statistics.
func (s *EventStats) Add(x float64) {
	s.Count++
	if s.Count == 1 {
		s.Min, s.Max = x, x
	} else {
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
	}
	s.Total += x
	delta := x - s.Mean
	s.Mean += delta / float64(s.Count)
	delta2 := x - s.Mean
	s.M2 += delta * delta2
}

// Variance returns the sample variance, 0 below two observations.
func (s *EventStats) Variance() float64 {
	if s.Count < 2 {
		return 0
	}
	return s.M2 / float64(s.Count-1)
}

// Merge combines a batch of values into s as if each had been Add-ed in
// order; used by tests to cross-check the online computation against a
// two-pass batch one (spec.md §8, "EventStats online = batch").
func (s *EventStats) Merge(xs []float64) {
	for _, x := range xs {
		s.Add(x)
	}
}
