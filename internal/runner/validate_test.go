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

package runner

import "testing"

func TestAlmostEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		pct  float64
		want bool
	}{
		{"exactly equal", 1.0, 1.0, 0.05, true},
		{"both zero", 0, 0, 0.05, true},
		{"near-zero absolute tolerance", 0, 0.001, 0.05, true},
		{"near-zero exceeds absolute tolerance", 0, 0.1, 0.05, false},
		{"opposite signs within absolute tolerance", -0.01, 0.01, 0.05, true},
		{"opposite signs exceeds absolute tolerance", -0.1, 0.1, 0.05, false},
		{"same sign within relative tolerance", 100.0, 99.0, 0.05, true},
		{"same sign exceeds relative tolerance", 100.0, 80.0, 0.05, false},
		{"same sign negative within relative tolerance", -100.0, -99.0, 0.05, true},
		{"zero tolerance only exact match", 1.0, 1.0000001, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlmostEqual(tt.a, tt.b, tt.pct); got != tt.want {
				t.Errorf("AlmostEqual(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.pct, got, tt.want)
			}
		})
	}
}
