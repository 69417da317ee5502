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

import "math"

// DefaultTolerance is the default validation percentage (spec.md §4.5).
const DefaultTolerance = 0.05

// AlmostEqual reports whether a and b agree to within pct, per
// common-lib/modules/general/include/hebench_math_utils.h: a == b always
// compares equal; same-signed non-equal operands use the relative test
// min(|a|,|b|) > max(|a|,|b|)*(1-pct); differently-signed operands (or
// either one zero) fall back to the absolute test |a-b| < pct, since the
// relative ratio is meaningless near a sign crossing.
func AlmostEqual(a, b, pct float64) bool {
	if a == b {
		return true
	}
	if pct <= 0 {
		return false
	}
	if a*b > 0 {
		absA, absB := math.Abs(a), math.Abs(b)
		thresh := 1.0 - pct
		if absA > absB {
			return absB > absA*thresh
		}
		return absA > absB*thresh
	}
	return math.Abs(a-b) < pct
}

// InvalidResult reports the first sample and element offset at which
// validation failed, per spec.md §4.5 and §7.
type InvalidResult struct {
	IndexTuple     []uint64
	FirstBadOffset int
}
