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

import "math"

// siPrefix names one SI magnitude and the power of ten of seconds it
// scales, smallest first (spec.md §4.6: "p n µ m s k").
type siPrefix struct {
	Symbol string
	Exp    int
}

var siPrefixes = []siPrefix{
	{"p", -12},
	{"n", -9},
	{"µ", -6},
	{"m", -3},
	{"", 0},
	{"k", 3},
}

// TimeRatio expresses a rescaling of seconds as an exact integer ratio
// (value_in_unit = seconds * Num / Den), so downstream consumers can
// rescale without trusting a floating-point factor.
type TimeRatio struct {
	Num, Den uint64
}

func (t TimeRatio) Scale() float64 { return float64(t.Num) / float64(t.Den) }

// SIPrefix is chooseSIPrefix's exported form, used by the console overview
// table (SPEC_FULL.md §11) to render event means without duplicating the
// rescaling logic.
func SIPrefix(meanSeconds float64) (string, TimeRatio) {
	return chooseSIPrefix(meanSeconds)
}

// chooseSIPrefix picks the SI prefix that places meanSeconds in [1,1000)
// once rescaled, returning its symbol and the exact rescaling ratio.
func chooseSIPrefix(meanSeconds float64) (string, TimeRatio) {
	if meanSeconds <= 0 {
		return "", TimeRatio{Num: 1, Den: 1}
	}
	for _, p := range siPrefixes {
		ratio := ratioForExp(p.Exp)
		scaled := meanSeconds * ratio.Scale()
		if scaled >= 1 && scaled < 1000 {
			return p.Symbol, ratio
		}
	}
	// Outside the tabulated range (sub-picosecond or beyond kilo): fall
	// back to the nearest extreme rather than guessing a new prefix.
	if meanSeconds*ratioForExp(siPrefixes[0].Exp).Scale() < 1 {
		return siPrefixes[0].Symbol, ratioForExp(siPrefixes[0].Exp)
	}
	last := siPrefixes[len(siPrefixes)-1]
	return last.Symbol, ratioForExp(last.Exp)
}

func ratioForExp(exp int) TimeRatio {
	if exp >= 0 {
		return TimeRatio{Num: 1, Den: uint64(math.Pow10(exp))}
	}
	return TimeRatio{Num: uint64(math.Pow10(-exp)), Den: 1}
}
