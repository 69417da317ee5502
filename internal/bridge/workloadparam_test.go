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

package bridge

import "testing"

func TestWorkloadParamAccessors(t *testing.T) {
	testCases := []struct {
		name    string
		param   WorkloadParam
		wantI64 int64
		okI64   bool
		wantU64 uint64
		okU64   bool
		wantF64 float64
		okF64   bool
	}{
		{
			name:    "int64 positive",
			param:   NewInt64Param("n", 8),
			wantI64: 8, okI64: true,
			wantU64: 8, okU64: true,
		},
		{
			name:    "int64 negative",
			param:   NewInt64Param("n", -3),
			wantI64: -3, okI64: true,
			okU64: false,
		},
		{
			name:    "uint64",
			param:   NewUInt64Param("rows", 12),
			wantI64: 12, okI64: true,
			wantU64: 12, okU64: true,
		},
		{
			name:    "float64",
			param:   NewFloat64Param("sigma", 1.5),
			wantI64: 1, okI64: true,
			wantF64: 1.5, okF64: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			i64, ok := tc.param.AsI64()
			if ok != tc.okI64 || (ok && i64 != tc.wantI64) {
				t.Errorf("AsI64() = (%d, %v), want (%d, %v)", i64, ok, tc.wantI64, tc.okI64)
			}
			u64, ok := tc.param.AsU64()
			if ok != tc.okU64 || (ok && u64 != tc.wantU64) {
				t.Errorf("AsU64() = (%d, %v), want (%d, %v)", u64, ok, tc.wantU64, tc.okU64)
			}
			f64, ok := tc.param.AsF64()
			if ok != tc.okF64 || (ok && f64 != tc.wantF64) {
				t.Errorf("AsF64() = (%g, %v), want (%g, %v)", f64, ok, tc.wantF64, tc.okF64)
			}
		})
	}
}

func TestFindParam(t *testing.T) {
	params := []WorkloadParam{
		NewInt64Param("n", 4),
		NewUInt64Param("rows", 2),
	}

	if p, ok := FindParam(params, "rows"); !ok || p.Name != "rows" {
		t.Errorf("FindParam(rows) = (%v, %v), want found", p, ok)
	}
	if _, ok := FindParam(params, "missing"); ok {
		t.Errorf("FindParam(missing) found, want not found")
	}
}
