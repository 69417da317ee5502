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

import "fmt"

// ParamTag identifies which scalar kind a WorkloadParam carries.
type ParamTag uint32

const (
	ParamTagInt64 ParamTag = iota
	ParamTagUInt64
	ParamTagFloat64
)

func (t ParamTag) String() string {
	switch t {
	case ParamTagInt64:
		return "int64"
	case ParamTagUInt64:
		return "uint64"
	case ParamTagFloat64:
		return "float64"
	default:
		return fmt.Sprintf("ParamTag(%d)", uint32(t))
	}
}

// WorkloadParam is a named, tagged value supplied per-run to configure a
// workload (vector length n, matrix rows/cols, polynomial degree, ...).
type WorkloadParam struct {
	Name string
	Tag  ParamTag

	i64 int64
	u64 uint64
	f64 float64
}

// NewInt64Param builds a WorkloadParam carrying a signed integer.
func NewInt64Param(name string, v int64) WorkloadParam {
	return WorkloadParam{Name: name, Tag: ParamTagInt64, i64: v}
}

// NewUInt64Param builds a WorkloadParam carrying an unsigned integer.
func NewUInt64Param(name string, v uint64) WorkloadParam {
	return WorkloadParam{Name: name, Tag: ParamTagUInt64, u64: v}
}

// NewFloat64Param builds a WorkloadParam carrying a float.
func NewFloat64Param(name string, v float64) WorkloadParam {
	return WorkloadParam{Name: name, Tag: ParamTagFloat64, f64: v}
}

func (p WorkloadParam) String() string {
	switch p.Tag {
	case ParamTagInt64:
		return fmt.Sprintf("%s=%d", p.Name, p.i64)
	case ParamTagUInt64:
		return fmt.Sprintf("%s=%d", p.Name, p.u64)
	case ParamTagFloat64:
		return fmt.Sprintf("%s=%g", p.Name, p.f64)
	default:
		return fmt.Sprintf("%s=?", p.Name)
	}
}

// AsI64 returns the value as int64, accepting any of the three tags
// (uint64/float64 are truncated/converted).
func (p WorkloadParam) AsI64() (int64, bool) {
	switch p.Tag {
	case ParamTagInt64:
		return p.i64, true
	case ParamTagUInt64:
		return int64(p.u64), true
	case ParamTagFloat64:
		return int64(p.f64), true
	default:
		return 0, false
	}
}

// AsU64 returns the value as uint64 if this is a ParamTagUInt64 (or a
// non-negative ParamTagInt64).
func (p WorkloadParam) AsU64() (uint64, bool) {
	switch p.Tag {
	case ParamTagUInt64:
		return p.u64, true
	case ParamTagInt64:
		if p.i64 < 0 {
			return 0, false
		}
		return uint64(p.i64), true
	default:
		return 0, false
	}
}

// AsF64 returns the value if this is a ParamTagFloat64.
func (p WorkloadParam) AsF64() (float64, bool) {
	if p.Tag != ParamTagFloat64 {
		return 0, false
	}
	return p.f64, true
}

// FindParam returns the first param named name, if any.
func FindParam(params []WorkloadParam, name string) (WorkloadParam, bool) {
	for _, p := range params {
		if p.Name == name {
			return p, true
		}
	}
	return WorkloadParam{}, false
}
