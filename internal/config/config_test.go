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

package config

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/engine"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// fakeBackend is a minimal in-memory bridge backend double exposing a
// configurable number of registered benchmarks, enough to drive
// engine.New and DefaultConfig without dlopening a shared object.
type fakeBackend struct {
	next        bridge.Handle
	descriptors []bridge.BenchmarkDescriptor
}

func newFakeBackend(n int) *fakeBackend {
	f := &fakeBackend{next: 1}
	for i := 0; i < n; i++ {
		f.descriptors = append(f.descriptors, bridge.BenchmarkDescriptor{
			WorkloadID: uint32(workload.ElementwiseAdd),
			DataType:   bridge.DataTypeInt64,
			Category:   bridge.CategoryLatency,
		})
	}
	return f
}

func (f *fakeBackend) alloc() bridge.Handle {
	h := f.next
	f.next++
	return h
}

func (f *fakeBackend) InitEngine() (bridge.Handle, bridge.ErrorCode) { return f.alloc(), bridge.Success }
func (f *fakeBackend) SubscribeBenchmarksCount(bridge.Handle) (uint64, bridge.ErrorCode) {
	return uint64(len(f.descriptors)), bridge.Success
}
func (f *fakeBackend) SubscribeBenchmarks(_ bridge.Handle, count uint64) ([]bridge.Handle, bridge.ErrorCode) {
	out := make([]bridge.Handle, count)
	for i := range out {
		out[i] = f.alloc()
	}
	return out, bridge.Success
}
func (f *fakeBackend) GetWorkloadParamsDetails(bridge.Handle, bridge.Handle) (uint64, uint64, bridge.ErrorCode) {
	return 0, 1, bridge.Success
}
func (f *fakeBackend) DescribeBenchmark(_, desc bridge.Handle, _, _ uint64) (bridge.BenchmarkDescriptor, []bridge.WorkloadParam, bridge.ErrorCode) {
	return f.descriptors[0], []bridge.WorkloadParam{bridge.NewInt64Param("n", 4)}, bridge.Success
}
func (f *fakeBackend) CreateBenchmark(_, _ bridge.Handle, _ []bridge.WorkloadParam) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) Encode(bridge.Handle, bridge.DataPackCollection) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) Decode(_, _ bridge.Handle, shape bridge.DataPackCollection) (bridge.DataPackCollection, bridge.ErrorCode) {
	return shape, bridge.Success
}
func (f *fakeBackend) Encrypt(bridge.Handle, bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) Decrypt(bridge.Handle, bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) Load(bridge.Handle, []bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) Store(_, _ bridge.Handle, count uint64) ([]bridge.Handle, bridge.ErrorCode) {
	out := make([]bridge.Handle, count)
	for i := range out {
		out[i] = f.alloc()
	}
	return out, bridge.Success
}
func (f *fakeBackend) Operate(bridge.Handle, bridge.Handle, []bridge.ParameterIndexer) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}
func (f *fakeBackend) DestroyHandle(bridge.Handle) bridge.ErrorCode { return bridge.Success }
func (f *fakeBackend) GetSchemeName(bridge.Handle, bridge.Scheme) string { return "CKKS" }
func (f *fakeBackend) GetSchemeSecurityName(bridge.Handle, bridge.Scheme, bridge.Security) string {
	return "128-bit"
}
func (f *fakeBackend) GetBenchmarkDescriptionEx(bridge.Handle, bridge.Handle, []bridge.WorkloadParam) string {
	return ""
}
func (f *fakeBackend) GetErrorDescription(bridge.ErrorCode) string  { return "failure" }
func (f *fakeBackend) GetLastErrorDescription(bridge.Handle) string { return "last failure" }

func newTestEngine(t *testing.T, n int) *engine.Engine {
	t.Helper()
	proxy := bridge.NewProxyForTesting(newFakeBackend(n), 1)
	e, err := engine.New(proxy, zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestLoadSaveRoundTrip(t *testing.T) {
	idx := 2
	n := int64(8)
	original := &RunConfig{
		RandomSeed:         42,
		DefaultMinTestTime: 1000,
		DefaultSampleSizes: []uint64{5, 5},
		Benchmarks: []BenchmarkEntry{
			{
				DescriptorIndex: &idx,
				Params:          []ParamValue{{Name: "n", Int64: &n}},
				SampleSizes:     []uint64{2, 3},
				ForceConfig:     true,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, original); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RandomSeed != original.RandomSeed {
		t.Errorf("RandomSeed = %d, want %d", loaded.RandomSeed, original.RandomSeed)
	}
	if len(loaded.Benchmarks) != 1 {
		t.Fatalf("Benchmarks = %d entries, want 1", len(loaded.Benchmarks))
	}
	got := loaded.Benchmarks[0]
	if got.DescriptorIndex == nil || *got.DescriptorIndex != idx {
		t.Errorf("DescriptorIndex = %v, want %d", got.DescriptorIndex, idx)
	}
	if !got.ForceConfig {
		t.Error("ForceConfig = false, want true")
	}
	if len(got.Params) != 1 || got.Params[0].Int64 == nil || *got.Params[0].Int64 != n {
		t.Errorf("Params = %+v, want one int64 param n=%d", got.Params, n)
	}
}

func TestRequestsResolvesDefaultsAndOverrides(t *testing.T) {
	idx := 0
	cfg := &RunConfig{
		RandomSeed:         7,
		DefaultMinTestTime: 500,
		DefaultSampleSizes: []uint64{4, 4},
		Benchmarks: []BenchmarkEntry{
			{DescriptorIndex: &idx}, // no per-entry sample sizes: inherits defaults
			{DescriptorIndex: &idx, SampleSizes: []uint64{9}},
		},
	}

	reqs, err := cfg.Requests()
	if err != nil {
		t.Fatal(err)
	}
	if len(reqs) != 2 {
		t.Fatalf("Requests() = %d, want 2", len(reqs))
	}
	if got := reqs[0].SampleCounts; len(got) != 2 || got[0] != 4 {
		t.Errorf("reqs[0].SampleCounts = %v, want default [4,4]", got)
	}
	if got := reqs[1].SampleCounts; len(got) != 1 || got[0] != 9 {
		t.Errorf("reqs[1].SampleCounts = %v, want override [9]", got)
	}
	for i, r := range reqs {
		if r.RandomSeed != cfg.RandomSeed {
			t.Errorf("reqs[%d].RandomSeed = %d, want %d", i, r.RandomSeed, cfg.RandomSeed)
		}
		if r.MinTestTimeMsOverride != cfg.DefaultMinTestTime {
			t.Errorf("reqs[%d].MinTestTimeMsOverride = %d, want %d", i, r.MinTestTimeMsOverride, cfg.DefaultMinTestTime)
		}
	}
}

func TestRequestsRejectsEntryWithNoIdentifier(t *testing.T) {
	cfg := &RunConfig{Benchmarks: []BenchmarkEntry{{}}}
	if _, err := cfg.Requests(); err == nil {
		t.Fatal("Requests() error = nil, want *ConfigError")
	}
}

func TestDefaultConfigWithNoBackendBenchmarksIsEmpty(t *testing.T) {
	e := newTestEngine(t, 0)
	cfg, err := DefaultConfig(e, 99)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Benchmarks) != 0 {
		t.Errorf("Benchmarks = %d entries, want 0", len(cfg.Benchmarks))
	}
	if cfg.Benchmarks == nil {
		t.Error("Benchmarks = nil, want non-nil empty slice so YAML marshals `[]`")
	}
}

func TestDefaultConfigOneEntryPerBackendBenchmark(t *testing.T) {
	e := newTestEngine(t, 3)
	cfg, err := DefaultConfig(e, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Benchmarks) != 3 {
		t.Fatalf("Benchmarks = %d entries, want 3", len(cfg.Benchmarks))
	}
	for i, entry := range cfg.Benchmarks {
		if entry.DescriptorIndex == nil || *entry.DescriptorIndex != i {
			t.Errorf("Benchmarks[%d].DescriptorIndex = %v, want %d", i, entry.DescriptorIndex, i)
		}
		if len(entry.Params) != 1 || entry.Params[0].Name != "n" {
			t.Errorf("Benchmarks[%d].Params = %+v, want default n param", i, entry.Params)
		}
	}
}
