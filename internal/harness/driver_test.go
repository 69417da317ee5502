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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/config"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// fakeBackend is a minimal in-memory bridge backend double driving the
// full Driver sequence (Engine, Runner, report writing) without ever
// dlopening a shared object. Its pipeline calls are identity passthroughs
// since every test here disables validation and only checks control flow
// and report output, not numeric correctness.
type fakeBackend struct {
	next             bridge.Handle
	descriptors      []bridge.BenchmarkDescriptor
	createCalls      int
	criticalOnCreate int // 1-based CreateBenchmark call number to fail with CriticalError; 0 disables
}

func newFakeBackend(n int) *fakeBackend {
	f := &fakeBackend{next: 2}
	for i := 0; i < n; i++ {
		f.descriptors = append(f.descriptors, bridge.BenchmarkDescriptor{
			WorkloadID: uint32(workload.ElementwiseAdd),
			DataType:   bridge.DataTypeFloat64,
			Category:   bridge.CategoryLatency,
			CategoryParam: bridge.CategoryParams{
				WarmupIterations: 0,
				MinTestTimeMs:    0,
			},
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
	idx := int(desc) - 2 // descriptor handles are allocated 2..n+1 after the engine handle (1)
	if idx < 0 || idx >= len(f.descriptors) {
		idx = 0
	}
	return f.descriptors[idx], []bridge.WorkloadParam{bridge.NewInt64Param("n", 4)}, bridge.Success
}
func (f *fakeBackend) CreateBenchmark(_, _ bridge.Handle, _ []bridge.WorkloadParam) (bridge.Handle, bridge.ErrorCode) {
	f.createCalls++
	if f.criticalOnCreate != 0 && f.createCalls == f.criticalOnCreate {
		return bridge.NullHandle, bridge.CriticalError
	}
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

func baseOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		BackendLibPath:   "unused-in-these-tests",
		EnableValidation: false,
		RunOverview:      false,
		RandomSeed:       1,
		ReportRootPath:   t.TempDir(),
	}
}

func TestRunCriticalErrorOnSecondBenchmarkAbortsRun(t *testing.T) {
	fake := newFakeBackend(2)
	fake.criticalOnCreate = 2
	proxy := bridge.NewProxyForTesting(fake, 1)

	opts := baseOptions(t)
	err := runWithProxy(zap.NewNop().Sugar(), proxy, opts)
	if err == nil {
		t.Fatal("runWithProxy() error = nil, want critical backend error")
	}
	var backendErr *bridge.Error
	if !errors.As(err, &backendErr) || !backendErr.Critical() {
		t.Fatalf("runWithProxy() error = %v, want a critical *bridge.Error", err)
	}

	entries, readErr := os.ReadDir(opts.ReportRootPath)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 1 {
		t.Errorf("report directory has %d entries, want 1 (only the first benchmark ran to completion)", len(entries))
	}
}

func TestRunWritesOneReportPerBenchmark(t *testing.T) {
	fake := newFakeBackend(2)
	proxy := bridge.NewProxyForTesting(fake, 1)

	opts := baseOptions(t)
	if err := runWithProxy(zap.NewNop().Sugar(), proxy, opts); err != nil {
		t.Fatalf("runWithProxy() error = %v", err)
	}

	entries, err := os.ReadDir(opts.ReportRootPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("report directory has %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		reportPath := filepath.Join(opts.ReportRootPath, e.Name(), "report.csv")
		if _, err := os.Stat(reportPath); err != nil {
			t.Errorf("missing report.csv under %s: %v", e.Name(), err)
		}
	}
}

func TestRunSinglePathReportFlattensLayout(t *testing.T) {
	fake := newFakeBackend(1)
	proxy := bridge.NewProxyForTesting(fake, 1)

	opts := baseOptions(t)
	opts.SinglePathReport = true
	if err := runWithProxy(zap.NewNop().Sugar(), proxy, opts); err != nil {
		t.Fatalf("runWithProxy() error = %v", err)
	}

	entries, err := os.ReadDir(opts.ReportRootPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].IsDir() {
		t.Fatalf("entries = %v, want exactly 1 flat file", entries)
	}
}

func TestDumpConfigWithNoBackendBenchmarksIsEmptyAndExitsZero(t *testing.T) {
	fake := newFakeBackend(0)
	proxy := bridge.NewProxyForTesting(fake, 1)

	opts := baseOptions(t)
	opts.DumpConfig = true
	opts.ConfigFile = filepath.Join(t.TempDir(), "config.yaml")

	if err := runWithProxy(zap.NewNop().Sugar(), proxy, opts); err != nil {
		t.Fatalf("runWithProxy() error = %v, want nil", err)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Benchmarks) != 0 {
		t.Errorf("Benchmarks = %d entries, want 0", len(cfg.Benchmarks))
	}
}
