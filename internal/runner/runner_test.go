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

import (
	"testing"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/engine"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// fakeBackend simulates just enough of the ElementwiseAdd workload to
// exercise the full Runner pipeline without a real backend: Encode stores a
// param's packed buffers, Encrypt/Decrypt are identity passthroughs onto a
// fresh handle, Load concatenates the per-param local handles into one
// combined collection, Operate adds the two input params element-wise over
// the sample sub-ranges the indexers select, and Decode/Store hand back
// whatever Operate computed.
type fakeBackend struct {
	next      bridge.Handle
	data      map[bridge.Handle]bridge.DataPackCollection
	destroyed []bridge.Handle
	dt        bridge.DataType
}

func newFakeBackend(dt bridge.DataType) *fakeBackend {
	return &fakeBackend{next: 1, data: map[bridge.Handle]bridge.DataPackCollection{}, dt: dt}
}

func (f *fakeBackend) alloc() bridge.Handle {
	h := f.next
	f.next++
	return h
}

func (f *fakeBackend) InitEngine() (bridge.Handle, bridge.ErrorCode) { return f.alloc(), bridge.Success }

func (f *fakeBackend) SubscribeBenchmarksCount(bridge.Handle) (uint64, bridge.ErrorCode) {
	return 1, bridge.Success
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

func (f *fakeBackend) CreateBenchmark(_, _ bridge.Handle, _ []bridge.WorkloadParam) (bridge.Handle, bridge.ErrorCode) {
	return f.alloc(), bridge.Success
}

func (f *fakeBackend) Encode(_ bridge.Handle, params bridge.DataPackCollection) (bridge.Handle, bridge.ErrorCode) {
	h := f.alloc()
	f.data[h] = params
	return h, bridge.Success
}

func (f *fakeBackend) Encrypt(_ bridge.Handle, plaintext bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	h := f.alloc()
	f.data[h] = f.data[plaintext]
	return h, bridge.Success
}

func (f *fakeBackend) Decrypt(_ bridge.Handle, ciphertext bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	h := f.alloc()
	f.data[h] = f.data[ciphertext]
	return h, bridge.Success
}

func (f *fakeBackend) Load(_ bridge.Handle, local []bridge.Handle) (bridge.Handle, bridge.ErrorCode) {
	combined := bridge.DataPackCollection{Packs: make([]bridge.DataPack, len(local))}
	for p, h := range local {
		combined.Packs[p] = f.data[h].Packs[0]
	}
	out := f.alloc()
	f.data[out] = combined
	return out, bridge.Success
}

func (f *fakeBackend) Store(_, remote bridge.Handle, count uint64) ([]bridge.Handle, bridge.ErrorCode) {
	out := make([]bridge.Handle, count)
	for i := range out {
		h := f.alloc()
		f.data[h] = f.data[remote]
		out[i] = h
	}
	return out, bridge.Success
}

func (f *fakeBackend) Operate(_, remote bridge.Handle, indexers []bridge.ParameterIndexer) (bridge.Handle, bridge.ErrorCode) {
	coll := f.data[remote]
	a := selectRange(coll.Packs[0].Buffers, indexers[0])
	b := selectRange(coll.Packs[1].Buffers, indexers[1])
	width := elemWidth(f.dt)
	outBuffers := make([][]byte, 0, len(a)*len(b))
	for _, bufA := range a {
		for _, bufB := range b {
			n := len(bufA) / width
			result := make([]byte, len(bufA))
			for k := 0; k < n; k++ {
				va := decodeScalar(bufA[k*width:(k+1)*width], f.dt)
				vb := decodeScalar(bufB[k*width:(k+1)*width], f.dt)
				copy(result[k*width:(k+1)*width], encodeScalar(va+vb, f.dt))
			}
			outBuffers = append(outBuffers, result)
		}
	}
	h := f.alloc()
	f.data[h] = bridge.DataPackCollection{Packs: []bridge.DataPack{{ParamPosition: 0, Buffers: outBuffers}}}
	return h, bridge.Success
}

func selectRange(buffers [][]byte, idx bridge.ParameterIndexer) [][]byte {
	return buffers[idx.ValueIndex : idx.ValueIndex+idx.BatchSize]
}

func (f *fakeBackend) Decode(_, plaintext bridge.Handle, _ bridge.DataPackCollection) (bridge.DataPackCollection, bridge.ErrorCode) {
	return f.data[plaintext], bridge.Success
}

func (f *fakeBackend) DestroyHandle(h bridge.Handle) bridge.ErrorCode {
	f.destroyed = append(f.destroyed, h)
	delete(f.data, h)
	return bridge.Success
}

func (f *fakeBackend) GetSchemeName(bridge.Handle, bridge.Scheme) string { return "CKKS" }
func (f *fakeBackend) GetSchemeSecurityName(bridge.Handle, bridge.Scheme, bridge.Security) string {
	return "128-bit"
}
func (f *fakeBackend) GetBenchmarkDescriptionEx(bridge.Handle, bridge.Handle, []bridge.WorkloadParam) string {
	return ""
}
func (f *fakeBackend) GetErrorDescription(bridge.ErrorCode) string  { return "failure" }
func (f *fakeBackend) GetLastErrorDescription(bridge.Handle) string { return "last failure" }

func newTestBenchmark(t *testing.T, category bridge.Category, cipherMask uint64) (*bridge.Proxy, *engine.Benchmark, *fakeBackend) {
	t.Helper()
	fake := newFakeBackend(bridge.DataTypeFloat64)
	proxy := bridge.NewProxyForTesting(fake, 1)

	desc := bridge.BenchmarkDescriptor{
		WorkloadID: uint32(workload.ElementwiseAdd),
		DataType:   bridge.DataTypeFloat64,
		Category:   category,
		CipherMask: cipherMask,
		CategoryParam: bridge.CategoryParams{
			WarmupIterations: 1,
			MinTestTimeMs:    0,
			SampleCounts:     []uint64{2, 2},
		},
	}
	wl, ok := workload.Lookup(workload.ElementwiseAdd)
	if !ok {
		t.Fatal("ElementwiseAdd not registered")
	}
	params := []bridge.WorkloadParam{bridge.NewInt64Param("n", 3)}
	token := engine.DescriptionToken{
		DescriptorHandle: 0,
		Descriptor:       desc,
		Workload:         wl,
		Params:           params,
		SampleCounts:     desc.CategoryParam.SampleCounts,
		Header:           "ElementwiseAdd test",
	}

	benchmarkHandle := bridge.Handle(1000)
	b := &engine.Benchmark{Token: token, Handle: benchmarkHandle}
	return proxy, b, fake
}

func TestRunLatencyProducesValidResultAndConservesHandles(t *testing.T) {
	proxy, b, fake := newTestBenchmark(t, bridge.CategoryLatency, 0)
	// A long minimum test time leaves MaxIterations as the only stop; with
	// MinTestTimeMs 0 runLatency would run exactly one timed iteration.
	b.Token.Descriptor.CategoryParam.MinTestTimeMs = 60000
	cfg := RunConfig{Seed: 42, EnableValidation: true, MaxIterations: 3, Logger: zap.NewNop().Sugar()}

	result, err := Run(proxy, b, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.InvalidSamples) != 0 {
		t.Errorf("InvalidSamples = %v, want none", result.InvalidSamples)
	}
	if result.State != StateValidated {
		t.Errorf("State = %v, want %v", result.State, StateValidated)
	}

	wall := result.Report.WallStats("Operate")
	if wall.Count != 3 {
		t.Errorf("Operate event count = %d, want 3 (MaxIterations)", wall.Count)
	}

	if len(fake.data) != 0 {
		t.Errorf("leaked %d handles after Run, want 0", len(fake.data))
	}
}

func TestRunLatencyWithEncryption(t *testing.T) {
	proxy, b, fake := newTestBenchmark(t, bridge.CategoryLatency, 0b11)
	cfg := RunConfig{Seed: 7, EnableValidation: true, MaxIterations: 1}

	result, err := Run(proxy, b, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.InvalidSamples) != 0 {
		t.Errorf("InvalidSamples = %v, want none", result.InvalidSamples)
	}
	if len(fake.data) != 0 {
		t.Errorf("leaked %d handles after Run, want 0", len(fake.data))
	}
}

func TestRunOfflineValidatesFullCartesianProduct(t *testing.T) {
	proxy, b, fake := newTestBenchmark(t, bridge.CategoryOffline, 0)
	cfg := RunConfig{Seed: 9, EnableValidation: true}

	result, err := Run(proxy, b, cfg)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(result.InvalidSamples) != 0 {
		t.Errorf("InvalidSamples = %v, want none", result.InvalidSamples)
	}
	wall := result.Report.WallStats("Operate")
	if wall.Count != 1 {
		t.Errorf("Operate event count = %d, want 1 (single Offline pass)", wall.Count)
	}
	if wall.Total == 0 {
		t.Error("Operate InputSampleCount/timing never recorded")
	}
	if len(fake.data) != 0 {
		t.Errorf("leaked %d handles after Run, want 0", len(fake.data))
	}
}
