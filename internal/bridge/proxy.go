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

// Proxy is the checked front door to a loaded backend: every method either
// succeeds or returns a *Error carrying the backend's own code and error
// text. Callers never see a raw ErrorCode.
type Proxy struct {
	raw    rawCalls
	engine Handle
}

// Load opens the backend shared library at path and initializes its
// engine. The returned Proxy owns the library and must be closed with
// Close once every handle it issued has been destroyed.
func Load(path string) (*Proxy, error) {
	lib, err := OpenLibrary(path)
	if err != nil {
		return nil, err
	}
	p := &Proxy{raw: lib}
	engine, code := lib.InitEngine()
	if code != Success {
		_ = lib.Close()
		return nil, p.wrap("initEngine", code)
	}
	p.engine = engine
	return p, nil
}

// newTestProxy builds a Proxy around a fake rawCalls, for tests that must
// not dlopen a real shared object.
func newTestProxy(raw rawCalls, engine Handle) *Proxy {
	return &Proxy{raw: raw, engine: engine}
}

// wrap turns a non-success ErrorCode into a *Error, enriching it with the
// backend's own textual descriptions when available.
func (p *Proxy) wrap(call string, code ErrorCode) error {
	if code == Success {
		return nil
	}
	e := &Error{Call: call, Code: code}
	e.CodeText = p.raw.GetErrorDescription(code)
	if p.engine != NullHandle {
		e.LastText = p.raw.GetLastErrorDescription(p.engine)
	}
	return e
}

// Close releases the backend library. It must only be called after every
// handle this Proxy issued (including the engine) has been destroyed.
func (p *Proxy) Close() error {
	if closer, ok := p.raw.(libraryCloser); ok {
		return closer.Close()
	}
	return nil
}

// Engine returns the live engine handle this Proxy was initialized with.
func (p *Proxy) Engine() Handle { return p.engine }

// BenchmarkCount reports how many benchmarks the engine registers.
func (p *Proxy) BenchmarkCount() (uint64, error) {
	n, code := p.raw.SubscribeBenchmarksCount(p.engine)
	if code != Success {
		return 0, p.wrap("subscribeBenchmarksCount", code)
	}
	return n, nil
}

// Benchmarks returns the handle for every registered benchmark descriptor.
func (p *Proxy) Benchmarks(count uint64) ([]Handle, error) {
	handles, code := p.raw.SubscribeBenchmarks(p.engine, count)
	if code != Success {
		return nil, p.wrap("subscribeBenchmarks", code)
	}
	return handles, nil
}

// Describe reads back the full descriptor and default workload params for
// one registered benchmark.
func (p *Proxy) Describe(desc Handle) (BenchmarkDescriptor, []WorkloadParam, error) {
	paramCount, defaultCount, code := p.raw.GetWorkloadParamsDetails(p.engine, desc)
	if code != Success {
		return BenchmarkDescriptor{}, nil, p.wrap("getWorkloadParamsDetails", code)
	}
	d, params, code := p.raw.DescribeBenchmark(p.engine, desc, paramCount, defaultCount)
	if code != Success {
		return BenchmarkDescriptor{}, nil, p.wrap("describeBenchmark", code)
	}
	return d, params, nil
}

// CreateBenchmark instantiates a live benchmark from a registered
// descriptor and a concrete set of workload params.
func (p *Proxy) CreateBenchmark(desc Handle, params []WorkloadParam) (Handle, error) {
	h, code := p.raw.CreateBenchmark(p.engine, desc, params)
	if code != Success {
		return NullHandle, p.wrap("createBenchmark", code)
	}
	return h, nil
}

// Encode converts host-native DataPacks into the backend's plaintext
// representation.
func (p *Proxy) Encode(benchmark Handle, params DataPackCollection) (Handle, error) {
	h, code := p.raw.Encode(benchmark, params)
	if code != Success {
		return NullHandle, p.wrap("encode", code)
	}
	return h, nil
}

// Decode converts a plaintext handle back into host-native DataPacks. shape
// must already describe the expected buffer layout; Decode fills it.
func (p *Proxy) Decode(benchmark, plaintext Handle, shape DataPackCollection) (DataPackCollection, error) {
	out, code := p.raw.Decode(benchmark, plaintext, shape)
	if code != Success {
		return DataPackCollection{}, p.wrap("decode", code)
	}
	return out, nil
}

// Encrypt converts a plaintext handle into a ciphertext handle.
func (p *Proxy) Encrypt(benchmark, plaintext Handle) (Handle, error) {
	h, code := p.raw.Encrypt(benchmark, plaintext)
	if code != Success {
		return NullHandle, p.wrap("encrypt", code)
	}
	return h, nil
}

// Decrypt converts a ciphertext handle back into a plaintext handle.
func (p *Proxy) Decrypt(benchmark, ciphertext Handle) (Handle, error) {
	h, code := p.raw.Decrypt(benchmark, ciphertext)
	if code != Success {
		return NullHandle, p.wrap("decrypt", code)
	}
	return h, nil
}

// LoadParams hands local (encoded or encrypted) parameter handles to the
// backend, returning the remote handle it will operate on.
func (p *Proxy) LoadParams(benchmark Handle, local []Handle) (Handle, error) {
	h, code := p.raw.Load(benchmark, local)
	if code != Success {
		return NullHandle, p.wrap("load", code)
	}
	return h, nil
}

// StoreResult retrieves count local handles from a remote result handle.
func (p *Proxy) StoreResult(benchmark, remote Handle, count uint64) ([]Handle, error) {
	handles, code := p.raw.Store(benchmark, remote, count)
	if code != Success {
		return nil, p.wrap("store", code)
	}
	return handles, nil
}

// Operate runs the benchmark's operation once over the sample range each
// indexer selects, and is the single call the timing loop measures.
func (p *Proxy) Operate(benchmark, remoteParams Handle, indexers []ParameterIndexer) (Handle, error) {
	h, code := p.raw.Operate(benchmark, remoteParams, indexers)
	if code != Success {
		return NullHandle, p.wrap("operate", code)
	}
	return h, nil
}

// Destroy releases a single handle. Per §4.1, destruction order always
// runs LIFO relative to creation order; callers (engine, runner) are
// responsible for that ordering, not Proxy.
func (p *Proxy) Destroy(h Handle) error {
	if h == NullHandle {
		return nil
	}
	code := p.raw.DestroyHandle(h)
	if code != Success {
		return p.wrap("destroyHandle", code)
	}
	return nil
}

// SchemeName returns the backend's human-readable name for scheme s.
func (p *Proxy) SchemeName(s Scheme) string {
	return p.raw.GetSchemeName(p.engine, s)
}

// SchemeSecurityName returns the backend's human-readable name for the
// (scheme, security) pair.
func (p *Proxy) SchemeSecurityName(s Scheme, sec Security) string {
	return p.raw.GetSchemeSecurityName(p.engine, s, sec)
}

// ExtraDescription returns the backend-supplied free-text description of a
// benchmark given a concrete workload param set, surfaced verbatim in
// reports (SPEC_FULL.md §11).
func (p *Proxy) ExtraDescription(desc Handle, params []WorkloadParam) string {
	return p.raw.GetBenchmarkDescriptionEx(p.engine, desc, params)
}
