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

// rawCalls is the Go-shaped mirror of the backend's C ABI: one method per
// bridge symbol (§4.1), each returning the raw ErrorCode instead of an
// error so Proxy is the single place that turns codes into errors. The
// cgo-backed sharedLibrary implements this against a real dlopen'd
// library; tests implement it with an in-memory fake.
type rawCalls interface {
	InitEngine() (Handle, ErrorCode)
	SubscribeBenchmarksCount(engine Handle) (uint64, ErrorCode)
	SubscribeBenchmarks(engine Handle, count uint64) ([]Handle, ErrorCode)
	GetWorkloadParamsDetails(engine, desc Handle) (paramCount, defaultCount uint64, code ErrorCode)
	DescribeBenchmark(engine, desc Handle, paramCount, defaultCount uint64) (BenchmarkDescriptor, []WorkloadParam, ErrorCode)
	CreateBenchmark(engine, desc Handle, params []WorkloadParam) (Handle, ErrorCode)
	Encode(benchmark Handle, params DataPackCollection) (Handle, ErrorCode)
	Decode(benchmark, plaintext Handle, shape DataPackCollection) (DataPackCollection, ErrorCode)
	Encrypt(benchmark, plaintext Handle) (Handle, ErrorCode)
	Decrypt(benchmark, ciphertext Handle) (Handle, ErrorCode)
	Load(benchmark Handle, local []Handle) (Handle, ErrorCode)
	Store(benchmark, remote Handle, count uint64) ([]Handle, ErrorCode)
	Operate(benchmark, remoteParams Handle, indexers []ParameterIndexer) (Handle, ErrorCode)
	DestroyHandle(h Handle) ErrorCode

	GetSchemeName(engine Handle, s Scheme) string
	GetSchemeSecurityName(engine Handle, s Scheme, sec Security) string
	GetBenchmarkDescriptionEx(engine, desc Handle, params []WorkloadParam) string
	GetErrorDescription(code ErrorCode) string
	GetLastErrorDescription(engine Handle) string
}

// libraryCloser is satisfied by anything rawCalls also needs to release
// (the dlopen'd shared object). Kept separate from rawCalls so fakes in
// tests need not implement it meaningfully.
type libraryCloser interface {
	Close() error
}

// NewProxyForTesting builds a Proxy around a caller-supplied fake backend,
// for other packages' tests that must exercise a Proxy without dlopening a
// real shared object. raw need not be named as rawCalls by the caller —
// any concrete type implementing the same method set satisfies it.
func NewProxyForTesting(raw rawCalls, engine Handle) *Proxy {
	return newTestProxy(raw, engine)
}
