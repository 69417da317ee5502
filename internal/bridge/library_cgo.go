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

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef uint64_t heb_handle_t;
typedef int64_t heb_error_t;

typedef struct {
	uint64_t warmup_iterations;
	uint64_t min_test_time_ms;
	uint64_t sample_counts[16];
	uint64_t sample_count_len;
} heb_category_params_t;

typedef struct {
	uint32_t workload_id;
	uint32_t data_type;
	uint32_t category;
	heb_category_params_t category_params;
	uint64_t cipher_mask;
	uint32_t scheme;
	uint32_t security;
	int64_t other;
} heb_bench_descriptor_t;

typedef struct {
	char name[64];
	uint32_t tag;
	int64_t i64;
	uint64_t u64;
	double f64;
} heb_workload_param_t;

typedef struct {
	uint64_t value_index;
	uint64_t batch_size;
} heb_param_indexer_t;

typedef struct {
	uint64_t param_position;
	uint64_t buffer_count;
	void **buffers;
	uint64_t *buffer_sizes;
} heb_data_pack_t;

typedef struct {
	uint64_t pack_count;
	heb_data_pack_t *packs;
} heb_data_pack_collection_t;

typedef heb_error_t (*fn_init_engine)(heb_handle_t *);
typedef heb_error_t (*fn_subscribe_count)(heb_handle_t, uint64_t *);
typedef heb_error_t (*fn_subscribe_benchmarks)(heb_handle_t, heb_handle_t *);
typedef heb_error_t (*fn_workload_params_details)(heb_handle_t, heb_handle_t, uint64_t *, uint64_t *);
typedef heb_error_t (*fn_describe_benchmark)(heb_handle_t, heb_handle_t, heb_bench_descriptor_t *, heb_workload_param_t *);
typedef heb_error_t (*fn_create_benchmark)(heb_handle_t, heb_handle_t, const heb_workload_param_t *, uint64_t, heb_handle_t *);
typedef heb_error_t (*fn_encode)(heb_handle_t, const heb_data_pack_collection_t *, heb_handle_t *);
typedef heb_error_t (*fn_decode)(heb_handle_t, heb_handle_t, heb_data_pack_collection_t *);
typedef heb_error_t (*fn_encrypt)(heb_handle_t, heb_handle_t, heb_handle_t *);
typedef heb_error_t (*fn_decrypt)(heb_handle_t, heb_handle_t, heb_handle_t *);
typedef heb_error_t (*fn_load)(heb_handle_t, const heb_handle_t *, uint64_t, heb_handle_t *);
typedef heb_error_t (*fn_store)(heb_handle_t, heb_handle_t, heb_handle_t *, uint64_t);
typedef heb_error_t (*fn_operate)(heb_handle_t, heb_handle_t, const heb_param_indexer_t *, heb_handle_t *);
typedef heb_error_t (*fn_destroy_handle)(heb_handle_t);
typedef uint64_t (*fn_get_scheme_name)(heb_handle_t, uint32_t, char *, uint64_t);
typedef uint64_t (*fn_get_scheme_security_name)(heb_handle_t, uint32_t, uint32_t, char *, uint64_t);
typedef uint64_t (*fn_get_bench_description_ex)(heb_handle_t, heb_handle_t, const heb_workload_param_t *, uint64_t, char *, uint64_t);
typedef uint64_t (*fn_get_error_description)(heb_error_t, char *, uint64_t);
typedef uint64_t (*fn_get_last_error_description)(heb_handle_t, char *, uint64_t);

typedef struct {
	fn_init_engine initEngine;
	fn_subscribe_count subscribeBenchmarksCount;
	fn_subscribe_benchmarks subscribeBenchmarks;
	fn_workload_params_details getWorkloadParamsDetails;
	fn_describe_benchmark describeBenchmark;
	fn_create_benchmark createBenchmark;
	fn_encode encode;
	fn_decode decode;
	fn_encrypt encrypt;
	fn_decrypt decrypt;
	fn_load load;
	fn_store store;
	fn_operate operate;
	fn_destroy_handle destroyHandle;
	fn_get_scheme_name getSchemeName;
	fn_get_scheme_security_name getSchemeSecurityName;
	fn_get_bench_description_ex getBenchmarkDescriptionEx;
	fn_get_error_description getErrorDescription;
	fn_get_last_error_description getLastErrorDescription;
} heb_symbols_t;

static void *heb_dlsym_checked(void *handle, const char *name, char **err_name) {
	void *sym = dlsym(handle, name);
	if (sym == NULL) {
		*err_name = (char *)name;
	}
	return sym;
}

// heb_resolve_symbols resolves every required bridge symbol, returning the
// name of the first missing one (or NULL if all resolved).
static const char *heb_resolve_symbols(void *handle, heb_symbols_t *syms) {
	char *missing = NULL;

	syms->initEngine = (fn_init_engine)heb_dlsym_checked(handle, "initEngine", &missing);
	if (missing) return missing;
	syms->subscribeBenchmarksCount = (fn_subscribe_count)heb_dlsym_checked(handle, "subscribeBenchmarksCount", &missing);
	if (missing) return missing;
	syms->subscribeBenchmarks = (fn_subscribe_benchmarks)heb_dlsym_checked(handle, "subscribeBenchmarks", &missing);
	if (missing) return missing;
	syms->getWorkloadParamsDetails = (fn_workload_params_details)heb_dlsym_checked(handle, "getWorkloadParamsDetails", &missing);
	if (missing) return missing;
	syms->describeBenchmark = (fn_describe_benchmark)heb_dlsym_checked(handle, "describeBenchmark", &missing);
	if (missing) return missing;
	syms->createBenchmark = (fn_create_benchmark)heb_dlsym_checked(handle, "createBenchmark", &missing);
	if (missing) return missing;
	syms->encode = (fn_encode)heb_dlsym_checked(handle, "encode", &missing);
	if (missing) return missing;
	syms->decode = (fn_decode)heb_dlsym_checked(handle, "decode", &missing);
	if (missing) return missing;
	syms->encrypt = (fn_encrypt)heb_dlsym_checked(handle, "encrypt", &missing);
	if (missing) return missing;
	syms->decrypt = (fn_decrypt)heb_dlsym_checked(handle, "decrypt", &missing);
	if (missing) return missing;
	syms->load = (fn_load)heb_dlsym_checked(handle, "load", &missing);
	if (missing) return missing;
	syms->store = (fn_store)heb_dlsym_checked(handle, "store", &missing);
	if (missing) return missing;
	syms->operate = (fn_operate)heb_dlsym_checked(handle, "operate", &missing);
	if (missing) return missing;
	syms->destroyHandle = (fn_destroy_handle)heb_dlsym_checked(handle, "destroyHandle", &missing);
	if (missing) return missing;
	syms->getSchemeName = (fn_get_scheme_name)heb_dlsym_checked(handle, "getSchemeName", &missing);
	if (missing) return missing;
	syms->getSchemeSecurityName = (fn_get_scheme_security_name)heb_dlsym_checked(handle, "getSchemeSecurityName", &missing);
	if (missing) return missing;
	syms->getBenchmarkDescriptionEx = (fn_get_bench_description_ex)heb_dlsym_checked(handle, "getBenchmarkDescriptionEx", &missing);
	if (missing) return missing;
	syms->getErrorDescription = (fn_get_error_description)heb_dlsym_checked(handle, "getErrorDescription", &missing);
	if (missing) return missing;
	syms->getLastErrorDescription = (fn_get_last_error_description)heb_dlsym_checked(handle, "getLastErrorDescription", &missing);
	if (missing) return missing;

	return NULL;
}
*/
import "C"

import (
	"fmt"
	"path/filepath"
	"unsafe"
)

// sharedLibrary is the cgo-backed handle to a dlopen'd backend, and the
// rawCalls implementation that drives it through its C ABI.
type sharedLibrary struct {
	path   string
	handle unsafe.Pointer
	syms   C.heb_symbols_t
}

// OpenLibrary dlopens the backend at path and resolves every symbol §4.1
// requires. path must be an existing, non-symlink file outside /tmp (the
// Driver enforces that policy before calling here).
func OpenLibrary(path string) (*sharedLibrary, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}

	cpath := C.CString(abs)
	defer C.free(unsafe.Pointer(cpath))

	handle := C.dlopen(cpath, C.RTLD_NOW|C.RTLD_LOCAL)
	if handle == nil {
		msg := C.GoString(C.dlerror())
		return nil, &LoadError{Path: path, Cause: fmt.Errorf("dlopen: %s", msg)}
	}

	lib := &sharedLibrary{path: abs, handle: handle}
	if missing := C.heb_resolve_symbols(handle, &lib.syms); missing != nil {
		symbol := C.GoString(missing)
		_ = C.dlclose(handle)
		return nil, &LoadError{Path: path, Symbol: symbol, Cause: fmt.Errorf("symbol not found")}
	}

	return lib, nil
}

// Close unloads the backend library. Callers must have destroyed every
// handle the backend returned before calling this.
func (l *sharedLibrary) Close() error {
	if l.handle == nil {
		return nil
	}
	if C.dlclose(l.handle) != 0 {
		return fmt.Errorf("dlclose %q: %s", l.path, C.GoString(C.dlerror()))
	}
	l.handle = nil
	return nil
}

func toCWorkloadParams(params []WorkloadParam) []C.heb_workload_param_t {
	out := make([]C.heb_workload_param_t, len(params))
	for i, p := range params {
		nameBytes := []byte(p.Name)
		if len(nameBytes) > 63 {
			nameBytes = nameBytes[:63]
		}
		for j, b := range nameBytes {
			out[i].name[j] = C.char(b)
		}
		out[i].tag = C.uint32_t(p.Tag)
		switch p.Tag {
		case ParamTagInt64:
			out[i].i64 = C.int64_t(p.i64)
		case ParamTagUInt64:
			out[i].u64 = C.uint64_t(p.u64)
		case ParamTagFloat64:
			out[i].f64 = C.double(p.f64)
		}
	}
	return out
}

func fromCWorkloadParam(c C.heb_workload_param_t) WorkloadParam {
	name := C.GoString(&c.name[0])
	switch ParamTag(c.tag) {
	case ParamTagUInt64:
		return NewUInt64Param(name, uint64(c.u64))
	case ParamTagFloat64:
		return NewFloat64Param(name, float64(c.f64))
	default:
		return NewInt64Param(name, int64(c.i64))
	}
}

func fromCDescriptor(c C.heb_bench_descriptor_t) BenchmarkDescriptor {
	n := int(c.category_params.sample_count_len)
	if n > 16 {
		n = 16
	}
	counts := make([]uint64, n)
	for i := 0; i < n; i++ {
		counts[i] = uint64(c.category_params.sample_counts[i])
	}
	return BenchmarkDescriptor{
		WorkloadID: uint32(c.workload_id),
		DataType:   DataType(c.data_type),
		Category:   Category(c.category),
		CategoryParam: CategoryParams{
			WarmupIterations: uint64(c.category_params.warmup_iterations),
			MinTestTimeMs:    uint64(c.category_params.min_test_time_ms),
			SampleCounts:     counts,
		},
		CipherMask: uint64(c.cipher_mask),
		Scheme:     Scheme(c.scheme),
		Security:   Security(c.security),
		Other:      int64(c.other),
	}
}

// twoCallString performs the ABI's two-call string pattern: first invoke
// fn with a null buffer to learn the required size, then again with an
// allocated buffer. Returning zero size on the first call yields a
// CriticalError; the string-returning sharedLibrary methods that use this
// helper discard that error and return an empty string.
func twoCallString(call string, fn func(buf *C.char, size C.uint64_t) C.uint64_t) (string, error) {
	size := fn(nil, 0)
	if size == 0 {
		return "", &Error{Call: call, Code: CriticalError, CodeText: "zero-size string response"}
	}
	buf := make([]byte, size)
	fn((*C.char)(unsafe.Pointer(&buf[0])), C.uint64_t(size))
	return C.GoString((*C.char)(unsafe.Pointer(&buf[0]))), nil
}

func (l *sharedLibrary) InitEngine() (Handle, ErrorCode) {
	var h C.heb_handle_t
	code := l.syms.initEngine(&h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) SubscribeBenchmarksCount(engine Handle) (uint64, ErrorCode) {
	var n C.uint64_t
	code := l.syms.subscribeBenchmarksCount(C.heb_handle_t(engine), &n)
	return uint64(n), ErrorCode(code)
}

func (l *sharedLibrary) SubscribeBenchmarks(engine Handle, count uint64) ([]Handle, ErrorCode) {
	if count == 0 {
		return nil, Success
	}
	raw := make([]C.heb_handle_t, count)
	code := l.syms.subscribeBenchmarks(C.heb_handle_t(engine), &raw[0])
	out := make([]Handle, count)
	for i, h := range raw {
		out[i] = Handle(h)
	}
	return out, ErrorCode(code)
}

func (l *sharedLibrary) GetWorkloadParamsDetails(engine, desc Handle) (paramCount, defaultCount uint64, code ErrorCode) {
	var pc, dc C.uint64_t
	rc := l.syms.getWorkloadParamsDetails(C.heb_handle_t(engine), C.heb_handle_t(desc), &pc, &dc)
	return uint64(pc), uint64(dc), ErrorCode(rc)
}

func (l *sharedLibrary) DescribeBenchmark(engine, desc Handle, paramCount, defaultCount uint64) (BenchmarkDescriptor, []WorkloadParam, ErrorCode) {
	var cdesc C.heb_bench_descriptor_t
	total := paramCount * defaultCount
	cparams := make([]C.heb_workload_param_t, total)
	var pptr *C.heb_workload_param_t
	if total > 0 {
		pptr = &cparams[0]
	}
	code := l.syms.describeBenchmark(C.heb_handle_t(engine), C.heb_handle_t(desc), &cdesc, pptr)

	params := make([]WorkloadParam, total)
	for i := range cparams {
		params[i] = fromCWorkloadParam(cparams[i])
	}
	return fromCDescriptor(cdesc), params, ErrorCode(code)
}

func (l *sharedLibrary) CreateBenchmark(engine, desc Handle, params []WorkloadParam) (Handle, ErrorCode) {
	var h C.heb_handle_t
	cparams := toCWorkloadParams(params)
	var pptr *C.heb_workload_param_t
	if len(cparams) > 0 {
		pptr = &cparams[0]
	}
	code := l.syms.createBenchmark(C.heb_handle_t(engine), C.heb_handle_t(desc), pptr, C.uint64_t(len(params)), &h)
	return Handle(h), ErrorCode(code)
}

func toCDataPackCollection(coll DataPackCollection) (C.heb_data_pack_collection_t, func()) {
	packs := make([]C.heb_data_pack_t, len(coll.Packs))
	var bufPtrs [][]unsafe.Pointer
	var sizePtrs [][]C.uint64_t

	for i, pack := range coll.Packs {
		buffers := make([]unsafe.Pointer, len(pack.Buffers))
		sizes := make([]C.uint64_t, len(pack.Buffers))
		for j, buf := range pack.Buffers {
			if len(buf) > 0 {
				buffers[j] = unsafe.Pointer(&buf[0])
			}
			sizes[j] = C.uint64_t(len(buf))
		}
		bufPtrs = append(bufPtrs, buffers)
		sizePtrs = append(sizePtrs, sizes)

		packs[i].param_position = C.uint64_t(pack.ParamPosition)
		packs[i].buffer_count = C.uint64_t(len(pack.Buffers))
		if len(buffers) > 0 {
			packs[i].buffers = &bufPtrs[i][0]
			packs[i].buffer_sizes = &sizePtrs[i][0]
		}
	}

	var packPtr *C.heb_data_pack_t
	if len(packs) > 0 {
		packPtr = &packs[0]
	}
	coll2 := C.heb_data_pack_collection_t{
		pack_count: C.uint64_t(len(packs)),
		packs:      packPtr,
	}
	// keep Go-side slices alive for the duration of the cgo call
	keepAlive := func() {
		_ = packs
		_ = bufPtrs
		_ = sizePtrs
	}
	return coll2, keepAlive
}

func (l *sharedLibrary) Encode(benchmark Handle, params DataPackCollection) (Handle, ErrorCode) {
	var h C.heb_handle_t
	ccoll, keepAlive := toCDataPackCollection(params)
	defer keepAlive()
	code := l.syms.encode(C.heb_handle_t(benchmark), &ccoll, &h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) Decode(benchmark, plaintext Handle, shape DataPackCollection) (DataPackCollection, ErrorCode) {
	ccoll, keepAlive := toCDataPackCollection(shape)
	defer keepAlive()
	code := l.syms.decode(C.heb_handle_t(benchmark), C.heb_handle_t(plaintext), &ccoll)
	return shape, ErrorCode(code)
}

func (l *sharedLibrary) Encrypt(benchmark, plaintext Handle) (Handle, ErrorCode) {
	var h C.heb_handle_t
	code := l.syms.encrypt(C.heb_handle_t(benchmark), C.heb_handle_t(plaintext), &h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) Decrypt(benchmark, ciphertext Handle) (Handle, ErrorCode) {
	var h C.heb_handle_t
	code := l.syms.decrypt(C.heb_handle_t(benchmark), C.heb_handle_t(ciphertext), &h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) Load(benchmark Handle, local []Handle) (Handle, ErrorCode) {
	var h C.heb_handle_t
	raw := make([]C.heb_handle_t, len(local))
	for i, lh := range local {
		raw[i] = C.heb_handle_t(lh)
	}
	var ptr *C.heb_handle_t
	if len(raw) > 0 {
		ptr = &raw[0]
	}
	code := l.syms.load(C.heb_handle_t(benchmark), ptr, C.uint64_t(len(local)), &h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) Store(benchmark, remote Handle, count uint64) ([]Handle, ErrorCode) {
	raw := make([]C.heb_handle_t, count)
	var ptr *C.heb_handle_t
	if count > 0 {
		ptr = &raw[0]
	}
	code := l.syms.store(C.heb_handle_t(benchmark), C.heb_handle_t(remote), ptr, C.uint64_t(count))
	out := make([]Handle, count)
	for i, h := range raw {
		out[i] = Handle(h)
	}
	return out, ErrorCode(code)
}

func (l *sharedLibrary) Operate(benchmark, remoteParams Handle, indexers []ParameterIndexer) (Handle, ErrorCode) {
	var h C.heb_handle_t
	raw := make([]C.heb_param_indexer_t, len(indexers))
	for i, idx := range indexers {
		raw[i] = C.heb_param_indexer_t{value_index: C.uint64_t(idx.ValueIndex), batch_size: C.uint64_t(idx.BatchSize)}
	}
	var ptr *C.heb_param_indexer_t
	if len(raw) > 0 {
		ptr = &raw[0]
	}
	code := l.syms.operate(C.heb_handle_t(benchmark), C.heb_handle_t(remoteParams), ptr, &h)
	return Handle(h), ErrorCode(code)
}

func (l *sharedLibrary) DestroyHandle(h Handle) ErrorCode {
	return ErrorCode(l.syms.destroyHandle(C.heb_handle_t(h)))
}

func (l *sharedLibrary) GetSchemeName(engine Handle, s Scheme) string {
	name, err := twoCallString("getSchemeName", func(buf *C.char, size C.uint64_t) C.uint64_t {
		return l.syms.getSchemeName(C.heb_handle_t(engine), C.uint32_t(s), buf, size)
	})
	if err != nil {
		return ""
	}
	return name
}

func (l *sharedLibrary) GetSchemeSecurityName(engine Handle, s Scheme, sec Security) string {
	name, err := twoCallString("getSchemeSecurityName", func(buf *C.char, size C.uint64_t) C.uint64_t {
		return l.syms.getSchemeSecurityName(C.heb_handle_t(engine), C.uint32_t(s), C.uint32_t(sec), buf, size)
	})
	if err != nil {
		return ""
	}
	return name
}

func (l *sharedLibrary) GetBenchmarkDescriptionEx(engine, desc Handle, params []WorkloadParam) string {
	cparams := toCWorkloadParams(params)
	var pptr *C.heb_workload_param_t
	if len(cparams) > 0 {
		pptr = &cparams[0]
	}
	name, err := twoCallString("getBenchmarkDescriptionEx", func(buf *C.char, size C.uint64_t) C.uint64_t {
		return l.syms.getBenchmarkDescriptionEx(C.heb_handle_t(engine), C.heb_handle_t(desc), pptr, C.uint64_t(len(params)), buf, size)
	})
	if err != nil {
		return ""
	}
	return name
}

func (l *sharedLibrary) GetErrorDescription(code ErrorCode) string {
	name, err := twoCallString("getErrorDescription", func(buf *C.char, size C.uint64_t) C.uint64_t {
		return l.syms.getErrorDescription(C.heb_error_t(code), buf, size)
	})
	if err != nil {
		return ""
	}
	return name
}

func (l *sharedLibrary) GetLastErrorDescription(engine Handle) string {
	name, err := twoCallString("getLastErrorDescription", func(buf *C.char, size C.uint64_t) C.uint64_t {
		return l.syms.getLastErrorDescription(C.heb_handle_t(engine), buf, size)
	})
	if err != nil {
		return ""
	}
	return name
}
