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
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/dataset"
	"github.com/hebench/frontend-sub001/internal/engine"
	"github.com/hebench/frontend-sub001/internal/report"
)

// RunConfig carries the Configurator's per-run knobs into Run (spec.md
// §4.5, §6).
type RunConfig struct {
	Seed          uint64
	MaxLoadedSize int64
	// Tolerance is the validation percentage; zero means DefaultTolerance.
	Tolerance float64
	// MaxIterations caps the Latency timed loop regardless of
	// min_test_time_ms, mainly so tests and pathological backends can't
	// spin forever. Zero means no cap beyond min_test_time_ms.
	MaxIterations uint64
	// EnableValidation gates the reference comparison (spec.md §6's
	// --enable_validation flag); when false the pipeline still runs but
	// Result.InvalidSamples is always empty.
	EnableValidation bool
	// Dataset, if non-nil, replaces pseudo-random generation (a CSV
	// dataset loaded ahead of time); its sample counts override the
	// token's resolved ones.
	Dataset *dataset.Dataset
	Logger  *zap.SugaredLogger
}

// Result is everything a completed Run produced.
type Result struct {
	Report         *report.Report
	InvalidSamples []InvalidResult
	State          State
}

// Run drives b through its category pipeline end to end — Encode, Encrypt
// where the descriptor's cipher mask requires it, Load, Operate (once for
// Offline, warmup-then-timed-repeated for Latency), Store, Decrypt, Decode
// and reference validation — destroying every handle it acquired in LIFO
// order on every exit path, success or failure (spec.md §3 Lifecycle, §4.5,
// §5 Resource acquisition).
func Run(proxy *bridge.Proxy, b *engine.Benchmark, cfg RunConfig) (result *Result, err error) {
	token := b.Token
	desc := token.Descriptor

	tolerance := cfg.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	sampleCounts := token.SampleCounts
	if desc.Category == bridge.CategoryLatency {
		shapes, shapeErr := token.Workload.Shapes(token.Params)
		if shapeErr != nil {
			return nil, fmt.Errorf("resolving shapes: %w", shapeErr)
		}
		sampleCounts = make([]uint64, len(shapes.InputLens))
		for p := range sampleCounts {
			sampleCounts[p] = 1
		}
	}

	ds := cfg.Dataset
	if ds == nil {
		ds, err = dataset.Generate(token.Workload, token.Params, sampleCounts, cfg.Seed, desc.DataType, cfg.MaxLoadedSize)
		if err != nil {
			return nil, fmt.Errorf("generating dataset: %w", err)
		}
	} else {
		sampleCounts = ds.SampleCounts()
	}

	rep := report.New(token.Header)
	handles := newHandleStack(proxy)
	state := StateCreated
	defer func() {
		if unwindErr := handles.unwind(); unwindErr != nil && err == nil {
			err = unwindErr
		}
	}()

	local := make([]bridge.Handle, len(ds.Inputs))
	for p, samples := range ds.Inputs {
		coll := bridge.DataPackCollection{Packs: []bridge.DataPack{packParam(p, samples, desc.DataType)}}
		plain, encErr := proxy.Encode(b.Handle, coll)
		if encErr != nil {
			return nil, encErr
		}
		handles.push(plain)
		if desc.CipherMaskSet(p) {
			cipher, encryptErr := proxy.Encrypt(b.Handle, plain)
			if encryptErr != nil {
				return nil, encryptErr
			}
			handles.push(cipher)
			local[p] = cipher
		} else {
			local[p] = plain
		}
	}
	state = StateEncoded

	remote, loadErr := proxy.LoadParams(b.Handle, local)
	if loadErr != nil {
		return nil, loadErr
	}
	handles.push(remote)
	state = StateLoaded

	var invalid []InvalidResult
	if desc.Category == bridge.CategoryLatency {
		invalid, err = runLatency(proxy, b, ds, sampleCounts, remote, tolerance, cfg, rep)
	} else {
		invalid, err = runOffline(proxy, b, ds, sampleCounts, remote, tolerance, cfg, rep)
	}
	if err != nil {
		return nil, err
	}
	state = StateValidated

	return &Result{Report: rep, InvalidSamples: invalid, State: state}, nil
}

// operateAndDiscard runs one untimed warmup Operate call and destroys its
// result immediately; warmup exists only to let the backend settle (caches,
// JIT, lazy key material), never to produce a timed or validated result.
func operateAndDiscard(proxy *bridge.Proxy, benchmark, remote bridge.Handle, indexers []bridge.ParameterIndexer) error {
	h, err := proxy.Operate(benchmark, remote, indexers)
	if err != nil {
		return err
	}
	return proxy.Destroy(h)
}

// runLatency repeats a single-sample Operate call: warmup iterations are
// untimed and discarded, then timed iterations accumulate into rep until
// cumulative wall time reaches min_test_time_ms (or, absent a declared
// minimum, exactly one timed iteration runs), subject to cfg.MaxIterations
// as a hard cap (spec.md §4.5).
func runLatency(proxy *bridge.Proxy, b *engine.Benchmark, ds *dataset.Dataset, sampleCounts []uint64, remote bridge.Handle, tolerance float64, cfg RunConfig, rep *report.Report) ([]InvalidResult, error) {
	desc := b.Token.Descriptor
	indexers := make([]bridge.ParameterIndexer, len(sampleCounts))
	for p := range indexers {
		indexers[p] = bridge.ParameterIndexer{ValueIndex: 0, BatchSize: 1}
	}

	for i := uint64(0); i < desc.CategoryParam.WarmupIterations; i++ {
		if err := operateAndDiscard(proxy, b.Handle, remote, indexers); err != nil {
			return nil, fmt.Errorf("warmup iteration %d: %w", i, err)
		}
	}

	minTestTime := time.Duration(desc.CategoryParam.MinTestTimeMs) * time.Millisecond
	shape := shapeCollection(ds.Outputs, desc.DataType)

	var invalid []InvalidResult
	var elapsed time.Duration
	var iteration uint64
	for {
		if iteration > 0 {
			if minTestTime == 0 {
				break
			}
			if elapsed >= minTestTime {
				break
			}
		}
		if cfg.MaxIterations > 0 && iteration >= cfg.MaxIterations {
			break
		}

		iter := newHandleStack(proxy)
		bad, iterElapsed, err := runOneOperateCycle(proxy, b.Handle, remote, indexers, iter, ds, shape, desc, tolerance, cfg.EnableValidation, iteration)
		unwindErr := iter.unwind()
		if err != nil {
			return nil, fmt.Errorf("timed iteration %d: %w", iteration, err)
		}
		if unwindErr != nil {
			return nil, fmt.Errorf("timed iteration %d cleanup: %w", iteration, unwindErr)
		}
		if bad != nil {
			invalid = append(invalid, *bad)
		}

		for _, e := range iterElapsed {
			rep.Record(e)
		}
		elapsed += iterElapsed[0].WallElapsed()
		iteration++
	}
	return invalid, nil
}

// runOneOperateCycle runs Operate, Store, an optional Decrypt, and Decode
// for a single Latency iteration, timing each stage, and validates the
// decoded sample against ds.Outputs when enabled.
func runOneOperateCycle(proxy *bridge.Proxy, benchmark, remote bridge.Handle, indexers []bridge.ParameterIndexer, iter *handleStack, ds *dataset.Dataset, shape bridge.DataPackCollection, desc bridge.BenchmarkDescriptor, tolerance float64, validate bool, iteration uint64) (*InvalidResult, []report.TimingEvent, error) {
	var events []report.TimingEvent

	opStart := time.Now()
	opResult, err := proxy.Operate(benchmark, remote, indexers)
	opEnd := time.Now()
	if err != nil {
		return nil, nil, err
	}
	iter.push(opResult)
	events = append(events, report.TimingEvent{EventID: "Operate", Iteration: iteration, WallStart: opStart, WallEnd: opEnd, CPUStart: opStart, CPUEnd: opEnd, InputSampleCount: 1})

	storeStart := time.Now()
	storeHandles, err := proxy.StoreResult(benchmark, opResult, 1)
	storeEnd := time.Now()
	if err != nil {
		return nil, nil, err
	}
	local := storeHandles[0]
	iter.push(local)
	events = append(events, report.TimingEvent{EventID: "Store", Iteration: iteration, WallStart: storeStart, WallEnd: storeEnd, CPUStart: storeStart, CPUEnd: storeEnd, InputSampleCount: 1})

	if desc.CipherMask != 0 {
		decStart := time.Now()
		plain, decErr := proxy.Decrypt(benchmark, local)
		decEnd := time.Now()
		if decErr != nil {
			return nil, nil, decErr
		}
		iter.push(plain)
		local = plain
		events = append(events, report.TimingEvent{EventID: "Decrypt", Iteration: iteration, WallStart: decStart, WallEnd: decEnd, CPUStart: decStart, CPUEnd: decEnd, InputSampleCount: 1})
	}

	decodeStart := time.Now()
	decoded, err := proxy.Decode(benchmark, local, shape)
	decodeEnd := time.Now()
	if err != nil {
		return nil, nil, err
	}
	events = append(events, report.TimingEvent{EventID: "Decode", Iteration: iteration, WallStart: decodeStart, WallEnd: decodeEnd, CPUStart: decodeStart, CPUEnd: decodeEnd, InputSampleCount: 1})

	if !validate {
		return nil, events, nil
	}
	actual := unpackCollection(decoded, desc.DataType)
	for c := range ds.Outputs {
		ref := ds.Outputs[c][0]
		got := actual[c][0]
		for k := range ref {
			if !AlmostEqual(ref[k], got[k], tolerance) {
				return &InvalidResult{IndexTuple: []uint64{0}, FirstBadOffset: k}, events, nil
			}
		}
	}
	return nil, events, nil
}

// runOffline runs a single Operate call over the full Cartesian product of
// input samples, then validates every output sample against ds.Outputs,
// addressing each combination's offset via ComponentCounter/LinearIndex
// (spec.md §4.5, §8 "Offline output indexing").
func runOffline(proxy *bridge.Proxy, b *engine.Benchmark, ds *dataset.Dataset, sampleCounts []uint64, remote bridge.Handle, tolerance float64, cfg RunConfig, rep *report.Report) (invalid []InvalidResult, err error) {
	desc := b.Token.Descriptor
	indexers := make([]bridge.ParameterIndexer, len(sampleCounts))
	for p, count := range sampleCounts {
		indexers[p] = bridge.ParameterIndexer{ValueIndex: 0, BatchSize: count}
	}

	iter := newHandleStack(proxy)
	defer func() {
		if unwindErr := iter.unwind(); unwindErr != nil && err == nil {
			err = unwindErr
		}
	}()

	opStart := time.Now()
	opResult, opErr := proxy.Operate(b.Handle, remote, indexers)
	opEnd := time.Now()
	if opErr != nil {
		return nil, opErr
	}
	iter.push(opResult)
	rep.Record(report.TimingEvent{EventID: "Operate", Iteration: 0, WallStart: opStart, WallEnd: opEnd, CPUStart: opStart, CPUEnd: opEnd, InputSampleCount: Total(sampleCounts)})

	storeHandles, storeErr := proxy.StoreResult(b.Handle, opResult, 1)
	if storeErr != nil {
		return nil, storeErr
	}
	local := storeHandles[0]
	iter.push(local)

	if desc.CipherMask != 0 {
		plain, decErr := proxy.Decrypt(b.Handle, local)
		if decErr != nil {
			return nil, decErr
		}
		iter.push(plain)
		local = plain
	}

	shape := shapeCollection(ds.Outputs, desc.DataType)
	decoded, decodeErr := proxy.Decode(b.Handle, local, shape)
	if decodeErr != nil {
		return nil, decodeErr
	}
	actual := unpackCollection(decoded, desc.DataType)

	if cfg.EnableValidation {
		counter := NewComponentCounter(sampleCounts)
		total := Total(sampleCounts)
		for i := uint64(0); i < total; i++ {
			idx := counter.Index()
			lin := LinearIndex(idx, sampleCounts)
			for c := range ds.Outputs {
				ref := ds.Outputs[c][lin]
				got := actual[c][lin]
				for k := range ref {
					if !AlmostEqual(ref[k], got[k], tolerance) {
						invalid = append(invalid, InvalidResult{IndexTuple: idx, FirstBadOffset: k})
						break
					}
				}
			}
			counter.Inc()
		}
	}
	return invalid, err
}
