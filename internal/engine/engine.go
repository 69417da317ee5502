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

// Package engine is the Engine (C2): owns the backend's engine handle,
// enumerates registered benchmark descriptors, hands out description
// tokens matched against the Workload Catalogue, and guarantees at most
// one live benchmark per engine.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/workload"
)

// Engine enumerates a loaded backend's registered benchmarks and mediates
// their lifecycle.
type Engine struct {
	proxy       *bridge.Proxy
	logger      *zap.SugaredLogger
	descriptors []bridge.Handle
	live        *Benchmark
}

// Benchmark is a live, created benchmark instance.
type Benchmark struct {
	Token  DescriptionToken
	Handle bridge.Handle
}

// DescribeConfig carries the Configurator's per-request overrides into
// Describe.
type DescribeConfig struct {
	ParamOverrides      []bridge.WorkloadParam
	SampleSizeOverrides []uint64
	ForceConfig         bool
}

// New initializes an Engine over an already-loaded Proxy: enumerates every
// registered benchmark descriptor in registration order.
func New(proxy *bridge.Proxy, logger *zap.SugaredLogger) (*Engine, error) {
	count, err := proxy.BenchmarkCount()
	if err != nil {
		return nil, fmt.Errorf("enumerating benchmarks: %w", err)
	}
	handles, err := proxy.Benchmarks(count)
	if err != nil {
		return nil, fmt.Errorf("subscribing benchmarks: %w", err)
	}
	logger.Infow("enumerated backend benchmarks", "count", count)
	return &Engine{proxy: proxy, logger: logger, descriptors: handles}, nil
}

// Count reports how many benchmarks the backend registered.
func (e *Engine) Count() int { return len(e.descriptors) }

// SchemeName returns the backend's human-readable name for s.
func (e *Engine) SchemeName(s bridge.Scheme) string { return e.proxy.SchemeName(s) }

// SecurityName returns the backend's human-readable name for (s, sec).
func (e *Engine) SecurityName(s bridge.Scheme, sec bridge.Security) string {
	return e.proxy.SchemeSecurityName(s, sec)
}

// DefaultWorkloadParams reads back the backend's default workload
// parameters for the benchmark at index.
func (e *Engine) DefaultWorkloadParams(index int) ([]bridge.WorkloadParam, error) {
	if index < 0 || index >= len(e.descriptors) {
		return nil, fmt.Errorf("engine: descriptor index %d out of range [0,%d)", index, len(e.descriptors))
	}
	_, params, err := e.proxy.Describe(e.descriptors[index])
	return params, err
}

// Describe matches the benchmark at index against the Workload Catalogue
// and resolves its configuration into a DescriptionToken. It fails with
// *NoMatchingWorkloadError if the backend's declared workload id is not
// registered.
func (e *Engine) Describe(index int, cfg DescribeConfig) (DescriptionToken, error) {
	if index < 0 || index >= len(e.descriptors) {
		return DescriptionToken{}, fmt.Errorf("engine: descriptor index %d out of range [0,%d)", index, len(e.descriptors))
	}
	descHandle := e.descriptors[index]
	d, defaultParams, err := e.proxy.Describe(descHandle)
	if err != nil {
		return DescriptionToken{}, err
	}

	wl, ok := workload.Lookup(workload.ID(d.WorkloadID))
	if !ok {
		return DescriptionToken{}, &NoMatchingWorkloadError{Index: index, WorkloadID: d.WorkloadID}
	}

	params := defaultParams
	if len(cfg.ParamOverrides) > 0 {
		params = cfg.ParamOverrides
	}
	if err := wl.ValidateParams(params); err != nil {
		return DescriptionToken{}, err
	}

	var sampleCounts []uint64
	if d.Category == bridge.CategoryOffline {
		if cfg.ForceConfig && len(cfg.SampleSizeOverrides) > 0 {
			sampleCounts = cfg.SampleSizeOverrides
		} else {
			sampleCounts = wl.ResolveSampleCounts(cfg.SampleSizeOverrides, d.CategoryParam.SampleCounts)
		}
	}

	extra := e.proxy.ExtraDescription(descHandle, params)
	schemeName := e.proxy.SchemeName(d.Scheme)
	securityName := e.proxy.SchemeSecurityName(d.Scheme, d.Security)
	header := buildHeader(index, d, wl, schemeName, securityName, extra)

	token := DescriptionToken{
		Index:            index,
		DescriptorHandle: descHandle,
		Descriptor:       d,
		Workload:         wl,
		Params:           params,
		SampleCounts:     sampleCounts,
		Header:           header,
		PathFragment:     sanitizePathFragment(fmt.Sprintf("%03d-%s", index, wl.Name)),
	}
	return token, nil
}

// Create instantiates a live Benchmark from a description token. At most
// one Benchmark may be live per Engine at a time (spec.md §4.2, §8); a
// second Create before the first Benchmark is destroyed fails with
// *BenchmarkAlreadyLiveError.
func (e *Engine) Create(token DescriptionToken) (*Benchmark, error) {
	if e.live != nil {
		return nil, &BenchmarkAlreadyLiveError{}
	}
	h, err := e.proxy.CreateBenchmark(token.DescriptorHandle, token.Params)
	if err != nil {
		return nil, err
	}
	b := &Benchmark{Token: token, Handle: h}
	e.live = b
	return b, nil
}

// Destroy releases a live Benchmark's handle and clears the live tracking
// so a subsequent Create may proceed.
func (e *Engine) Destroy(b *Benchmark) error {
	if b == nil {
		return nil
	}
	if e.live == b {
		e.live = nil
	}
	return e.proxy.Destroy(b.Handle)
}

// Close destroys every descriptor handle (last subscribed first), then the
// engine handle, and returns the first error encountered (spec.md §4.2).
func (e *Engine) Close() error {
	var firstErr error
	for i := len(e.descriptors) - 1; i >= 0; i-- {
		if err := e.proxy.Destroy(e.descriptors[i]); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := e.proxy.Destroy(e.proxy.Engine()); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
