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

// Package config is the Configurator (C7): reads and writes the YAML run
// configuration (spec.md §6) and resolves it into an ordered list of
// BenchmarkRequest values the Harness Driver hands to the Engine and
// Runner in turn.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/engine"
)

// ParamValue is a YAML-friendly tagged union mirroring bridge.WorkloadParam:
// exactly one of Int64, UInt64 or Float64 is set, matching the param's
// declared bridge.ParamTag.
type ParamValue struct {
	Name    string   `yaml:"name"`
	Int64   *int64   `yaml:"int64,omitempty"`
	UInt64  *uint64  `yaml:"uint64,omitempty"`
	Float64 *float64 `yaml:"float64,omitempty"`
}

// ToWorkloadParam converts p to its bridge.WorkloadParam equivalent.
func (p ParamValue) ToWorkloadParam() (bridge.WorkloadParam, error) {
	switch {
	case p.Int64 != nil:
		return bridge.NewInt64Param(p.Name, *p.Int64), nil
	case p.UInt64 != nil:
		return bridge.NewUInt64Param(p.Name, *p.UInt64), nil
	case p.Float64 != nil:
		return bridge.NewFloat64Param(p.Name, *p.Float64), nil
	default:
		return bridge.WorkloadParam{}, fmt.Errorf("config: param %q carries no value", p.Name)
	}
}

// paramValueFrom is ToWorkloadParam's inverse, used when dumping defaults.
func paramValueFrom(p bridge.WorkloadParam) ParamValue {
	v := ParamValue{Name: p.Name}
	switch p.Tag {
	case bridge.ParamTagInt64:
		i, _ := p.AsI64()
		v.Int64 = &i
	case bridge.ParamTagUInt64:
		u, _ := p.AsU64()
		v.UInt64 = &u
	case bridge.ParamTagFloat64:
		f, _ := p.AsF64()
		v.Float64 = &f
	}
	return v
}

// BenchmarkEntry is one element of the YAML `benchmarks` list (spec.md
// §6). Exactly one of DescriptorIndex or WorkloadID identifies which
// backend benchmark this entry configures; DescriptorIndex takes
// precedence when both are set.
type BenchmarkEntry struct {
	DescriptorIndex *int         `yaml:"descriptor_index,omitempty"`
	WorkloadID      *uint32      `yaml:"workload_id,omitempty"`
	Params          []ParamValue `yaml:"params,omitempty"`
	SampleSizes     []uint64     `yaml:"sample_sizes,omitempty"`
	Dataset         string       `yaml:"dataset,omitempty"`
	ForceConfig     bool         `yaml:"force_config,omitempty"`
}

// RunConfig is the top-level YAML run configuration document (spec.md §6).
type RunConfig struct {
	RandomSeed         uint64           `yaml:"random_seed"`
	DefaultMinTestTime uint64           `yaml:"default_min_test_time"`
	DefaultSampleSizes []uint64         `yaml:"default_sample_sizes,omitempty"`
	Benchmarks         []BenchmarkEntry `yaml:"benchmarks"`
}

// BenchmarkRequest is what the Configurator hands the Driver for one
// benchmark (spec.md §4.7): a fully resolved request the Driver threads
// through Engine.Describe, Engine.Create and runner.Run.
type BenchmarkRequest struct {
	// DescriptorIndex selects the backend benchmark directly; -1 means
	// "resolve via WorkloadID instead" (the YAML's workload_id_tuple form).
	DescriptorIndex int
	WorkloadID      *uint32

	WorkloadParams        []bridge.WorkloadParam
	SampleCounts          []uint64
	DatasetFilename       string
	MinTestTimeMsOverride uint64
	RandomSeed            uint64
	ForceConfig           bool
}

// ConfigError reports a malformed or unresolvable run configuration
// (spec.md §7: "ConfigError(reason, location)"). It is always fatal
// before any benchmark starts.
type ConfigError struct {
	Reason   string
	Location string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s (%s)", e.Reason, e.Location)
}

// Load reads and parses the YAML run configuration at path.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error(), Location: path}
	}
	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Reason: err.Error(), Location: path}
	}
	return &cfg, nil
}

// Save marshals cfg as YAML and writes it to path, used by --dump_config.
func Save(path string, cfg *RunConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Requests resolves c into the ordered list of BenchmarkRequest values the
// Driver runs in sequence, applying the document's defaults wherever a
// per-benchmark override is absent.
func (c *RunConfig) Requests() ([]BenchmarkRequest, error) {
	reqs := make([]BenchmarkRequest, len(c.Benchmarks))
	for i, e := range c.Benchmarks {
		req := BenchmarkRequest{
			DescriptorIndex:       -1,
			WorkloadID:            e.WorkloadID,
			DatasetFilename:       e.Dataset,
			ForceConfig:           e.ForceConfig,
			RandomSeed:            c.RandomSeed,
			MinTestTimeMsOverride: c.DefaultMinTestTime,
		}
		if e.DescriptorIndex != nil {
			req.DescriptorIndex = *e.DescriptorIndex
		} else if e.WorkloadID == nil {
			return nil, &ConfigError{
				Reason:   "benchmark entry names neither descriptor_index nor workload_id",
				Location: fmt.Sprintf("benchmarks[%d]", i),
			}
		}

		sampleSizes := e.SampleSizes
		if len(sampleSizes) == 0 {
			sampleSizes = c.DefaultSampleSizes
		}
		req.SampleCounts = sampleSizes

		params := make([]bridge.WorkloadParam, len(e.Params))
		for j, p := range e.Params {
			wp, err := p.ToWorkloadParam()
			if err != nil {
				return nil, &ConfigError{Reason: err.Error(), Location: fmt.Sprintf("benchmarks[%d].params[%d]", i, j)}
			}
			params[j] = wp
		}
		req.WorkloadParams = params

		reqs[i] = req
	}
	return reqs, nil
}

// DefaultConfig builds the configuration --dump_config writes when no
// config file exists yet: one entry per benchmark the backend registers,
// carrying that descriptor's own default workload params and no sample
// size or dataset overrides, so the runner falls through to the workload
// catalogue's defaults (spec.md §4.4) unless the user edits them in.
func DefaultConfig(e *engine.Engine, seed uint64) (*RunConfig, error) {
	cfg := &RunConfig{
		RandomSeed: seed,
		Benchmarks: []BenchmarkEntry{},
	}
	for i := 0; i < e.Count(); i++ {
		params, err := e.DefaultWorkloadParams(i)
		if err != nil {
			return nil, fmt.Errorf("reading defaults for descriptor %d: %w", i, err)
		}
		idx := i
		entry := BenchmarkEntry{DescriptorIndex: &idx}
		entry.Params = make([]ParamValue, len(params))
		for j, p := range params {
			entry.Params[j] = paramValueFrom(p)
		}
		cfg.Benchmarks = append(cfg.Benchmarks, entry)
	}
	return cfg, nil
}
