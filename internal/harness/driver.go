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

// Package harness is the Harness Driver (C8): parses the CLI surface,
// loads the backend, resolves run configuration into benchmark requests,
// and drives each one through the Engine and Runner in sequence
// (spec.md §4.8).
package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/bridge"
	"github.com/hebench/frontend-sub001/internal/config"
	"github.com/hebench/frontend-sub001/internal/dataset"
	"github.com/hebench/frontend-sub001/internal/engine"
	"github.com/hebench/frontend-sub001/internal/report"
	"github.com/hebench/frontend-sub001/internal/runner"
)

// Options mirrors the CLI surface spec.md §6 fixes.
type Options struct {
	BackendLibPath   string
	ConfigFile       string
	DumpConfig       bool
	EnableValidation bool
	RunOverview      bool
	RandomSeed       uint64
	ReportDelayMs    uint64
	ReportRootPath   string
	SinglePathReport bool
}

// summaryLine is one row of the final aggregate table (spec.md §4.8 step 6).
type summaryLine struct {
	Header   string
	Status   string
	WallMean string
	CPUMean  string
}

// Run executes the full Harness Driver sequence (spec.md §4.8): load the
// backend, build the Engine, either dump a default config or resolve one
// from disk, then run every request in order, pacing between them and
// aborting only on a CRITICAL_ERROR backend failure.
func Run(logger *zap.SugaredLogger, opts Options) error {
	if opts.BackendLibPath == "" {
		return &config.ConfigError{Reason: "required flag missing", Location: "--backend_lib_path"}
	}
	if err := validatePath(opts.BackendLibPath); err != nil {
		return fmt.Errorf("backend_lib_path: %w", err)
	}
	if opts.ConfigFile != "" {
		if err := validatePath(opts.ConfigFile); err != nil {
			return fmt.Errorf("benchmark_config_file: %w", err)
		}
	}

	proxy, err := bridge.Load(opts.BackendLibPath)
	if err != nil {
		return fmt.Errorf("loading backend: %w", err)
	}
	defer func() {
		if closeErr := proxy.Close(); closeErr != nil {
			logger.Warnw("closing backend library", "error", closeErr)
		}
	}()

	return runWithProxy(logger, proxy, opts)
}

// runWithProxy is Run's body once a backend is loaded, split out so tests
// can drive the full Driver sequence against a fake Proxy without ever
// dlopening a real shared object.
func runWithProxy(logger *zap.SugaredLogger, proxy *bridge.Proxy, opts Options) error {
	eng, err := engine.New(proxy, logger)
	if err != nil {
		return fmt.Errorf("initializing engine: %w", err)
	}
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			logger.Warnw("closing engine", "error", closeErr)
		}
	}()

	if opts.DumpConfig {
		return dumpConfig(eng, opts)
	}

	requests, err := loadRequests(opts, eng)
	if err != nil {
		return err
	}

	logger.Infow("starting run", "random_seed", opts.RandomSeed, "requests", len(requests))

	var summaries []summaryLine
	var critical error
	for i, req := range requests {
		line, runErr := runOne(logger, eng, proxy, opts, req)
		if runErr != nil {
			var backendErr *bridge.Error
			if errors.As(runErr, &backendErr) && backendErr.Critical() {
				logger.Errorw("critical backend error, aborting run", "request", i, "error", runErr)
				critical = runErr
				break
			}
			logger.Errorw("benchmark failed", "request", i, "error", runErr)
			summaries = append(summaries, summaryLine{Header: fmt.Sprintf("request %d", i), Status: "FAILED"})
			continue
		}
		summaries = append(summaries, line)

		if i < len(requests)-1 && opts.ReportDelayMs > 0 {
			time.Sleep(time.Duration(opts.ReportDelayMs) * time.Millisecond)
		}
	}

	if opts.RunOverview {
		printOverview(summaries)
	}

	if critical != nil {
		return critical
	}
	return nil
}

func dumpConfig(eng *engine.Engine, opts Options) error {
	if opts.ConfigFile == "" {
		return &config.ConfigError{Reason: "--dump_config requires --benchmark_config_file", Location: "--benchmark_config_file"}
	}
	cfg, err := config.DefaultConfig(eng, opts.RandomSeed)
	if err != nil {
		return fmt.Errorf("building default config: %w", err)
	}
	return config.Save(opts.ConfigFile, cfg)
}

// loadRequests resolves the ordered request list: from the config file if
// one was given, otherwise one default-params request per benchmark the
// backend registers.
func loadRequests(opts Options, eng *engine.Engine) ([]config.BenchmarkRequest, error) {
	if opts.ConfigFile == "" {
		cfg, err := config.DefaultConfig(eng, opts.RandomSeed)
		if err != nil {
			return nil, err
		}
		return cfg.Requests()
	}
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	return cfg.Requests()
}

// resolveIndex finds the backend descriptor index a request targets,
// either directly or by matching its declared workload id.
func resolveIndex(eng *engine.Engine, req config.BenchmarkRequest) (int, error) {
	if req.DescriptorIndex >= 0 {
		return req.DescriptorIndex, nil
	}
	if req.WorkloadID == nil {
		return -1, &config.ConfigError{Reason: "request names neither descriptor_index nor workload_id", Location: "benchmarks[]"}
	}
	for i := 0; i < eng.Count(); i++ {
		token, err := eng.Describe(i, engine.DescribeConfig{})
		if err != nil {
			continue
		}
		if token.Descriptor.WorkloadID == *req.WorkloadID {
			return i, nil
		}
	}
	return -1, &config.ConfigError{
		Reason:   fmt.Sprintf("no backend benchmark matches workload id %d", *req.WorkloadID),
		Location: "benchmarks[]",
	}
}

func runOne(logger *zap.SugaredLogger, eng *engine.Engine, proxy *bridge.Proxy, opts Options, req config.BenchmarkRequest) (summaryLine, error) {
	index, err := resolveIndex(eng, req)
	if err != nil {
		return summaryLine{}, err
	}

	token, err := eng.Describe(index, engine.DescribeConfig{
		ParamOverrides:      req.WorkloadParams,
		SampleSizeOverrides: req.SampleCounts,
		ForceConfig:         req.ForceConfig,
	})
	if err != nil {
		return summaryLine{}, err
	}
	if req.MinTestTimeMsOverride != 0 {
		token.Descriptor.CategoryParam.MinTestTimeMs = req.MinTestTimeMsOverride
	}

	benchmark, err := eng.Create(token)
	if err != nil {
		return summaryLine{}, err
	}
	defer func() {
		if destroyErr := eng.Destroy(benchmark); destroyErr != nil {
			logger.Warnw("destroying benchmark", "header", token.Header, "error", destroyErr)
		}
	}()

	var ds *dataset.Dataset
	if req.DatasetFilename != "" {
		shapes, shapeErr := token.Workload.Shapes(token.Params)
		if shapeErr != nil {
			return summaryLine{}, fmt.Errorf("resolving shapes: %w", shapeErr)
		}
		loader := &dataset.Loader{Strict: true, Logger: logger}
		ds, err = loader.Load(req.DatasetFilename, shapes, token.SampleCounts)
		if err != nil {
			return summaryLine{}, fmt.Errorf("loading dataset %q: %w", req.DatasetFilename, err)
		}
	}

	seed := opts.RandomSeed
	if req.RandomSeed != 0 {
		seed = req.RandomSeed
	}

	result, err := runner.Run(proxy, benchmark, runner.RunConfig{
		Seed:             seed,
		EnableValidation: opts.EnableValidation,
		Dataset:          ds,
		Logger:           logger,
	})
	if err != nil {
		return summaryLine{}, err
	}

	if err := writeReport(reportPathFor(opts, token), result.Report); err != nil {
		return summaryLine{}, fmt.Errorf("writing report: %w", err)
	}

	status := "OK"
	if len(result.InvalidSamples) > 0 {
		status = "VALIDATION FAILED"
	}
	return summaryLine{
		Header:   token.Header,
		Status:   status,
		WallMean: meanLabel(result.Report, true),
		CPUMean:  meanLabel(result.Report, false),
	}, nil
}

// reportPathFor lays out the per-benchmark report path under
// ReportRootPath, either nested per path fragment component or flattened
// to a single level with `-` separators (spec.md §6, --single-path-report).
func reportPathFor(opts Options, token engine.DescriptionToken) string {
	if opts.SinglePathReport {
		return filepath.Join(opts.ReportRootPath, token.PathFragment+".csv")
	}
	return filepath.Join(opts.ReportRootPath, token.PathFragment, "report.csv")
}

func writeReport(path string, r *report.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.WriteCSV(f)
}
