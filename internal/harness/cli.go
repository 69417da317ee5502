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
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is the harness's own release version, reported by --version.
const Version = "0.1.0"

// NewRootCommand builds the single hebench-harness command. Every CLI
// surface spec.md §6 names is a flag on this one command, not a
// subcommand — there is nothing here to dispatch between.
func NewRootCommand(logger *zap.SugaredLogger) *cobra.Command {
	var opts Options
	var showVersion bool

	cmd := &cobra.Command{
		Use:          "hebench-harness",
		Short:        "Run homomorphic-encryption benchmarks against a backend shared library",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Printf("hebench-harness version %s\n", Version)
				return nil
			}
			return Run(logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.BackendLibPath, "backend_lib_path", "b", "", "path to backend shared library (required)")
	flags.StringVarP(&opts.ConfigFile, "benchmark_config_file", "c", "", "YAML run configuration")
	flags.BoolVar(&opts.DumpConfig, "dump_config", false, "write default config to the config-file path, then exit")
	flags.BoolVarP(&opts.EnableValidation, "enable_validation", "v", true, "validate benchmark output against the reference computation")
	flags.BoolVar(&opts.RunOverview, "run_overview", true, "print a summary table to stdout")
	flags.Uint64Var(&opts.RandomSeed, "random_seed", uint64(time.Now().UnixNano()), "seed for dataset generation")
	flags.Uint64Var(&opts.ReportDelayMs, "report_delay", 1000, "milliseconds to pause between benchmarks")
	flags.StringVar(&opts.ReportRootPath, "report_root_path", ".", "directory per-benchmark reports are written under")
	flags.BoolVar(&opts.SinglePathReport, "single-path-report", false, "flatten the report directory layout to a single level with - separators")
	flags.BoolVar(&showVersion, "version", false, "print version and exit")

	return cmd
}
