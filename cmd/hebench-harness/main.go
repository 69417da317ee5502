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

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/hebench/frontend-sub001/internal/harness"
)

func main() {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.TimeKey = "ts"
	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hebench-harness: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	cmd := harness.NewRootCommand(logger.Sugar())
	if err := cmd.Execute(); err != nil {
		logger.Sugar().Errorw("run failed", "error", err)
		os.Exit(1)
	}
}
