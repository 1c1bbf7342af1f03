// Copyright 2024 Kelpchain Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kelpchain/harvestd/internal/chain"
	"github.com/kelpchain/harvestd/internal/config"
	"github.com/kelpchain/harvestd/internal/ledger"
	"github.com/kelpchain/harvestd/internal/logging"
	"github.com/kelpchain/harvestd/internal/metrics"
	"github.com/kelpchain/harvestd/internal/validator"
	"github.com/kelpchain/harvestd/internal/version"

	_ "go.uber.org/automaxprocs"
)

var cmdlineFlags struct {
	configFile string
}

func main() {
	flag.StringVar(
		&cmdlineFlags.configFile,
		"config",
		"",
		"path to config file to load",
	)
	flag.Parse()

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Setup()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			// We don't actually care about the error here, but we have to do something
			// to appease the linter
			return
		}
	}()

	logger.Infof(
		"harvestd %s starting on %s (profile %s)",
		version.GetVersionString(),
		cfg.Network,
		cfg.Profile,
	)

	// Open importance ledger
	if err := ledger.GetLedger().Load(); err != nil {
		logger.Fatalf("failed to open ledger: %s", err)
	}
	defer func() {
		if err := ledger.GetLedger().Close(); err != nil {
			logger.Errorf("failed to close ledger: %s", err)
		}
	}()

	// Start metrics listener
	if err := metrics.Start(); err != nil {
		logger.Fatalf("failed to start metrics listener: %s", err)
	}

	// Start candidate evaluation workers
	predicate := chain.NewBlockHitPredicate(
		cfg.ChainConfig(),
		ledger.GetLedger().ImportanceOf,
	)
	validator.GetManager().Start(predicate)

	// Log accepted candidates; chain selection consumes these in a full
	// deployment
	go func() {
		for candidate := range validator.GetManager().Results() {
			logger.Infof(
				"accepted candidate at height %d",
				candidate.Block.Height,
			)
		}
	}()

	// Wait forever
	select {}
}
