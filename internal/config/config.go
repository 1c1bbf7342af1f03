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

package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/kelpchain/harvestd/internal/chain"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Validator ValidatorConfig `yaml:"validator"`
	Chain     ChainConfig     `yaml:"chain"`
	Network   string          `yaml:"network" envconfig:"NETWORK"`
	Profile   string          `yaml:"profile" envconfig:"PROFILE"`
}

type LoggingConfig struct {
	Level string `yaml:"level" envconfig:"LOGGING_LEVEL"`
}

type StorageConfig struct {
	Directory string `yaml:"dir" envconfig:"STORAGE_DIR"`
}

type MetricsConfig struct {
	ListenAddress string `yaml:"address" envconfig:"METRICS_LISTEN_ADDRESS"`
	ListenPort    uint   `yaml:"port"    envconfig:"METRICS_LISTEN_PORT"`
}

type ValidatorConfig struct {
	WorkerCount     int `yaml:"workers"         envconfig:"WORKER_COUNT"`
	RateLogInterval int `yaml:"rateLogInterval" envconfig:"RATE_LOG_INTERVAL"`
}

// ChainConfig carries the consensus constants for the selected profile.
// These are populated from the profile tables, not from the environment;
// every node on a network must agree on them.
type ChainConfig struct {
	BlockGenerationTargetTime uint64 `yaml:"blockGenerationTargetTime"`
	BlockTimeSmoothingFactor  uint64 `yaml:"blockTimeSmoothingFactor"`
	TotalChainImportance      uint64 `yaml:"totalChainImportance"`
	ImportanceGrouping        uint64 `yaml:"importanceGrouping"`
	NemesisGenerationHash     string `yaml:"nemesisGenerationHash"`
}

// Singleton config instance with default values
var globalConfig = &Config{
	Metrics: MetricsConfig{
		ListenAddress: "",
		ListenPort:    8081,
	},
	Storage: StorageConfig{
		Directory: "./.harvestd",
	},
	// The default worker config is somewhat conservative: worker count is set
	// to half of the available logical CPUs
	Validator: ValidatorConfig{
		WorkerCount:     max(1, runtime.NumCPU()/2),
		RateLogInterval: 60,
	},
	Network: "mainnet",
	Profile: "catapult",
}

func Load(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		err = yaml.Unmarshal(buf, globalConfig)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	// Load config values from environment variables
	// We use "dummy" as the app name here to (mostly) prevent picking up env
	// vars that we hadn't explicitly specified in annotations above
	err := envconfig.Process("dummy", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	// Check specified profile
	if err := globalConfig.validateProfile(); err != nil {
		return nil, err
	}
	// Populate consensus constants from the profile
	if err := globalConfig.populateChain(); err != nil {
		return nil, err
	}
	return globalConfig, nil
}

// GetConfig returns the global config instance
func GetConfig() *Config {
	return globalConfig
}

// ChainConfig returns the scoring configuration for the selected profile
func (c *Config) ChainConfig() chain.Config {
	return chain.Config{
		BlockGenerationTargetTime: c.Chain.BlockGenerationTargetTime,
		BlockTimeSmoothingFactor:  c.Chain.BlockTimeSmoothingFactor,
		TotalChainImportance:      c.Chain.TotalChainImportance,
	}
}

func (c *Config) validateProfile() error {
	if _, ok := Profiles[c.Network]; !ok {
		return fmt.Errorf("no profiles defined for network %s", c.Network)
	}
	if _, ok := Profiles[c.Network][c.Profile]; !ok {
		return fmt.Errorf(
			"no profile %s defined for network %s",
			c.Profile,
			c.Network,
		)
	}
	return nil
}

func (c *Config) populateChain() error {
	profile := Profiles[c.Network][c.Profile]
	c.Chain.BlockGenerationTargetTime = profile.BlockGenerationTargetTime
	c.Chain.BlockTimeSmoothingFactor = profile.BlockTimeSmoothingFactor
	c.Chain.TotalChainImportance = profile.TotalChainImportance
	c.Chain.ImportanceGrouping = profile.ImportanceGrouping
	c.Chain.NemesisGenerationHash = profile.NemesisGenerationHash
	return c.Chain.validate()
}

// validate rejects the misconfigurations that would lead to division by
// zero inside the scoring functions. These are fatal at load time, never
// per-block failures.
func (c *ChainConfig) validate() error {
	if c.TotalChainImportance == 0 {
		return fmt.Errorf("total chain importance must be non-zero")
	}
	if c.ImportanceGrouping == 0 {
		return fmt.Errorf("importance grouping must be non-zero")
	}
	if c.BlockGenerationTargetTime == 0 {
		return fmt.Errorf("block generation target time must be non-zero")
	}
	return nil
}
