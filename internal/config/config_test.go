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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mainnet", cfg.Network)
	assert.Equal(t, "catapult", cfg.Profile)
	// consensus constants come from the profile table
	profile := Profiles[cfg.Network][cfg.Profile]
	assert.Equal(t, profile.TotalChainImportance, cfg.Chain.TotalChainImportance)
	assert.Equal(t, profile.ImportanceGrouping, cfg.Chain.ImportanceGrouping)
	assert.Equal(t, profile.BlockGenerationTargetTime, cfg.Chain.BlockGenerationTargetTime)
}

func TestChainConfigConversion(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	chainConfig := cfg.ChainConfig()
	assert.Equal(t, cfg.Chain.BlockGenerationTargetTime, chainConfig.BlockGenerationTargetTime)
	assert.Equal(t, cfg.Chain.BlockTimeSmoothingFactor, chainConfig.BlockTimeSmoothingFactor)
	assert.Equal(t, cfg.Chain.TotalChainImportance, chainConfig.TotalChainImportance)
}

func TestValidateProfile(t *testing.T) {
	cfg := &Config{Network: "mainnet", Profile: "catapult"}
	assert.NoError(t, cfg.validateProfile())

	cfg = &Config{Network: "devnet", Profile: "catapult"}
	assert.Error(t, cfg.validateProfile())

	cfg = &Config{Network: "mainnet", Profile: "bogus"}
	assert.Error(t, cfg.validateProfile())
}

func TestChainConfigValidation(t *testing.T) {
	valid := ChainConfig{
		BlockGenerationTargetTime: 15,
		TotalChainImportance:      8_999_999_998,
		ImportanceGrouping:        359,
	}
	assert.NoError(t, valid.validate())

	// zero total chain importance would divide by zero inside the target
	// calculation
	invalid := valid
	invalid.TotalChainImportance = 0
	assert.Error(t, invalid.validate())

	invalid = valid
	invalid.ImportanceGrouping = 0
	assert.Error(t, invalid.validate())

	invalid = valid
	invalid.BlockGenerationTargetTime = 0
	assert.Error(t, invalid.validate())
}
