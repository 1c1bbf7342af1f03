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

// Profile holds the consensus constants for a network deployment. Every
// node on a network must use identical values or block validity decisions
// will diverge.
type Profile struct {
	BlockGenerationTargetTime uint64
	BlockTimeSmoothingFactor  uint64
	TotalChainImportance      uint64
	ImportanceGrouping        uint64
	NemesisGenerationHash     string
}

var Profiles = map[string]map[string]Profile{
	"mainnet": {
		"catapult": {
			BlockGenerationTargetTime: 15,
			BlockTimeSmoothingFactor:  3000,
			TotalChainImportance:      8_999_999_998,
			ImportanceGrouping:        359,
			NemesisGenerationHash:     "57f7da205008026c776cb6aed843393f04cd458e0aa2d9f1d5f31a402072b2d6",
		},
	},
	"testnet": {
		"catapult": {
			BlockGenerationTargetTime: 15,
			BlockTimeSmoothingFactor:  3000,
			TotalChainImportance:      8_999_999_998,
			ImportanceGrouping:        39,
			NemesisGenerationHash:     "16ed3d69d3ca67132aace4405aa122e5e041d58741a4364255b15201f5aaf6e4",
		},
	},
}
