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

package chain

// GenerationHashSize is the size of a generation hash in bytes
const GenerationHashSize = 32

// GenerationHash is a 256-bit digest derived from a block and its signer,
// interpreted as a big-endian unsigned integer. It is the source of
// per-block pseudo-randomness for block-hit scoring.
type GenerationHash [GenerationHashSize]byte

// PublicKey identifies a block signer
type PublicKey [32]byte

// Height is a block height
type Height uint64

// Difficulty is the network-wide scalar throttling block production rate
type Difficulty uint64

// Importance is a signer's stake-weight at a specific height
type Importance uint64

// Timestamp is a block timestamp in milliseconds
type Timestamp uint64

// TimeSpan is a non-negative duration in milliseconds
type TimeSpan uint64

// Seconds returns the whole seconds in the time span
func (t TimeSpan) Seconds() uint64 {
	return uint64(t) / 1000
}

// TimeBetween returns the time span between two timestamps. The result is
// zero when current does not strictly follow parent.
func TimeBetween(parent Timestamp, current Timestamp) TimeSpan {
	if current <= parent {
		return 0
	}
	return TimeSpan(current - parent)
}

// Block holds the header fields consumed by block-hit scoring
type Block struct {
	Timestamp  Timestamp
	Difficulty Difficulty
	Signer     PublicKey
	Height     Height
}

// BlockHitContext bundles the derived values needed to evaluate a candidate
// block when the parent block object is unavailable
type BlockHitContext struct {
	Signer         PublicKey
	Height         Height
	ElapsedTime    TimeSpan
	Difficulty     Difficulty
	GenerationHash GenerationHash
}

// Config holds the chain-wide constants that feed the scoring functions
type Config struct {
	// BlockGenerationTargetTime is the desired inter-block time in seconds
	BlockGenerationTargetTime uint64
	// BlockTimeSmoothingFactor adjusts the target exponentially based on
	// deviation from the target block time, scaled by 1000. Zero disables
	// smoothing
	BlockTimeSmoothingFactor uint64
	// TotalChainImportance is the total importance across all accounts.
	// Must be non-zero
	TotalChainImportance uint64
}

// ImportanceLookup resolves a signer's importance at a height. It must be
// deterministic for a given (signer, height) pair and safe for concurrent
// use.
type ImportanceLookup func(signer PublicKey, height Height) Importance

// ConvertToImportanceHeight converts a block height to the grouped height
// at which importances are recorded. grouping must be non-zero.
func ConvertToImportanceHeight(height Height, grouping uint64) Height {
	if height == 0 {
		return 1
	}
	grouped := (uint64(height) - 1) / grouping * grouping
	if grouped < 1 {
		grouped = 1
	}
	return Height(grouped)
}
