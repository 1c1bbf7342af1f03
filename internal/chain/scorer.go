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

import (
	"math"
	"math/big"
)

const twoTo54 = uint64(1) << 54

// rescale to the original total chain importance
const importanceRescaleConstant = 8_999_999_998

// rational approximation of 1/log2(e) with 16-digit precision, used to
// convert base-2 logarithms to natural logarithms
const (
	lnConversionNumerator   = 10_000_000_000_000_000
	lnConversionDenominator = 14_426_950_408_889_634
)

// CalculateHit calculates the hit for a generation hash.
//
// The result approximates 2^54 * abs(log(x)), where x = value / 2^256 and
// value is the hash read as a 256-bit integer. x is always < 1, so log(x)
// is always negative. Only the 32 bits beginning at the first non-zero bit
// of the hash are used, which is accurate to within one ppm of the full
// 256-bit calculation.
func CalculateHit(generationHash GenerationHash) uint64 {
	hashInfo := ExtractGenerationHashInfo(generationHash)

	// handle edge cases
	if hashInfo.Value == 0 {
		return math.MaxUint64
	}
	if hashInfo.Value == 0xFFFFFFFF {
		return 0
	}

	// log2(value) * 2^54
	logValue := Log2TimesPowerOfTwo(hashInfo.Value, 54)

	// the result is 256 * 2^54 - logValue - (256 - 32 - numLeadingZeros) * 2^54,
	// which simplifies to the expression below
	magnitude := uint64(32+hashInfo.NumLeadingZeros)*twoTo54 - logValue

	// divide by log2(e); the product needs more than 64 bits
	result := new(big.Int).SetUint64(magnitude)
	result.Mul(result, big.NewInt(lnConversionNumerator))
	result.Div(result, big.NewInt(lnConversionDenominator))
	return result.Uint64()
}

// CalculateScore calculates the score of currentBlock relative to its
// parent. A block that does not strictly follow its parent in time scores
// zero.
//
// The subtraction deliberately wraps when the elapsed seconds exceed the
// difficulty, matching the historical chain values.
func CalculateScore(parentBlock *Block, currentBlock *Block) uint64 {
	if currentBlock.Timestamp <= parentBlock.Timestamp {
		return 0
	}

	// r = difficulty(1) - (t(1) - t(0)) / MS_In_S
	timeDiff := TimeBetween(parentBlock.Timestamp, currentBlock.Timestamp)
	return uint64(currentBlock.Difficulty) - timeDiff.Seconds()
}

// targetMultiplier returns the fixed-point smoothing multiplier: 2^54 times
// the exponential smoother, shifted left 10 bits for headroom. With
// smoothing disabled the smoother is exactly 1.0.
//
// This is the only floating-point computation in the scoring core. The
// smoother is clamped to 100.0 to bound the multiplier for very late
// blocks.
func targetMultiplier(timeDiffSeconds uint64, config Config) *big.Int {
	targetTime := config.BlockGenerationTargetTime
	smoother := 1.0
	if config.BlockTimeSmoothingFactor != 0 {
		factor := float64(config.BlockTimeSmoothingFactor) / 1000.0
		deviation := float64(int64(timeDiffSeconds - targetTime))
		smoother = math.Min(math.Exp(factor*deviation/float64(targetTime)), 100.0)
	}

	multiplier := new(big.Int).SetUint64(uint64(float64(twoTo54) * smoother))
	multiplier.Lsh(multiplier, 10)
	return multiplier
}

// CalculateTarget calculates the target for a block produced by a signer
// with the given importance after the given time span. All multiplies run
// before either divide so no precision is lost to truncation, and the whole
// chain runs in arbitrary precision.
func CalculateTarget(
	timeSpan TimeSpan,
	difficulty Difficulty,
	signerImportance Importance,
	config Config,
) *big.Int {
	target := new(big.Int).SetUint64(timeSpan.Seconds())
	target.Mul(target, new(big.Int).SetUint64(uint64(signerImportance)))
	target.Mul(target, targetMultiplier(timeSpan.Seconds(), config))
	target.Mul(target, big.NewInt(importanceRescaleConstant))
	target.Div(target, new(big.Int).SetUint64(config.TotalChainImportance))
	target.Div(target, new(big.Int).SetUint64(uint64(difficulty)))
	return target
}

// CalculateBlockTarget calculates the target for currentBlock relative to
// its parent. A block that does not strictly follow its parent in time has
// a target of zero.
func CalculateBlockTarget(
	parentBlock *Block,
	currentBlock *Block,
	signerImportance Importance,
	config Config,
) *big.Int {
	if currentBlock.Timestamp <= parentBlock.Timestamp {
		return new(big.Int)
	}

	timeDiff := TimeBetween(parentBlock.Timestamp, currentBlock.Timestamp)
	return CalculateTarget(timeDiff, currentBlock.Difficulty, signerImportance, config)
}
