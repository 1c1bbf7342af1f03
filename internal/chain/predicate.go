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
	"math/big"
)

// BlockHitPredicate decides whether a candidate block hits its target. It
// is immutable after construction and safe for concurrent use; the only
// blocking point is the injected importance lookup.
type BlockHitPredicate struct {
	config           Config
	importanceLookup ImportanceLookup
}

// NewBlockHitPredicate creates a block hit predicate around a chain
// configuration and an importance lookup
func NewBlockHitPredicate(config Config, importanceLookup ImportanceLookup) *BlockHitPredicate {
	return &BlockHitPredicate{
		config:           config,
		importanceLookup: importanceLookup,
	}
}

// Hit returns true when the block's hit is strictly less than its target.
// Ties reject.
func (p *BlockHitPredicate) Hit(parentBlock *Block, block *Block, generationHash GenerationHash) bool {
	importance := p.importanceLookup(block.Signer, block.Height)
	hit := CalculateHit(generationHash)
	target := CalculateBlockTarget(parentBlock, block, importance, p.config)
	return new(big.Int).SetUint64(hit).Cmp(target) < 0
}

// HitContext evaluates the predicate from pre-extracted block values
func (p *BlockHitPredicate) HitContext(context *BlockHitContext) bool {
	importance := p.importanceLookup(context.Signer, context.Height)
	hit := CalculateHit(context.GenerationHash)
	target := CalculateTarget(context.ElapsedTime, context.Difficulty, importance, p.config)
	return new(big.Int).SetUint64(hit).Cmp(target) < 0
}
