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

package validator

import (
	"testing"
	"time"

	"github.com/kelpchain/harvestd/internal/chain"
	"github.com/kelpchain/harvestd/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testChainConfig = chain.Config{
	BlockGenerationTargetTime: 60,
	BlockTimeSmoothingFactor:  0,
	TotalChainImportance:      1000,
}

func testCandidate(importance chain.Importance) (Candidate, chain.ImportanceLookup) {
	var signer chain.PublicKey
	signer[0] = 0x0A
	var hash chain.GenerationHash
	hash[0] = 0x7F
	candidate := Candidate{
		Parent: &chain.Block{Timestamp: 0},
		Block: &chain.Block{
			Timestamp:  60000,
			Difficulty: 1,
			Signer:     signer,
			Height:     7,
		},
		GenerationHash: hash,
	}
	lookup := func(chain.PublicKey, chain.Height) chain.Importance {
		return importance
	}
	return candidate, lookup
}

func TestManagerDeliversAcceptedCandidates(t *testing.T) {
	config.GetConfig().Validator.WorkerCount = 2

	candidate, lookup := testCandidate(1000)
	manager := &Manager{}
	manager.Start(chain.NewBlockHitPredicate(testChainConfig, lookup))
	defer manager.Stop()

	manager.Submit(candidate)
	select {
	case result := <-manager.Results():
		assert.Equal(t, chain.Height(7), result.Block.Height)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for accepted candidate")
	}
}

func TestManagerDropsRejectedCandidates(t *testing.T) {
	config.GetConfig().Validator.WorkerCount = 2

	// zero importance guarantees rejection
	candidate, lookup := testCandidate(0)
	manager := &Manager{}
	manager.Start(chain.NewBlockHitPredicate(testChainConfig, lookup))

	manager.Submit(candidate)
	select {
	case result, ok := <-manager.Results():
		require.False(t, ok, "unexpected result: %+v", result)
	case <-time.After(250 * time.Millisecond):
	}
	manager.Stop()
}

func TestManagerStartIsIdempotent(t *testing.T) {
	config.GetConfig().Validator.WorkerCount = 1

	_, lookup := testCandidate(1000)
	manager := &Manager{}
	predicate := chain.NewBlockHitPredicate(testChainConfig, lookup)
	manager.Start(predicate)
	manager.Start(predicate)
	manager.Stop()
	// stopping twice is also safe
	manager.Stop()
}

func TestBlockID(t *testing.T) {
	var signer chain.PublicKey
	signer[0] = 0x0A
	block := &chain.Block{Timestamp: 60000, Signer: signer, Height: 7}

	id := blockID(block)
	assert.Len(t, id, 8)
	// deterministic
	assert.Equal(t, id, blockID(block))
	// sensitive to header fields
	other := &chain.Block{Timestamp: 60000, Signer: signer, Height: 8}
	assert.NotEqual(t, id, blockID(other))
}
