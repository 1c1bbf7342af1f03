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
	"testing"
)

func TestBlockHitPredicateMatchesConstituentCalls(t *testing.T) {
	importances := map[PublicKey]Importance{}
	var signerA, signerB PublicKey
	signerA[0] = 0x0A
	signerB[0] = 0x0B
	importances[signerA] = 1000
	importances[signerB] = 1

	lookup := func(signer PublicKey, height Height) Importance {
		return importances[signer]
	}
	predicate := NewBlockHitPredicate(testConfig, lookup)

	parent := &Block{Timestamp: 1000}
	testDefs := []struct {
		name   string
		signer PublicKey
		hash   GenerationHash
	}{
		{"full importance, small hash", signerA, hashWithPrefix(0x00, 0x00, 0x01)},
		{"full importance, large hash", signerA, hashWithPrefix(0xFF, 0xFF, 0xFF, 0xFF)},
		{"low importance, small hash", signerB, hashWithPrefix(0x00, 0x00, 0x01)},
		{"low importance, large hash", signerB, hashWithPrefix(0xFE, 0xDC)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			block := &Block{
				Timestamp:  61000,
				Difficulty: 100,
				Signer:     testDef.signer,
				Height:     7,
			}
			result := predicate.Hit(parent, block, testDef.hash)

			hit := CalculateHit(testDef.hash)
			target := CalculateBlockTarget(parent, block, lookup(testDef.signer, 7), testConfig)
			expected := new(big.Int).SetUint64(hit).Cmp(target) < 0
			if result != expected {
				t.Fatalf("predicate disagrees with constituent calls: got %v, wanted %v", result, expected)
			}
		})
	}
}

func TestBlockHitPredicateAccepts(t *testing.T) {
	var signer PublicKey
	signer[0] = 0x0A
	lookup := func(PublicKey, Height) Importance {
		return 1000
	}
	predicate := NewBlockHitPredicate(testConfig, lookup)

	parent := &Block{Timestamp: 1000}
	block := &Block{Timestamp: 61000, Difficulty: 1, Signer: signer, Height: 7}
	// full chain importance at minimum difficulty dwarfs any hit
	if !predicate.Hit(parent, block, hashWithPrefix(0x7F)) {
		t.Fatalf("expected block to hit")
	}
}

func TestBlockHitPredicateRejectsZeroImportance(t *testing.T) {
	lookup := func(PublicKey, Height) Importance {
		return 0
	}
	predicate := NewBlockHitPredicate(testConfig, lookup)

	parent := &Block{Timestamp: 1000}
	block := &Block{Timestamp: 61000, Difficulty: 1, Height: 7}
	// zero importance means a zero target, and ties reject
	if predicate.Hit(parent, block, hashWithPrefix(0xFF, 0xFF, 0xFF, 0xFF)) {
		t.Fatalf("expected zero-importance block to be rejected")
	}
}

func TestBlockHitPredicateRejectsNonCausalOrdering(t *testing.T) {
	lookup := func(PublicKey, Height) Importance {
		return 1000
	}
	predicate := NewBlockHitPredicate(testConfig, lookup)

	parent := &Block{Timestamp: 61000}
	block := &Block{Timestamp: 61000, Difficulty: 1, Height: 7}
	if predicate.Hit(parent, block, hashWithPrefix(0x00, 0x00, 0x01)) {
		t.Fatalf("expected non-causal block to be rejected")
	}
}

func TestBlockHitPredicateContextForm(t *testing.T) {
	var signer PublicKey
	signer[0] = 0x0A
	var lookupSigner PublicKey
	var lookupHeight Height
	lookup := func(signer PublicKey, height Height) Importance {
		lookupSigner = signer
		lookupHeight = height
		return 1000
	}
	predicate := NewBlockHitPredicate(testConfig, lookup)

	context := &BlockHitContext{
		Signer:         signer,
		Height:         42,
		ElapsedTime:    TimeSpan(60000),
		Difficulty:     1,
		GenerationHash: hashWithPrefix(0x7F),
	}
	if !predicate.HitContext(context) {
		t.Fatalf("expected context block to hit")
	}
	if lookupSigner != signer || lookupHeight != 42 {
		t.Fatalf("lookup invoked with wrong identity: %x at %d", lookupSigner, lookupHeight)
	}

	// the context form and the block form agree
	parent := &Block{Timestamp: 0}
	block := &Block{Timestamp: 60000, Difficulty: 1, Signer: signer, Height: 42}
	if predicate.Hit(parent, block, context.GenerationHash) != predicate.HitContext(context) {
		t.Fatalf("context and block forms disagree")
	}
}
