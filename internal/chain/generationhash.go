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
	"golang.org/x/crypto/sha3"
)

// GenerationHashInfo is a compact summary of a generation hash: the 32 most
// significant bits immediately following the leading run of zero bits, and
// the length of that run
type GenerationHashInfo struct {
	Value           uint32
	NumLeadingZeros uint32
}

// NumLeadingZeroBits returns the number of leading zero bits of the hash
// interpreted as a big-endian 256-bit integer. Returns 256 for an all-zero
// hash.
func NumLeadingZeroBits(generationHash GenerationHash) uint32 {
	for i := 0; i < GenerationHashSize; i++ {
		if generationHash[i] != 0 {
			return 8*uint32(i) + 7 - Log2(uint32(generationHash[i]))
		}
	}
	return 256
}

// ExtractGenerationHashInfo summarizes a generation hash. When the leading
// zero run reaches 224 bits the window would run past the end of the hash,
// so the last four bytes are reported instead and the zero count is clamped
// to 224; only the magnitude class matters for hashes that small.
func ExtractGenerationHashInfo(generationHash GenerationHash) GenerationHashInfo {
	numLeadingZeros := NumLeadingZeroBits(generationHash)
	if numLeadingZeros >= 224 {
		return GenerationHashInfo{
			Value:           bigEndianWord(generationHash[:], GenerationHashSize-4),
			NumLeadingZeros: 224,
		}
	}

	quotient := int(numLeadingZeros / 8)
	remainder := numLeadingZeros % 8
	value := bigEndianWord(generationHash[:], quotient)
	value <<= remainder
	if remainder > 0 {
		// complete the word with the top bits of the next byte
		value += uint32(generationHash[quotient+4]) >> (8 - remainder)
	}
	return GenerationHashInfo{Value: value, NumLeadingZeros: numLeadingZeros}
}

// NextGenerationHash derives the generation hash for the next block by
// hashing the previous generation hash with the signer's public key
func NextGenerationHash(previous GenerationHash, signer PublicKey) GenerationHash {
	hasher := sha3.New256()
	hasher.Write(previous[:])
	hasher.Write(signer[:])
	var next GenerationHash
	copy(next[:], hasher.Sum(nil))
	return next
}
