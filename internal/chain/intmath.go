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
	"encoding/binary"
	"math/bits"
)

// Log2 returns the floor of the base-2 logarithm of value. value must be
// non-zero.
func Log2(value uint32) uint32 {
	return uint32(bits.Len32(value)) - 1
}

// Log2TimesPowerOfTwo calculates log2(value) * 2^exponent as a fixed-point
// integer. The integer part comes from the highest set bit; fractional bits
// are produced one per iteration by squaring a Q31 mantissa. The result is
// truncated, not rounded.
func Log2TimesPowerOfTwo(value uint32, exponent uint) uint64 {
	const precision = 31

	intPart := Log2(value)
	// normalize the mantissa to [1, 2) in Q31
	x := (uint64(value) << precision) >> intPart

	result := uint64(intPart)
	for i := uint(0); i < exponent; i++ {
		result <<= 1
		// x < 2^32, so the square fits in a uint64
		x = (x * x) >> precision
		if x >= 2<<precision {
			x >>= 1
			result |= 1
		}
	}
	return result
}

// bigEndianWord reads the big-endian 32-bit word at the given byte offset
func bigEndianWord(buf []byte, offset int) uint32 {
	return binary.BigEndian.Uint32(buf[offset : offset+4])
}
