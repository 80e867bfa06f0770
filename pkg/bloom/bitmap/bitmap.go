// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package bitmap implements the bit addressing arithmetic shared by the bloom filters.
//
// A bit map is a slice of 64-bit words. Word w holds bits [64w, 64w+63] and
// bit i lives in word i>>6 under the mask 1<<(i&63).
package bitmap

import "math/bits"

// WordBits is the number of bits held by a single word.
const WordBits = 64

const (
	divideByWord = 6
	wordMask     = WordBits - 1
)

// NumberOfWords returns the number of words required to hold numberOfBits bits.
func NumberOfWords(numberOfBits int) int {
	if numberOfBits <= 0 {
		return 0
	}
	return ((numberOfBits - 1) >> divideByWord) + 1
}

// New allocates a zeroed bit map large enough for numberOfBits bits.
func New(numberOfBits int) []uint64 {
	return make([]uint64, NumberOfWords(numberOfBits))
}

// WordIndex returns the index of the word holding bit index.
//
// A negative index yields a negative word index so that the caller's
// bounds check fails instead of silently wrapping.
func WordIndex(index int) int {
	return index >> divideByWord
}

// WordBit returns the mask selecting bit index within its word.
func WordBit(index int) uint64 {
	return 1 << (uint(index) & wordMask)
}

// Contains reports whether bit index is set. The index must be addressable by words.
func Contains(words []uint64, index int) bool {
	return words[WordIndex(index)]&WordBit(index) != 0
}

// Set turns on bit index. The index must be addressable by words.
func Set(words []uint64, index int) {
	words[WordIndex(index)] |= WordBit(index)
}

// InRange reports whether index addresses one of numberOfBits bits.
func InRange(index, numberOfBits int) bool {
	return index >= 0 && index < numberOfBits
}

// Cardinality returns the number of set bits.
func Cardinality(words []uint64) int {
	count := 0
	for _, w := range words {
		count += bits.OnesCount64(w)
	}
	return count
}

// Excess returns the bits of the final word that lie at or above numberOfBits.
// A bit map produced for numberOfBits must have no excess.
func Excess(last uint64, numberOfBits int) uint64 {
	tail := uint(numberOfBits) & wordMask
	if tail == 0 {
		return 0
	}
	return last >> tail
}

// Mod returns the unsigned remainder of dividend by a positive divisor.
func Mod(dividend uint64, divisor int) int {
	return int(dividend % uint64(divisor))
}

// ForEachSetBit calls fn with the absolute index of every set bit in ascending order.
// It stops and returns false as soon as fn returns false.
func ForEachSetBit(words []uint64, fn func(index int) bool) bool {
	for i, w := range words {
		base := i * WordBits
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			if !fn(base + tz) {
				return false
			}
			w &= w - 1
		}
	}
	return true
}
