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

package bloom

import (
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// EnhancedDoubleHasher generates indices by enhanced double hashing:
//
//	index(i) = (initial - i*increment - (i*i*i - i)/6) mod m
//
// The tetrahedral term keeps the sequence from cycling as early as plain double hashing does.
type EnhancedDoubleHasher struct {
	initial   uint64
	increment uint64
}

// NewEnhancedDoubleHasher creates an EnhancedDoubleHasher from a seed pair.
func NewEnhancedDoubleHasher(initial, increment uint64) *EnhancedDoubleHasher {
	return &EnhancedDoubleHasher{initial: initial, increment: increment}
}

// NewEnhancedDoubleHasherFromBytes creates an EnhancedDoubleHasher whose seed pair is read from buffer.
//
// The buffer is usually the output of a 128-bit hash of the item.
func NewEnhancedDoubleHasherFromBytes(buffer []byte) (*EnhancedDoubleHasher, error) {
	initial, increment, err := seedFromBytes(buffer)
	if err != nil {
		return nil, err
	}
	return NewEnhancedDoubleHasher(initial, increment), nil
}

// Initial returns the first seed value.
func (h *EnhancedDoubleHasher) Initial() uint64 {
	return h.initial
}

// Increment returns the second seed value.
func (h *EnhancedDoubleHasher) Increment() uint64 {
	return h.increment
}

// Indices implements Hasher.
func (h *EnhancedDoubleHasher) Indices(shape Shape) IndexProducer {
	return IndexProducerFunc(func(fn func(int) bool) bool {
		bits := shape.NumberOfBits()
		// Only the remainders of the seeds are needed; every later step stays
		// within [0, bits) with a single wrap check.
		index := bitmap.Mod(h.initial, bits)
		inc := bitmap.Mod(h.increment, bits)
		if !fn(index) {
			return false
		}
		position := 1
		for remaining := shape.NumberOfHashFunctions() - 1; remaining > 0; {
			block := min(remaining, bits)
			remaining -= block
			addend := position % bits
			for j := 0; j < block; j++ {
				index -= inc
				if index < 0 {
					index += bits
				}
				if !fn(index) {
					return false
				}
				inc += addend
				if inc >= bits {
					inc -= bits
				}
				addend++
				if addend == bits {
					addend = 0
				}
			}
			position += block
		}
		return true
	})
}

// UniqueIndices implements Hasher.
func (h *EnhancedDoubleHasher) UniqueIndices(shape Shape) IndexProducer {
	return uniqueIndices(h, shape)
}
