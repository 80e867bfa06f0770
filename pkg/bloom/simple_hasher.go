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

// DefaultIncrement replaces a zero increment so that a SimpleHasher never repeats one index k times.
// It is the 64-bit golden ratio constant.
const DefaultIncrement uint64 = 0x9e3779b97f4a7c15

// SimpleHasher generates indices by plain double hashing:
//
//	index(i) = (initial + i*increment) mod m
type SimpleHasher struct {
	initial   uint64
	increment uint64
}

// NewSimpleHasher creates a SimpleHasher from a seed pair.
func NewSimpleHasher(initial, increment uint64) *SimpleHasher {
	if increment == 0 {
		increment = DefaultIncrement
	}
	return &SimpleHasher{initial: initial, increment: increment}
}

// NewSimpleHasherFromBytes creates a SimpleHasher whose seed pair is read from buffer.
func NewSimpleHasherFromBytes(buffer []byte) (*SimpleHasher, error) {
	initial, increment, err := seedFromBytes(buffer)
	if err != nil {
		return nil, err
	}
	return NewSimpleHasher(initial, increment), nil
}

// Initial returns the first seed value.
func (h *SimpleHasher) Initial() uint64 {
	return h.initial
}

// Increment returns the second seed value.
func (h *SimpleHasher) Increment() uint64 {
	return h.increment
}

// Indices implements Hasher.
func (h *SimpleHasher) Indices(shape Shape) IndexProducer {
	return IndexProducerFunc(func(fn func(int) bool) bool {
		bits := shape.NumberOfBits()
		index := bitmap.Mod(h.initial, bits)
		inc := bitmap.Mod(h.increment, bits)
		for i := 0; i < shape.NumberOfHashFunctions(); i++ {
			if !fn(index) {
				return false
			}
			index += inc
			if index >= bits {
				index -= bits
			}
		}
		return true
	})
}

// UniqueIndices implements Hasher.
func (h *SimpleHasher) UniqueIndices(shape Shape) IndexProducer {
	return uniqueIndices(h, shape)
}
