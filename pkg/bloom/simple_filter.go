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
	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// SimpleBloomFilter is a dense filter backed by a word array of ⌈m/64⌉ words.
type SimpleBloomFilter struct {
	shape Shape
	words []uint64
	// cardinality caches the population count; -1 means stale.
	cardinality int
}

// NewSimpleBloomFilter creates an empty filter for shape.
func NewSimpleBloomFilter(shape Shape) *SimpleBloomFilter {
	return &SimpleBloomFilter{
		shape: shape,
		words: bitmap.New(shape.NumberOfBits()),
	}
}

// Shape implements BloomFilter.
func (f *SimpleBloomFilter) Shape() Shape {
	return f.shape
}

// Characteristics implements BloomFilter.
func (f *SimpleBloomFilter) Characteristics() Characteristics {
	return 0
}

// Cardinality implements BloomFilter.
func (f *SimpleBloomFilter) Cardinality() int {
	if f.cardinality < 0 {
		f.cardinality = bitmap.Cardinality(f.words)
	}
	return f.cardinality
}

// IsEmpty implements BloomFilter.
func (f *SimpleBloomFilter) IsEmpty() bool {
	return f.Cardinality() == 0
}

// Clear implements BloomFilter.
func (f *SimpleBloomFilter) Clear() {
	clear(f.words)
	f.cardinality = 0
}

// Copy implements BloomFilter.
func (f *SimpleBloomFilter) Copy() BloomFilter {
	words := make([]uint64, len(f.words))
	copy(words, f.words)
	return &SimpleBloomFilter{shape: f.shape, words: words, cardinality: f.cardinality}
}

// ForEachIndex implements IndexProducer.
func (f *SimpleBloomFilter) ForEachIndex(fn func(int) bool) bool {
	return bitmap.ForEachSetBit(f.words, fn)
}

// ForEachBitMap implements BitMapProducer.
func (f *SimpleBloomFilter) ForEachBitMap(fn func(uint64) bool) bool {
	for _, w := range f.words {
		if !fn(w) {
			return false
		}
	}
	return true
}

// Contains implements BloomFilter.
func (f *SimpleBloomFilter) Contains(other BloomFilter) bool {
	if f.shape != other.Shape() {
		return false
	}
	if IsSparse(other) {
		return f.ContainsIndices(other)
	}
	return f.ContainsBitMaps(other)
}

// ContainsHasher implements BloomFilter.
func (f *SimpleBloomFilter) ContainsHasher(h Hasher) bool {
	return f.ContainsIndices(h.Indices(f.shape))
}

// ContainsIndices implements BloomFilter.
func (f *SimpleBloomFilter) ContainsIndices(p IndexProducer) bool {
	m := f.shape.NumberOfBits()
	return p.ForEachIndex(func(i int) bool {
		return bitmap.InRange(i, m) && bitmap.Contains(f.words, i)
	})
}

// ContainsBitMaps implements BloomFilter.
func (f *SimpleBloomFilter) ContainsBitMaps(p BitMapProducer) bool {
	return containsBitMaps(f, p)
}

// Merge implements BloomFilter.
func (f *SimpleBloomFilter) Merge(other BloomFilter) error {
	if err := checkShapes(f.shape, other.Shape()); err != nil {
		return err
	}
	if IsSparse(other) {
		return f.MergeIndices(other)
	}
	return f.MergeBitMaps(other)
}

// MergeHasher implements BloomFilter.
func (f *SimpleBloomFilter) MergeHasher(h Hasher) error {
	return f.MergeIndices(h.Indices(f.shape))
}

// MergeIndices implements BloomFilter. Indices preceding an out of range one stay merged.
func (f *SimpleBloomFilter) MergeIndices(p IndexProducer) error {
	err := setIndices(f.words, f.shape.NumberOfBits(), p)
	f.cardinality = -1
	return err
}

// MergeBitMaps implements BloomFilter.
// The producer must not yield more than ⌈m/64⌉ words nor enable bits at or above m.
func (f *SimpleBloomFilter) MergeBitMaps(p BitMapProducer) error {
	err := orWords(f.words, f.shape.NumberOfBits(), p)
	f.cardinality = -1
	return err
}

// orWords ORs the words of p into words, checking that p fits numberOfBits.
func orWords(words []uint64, numberOfBits int, p BitMapProducer) error {
	idx := 0
	overflow := false
	p.ForEachBitMap(func(w uint64) bool {
		if idx == len(words) {
			overflow = true
			return false
		}
		words[idx] |= w
		idx++
		return true
	})
	if overflow {
		return errors.Wrapf(ErrIndexRange, "bit map producer should send at most %d words", len(words))
	}
	if len(words) > 0 && bitmap.Excess(words[len(words)-1], numberOfBits) != 0 {
		return errors.Wrapf(ErrIndexRange, "bit map producer set a bit at or above %d", numberOfBits)
	}
	return nil
}
