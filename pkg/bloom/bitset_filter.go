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
	"github.com/bits-and-blooms/bitset"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// BitSetBloomFilter is a dense filter stored in a bitset.BitSet of m bits.
type BitSetBloomFilter struct {
	shape Shape
	bits  *bitset.BitSet
}

// NewBitSetBloomFilter creates an empty filter for shape.
func NewBitSetBloomFilter(shape Shape) *BitSetBloomFilter {
	return &BitSetBloomFilter{
		shape: shape,
		bits:  bitset.New(uint(shape.NumberOfBits())),
	}
}

// Shape implements BloomFilter.
func (f *BitSetBloomFilter) Shape() Shape {
	return f.shape
}

// Characteristics implements BloomFilter.
func (f *BitSetBloomFilter) Characteristics() Characteristics {
	return 0
}

// Cardinality implements BloomFilter.
func (f *BitSetBloomFilter) Cardinality() int {
	return int(f.bits.Count())
}

// IsEmpty implements BloomFilter.
func (f *BitSetBloomFilter) IsEmpty() bool {
	return f.bits.None()
}

// Clear implements BloomFilter.
func (f *BitSetBloomFilter) Clear() {
	f.bits.ClearAll()
}

// Copy implements BloomFilter.
func (f *BitSetBloomFilter) Copy() BloomFilter {
	return &BitSetBloomFilter{shape: f.shape, bits: f.bits.Clone()}
}

// ForEachIndex implements IndexProducer.
func (f *BitSetBloomFilter) ForEachIndex(fn func(int) bool) bool {
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		if !fn(int(i)) {
			return false
		}
	}
	return true
}

// ForEachBitMap implements BitMapProducer.
func (f *BitSetBloomFilter) ForEachBitMap(fn func(uint64) bool) bool {
	for _, w := range f.bits.Words() {
		if !fn(w) {
			return false
		}
	}
	return true
}

// Contains implements BloomFilter.
func (f *BitSetBloomFilter) Contains(other BloomFilter) bool {
	if f.shape != other.Shape() {
		return false
	}
	if o, ok := other.(*BitSetBloomFilter); ok {
		return f.bits.IsSuperSet(o.bits)
	}
	if IsSparse(other) {
		return f.ContainsIndices(other)
	}
	return f.ContainsBitMaps(other)
}

// ContainsHasher implements BloomFilter.
func (f *BitSetBloomFilter) ContainsHasher(h Hasher) bool {
	return f.ContainsIndices(h.Indices(f.shape))
}

// ContainsIndices implements BloomFilter.
func (f *BitSetBloomFilter) ContainsIndices(p IndexProducer) bool {
	m := f.shape.NumberOfBits()
	return p.ForEachIndex(func(i int) bool {
		return bitmap.InRange(i, m) && f.bits.Test(uint(i))
	})
}

// ContainsBitMaps implements BloomFilter.
func (f *BitSetBloomFilter) ContainsBitMaps(p BitMapProducer) bool {
	return containsBitMaps(f, p)
}

// Merge implements BloomFilter.
func (f *BitSetBloomFilter) Merge(other BloomFilter) error {
	if err := checkShapes(f.shape, other.Shape()); err != nil {
		return err
	}
	if o, ok := other.(*BitSetBloomFilter); ok {
		f.bits.InPlaceUnion(o.bits)
		return nil
	}
	if IsSparse(other) {
		return f.MergeIndices(other)
	}
	return f.MergeBitMaps(other)
}

// MergeHasher implements BloomFilter.
func (f *BitSetBloomFilter) MergeHasher(h Hasher) error {
	return f.MergeIndices(h.Indices(f.shape))
}

// MergeIndices implements BloomFilter. Indices preceding an out of range one stay merged.
func (f *BitSetBloomFilter) MergeIndices(p IndexProducer) error {
	m := f.shape.NumberOfBits()
	var err error
	p.ForEachIndex(func(i int) bool {
		if !bitmap.InRange(i, m) {
			err = indexRangeError(i, m)
			return false
		}
		f.bits.Set(uint(i))
		return true
	})
	return err
}

// MergeBitMaps implements BloomFilter.
func (f *BitSetBloomFilter) MergeBitMaps(p BitMapProducer) error {
	return orWords(f.bits.Words(), f.shape.NumberOfBits(), p)
}
