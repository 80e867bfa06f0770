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
	"math"

	"github.com/RoaringBitmap/roaring"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// SparseBloomFilter stores the ordered set of enabled indices.
//
// It suits filters holding few items relative to m, where the index set is
// smaller than the word array.
type SparseBloomFilter struct {
	shape   Shape
	indices *roaring.Bitmap
}

// NewSparseBloomFilter creates an empty filter for shape.
func NewSparseBloomFilter(shape Shape) *SparseBloomFilter {
	return &SparseBloomFilter{
		shape:   shape,
		indices: roaring.New(),
	}
}

// Shape implements BloomFilter.
func (f *SparseBloomFilter) Shape() Shape {
	return f.shape
}

// Characteristics implements BloomFilter.
func (f *SparseBloomFilter) Characteristics() Characteristics {
	return Sparse
}

// Cardinality implements BloomFilter.
func (f *SparseBloomFilter) Cardinality() int {
	return int(f.indices.GetCardinality())
}

// IsEmpty implements BloomFilter.
func (f *SparseBloomFilter) IsEmpty() bool {
	return f.indices.IsEmpty()
}

// Clear implements BloomFilter.
func (f *SparseBloomFilter) Clear() {
	f.indices.Clear()
}

// Copy implements BloomFilter.
func (f *SparseBloomFilter) Copy() BloomFilter {
	return &SparseBloomFilter{shape: f.shape, indices: f.indices.Clone()}
}

// ForEachIndex implements IndexProducer.
func (f *SparseBloomFilter) ForEachIndex(fn func(int) bool) bool {
	it := f.indices.Iterator()
	for it.HasNext() {
		if !fn(int(it.Next())) {
			return false
		}
	}
	return true
}

// ForEachBitMap implements BitMapProducer.
//
// Words are assembled from the ordered indices as they stream by; a word
// without members is emitted as 0 and trailing words are padded up to ⌈m/64⌉.
func (f *SparseBloomFilter) ForEachBitMap(fn func(uint64) bool) bool {
	limit := f.shape.NumberOfWords()
	var word uint64
	idx := 0
	it := f.indices.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		for bitmap.WordIndex(i) != idx {
			if !fn(word) {
				return false
			}
			word = 0
			idx++
		}
		word |= bitmap.WordBit(i)
	}
	if !fn(word) {
		return false
	}
	for idx++; idx < limit; idx++ {
		if !fn(0) {
			return false
		}
	}
	return true
}

// Contains implements BloomFilter.
func (f *SparseBloomFilter) Contains(other BloomFilter) bool {
	if f.shape != other.Shape() {
		return false
	}
	return f.ContainsIndices(other)
}

// ContainsHasher implements BloomFilter.
func (f *SparseBloomFilter) ContainsHasher(h Hasher) bool {
	return f.ContainsIndices(h.Indices(f.shape))
}

// ContainsIndices implements BloomFilter.
func (f *SparseBloomFilter) ContainsIndices(p IndexProducer) bool {
	m := f.shape.NumberOfBits()
	return p.ForEachIndex(func(i int) bool {
		return bitmap.InRange(i, m) && f.indices.Contains(uint32(i))
	})
}

// ContainsBitMaps implements BloomFilter.
func (f *SparseBloomFilter) ContainsBitMaps(p BitMapProducer) bool {
	return f.ContainsIndices(IndicesFromBitMaps(p))
}

// Merge implements BloomFilter.
func (f *SparseBloomFilter) Merge(other BloomFilter) error {
	if err := checkShapes(f.shape, other.Shape()); err != nil {
		return err
	}
	if o, ok := other.(*SparseBloomFilter); ok {
		f.indices.Or(o.indices)
		return nil
	}
	return f.MergeIndices(other)
}

// MergeHasher implements BloomFilter.
func (f *SparseBloomFilter) MergeHasher(h Hasher) error {
	return f.MergeIndices(h.Indices(f.shape))
}

// MergeIndices implements BloomFilter.
//
// The range of the merged indices is checked once all of them have been
// inserted. On ErrIndexRange the filter keeps every inserted index,
// including the offending ones, and should no longer be trusted.
func (f *SparseBloomFilter) MergeIndices(p IndexProducer) error {
	lowest, highest := math.MaxInt, math.MinInt
	p.ForEachIndex(func(i int) bool {
		f.indices.Add(uint32(i))
		lowest = min(lowest, i)
		highest = max(highest, i)
		return true
	})
	m := f.shape.NumberOfBits()
	if lowest < 0 {
		return indexRangeError(lowest, m)
	}
	if highest != math.MinInt && highest >= m {
		return indexRangeError(highest, m)
	}
	return nil
}

// MergeBitMaps implements BloomFilter.
func (f *SparseBloomFilter) MergeBitMaps(p BitMapProducer) error {
	return f.MergeIndices(IndicesFromBitMaps(p))
}
