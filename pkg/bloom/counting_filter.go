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

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// CountingBloomFilter keeps a counter per bit so that items can be removed.
//
// A bit is enabled while its counter is non-zero. Merging an item increments
// the counter of each of its distinct indices by one and removing it
// decrements them. A counter driven below zero, or past MaxCell, invalidates
// the filter: IsValid turns false and stays false, while the operation that
// caused it still completes. Queries on an invalid filter are unspecified.
type CountingBloomFilter interface {
	BloomFilter
	CellProducer

	// Add adds every cell count to the matching counter.
	Add(cells CellProducer) error
	// Subtract subtracts every cell count from the matching counter.
	Subtract(cells CellProducer) error
	Remove(other BloomFilter) error
	RemoveHasher(h Hasher) error
	RemoveIndices(p IndexProducer) error
	RemoveBitMaps(p BitMapProducer) error
	IsValid() bool
	// MaxCell is the largest value a counter can hold.
	MaxCell() int
	// MaxInsert returns how many times cells could be subtracted before a counter went negative.
	MaxInsert(cells CellProducer) int
	MaxInsertHasher(h Hasher) int
	MaxInsertIndices(p IndexProducer) int
}

// ArrayCountingBloomFilter is a CountingBloomFilter with one int32 counter per bit.
type ArrayCountingBloomFilter struct {
	shape Shape
	cells []int32
	// state is the OR of every counter value ever written. A negative value
	// or an overflow sets its sign bit, which never clears.
	state int32
}

// NewArrayCountingBloomFilter creates an empty counting filter for shape.
func NewArrayCountingBloomFilter(shape Shape) *ArrayCountingBloomFilter {
	return &ArrayCountingBloomFilter{
		shape: shape,
		cells: make([]int32, shape.NumberOfBits()),
	}
}

// Shape implements BloomFilter.
func (f *ArrayCountingBloomFilter) Shape() Shape {
	return f.shape
}

// Characteristics implements BloomFilter.
func (f *ArrayCountingBloomFilter) Characteristics() Characteristics {
	return 0
}

// Cardinality implements BloomFilter.
func (f *ArrayCountingBloomFilter) Cardinality() int {
	count := 0
	for _, c := range f.cells {
		if c != 0 {
			count++
		}
	}
	return count
}

// IsEmpty implements BloomFilter.
func (f *ArrayCountingBloomFilter) IsEmpty() bool {
	for _, c := range f.cells {
		if c != 0 {
			return false
		}
	}
	return true
}

// Clear implements BloomFilter. It also restores validity.
func (f *ArrayCountingBloomFilter) Clear() {
	clear(f.cells)
	f.state = 0
}

// Copy implements BloomFilter.
func (f *ArrayCountingBloomFilter) Copy() BloomFilter {
	cells := make([]int32, len(f.cells))
	copy(cells, f.cells)
	return &ArrayCountingBloomFilter{shape: f.shape, cells: cells, state: f.state}
}

// IsValid implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) IsValid() bool {
	return f.state >= 0
}

// MaxCell implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) MaxCell() int {
	return math.MaxInt32
}

// ForEachIndex implements IndexProducer.
func (f *ArrayCountingBloomFilter) ForEachIndex(fn func(int) bool) bool {
	for i, c := range f.cells {
		if c != 0 && !fn(i) {
			return false
		}
	}
	return true
}

// ForEachCell implements CellProducer.
func (f *ArrayCountingBloomFilter) ForEachCell(fn func(index, count int) bool) bool {
	for i, c := range f.cells {
		if c != 0 && !fn(i, int(c)) {
			return false
		}
	}
	return true
}

// ForEachBitMap implements BitMapProducer.
func (f *ArrayCountingBloomFilter) ForEachBitMap(fn func(uint64) bool) bool {
	var word uint64
	for i, c := range f.cells {
		if i > 0 && i%bitmap.WordBits == 0 {
			if !fn(word) {
				return false
			}
			word = 0
		}
		if c != 0 {
			word |= bitmap.WordBit(i)
		}
	}
	return fn(word)
}

// Contains implements BloomFilter.
func (f *ArrayCountingBloomFilter) Contains(other BloomFilter) bool {
	if f.shape != other.Shape() {
		return false
	}
	return f.ContainsIndices(other)
}

// ContainsHasher implements BloomFilter.
func (f *ArrayCountingBloomFilter) ContainsHasher(h Hasher) bool {
	return f.ContainsIndices(h.Indices(f.shape))
}

// ContainsIndices implements BloomFilter.
func (f *ArrayCountingBloomFilter) ContainsIndices(p IndexProducer) bool {
	return p.ForEachIndex(func(i int) bool {
		return bitmap.InRange(i, len(f.cells)) && f.cells[i] != 0
	})
}

// ContainsBitMaps implements BloomFilter.
func (f *ArrayCountingBloomFilter) ContainsBitMaps(p BitMapProducer) bool {
	return f.ContainsIndices(IndicesFromBitMaps(p))
}

// Merge implements BloomFilter. Every enabled bit of other counts once.
func (f *ArrayCountingBloomFilter) Merge(other BloomFilter) error {
	if err := checkShapes(f.shape, other.Shape()); err != nil {
		return err
	}
	return f.MergeIndices(other)
}

// MergeHasher implements BloomFilter.
func (f *ArrayCountingBloomFilter) MergeHasher(h Hasher) error {
	return f.apply(h.UniqueIndices(f.shape), 1)
}

// MergeIndices implements BloomFilter. Repeated indices of p count once.
func (f *ArrayCountingBloomFilter) MergeIndices(p IndexProducer) error {
	return f.applyUnique(p, 1)
}

// MergeBitMaps implements BloomFilter.
func (f *ArrayCountingBloomFilter) MergeBitMaps(p BitMapProducer) error {
	return f.apply(IndicesFromBitMaps(p), 1)
}

// Remove implements CountingBloomFilter. Every enabled bit of other counts once.
func (f *ArrayCountingBloomFilter) Remove(other BloomFilter) error {
	if err := checkShapes(f.shape, other.Shape()); err != nil {
		return err
	}
	return f.RemoveIndices(other)
}

// RemoveHasher implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) RemoveHasher(h Hasher) error {
	return f.apply(h.UniqueIndices(f.shape), -1)
}

// RemoveIndices implements CountingBloomFilter. Repeated indices of p count once.
func (f *ArrayCountingBloomFilter) RemoveIndices(p IndexProducer) error {
	return f.applyUnique(p, -1)
}

// RemoveBitMaps implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) RemoveBitMaps(p BitMapProducer) error {
	return f.apply(IndicesFromBitMaps(p), -1)
}

// Add implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) Add(cells CellProducer) error {
	var err error
	cells.ForEachCell(func(index, count int) bool {
		err = f.update(index, count)
		return err == nil
	})
	return err
}

// Subtract implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) Subtract(cells CellProducer) error {
	var err error
	cells.ForEachCell(func(index, count int) bool {
		err = f.update(index, -count)
		return err == nil
	})
	return err
}

// MaxInsert implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) MaxInsert(cells CellProducer) int {
	result := math.MaxInt32
	cells.ForEachCell(func(index, count int) bool {
		if !bitmap.InRange(index, len(f.cells)) {
			result = 0
			return false
		}
		if count <= 0 {
			return true
		}
		result = min(result, int(f.cells[index])/count)
		return result > 0
	})
	return max(result, 0)
}

// MaxInsertHasher implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) MaxInsertHasher(h Hasher) int {
	return f.MaxInsert(CellsFromIndices(h.UniqueIndices(f.shape)))
}

// MaxInsertIndices implements CountingBloomFilter.
func (f *ArrayCountingBloomFilter) MaxInsertIndices(p IndexProducer) int {
	return f.MaxInsert(CellsFromIndices(UniqueIndices(p)))
}

func (f *ArrayCountingBloomFilter) apply(p IndexProducer, delta int) error {
	var err error
	p.ForEachIndex(func(i int) bool {
		err = f.update(i, delta)
		return err == nil
	})
	return err
}

func (f *ArrayCountingBloomFilter) applyUnique(p IndexProducer, delta int) error {
	seen := bitmap.New(len(f.cells))
	var err error
	p.ForEachIndex(func(i int) bool {
		if !bitmap.InRange(i, len(f.cells)) {
			err = indexRangeError(i, len(f.cells))
			return false
		}
		if bitmap.Contains(seen, i) {
			return true
		}
		bitmap.Set(seen, i)
		err = f.update(i, delta)
		return err == nil
	})
	return err
}

func (f *ArrayCountingBloomFilter) update(index int, delta int) error {
	if !bitmap.InRange(index, len(f.cells)) {
		return indexRangeError(index, len(f.cells))
	}
	d := int64(delta)
	updated := int64(f.cells[index]) + d
	if d > math.MaxUint32 || d < -math.MaxUint32 || updated < math.MinInt32 || updated > math.MaxInt32 {
		// the stored counter wraps, the state keeps the overflow
		f.state |= math.MinInt32
	}
	f.cells[index] = int32(updated)
	f.state |= f.cells[index]
	return nil
}
