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
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
	"github.com/apache/skywalking-bloomfilter/pkg/pool"
)

var wordBuffers = pool.Register[*[]uint64]("bloom-word-buffer", func() *[]uint64 {
	buf := make([]uint64, 0, 64)
	return &buf
})

// IndexProducer yields bit indices.
//
// ForEachIndex calls fn for every index and returns false as soon as fn
// returns false, otherwise true. Indices are expected to be in [0, m) of the
// consuming shape; the consumer reports any index outside that range.
type IndexProducer interface {
	ForEachIndex(fn func(index int) bool) bool
}

// BitMapProducer yields the words of a bit map in ascending order.
type BitMapProducer interface {
	ForEachBitMap(fn func(word uint64) bool) bool
}

// CellProducer yields (index, count) cells. Its index view yields every cell index.
type CellProducer interface {
	IndexProducer
	ForEachCell(fn func(index, count int) bool) bool
}

// IndexProducerFunc adapts a traversal function to an IndexProducer.
type IndexProducerFunc func(fn func(index int) bool) bool

// ForEachIndex implements IndexProducer.
func (f IndexProducerFunc) ForEachIndex(fn func(index int) bool) bool {
	return f(fn)
}

// BitMapProducerFunc adapts a traversal function to a BitMapProducer.
type BitMapProducerFunc func(fn func(word uint64) bool) bool

// ForEachBitMap implements BitMapProducer.
func (f BitMapProducerFunc) ForEachBitMap(fn func(word uint64) bool) bool {
	return f(fn)
}

// CellProducerFunc adapts a cell traversal function to a CellProducer.
type CellProducerFunc func(fn func(index, count int) bool) bool

// ForEachCell implements CellProducer.
func (f CellProducerFunc) ForEachCell(fn func(index, count int) bool) bool {
	return f(fn)
}

// ForEachIndex implements IndexProducer.
func (f CellProducerFunc) ForEachIndex(fn func(index int) bool) bool {
	return f(func(index, _ int) bool {
		return fn(index)
	})
}

// IndicesFromArray returns a producer of the given indices in the given order.
func IndicesFromArray(indices ...int) IndexProducer {
	return IndexProducerFunc(func(fn func(int) bool) bool {
		for _, i := range indices {
			if !fn(i) {
				return false
			}
		}
		return true
	})
}

// IndicesFromBitMaps returns a producer of the indices of the bits enabled in p, ascending.
func IndicesFromBitMaps(p BitMapProducer) IndexProducer {
	return IndexProducerFunc(func(fn func(int) bool) bool {
		base := 0
		return p.ForEachBitMap(func(word uint64) bool {
			for word != 0 {
				if !fn(base + bits.TrailingZeros64(word)) {
					return false
				}
				word &= word - 1
			}
			base += bitmap.WordBits
			return true
		})
	})
}

// BitMapsFromArray returns a producer of the given words.
func BitMapsFromArray(words ...uint64) BitMapProducer {
	return BitMapProducerFunc(func(fn func(uint64) bool) bool {
		for _, w := range words {
			if !fn(w) {
				return false
			}
		}
		return true
	})
}

// BitMapsFromIndices packs the indices of p into a bit map of numberOfBits bits.
func BitMapsFromIndices(p IndexProducer, numberOfBits int) (BitMapProducer, error) {
	words := bitmap.New(numberOfBits)
	if err := setIndices(words, numberOfBits, p); err != nil {
		return nil, err
	}
	return BitMapsFromArray(words...), nil
}

// AsIndexArray collects the indices of p, duplicates included.
func AsIndexArray(p IndexProducer) []int {
	var result []int
	p.ForEachIndex(func(i int) bool {
		result = append(result, i)
		return true
	})
	return result
}

// AsBitMapArray collects the words of p.
func AsBitMapArray(p BitMapProducer) []uint64 {
	var result []uint64
	p.ForEachBitMap(func(w uint64) bool {
		result = append(result, w)
		return true
	})
	return result
}

// UniqueIndices returns a producer yielding each index of p once, in ascending order.
//
// The source is read once, when UniqueIndices is called. Negative indices
// cannot be represented and are dropped.
func UniqueIndices(p IndexProducer) IndexProducer {
	set := bitset.New(0)
	p.ForEachIndex(func(i int) bool {
		if i >= 0 {
			set.Set(uint(i))
		}
		return true
	})
	return IndexProducerFunc(func(fn func(int) bool) bool {
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			if !fn(int(i)) {
				return false
			}
		}
		return true
	})
}

// ForEachBitMapPair walks the words of a and b side by side.
//
// The words of a are collected first and b is streamed against them. When one
// side runs out of words the other is paired with 0, so AND against a missing
// word is 0 while OR and XOR pass the present word through.
func ForEachBitMapPair(a, b BitMapProducer, fn func(x, y uint64) bool) bool {
	buf := wordBuffers.Get()
	defer wordBuffers.Put(buf)
	words := (*buf)[:0]
	a.ForEachBitMap(func(w uint64) bool {
		words = append(words, w)
		return true
	})
	*buf = words

	idx := 0
	ok := b.ForEachBitMap(func(y uint64) bool {
		var x uint64
		if idx < len(words) {
			x = words[idx]
			idx++
		}
		return fn(x, y)
	})
	if !ok {
		return false
	}
	for ; idx < len(words); idx++ {
		if !fn(words[idx], 0) {
			return false
		}
	}
	return true
}

// setIndices enables every index of p in words, failing on the first index outside numberOfBits.
// Indices before the failing one stay enabled.
func setIndices(words []uint64, numberOfBits int, p IndexProducer) error {
	var err error
	p.ForEachIndex(func(i int) bool {
		if !bitmap.InRange(i, numberOfBits) {
			err = indexRangeError(i, numberOfBits)
			return false
		}
		bitmap.Set(words, i)
		return true
	})
	return err
}
