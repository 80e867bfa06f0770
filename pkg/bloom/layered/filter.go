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

package layered

import (
	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
)

// Filter is a BloomFilter whose bits are spread over the layers of a Manager.
//
// Merges go to the target layer. Contains queries succeed when one single layer
// contains the whole query: an item whose bits are split across layers is not
// contained even though the union of the layers would match it. Cardinality
// and the bit views work on the union of all layers.
type Filter[T bloom.BloomFilter] struct {
	shape   bloom.Shape
	manager *Manager[T]
}

// NewFilter creates a Filter over manager. The layers of the manager must have shape.
func NewFilter[T bloom.BloomFilter](shape bloom.Shape, manager *Manager[T]) (*Filter[T], error) {
	if manager.Shape() != shape {
		return nil, errors.Wrapf(bloom.ErrInvalidShape, "layers have %s, filter has %s", manager.Shape(), shape)
	}
	return &Filter[T]{shape: shape, manager: manager}, nil
}

// NewSimpleFilter creates a Filter whose layers are SimpleBloomFilters of shape.
func NewSimpleFilter(shape bloom.Shape, opts ...Option) *Filter[*bloom.SimpleBloomFilter] {
	m := NewManager(func() *bloom.SimpleBloomFilter {
		return bloom.NewSimpleBloomFilter(shape)
	}, opts...)
	return &Filter[*bloom.SimpleBloomFilter]{shape: shape, manager: m}
}

// Manager returns the manager holding the layers.
func (f *Filter[T]) Manager() *Manager[T] {
	return f.manager
}

// Shape implements bloom.BloomFilter.
func (f *Filter[T]) Shape() bloom.Shape {
	return f.shape
}

// Characteristics implements bloom.BloomFilter.
func (f *Filter[T]) Characteristics() bloom.Characteristics {
	return 0
}

// Depth returns the number of layers.
func (f *Filter[T]) Depth() int {
	return f.manager.Depth()
}

// Get returns the layer at depth, 0 being the oldest.
func (f *Filter[T]) Get(depth int) (T, error) {
	return f.manager.Get(depth)
}

// Next forces a new target layer.
func (f *Filter[T]) Next() {
	f.manager.Next()
}

// Cleanup runs the cleanup policies of the manager.
func (f *Filter[T]) Cleanup() {
	f.manager.Cleanup()
}

// ForEachBloomFilter implements bloom.BloomFilterProducer, oldest layer first.
func (f *Filter[T]) ForEachBloomFilter(fn func(bloom.BloomFilter) bool) bool {
	return f.manager.ForEachBloomFilter(fn)
}

// Flatten returns the union of every layer.
func (f *Filter[T]) Flatten() *bloom.SimpleBloomFilter {
	flat := bloom.NewSimpleBloomFilter(f.shape)
	f.manager.ForEachBloomFilter(func(layer bloom.BloomFilter) bool {
		// every layer has the shape of the manager, checked by NewFilter
		_ = flat.Merge(layer)
		return true
	})
	return flat
}

// Cardinality implements bloom.BloomFilter. It counts the bits of the union of the layers.
func (f *Filter[T]) Cardinality() int {
	return f.Flatten().Cardinality()
}

// IsEmpty implements bloom.BloomFilter.
func (f *Filter[T]) IsEmpty() bool {
	return f.manager.ForEachBloomFilter(func(layer bloom.BloomFilter) bool {
		return layer.IsEmpty()
	})
}

// Clear implements bloom.BloomFilter. It leaves a single empty layer.
func (f *Filter[T]) Clear() {
	f.manager.Clear()
}

// Copy implements bloom.BloomFilter.
func (f *Filter[T]) Copy() bloom.BloomFilter {
	return &Filter[T]{shape: f.shape, manager: f.manager.Copy()}
}

// ForEachIndex implements bloom.IndexProducer over the union of the layers.
func (f *Filter[T]) ForEachIndex(fn func(int) bool) bool {
	return f.Flatten().ForEachIndex(fn)
}

// ForEachBitMap implements bloom.BitMapProducer over the union of the layers.
func (f *Filter[T]) ForEachBitMap(fn func(uint64) bool) bool {
	return f.Flatten().ForEachBitMap(fn)
}

// Contains implements bloom.BloomFilter.
//
// When other is itself made of filters, every one of them must be contained by some layer.
func (f *Filter[T]) Contains(other bloom.BloomFilter) bool {
	if p, ok := other.(bloom.BloomFilterProducer); ok {
		return p.ForEachBloomFilter(func(x bloom.BloomFilter) bool {
			return f.any(func(layer bloom.BloomFilter) bool {
				return layer.Contains(x)
			})
		})
	}
	return f.any(func(layer bloom.BloomFilter) bool {
		return layer.Contains(other)
	})
}

// ContainsHasher implements bloom.BloomFilter.
func (f *Filter[T]) ContainsHasher(h bloom.Hasher) bool {
	return f.any(func(layer bloom.BloomFilter) bool {
		return layer.ContainsHasher(h)
	})
}

// ContainsIndices implements bloom.BloomFilter. p is traversed once per layer until one contains it.
func (f *Filter[T]) ContainsIndices(p bloom.IndexProducer) bool {
	return f.any(func(layer bloom.BloomFilter) bool {
		return layer.ContainsIndices(p)
	})
}

// ContainsBitMaps implements bloom.BloomFilter. p is traversed once per layer until one contains it.
func (f *Filter[T]) ContainsBitMaps(p bloom.BitMapProducer) bool {
	return f.any(func(layer bloom.BloomFilter) bool {
		return layer.ContainsBitMaps(p)
	})
}

// Find returns the depths of the layers containing other, oldest first.
func (f *Filter[T]) Find(other bloom.BloomFilter) []int {
	return f.find(func(layer bloom.BloomFilter) bool {
		return layer.Contains(other)
	})
}

// FindHasher returns the depths of the layers containing the item of h, oldest first.
func (f *Filter[T]) FindHasher(h bloom.Hasher) []int {
	return f.find(func(layer bloom.BloomFilter) bool {
		return layer.ContainsHasher(h)
	})
}

// FindIndices returns the depths of the layers containing every index of p, oldest first.
func (f *Filter[T]) FindIndices(p bloom.IndexProducer) []int {
	return f.find(func(layer bloom.BloomFilter) bool {
		return layer.ContainsIndices(p)
	})
}

// FindBitMaps returns the depths of the layers containing every bit of p, oldest first.
func (f *Filter[T]) FindBitMaps(p bloom.BitMapProducer) []int {
	return f.find(func(layer bloom.BloomFilter) bool {
		return layer.ContainsBitMaps(p)
	})
}

// Merge implements bloom.BloomFilter.
func (f *Filter[T]) Merge(other bloom.BloomFilter) error {
	if other.Shape() != f.shape {
		return errors.Wrapf(bloom.ErrInvalidShape, "expected %s, but actual is %s", f.shape, other.Shape())
	}
	return f.manager.Target().Merge(other)
}

// MergeHasher implements bloom.BloomFilter.
func (f *Filter[T]) MergeHasher(h bloom.Hasher) error {
	return f.manager.Target().MergeHasher(h)
}

// MergeIndices implements bloom.BloomFilter.
func (f *Filter[T]) MergeIndices(p bloom.IndexProducer) error {
	return f.manager.Target().MergeIndices(p)
}

// MergeBitMaps implements bloom.BloomFilter.
func (f *Filter[T]) MergeBitMaps(p bloom.BitMapProducer) error {
	return f.manager.Target().MergeBitMaps(p)
}

func (f *Filter[T]) any(fn func(bloom.BloomFilter) bool) bool {
	return !f.manager.ForEachBloomFilter(func(layer bloom.BloomFilter) bool {
		return !fn(layer)
	})
}

func (f *Filter[T]) find(fn func(bloom.BloomFilter) bool) []int {
	var depths []int
	depth := 0
	f.manager.ForEachBloomFilter(func(layer bloom.BloomFilter) bool {
		if fn(layer) {
			depths = append(depths, depth)
		}
		depth++
		return true
	})
	return depths
}
