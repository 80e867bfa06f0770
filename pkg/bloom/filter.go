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

	"github.com/pkg/errors"
)

// Characteristics flags storage properties of a filter.
type Characteristics int

// Sparse marks filters that store indices rather than words.
// Their index view is cheaper than their bit map view.
const Sparse Characteristics = 1 << iota

// BloomFilter is a set of enabled bits under a Shape.
//
// Contains queries never fail: an item of a different shape or an index outside
// the shape is simply not contained. Merges return ErrInvalidShape for foreign
// shapes and ErrIndexRange for indices outside [0, m).
type BloomFilter interface {
	IndexProducer
	BitMapProducer

	Shape() Shape
	Characteristics() Characteristics
	// Cardinality returns the number of enabled bits.
	Cardinality() int
	IsEmpty() bool
	Clear()
	Copy() BloomFilter

	Contains(other BloomFilter) bool
	ContainsHasher(h Hasher) bool
	ContainsIndices(p IndexProducer) bool
	ContainsBitMaps(p BitMapProducer) bool

	Merge(other BloomFilter) error
	MergeHasher(h Hasher) error
	MergeIndices(p IndexProducer) error
	MergeBitMaps(p BitMapProducer) error
}

// IsSparse reports whether f carries the Sparse characteristic.
func IsSparse(f BloomFilter) bool {
	return f.Characteristics()&Sparse != 0
}

// IsFull reports whether every bit of f is enabled.
func IsFull(f BloomFilter) bool {
	return f.Cardinality() == f.Shape().NumberOfBits()
}

// EstimateN estimates how many items were merged into f.
func EstimateN(f BloomFilter) (int, error) {
	return toEstimate(f.Shape().EstimateN(f.Cardinality()))
}

// EstimateUnion estimates the number of items merged into a or b.
func EstimateUnion(a, b BloomFilter) (int, error) {
	union := a.Copy()
	if err := union.Merge(b); err != nil {
		return 0, err
	}
	return EstimateN(union)
}

// EstimateIntersection estimates the number of items merged into both a and b.
func EstimateIntersection(a, b BloomFilter) (int, error) {
	if err := checkShapes(a.Shape(), b.Shape()); err != nil {
		return 0, err
	}
	shape := a.Shape()
	eA := shape.EstimateN(a.Cardinality())
	eB := shape.EstimateN(b.Cardinality())
	var estimate float64
	switch {
	case math.IsInf(eA, 0) && math.IsInf(eB, 0):
		return math.MaxInt32, nil
	case math.IsInf(eA, 0):
		// the intersection with a saturated filter is the other filter
		estimate = math.Round(eB)
	case math.IsInf(eB, 0):
		estimate = math.Round(eA)
	default:
		union := a.Copy()
		if err := union.Merge(b); err != nil {
			return 0, err
		}
		eUnion := shape.EstimateN(union.Cardinality())
		if math.IsInf(eUnion, 0) {
			return 0, errors.Wrap(ErrInfiniteEstimate, "union of the filters")
		}
		estimate = max(0, math.Round(eA+eB-eUnion))
	}
	return int(min(estimate, math.MaxInt32)), nil
}

func toEstimate(n float64) (int, error) {
	if math.IsInf(n, 0) {
		return 0, ErrInfiniteEstimate
	}
	if n > math.MaxInt32 {
		return 0, errors.Wrapf(ErrInfiniteEstimate, "estimate %.0f exceeds %d", n, math.MaxInt32)
	}
	return int(math.Ceil(n)), nil
}

// containsBitMaps reports whether every bit enabled by other is enabled by self.
func containsBitMaps(self, other BitMapProducer) bool {
	return ForEachBitMapPair(self, other, func(x, y uint64) bool {
		return x&y == y
	})
}
