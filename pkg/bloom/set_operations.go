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
	"math/bits"
)

// Cardinality returns the number of bits enabled by p.
func Cardinality(p BitMapProducer) int {
	count := 0
	p.ForEachBitMap(func(w uint64) bool {
		count += bits.OnesCount64(w)
		return true
	})
	return count
}

// AndCardinality returns the number of bits enabled in both a and b.
func AndCardinality(a, b BitMapProducer) int {
	return pairCardinality(a, b, func(x, y uint64) uint64 { return x & y })
}

// OrCardinality returns the number of bits enabled in a or b.
func OrCardinality(a, b BitMapProducer) int {
	return pairCardinality(a, b, func(x, y uint64) uint64 { return x | y })
}

// XorCardinality returns the number of bits enabled in exactly one of a and b.
func XorCardinality(a, b BitMapProducer) int {
	return pairCardinality(a, b, func(x, y uint64) uint64 { return x ^ y })
}

// HammingDistance is the number of bits that differ between a and b.
func HammingDistance(a, b BitMapProducer) int {
	return XorCardinality(a, b)
}

// JaccardSimilarity is |a AND b| / |a OR b|, or 0 when a and b share no bit.
func JaccardSimilarity(a, b BitMapProducer) float64 {
	intersection, union := 0, 0
	ForEachBitMapPair(a, b, func(x, y uint64) bool {
		intersection += bits.OnesCount64(x & y)
		union += bits.OnesCount64(x | y)
		return true
	})
	if intersection == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// JaccardDistance is 1 - JaccardSimilarity.
func JaccardDistance(a, b BitMapProducer) float64 {
	return 1.0 - JaccardSimilarity(a, b)
}

// CosineSimilarity is |a AND b| / sqrt(|a| * |b|), or 0 when a and b share no bit.
func CosineSimilarity(a, b BitMapProducer) float64 {
	numerator := AndCardinality(a, b)
	if numerator == 0 {
		return 0
	}
	return cosine(numerator, Cardinality(a), Cardinality(b))
}

// FilterCosineSimilarity is CosineSimilarity using the cardinalities the filters already know.
func FilterCosineSimilarity(a, b BloomFilter) float64 {
	numerator := AndCardinality(a, b)
	if numerator == 0 {
		return 0
	}
	return cosine(numerator, a.Cardinality(), b.Cardinality())
}

// CosineDistance is 1 - CosineSimilarity.
func CosineDistance(a, b BitMapProducer) float64 {
	return 1.0 - CosineSimilarity(a, b)
}

func cosine(numerator, cardinalityA, cardinalityB int) float64 {
	// both cardinalities are bounded by MaxBits, so the product fits a float64 exactly
	return float64(numerator) / math.Sqrt(float64(cardinalityA)*float64(cardinalityB))
}

func pairCardinality(a, b BitMapProducer, op func(x, y uint64) uint64) int {
	count := 0
	ForEachBitMapPair(a, b, func(x, y uint64) bool {
		count += bits.OnesCount64(op(x, y))
		return true
	})
	return count
}
