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
)

// Hasher expands the seed of one item into the bit indices representing it under a shape.
//
// A Hasher is deterministic: the same seed and shape always yield the same sequence.
type Hasher interface {
	// Indices yields exactly k indices in [0, m). The sequence may repeat indices.
	Indices(shape Shape) IndexProducer
	// UniqueIndices yields the distinct indices of Indices, in generation order.
	UniqueIndices(shape Shape) IndexProducer
}

// uniqueIndices filters the expansion of h through a seen-set sized for shape.
func uniqueIndices(h Hasher, shape Shape) IndexProducer {
	return IndexProducerFunc(func(fn func(int) bool) bool {
		return h.Indices(shape).ForEachIndex(uniqueFilter(shape, fn))
	})
}

// seedFromBytes splits buffer in two halves and reads each one as a big-endian
// number aligned to the most significant byte. Bytes past the eighth of a half are ignored.
func seedFromBytes(buffer []byte) (initial, increment uint64, err error) {
	if len(buffer) == 0 {
		return 0, 0, errors.Wrap(ErrInvalidArgument, "hash buffer must not be empty")
	}
	segment := len(buffer) / 2
	return toUint64(buffer[:segment]), toUint64(buffer[segment:]), nil
}

func toUint64(b []byte) uint64 {
	var v uint64
	shift := 64
	for i := 0; i < len(b) && i < 8; i++ {
		shift -= 8
		v |= uint64(b[i]) << shift
	}
	return v
}
