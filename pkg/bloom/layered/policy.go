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

// ExtendCheck decides, whenever the target is requested, whether a new layer should be started first.
type ExtendCheck func(layers Layers) bool

// Cleanup selects the layers to keep as the depth range [from, to).
// A range that keeps nothing evicts every layer.
type Cleanup func(layers Layers) (from, to int)

// NeverAdvance keeps merging into the same target.
func NeverAdvance(Layers) bool {
	return false
}

// AdvanceOnPopulated starts a new layer as soon as the target holds anything.
func AdvanceOnPopulated(layers Layers) bool {
	return !target(layers).IsEmpty()
}

// AdvanceOnCount starts a new layer every n target requests.
//
// The returned check counts its own invocations, so it must not be shared between managers.
func AdvanceOnCount(n int) (ExtendCheck, error) {
	if n <= 0 {
		return nil, errors.Wrapf(bloom.ErrInvalidArgument, "count must be greater than 0: %d", n)
	}
	count := 0
	return func(Layers) bool {
		count++
		if count == n {
			count = 0
			return true
		}
		return false
	}, nil
}

// AdvanceOnSaturation starts a new layer once the estimated number of items in the target reaches maxN.
func AdvanceOnSaturation(maxN float64) (ExtendCheck, error) {
	if maxN <= 0 {
		return nil, errors.Wrapf(bloom.ErrInvalidArgument, "saturation must be greater than 0: %v", maxN)
	}
	return func(layers Layers) bool {
		t := target(layers)
		return t.Shape().EstimateN(t.Cardinality()) >= maxN
	}, nil
}

// AdvanceOnShapeSaturation starts a new layer once the target is estimated to
// hold the number of items at which half of its bits are enabled.
func AdvanceOnShapeSaturation(layers Layers) bool {
	t := target(layers)
	shape := t.Shape()
	return shape.EstimateN(t.Cardinality()) >= shape.EstimateMaxN()
}

// NoCleanup keeps every layer.
func NoCleanup(layers Layers) (from, to int) {
	return 0, layers.Depth()
}

// OnMaxSize evicts the oldest layers while there are more than n.
func OnMaxSize(n int) (Cleanup, error) {
	if n <= 0 {
		return nil, errors.Wrapf(bloom.ErrInvalidArgument, "max size must be greater than 0: %d", n)
	}
	return func(layers Layers) (from, to int) {
		depth := layers.Depth()
		return max(0, depth-n), depth
	}, nil
}

// RemoveEmptyTarget evicts the newest layer when it is empty.
func RemoveEmptyTarget(layers Layers) (from, to int) {
	depth := layers.Depth()
	if depth > 0 && target(layers).IsEmpty() {
		return 0, depth - 1
	}
	return 0, depth
}

func target(layers Layers) bloom.BloomFilter {
	return layers.Layer(layers.Depth() - 1)
}
