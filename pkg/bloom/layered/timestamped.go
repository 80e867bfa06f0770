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
	"time"

	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/timestamp"
)

// Timestamped is a layer that remembers when it was created.
type Timestamped struct {
	bloom.BloomFilter
	created time.Time
}

// NewTimestamped wraps f with its creation time.
func NewTimestamped(f bloom.BloomFilter, created time.Time) *Timestamped {
	return &Timestamped{BloomFilter: f, created: created}
}

// Created returns the creation time of the layer.
func (t *Timestamped) Created() time.Time {
	return t.created
}

// Copy implements bloom.BloomFilter. The copy keeps the creation time.
func (t *Timestamped) Copy() bloom.BloomFilter {
	return &Timestamped{BloomFilter: t.BloomFilter.Copy(), created: t.created}
}

// TimestampedSupplier stamps every layer built by supplier with the current time of clock.
func TimestampedSupplier(clock timestamp.Clock, supplier func() bloom.BloomFilter) Supplier[*Timestamped] {
	return func() *Timestamped {
		return NewTimestamped(supplier(), clock.Now())
	}
}

// AdvanceOnAge starts a new layer once the target is older than d.
// Layers that are not Timestamped never age.
func AdvanceOnAge(clock timestamp.Clock, d time.Duration) (ExtendCheck, error) {
	if d <= 0 {
		return nil, errors.Wrapf(bloom.ErrInvalidArgument, "age must be greater than 0: %s", d)
	}
	return func(layers Layers) bool {
		t, ok := target(layers).(*Timestamped)
		return ok && !clock.Now().Before(t.created.Add(d))
	}, nil
}

// RemoveExpired evicts the layers created more than ttl ago.
// Layers are visited oldest first and the first unexpired one stops the eviction.
func RemoveExpired(clock timestamp.Clock, ttl time.Duration) (Cleanup, error) {
	if ttl <= 0 {
		return nil, errors.Wrapf(bloom.ErrInvalidArgument, "ttl must be greater than 0: %s", ttl)
	}
	return func(layers Layers) (from, to int) {
		deadline := clock.Now().Add(-ttl)
		depth := layers.Depth()
		for from < depth {
			t, ok := layers.Layer(from).(*Timestamped)
			if !ok || t.created.After(deadline) {
				break
			}
			from++
		}
		return from, depth
	}, nil
}

// LayersWithin returns the depths of the layers created within tr, oldest first.
// Creation times grow with depth, as layers are only ever appended.
func LayersWithin(m *Manager[*Timestamped], tr timestamp.TimeRange) []int {
	created := make([]int64, m.Depth())
	for i, layer := range m.layers {
		created[i] = layer.created.UnixNano()
	}
	start, end, ok := timestamp.FindRange(created, tr.Start.UnixNano(), tr.End.UnixNano())
	if !ok {
		return nil
	}
	var depths []int
	for i := start; i <= end; i++ {
		if tr.Contains(created[i]) {
			depths = append(depths, i)
		}
	}
	return depths
}

// FindHasherWithin returns the depths of the layers created within tr that contain the item of h.
func FindHasherWithin(f *Filter[*Timestamped], tr timestamp.TimeRange, h bloom.Hasher) []int {
	var depths []int
	for _, depth := range LayersWithin(f.manager, tr) {
		if f.manager.layers[depth].ContainsHasher(h) {
			depths = append(depths, depth)
		}
	}
	return depths
}
