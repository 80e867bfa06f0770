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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
)

type fakeLayers []bloom.BloomFilter

func (l fakeLayers) Depth() int {
	return len(l)
}

func (l fakeLayers) Layer(depth int) bloom.BloomFilter {
	return l[depth]
}

func layerWith(t *testing.T, k, m int, indices ...int) bloom.BloomFilter {
	shape, err := bloom.ShapeFromKM(k, m)
	require.NoError(t, err)
	f := bloom.NewSimpleBloomFilter(shape)
	require.NoError(t, f.MergeIndices(bloom.IndicesFromArray(indices...)))
	return f
}

func TestPolicyArguments(t *testing.T) {
	_, err := AdvanceOnCount(0)
	assert.ErrorIs(t, err, bloom.ErrInvalidArgument)
	_, err = AdvanceOnSaturation(-1)
	assert.ErrorIs(t, err, bloom.ErrInvalidArgument)
	_, err = OnMaxSize(0)
	assert.ErrorIs(t, err, bloom.ErrInvalidArgument)
}

func TestAdvanceOnCount(t *testing.T) {
	check, err := AdvanceOnCount(3)
	require.NoError(t, err)
	layers := fakeLayers{layerWith(t, 1, 10)}
	var got []bool
	for i := 0; i < 7; i++ {
		got = append(got, check(layers))
	}
	assert.Equal(t, []bool{false, false, true, false, false, true, false}, got)
}

func TestAdvanceOnPopulated(t *testing.T) {
	assert.False(t, AdvanceOnPopulated(fakeLayers{layerWith(t, 1, 10, 1), layerWith(t, 1, 10)}))
	assert.True(t, AdvanceOnPopulated(fakeLayers{layerWith(t, 1, 10, 1)}))
	assert.False(t, NeverAdvance(fakeLayers{layerWith(t, 1, 10, 1)}))
}

func TestAdvanceOnShapeSaturation(t *testing.T) {
	// a single hash function over 10 bits saturates at about 6.9 items
	assert.False(t, AdvanceOnShapeSaturation(fakeLayers{layerWith(t, 1, 10, 0, 1, 2, 3)}))
	assert.True(t, AdvanceOnShapeSaturation(fakeLayers{layerWith(t, 1, 10, 0, 1, 2, 3, 4, 5)}))

	check, err := AdvanceOnSaturation(2)
	require.NoError(t, err)
	assert.False(t, check(fakeLayers{layerWith(t, 1, 10, 0)}))
	assert.True(t, check(fakeLayers{layerWith(t, 1, 10, 0, 1)}))
}

func TestCleanups(t *testing.T) {
	layers := fakeLayers{layerWith(t, 1, 10, 1), layerWith(t, 1, 10, 2), layerWith(t, 1, 10)}

	from, to := NoCleanup(layers)
	assert.Equal(t, [2]int{0, 3}, [2]int{from, to})

	from, to = RemoveEmptyTarget(layers)
	assert.Equal(t, [2]int{0, 2}, [2]int{from, to})
	from, to = RemoveEmptyTarget(layers[:2])
	assert.Equal(t, [2]int{0, 2}, [2]int{from, to})

	maxSize, err := OnMaxSize(1)
	require.NoError(t, err)
	from, to = maxSize(layers)
	assert.Equal(t, [2]int{2, 3}, [2]int{from, to})
	from, to = maxSize(fakeLayers{})
	assert.Equal(t, [2]int{0, 0}, [2]int{from, to})
}

func TestCleanupsRunInOrder(t *testing.T) {
	shape, err := bloom.ShapeFromKM(1, 10)
	require.NoError(t, err)
	maxSize, err := OnMaxSize(2)
	require.NoError(t, err)
	m := NewManager(func() *bloom.SimpleBloomFilter {
		return bloom.NewSimpleBloomFilter(shape)
	}, WithCleanup(RemoveEmptyTarget, maxSize))
	for i := 0; i < 3; i++ {
		require.NoError(t, m.Last().MergeIndices(bloom.IndicesFromArray(i)))
		m.layers = append(m.layers, bloom.NewSimpleBloomFilter(shape))
	}
	// layers hold {0} {1} {2} and an empty target
	m.Cleanup()
	require.Equal(t, 2, m.Depth())
	assert.Equal(t, []int{1}, bloom.AsIndexArray(m.First()))
	assert.Equal(t, []int{2}, bloom.AsIndexArray(m.Last()))
}
