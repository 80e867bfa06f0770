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

package observability

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/layered"
)

func TestCollectorOnSimpleFilter(t *testing.T) {
	shape, err := bloom.ShapeFromKM(3, 128)
	require.NoError(t, err)
	f := bloom.NewSimpleBloomFilter(shape)
	require.NoError(t, f.MergeIndices(bloom.IndicesFromArray(1, 2, 3)))

	c := NewCollector("users", f)
	expected := `
# HELP bloom_filter_bits Number of bits of the filter shape.
# TYPE bloom_filter_bits gauge
bloom_filter_bits{filter="users"} 128
# HELP bloom_filter_cardinality Number of enabled bits.
# TYPE bloom_filter_cardinality gauge
bloom_filter_cardinality{filter="users"} 3
# HELP bloom_filter_hash_functions Number of hash functions of the filter shape.
# TYPE bloom_filter_hash_functions gauge
bloom_filter_hash_functions{filter="users"} 3
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"bloom_filter_bits", "bloom_filter_cardinality", "bloom_filter_hash_functions"))
	assert.Equal(t, 4, testutil.CollectAndCount(c))
	assert.InDelta(t, shape.EstimateN(3), testutil.ToFloat64(filterMetric(t, c, "bloom_filter_estimated_items")), 1e-9)
}

func TestCollectorOnCountingFilter(t *testing.T) {
	shape, err := bloom.ShapeFromKM(3, 20)
	require.NoError(t, err)
	f := bloom.NewArrayCountingBloomFilter(shape)
	c := NewCollector("counting", f)
	assert.Equal(t, 5, testutil.CollectAndCount(c))
	assert.Equal(t, 1.0, testutil.ToFloat64(filterMetric(t, c, "bloom_filter_valid")))

	require.NoError(t, f.RemoveHasher(bloom.StringHasher("missing")))
	assert.Equal(t, 0.0, testutil.ToFloat64(filterMetric(t, c, "bloom_filter_valid")))
}

func TestCollectorOnLayeredFilter(t *testing.T) {
	shape, err := bloom.ShapeFromKM(3, 100)
	require.NoError(t, err)
	f := layered.NewSimpleFilter(shape, layered.WithExtendCheck(layered.AdvanceOnPopulated))
	for _, item := range []string{"a", "b", "c"} {
		require.NoError(t, f.MergeHasher(bloom.StringHasher(item)))
	}
	c := NewCollector("recent", f)
	assert.Equal(t, 5, testutil.CollectAndCount(c))
	assert.Equal(t, 3.0, testutil.ToFloat64(filterMetric(t, c, "bloom_filter_layers")))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	count, err := testutil.GatherAndCount(reg, "bloom_filter_layers")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// filterMetric narrows c to the single metric named name.
func filterMetric(t *testing.T, c prometheus.Collector, name string) prometheus.Collector {
	t.Helper()
	return collectorFunc(func(ch chan<- prometheus.Metric) {
		metrics := make(chan prometheus.Metric)
		go func() {
			c.Collect(metrics)
			close(metrics)
		}()
		for m := range metrics {
			if strings.Contains(m.Desc().String(), `fqName: "`+name+`"`) {
				ch <- m
			}
		}
	})
}

type collectorFunc func(ch chan<- prometheus.Metric)

func (f collectorFunc) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(f, ch)
}

func (f collectorFunc) Collect(ch chan<- prometheus.Metric) {
	f(ch)
}
