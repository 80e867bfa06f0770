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

package layered_test

import (
	"strings"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/layered"
	"github.com/apache/skywalking-bloomfilter/pkg/meter"
	"github.com/apache/skywalking-bloomfilter/pkg/meter/prom"
)

func simpleSupplier(shape bloom.Shape) layered.Supplier[*bloom.SimpleBloomFilter] {
	return func() *bloom.SimpleBloomFilter {
		return bloom.NewSimpleBloomFilter(shape)
	}
}

func mustShape(k, m int) bloom.Shape {
	s, err := bloom.ShapeFromKM(k, m)
	gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
	return s
}

var _ = ginkgo.Describe("Manager", func() {
	var shape bloom.Shape

	ginkgo.BeforeEach(func() {
		shape = mustShape(3, 100)
	})

	ginkgo.It("starts with one empty target", func() {
		m := layered.NewManager(simpleSupplier(shape))
		gomega.Expect(m.Depth()).To(gomega.Equal(1))
		gomega.Expect(m.Last().IsEmpty()).To(gomega.BeTrue())
		gomega.Expect(m.First()).To(gomega.BeIdenticalTo(m.Last()))
	})

	ginkgo.It("advances every second target request", func() {
		check, err := layered.AdvanceOnCount(2)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		f := layered.NewSimpleFilter(shape, layered.WithExtendCheck(check))

		merge := func(item string) {
			gomega.Expect(f.MergeHasher(bloom.StringHasher(item))).To(gomega.Succeed())
		}
		merge("one")
		gomega.Expect(f.Depth()).To(gomega.Equal(1))
		merge("two")
		gomega.Expect(f.Depth()).To(gomega.Equal(2))
		merge("three")
		gomega.Expect(f.Depth()).To(gomega.Equal(2))
		merge("four")
		gomega.Expect(f.Depth()).To(gomega.Equal(3))
	})

	ginkgo.It("discards an empty target on next", func() {
		m := layered.NewManager(simpleSupplier(shape))
		m.Next()
		gomega.Expect(m.Depth()).To(gomega.Equal(1))

		gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(1))).To(gomega.Succeed())
		m.Next()
		gomega.Expect(m.Depth()).To(gomega.Equal(2))
		m.Next()
		gomega.Expect(m.Depth()).To(gomega.Equal(2))
	})

	ginkgo.It("evicts the oldest layers beyond the maximum size", func() {
		cleanup, err := layered.OnMaxSize(2)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		m := layered.NewManager(simpleSupplier(shape),
			layered.WithExtendCheck(layered.AdvanceOnPopulated),
			layered.WithCleanup(cleanup))
		for i := 0; i < 5; i++ {
			gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(i))).To(gomega.Succeed())
		}
		// the cleanup runs before the new target is added
		gomega.Expect(m.Depth()).To(gomega.Equal(3))
		gomega.Expect(bloom.AsIndexArray(m.First())).To(gomega.Equal([]int{2}))
		gomega.Expect(bloom.AsIndexArray(m.Last())).To(gomega.Equal([]int{4}))

		m.Cleanup()
		gomega.Expect(m.Depth()).To(gomega.Equal(2))
	})

	ginkgo.It("keeps at least one layer after a cleanup", func() {
		m := layered.NewManager(simpleSupplier(shape), layered.WithCleanup(layered.RemoveEmptyTarget))
		m.Cleanup()
		gomega.Expect(m.Depth()).To(gomega.Equal(1))
		gomega.Expect(m.Last().IsEmpty()).To(gomega.BeTrue())
	})

	ginkgo.It("clears down to a single empty layer", func() {
		m := layered.NewManager(simpleSupplier(shape), layered.WithExtendCheck(layered.AdvanceOnPopulated))
		for i := 0; i < 3; i++ {
			gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(i))).To(gomega.Succeed())
		}
		gomega.Expect(m.Depth()).To(gomega.Equal(3))
		m.Clear()
		gomega.Expect(m.Depth()).To(gomega.Equal(1))
		gomega.Expect(m.Last().IsEmpty()).To(gomega.BeTrue())
	})

	ginkgo.It("rejects a supplier that changes shape", func() {
		calls := 0
		m := layered.NewManager(func() *bloom.SimpleBloomFilter {
			calls++
			if calls > 1 {
				return bloom.NewSimpleBloomFilter(mustShape(4, 100))
			}
			return bloom.NewSimpleBloomFilter(shape)
		})
		gomega.Expect(m.Shape()).To(gomega.Equal(shape))
		gomega.Expect(m.Next).To(gomega.PanicWith(gomega.MatchError(bloom.ErrInvalidShape)))
	})

	ginkgo.It("addresses layers by depth", func() {
		m := layered.NewManager(simpleSupplier(shape))
		gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(7))).To(gomega.Succeed())
		m.Next()

		oldest, err := m.Get(0)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		gomega.Expect(bloom.AsIndexArray(oldest)).To(gomega.Equal([]int{7}))

		_, err = m.Get(2)
		gomega.Expect(err).To(gomega.MatchError(layered.ErrNoSuchLayer))
		_, err = m.Get(-1)
		gomega.Expect(err).To(gomega.MatchError(layered.ErrNoSuchLayer))
	})

	ginkgo.It("copies layers independently", func() {
		m := layered.NewManager(simpleSupplier(shape))
		gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(1))).To(gomega.Succeed())
		c := m.Copy()
		gomega.Expect(c.Target().MergeIndices(bloom.IndicesFromArray(2))).To(gomega.Succeed())
		gomega.Expect(bloom.AsIndexArray(m.Last())).To(gomega.Equal([]int{1}))
		gomega.Expect(bloom.AsIndexArray(c.Last())).To(gomega.Equal([]int{1, 2}))
	})

	ginkgo.It("advances once the target is saturated", func() {
		check, err := layered.AdvanceOnSaturation(1)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		m := layered.NewManager(simpleSupplier(shape), layered.WithExtendCheck(check))
		gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(1, 2))).To(gomega.Succeed())
		gomega.Expect(m.Depth()).To(gomega.Equal(1))
		// the check runs before a merge, so the third bit is still merged into the first layer
		gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(3))).To(gomega.Succeed())
		gomega.Expect(m.Depth()).To(gomega.Equal(1))
		gomega.Expect(m.Target().IsEmpty()).To(gomega.BeTrue())
		gomega.Expect(m.Depth()).To(gomega.Equal(2))
	})

	ginkgo.It("records layer metrics", func() {
		reg := prometheus.NewRegistry()
		provider := prom.NewProvider(meter.NewHierarchicalScope("bloom", "_").SubScope("layered"), reg)
		cleanup, err := layered.OnMaxSize(1)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		m := layered.NewManager(simpleSupplier(shape),
			layered.WithExtendCheck(layered.AdvanceOnPopulated),
			layered.WithCleanup(cleanup),
			layered.WithMeter(provider))
		for i := 0; i < 4; i++ {
			gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(i))).To(gomega.Succeed())
		}

		expected := `
# HELP bloom_layered_advances_total bloom_layered_advances_total
# TYPE bloom_layered_advances_total counter
bloom_layered_advances_total 3
# HELP bloom_layered_depth bloom_layered_depth
# TYPE bloom_layered_depth gauge
bloom_layered_depth 2
# HELP bloom_layered_evictions_total bloom_layered_evictions_total
# TYPE bloom_layered_evictions_total counter
bloom_layered_evictions_total 2
`
		gomega.Expect(testutil.GatherAndCompare(reg, strings.NewReader(expected),
			"bloom_layered_advances_total", "bloom_layered_depth", "bloom_layered_evictions_total")).To(gomega.Succeed())
	})

	ginkgo.It("does not count a clear as an advance", func() {
		reg := prometheus.NewRegistry()
		provider := prom.NewProvider(meter.NewHierarchicalScope("bloom", "_").SubScope("layered"), reg)
		m := layered.NewManager(simpleSupplier(shape),
			layered.WithExtendCheck(layered.AdvanceOnPopulated),
			layered.WithMeter(provider))
		for i := 0; i < 3; i++ {
			gomega.Expect(m.Target().MergeIndices(bloom.IndicesFromArray(i))).To(gomega.Succeed())
		}
		m.Clear()
		gomega.Expect(m.Depth()).To(gomega.Equal(1))

		expected := `
# HELP bloom_layered_advances_total bloom_layered_advances_total
# TYPE bloom_layered_advances_total counter
bloom_layered_advances_total 2
# HELP bloom_layered_depth bloom_layered_depth
# TYPE bloom_layered_depth gauge
bloom_layered_depth 1
`
		gomega.Expect(testutil.GatherAndCompare(reg, strings.NewReader(expected),
			"bloom_layered_advances_total", "bloom_layered_depth")).To(gomega.Succeed())
	})
})
