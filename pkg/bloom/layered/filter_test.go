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
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/layered"
)

var _ = ginkgo.Describe("Filter", func() {
	var (
		shape bloom.Shape
		f     *layered.Filter[*bloom.SimpleBloomFilter]
	)

	ginkgo.BeforeEach(func() {
		shape = mustShape(3, 100)
		f = layered.NewSimpleFilter(shape)
	})

	ginkgo.It("does not contain a query split across layers", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(1, 2))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(3))).To(gomega.Succeed())

		split := bloom.IndicesFromArray(1, 3)
		gomega.Expect(f.ContainsIndices(split)).To(gomega.BeFalse())
		gomega.Expect(f.Flatten().ContainsIndices(split)).To(gomega.BeTrue())
		gomega.Expect(f.FindIndices(split)).To(gomega.BeEmpty())

		gomega.Expect(f.ContainsIndices(bloom.IndicesFromArray(2, 1))).To(gomega.BeTrue())
		gomega.Expect(f.FindIndices(bloom.IndicesFromArray(1))).To(gomega.Equal([]int{0}))
		gomega.Expect(f.ContainsBitMaps(bloom.BitMapsFromArray(1 << 3))).To(gomega.BeTrue())
		gomega.Expect(f.FindBitMaps(bloom.BitMapsFromArray(1 << 3))).To(gomega.Equal([]int{1}))
	})

	ginkgo.It("finds items in every layer holding them", func() {
		h := bloom.StringHasher("repeated")
		gomega.Expect(f.MergeHasher(h)).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeHasher(bloom.StringHasher("other"))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeHasher(h)).To(gomega.Succeed())

		gomega.Expect(f.Depth()).To(gomega.Equal(3))
		gomega.Expect(f.ContainsHasher(h)).To(gomega.BeTrue())
		gomega.Expect(f.FindHasher(h)).To(gomega.Equal([]int{0, 2}))

		single := bloom.NewSimpleBloomFilter(shape)
		gomega.Expect(single.MergeHasher(h)).To(gomega.Succeed())
		gomega.Expect(f.Contains(single)).To(gomega.BeTrue())
		gomega.Expect(f.Find(single)).To(gomega.Equal([]int{0, 2}))
	})

	ginkgo.It("exposes the union of the layers as its bits", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(1, 2))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(2, 70))).To(gomega.Succeed())

		gomega.Expect(f.Cardinality()).To(gomega.Equal(3))
		gomega.Expect(bloom.AsIndexArray(f)).To(gomega.Equal([]int{1, 2, 70}))
		gomega.Expect(bloom.AsBitMapArray(f)).To(gomega.Equal([]uint64{0b110, 1 << 6}))
		gomega.Expect(f.IsEmpty()).To(gomega.BeFalse())

		n, err := bloom.EstimateN(f)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		gomega.Expect(n).To(gomega.BeNumerically(">", 0))
	})

	ginkgo.It("contains another layered filter when each of its layers is held by one layer", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(1, 2))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(3, 4))).To(gomega.Succeed())

		other := layered.NewSimpleFilter(shape)
		gomega.Expect(other.MergeIndices(bloom.IndicesFromArray(4))).To(gomega.Succeed())
		other.Next()
		gomega.Expect(other.MergeIndices(bloom.IndicesFromArray(1))).To(gomega.Succeed())
		gomega.Expect(f.Contains(other)).To(gomega.BeTrue())

		other.Next()
		gomega.Expect(other.MergeIndices(bloom.IndicesFromArray(2, 3))).To(gomega.Succeed())
		gomega.Expect(f.Contains(other)).To(gomega.BeFalse())
	})

	ginkgo.It("rejects filters of another shape", func() {
		foreign := bloom.NewSimpleBloomFilter(mustShape(4, 100))
		gomega.Expect(f.Merge(foreign)).To(gomega.MatchError(bloom.ErrInvalidShape))
		gomega.Expect(f.Contains(foreign)).To(gomega.BeFalse())

		m := layered.NewManager(simpleSupplier(mustShape(4, 100)))
		_, err := layered.NewFilter(shape, m)
		gomega.Expect(err).To(gomega.MatchError(bloom.ErrInvalidShape))
	})

	ginkgo.It("reports out of range merges from the target", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(100))).To(gomega.MatchError(bloom.ErrIndexRange))
	})

	ginkgo.It("clears and copies", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(5))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(6))).To(gomega.Succeed())

		c := f.Copy()
		f.Clear()
		gomega.Expect(f.Depth()).To(gomega.Equal(1))
		gomega.Expect(f.IsEmpty()).To(gomega.BeTrue())
		gomega.Expect(bloom.AsIndexArray(c)).To(gomega.Equal([]int{5, 6}))

		last, err := f.Get(0)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		gomega.Expect(last.IsEmpty()).To(gomega.BeTrue())
	})

	ginkgo.It("flattens through the producer helpers", func() {
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(9))).To(gomega.Succeed())
		f.Next()
		gomega.Expect(f.MergeIndices(bloom.IndicesFromArray(10))).To(gomega.Succeed())
		flat, err := bloom.Flatten(f)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		gomega.Expect(bloom.AsIndexArray(flat)).To(gomega.Equal(bloom.AsIndexArray(f.Flatten())))
		gomega.Expect(bloom.AsBloomFilterArray(f)).To(gomega.HaveLen(2))
	})

	ginkgo.It("layers counting filters", func() {
		m := layered.NewManager(func() *bloom.ArrayCountingBloomFilter {
			return bloom.NewArrayCountingBloomFilter(shape)
		})
		cf, err := layered.NewFilter(shape, m)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		h := bloom.StringHasher("counted")
		gomega.Expect(cf.MergeHasher(h)).To(gomega.Succeed())
		gomega.Expect(cf.Manager().Target().RemoveHasher(h)).To(gomega.Succeed())
		gomega.Expect(cf.IsEmpty()).To(gomega.BeTrue())
		gomega.Expect(cf.Manager().Last().IsValid()).To(gomega.BeTrue())
	})
})
