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

// Package observability exports the state of Bloom filters as prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
)

const namespace = "bloom_filter"

type depthReporter interface {
	Depth() int
}

type validityReporter interface {
	IsValid() bool
}

// Collector is a prometheus.Collector reporting the state of one filter on every scrape.
//
// The filter is read while collecting, so a filter mutated concurrently must be guarded by the caller.
type Collector struct {
	filter         bloom.BloomFilter
	bits           *prometheus.Desc
	hashFunctions  *prometheus.Desc
	cardinality    *prometheus.Desc
	estimatedItems *prometheus.Desc
	depth          *prometheus.Desc
	valid          *prometheus.Desc
}

// NewCollector creates a Collector for filter, labelled with name.
//
// Layered filters also report their depth and counting filters their validity.
func NewCollector(name string, filter bloom.BloomFilter) *Collector {
	labels := prometheus.Labels{"filter": name}
	desc := func(metric, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", metric), help, nil, labels)
	}
	return &Collector{
		filter:         filter,
		bits:           desc("bits", "Number of bits of the filter shape."),
		hashFunctions:  desc("hash_functions", "Number of hash functions of the filter shape."),
		cardinality:    desc("cardinality", "Number of enabled bits."),
		estimatedItems: desc("estimated_items", "Estimated number of merged items, +Inf once every bit is enabled."),
		depth:          desc("layers", "Number of layers of a layered filter."),
		valid:          desc("valid", "1 while the counters of a counting filter are consistent, 0 otherwise."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bits
	ch <- c.hashFunctions
	ch <- c.cardinality
	ch <- c.estimatedItems
	if _, ok := c.filter.(depthReporter); ok {
		ch <- c.depth
	}
	if _, ok := c.filter.(validityReporter); ok {
		ch <- c.valid
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	shape := c.filter.Shape()
	cardinality := c.filter.Cardinality()
	ch <- prometheus.MustNewConstMetric(c.bits, prometheus.GaugeValue, float64(shape.NumberOfBits()))
	ch <- prometheus.MustNewConstMetric(c.hashFunctions, prometheus.GaugeValue, float64(shape.NumberOfHashFunctions()))
	ch <- prometheus.MustNewConstMetric(c.cardinality, prometheus.GaugeValue, float64(cardinality))
	ch <- prometheus.MustNewConstMetric(c.estimatedItems, prometheus.GaugeValue, shape.EstimateN(cardinality))
	if d, ok := c.filter.(depthReporter); ok {
		ch <- prometheus.MustNewConstMetric(c.depth, prometheus.GaugeValue, float64(d.Depth()))
	}
	if v, ok := c.filter.(validityReporter); ok {
		valid := 0.0
		if v.IsValid() {
			valid = 1
		}
		ch <- prometheus.MustNewConstMetric(c.valid, prometheus.GaugeValue, valid)
	}
}
