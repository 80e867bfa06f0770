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

// Package layered implements Bloom filters made of an ordered list of layers.
//
// Items are always merged into the newest layer, the target. A policy decides
// when a fresh target is started and another one decides which old layers
// are evicted, which lets a layered filter forget items by age or volume.
package layered

import (
	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/logger"
	"github.com/apache/skywalking-bloomfilter/pkg/meter"
)

// ErrNoSuchLayer is returned when a depth does not address a layer.
var ErrNoSuchLayer = errors.New("layered: no such layer")

// Supplier creates an empty layer.
type Supplier[T bloom.BloomFilter] func() T

// Layers is the read-only view of a manager handed to policies.
type Layers interface {
	// Depth returns the number of layers.
	Depth() int
	// Layer returns the layer at depth, 0 being the oldest. It panics when depth is out of range.
	Layer(depth int) bloom.BloomFilter
}

var layerItemsBuckets = meter.Buckets{10, 100, 1e3, 1e4, 1e5, 1e6}

type options struct {
	extendCheck ExtendCheck
	l           *logger.Logger
	provider    meter.Provider
	cleanups    []Cleanup
}

type metrics struct {
	advances   meter.Counter
	evictions  meter.Counter
	depth      meter.Gauge
	layerItems meter.Histogram
}

func newMetrics(p meter.Provider) metrics {
	return metrics{
		advances:   p.Counter("advances_total"),
		evictions:  p.Counter("evictions_total"),
		depth:      p.Gauge("depth"),
		layerItems: p.Histogram("layer_items", layerItemsBuckets),
	}
}

// Option configures a Manager.
type Option func(*options)

// WithExtendCheck sets the policy deciding when Target starts a new layer.
// The default never advances.
func WithExtendCheck(check ExtendCheck) Option {
	return func(o *options) {
		o.extendCheck = check
	}
}

// WithCleanup sets the policies evicting layers. They run in the given order.
// The default keeps every layer.
func WithCleanup(cleanups ...Cleanup) Option {
	return func(o *options) {
		o.cleanups = cleanups
	}
}

// WithMeter records layer advances, evictions, the depth and the estimated
// items of every retired target through provider.
func WithMeter(provider meter.Provider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithLogger sets the logger receiving layer lifecycle events.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		o.l = l
	}
}

// Manager owns the ordered layers of a layered filter, oldest first.
//
// A Manager always holds at least one layer; the last one is the target.
// Every layer has the shape of the first one the supplier built.
// It is not safe for concurrent use.
type Manager[T bloom.BloomFilter] struct {
	shape    bloom.Shape
	supplier Supplier[T]
	metrics  metrics
	opts     options
	layers   []T
}

// NewManager creates a Manager holding one empty layer from supplier.
func NewManager[T bloom.BloomFilter](supplier Supplier[T], opts ...Option) *Manager[T] {
	o := options{
		extendCheck: NeverAdvance,
		cleanups:    []Cleanup{NoCleanup},
		provider:    meter.NoopProvider,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.l == nil {
		o.l = logger.GetLogger("bloom", "layered")
	}
	first := supplier()
	m := &Manager[T]{shape: first.Shape(), supplier: supplier, opts: o, metrics: newMetrics(o.provider)}
	m.appendLayer(first)
	return m
}

// Shape returns the shape shared by every layer.
func (m *Manager[T]) Shape() bloom.Shape {
	return m.shape
}

// Depth implements Layers.
func (m *Manager[T]) Depth() int {
	return len(m.layers)
}

// Layer implements Layers.
func (m *Manager[T]) Layer(depth int) bloom.BloomFilter {
	return m.layers[depth]
}

// Get returns the layer at depth, 0 being the oldest.
func (m *Manager[T]) Get(depth int) (T, error) {
	if depth < 0 || depth >= len(m.layers) {
		var zero T
		return zero, errors.Wrapf(ErrNoSuchLayer, "depth %d is not in [0, %d)", depth, len(m.layers))
	}
	return m.layers[depth], nil
}

// First returns the oldest layer.
func (m *Manager[T]) First() T {
	return m.layers[0]
}

// Last returns the newest layer without consulting the extend check.
func (m *Manager[T]) Last() T {
	return m.layers[len(m.layers)-1]
}

// Target returns the layer merges go to. A new layer is started first when the extend check asks for it.
func (m *Manager[T]) Target() T {
	if m.opts.extendCheck(m) {
		m.Next()
	}
	return m.Last()
}

// Next starts a new target.
//
// An empty target is discarded rather than kept behind the new one, then the
// cleanup policies run and a fresh layer is appended.
func (m *Manager[T]) Next() {
	if n := len(m.layers); n > 0 {
		if last := m.layers[n-1]; last.IsEmpty() {
			m.layers = m.layers[:n-1]
		} else {
			m.metrics.layerItems.Observe(last.Shape().EstimateN(last.Cardinality()))
		}
	}
	m.cleanup()
	m.addLayer()
	m.metrics.advances.Inc(1)
	if e := m.opts.l.Debug(); e.Enabled() {
		e.Int("depth", len(m.layers)).Msg("advance to a new layer")
	}
}

// Cleanup runs the cleanup policies. When they evict every layer a fresh one is added.
func (m *Manager[T]) Cleanup() {
	m.cleanup()
	if len(m.layers) == 0 {
		m.addLayer()
	}
}

// Clear removes every layer and starts over with a single empty one.
func (m *Manager[T]) Clear() {
	clear(m.layers)
	m.layers = m.layers[:0]
	m.opts.l.Debug().Msg("clear all layers")
	m.addLayer()
}

// Copy returns a Manager with copies of every layer.
// The copy shares the supplier and the policies, including any state they keep.
func (m *Manager[T]) Copy() *Manager[T] {
	layers := make([]T, len(m.layers))
	for i, layer := range m.layers {
		layers[i] = layer.Copy().(T)
	}
	return &Manager[T]{shape: m.shape, supplier: m.supplier, opts: m.opts, metrics: m.metrics, layers: layers}
}

// ForEachBloomFilter implements bloom.BloomFilterProducer, oldest layer first.
func (m *Manager[T]) ForEachBloomFilter(fn func(f bloom.BloomFilter) bool) bool {
	for _, layer := range m.layers {
		if !fn(layer) {
			return false
		}
	}
	return true
}

// addLayer appends a layer from the supplier. It panics with ErrInvalidShape
// when the supplier changes shape, as the layers could no longer be combined.
func (m *Manager[T]) addLayer() {
	layer := m.supplier()
	if layer.Shape() != m.shape {
		panic(errors.Wrapf(bloom.ErrInvalidShape, "supplier built a layer of %s, layers have %s", layer.Shape(), m.shape))
	}
	m.appendLayer(layer)
}

func (m *Manager[T]) appendLayer(layer T) {
	m.layers = append(m.layers, layer)
	m.metrics.depth.Set(float64(len(m.layers)))
}

func (m *Manager[T]) cleanup() {
	before := len(m.layers)
	for _, c := range m.opts.cleanups {
		from, to := c(m)
		from, to = max(from, 0), min(to, len(m.layers))
		if from >= to {
			clear(m.layers)
			m.layers = m.layers[:0]
			continue
		}
		if from == 0 && to == len(m.layers) {
			continue
		}
		kept := copy(m.layers, m.layers[from:to])
		clear(m.layers[kept:])
		m.layers = m.layers[:kept]
	}
	if evicted := before - len(m.layers); evicted > 0 {
		m.metrics.evictions.Inc(float64(evicted))
		m.metrics.depth.Set(float64(len(m.layers)))
		m.opts.l.Debug().Int("evicted", evicted).Int("depth", len(m.layers)).Msg("evict layers")
	}
}
