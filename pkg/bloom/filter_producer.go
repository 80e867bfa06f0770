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

// BloomFilterProducer yields a sequence of filters, such as the layers of a layered filter.
type BloomFilterProducer interface {
	ForEachBloomFilter(fn func(f BloomFilter) bool) bool
}

// BloomFilterProducerFunc adapts a traversal function to a BloomFilterProducer.
type BloomFilterProducerFunc func(fn func(f BloomFilter) bool) bool

// ForEachBloomFilter implements BloomFilterProducer.
func (p BloomFilterProducerFunc) ForEachBloomFilter(fn func(f BloomFilter) bool) bool {
	return p(fn)
}

// BloomFiltersFromArray returns a producer of the given filters in order.
func BloomFiltersFromArray(filters ...BloomFilter) BloomFilterProducer {
	return BloomFilterProducerFunc(func(fn func(BloomFilter) bool) bool {
		for _, f := range filters {
			if !fn(f) {
				return false
			}
		}
		return true
	})
}

// AsBloomFilterArray collects the filters of p.
func AsBloomFilterArray(p BloomFilterProducer) []BloomFilter {
	var result []BloomFilter
	p.ForEachBloomFilter(func(f BloomFilter) bool {
		result = append(result, f)
		return true
	})
	return result
}

// Flatten merges every filter of p into a new SimpleBloomFilter shaped like the first one.
func Flatten(p BloomFilterProducer) (*SimpleBloomFilter, error) {
	var (
		result *SimpleBloomFilter
		err    error
	)
	p.ForEachBloomFilter(func(f BloomFilter) bool {
		if result == nil {
			result = NewSimpleBloomFilter(f.Shape())
		}
		err = result.Merge(f)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrEmptyProducer
	}
	return result, nil
}

// ForEachBloomFilterPair walks the filters of a and b side by side.
// When one side runs out, the other is paired with nil.
func ForEachBloomFilterPair(a, b BloomFilterProducer, fn func(x, y BloomFilter) bool) bool {
	filters := AsBloomFilterArray(a)
	idx := 0
	ok := b.ForEachBloomFilter(func(y BloomFilter) bool {
		var x BloomFilter
		if idx < len(filters) {
			x = filters[idx]
			idx++
		}
		return fn(x, y)
	})
	if !ok {
		return false
	}
	for ; idx < len(filters); idx++ {
		if !fn(filters[idx], nil) {
			return false
		}
	}
	return true
}
