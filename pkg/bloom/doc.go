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

// Package bloom implements Bloom filters over a shared bit indexing layer.
//
// A Shape fixes the number of bits and hash functions of a filter. A Hasher
// expands one item's seed into the indices of the bits representing it. The
// filters exchange their content through three producer views of the same
// bit set:
//
//   - IndexProducer yields bit indices,
//   - BitMapProducer yields 64-bit words in ascending order,
//   - CellProducer yields (index, count) pairs for counting filters.
//
// Dense filters (SimpleBloomFilter, BitSetBloomFilter) store words, the
// SparseBloomFilter stores the ordered set of enabled indices and the
// ArrayCountingBloomFilter stores one counter per bit.
//
// None of the filters are safe for concurrent mutation. Hashers are immutable
// and may be shared freely.
package bloom
