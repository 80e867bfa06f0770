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

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
)

// NewMurmur3Hasher seeds an EnhancedDoubleHasher with the two halves of the 128-bit murmur3 hash of data.
func NewMurmur3Hasher(data []byte) *EnhancedDoubleHasher {
	h1, h2 := murmur3.Sum128(data)
	return NewEnhancedDoubleHasher(h1, h2)
}

// NewXXHasher seeds an EnhancedDoubleHasher with two chained xxhash64 digests of data.
// The second digest is seeded by the first.
func NewXXHasher(data []byte) *EnhancedDoubleHasher {
	h1 := xxhash.Sum64(data)
	d := xxhash.NewWithSeed(h1)
	_, _ = d.Write(data)
	return NewEnhancedDoubleHasher(h1, d.Sum64())
}
