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
	"github.com/apache/skywalking-bloomfilter/pkg/iter"
)

// MergeAll merges every item of items into f, turning each one into a Hasher with toHasher.
// It stops at the first failing merge.
func MergeAll[T any](f BloomFilter, items iter.Iterator[T], toHasher func(T) Hasher) error {
	for item, ok := items.Next(); ok; item, ok = items.Next() {
		if err := f.MergeHasher(toHasher(item)); err != nil {
			return err
		}
	}
	return nil
}

// SimpleFromItems builds a SimpleBloomFilter holding every item of items.
func SimpleFromItems[T any](shape Shape, items iter.Iterator[T], toHasher func(T) Hasher) (*SimpleBloomFilter, error) {
	f := NewSimpleBloomFilter(shape)
	if err := MergeAll[T](f, items, toHasher); err != nil {
		return nil, err
	}
	return f, nil
}

// BytesHasher turns raw bytes into a murmur3 seeded Hasher.
func BytesHasher(b []byte) Hasher {
	return NewMurmur3Hasher(b)
}

// StringHasher turns a string into a murmur3 seeded Hasher.
func StringHasher(s string) Hasher {
	return NewMurmur3Hasher([]byte(s))
}
