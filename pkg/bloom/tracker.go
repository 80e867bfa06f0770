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
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// tracker remembers which indices of one hasher expansion were already seen.
type tracker interface {
	// firstSeen records index and reports whether it had not been recorded before.
	firstSeen(index int) bool
}

// newTracker picks the cheaper seen-set for shape: a bit map when its words
// take less room than k int32 slots, a k-slot array otherwise.
func newTracker(shape Shape) tracker {
	k := shape.NumberOfHashFunctions()
	if shape.NumberOfWords()*8 < k*4 {
		return &bitMapTracker{words: bitmap.New(shape.NumberOfBits())}
	}
	if k == 1 {
		return singleTracker{}
	}
	return &arrayTracker{seen: make([]int, 0, k)}
}

type arrayTracker struct {
	seen []int
}

func (t *arrayTracker) firstSeen(index int) bool {
	for _, s := range t.seen {
		if s == index {
			return false
		}
	}
	t.seen = append(t.seen, index)
	return true
}

type bitMapTracker struct {
	words []uint64
}

func (t *bitMapTracker) firstSeen(index int) bool {
	if bitmap.Contains(t.words, index) {
		return false
	}
	bitmap.Set(t.words, index)
	return true
}

// singleTracker serves shapes with one hash function, which can never repeat an index.
type singleTracker struct{}

func (singleTracker) firstSeen(int) bool {
	return true
}

// uniqueFilter wraps fn so that it receives every index of one expansion once.
// Indices outside the shape are passed through untracked so the consumer can reject them.
func uniqueFilter(shape Shape, fn func(int) bool) func(int) bool {
	t := newTracker(shape)
	m := shape.NumberOfBits()
	return func(index int) bool {
		if !bitmap.InRange(index, m) {
			return fn(index)
		}
		if t.firstSeen(index) {
			return fn(index)
		}
		return true
	}
}
