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

// Package iter implements a generic pull Iterator over items to be filtered.
package iter

import "bufio"

// An Iterator is a stream of items of some type.
type Iterator[T any] interface {
	// Next checks whether if the iteration has more elements and
	// returns the next one if exists.
	Next() (T, bool)
}

// FromSlice creates a new iterator which returns all items from the slice starting at index 0 until
// all items are consumed.
func FromSlice[T any](slice []T) Iterator[T] {
	return &sliceIterator[T]{slice: slice}
}

type sliceIterator[T any] struct {
	slice []T
}

func (iter *sliceIterator[T]) Next() (T, bool) {
	if len(iter.slice) == 0 {
		var zero T
		return zero, false
	}
	item := iter.slice[0]
	iter.slice = iter.slice[1:]
	return item, true
}

// FromScanner returns an iterator over the tokens of s, one per Scan call.
// The iteration ends at the first failed Scan; s.Err reports why.
func FromScanner(s *bufio.Scanner) Iterator[string] {
	return &scannerIterator{s: s}
}

type scannerIterator struct {
	s *bufio.Scanner
}

func (iter *scannerIterator) Next() (string, bool) {
	if !iter.s.Scan() {
		return "", false
	}
	return iter.s.Text(), true
}

// Map returns a new iterator which applies a function to all items from the input iterator which
// are subsequently returned.
//
// The mapping function should not mutate the state outside its scope.
func Map[T any, O any](from Iterator[T], mapFunc func(T) O) Iterator[O] {
	return &mapIterator[T, O]{from: from, mapFunc: mapFunc}
}

type mapIterator[T any, O any] struct {
	from    Iterator[T]
	mapFunc func(T) O
}

func (iter *mapIterator[T, O]) Next() (O, bool) {
	item, ok := iter.from.Next()
	if !ok {
		var zero O
		return zero, false
	}
	return iter.mapFunc(item), true
}

// Filter returns an iterator yielding only the items for which keep returns true.
func Filter[T any](from Iterator[T], keep func(T) bool) Iterator[T] {
	return &filterIterator[T]{from: from, keep: keep}
}

type filterIterator[T any] struct {
	from Iterator[T]
	keep func(T) bool
}

func (iter *filterIterator[T]) Next() (T, bool) {
	for {
		item, ok := iter.from.Next()
		if !ok || iter.keep(item) {
			return item, ok
		}
	}
}

// Collect drains iter into a slice.
func Collect[T any](iter Iterator[T]) []T {
	var result []T
	for item, ok := iter.Next(); ok; item, ok = iter.Next() {
		result = append(result, item)
	}
	return result
}
