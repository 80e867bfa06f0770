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

import "github.com/pkg/errors"

var (
	// ErrInvalidShape is returned when shape parameters are not viable or two shapes differ.
	ErrInvalidShape = errors.New("bloom: invalid shape")
	// ErrIndexRange is returned when a bit index falls outside [0, numberOfBits).
	ErrIndexRange = errors.New("bloom: index out of range")
	// ErrEmptyProducer is returned when a filter producer expected to yield filters yields none.
	ErrEmptyProducer = errors.New("bloom: producer has no filters")
	// ErrInvalidArgument is returned for malformed arguments such as an empty hash buffer.
	ErrInvalidArgument = errors.New("bloom: invalid argument")
	// ErrInfiniteEstimate is returned when the estimated number of items cannot be represented.
	ErrInfiniteEstimate = errors.New("bloom: estimated number of items is infinite")
)

func checkShapes(expected, actual Shape) error {
	if expected != actual {
		return errors.Wrapf(ErrInvalidShape, "expected %s, but actual is %s", expected, actual)
	}
	return nil
}

func indexRangeError(index, numberOfBits int) error {
	return errors.Wrapf(ErrIndexRange, "index %d is not in [0, %d)", index, numberOfBits)
}
