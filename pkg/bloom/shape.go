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
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom/bitmap"
)

// MaxBits is the largest supported number of bits in a filter.
const MaxBits = math.MaxInt32

var (
	ln2 = math.Ln2
	// denominator is ln(1 / 2^ln2), used to size a filter for a target probability.
	denominator = math.Log(1.0 / math.Pow(2, ln2))
)

// Shape is the immutable (numberOfBits, numberOfHashFunctions) pair of a filter.
//
// Shapes are comparable values; two filters are compatible only when their shapes are equal.
type Shape struct {
	numberOfBits          int
	numberOfHashFunctions int
}

// ShapeFromKM creates a shape from the number of hash functions k and the number of bits m.
func ShapeFromKM(numberOfHashFunctions, numberOfBits int) (Shape, error) {
	if err := checkNumberOfBits(numberOfBits); err != nil {
		return Shape{}, err
	}
	if err := checkNumberOfHashFunctions(numberOfHashFunctions); err != nil {
		return Shape{}, err
	}
	return Shape{numberOfBits: numberOfBits, numberOfHashFunctions: numberOfHashFunctions}, nil
}

// ShapeFromNM creates a shape for n expected items in m bits, deriving the optimal k.
func ShapeFromNM(numberOfItems, numberOfBits int) (Shape, error) {
	if err := checkNumberOfItems(numberOfItems); err != nil {
		return Shape{}, err
	}
	if err := checkNumberOfBits(numberOfBits); err != nil {
		return Shape{}, err
	}
	k, err := calculateNumberOfHashFunctions(numberOfItems, numberOfBits)
	if err != nil {
		return Shape{}, err
	}
	s := Shape{numberOfBits: numberOfBits, numberOfHashFunctions: k}
	return s, s.checkViable(numberOfItems)
}

// ShapeFromNMK creates a shape from explicit n, m and k and verifies the combination is viable.
func ShapeFromNMK(numberOfItems, numberOfBits, numberOfHashFunctions int) (Shape, error) {
	if err := checkNumberOfItems(numberOfItems); err != nil {
		return Shape{}, err
	}
	s, err := ShapeFromKM(numberOfHashFunctions, numberOfBits)
	if err != nil {
		return Shape{}, err
	}
	return s, s.checkViable(numberOfItems)
}

// ShapeFromNP creates a shape for n expected items at the false positive probability p.
func ShapeFromNP(numberOfItems int, probability float64) (Shape, error) {
	if err := checkNumberOfItems(numberOfItems); err != nil {
		return Shape{}, err
	}
	if err := checkProbability(probability); err != nil {
		return Shape{}, err
	}
	m := math.Ceil(float64(numberOfItems) * math.Log(probability) / denominator)
	if m > MaxBits {
		return Shape{}, errors.Wrapf(ErrInvalidShape, "resulting filter has more than %d bits: %.0f", MaxBits, m)
	}
	numberOfBits := int(m)
	k, err := calculateNumberOfHashFunctions(numberOfItems, numberOfBits)
	if err != nil {
		return Shape{}, err
	}
	s := Shape{numberOfBits: numberOfBits, numberOfHashFunctions: k}
	return s, s.checkViable(numberOfItems)
}

// ShapeFromPMK creates a shape from p, m and k, checking that the implied number of items fits.
func ShapeFromPMK(probability float64, numberOfBits, numberOfHashFunctions int) (Shape, error) {
	if err := checkProbability(probability); err != nil {
		return Shape{}, err
	}
	s, err := ShapeFromKM(numberOfHashFunctions, numberOfBits)
	if err != nil {
		return Shape{}, err
	}
	// ln(1 - e^(ln p / k)) is always negative, so n is positive.
	k := float64(numberOfHashFunctions)
	n := math.Ceil(float64(numberOfBits) / (-k / math.Log(-math.Expm1(math.Log(probability)/k))))
	if n > math.MaxInt32 {
		return Shape{}, errors.Wrapf(ErrInvalidShape, "resulting number of items exceeds %d: %.0f", math.MaxInt32, n)
	}
	return s, nil
}

// NumberOfBits returns m.
func (s Shape) NumberOfBits() int {
	return s.numberOfBits
}

// NumberOfHashFunctions returns k.
func (s Shape) NumberOfHashFunctions() int {
	return s.numberOfHashFunctions
}

// NumberOfWords returns the length of the word array holding m bits.
func (s Shape) NumberOfWords() int {
	return bitmap.NumberOfWords(s.numberOfBits)
}

// Probability returns the false positive probability after numberOfItems insertions:
//
//	p(n) = (1 - e^(-k*n/m))^k
func (s Shape) Probability(numberOfItems int) (float64, error) {
	if numberOfItems < 0 {
		return 0, errors.Wrapf(ErrInvalidArgument, "number of items must be greater than or equal to 0: %d", numberOfItems)
	}
	if numberOfItems == 0 {
		return 0, nil
	}
	k := float64(s.numberOfHashFunctions)
	return math.Pow(-math.Expm1(-k*float64(numberOfItems)/float64(s.numberOfBits)), k), nil
}

// EstimateN estimates the number of merged items from the number of enabled bits:
//
//	n = -(m/k) * ln(1 - c/m)
//
// The result is +Inf when every bit is enabled.
func (s Shape) EstimateN(cardinality int) float64 {
	c := float64(cardinality)
	m := float64(s.numberOfBits)
	k := float64(s.numberOfHashFunctions)
	return -(m / k) * math.Log1p(-c/m)
}

// EstimateMaxN estimates the number of items the shape holds before half of the bits are enabled.
func (s Shape) EstimateMaxN() float64 {
	return float64(s.numberOfBits) * ln2 / float64(s.numberOfHashFunctions)
}

// IsSparse reports whether cardinality indices take less room than the word array.
// Indices are counted as 32 bits and words as 64 bits.
func (s Shape) IsSparse(cardinality int) bool {
	return cardinality <= s.NumberOfWords()*2
}

// String implements fmt.Stringer.
func (s Shape) String() string {
	return fmt.Sprintf("Shape[k=%d m=%d]", s.numberOfHashFunctions, s.numberOfBits)
}

func (s Shape) checkViable(numberOfItems int) error {
	p, err := s.Probability(numberOfItems)
	if err != nil {
		return err
	}
	if p >= 1.0 {
		return errors.Wrapf(ErrInvalidShape, "calculated probability is greater than or equal to 1: %v", p)
	}
	return nil
}

func checkNumberOfItems(numberOfItems int) error {
	if numberOfItems < 1 {
		return errors.Wrapf(ErrInvalidShape, "number of items must be greater than 0: %d", numberOfItems)
	}
	return nil
}

func checkNumberOfBits(numberOfBits int) error {
	if numberOfBits < 1 {
		return errors.Wrapf(ErrInvalidShape, "number of bits must be greater than 0: %d", numberOfBits)
	}
	if numberOfBits > MaxBits {
		return errors.Wrapf(ErrInvalidShape, "number of bits must not exceed %d: %d", MaxBits, numberOfBits)
	}
	return nil
}

func checkNumberOfHashFunctions(numberOfHashFunctions int) error {
	if numberOfHashFunctions < 1 {
		return errors.Wrapf(ErrInvalidShape, "number of hash functions must be greater than 0: %d", numberOfHashFunctions)
	}
	if numberOfHashFunctions > math.MaxInt32 {
		return errors.Wrapf(ErrInvalidShape, "number of hash functions must not exceed %d: %d", math.MaxInt32, numberOfHashFunctions)
	}
	return nil
}

func checkProbability(probability float64) error {
	// the negated form also rejects NaN
	if !(probability > 0.0 && probability < 1.0) {
		return errors.Wrapf(ErrInvalidShape, "probability must be in the range (0.0, 1.0): %v", probability)
	}
	return nil
}

func calculateNumberOfHashFunctions(numberOfItems, numberOfBits int) (int, error) {
	k := math.Round(ln2 * float64(numberOfBits) / float64(numberOfItems))
	if k > math.MaxInt32 {
		return 0, errors.Wrapf(ErrInvalidShape, "filter too large for int hash functions: %.0f", k)
	}
	return max(1, int(k)), nil
}
