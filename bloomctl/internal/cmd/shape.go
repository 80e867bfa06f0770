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

package cmd

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
)

type shapeFlags struct {
	probability   float64
	items         int
	bits          int
	hashFunctions int
}

func (f *shapeFlags) bind(fs *pflag.FlagSet) {
	fs.IntVarP(&f.items, "items", "n", 0, "expected number of items")
	fs.Float64VarP(&f.probability, "false-positive", "p", 0, "expected false positive probability")
	fs.IntVarP(&f.bits, "bits", "m", 0, "number of bits")
	fs.IntVarP(&f.hashFunctions, "hash-functions", "k", 0, "number of hash functions")
}

// shape derives a shape from the flags that are set: n and p, n m and k, n and m, p m and k, or k and m.
func (f *shapeFlags) shape() (bloom.Shape, error) {
	n, p, m, k := f.items, f.probability, f.bits, f.hashFunctions
	switch {
	case n > 0 && p > 0 && m == 0 && k == 0:
		return bloom.ShapeFromNP(n, p)
	case n > 0 && p == 0 && m > 0 && k > 0:
		return bloom.ShapeFromNMK(n, m, k)
	case n > 0 && p == 0 && m > 0:
		return bloom.ShapeFromNM(n, m)
	case n == 0 && p > 0 && m > 0 && k > 0:
		return bloom.ShapeFromPMK(p, m, k)
	case n == 0 && p == 0 && m > 0 && k > 0:
		return bloom.ShapeFromKM(k, m)
	}
	return bloom.Shape{}, errors.Wrap(bloom.ErrInvalidArgument,
		"set one of: items and false-positive, items bits and hash-functions, items and bits, "+
			"false-positive bits and hash-functions, bits and hash-functions")
}

func newShapeCmd() *cobra.Command {
	flags := &shapeFlags{}
	cmd := &cobra.Command{
		Use:   "shape",
		Short: "Derive the shape of a filter",
		Example: `  bloomctl shape -n 1000 -p 0.01
  bloomctl shape -m 4096 -k 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shape, err := flags.shape()
			if err != nil {
				return err
			}
			return printShape(cmd.OutOrStdout(), shape, flags.items)
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

func printShape(w io.Writer, shape bloom.Shape, items int) error {
	fmt.Fprintln(w, shape)
	fmt.Fprintf(w, "bits: %d\n", shape.NumberOfBits())
	fmt.Fprintf(w, "hash functions: %d\n", shape.NumberOfHashFunctions())
	fmt.Fprintf(w, "max items: %.0f\n", shape.EstimateMaxN())
	if items > 0 {
		p, err := shape.Probability(items)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "probability: %.6f\n", p)
	}
	return nil
}
