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

	"github.com/apache/skywalking-bloomfilter/bloomctl/pkg/file"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom/layered"
	"github.com/apache/skywalking-bloomfilter/pkg/iter"
	"github.com/apache/skywalking-bloomfilter/pkg/logger"
	"github.com/apache/skywalking-bloomfilter/pkg/timestamp"
)

const (
	filterSimple   = "simple"
	filterBitSet   = "bitset"
	filterSparse   = "sparse"
	filterCounting = "counting"
	filterLayered  = "layered"
)

type layerFlags struct {
	age        string
	ttl        string
	itemsLayer int
	maxLayers  int
}

func (f *layerFlags) bind(fs *pflag.FlagSet) {
	fs.IntVar(&f.itemsLayer, "layer-items", 0, "items merged into a layer before advancing, 0 advances on saturation")
	fs.StringVar(&f.age, "layer-age", "", "age of a layer before advancing, e.g. 90m or 1d")
	fs.StringVar(&f.ttl, "layer-ttl", "", "age after which a layer is evicted, e.g. 7d")
	fs.IntVar(&f.maxLayers, "max-layers", 0, "maximum number of retired layers to keep, 0 keeps all")
}

func (f *layerFlags) options(clock timestamp.Clock) ([]layered.Option, error) {
	var opts []layered.Option
	switch {
	case f.itemsLayer > 0:
		check, err := layered.AdvanceOnCount(f.itemsLayer)
		if err != nil {
			return nil, err
		}
		opts = append(opts, layered.WithExtendCheck(check))
	case f.age != "":
		d, err := timestamp.ParseDuration(f.age)
		if err != nil {
			return nil, err
		}
		check, err := layered.AdvanceOnAge(clock, d)
		if err != nil {
			return nil, err
		}
		opts = append(opts, layered.WithExtendCheck(check))
	default:
		opts = append(opts, layered.WithExtendCheck(layered.AdvanceOnShapeSaturation))
	}
	var cleanups []layered.Cleanup
	if f.ttl != "" {
		ttl, err := timestamp.ParseDuration(f.ttl)
		if err != nil {
			return nil, err
		}
		cleanup, err := layered.RemoveExpired(clock, ttl)
		if err != nil {
			return nil, err
		}
		cleanups = append(cleanups, cleanup)
	}
	if f.maxLayers > 0 {
		cleanup, err := layered.OnMaxSize(f.maxLayers)
		if err != nil {
			return nil, err
		}
		cleanups = append(cleanups, cleanup)
	}
	if len(cleanups) > 0 {
		opts = append(opts, layered.WithCleanup(cleanups...))
	}
	return opts, nil
}

func newFilter(kind string, shape bloom.Shape, layers *layerFlags, clock timestamp.Clock) (bloom.BloomFilter, error) {
	switch kind {
	case filterSimple:
		return bloom.NewSimpleBloomFilter(shape), nil
	case filterBitSet:
		return bloom.NewBitSetBloomFilter(shape), nil
	case filterSparse:
		return bloom.NewSparseBloomFilter(shape), nil
	case filterCounting:
		return bloom.NewArrayCountingBloomFilter(shape), nil
	case filterLayered:
		opts, err := layers.options(clock)
		if err != nil {
			return nil, err
		}
		supplier := layered.TimestampedSupplier(clock, func() bloom.BloomFilter {
			return bloom.NewSimpleBloomFilter(shape)
		})
		return layered.NewFilter(shape, layered.NewManager(supplier, opts...))
	}
	return nil, errors.Wrapf(bloom.ErrInvalidArgument, "unknown filter %q", kind)
}

func newQueryCmd() *cobra.Command {
	shape := &shapeFlags{}
	layers := &layerFlags{}
	var itemsPath, kind string
	cmd := &cobra.Command{
		Use:   "query [flags] ITEM...",
		Short: "Build a filter from an items file and test the given items against it",
		Example: `  bloomctl query -f users.txt -n 1000 -p 0.01 alice bob
  cat users.txt | bloomctl query -f - --filter layered -m 4096 -k 5 --layer-items 100 alice`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := shape.shape()
			if err != nil {
				return err
			}
			clock, _ := timestamp.GetClock(cmd.Context())
			f, err := newFilter(kind, s, layers, clock)
			if err != nil {
				return err
			}
			items, err := file.ReadItems(itemsPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err = bloom.MergeAll[string](f, iter.FromSlice(items), bloom.StringHasher); err != nil {
				return err
			}
			logger.GetLogger("bloomctl", "query").Debug().
				Str("filter", kind).Stringer("shape", s).Int("items", len(items)).Msg("built filter")
			return printQuery(cmd.OutOrStdout(), f, args)
		},
	}
	cmd.Flags().StringVarP(&itemsPath, "items-file", "f", "-", "file or directory of items, one per line, - reads stdin")
	cmd.Flags().StringVar(&kind, "filter", filterSimple, "filter implementation: simple, bitset, sparse, counting or layered")
	shape.bind(cmd.Flags())
	layers.bind(cmd.Flags())
	return cmd
}

func printQuery(w io.Writer, f bloom.BloomFilter, queries []string) error {
	for _, q := range queries {
		answer := "absent"
		if f.ContainsHasher(bloom.StringHasher(q)) {
			answer = "maybe"
		}
		fmt.Fprintf(w, "%s\t%s\n", q, answer)
	}
	fmt.Fprintf(w, "cardinality: %d\n", f.Cardinality())
	n, err := bloom.EstimateN(f)
	switch {
	case errors.Is(err, bloom.ErrInfiniteEstimate):
		fmt.Fprintln(w, "estimated items: +Inf")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "estimated items: %d\n", n)
	}
	if l, ok := f.(interface{ Depth() int }); ok {
		fmt.Fprintf(w, "layers: %d\n", l.Depth())
	}
	return nil
}
