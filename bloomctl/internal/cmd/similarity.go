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

	"github.com/spf13/cobra"

	"github.com/apache/skywalking-bloomfilter/bloomctl/pkg/file"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/iter"
)

func newSimilarityCmd() *cobra.Command {
	shape := &shapeFlags{}
	cmd := &cobra.Command{
		Use:     "similarity [flags] FILE_A FILE_B",
		Short:   "Compare the filters built from two items files",
		Example: `  bloomctl similarity -n 10000 -p 0.001 monday.txt tuesday.txt`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := shape.shape()
			if err != nil {
				return err
			}
			filters := make([]*bloom.SimpleBloomFilter, len(args))
			for i, path := range args {
				items, err := file.ReadItems(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if filters[i], err = bloom.SimpleFromItems(s, iter.FromSlice(items), bloom.StringHasher); err != nil {
					return err
				}
			}
			a, b := filters[0], filters[1]
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "cardinality: %d %d\n", a.Cardinality(), b.Cardinality())
			fmt.Fprintf(w, "jaccard: %.4f\n", bloom.JaccardSimilarity(a, b))
			fmt.Fprintf(w, "cosine: %.4f\n", bloom.FilterCosineSimilarity(a, b))
			fmt.Fprintf(w, "hamming: %d\n", bloom.HammingDistance(a, b))
			return nil
		},
	}
	shape.bind(cmd.Flags())
	return cmd
}
