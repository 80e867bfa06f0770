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

package cmd_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/zenizh/go-capturer"

	"github.com/apache/skywalking-bloomfilter/bloomctl/internal/cmd"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
)

var _ = Describe("Shape", func() {
	var rootCmd *cobra.Command
	BeforeEach(func() {
		rootCmd = &cobra.Command{Use: "root"}
		cmd.RootCmdFlags(rootCmd)
	})

	It("derives a shape from items and probability", func() {
		rootCmd.SetArgs([]string{"shape", "-n", "100", "-p", "0.01"})
		out := capturer.CaptureStdout(func() {
			Expect(rootCmd.Execute()).To(Succeed())
		})
		Expect(out).To(ContainSubstring("Shape[k=7 m=959]"))
		Expect(out).To(ContainSubstring("max items: 95\n"))
		Expect(out).To(ContainSubstring("probability: 0.010"))
	})

	It("takes bits and hash functions as they are", func() {
		rootCmd.SetArgs([]string{"shape", "--bits", "4096", "--hash-functions", "5"})
		out := capturer.CaptureStdout(func() {
			Expect(rootCmd.Execute()).To(Succeed())
		})
		Expect(out).To(ContainSubstring("bits: 4096\n"))
		Expect(out).To(ContainSubstring("hash functions: 5\n"))
		Expect(out).NotTo(ContainSubstring("probability"))
	})

	It("rejects an incomplete set of parameters", func() {
		rootCmd.SetArgs([]string{"shape", "-n", "100"})
		Expect(rootCmd.Execute()).To(MatchError(bloom.ErrInvalidArgument))
	})

	It("rejects a shape that cannot hold the items", func() {
		rootCmd.SetArgs([]string{"shape", "-n", "1000", "-m", "1"})
		Expect(rootCmd.Execute()).To(MatchError(bloom.ErrInvalidShape))
	})
})
