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
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/zenizh/go-capturer"

	"github.com/apache/skywalking-bloomfilter/bloomctl/internal/cmd"
	"github.com/apache/skywalking-bloomfilter/pkg/bloom"
	"github.com/apache/skywalking-bloomfilter/pkg/timestamp"
)

func writeItems(dir, name string, items ...string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(strings.Join(items, "\n")+"\n"), 0o600)).To(Succeed())
	return path
}

var _ = Describe("Query", func() {
	var rootCmd *cobra.Command
	var itemsFile string
	BeforeEach(func() {
		rootCmd = &cobra.Command{Use: "root"}
		cmd.RootCmdFlags(rootCmd)
		itemsFile = writeItems(GinkgoT().TempDir(), "items.txt", "alpha", "beta", "gamma", "delta")
	})

	DescribeTable("answers membership queries",
		func(kind string) {
			rootCmd.SetArgs([]string{"query", "-f", itemsFile, "--filter", kind, "-n", "100", "-p", "0.01", "alpha", "zzz"})
			out := capturer.CaptureStdout(func() {
				Expect(rootCmd.Execute()).To(Succeed())
			})
			Expect(out).To(ContainSubstring("alpha\tmaybe\n"))
			Expect(out).To(ContainSubstring("zzz\tabsent\n"))
			Expect(out).To(MatchRegexp(`estimated items: [3-5]\n`))
		},
		Entry("simple", "simple"),
		Entry("bitset", "bitset"),
		Entry("sparse", "sparse"),
		Entry("counting", "counting"),
		Entry("layered", "layered"),
	)

	It("evicts old layers", func() {
		rootCmd.SetArgs([]string{
			"query", "-f", itemsFile, "--filter", "layered", "-n", "100", "-p", "0.01",
			"--layer-items", "2", "--max-layers", "1", "alpha", "beta", "delta",
		})
		out := capturer.CaptureStdout(func() {
			Expect(rootCmd.Execute()).To(Succeed())
		})
		Expect(out).To(ContainSubstring("alpha\tabsent\n"))
		Expect(out).To(ContainSubstring("beta\tmaybe\n"))
		Expect(out).To(ContainSubstring("delta\tmaybe\n"))
		Expect(out).To(ContainSubstring("layers: 2\n"))
	})

	It("keeps young layers of a time window", func() {
		clock := timestamp.NewMockClock()
		clock.Set(time.Unix(1000, 0))
		rootCmd.SetArgs([]string{
			"query", "-f", itemsFile, "--filter", "layered", "-n", "100", "-p", "0.01",
			"--layer-age", "1h", "--layer-ttl", "1d", "gamma",
		})
		out := capturer.CaptureStdout(func() {
			Expect(rootCmd.ExecuteContext(timestamp.SetClock(context.Background(), clock))).To(Succeed())
		})
		Expect(out).To(ContainSubstring("gamma\tmaybe\n"))
		Expect(out).To(ContainSubstring("layers: 1\n"))
	})

	It("rejects an unknown filter", func() {
		rootCmd.SetArgs([]string{"query", "-f", itemsFile, "--filter", "cuckoo", "-n", "100", "-p", "0.01", "alpha"})
		Expect(rootCmd.Execute()).To(MatchError(bloom.ErrInvalidArgument))
	})

	It("rejects a malformed window", func() {
		rootCmd.SetArgs([]string{"query", "-f", itemsFile, "--filter", "layered", "-n", "100", "-p", "0.01", "--layer-age", "3y", "alpha"})
		Expect(rootCmd.Execute()).To(HaveOccurred())
	})

	It("needs at least one item to query", func() {
		rootCmd.SetArgs([]string{"query", "-f", itemsFile, "-n", "100", "-p", "0.01"})
		Expect(rootCmd.Execute()).To(HaveOccurred())
	})
})

var _ = Describe("Similarity", func() {
	var rootCmd *cobra.Command
	var dir string
	BeforeEach(func() {
		rootCmd = &cobra.Command{Use: "root"}
		cmd.RootCmdFlags(rootCmd)
		dir = GinkgoT().TempDir()
	})

	It("reports identical filters", func() {
		a := writeItems(dir, "a.txt", "alpha", "beta")
		b := writeItems(dir, "b.txt", "beta", "alpha")
		rootCmd.SetArgs([]string{"similarity", "-n", "100", "-p", "0.01", a, b})
		out := capturer.CaptureStdout(func() {
			Expect(rootCmd.Execute()).To(Succeed())
		})
		Expect(out).To(ContainSubstring("jaccard: 1.0000\n"))
		Expect(out).To(ContainSubstring("cosine: 1.0000\n"))
		Expect(out).To(ContainSubstring("hamming: 0\n"))
	})

	It("needs two files", func() {
		rootCmd.SetArgs([]string{"similarity", "-n", "100", "-p", "0.01", filepath.Join(dir, "a.txt")})
		Expect(rootCmd.Execute()).To(HaveOccurred())
	})
})
