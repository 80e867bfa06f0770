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

// Package cmd is an internal package defining cli commands for bloomctl.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apache/skywalking-bloomfilter/pkg/config"
	"github.com/apache/skywalking-bloomfilter/pkg/logger"
	"github.com/apache/skywalking-bloomfilter/pkg/version"
)

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "bloomctl",
		DisableAutoGenTag: true,
		Version:           version.Parse(),
		Short:             "bloomctl sizes, builds and compares Bloom filters",
		SilenceUsage:      true,
	}
	RootCmdFlags(cmd)
	return cmd
}

// RootCmdFlags binds the global flags and the sub commands to command.
func RootCmdFlags(command *cobra.Command) {
	var cfgFile string
	logging := logger.Logging{}
	command.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./bloomctl.yaml)")
	command.PersistentFlags().StringVar(&logging.Env, "log-env", "prod", "the logging environment: dev or prod")
	command.PersistentFlags().StringVar(&logging.Level, "log-level", "warn", "the root level of logging")
	command.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		var opts []config.Option
		if cfgFile != "" {
			opts = append(opts, config.WithFile(cfgFile))
		}
		if err := config.Load("bloomctl", cmd.Flags(), opts...); err != nil {
			return err
		}
		return logger.Init(logging)
	}
	command.AddCommand(newShapeCmd(), newQueryCmd(), newSimilarityCmd())
}
