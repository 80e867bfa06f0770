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

// Package config implements a configuration system which could load configuration from a file, flags and env vars.
package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// The environment variable prefix of all environment variables bound to our command line flags.
const envPrefix = "BLOOM"

type config struct {
	viper *viper.Viper
	name  string
	file  string
}

// Option tunes the loading.
type Option func(*config)

// WithFile reads the configuration from path instead of searching the working directory for name.
func WithFile(path string) Option {
	return func(c *config) {
		c.file = path
	}
}

// Load configurations from a config file, env vars and flags, in increasing order of precedence.
func Load(name string, fs *pflag.FlagSet, opts ...Option) error {
	c := &config{name: name, viper: viper.New()}
	for _, opt := range opts {
		opt(c)
	}
	return c.initializeConfig(fs)
}

func (c *config) initializeConfig(fs *pflag.FlagSet) error {
	v := c.viper
	if c.file != "" {
		v.SetConfigFile(c.file)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "read config file %s", c.file)
		}
	} else {
		v.SetConfigName(c.name)
		v.AddConfigPath(".")
		// It's okay if there isn't a config file
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return err
		}
	}

	// A flag like --false-positive binds to BLOOM_FALSE_POSITIVE.
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return BindFlags(fs, v, envPrefix)
}

// BindFlags bind each cobra flag to its associated viper configuration (config file and environment variable).
func BindFlags(fs *pflag.FlagSet, v *viper.Viper, envPrefix string) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores.
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			err = multierr.Append(err, v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			err = multierr.Append(err, fs.Set(f.Name, fmt.Sprintf("%v", val)))
		}
	})
	return err
}
