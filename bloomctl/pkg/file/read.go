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

// Package file provides utils to read item lists.
package file

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/apache/skywalking-bloomfilter/pkg/iter"
)

// ReadItems reads one item per line from the given file, from every .txt file of a directory,
// or from reader in case that path is `-`. Blank lines are skipped and surrounding spaces trimmed.
func ReadItems(path string, reader io.Reader) ([]string, error) {
	if path == "-" {
		return scan(reader)
	}
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !fileInfo.IsDir() {
		return readFile(path)
	}
	var items []string
	err = filepath.Walk(path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".txt" {
			return nil
		}
		fileItems, err := readFile(path)
		if err != nil {
			return err
		}
		items = append(items, fileItems...)
		return nil
	})
	return items, err
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := scan(f)
	return items, errors.Wrapf(err, "read %s", path)
}

func scan(reader io.Reader) ([]string, error) {
	s := bufio.NewScanner(reader)
	lines := iter.Map(iter.FromScanner(s), strings.TrimSpace)
	items := iter.Collect(iter.Filter(lines, func(line string) bool {
		return line != ""
	}))
	return items, s.Err()
}
