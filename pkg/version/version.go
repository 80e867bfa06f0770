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

// Package version embeds the git release label of the build into the binary.
package version

import (
	"fmt"
	"io"
	"strings"
)

// build is to be populated at build time using -ldflags -X.
var build string

// Build shows the raw build label.
func Build() string {
	return build
}

// Show writes the version line of the named program to w.
func Show(w io.Writer, name string) {
	fmt.Fprintln(w, name+" "+Parse())
}

// Parse returns the parsed version information of this binary.
func Parse() string {
	return parse(build)
}

// parse turns a raw git label of the form
// <release tag>-<commits since release tag>-g<commit hash>-<branch name>
// into a printable version.
func parse(label string) string {
	v := strings.SplitN(label, "-", 4)
	// Go module tags should include the 'v'
	if len(v[0]) > 1 && strings.ToLower(v[0])[0] != 'v' {
		v[0] = "v" + v[0]
	}
	switch {
	case len(v) != 4:
		// built without using the make tooling
		return "v0.0.0-unofficial"
	case v[1] != "0":
		// built from a non release commit point, drop the "g" of the hash
		return fmt.Sprintf("%s-%s (%s, +%s)", v[0], v[3], v[2][1:], v[1])
	case v[3] != "main":
		return fmt.Sprintf("%s-%s", v[0], v[3])
	default:
		return v[0]
	}
}
