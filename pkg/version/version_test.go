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

package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{label: "", want: "v0.0.0-unofficial"},
		{label: "0.3.0", want: "v0.0.0-unofficial"},
		{label: "v0.3.0-0-gabcdef1-main", want: "v0.3.0"},
		{label: "0.3.0-0-gabcdef1-main", want: "v0.3.0"},
		{label: "v0.3.0-0-gabcdef1-release", want: "v0.3.0-release"},
		{label: "v0.3.0-12-gabcdef1-feature-x", want: "v0.3.0-feature-x (abcdef1, +12)"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, parse(tt.label))
		})
	}
}

func TestShow(t *testing.T) {
	var buf bytes.Buffer
	Show(&buf, "bloomctl")
	assert.Equal(t, "bloomctl v0.0.0-unofficial\n", buf.String())
}
