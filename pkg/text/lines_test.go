// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     []string
		wantEnds []string
	}{
		{
			name:     "newlines",
			content:  "x\ny\nz",
			want:     []string{"x", "y", "z"},
			wantEnds: []string{"x\n", "y\n", "z"},
		},
		{
			name:     "trailing_newline",
			content:  "x\ny\n",
			want:     []string{"x", "y"},
			wantEnds: []string{"x\n", "y\n"},
		},
		{
			name:     "crlf_is_one_boundary",
			content:  "a\r\nb\rc",
			want:     []string{"a", "b", "c"},
			wantEnds: []string{"a\r\n", "b\r", "c"},
		},
		{
			name:     "empty_lines_kept",
			content:  "a\n\nb",
			want:     []string{"a", "", "b"},
			wantEnds: []string{"a\n", "\n", "b"},
		},
		{
			name:     "unicode_boundaries",
			content:  "a\u2028b\u0085c\x1cd\ve\ff",
			want:     []string{"a", "b", "c", "d", "e", "f"},
			wantEnds: []string{"a\u2028", "b\u0085", "c\x1c", "d\v", "e\f", "f"},
		},
		{
			name:     "unit_separator_is_not_a_boundary",
			content:  "a\x1fb",
			want:     []string{"a\x1fb"},
			wantEnds: []string{"a\x1fb"},
		},
		{
			name:    "empty",
			content: "",
		},
		{
			name:     "only_newline",
			content:  "\n",
			want:     []string{""},
			wantEnds: []string{"\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.content, false), "lines without ends")
			assert.Equal(t, tt.wantEnds, SplitLines(tt.content, true), "lines with ends")
		})
	}
}

func TestLines_StopsEarly(t *testing.T) {
	var got []string
	for line := range Lines("a\nb\nc", false) {
		got = append(got, line)
		if line == "b" {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestMapLines(t *testing.T) {
	upper := func(s string) string { return "<" + s + ">" }
	assert.Equal(t, "<a>\n<b>", MapLines("a\r\nb\n", upper))
	assert.Equal(t, "", MapLines("", upper))
	assert.Equal(t, "<>\n<x>", MapLines("\nx", upper))
}

func TestStrip(t *testing.T) {
	xy := "xy"
	empty := ""

	tests := []struct {
		name      string
		content   string
		chars     *string
		wantStrip string
		wantRight string
	}{
		{name: "whitespace", content: " \t hello \n ", wantStrip: "hello", wantRight: " \t hello"},
		{name: "separators", content: "\x1chi\x1f", wantStrip: "hi", wantRight: "\x1chi"},
		{name: "unicode_space", content: "\u00a0 hi\u3000", wantStrip: "hi", wantRight: "\u00a0 hi"},
		{name: "chars", content: "xyhixy", chars: &xy, wantStrip: "hi", wantRight: "xyhi"},
		{name: "empty_chars", content: " hi ", chars: &empty, wantStrip: " hi ", wantRight: " hi "},
		{name: "all_stripped", content: "   ", wantStrip: "", wantRight: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStrip, Strip(tt.content, tt.chars), "Strip")
			assert.Equal(t, tt.wantRight, RightStrip(tt.content, tt.chars), "RightStrip")
		})
	}
}

func TestStrip_Idempotent(t *testing.T) {
	dot := "."
	for _, content := range []string{"", "  a  ", "\n\tb c\t\n", "..x..", " y "} {
		once := Strip(content, nil)
		assert.Equal(t, once, Strip(once, nil), "strip(strip(%q))", content)

		onceDot := Strip(content, &dot)
		assert.Equal(t, onceDot, Strip(onceDot, &dot), "strip(strip(%q, \".\"))", content)
	}
}
