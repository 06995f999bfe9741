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
	"github.com/stretchr/testify/require"
)

func TestCompileFullMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    bool
	}{
		{name: "whole_name", pattern: `.*\.txt`, input: "a.txt", want: true},
		{name: "prefix_is_not_enough", pattern: `.*\.txt`, input: "a.txt.bak", want: false},
		{name: "alternation_is_grouped", pattern: `a|ab`, input: "ab", want: true},
		{name: "no_trailing_newline_slack", pattern: `a`, input: "a\n", want: false},
		{name: "unicode_word", pattern: `\w+`, input: "na\u00efve", want: true},
		{name: "lookahead", pattern: `(?!_).*`, input: "_skip", want: false},
		{name: "backreference", pattern: `(\w)\1.*`, input: "aab", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := CompileFullMatch(tt.pattern)
			require.NoError(t, err)
			got, err := p.MatchString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.pattern, p.String())
		})
	}
}

func TestTranslatePattern(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		want       string
		wantNames  map[string]int
		wantGroups int
	}{
		{
			name:       "plain",
			pattern:    `a(b)(?:c)`,
			want:       `a(b)(?:c)`,
			wantNames:  map[string]int{},
			wantGroups: 1,
		},
		{
			name:       "named_groups_become_numbered",
			pattern:    `(x)(?P<k>a)(?<v>b)`,
			want:       `(x)(a)(b)`,
			wantNames:  map[string]int{"k": 2, "v": 3},
			wantGroups: 3,
		},
		{
			name:       "named_backreferences",
			pattern:    `(?P<c>a)(?P=c)\k<c>`,
			want:       `(a)(?:\1)(?:\1)`,
			wantNames:  map[string]int{"c": 1},
			wantGroups: 1,
		},
		{
			name:       "lookbehind_is_not_a_group",
			pattern:    `(?<=a)(?<!b)c`,
			want:       `(?<=a)(?<!b)c`,
			wantNames:  map[string]int{},
			wantGroups: 0,
		},
		{
			name:       "end_of_text",
			pattern:    `a\Z`,
			want:       `a\z`,
			wantNames:  map[string]int{},
			wantGroups: 0,
		},
		{
			name:       "class_contents_are_literal",
			pattern:    `[]()\]](\()`,
			want:       `[]()\]](\()`,
			wantNames:  map[string]int{},
			wantGroups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, names, groups, err := translatePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantGroups, groups)
		})
	}
}

func TestCompilePattern_Errors(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		wantError string
	}{
		{name: "unbalanced", pattern: `(`, wantError: ""},
		{name: "trailing_backslash", pattern: `a\`, wantError: "bad escape (end of pattern)"},
		{name: "bad_group_name", pattern: `(?P<1a>x)`, wantError: "bad character in group name"},
		{name: "unterminated_group_name", pattern: `(?P<a`, wantError: "missing >"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompilePattern(tt.pattern)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}
