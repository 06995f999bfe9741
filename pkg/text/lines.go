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
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// IsLineBoundary reports whether r ends a line. "\r\n" is handled by the
// callers as a single boundary.
func IsLineBoundary(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// 📜 Lines yields the lines of s. A trailing boundary does not produce an empty
// final line, and "" has no lines. With keepEnds each line retains its
// terminator.
func Lines(s string, keepEnds bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := 0
		for i := 0; i < len(s); {
			r, size := utf8.DecodeRuneInString(s[i:])
			if !IsLineBoundary(r) {
				i += size
				continue
			}

			end := i + size
			if r == '\r' && end < len(s) && s[end] == '\n' {
				end++
			}

			line := s[start:i]
			if keepEnds {
				line = s[start:end]
			}
			if !yield(line) {
				return
			}
			start, i = end, end
		}

		if start < len(s) {
			yield(s[start:])
		}
	}
}

// SplitLines collects Lines.
func SplitLines(s string, keepEnds bool) []string {
	return slices.Collect(Lines(s, keepEnds))
}

// MapLines applies fn to every line of s (without terminators) and joins the
// results with "\n".
func MapLines(s string, fn func(string) string) string {
	out, _ := MapLinesErr(s, func(line string) (string, error) {
		return fn(line), nil
	})
	return out
}

// MapLinesErr is MapLines for a fn that can fail. It stops at the first error.
func MapLinesErr(s string, fn func(string) (string, error)) (string, error) {
	var b strings.Builder
	first := true
	for line := range Lines(s, false) {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		out, err := fn(line)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
