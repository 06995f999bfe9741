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
	"strings"
	"unicode"
)

// IsSpace is unicode.IsSpace plus the information separators U+001C..U+001F,
// which also count as line boundaries.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// ✂️ Strip removes leading and trailing characters contained in chars, or
// whitespace when chars is nil. An empty chars removes nothing.
func Strip(s string, chars *string) string {
	if chars == nil {
		return strings.TrimFunc(s, IsSpace)
	}
	return strings.Trim(s, *chars)
}

// RightStrip is Strip for the end of s only.
func RightStrip(s string, chars *string) string {
	if chars == nil {
		return strings.TrimRightFunc(s, IsSpace)
	}
	return strings.TrimRight(s, *chars)
}
