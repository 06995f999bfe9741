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
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultCharset is used when no encoding is configured.
const DefaultCharset = "utf-8"

// ❌ DecodeError reports bytes that are not valid in a charset.
type DecodeError struct {
	Charset string
	Offset  int // -1 when the decoder cannot tell
}

func (e *DecodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("content is not valid %s", e.Charset)
	}
	return fmt.Sprintf("content is not valid %s at byte offset %d", e.Charset, e.Offset)
}

// 🔤 Charset decodes file contents into strings.
type Charset struct {
	name string
	enc  encoding.Encoding
	utf8 bool
}

// LookupCharset resolves an encoding name, accepting IANA names and aliases
// and WHATWG labels ("utf-8", "latin1", "iso-8859-15", "shift_jis", ...).
// The empty name is DefaultCharset.
func LookupCharset(name string) (*Charset, error) {
	if name == "" {
		name = DefaultCharset
	}

	for _, candidate := range charsetCandidates(name) {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return newCharset(name, enc), nil
		}
		if enc, err := htmlindex.Get(candidate); err == nil && enc != nil {
			return newCharset(name, enc), nil
		}
	}

	return nil, errors.Errorf("unknown encoding %q", name)
}

func newCharset(name string, enc encoding.Encoding) *Charset {
	isUTF8 := enc == unicode.UTF8
	if canonical, err := ianaindex.IANA.Name(enc); err == nil && canonical == "UTF-8" {
		isUTF8 = true
	}
	return &Charset{name: name, enc: enc, utf8: isUTF8}
}

func charsetCandidates(name string) []string {
	lower := strings.ToLower(strings.TrimSpace(name))
	return []string{
		lower,
		strings.ReplaceAll(lower, "_", "-"),
		strings.NewReplacer("-", "", "_", "").Replace(lower),
	}
}

// Name returns the name the charset was looked up with.
func (c *Charset) Name() string {
	return c.name
}

// Decode converts raw to a string with universal newlines ("\r\n" and "\r"
// become "\n"). Bytes the charset cannot represent produce a *DecodeError.
// Non-UTF-8 decoders substitute U+FFFD for such bytes, so any U+FFFD in
// their output is treated as a failure.
func (c *Charset) Decode(raw []byte) (string, error) {
	if c.utf8 {
		if off := invalidUTF8Offset(raw); off >= 0 {
			return "", errors.WithStack(&DecodeError{Charset: c.name, Offset: off})
		}
		return UniversalNewlines(string(raw)), nil
	}

	out, err := c.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", errors.WithStack(&DecodeError{Charset: c.name, Offset: -1})
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errors.WithStack(&DecodeError{Charset: c.name, Offset: -1})
	}
	return UniversalNewlines(string(out)), nil
}

// UniversalNewlines rewrites "\r\n" and lone "\r" to "\n".
func UniversalNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\r", "\n")
}

func invalidUTF8Offset(raw []byte) int {
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
