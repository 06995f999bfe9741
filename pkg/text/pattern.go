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
	"fmt"
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// 🧩 Pattern is a compiled regular expression written in Python syntax.
//
// Matching uses a backtracking engine: \w, \d and \b are Unicode aware,
// lookaround and backreferences work, and $ also matches before a final
// newline. Named groups ((?P<name>...), (?<name>...)) are numbered left to
// right together with unnamed ones, and (?P=name) refers back to them. \Z
// only matches at the very end of the text.
type Pattern struct {
	expr   string
	re     *regexp2.Regexp
	names  map[string]int
	groups int
}

// CompilePattern compiles expr for searching.
func CompilePattern(expr string) (*Pattern, error) {
	return compilePattern(expr, false)
}

// CompileFullMatch compiles expr so that it only matches a whole string.
func CompileFullMatch(expr string) (*Pattern, error) {
	return compilePattern(expr, true)
}

func compilePattern(expr string, full bool) (*Pattern, error) {
	translated, names, groups, err := translatePattern(expr)
	if err != nil {
		return nil, err
	}
	if full {
		translated = `\A(?:` + translated + `)\z`
	}

	re, err := regexp2.Compile(translated, regexp2.None)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &Pattern{expr: expr, re: re, names: names, groups: groups}, nil
}

// String returns the expression as written.
func (p *Pattern) String() string {
	return p.expr
}

// MatchString reports whether the pattern matches s.
func (p *Pattern) MatchString(s string) (bool, error) {
	ok, err := p.re.MatchString(s)
	if err != nil {
		return false, errors.Errorf("matching %q: %w", p.expr, err)
	}
	return ok, nil
}

// groupIndex returns the number of the named group, or -1.
func (p *Pattern) groupIndex(name string) int {
	if n, ok := p.names[name]; ok {
		return n
	}
	return -1
}

// expand replaces every match in s with tmpl.
func (p *Pattern) expand(s string, tmpl []templatePart) (string, error) {
	out, err := p.re.ReplaceFunc(s, func(m regexp2.Match) string {
		var b strings.Builder
		for _, part := range tmpl {
			if part.group < 0 {
				b.WriteString(part.literal)
				continue
			}
			// groups that did not take part in the match expand to ""
			if g := m.GroupByNumber(part.group); g != nil {
				b.WriteString(g.String())
			}
		}
		return b.String()
	}, -1, -1)
	if err != nil {
		return "", errors.Errorf("replacing %q: %w", p.expr, err)
	}
	return out, nil
}

// translatePattern rewrites the Python-only parts of expr: named groups become
// plain groups (so numbering stays left to right), (?P=name) and \k<name>
// become numbered backreferences and \Z becomes \z.
func translatePattern(expr string) (string, map[string]int, int, error) {
	var b strings.Builder
	names := map[string]int{}
	groups := 0
	inClass := false

	backref := func(name string, at int) error {
		n, ok := names[name]
		if !ok {
			return errors.Errorf("unknown group name %q at position %d", name, at)
		}
		fmt.Fprintf(&b, `(?:\%d)`, n)
		return nil
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		rest := expr[i:]

		switch {
		case c == '\\':
			if i+1 == len(expr) {
				return "", nil, 0, errors.Errorf("bad escape (end of pattern) at position %d", i)
			}
			n := expr[i+1]
			switch {
			case inClass:
				b.WriteString(rest[:2])
			case n == 'Z':
				b.WriteString(`\z`)
			case n == 'k' && strings.HasPrefix(rest, `\k<`):
				end := strings.IndexByte(rest, '>')
				if end < 0 {
					return "", nil, 0, errors.Errorf("missing >, unterminated name at position %d", i)
				}
				if err := backref(rest[3:end], i); err != nil {
					return "", nil, 0, err
				}
				i += end - 1
			default:
				b.WriteString(rest[:2])
			}
			i++

		case inClass:
			if c == ']' {
				inClass = false
			}
			b.WriteByte(c)

		case c == '[':
			inClass = true
			b.WriteByte(c)
			// a ']' right after '[' or '[^' is literal
			j := i + 1
			if j < len(expr) && expr[j] == '^' {
				b.WriteByte('^')
				j++
			}
			if j < len(expr) && expr[j] == ']' {
				b.WriteByte(']')
				j++
			}
			i = j - 1

		case c != '(':
			b.WriteByte(c)

		case strings.HasPrefix(rest, "(?P<") || (strings.HasPrefix(rest, "(?<") &&
			!strings.HasPrefix(rest, "(?<=") && !strings.HasPrefix(rest, "(?<!")):
			open := strings.IndexByte(rest, '<')
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return "", nil, 0, errors.Errorf("missing >, unterminated name at position %d", i)
			}
			name := rest[open+1 : end]
			if !isGroupName(name) {
				return "", nil, 0, errors.Errorf("bad character in group name %q at position %d", name, i)
			}
			if _, dup := names[name]; dup {
				return "", nil, 0, errors.Errorf("redefinition of group name %q at position %d", name, i)
			}
			groups++
			names[name] = groups
			b.WriteByte('(')
			i += end

		case strings.HasPrefix(rest, "(?P="):
			end := strings.IndexByte(rest, ')')
			if end < 0 {
				return "", nil, 0, errors.Errorf("missing ), unterminated name at position %d", i)
			}
			if err := backref(rest[4:end], i); err != nil {
				return "", nil, 0, err
			}
			i += end

		case strings.HasPrefix(rest, "(?"):
			b.WriteByte(c)

		default:
			groups++
			b.WriteByte(c)
		}
	}

	return b.String(), names, groups, nil
}

func isGroupName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
