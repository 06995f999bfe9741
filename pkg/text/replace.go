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
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔄 Rule describes a single substitution.
type Rule struct {
	Old     string // Literal text, or a pattern when Regex is set
	New     string // Replacement; a backslash template when Regex is set
	Regex   bool   // Treat Old as a regular expression (see Pattern)
	Repeat  bool   // Reapply until the text stops changing
	PerLine bool   // Apply to each line independently
}

// Replacer applies a validated Rule.
type Replacer struct {
	rule     Rule
	pattern  *Pattern
	template []templatePart
}

// 🏭 NewReplacer compiles rule. Pattern and template errors are reported here,
// never during replacement.
func NewReplacer(rule Rule) (*Replacer, error) {
	r := &Replacer{rule: rule}
	if !rule.Regex {
		return r, nil
	}

	pattern, err := CompilePattern(rule.Old)
	if err != nil {
		return nil, errors.Errorf("compiling pattern: %w", err)
	}
	tmpl, err := parseTemplate(rule.New, pattern)
	if err != nil {
		return nil, errors.Errorf("parsing replacement template: %w", err)
	}

	r.pattern = pattern
	r.template = tmpl
	return r, nil
}

// Rule returns the rule r was built from.
func (r *Replacer) Rule() Rule {
	return r.rule
}

// Replace applies the rule to s.
//
// With Repeat the substitution runs until its output equals its input. A rule
// that never settles (one that keeps growing the text, or toggles between two
// forms) loops forever; no iteration cap is applied.
func (r *Replacer) Replace(s string) (string, error) {
	if r.rule.PerLine {
		return MapLinesErr(s, r.settle)
	}
	return r.settle(s)
}

func (r *Replacer) settle(s string) (string, error) {
	if !r.rule.Repeat {
		return r.once(s)
	}
	for {
		next, err := r.once(s)
		if err != nil {
			return "", err
		}
		if next == s {
			return next, nil
		}
		s = next
	}
}

func (r *Replacer) once(s string) (string, error) {
	if r.pattern == nil {
		return strings.ReplaceAll(s, r.rule.Old, r.rule.New), nil
	}
	return r.pattern.expand(s, r.template)
}

var templateEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// templatePart is a literal run of a replacement template, or a group
// reference when group >= 0.
type templatePart struct {
	literal string
	group   int
}

// parseTemplate splits a backslash replacement template (\1, \g<1>, \g<name>,
// \n, \\) into literal runs and group references. A '$' is literal.
func parseTemplate(tmpl string, p *Pattern) ([]templatePart, error) {
	var (
		parts []templatePart
		lit   strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String(), group: -1})
			lit.Reset()
		}
	}
	group := func(ref string) error {
		n, err := groupRef(ref, p)
		if err != nil {
			return err
		}
		flush()
		parts = append(parts, templatePart{group: n})
		return nil
	}

	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '\\' {
			lit.WriteByte(c)
			continue
		}
		if i+1 == len(tmpl) {
			return nil, errors.Errorf("bad escape (end of template) at position %d", i)
		}

		i++
		n := tmpl[i]
		switch {
		case n >= '1' && n <= '9':
			end := i + 1
			if end < len(tmpl) && tmpl[end] >= '0' && tmpl[end] <= '9' {
				end++
			}
			if err := group(tmpl[i:end]); err != nil {
				return nil, err
			}
			i = end - 1
		case n == 'g':
			if i+1 >= len(tmpl) || tmpl[i+1] != '<' {
				return nil, errors.Errorf("missing < after \\g at position %d", i-1)
			}
			closing := strings.IndexByte(tmpl[i+2:], '>')
			if closing < 0 {
				return nil, errors.Errorf("missing > after \\g< at position %d", i-1)
			}
			if err := group(tmpl[i+2 : i+2+closing]); err != nil {
				return nil, err
			}
			i += 2 + closing
		default:
			if esc, ok := templateEscapes[n]; ok {
				lit.WriteByte(esc)
				continue
			}
			if (n >= 'a' && n <= 'z') || (n >= 'A' && n <= 'Z') {
				return nil, errors.Errorf("bad escape \\%c at position %d", n, i-1)
			}
			lit.WriteByte('\\')
			lit.WriteByte(n)
		}
	}
	flush()
	return parts, nil
}

func groupRef(name string, p *Pattern) (int, error) {
	if name == "" {
		return 0, errors.New("missing group name")
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > p.groups {
			return 0, errors.Errorf("invalid group reference %d", n)
		}
		return n, nil
	}
	n := p.groupIndex(name)
	if n < 0 {
		return 0, errors.Errorf("unknown group name %q", name)
	}
	return n, nil
}
