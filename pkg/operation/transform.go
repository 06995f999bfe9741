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

package operation

import (
	"context"
	"fmt"
	"iter"

	"github.com/walteh/corpusrc/pkg/schema"
	"github.com/walteh/corpusrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔄 Replace substitutes Old with New, literally or as a regular expression.
type Replace struct {
	node
	replacer *text.Replacer
}

// Rule returns the substitution rule.
func (op *Replace) Rule() text.Rule { return op.replacer.Rule() }

func (op *Replace) Type() string { return TypeReplace }

func (op *Replace) Process(_ context.Context, s, _ string) iter.Seq2[string, error] {
	out, err := op.replacer.Replace(s)
	if err != nil {
		return failed(errors.Errorf("%s: %w", op.path, err))
	}
	return single(out)
}

func (op *Replace) String() string {
	r := op.Rule()
	return fmt.Sprintf("replace %q -> %q (regex=%t repeat=%t per_line=%t)", r.Old, r.New, r.Regex, r.Repeat, r.PerLine)
}

func decodeReplace(n node, obj *schema.Object) (Operation, error) {
	var (
		rule text.Rule
		err  error
	)
	if rule.Regex, err = obj.Bool("regex", false); err != nil {
		return nil, err
	}
	if rule.Old, err = obj.RequiredString("old"); err != nil {
		return nil, err
	}
	if rule.New, err = obj.RequiredString("new"); err != nil {
		return nil, err
	}
	if rule.Repeat, err = obj.Bool("repeat", false); err != nil {
		return nil, err
	}
	if rule.PerLine, err = obj.Bool("per_line", false); err != nil {
		return nil, err
	}

	replacer, err := text.NewReplacer(rule)
	if err != nil {
		return nil, schema.Invalid(obj.Path(), "%s", err.Error())
	}
	return &Replace{node: n, replacer: replacer}, nil
}

// ✂️ Strip trims leading and trailing characters (whitespace when Chars is nil).
type Strip struct {
	node
	Chars   *string
	PerLine bool
}

func (op *Strip) Type() string { return TypeStrip }

func (op *Strip) Process(_ context.Context, s, _ string) iter.Seq2[string, error] {
	strip := func(line string) string { return text.Strip(line, op.Chars) }
	if op.PerLine {
		return single(text.MapLines(s, strip))
	}
	return single(strip(s))
}

func (op *Strip) String() string {
	return fmt.Sprintf("strip%s", stripArgs(op.Chars, op.PerLine))
}

// RightStrip trims trailing characters (whitespace when Chars is nil).
type RightStrip struct {
	node
	Chars   *string
	PerLine bool
}

func (op *RightStrip) Type() string { return TypeRightStrip }

func (op *RightStrip) Process(_ context.Context, s, _ string) iter.Seq2[string, error] {
	strip := func(line string) string { return text.RightStrip(line, op.Chars) }
	if op.PerLine {
		return single(text.MapLines(s, strip))
	}
	return single(strip(s))
}

func (op *RightStrip) String() string {
	return fmt.Sprintf("rstrip%s", stripArgs(op.Chars, op.PerLine))
}

func stripArgs(chars *string, perLine bool) string {
	out := ""
	if chars != nil {
		out += fmt.Sprintf(" chars=%q", *chars)
	}
	if perLine {
		out += " per_line"
	}
	return out
}

func decodeStripFields(obj *schema.Object) (*string, bool, error) {
	chars, err := obj.OptionalString("chars")
	if err != nil {
		return nil, false, err
	}
	perLine, err := obj.Bool("per_line", false)
	if err != nil {
		return nil, false, err
	}
	return chars, perLine, nil
}

func decodeStrip(n node, obj *schema.Object) (Operation, error) {
	chars, perLine, err := decodeStripFields(obj)
	if err != nil {
		return nil, err
	}
	return &Strip{node: n, Chars: chars, PerLine: perLine}, nil
}

func decodeRightStrip(n node, obj *schema.Object) (Operation, error) {
	chars, perLine, err := decodeStripFields(obj)
	if err != nil {
		return nil, err
	}
	return &RightStrip{node: n, Chars: chars, PerLine: perLine}, nil
}

// 📜 SplitLines emits each line of its input as a separate text.
type SplitLines struct {
	node
	KeepEnds bool
}

func (op *SplitLines) Type() string { return TypeSplitLines }

func (op *SplitLines) Process(_ context.Context, s, _ string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for line := range text.Lines(s, op.KeepEnds) {
			if !yield(line, nil) {
				return
			}
		}
	}
}

func (op *SplitLines) String() string {
	if op.KeepEnds {
		return "split_lines keep_ends"
	}
	return "split_lines"
}

func decodeSplitLines(n node, obj *schema.Object) (Operation, error) {
	keepEnds, err := obj.Bool("keep_ends", false)
	if err != nil {
		return nil, err
	}
	return &SplitLines{node: n, KeepEnds: keepEnds}, nil
}
