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

package source

import (
	"context"
	"fmt"
	"iter"

	"github.com/walteh/corpusrc/pkg/schema"
)

// 📝 PlainText yields its texts, in order.
type PlainText struct {
	node
	Values []string
}

func (s *PlainText) Type() string { return TypeText }

func (s *PlainText) Texts(ctx context.Context, _ string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, t := range s.Values {
			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(t, nil) {
				return
			}
		}
	}
}

func (s *PlainText) String() string {
	return fmt.Sprintf("text (%d)", len(s.Values))
}

func decodePlainText(n node, obj *schema.Object) (Source, error) {
	texts, err := obj.RequiredStrings("texts")
	if err != nil {
		return nil, err
	}
	return &PlainText{node: n, Values: texts}, nil
}
