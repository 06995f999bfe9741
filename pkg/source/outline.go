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
	"fmt"

	"github.com/walteh/corpusrc/pkg/operation"
)

// OutlineItem is one line of a rendered source tree.
type OutlineItem struct {
	Depth int
	Label string
}

type commented interface {
	Comment() string
}

// 🌳 Outline flattens a decoded source into depth-annotated labels, parents
// before children, suitable for tree rendering.
func Outline(s Source) []OutlineItem {
	var items []OutlineItem
	outline(s, 0, &items)
	return items
}

func outline(s Source, depth int, items *[]OutlineItem) {
	*items = append(*items, OutlineItem{Depth: depth, Label: label(s)})

	p, ok := s.(*Process)
	if !ok {
		return
	}
	for _, op := range p.Operations {
		*items = append(*items, OutlineItem{Depth: depth + 1, Label: label(op)})
	}
	for _, child := range p.Sources {
		outline(child, depth+1, items)
	}
}

func label(v any) string {
	l := fmt.Sprint(v)
	if c, ok := v.(commented); ok && c.Comment() != "" {
		l += fmt.Sprintf(" # %s", c.Comment())
	}
	return l
}

var (
	_ fmt.Stringer = (*PlainText)(nil)
	_ fmt.Stringer = (*FindFile)(nil)
	_ fmt.Stringer = (*Process)(nil)
	_ fmt.Stringer = (*operation.ReadFile)(nil)
	_ fmt.Stringer = (*operation.Reference)(nil)
	_ fmt.Stringer = (*operation.Replace)(nil)
	_ fmt.Stringer = (*operation.Strip)(nil)
	_ fmt.Stringer = (*operation.RightStrip)(nil)
	_ fmt.Stringer = (*operation.SplitLines)(nil)
)
