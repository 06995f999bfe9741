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

	"github.com/walteh/corpusrc/pkg/operation"
	"github.com/walteh/corpusrc/pkg/schema"
)

// ⚙️ Process runs every text of its child sources through an operation chain.
//
// Children are evaluated in order. Each child text is pushed through the
// whole chain and the resulting batch is yielded before the next child text
// is pulled.
type Process struct {
	node
	Operations []operation.Operation
	Sources    []Source
}

func (s *Process) Type() string { return TypeProcess }

func (s *Process) Texts(ctx context.Context, at string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, child := range s.Sources {
			for text, err := range child.Texts(ctx, at) {
				if err != nil {
					yield("", err)
					return
				}

				batch, err := operation.Apply(ctx, s.Operations, []string{text}, at)
				if err != nil {
					yield("", err)
					return
				}

				for _, out := range batch {
					if !yield(out, nil) {
						return
					}
				}
			}
		}
	}
}

func (s *Process) String() string {
	return fmt.Sprintf("process (%d operations, %d sources)", len(s.Operations), len(s.Sources))
}

func decodeProcess(n node, obj *schema.Object) (Source, error) {
	rawOps, err := obj.List("operations")
	if err != nil {
		return nil, err
	}
	ops, err := operation.DecodeList(schema.Field(n.path, "operations"), rawOps)
	if err != nil {
		return nil, err
	}

	rawSources, err := obj.List("sources")
	if err != nil {
		return nil, err
	}
	sources, err := DecodeList(schema.Field(n.path, "sources"), rawSources)
	if err != nil {
		return nil, err
	}

	return &Process{node: n, Operations: ops, Sources: sources}, nil
}
