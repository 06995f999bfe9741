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
	"iter"

	"github.com/rs/zerolog"
)

// 🔗 Apply runs ops over the batch. The texts produced by operation k, in
// order, are the complete input batch of operation k+1. Operations only fan
// out; nothing merges texts.
func Apply(ctx context.Context, ops []Operation, batch []string, at string) ([]string, error) {
	for _, op := range ops {
		next := make([]string, 0, len(batch))
		for _, text := range batch {
			for out, err := range op.Process(ctx, text, at) {
				if err != nil {
					return nil, err
				}
				next = append(next, out)
			}
		}

		zerolog.Ctx(ctx).Trace().
			Str("operation", op.Path()).
			Str("type", op.Type()).
			Int("in", len(batch)).
			Int("out", len(next)).
			Msg("applied operation")

		batch = next
	}
	return batch, nil
}

// Chain yields the result of applying ops to a single text.
func Chain(ctx context.Context, ops []Operation, text, at string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		batch, err := Apply(ctx, ops, []string{text}, at)
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

// single yields one text.
func single(text string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield(text, nil)
	}
}

// failed yields err.
func failed(err error) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield("", err)
	}
}
