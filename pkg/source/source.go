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
	"iter"

	"github.com/walteh/corpusrc/pkg/schema"
)

// Source type discriminators.
const (
	TypeText    = "text"
	TypeFind    = "find"
	TypeProcess = "process"
)

// 🌱 Source produces a stream of texts.
//
// Every range over the sequence returned by Texts evaluates from scratch:
// directories are walked again and files are read again. The sequence ends at
// the first error.
type Source interface {
	Texts(ctx context.Context, at string) iter.Seq2[string, error]

	// Type returns the discriminator the source was decoded from.
	Type() string

	// Path returns the config field path the source was decoded from.
	Path() string

	sealed()
}

type node struct {
	path    string
	comment string
}

func (n node) Path() string    { return n.path }
func (n node) Comment() string { return n.comment }
func (node) sealed()           {}

// 🔍 Decode validates a structural source descriptor found at path.
func Decode(path string, v any) (Source, error) {
	obj, err := schema.NewObject(path, v)
	if err != nil {
		return nil, err
	}

	kind, err := obj.Kind()
	if err != nil {
		return nil, err
	}
	comment, err := obj.Comment()
	if err != nil {
		return nil, err
	}
	n := node{path: path, comment: comment}

	var src Source
	switch kind {
	case TypeText:
		src, err = decodePlainText(n, obj)
	case TypeFind:
		src, err = decodeFindFile(n, obj)
	case TypeProcess:
		src, err = decodeProcess(n, obj)
	default:
		return nil, schema.Invalid(schema.Field(path, schema.TypeField), "unknown source type %q", kind)
	}
	if err != nil {
		return nil, err
	}

	if err := obj.Done(); err != nil {
		return nil, err
	}
	return src, nil
}

// DecodeList validates an array of source descriptors found at path.
func DecodeList(path string, v any) ([]Source, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, schema.Invalid(path, "expected an array of sources, got %s", schema.Describe(v))
	}

	sources := make([]Source, 0, len(items))
	for i, item := range items {
		src, err := Decode(schema.Index(path, i), item)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// 🚀 Texts validates v as a source and returns its texts, evaluated with at
// as the context path ("." when empty). Validation errors are returned before
// anything is evaluated.
func Texts(ctx context.Context, v any, at string) (iter.Seq2[string, error], error) {
	src, err := Decode("source", v)
	if err != nil {
		return nil, err
	}
	if at == "" {
		at = "."
	}
	return src.Texts(ctx, at), nil
}
