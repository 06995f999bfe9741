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

	"github.com/walteh/corpusrc/pkg/schema"
)

// Operation type discriminators.
const (
	TypeReadFile   = "read_file"
	TypeReference  = "ref"
	TypeReplace    = "replace"
	TypeRightStrip = "rstrip"
	TypeStrip      = "strip"
	TypeSplitLines = "split_lines"
)

// 🎯 Operation maps one input text to zero or more output texts.
//
// at is the context path relative paths are resolved against (see
// package location). The returned sequence ends at the first error.
type Operation interface {
	Process(ctx context.Context, text, at string) iter.Seq2[string, error]

	// Type returns the discriminator the operation was decoded from.
	Type() string

	// Path returns the config field path the operation was decoded from.
	Path() string

	sealed()
}

// node holds what every operation carries from its descriptor.
type node struct {
	path    string
	comment string
}

func (n node) Path() string    { return n.path }
func (n node) Comment() string { return n.comment }
func (node) sealed()           {}

// 🔍 Decode validates a structural operation descriptor found at path.
func Decode(path string, v any) (Operation, error) {
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

	var op Operation
	switch kind {
	case TypeReadFile:
		op, err = decodeReadFile(n, obj)
	case TypeReference:
		op, err = decodeReference(n, obj)
	case TypeReplace:
		op, err = decodeReplace(n, obj)
	case TypeRightStrip:
		op, err = decodeRightStrip(n, obj)
	case TypeStrip:
		op, err = decodeStrip(n, obj)
	case TypeSplitLines:
		op, err = decodeSplitLines(n, obj)
	default:
		return nil, schema.Invalid(schema.Field(path, schema.TypeField), "unknown operation type %q", kind)
	}
	if err != nil {
		return nil, err
	}

	if err := obj.Done(); err != nil {
		return nil, err
	}
	return op, nil
}

// DecodeList validates an array of operation descriptors found at path.
func DecodeList(path string, v any) ([]Operation, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, schema.Invalid(path, "expected an array of operations, got %s", schema.Describe(v))
	}

	ops := make([]Operation, 0, len(items))
	for i, item := range items {
		op, err := Decode(schema.Index(path, i), item)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
