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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/location"
	"github.com/walteh/corpusrc/pkg/schema"
	"gitlab.com/tozd/go/errors"
)

// 🔗 Reference splices in operation chains defined in external JSON files.
//
// Each file holds an array of operation descriptors. Its operations run with
// the file itself as the context path, so relative paths inside it resolve
// against its directory. Files may reference further files; cycles are not
// detected and recurse until the stack is exhausted.
type Reference struct {
	node
	Base  string
	Paths []string
}

func (op *Reference) Type() string { return TypeReference }

func (op *Reference) Process(ctx context.Context, s, at string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		batch := []string{s}
		for _, p := range op.Paths {
			ref, err := location.Resolve(at, op.Base, p)
			if err != nil {
				yield("", errors.Errorf("%s: %w", op.path, err))
				return
			}

			ops, err := Load(ctx, ref)
			if err != nil {
				yield("", errors.Errorf("%s: %w", op.path, err))
				return
			}

			if batch, err = Apply(ctx, ops, batch, ref); err != nil {
				yield("", err)
				return
			}
		}

		for _, out := range batch {
			if !yield(out, nil) {
				return
			}
		}
	}
}

func (op *Reference) String() string {
	return fmt.Sprintf("ref base=%q paths=%q", op.Base, op.Paths)
}

// 📂 Load reads and validates the operation file at path. Validation errors
// are reported with the file path as the root of the field path.
func Load(ctx context.Context, path string) ([]Operation, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading referenced operations")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading operation file: %w", err)
	}

	var raw any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		return nil, errors.Errorf("parsing operation file %s: %w", path, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing operation file %s: unexpected data after the top-level value", path)
	}

	return DecodeList(path, raw)
}

func decodeReference(n node, obj *schema.Object) (Operation, error) {
	op := &Reference{node: n}

	var err error
	if op.Base, err = obj.String("base", "."); err != nil {
		return nil, err
	}
	if op.Paths, err = obj.RequiredStrings("paths"); err != nil {
		return nil, err
	}
	return op, nil
}
