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
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/location"
	"github.com/walteh/corpusrc/pkg/schema"
	"github.com/walteh/corpusrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// CompressionGzip is the only supported compression.
const CompressionGzip = "gzip"

// 📄 ReadFile treats its input as a path and emits the file's contents.
//
// The path is resolved against Base under the context directory; an absolute
// input is used as is. A file whose bytes are not valid in the configured
// encoding produces no output and a warning. Any other failure ends the
// evaluation.
type ReadFile struct {
	node
	Base        string
	Encoding    string
	Compression string
	charset     *text.Charset
}

func (op *ReadFile) Type() string { return TypeReadFile }

func (op *ReadFile) Process(ctx context.Context, name, at string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		path, err := location.Resolve(at, op.Base, name)
		if err != nil {
			yield("", errors.Errorf("%s: %w", op.path, err))
			return
		}

		content, err := op.read(path)
		if err != nil {
			var derr *text.DecodeError
			if errors.As(err, &derr) {
				zerolog.Ctx(ctx).Warn().
					Str("path", path).
					Str("encoding", op.charset.Name()).
					Err(err).
					Msg("skipping file that cannot be decoded")
				return
			}
			yield("", errors.Errorf("%s: %w", op.path, err))
			return
		}

		yield(content, nil)
	}
}

// read returns the decoded contents of path. The file is closed before read
// returns on every path.
func (op *ReadFile) read(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if op.Compression == CompressionGzip {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", errors.Errorf("opening gzip stream %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", path, err)
	}

	return op.charset.Decode(raw)
}

func (op *ReadFile) String() string {
	out := fmt.Sprintf("read_file base=%q", op.Base)
	if op.Encoding != "" {
		out += fmt.Sprintf(" encoding=%s", op.Encoding)
	}
	if op.Compression != "" {
		out += fmt.Sprintf(" compression=%s", op.Compression)
	}
	return out
}

func decodeReadFile(n node, obj *schema.Object) (Operation, error) {
	op := &ReadFile{node: n}

	var err error
	if op.Base, err = obj.String("base", "."); err != nil {
		return nil, err
	}
	if op.Encoding, err = obj.String("encoding", ""); err != nil {
		return nil, err
	}
	if op.Compression, err = obj.String("compression", ""); err != nil {
		return nil, err
	}

	if op.Compression != "" && op.Compression != CompressionGzip {
		return nil, schema.Invalid(schema.Field(n.path, "compression"), "unsupported compression %q (expected %q)", op.Compression, CompressionGzip)
	}
	if op.charset, err = text.LookupCharset(op.Encoding); err != nil {
		return nil, schema.Invalid(schema.Field(n.path, "encoding"), "%s", err.Error())
	}

	return op, nil
}
