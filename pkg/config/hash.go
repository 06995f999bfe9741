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

package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/location"
	"github.com/walteh/corpusrc/pkg/operation"
	"github.com/walteh/corpusrc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// 🔑 Hash returns a stable digest of the configuration contents. Map keys are
// sorted by the JSON encoder, so key order in the file does not matter.
//
// Operation files pulled in by ref operations are part of the digest too,
// transitively and in evaluation order, so editing one makes a previous build
// stale. A referenced file that cannot be read hashes as missing.
func (cfg *Config) Hash(ctx context.Context) (string, error) {
	data, err := json.Marshal(normalize(cfg))
	if err != nil {
		return "", errors.Errorf("encoding config: %w", err)
	}

	h := sha256.New()
	h.Write(data)

	if cfg.source == nil {
		if err := cfg.Validate(); err != nil {
			return "", err
		}
	}
	at := cfg.location
	if at == "" {
		at = "."
	}

	w := &refHasher{h: h, seen: map[string]bool{}}
	if err := w.source(ctx, cfg.source, at); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// refHasher folds referenced operation files into h. Each file is hashed once.
type refHasher struct {
	h    hash.Hash
	seen map[string]bool
}

func (w *refHasher) source(ctx context.Context, src source.Source, at string) error {
	proc, ok := src.(*source.Process)
	if !ok {
		return nil
	}
	for _, child := range proc.Sources {
		if err := w.source(ctx, child, at); err != nil {
			return err
		}
	}
	return w.operations(ctx, proc.Operations, at)
}

func (w *refHasher) operations(ctx context.Context, ops []operation.Operation, at string) error {
	for _, op := range ops {
		ref, ok := op.(*operation.Reference)
		if !ok {
			continue
		}
		for _, p := range ref.Paths {
			path, err := location.Resolve(at, ref.Base, p)
			if err != nil {
				return errors.Errorf("resolving referenced file: %w", err)
			}
			if err := w.file(ctx, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *refHasher) file(ctx context.Context, path string) error {
	if w.seen[path] {
		return nil
	}
	w.seen[path] = true

	data, err := os.ReadFile(path)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("referenced file unreadable, hashing as missing")
		io.WriteString(w.h, "\x00missing\x00")
		return nil
	}
	fmt.Fprintf(w.h, "\x00%d\x00", len(data))
	w.h.Write(data)

	// a file that does not decode is still covered by its bytes
	ops, err := operation.Load(ctx, path)
	if err != nil {
		return nil
	}
	return w.operations(ctx, ops, path)
}

// normalize rewrites YAML's map[any]any nodes so the tree can be encoded as JSON.
func normalize(cfg *Config) map[string]any {
	return map[string]any{
		"output":      cfg.Output,
		"compression": cfg.Compression,
		"source":      normalizeValue(cfg.Source),
	}
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}
