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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/corpusrc/pkg/schema"
	"gitlab.com/tozd/go/errors"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func collect(t *testing.T, seq iter.Seq2[string, error]) ([]string, error) {
	t.Helper()
	var out []string
	for s, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, s)
	}
	return out, nil
}

func mustDecode(t *testing.T, v any) Operation {
	t.Helper()
	op, err := Decode("op", v)
	require.NoError(t, err, "decoding operation should succeed")
	return op
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		value map[string]any
		check func(t *testing.T, op Operation)
	}{
		{
			name:  "read_file_defaults",
			value: map[string]any{"type": "read_file"},
			check: func(t *testing.T, op Operation) {
				rf, ok := op.(*ReadFile)
				require.True(t, ok, "should be a ReadFile")
				assert.Equal(t, ".", rf.Base)
				assert.Empty(t, rf.Encoding)
				assert.Empty(t, rf.Compression)
			},
		},
		{
			name:  "read_file_full",
			value: map[string]any{"type": "read_file", "base": "data", "encoding": "latin1", "compression": "gzip", "comment": "raw files"},
			check: func(t *testing.T, op Operation) {
				rf := op.(*ReadFile)
				assert.Equal(t, "data", rf.Base)
				assert.Equal(t, "latin1", rf.Encoding)
				assert.Equal(t, CompressionGzip, rf.Compression)
				assert.Equal(t, "raw files", rf.Comment())
			},
		},
		{
			name:  "reference",
			value: map[string]any{"type": "ref", "paths": []any{"a.json", "b.json"}},
			check: func(t *testing.T, op Operation) {
				ref := op.(*Reference)
				assert.Equal(t, ".", ref.Base)
				assert.Equal(t, []string{"a.json", "b.json"}, ref.Paths)
			},
		},
		{
			name:  "replace_defaults",
			value: map[string]any{"type": "replace", "old": "a", "new": "b"},
			check: func(t *testing.T, op Operation) {
				rule := op.(*Replace).Rule()
				assert.Equal(t, "a", rule.Old)
				assert.Equal(t, "b", rule.New)
				assert.False(t, rule.Regex)
				assert.False(t, rule.Repeat)
				assert.False(t, rule.PerLine)
			},
		},
		{
			name:  "strip_chars",
			value: map[string]any{"type": "strip", "chars": "xy", "per_line": true},
			check: func(t *testing.T, op Operation) {
				st := op.(*Strip)
				require.NotNil(t, st.Chars)
				assert.Equal(t, "xy", *st.Chars)
				assert.True(t, st.PerLine)
			},
		},
		{
			name:  "rstrip_null_chars",
			value: map[string]any{"type": "rstrip", "chars": nil},
			check: func(t *testing.T, op Operation) {
				assert.Nil(t, op.(*RightStrip).Chars)
			},
		},
		{
			name:  "split_lines",
			value: map[string]any{"type": "split_lines", "keep_ends": true},
			check: func(t *testing.T, op Operation) {
				assert.True(t, op.(*SplitLines).KeepEnds)
				assert.Equal(t, TypeSplitLines, op.Type())
				assert.Equal(t, "op", op.Path())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, mustDecode(t, tt.value))
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantPath string
		wantMsg  string
	}{
		{
			name:     "unknown_type",
			value:    map[string]any{"type": "lowercase"},
			wantPath: "op.type",
			wantMsg:  `unknown operation type "lowercase"`,
		},
		{
			name:     "missing_type",
			value:    map[string]any{"old": "a"},
			wantPath: "op.type",
			wantMsg:  "field is required",
		},
		{
			name:     "replace_missing_new",
			value:    map[string]any{"type": "replace", "old": "a"},
			wantPath: "op.new",
			wantMsg:  "field is required",
		},
		{
			name:     "replace_bad_regex",
			value:    map[string]any{"type": "replace", "regex": true, "old": "(", "new": ""},
			wantPath: "op",
		},
		{
			name:     "read_file_bad_compression",
			value:    map[string]any{"type": "read_file", "compression": "zstd"},
			wantPath: "op.compression",
			wantMsg:  `unsupported compression "zstd" (expected "gzip")`,
		},
		{
			name:     "read_file_bad_encoding",
			value:    map[string]any{"type": "read_file", "encoding": "klingon-8"},
			wantPath: "op.encoding",
		},
		{
			name:     "reference_requires_paths",
			value:    map[string]any{"type": "ref"},
			wantPath: "op.paths",
			wantMsg:  "field is required",
		},
		{
			name:     "unknown_field",
			value:    map[string]any{"type": "strip", "keep_ends": true},
			wantPath: "op.keep_ends",
			wantMsg:  "unknown field",
		},
		{
			name:     "wrong_bool_type",
			value:    map[string]any{"type": "split_lines", "keep_ends": "yes"},
			wantPath: "op.keep_ends",
			wantMsg:  "expected a boolean, got a string",
		},
		{
			name:     "not_an_object",
			value:    "strip",
			wantPath: "op",
			wantMsg:  "expected an object, got a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("op", tt.value)
			require.Error(t, err)

			var verr *schema.ValidationError
			require.True(t, errors.As(err, &verr), "error should be a ValidationError")
			assert.Equal(t, tt.wantPath, verr.Path, "path should match")
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, verr.Message, "message should match")
			}
		})
	}
}

func TestDecodeList(t *testing.T) {
	ops, err := DecodeList("operations", []any{
		map[string]any{"type": "strip"},
		map[string]any{"type": "split_lines"},
	})
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, "operations[0]", ops[0].Path())
	assert.Equal(t, "operations[1]", ops[1].Path())

	_, err = DecodeList("operations", []any{
		map[string]any{"type": "strip"},
		map[string]any{"type": "bogus"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "operations[1].type")

	_, err = DecodeList("operations", map[string]any{"type": "strip"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected an array of operations")
}

func TestApply(t *testing.T) {
	ctx := setupTestLogger(t)

	ops, err := DecodeList("operations", []any{
		map[string]any{"type": "split_lines"},
		map[string]any{"type": "strip"},
		map[string]any{"type": "replace", "old": "b", "new": "B"},
	})
	require.NoError(t, err)

	t.Run("batches_flow_between_operations", func(t *testing.T) {
		got, err := Apply(ctx, ops, []string{" a \n b ", "c\n"}, ".")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "B", "c"}, got)
	})

	t.Run("empty_chain_is_identity", func(t *testing.T) {
		got, err := Apply(ctx, nil, []string{"x", "y"}, ".")
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, got)
	})

	t.Run("fan_out_to_nothing", func(t *testing.T) {
		got, err := Apply(ctx, ops, []string{""}, ".")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("chain_sequence", func(t *testing.T) {
		got, err := collect(t, Chain(ctx, ops, "b\nd", "."))
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "d"}, got)
	})
}

func TestEndToEndOperations(t *testing.T) {
	ctx := setupTestLogger(t)

	ops, err := DecodeList("operations", []any{
		map[string]any{"type": "strip"},
		map[string]any{"type": "replace", "old": "WORLD", "new": "there"},
	})
	require.NoError(t, err)

	got, err := Apply(ctx, ops, []string{"  hello WORLD  "}, ".")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello there"}, got)
}
