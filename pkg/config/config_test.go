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
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/corpusrc/pkg/schema"
	"github.com/walteh/corpusrc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

func setupTestLogger(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func collect(t *testing.T, seq iter.Seq2[string, error]) []string {
	t.Helper()
	var out []string
	for s, err := range seq {
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		env         map[string]string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_document",
			filename: "corpusrc.yaml",
			config: `
output: out/corpus.txt
compression: gzip
source:
  type: process
  comment: cleanup
  operations:
    - type: strip
  sources:
    - type: text
      texts: ["  a  ", "b"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "out/corpus.txt", cfg.Output, "output should match")
				assert.Equal(t, CompressionGzip, cfg.Compression, "compression should match")
				assert.Equal(t, source.TypeProcess, cfg.Decoded().Type(), "source should be decoded")
			},
		},
		{
			name:     "yaml_bare_source",
			filename: "corpusrc.yml",
			config: `
type: text
texts: [x, y]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Output)
				assert.Equal(t, source.TypeText, cfg.Decoded().Type())
			},
		},
		{
			name:     "json_document",
			filename: "corpusrc.json",
			config:   `{"output": "corpus.txt", "source": {"type": "find", "file_pattern": ".*\\.md"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "corpus.txt", cfg.Output)
				find, ok := cfg.Decoded().(*source.FindFile)
				require.True(t, ok, "source should be a find source")
				matched, err := find.FilePattern.MatchString("readme.md")
				require.NoError(t, err)
				assert.True(t, matched)
			},
		},
		{
			name:     "hcl_document",
			filename: "corpusrc.hcl",
			env:      map[string]string{"CORPUSRC_TEST_OUT": "from-env"},
			config: `
output = "${env.CORPUSRC_TEST_OUT}/corpus.txt"
source = {
  type = "process"
  operations = [
    { type = "split_lines", keep_ends = true },
  ]
  sources = [
    { type = "text", texts = ["a\nb"] },
  ]
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "from-env/corpus.txt", cfg.Output)
				p, ok := cfg.Decoded().(*source.Process)
				require.True(t, ok)
				require.Len(t, p.Operations, 1)
				assert.Equal(t, "source.operations[0]", p.Operations[0].Path())
			},
		},
		{
			name:     "corpusrc_falls_back_to_hcl",
			filename: ".corpusrc",
			config: `
source = {
  type  = "text"
  texts = []
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, source.TypeText, cfg.Decoded().Type())
			},
		},
		{
			name:     "corpusrc_yaml",
			filename: ".corpusrc",
			config:   "source: {type: text, texts: [a]}\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, source.TypeText, cfg.Decoded().Type())
			},
		},
		{
			name:        "unknown_top_level_key",
			filename:    "corpusrc.yaml",
			config:      "source: {type: text, texts: []}\ndestination: x\n",
			wantErr:     true,
			errContains: "destination: unknown field",
		},
		{
			name:        "missing_source",
			filename:    "corpusrc.yaml",
			config:      "output: corpus.txt\n",
			wantErr:     true,
			errContains: "source: field is required",
		},
		{
			name:        "bad_compression",
			filename:    "corpusrc.yaml",
			config:      "compression: zip\nsource: {type: text, texts: []}\n",
			wantErr:     true,
			errContains: `unsupported compression "zip"`,
		},
		{
			name:        "invalid_source_tree",
			filename:    "corpusrc.json",
			config:      `{"source": {"type": "process", "operations": [{"type": "nope"}], "sources": []}}`,
			wantErr:     true,
			errContains: "source.operations[0].type",
		},
		{
			name:        "json_extra_closing_brace",
			filename:    "corpusrc.json",
			config:      `{"source": {"type": "text", "texts": []}}}`,
			wantErr:     true,
			errContains: "unexpected data after the top-level value",
		},
		{
			name:        "unsupported_extension",
			filename:    "corpusrc.toml",
			config:      "source = 1",
			wantErr:     true,
			errContains: "no parser found",
		},
		{
			name:        "invalid_yaml",
			filename:    "corpusrc.yaml",
			config:      "source: [unclosed",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "hcl_blocks_are_rejected",
			filename:    "corpusrc.hcl",
			config:      "source {\n  type = \"text\"\n}\n",
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "document_must_be_an_object",
			filename:    "corpusrc.json",
			config:      `["a"]`,
			wantErr:     true,
			errContains: "expected an object, got an array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			ctx := setupTestLogger(t)
			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0o644), "writing config file")

			cfg, err := Load(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "Load should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error message should match")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, path, cfg.Location(), "location should be the absolute config path")
			tt.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(setupTestLogger(t), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestConfig_ValidationErrorIsTyped(t *testing.T) {
	cfg := &Config{Source: map[string]any{"type": "text", "texts": "a"}}
	err := cfg.Validate()
	require.Error(t, err)

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "source.texts", verr.Path)
}

func TestConfig_TextsResolveAgainstConfigFile(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "a.txt"), []byte("  alpha  \n"), 0o644))

	path := filepath.Join(dir, "corpusrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output: corpus.txt
source:
  type: process
  operations:
    - type: read_file
    - type: strip
  sources:
    - type: find
      base: docs
`), 0o644))

	cfg, err := Load(ctx, path)
	require.NoError(t, err)

	texts, err := cfg.Texts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, collect(t, texts))

	out, err := cfg.OutputPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "corpus.txt"), out)
}

func TestConfig_OutputPathUnset(t *testing.T) {
	cfg := &Config{Source: map[string]any{"type": "text", "texts": []any{}}}
	out, err := cfg.OutputPath()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfig_Hash(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := t.TempDir()

	write := func(name, content string) *Config {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		cfg, err := Load(ctx, path)
		require.NoError(t, err)
		return cfg
	}

	yamlCfg := write("a.yaml", "source:\n  type: text\n  texts: [a, b]\noutput: out.txt\n")
	jsonCfg := write("b.json", `{"output": "out.txt", "source": {"texts": ["a", "b"], "type": "text"}}`)
	changed := write("c.yaml", "source:\n  type: text\n  texts: [a, c]\noutput: out.txt\n")

	yamlHash, err := yamlCfg.Hash(ctx)
	require.NoError(t, err)
	jsonHash, err := jsonCfg.Hash(ctx)
	require.NoError(t, err)
	changedHash, err := changed.Hash(ctx)
	require.NoError(t, err)

	assert.Len(t, yamlHash, 64)
	assert.Equal(t, yamlHash, jsonHash, "format and key order should not change the hash")
	assert.NotEqual(t, yamlHash, changedHash, "content changes should change the hash")
}

func TestConfig_HashCoversReferencedFiles(t *testing.T) {
	ctx := setupTestLogger(t)
	dir := t.TempDir()

	writeFile := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	hashOf := func() string {
		cfg, err := Load(ctx, filepath.Join(dir, "corpusrc.yaml"))
		require.NoError(t, err)
		h, err := cfg.Hash(ctx)
		require.NoError(t, err)
		return h
	}

	writeFile("corpusrc.yaml", `
output: out.txt
source:
  type: process
  sources:
    - type: text
      texts: [a]
  operations:
    - type: ref
      paths: [ops.json]
`)
	writeFile("ops.json", `[{"type": "ref", "paths": ["nested.json"]}, {"type": "replace", "old": "a", "new": "A"}]`)
	writeFile("nested.json", `[{"type": "ref", "paths": ["ops.json"]}, {"type": "strip"}]`)

	base := hashOf()
	assert.Equal(t, base, hashOf(), "hashing is stable")

	t.Run("referenced_file_edit", func(t *testing.T) {
		writeFile("ops.json", `[{"type": "ref", "paths": ["nested.json"]}, {"type": "replace", "old": "a", "new": "B"}]`)
		assert.NotEqual(t, base, hashOf())
	})

	t.Run("nested_reference_edit", func(t *testing.T) {
		before := hashOf()
		writeFile("nested.json", `[{"type": "ref", "paths": ["ops.json"]}, {"type": "rstrip"}]`)
		assert.NotEqual(t, before, hashOf())
	})

	t.Run("missing_reference", func(t *testing.T) {
		before := hashOf()
		require.NoError(t, os.Remove(filepath.Join(dir, "nested.json")))
		after := hashOf()
		assert.NotEqual(t, before, after)
		assert.Len(t, after, 64)
	})
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		filename string
		want     Parser
	}{
		{filename: "corpusrc.json", want: &JSONParser{}},
		{filename: "CORPUSRC.JSON", want: &JSONParser{}},
		{filename: "corpusrc.yaml", want: &YAMLParser{}},
		{filename: "corpusrc.yml", want: &YAMLParser{}},
		{filename: "corpusrc.hcl", want: &HCLParser{}},
		{filename: "corpusrc.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}
