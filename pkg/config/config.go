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
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/location"
	"github.com/walteh/corpusrc/pkg/schema"
	"github.com/walteh/corpusrc/pkg/source"
	"gitlab.com/tozd/go/errors"
)

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "corpusrc.yaml"

// CompressionGzip is the only supported output compression.
const CompressionGzip = "gzip"

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config is a corpus build configuration.
//
// Source holds the structural source tree exactly as parsed; Validate decodes
// it into a source.Source.
type Config struct {
	Output      string
	Compression string
	Source      any

	source   source.Source
	location string
}

// fromDocument builds a Config from a parsed document. A document whose top
// level carries a type discriminator is itself the source.
func fromDocument(doc any) (*Config, error) {
	obj, err := schema.NewObject("", doc)
	if err != nil {
		return nil, err
	}
	if obj.Has(schema.TypeField) {
		return &Config{Source: doc}, nil
	}

	cfg := &Config{}
	if cfg.Output, err = obj.String("output", ""); err != nil {
		return nil, err
	}
	if cfg.Compression, err = obj.String("compression", ""); err != nil {
		return nil, err
	}
	if cfg.Source, err = obj.Value("source"); err != nil {
		return nil, err
	}
	if err := obj.Done(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := parse(ctx, path, data)
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	cfg.location = abs

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", abs).Str("source", cfg.source.Type()).Msg("configuration loaded")
	return cfg, nil
}

func parse(ctx context.Context, path string, data []byte) (*Config, error) {
	// .corpusrc files may hold either YAML or HCL
	if filepath.Base(path) == ".corpusrc" || strings.EqualFold(filepath.Ext(path), ".corpusrc") {
		cfg, yamlErr := (&YAMLParser{}).Parse(ctx, data)
		if yamlErr == nil {
			return cfg, nil
		}
		cfg, hclErr := (&HCLParser{}).Parse(ctx, data)
		if hclErr == nil {
			return cfg, nil
		}
		return nil, errors.Errorf("parsing %s as YAML (%s) or HCL: %w", path, yamlErr.Error(), hclErr)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// 🔍 Validate decodes the source tree and checks the output settings. It is
// safe to call more than once.
func (cfg *Config) Validate() error {
	if cfg.Compression != "" && cfg.Compression != CompressionGzip {
		return schema.Invalid("compression", "unsupported compression %q (expected %q)", cfg.Compression, CompressionGzip)
	}

	src, err := source.Decode("source", cfg.Source)
	if err != nil {
		return err
	}
	cfg.source = src
	return nil
}

// Location returns the absolute path of the file the config was loaded from,
// or "" for a config that was not loaded from disk.
func (cfg *Config) Location() string {
	return cfg.location
}

// Decoded returns the validated source tree. It is nil until Validate succeeds.
func (cfg *Config) Decoded() source.Source {
	return cfg.source
}

// 🌊 Texts evaluates the source with the config file as the context path.
func (cfg *Config) Texts(ctx context.Context) (iter.Seq2[string, error], error) {
	if cfg.source == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	at := cfg.location
	if at == "" {
		at = "."
	}
	return cfg.source.Texts(ctx, at), nil
}

// OutputPath returns the corpus output path resolved against the config
// file's directory, or "" when no output is configured.
func (cfg *Config) OutputPath() (string, error) {
	if cfg.Output == "" {
		return "", nil
	}
	at := cfg.location
	if at == "" {
		at = "."
	}
	return location.Resolve(at, ".", cfg.Output)
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	out := cfg.Output
	if out == "" {
		out = "stdout"
	}
	if cfg.Compression != "" {
		out += " (" + cfg.Compression + ")"
	}
	kind := "unvalidated"
	if cfg.source != nil {
		kind = cfg.source.Type()
	}
	return fmt.Sprintf("%s source -> %s", kind, out)
}
