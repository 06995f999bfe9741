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

// Package build turns a loaded config into a corpus on disk or on a writer,
// recording each file build next to its output.
package build

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/config"
	"github.com/walteh/corpusrc/pkg/output"
	"github.com/walteh/corpusrc/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// ErrNoOutput is returned when neither the config nor the options name an
// output.
var ErrNoOutput = errors.Base("no output configured")

// 🔧 Options adjust a single build.
type Options struct {
	// Output overrides the config's output path. Relative paths are used as
	// given (relative to the working directory).
	Output string

	// Stdout, when set, receives the corpus instead of a file. No build
	// record is written.
	Stdout io.Writer
}

// 📊 Result describes a finished build.
type Result struct {
	Output   string // empty when written to Stdout
	Stats    output.Stats
	Warnings int
	Record   *state.Record // nil when written to Stdout
}

// 🚀 Build evaluates cfg and writes the corpus. A file build also writes a
// build record next to the output.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	counter := &warningCounter{}
	ctx = withWarningCounter(ctx, counter)
	logger := zerolog.Ctx(ctx)

	texts, err := cfg.Texts(ctx)
	if err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	if opts.Stdout != nil {
		stats, err := output.Write(ctx, opts.Stdout, texts)
		if err != nil {
			return nil, errors.Errorf("building corpus: %w", err)
		}
		return &Result{Stats: stats, Warnings: counter.count()}, nil
	}

	path := opts.Output
	if path == "" {
		if path, err = cfg.OutputPath(); err != nil {
			return nil, errors.Errorf("resolving output path: %w", err)
		}
	}
	if path == "" {
		return nil, errors.WithStack(ErrNoOutput)
	}

	logger.Info().Str("output", path).Str("compression", cfg.Compression).Msg("building corpus")

	stats, err := output.WriteFile(ctx, path, cfg.Compression, texts)
	if err != nil {
		return nil, errors.Errorf("building corpus: %w", err)
	}

	rec, err := record(ctx, cfg, path, stats, counter.count())
	if err != nil {
		return nil, err
	}

	return &Result{
		Output:   path,
		Stats:    stats,
		Warnings: counter.count(),
		Record:   rec,
	}, nil
}

func record(ctx context.Context, cfg *config.Config, path string, stats output.Stats, warnings int) (*state.Record, error) {
	configHash, err := cfg.Hash(ctx)
	if err != nil {
		return nil, errors.Errorf("hashing config: %w", err)
	}
	outputHash, err := state.HashFile(path)
	if err != nil {
		return nil, errors.Errorf("hashing output: %w", err)
	}

	rec := state.New(cfg.Location(), configHash, path)
	rec.OutputHash = outputHash
	rec.Texts = stats.Texts
	rec.Bytes = stats.Bytes
	rec.Warnings = warnings
	rec.FinishedAt = time.Now().UTC()

	if err := state.Save(ctx, state.RecordPath(path), rec); err != nil {
		return nil, errors.Errorf("saving build record: %w", err)
	}
	return rec, nil
}

// warningCounter counts warning events logged during a build, such as files
// skipped because they could not be decoded.
type warningCounter struct {
	n atomic.Int64
}

func (c *warningCounter) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.WarnLevel {
		c.n.Add(1)
	}
}

func (c *warningCounter) count() int {
	return int(c.n.Load())
}

// withWarningCounter installs counter on the context logger. Hooks only see
// enabled events, so a disabled logger is swapped for one that discards.
func withWarningCounter(ctx context.Context, counter *warningCounter) context.Context {
	logger := *zerolog.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.New(io.Discard).Level(zerolog.WarnLevel)
	}
	return logger.Hook(counter).WithContext(ctx)
}
