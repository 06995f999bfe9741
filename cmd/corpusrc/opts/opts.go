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

package opts

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/corpusrc/pkg/config"
	"github.com/walteh/corpusrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string
	Debug      bool

	// Stdout receives corpora and console output, Stderr receives logs.
	Stdout io.Writer
	Stderr io.Writer
}

// New returns options writing to the process's standard streams.
func New() *RootOpts {
	return &RootOpts{
		ConfigFile: config.DefaultPath,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

// LoadConfig loads and validates the config file named by --config.
func (o *RootOpts) LoadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return nil, errors.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// UserLogger returns a console logger writing to w. Its zerolog mirror is
// only enabled with --debug.
func (o *RootOpts) UserLogger(w io.Writer) *log.Logger {
	level := zerolog.Disabled
	if o.Debug {
		level = zerolog.DebugLevel
	}
	return log.New(w, level)
}
