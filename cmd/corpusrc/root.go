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

package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/corpusrc/cmd/corpusrc/commands"
	"github.com/walteh/corpusrc/cmd/corpusrc/opts"
	"github.com/walteh/corpusrc/pkg/config"
	"github.com/walteh/corpusrc/pkg/log"
)

// newRootCmd creates the root command with every subcommand attached
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpusrc",
		Short: "Build text corpora from declarative source files",
		Long: `corpusrc evaluates a tree of sources described in a config file and
writes the resulting texts, one per line, to a corpus file.

Sources list literal texts, find files on disk, or process the texts of other
sources through operations such as read_file, replace, strip and split_lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupLogging(cmd.Context(), o))
		},
	}

	addRootFlags(cmd, o)

	cmd.AddCommand(
		commands.NewBuildCmd(o),
		commands.NewValidateCmd(o),
		commands.NewStatusCmd(o),
		newVersionCmd(o),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", config.DefaultPath, "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging installs the diagnostic zerolog logger and the console logger
// on ctx. Diagnostics go to stderr so corpora written to stdout stay clean.
func setupLogging(ctx context.Context, o *opts.RootOpts) context.Context {
	level := zerolog.WarnLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: o.Stderr}).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	return log.NewContext(ctx, o.UserLogger(o.Stdout))
}
