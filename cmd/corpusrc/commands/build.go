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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/corpusrc/cmd/corpusrc/opts"
	"github.com/walteh/corpusrc/pkg/build"
	"github.com/walteh/corpusrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewBuildCmd creates a new build command
func NewBuildCmd(o *opts.RootOpts) *cobra.Command {
	var (
		outputPath string
		toStdout   bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the corpus described by the config file",
		Long: `Build evaluates the config's source and writes every text it produces,
one per line, to the corpus output.
It will:
1. Load and validate the config
2. Evaluate the source tree lazily
3. Replace the output file once every text was written
4. Record the build next to the output (<output>.lock.json)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			console := log.FromContext(ctx)
			buildOpts := build.Options{Output: outputPath}
			target := outputPath
			switch {
			case toStdout:
				// the corpus owns stdout
				console = o.UserLogger(o.Stderr)
				buildOpts.Stdout = o.Stdout
				target = "stdout"
			case target == "":
				if target, err = cfg.OutputPath(); err != nil {
					return errors.Errorf("resolving output path: %w", err)
				}
			}

			console.StartBuildOperation(ctx, log.BuildOperation{
				Config: o.ConfigFile,
				Source: cfg.Decoded().Type(),
				Output: target,
			})
			defer console.EndBuildOperation(ctx)

			res, err := build.Build(ctx, cfg, buildOpts)
			if err != nil {
				console.LogOutputOperation(ctx, log.OutputOperation{
					Path:     target,
					Status:   "failed",
					IsFailed: true,
				})
				return err
			}

			console.LogOutputOperation(ctx, log.OutputOperation{
				Path:     target,
				Status:   "written",
				Texts:    res.Stats.Texts,
				Bytes:    res.Stats.Bytes,
				Warnings: res.Warnings,
				IsNew:    true,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the corpus here instead of the configured output")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "write the corpus to stdout without a build record")
	cmd.MarkFlagsMutuallyExclusive("output", "stdout")

	return cmd
}
