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
	"time"

	"github.com/spf13/cobra"
	"github.com/walteh/corpusrc/cmd/corpusrc/opts"
	"github.com/walteh/corpusrc/pkg/build"
	"github.com/walteh/corpusrc/pkg/log"
	"github.com/walteh/corpusrc/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(o *opts.RootOpts) *cobra.Command {
	var (
		outputPath string
		check      bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether the corpus matches its config",
		Long: `Status compares the build record written by the last build with the
current config and output.
It reports one of:
  ok               the output was built from the current config
  config-changed   the config changed since the last build
  output-modified  the output was edited after the last build
  missing          there is no output or no build record`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			target := outputPath
			if target == "" {
				if target, err = cfg.OutputPath(); err != nil {
					return errors.Errorf("resolving output path: %w", err)
				}
			}
			if target == "" {
				return errors.WithStack(build.ErrNoOutput)
			}

			rec, err := state.Load(ctx, state.RecordPath(target))
			if err != nil {
				return err
			}
			hash, err := cfg.Hash(ctx)
			if err != nil {
				return errors.Errorf("hashing config: %w", err)
			}
			status, err := state.Check(ctx, rec, hash)
			if err != nil {
				return errors.Errorf("checking build record: %w", err)
			}

			op := log.OutputOperation{
				Path:    target,
				Status:  string(status),
				IsStale: status != state.StatusOK,
			}
			if rec != nil {
				op.Texts = rec.Texts
				op.Bytes = rec.Bytes
				op.Warnings = rec.Warnings
			}

			console := log.FromContext(ctx)
			console.LogOutputOperation(ctx, op)
			if rec != nil {
				console.Infof("last built %s (build %s)", rec.FinishedAt.Format(time.RFC3339), rec.ID)
			}

			if check && status != state.StatusOK {
				return errors.Errorf("corpus %s is not up to date: %s", target, status)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "check this output instead of the configured one")
	cmd.Flags().BoolVar(&check, "check", false, "exit with an error unless the corpus is up to date")

	return cmd
}
