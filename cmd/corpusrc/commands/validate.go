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
	"github.com/walteh/corpusrc/pkg/log"
	"github.com/walteh/corpusrc/pkg/source"
)

// NewValidateCmd creates a new validate command
func NewValidateCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the config file and print its source tree",
		Long: `Validate loads the config file, decodes every source and operation, and
prints the decoded tree. Nothing is read from the sources themselves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := o.LoadConfig(ctx)
			if err != nil {
				return err
			}

			console := log.FromContext(ctx)
			console.Header(cfg.String())

			outline := source.Outline(cfg.Decoded())
			items := make([]log.TreeItem, 0, len(outline))
			for _, item := range outline {
				items = append(items, log.TreeItem{Level: item.Depth, Text: item.Label})
			}
			if err := console.Tree(items); err != nil {
				return err
			}

			console.LogNewline()
			console.Successf("%s is valid", o.ConfigFile)
			return nil
		},
	}

	return cmd
}
