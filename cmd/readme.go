// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"github.com/penny-vault/idxstats/render"
	"github.com/spf13/cobra"
)

var readmeFlags reportFlags

// readmeCmd represents the readme command
var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Render the metrics snapshot and narrative into README.md",
	Run: func(cmd *cobra.Command, args []string) {
		writeReport(&readmeFlags, func(cfg *render.Config) {
			cfg.ReadmeTemplate = readmeFlags.template
		}, func(r *render.Renderer) reportFunc {
			return r.Readme
		})
	},
}

func init() {
	rootCmd.AddCommand(readmeCmd)
	readmeFlags.register(readmeCmd, "README.md")
}
