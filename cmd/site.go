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

var siteFlags reportFlags

// siteCmd represents the site command
var siteCmd = &cobra.Command{
	Use:   "site",
	Short: "Render the metrics as a static HTML report",
	Run: func(cmd *cobra.Command, args []string) {
		writeReport(&siteFlags, func(cfg *render.Config) {
			cfg.SiteTemplate = siteFlags.template
		}, func(r *render.Renderer) reportFunc {
			return r.Site
		})
	},
}

func init() {
	rootCmd.AddCommand(siteCmd)
	siteFlags.register(siteCmd, "site/index.html")
}
