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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hako/durafmt"
	"github.com/penny-vault/idxstats/healthcheck"
	"github.com/penny-vault/idxstats/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	runInput      string
	runFinancials string
	runOutDir     string
	runNotes      string
	runArchive    bool
	runPublish    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build the canonical table, compute all metrics and render the reports",
	Long: `The run sub-command executes every step of the pipeline in order: the
canonical table is built from the constituent and financials files, the four
metric families are computed and saved as JSON, and the HTML report and
README are rendered into --outdir.

When healthchecks.ping_id is configured the healthchecks.io check is pinged on
success and marked as failed otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		var pinger *healthcheck.Pinger
		pingID := viper.GetString("healthchecks.ping_id")
		if pingID != "" {
			pinger = healthcheck.New(viper.GetString("healthchecks.base_url"))
		}

		fail := func(err error, msg string) {
			if pinger != nil {
				if pingErr := pinger.Fail(ctx, pingID, fmt.Sprintf("%s: %s", msg, err)); pingErr != nil {
					log.Error().Err(pingErr).Msg("healthcheck fail ping failed")
				}
			}
			log.Fatal().Err(err).Msg(msg)
		}

		cfg := pipeline.Config{
			Constituents: runInput,
			Financials:   runFinancials,
			OutDir:       runOutDir,
			Notes:        runNotes,
			Canonical:    canonicalOptions(),
			Render:       renderConfig(),
		}

		result, err := pipeline.Run(ctx, cfg)
		if err != nil {
			fail(err, "pipeline failed")
		}

		if runArchive {
			archived, err := archiveBundle(ctx, dbURL(""), "run", result.Bundle)
			if err != nil {
				fail(err, "could not archive metrics")
			}
			log.Info().Object("Run", archived).Msg("metrics archived")
		}

		if runPublish {
			bucket := viper.GetString("backblaze.bucket")
			numFiles, err := publish(filepath.Join(runOutDir, filepath.Dir(pipeline.SiteFile)), bucket, viper.GetString("backblaze.prefix"))
			if err != nil {
				fail(err, "publish failed")
			}
			log.Info().Int("NumFiles", numFiles).Str("BucketName", bucket).Msg("report published")
		}

		if pinger != nil {
			if err := pinger.Ping(ctx, pingID); err != nil {
				log.Error().Err(err).Msg("healthcheck ping failed")
			}
		}

		fmt.Println(runSummary(result))
	},
}

func runSummary(result *pipeline.Result) string {
	var sb strings.Builder
	keyword := func(s string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
	}

	fmt.Fprintf(&sb,
		"%s\n\nRecords: %s\nIndices: %s\nRun Time: %s\n\n",
		lipgloss.NewStyle().Bold(true).Render("RUN COMPLETE"),
		keyword(fmt.Sprintf("%d", result.NumRecords)),
		keyword(strings.Join(result.Indices, ", ")),
		keyword(durafmt.Parse(result.Elapsed).String()),
	)

	fmt.Fprint(&sb, lipgloss.NewStyle().Bold(true).Render("Files"))
	for _, fn := range result.Files {
		fmt.Fprintf(&sb, "\n%s", keyword(fn))
	}

	return lipgloss.NewStyle().
		Width(60).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(sb.String())
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runInput, "input", "", "constituents file (yaml or json)")
	runCmd.Flags().StringVar(&runFinancials, "fin", "", "financials file (yaml or json)")
	runCmd.Flags().StringVar(&runOutDir, "outdir", "build", "directory for the canonical table, metrics and reports")
	runCmd.Flags().StringVar(&runNotes, "notes", "", "markdown commentary to include")
	runCmd.Flags().BoolVar(&runArchive, "archive", false, "save the metrics to the archive configured in db.url")
	runCmd.Flags().BoolVar(&runPublish, "publish", false, "upload the rendered site to backblaze.bucket")

	for _, name := range []string{"input", "fin"} {
		if err := runCmd.MarkFlagRequired(name); err != nil {
			log.Panic().Err(err).Str("Flag", name).Msg("MarkFlagRequired failed")
		}
	}
}

