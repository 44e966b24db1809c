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
	"strings"

	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/narrative"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var summaryFlags metricsFlags

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the insights and strengths / weaknesses / cautions for the configured comparison",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		bundle, err := metrics.LoadBundle(ctx, summaryFlags.paths())
		if err != nil {
			log.Fatal().Err(err).Msg("could not load metrics")
		}

		printMarkdown(summaryMarkdown(bundle, comparison()))
	},
}

func summaryMarkdown(bundle *metrics.Bundle, cmp narrative.Comparison) string {
	builder := strings.Builder{}

	builder.WriteString(fmt.Sprintf("# %s vs %s\n\n", cmp.PrimaryLabel, cmp.BenchmarkLabel))
	builder.WriteString("## Insights\n\n")
	for _, insight := range narrative.Insights(bundle, cmp) {
		builder.WriteString(fmt.Sprintf("- %s\n", insight))
	}

	logic := narrative.Summarize(bundle, cmp)
	sections := []struct {
		title string
		items []string
	}{
		{"Strengths", logic.Strengths},
		{"Weaknesses", logic.Weaknesses},
		{"Cautions", logic.Cautions},
	}
	for _, section := range sections {
		builder.WriteString(fmt.Sprintf("\n## %s\n\n", section.title))
		if len(section.items) == 0 {
			builder.WriteString("None identified.\n")
			continue
		}
		for _, item := range section.items {
			builder.WriteString(fmt.Sprintf("- %s\n", item))
		}
	}

	return builder.String()
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryFlags.register(summaryCmd)
}
