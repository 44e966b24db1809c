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
	"time"

	"github.com/penny-vault/idxstats/canonical"
	"github.com/penny-vault/idxstats/data"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	buildInput      string
	buildFinancials string
	buildOut        string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Merge constituents and financials into the canonical table",
	Long: `Read the constituent list and the per-company financials, normalize
their field names, keep the latest financials per company and write one
row per (index, code) pair.

The output format follows the extension of --out: .csv, .yaml, .json or
.parquet.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		tbl, err := canonical.Build(ctx, buildInput, buildFinancials, canonicalOptions())
		if err != nil {
			log.Fatal().Err(err).Str("Constituents", buildInput).Str("Financials", buildFinancials).Msg("could not build canonical table")
		}

		if err := data.DumpTable(tbl, buildOut, time.Now().UTC()); err != nil {
			log.Fatal().Err(err).Str("FileName", buildOut).Msg("could not write canonical table")
		}

		log.Info().Str("FileName", buildOut).Int("NumRecords", len(tbl.Rows)).Strs("Indices", tbl.Indices()).Msg("canonical table written")
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildInput, "input", "", "constituents file (yaml or json)")
	buildCmd.Flags().StringVar(&buildFinancials, "fin", "", "financials file (yaml or json)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "canonical table output file")

	for _, name := range []string{"input", "fin", "out"} {
		if err := buildCmd.MarkFlagRequired(name); err != nil {
			log.Panic().Err(err).Str("Flag", name).Msg("MarkFlagRequired failed")
		}
	}
}
