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
	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/stats"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// statsCommand describes one of the metric family commands; each reads the
// canonical table and writes a single metrics document
type statsCommand struct {
	use     string
	short   string
	compute func(*data.Table) (any, error)
}

var statsCommands = []statsCommand{
	{
		use:   "pbr",
		short: "Compute the share of members below book, mean and median price-to-book per index",
		compute: func(tbl *data.Table) (any, error) {
			return stats.PBR(tbl)
		},
	},
	{
		use:   "roe",
		short: "Compute return on equity median and quartiles per index",
		compute: func(tbl *data.Table) (any, error) {
			return stats.ROE(tbl)
		},
	},
	{
		use:   "yield",
		short: "Compute mean and median dividend yield per index",
		compute: func(tbl *data.Table) (any, error) {
			return stats.Yield(tbl)
		},
	},
	{
		use:   "hhi",
		short: "Compute sector concentration (HHI) and top 10 weight per index",
		compute: func(tbl *data.Table) (any, error) {
			return stats.Concentration(tbl)
		},
	},
}

func newStatsCmd(def statsCommand) *cobra.Command {
	var inFn, outFn string

	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Run: func(cmd *cobra.Command, args []string) {
			tbl, err := data.LoadTable(inFn)
			if err != nil {
				log.Fatal().Err(err).Str("FileName", inFn).Msg("could not load canonical table")
			}

			doc, err := def.compute(tbl)
			if err != nil {
				log.Fatal().Err(err).Str("Metric", def.use).Msg("could not compute metrics")
			}

			if err := metrics.Save(outFn, doc); err != nil {
				log.Fatal().Err(err).Str("FileName", outFn).Msg("could not save metrics")
			}

			log.Info().Str("Metric", def.use).Str("FileName", outFn).Strs("Indices", tbl.Indices()).Msg("metrics written")
		},
	}

	cmd.Flags().StringVar(&inFn, "in", "", "canonical table")
	cmd.Flags().StringVarP(&outFn, "out", "o", "", "metrics output file (json)")
	for _, name := range []string{"in", "out"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			log.Panic().Err(err).Str("Flag", name).Msg("MarkFlagRequired failed")
		}
	}

	return cmd
}

func init() {
	for _, def := range statsCommands {
		rootCmd.AddCommand(newStatsCmd(def))
	}
}
