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
	"github.com/penny-vault/idxstats/library"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	historyDBUrl string
	historyLimit int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the runs stored in the metrics archive",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		myLibrary, err := library.NewFromDB(ctx, dbURL(historyDBUrl))
		if err != nil {
			log.Fatal().Err(err).Msg("could not load library info")
		}
		defer myLibrary.Close()

		summary, err := myLibrary.Summary(ctx, historyLimit)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create archive summary document")
		}

		printMarkdown(summary)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyDBUrl, "db-url", "", "database connection string (defaults to db.url)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of runs to list")
}
