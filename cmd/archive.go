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
	"context"

	"github.com/penny-vault/idxstats/db"
	"github.com/penny-vault/idxstats/library"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	archiveFlags  metricsFlags
	archiveDBUrl  string
	archiveSource string
)

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Save the current metrics documents as a run in the PostgreSQL archive",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		bundle, err := metrics.LoadBundle(ctx, archiveFlags.paths())
		if err != nil {
			log.Fatal().Err(err).Msg("could not load metrics")
		}

		run, err := archiveBundle(ctx, dbURL(archiveDBUrl), archiveSource, bundle)
		if err != nil {
			log.Fatal().Err(err).Msg("could not archive metrics")
		}

		log.Info().Object("Run", run).Msg("metrics archived")
	},
}

// archiveBundle migrates the archive schema and stores bundle as a new run
func archiveBundle(ctx context.Context, url, source string, bundle *metrics.Bundle) (*library.Run, error) {
	if err := db.Migrate(url); err != nil {
		return nil, err
	}

	myLibrary := &library.Library{DBUrl: url}
	if err := myLibrary.Connect(ctx); err != nil {
		return nil, err
	}
	defer myLibrary.Close()

	cmp := comparison()
	run := &library.Run{
		Source:         source,
		PrimaryIndex:   cmp.Primary,
		BenchmarkIndex: cmp.Benchmark,
	}

	if err := myLibrary.SaveRun(ctx, run, bundle.Observations()); err != nil {
		return nil, err
	}

	return run, nil
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveFlags.register(archiveCmd)
	archiveCmd.Flags().StringVar(&archiveDBUrl, "db-url", "", "database connection string (defaults to db.url)")
	archiveCmd.Flags().StringVar(&archiveSource, "source", "archive", "label stored with the run")
}
