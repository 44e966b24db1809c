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
package library_test

import (
	"context"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/db"
	"github.com/penny-vault/idxstats/library"
	"github.com/penny-vault/idxstats/metrics"
)

var _ = Describe("Archive", Ordered, func() {
	var (
		ctx       context.Context
		myLibrary *library.Library
	)

	BeforeAll(func() {
		dbURL := os.Getenv("IDXSTATS_TEST_DB_URL")
		if dbURL == "" {
			Skip("IDXSTATS_TEST_DB_URL is not set")
		}

		ctx = context.Background()
		Expect(db.Migrate(dbURL)).To(Succeed())

		var err error
		myLibrary, err = library.NewFromDB(ctx, dbURL)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(myLibrary.Close)
	})

	It("saves a run with its observations", func() {
		before, err := myLibrary.NumRuns(ctx)
		Expect(err).NotTo(HaveOccurred())

		bundle := metrics.NewBundle()
		bundle.PBR.Count["topix"] = 3
		bundle.PBR.LT1.Set("topix", data.Some(0.25))
		bundle.PBR.Mean.Set("topix", data.Number{})

		run := &library.Run{Source: "test", PrimaryIndex: "yomiuri333", BenchmarkIndex: "topix"}
		Expect(myLibrary.SaveRun(ctx, run, bundle.Observations())).To(Succeed())
		Expect(run.NumObservations).To(Equal(3))

		after, err := myLibrary.NumRuns(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(Equal(before + 1))

		observations, err := myLibrary.RunObservations(ctx, run.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(observations).To(HaveLen(3))
		Expect(observations[0].Metric).To(Equal("count"))
		Expect(observations[2].Value).To(BeNil())

		runs, err := myLibrary.Runs(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(runs[0].ID).To(Equal(run.ID))
	})
})
