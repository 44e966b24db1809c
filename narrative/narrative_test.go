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
package narrative_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/canonical"
	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/narrative"
	"github.com/penny-vault/idxstats/stats"
)

var _ = Describe("Narrative", func() {
	var (
		bundle *metrics.Bundle
		cmp    narrative.Comparison
	)

	BeforeEach(func() {
		tbl, err := canonical.Build(context.Background(), "../testdata/constituents.yaml", "../testdata/financials.json", canonical.Options{})
		Expect(err).NotTo(HaveOccurred())

		bundle = metrics.NewBundle()
		bundle.PBR, err = stats.PBR(tbl)
		Expect(err).NotTo(HaveOccurred())
		bundle.ROE, err = stats.ROE(tbl)
		Expect(err).NotTo(HaveOccurred())
		bundle.Yield, err = stats.Yield(tbl)
		Expect(err).NotTo(HaveOccurred())
		bundle.Concentration, err = stats.Concentration(tbl)
		Expect(err).NotTo(HaveOccurred())

		cmp = narrative.DefaultComparison()
	})

	Describe("Summarize", func() {
		It("places each metric family in the right bucket", func() {
			logic := narrative.Summarize(bundle, cmp)
			Expect(logic.Strengths).To(ContainElement(ContainSubstring("PBR")))
			Expect(logic.Strengths).To(ContainElement(ContainSubstring("dividend yield")))
			Expect(logic.Weaknesses).To(ContainElement(ContainSubstring("ROE")))
			Expect(logic.Weaknesses).To(ContainElement(ContainSubstring("HHI")))
			Expect(logic.Cautions).To(BeEmpty())
		})

		It("routes missing data to cautions", func() {
			delete(bundle.ROE.Median, "topix")
			bundle.Yield = nil
			bundle.Concentration.HHI.Set("yomiuri333", data.Number{})
			delete(bundle.Concentration.Top10Weight, "yomiuri333")

			logic := narrative.Summarize(bundle, cmp)
			Expect(logic.Cautions).To(HaveLen(4))
			Expect(logic.Cautions).To(ContainElement(ContainSubstring("ROE")))
			Expect(logic.Cautions).To(ContainElement(ContainSubstring("dividend yield")))
			Expect(logic.Cautions).To(ContainElement(ContainSubstring("HHI")))
			Expect(logic.Weaknesses).To(BeEmpty())
		})

		It("treats a tie as favourable", func() {
			bundle.ROE.Median.Set("yomiuri333", data.Some(4.3))
			bundle.ROE.Median.Set("topix", data.Some(4.3))
			bundle.Concentration.HHI.Set("yomiuri333", data.Some(0.5))
			bundle.Concentration.HHI.Set("topix", data.Some(0.5))

			logic := narrative.Summarize(bundle, cmp)
			Expect(logic.Strengths).To(ContainElement(ContainSubstring("ROE")))
			Expect(logic.Strengths).To(ContainElement(ContainSubstring("HHI")))
			Expect(logic.Weaknesses).To(BeEmpty())
		})

		It("returns empty buckets rather than nil for an empty bundle", func() {
			logic := narrative.Summarize(metrics.NewBundle(), cmp)
			Expect(logic.Strengths).NotTo(BeNil())
			Expect(logic.Weaknesses).NotTo(BeNil())
			Expect(logic.Cautions).To(HaveLen(5))
		})
	})

	Describe("Insights", func() {
		It("writes one sentence per family", func() {
			insights := narrative.Insights(bundle, cmp)
			Expect(insights).To(HaveLen(4))
			Expect(insights[0]).To(Equal("Value: the share of Yomiuri 333 constituents trading below book (PBR<1) is 16.7 pts above TOPIX."))
			Expect(insights[1]).To(Equal("Profitability: the Yomiuri 333 ROE median is lower than TOPIX (4.30 vs 7.50)."))
			Expect(insights[2]).To(HavePrefix("Income: the Yomiuri 333 mean dividend yield is higher than TOPIX (2.35% vs 1.63%)"))
			Expect(insights[3]).To(Equal("Concentration: the Yomiuri 333 sector HHI is 0.500, more concentrated than TOPIX (0.445)."))
		})

		It("falls back when data is missing", func() {
			insights := narrative.Insights(nil, cmp)
			Expect(insights).To(Equal([]string{
				"Value: PBR data is insufficient for a comparison.",
				"Profitability: ROE medians cannot be compared.",
				"Income: dividend yield data is insufficient.",
				"Concentration: sector HHI data is insufficient.",
			}))
		})
	})
})
