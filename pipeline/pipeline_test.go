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
package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/pipeline"
	"github.com/penny-vault/idxstats/render"
)

var _ = Describe("Pipeline", func() {
	var (
		ctx context.Context
		cfg pipeline.Config
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = pipeline.Config{
			Constituents: "../testdata/constituents.yaml",
			Financials:   "../testdata/financials.json",
			OutDir:       GinkgoT().TempDir(),
			Render: render.Config{
				Repository: "acme/idxstats",
				Now: func() time.Time {
					return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
				},
			},
		}
	})

	readAll := func(dir string, files []string) map[string]string {
		contents := make(map[string]string, len(files))
		for _, fn := range files {
			rel, err := filepath.Rel(dir, fn)
			Expect(err).NotTo(HaveOccurred())
			raw, err := os.ReadFile(fn)
			Expect(err).NotTo(HaveOccurred())
			contents[rel] = string(raw)
		}
		return contents
	}

	It("writes the canonical table, metrics and reports", func() {
		result, err := pipeline.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.NumRecords).To(Equal(5))
		Expect(result.Indices).To(Equal([]string{"topix", "yomiuri333"}))
		Expect(result.Files).To(HaveLen(7))

		tbl, err := data.LoadTable(filepath.Join(cfg.OutDir, pipeline.CanonicalFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(tbl.Rows).To(HaveLen(5))

		bundle, err := metrics.LoadBundle(ctx, cfg.Paths())
		Expect(err).NotTo(HaveOccurred())
		Expect(bundle.PBR.LT1.Get("yomiuri333")).To(Equal(data.Some(0.5)))
		Expect(bundle.Concentration.HHI.Get("yomiuri333").Value).To(BeNumerically("~", 0.5, 1e-9))

		readme, err := os.ReadFile(filepath.Join(cfg.OutDir, pipeline.ReadmeFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(readme)).To(ContainSubstring("| yomiuri333 | 50.0% |"))
	})

	It("produces identical output on repeated runs", func() {
		first, err := pipeline.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		firstContents := readAll(cfg.OutDir, first.Files)

		second, err := pipeline.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(readAll(cfg.OutDir, second.Files)).To(Equal(firstContents))
	})

	It("writes empty metrics when financials are missing", func() {
		cfg.Financials = filepath.Join(cfg.OutDir, "missing.json")

		result, err := pipeline.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Bundle.PBR.Count).To(BeEmpty())
		Expect(result.Bundle.Concentration.HHI.Get("topix").Valid).To(BeTrue())

		readme, err := os.ReadFile(filepath.Join(cfg.OutDir, pipeline.ReadmeFile))
		Expect(err).NotTo(HaveOccurred())
		Expect(string(readme)).To(ContainSubstring("N/A"))
	})

	It("treats infinite values as missing", func() {
		cfg.Financials = filepath.Join(cfg.OutDir, "financials.yaml")
		Expect(os.WriteFile(cfg.Financials, []byte(`- {index: yomiuri333, code: "1001", pbr: inf, roe: 5.0, dy: 2.6}
- {index: yomiuri333, code: "2002", pbr: 1.2, roe: 3.6, dy: -Infinity}
`), 0o644)).To(Succeed())

		result, err := pipeline.Run(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Bundle.PBR.Count["yomiuri333"]).To(Equal(1))
		Expect(result.Bundle.PBR.Mean.Get("yomiuri333")).To(Equal(data.Some(1.2)))
		Expect(result.Bundle.Yield.Count["yomiuri333"]).To(Equal(1))
		Expect(filepath.Join(cfg.OutDir, pipeline.SiteFile)).To(BeAnExistingFile())
		Expect(filepath.Join(cfg.OutDir, pipeline.ReadmeFile)).To(BeAnExistingFile())
	})

	It("fails without constituents", func() {
		cfg.Constituents = filepath.Join(cfg.OutDir, "missing.yaml")
		_, err := pipeline.Run(ctx, cfg)
		Expect(err).To(MatchError(data.ErrInputNotFound))
	})
})
