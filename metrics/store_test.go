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
package metrics_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
)

var _ = Describe("Store", func() {
	var dir string

	samplePBR := func() *metrics.PBR {
		doc := metrics.NewPBR()
		doc.Count["topix"] = 1
		doc.LT1.Set("topix", data.Some(0))
		doc.Mean.Set("topix", data.Number{})
		doc.Median.Set("topix", data.Some(1.5))
		return doc
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("writes sorted, indented JSON without a trailing newline", func() {
		fn := filepath.Join(dir, "metrics", "pbr.json")
		Expect(metrics.Save(fn, samplePBR())).To(Succeed())

		raw, err := os.ReadFile(fn)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(Equal(`{
  "count": {
    "topix": 1
  },
  "lt1": {
    "topix": 0
  },
  "mean": {
    "topix": null
  },
  "median": {
    "topix": 1.5
  }
}`))
	})

	It("is deterministic", func() {
		doc := metrics.NewROE()
		for _, index := range []string{"zeta", "alpha", "mid"} {
			doc.Count[index] = 2
			doc.Median.Set(index, data.Some(4.3))
			for _, q := range metrics.Quantiles {
				doc.Quantiles[q.Key].Set(index, data.Some(q.Q))
			}
		}

		first := filepath.Join(dir, "first.json")
		second := filepath.Join(dir, "second.json")
		Expect(metrics.Save(first, doc)).To(Succeed())
		Expect(metrics.Save(second, doc)).To(Succeed())

		a, err := os.ReadFile(first)
		Expect(err).NotTo(HaveOccurred())
		b, err := os.ReadFile(second)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("round trips null values", func() {
		fn := filepath.Join(dir, "pbr.json")
		Expect(metrics.Save(fn, samplePBR())).To(Succeed())

		loaded := metrics.NewPBR()
		Expect(metrics.Load(fn, loaded)).To(Succeed())
		Expect(loaded.Mean).To(HaveKeyWithValue("topix", BeNil()))
		Expect(loaded.Median.Get("topix")).To(Equal(data.Some(1.5)))
		Expect(loaded.LT1.Get("missing").Valid).To(BeFalse())
	})

	Describe("LoadBundle", func() {
		It("leaves missing documents empty", func() {
			fn := filepath.Join(dir, "pbr.json")
			Expect(metrics.Save(fn, samplePBR())).To(Succeed())

			bundle, err := metrics.LoadBundle(context.Background(), metrics.Paths{
				PBR: fn,
				ROE: filepath.Join(dir, "missing.json"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(bundle.PBR.Count).To(HaveKeyWithValue("topix", 1))
			Expect(bundle.ROE.Median).To(BeEmpty())
			Expect(bundle.Yield.Mean).To(BeEmpty())
			Expect(bundle.Indices()).To(Equal([]string{"topix"}))
		})

		It("fails on a malformed document", func() {
			fn := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(fn, []byte("{not json"), 0o644)).To(Succeed())

			_, err := metrics.LoadBundle(context.Background(), metrics.Paths{Concentration: fn})
			Expect(err).To(MatchError(data.ErrSchema))
		})
	})

	Describe("Observations", func() {
		It("flattens every value in family, metric, index order", func() {
			bundle := metrics.NewBundle()
			bundle.PBR = samplePBR()
			bundle.Concentration.Constituents["b"] = 3
			bundle.Concentration.Constituents["a"] = 2
			bundle.Concentration.HHI.Set("a", data.Some(0.5))

			obs := bundle.Observations()
			keys := make([]string, 0, len(obs))
			for _, o := range obs {
				keys = append(keys, o.Family+"."+o.Metric+"."+o.Index)
			}
			Expect(keys).To(Equal([]string{
				"pbr.count.topix",
				"pbr.lt1.topix",
				"pbr.mean.topix",
				"pbr.median.topix",
				"hhi.constituents.a",
				"hhi.constituents.b",
				"hhi.hhi.a",
			}))
			Expect(obs[2].Value).To(BeNil())
			Expect(*obs[5].Value).To(Equal(3.0))
		})
	})
})
