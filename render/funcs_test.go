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
package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/render"
)

var _ = Describe("Template functions", func() {
	DescribeTable("FormatNumber",
		func(v any, digits int, expected string) {
			Expect(render.FormatNumber(v, digits)).To(Equal(expected))
		},
		Entry("present", data.Some(1.236), 2, "1.24"),
		Entry("missing", data.Number{}, 2, render.NotAvailable),
		Entry("nil", nil, 3, render.NotAvailable),
		Entry("plain float", 0.5, 3, "0.500"),
	)

	DescribeTable("FormatPercent",
		func(v any, expected string) {
			Expect(render.FormatPercent(v, 1)).To(Equal(expected))
		},
		Entry("fraction", data.Some(0.5), "50.0%"),
		Entry("whole share", data.Some(1), "100.0%"),
		Entry("small fraction", data.Some(0.008), "0.8%"),
		Entry("share above one", data.Some(1.25), "125.0%"),
		Entry("missing", data.Number{}, render.NotAvailable),
	)

	It("formats counts with separators", func() {
		Expect(render.FormatCount(1234567)).To(Equal("1,234,567"))
		Expect(render.FormatCount(data.Number{})).To(Equal(render.NotAvailable))
	})

	Describe("At", func() {
		It("returns a missing number for absent keys and nil maps", func() {
			var nilValues metrics.Values
			Expect(render.At(nilValues, "topix")).To(Equal(data.Number{}))
			Expect(render.At(metrics.Values{"topix": nil}, "topix")).To(Equal(data.Number{}))
			Expect(render.At(metrics.Counts{}, "topix")).To(Equal(data.Number{}))
			Expect(render.At("not a map", "topix")).To(Equal(data.Number{}))
		})

		It("returns present values", func() {
			vals := metrics.Values{}
			vals.Set("topix", data.Some(0.25))
			Expect(render.At(vals, "topix")).To(Equal(data.Some(0.25)))
			Expect(render.At(metrics.Counts{"topix": 3}, "topix")).To(Equal(data.Some(3)))
		})

		It("looks up nested quantile maps", func() {
			doc := metrics.NewROE()
			doc.Quantiles["25"].Set("topix", data.Some(6.5))
			inner := render.At(doc.Quantiles, "25")
			Expect(render.At(inner, "topix")).To(Equal(data.Some(6.5)))
		})
	})
})
