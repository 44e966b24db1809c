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
package data_test

import (
	"math"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/data"
)

var _ = Describe("Number", func() {
	DescribeTable("ParseNumber",
		func(input any, expected data.Number) {
			Expect(data.ParseNumber(input)).To(Equal(expected))
		},
		Entry("float", 1.25, data.Some(1.25)),
		Entry("int", 7, data.Some(7)),
		Entry("numeric string", " 0.8 ", data.Some(0.8)),
		Entry("blank string", "  ", data.Number{}),
		Entry("unparseable string", "n/a", data.Number{}),
		Entry("nil", nil, data.Number{}),
		Entry("NaN", math.NaN(), data.Number{}),
		Entry("infinity", math.Inf(1), data.Number{}),
		Entry("inf string", "inf", data.Number{}),
		Entry("negative infinity string", "-Infinity", data.Number{}),
		Entry("unsupported type", []int{1}, data.Number{}),
	)

	It("writes missing values as null JSON", func() {
		raw, err := json.Marshal(map[string]data.Number{"a": data.Some(1.5), "b": {}})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(MatchJSON(`{"a": 1.5, "b": null}`))
	})

	It("falls back when missing", func() {
		Expect(data.Number{}.Or(data.Some(2))).To(Equal(data.Some(2)))
		Expect(data.Some(1).Or(data.Some(2))).To(Equal(data.Some(1)))
	})

	It("returns a nil pointer for missing values", func() {
		Expect(data.Number{}.Ptr()).To(BeNil())
		Expect(*data.Some(3).Ptr()).To(Equal(3.0))
	})
})
