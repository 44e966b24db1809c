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
package canonical_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/penny-vault/idxstats/canonical"
	"github.com/penny-vault/idxstats/data"
)

var _ = Describe("Source", func() {
	read := func(contents string) (*canonical.Source, error) {
		var node yaml.Node
		Expect(yaml.Unmarshal([]byte(contents), &node)).To(Succeed())
		return canonical.ReadSource(&node)
	}

	DescribeTable("classifies document shapes",
		func(contents string, shape canonical.Shape, numEntries int) {
			src, err := read(contents)
			Expect(err).NotTo(HaveOccurred())
			Expect(src.Shape).To(Equal(shape))
			Expect(src.Flatten()).To(HaveLen(numEntries))
		},
		Entry("bare list", "[{code: a}, {code: b}]", canonical.Flat, 2),
		Entry("records mapping", "records: [{code: a}]", canonical.Flat, 1),
		Entry("grouped lists", "topix: [{code: a}]\nyomiuri333: [{code: b}, {code: c}]", canonical.Grouped, 3),
		Entry("grouped records", "topix: {records: [{code: a}]}", canonical.Grouped, 1),
		Entry("null group is skipped", "topix: null\nyomiuri333: [{code: b}]", canonical.Grouped, 1),
		Entry("non-mapping list items are dropped", "[{code: a}, 7, text]", canonical.Flat, 1),
		Entry("empty document", "", canonical.Flat, 0),
	)

	It("carries the group name onto each entry", func() {
		src, err := read("topix: [{code: a}]")
		Expect(err).NotTo(HaveOccurred())
		Expect(src.Flatten()[0].Group).To(Equal("topix"))
	})

	DescribeTable("rejects malformed shapes",
		func(contents string) {
			_, err := read(contents)
			Expect(err).To(MatchError(data.ErrSchema))
		},
		Entry("scalar group", "topix: 3"),
		Entry("mapping group without records", "topix: {code: a}"),
		Entry("scalar document", "hello"),
	)
})
