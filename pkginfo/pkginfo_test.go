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
package pkginfo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/pkginfo"
)

var _ = Describe("Version", func() {
	AfterEach(func() {
		pkginfo.Version = ""
		pkginfo.CommitHash = ""
	})

	It("prefers the linked version", func() {
		pkginfo.Version = "v1.2.3"
		pkginfo.CommitHash = "abc123"
		Expect(pkginfo.ResolvedVersion()).To(Equal("v1.2.3"))
		Expect(pkginfo.BuildVersionString()).To(HavePrefix("idxstats v1.2.3 "))
		Expect(pkginfo.BuildVersionString()).To(ContainSubstring("Commit: abc123"))
	})

	It("marks unknown build metadata", func() {
		Expect(pkginfo.ResolvedVersion()).NotTo(BeEmpty())
		Expect(pkginfo.BuildVersionString()).To(ContainSubstring("Build Date: unknown"))
	})
})
