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
package db_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/db"
)

var _ = Describe("MigrationURL", func() {
	DescribeTable("rewrites postgres schemes for the pgx driver",
		func(input, expected string) {
			Expect(db.MigrationURL(input)).To(Equal(expected))
		},
		Entry("postgres", "postgres://u:p@localhost:5432/idx", "pgx5://u:p@localhost:5432/idx"),
		Entry("postgresql", "postgresql://localhost/idx?sslmode=disable", "pgx5://localhost/idx?sslmode=disable"),
		Entry("already pgx5", "pgx5://localhost/idx", "pgx5://localhost/idx"),
	)
})
