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
package healthcheck_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/penny-vault/idxstats/healthcheck"
)

var _ = Describe("Pinger", func() {
	var (
		server *httptest.Server
		status int
		path   string
		body   string
	)

	BeforeEach(func() {
		status = http.StatusOK
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			path = r.URL.Path
			body = string(raw)
			w.WriteHeader(status)
		}))
		DeferCleanup(server.Close)
	})

	It("pings the check", func() {
		pinger := healthcheck.New(server.URL + "/")
		Expect(pinger.Ping(context.Background(), "abc-123")).To(Succeed())
		Expect(path).To(Equal("/abc-123"))
	})

	It("reports failures with a message", func() {
		pinger := healthcheck.New(server.URL)
		Expect(pinger.Fail(context.Background(), "abc-123", "pipeline failed")).To(Succeed())
		Expect(path).To(Equal("/abc-123/fail"))
		Expect(body).To(Equal("pipeline failed"))
	})

	It("returns an error for an unexpected status", func() {
		status = http.StatusNotFound
		pinger := healthcheck.New(server.URL)
		Expect(pinger.Ping(context.Background(), "missing")).To(MatchError(healthcheck.ErrStatus))
	})

	It("defaults to healthchecks.io", func() {
		Expect(healthcheck.New("").BaseURL).To(Equal(healthcheck.DefaultBaseURL))
	})
})
