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
package notes_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/tidwall/gjson"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/notes"
)

var _ = Describe("Refresh", func() {
	var (
		ctx      context.Context
		dir      string
		promptFn string
		outFn    string
	)

	readOut := func() string {
		raw, err := os.ReadFile(outFn)
		Expect(err).NotTo(HaveOccurred())
		return string(raw)
	}

	BeforeEach(func() {
		ctx = context.Background()
		dir = GinkgoT().TempDir()
		promptFn = filepath.Join(dir, "prompt.md")
		outFn = filepath.Join(dir, "notes", "latest.md")
		Expect(os.WriteFile(promptFn, []byte("Summarize the metrics."), 0o644)).To(Succeed())
	})

	It("fails when the prompt file is missing", func() {
		err := notes.Refresh(ctx, "openai", filepath.Join(dir, "missing.md"), outFn, notes.Options{APIKey: "key"})
		Expect(err).To(MatchError(data.ErrInputNotFound))
	})

	It("writes the placeholder without an API key", func() {
		Expect(notes.Refresh(ctx, "openai", promptFn, outFn, notes.Options{})).To(Succeed())
		Expect(readOut()).To(Equal(notes.Placeholder))
	})

	It("writes the placeholder for an unknown provider", func() {
		Expect(notes.Refresh(ctx, "nope", promptFn, outFn, notes.Options{APIKey: "key"})).To(Succeed())
		Expect(readOut()).To(Equal(notes.Placeholder))
	})

	Context("with the openai provider", func() {
		var (
			server  *httptest.Server
			handler http.HandlerFunc
			body    []byte
			auth    string
			path    string
		)

		BeforeEach(func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ = io.ReadAll(r.Body)
				auth = r.Header.Get("Authorization")
				path = r.URL.Path
				handler(w, r)
			}))
			DeferCleanup(server.Close)
		})

		It("writes the returned output text", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"output_text": "Valuations remain attractive."}`)
			}

			opts := notes.Options{APIKey: "test-key", BaseURL: server.URL, Temperature: 0.2}
			Expect(notes.Refresh(ctx, "openai", promptFn, outFn, opts)).To(Succeed())
			Expect(readOut()).To(Equal("Valuations remain attractive."))

			Expect(path).To(Equal("/responses"))
			Expect(auth).To(Equal("Bearer test-key"))
			Expect(gjson.GetBytes(body, "model").String()).To(Equal("gpt-4o-mini"))
			Expect(gjson.GetBytes(body, "input").String()).To(Equal("Summarize the metrics."))
			Expect(gjson.GetBytes(body, "temperature").Float()).To(BeNumerically("~", 0.2, 1e-9))
		})

		It("joins output message parts", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"output": [{"type": "message", "content": [{"type": "output_text", "text": "First."}, {"type": "output_text", "text": "Second."}]}]}`)
			}

			opts := notes.Options{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4.1"}
			Expect(notes.Refresh(ctx, "openai", promptFn, outFn, opts)).To(Succeed())
			Expect(readOut()).To(Equal("First.\nSecond."))
			Expect(gjson.GetBytes(body, "model").String()).To(Equal("gpt-4.1"))
		})

		It("writes the placeholder on a server error", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, `{"error": {"message": "boom"}}`)
			}

			opts := notes.Options{APIKey: "test-key", BaseURL: server.URL}
			Expect(notes.Refresh(ctx, "openai", promptFn, outFn, opts)).To(Succeed())
			Expect(readOut()).To(Equal(notes.Placeholder))
		})

		It("writes the placeholder for an empty reply", func() {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{"output": []}`)
			}

			opts := notes.Options{APIKey: "test-key", BaseURL: server.URL}
			Expect(notes.Refresh(ctx, "openai", promptFn, outFn, opts)).To(Succeed())
			Expect(readOut()).To(Equal(notes.Placeholder))
		})
	})

	Context("with the anthropic provider", func() {
		It("writes the text blocks of the reply", func() {
			var path string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, `{
  "id": "msg_01",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-haiku-latest",
  "content": [{"type": "text", "text": "Income looks solid."}],
  "stop_reason": "end_turn",
  "stop_sequence": null,
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`)
			}))
			DeferCleanup(server.Close)

			opts := notes.Options{APIKey: "test-key", BaseURL: server.URL}
			Expect(notes.Refresh(ctx, "anthropic", promptFn, outFn, opts)).To(Succeed())
			Expect(readOut()).To(Equal("Income looks solid."))
			Expect(strings.HasSuffix(path, "/v1/messages")).To(BeTrue())
		})
	})

	It("lists every provider with a default model and key variable", func() {
		Expect(notes.Map).To(HaveKey("openai"))
		Expect(notes.Map).To(HaveKey("anthropic"))
		Expect(notes.Map).To(HaveKey("gemini"))
		for _, provider := range notes.Map {
			Expect(provider.DefaultModel()).NotTo(BeEmpty())
			Expect(provider.KeyEnv()).To(HaveSuffix("_API_KEY"))
		}
	})
})
