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
package notes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const openAIBaseURL = "https://api.openai.com/v1"

type OpenAI struct{}

type responsesReq struct {
	Model           string  `json:"model"`
	Input           string  `json:"input"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
}

func (openai *OpenAI) Name() string {
	return "OpenAI"
}

func (openai *OpenAI) Description() string {
	return `Submits the prompt to the OpenAI Responses API and uses the returned output text as the report commentary.`
}

func (openai *OpenAI) DefaultModel() string {
	return "gpt-4o-mini"
}

func (openai *OpenAI) KeyEnv() string {
	return "OPENAI_API_KEY"
}

func (openai *OpenAI) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	logger := zerolog.Ctx(ctx)

	if opts.APIKey == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredential, openai.KeyEnv())
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	model := opts.Model
	if model == "" {
		model = openai.DefaultModel()
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(2 * time.Minute)

	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(opts.APIKey).
		SetBody(responsesReq{
			Model:           model,
			Input:           prompt,
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxTokens,
		}).
		Post("/responses")

	if err != nil {
		return "", err
	}

	if resp.StatusCode() >= 300 {
		logger.Error().Int("StatusCode", resp.StatusCode()).Str("Body", gjson.GetBytes(resp.Body(), "error.message").String()).Msg("openai responses request failed")
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
	}

	text := responseText(resp.Body())
	if text == "" {
		return "", ErrEmptyResponse
	}

	logger.Info().Str("Model", model).Int("Length", len(text)).Msg("openai returned commentary")
	return text, nil
}

// responseText extracts the generated text from a Responses API body. It
// prefers the aggregated output_text field, then the output message parts,
// then chat-completion style choices.
func responseText(body []byte) string {
	if text := gjson.GetBytes(body, "output_text"); text.Exists() && text.String() != "" {
		return text.String()
	}

	parts := make([]string, 0)
	gjson.GetBytes(body, "output").ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, content gjson.Result) bool {
			if text := content.Get("text"); text.Exists() {
				parts = append(parts, text.String())
			}
			return true
		})
		return true
	})

	if len(parts) == 0 {
		gjson.GetBytes(body, "choices.#.message.content").ForEach(func(_, content gjson.Result) bool {
			if content.String() != "" {
				parts = append(parts, content.String())
			}
			return true
		})
	}

	return strings.Join(parts, "\n")
}
