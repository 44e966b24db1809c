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

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

type Gemini struct{}

func (gemini *Gemini) Name() string {
	return "Gemini"
}

func (gemini *Gemini) Description() string {
	return `Generates the commentary with Google's Gemini API.`
}

func (gemini *Gemini) DefaultModel() string {
	return "gemini-2.0-flash"
}

func (gemini *Gemini) KeyEnv() string {
	return "GEMINI_API_KEY"
}

func (gemini *Gemini) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.APIKey == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredential, gemini.KeyEnv())
	}

	model := opts.Model
	if model == "" {
		model = gemini.DefaultModel()
	}

	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens: int32(opts.maxTokens()),
	})
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}

	zerolog.Ctx(ctx).Info().Str("Model", model).Int("Length", len(text)).Msg("gemini returned commentary")
	return text, nil
}
