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

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

type Anthropic struct{}

func (claude *Anthropic) Name() string {
	return "Anthropic"
}

func (claude *Anthropic) Description() string {
	return `Sends the prompt as a single user message to the Anthropic Messages API.`
}

func (claude *Anthropic) DefaultModel() string {
	return "claude-3-5-haiku-latest"
}

func (claude *Anthropic) KeyEnv() string {
	return "ANTHROPIC_API_KEY"
}

func (claude *Anthropic) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	if opts.APIKey == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingCredential, claude.KeyEnv())
	}

	model := opts.Model
	if model == "" {
		model = claude.DefaultModel()
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(opts.BaseURL))
	}
	client := anthropic.NewClient(clientOpts...)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(opts.maxTokens()),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(opts.Temperature),
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", ErrEmptyResponse
	}

	zerolog.Ctx(ctx).Info().Str("Model", model).Int("Length", text.Len()).Msg("anthropic returned commentary")
	return text.String(), nil
}
