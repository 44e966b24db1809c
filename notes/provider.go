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
	"errors"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrMissingCredential = errors.New("api key is not configured")
	ErrStatus            = errors.New("status code is invalid")
	ErrEmptyResponse     = errors.New("provider returned no text")
)

// Options configures a single generation request
type Options struct {
	Model       string
	Temperature float64
	APIKey      string
	BaseURL     string
	MaxTokens   int
}

func (opts Options) maxTokens() int {
	if opts.MaxTokens <= 0 {
		return 1024
	}
	return opts.MaxTokens
}

// Provider is a text generation service that can write the commentary
// section of the report
type Provider interface {
	Name() string
	Description() string
	DefaultModel() string
	// KeyEnv is the environment variable that conventionally holds the
	// provider's API key
	KeyEnv() string
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Map holds every provider by its configuration key
var Map = map[string]Provider{
	"openai":    &OpenAI{},
	"anthropic": &Anthropic{},
	"gemini":    &Gemini{},
}
